package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin       UserRole = "ADMIN"
	RoleProfessor   UserRole = "PROFESSOR"
	RoleResponsavel UserRole = "RESPONSAVEL"
	RoleAluno       UserRole = "ALUNO"
	RoleSysAdmin    UserRole = "SYSADMIN"
)

// Usuario é o perfil de aplicação vinculado a uma sessão autenticada.
// EscolaUUID é nulo apenas para perfis de sistema (SYSADMIN); TrocarSenha
// obriga o usuário a definir uma nova senha antes de acessar qualquer
// outra página protegida.
type Usuario struct {
	UUID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EscolaUUID  *uuid.UUID `gorm:"type:uuid;index"`
	Nome        string     `gorm:"type:varchar(255);not null"`
	Email       string     `gorm:"type:varchar(255);not null;unique"`
	Password    string     `gorm:"column:password_hash;type:varchar(255);not null"`
	Role        UserRole   `gorm:"type:varchar(20);not null;default:'ALUNO'"`
	TrocarSenha bool       `gorm:"column:trocar_senha;not null;default:false"`
	Live        bool       `gorm:"not null;default:true"`
	CreateAt    time.Time  `gorm:"column:create_at;not null;autoCreateTime"`
	UpdateAt    time.Time  `gorm:"column:update_at;not null;autoUpdateTime"`
	Escola      Escola     `gorm:"foreignKey:EscolaUUID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Usuario) TableName() string {
	return "usuarios"
}

// BeforeCreate gera o UUID na aplicação, sem depender de default do banco.
func (u *Usuario) BeforeCreate(_ *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	return nil
}
