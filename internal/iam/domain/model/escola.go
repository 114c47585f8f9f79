package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Escola é o tenant do sistema: uma escola identificada pelo slug usado
// como subdomínio em produção ou via parâmetro ?escola= em desenvolvimento.
// O slug é único e imutável após o provisionamento.
type Escola struct {
	UUID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slug     string    `gorm:"type:varchar(63);not null;unique"`
	Nome     string    `gorm:"type:varchar(255);not null"`
	Live     bool      `gorm:"type:boolean;not null;default:true"`
	CreateAt time.Time `gorm:"column:create_at;not null;autoCreateTime"`
	UpdateAt time.Time `gorm:"column:update_at;not null;autoUpdateTime"`
}

func (Escola) TableName() string {
	return "escola"
}

// BeforeCreate gera o UUID na aplicação, sem depender de default do banco.
func (e *Escola) BeforeCreate(_ *gorm.DB) error {
	if e.UUID == uuid.Nil {
		e.UUID = uuid.New()
	}
	return nil
}
