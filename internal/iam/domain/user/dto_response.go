package user

import (
	"time"

	"github.com/google/uuid"
)

type UsuarioResponseDto struct {
	UUID        uuid.UUID  `json:"uuid"`
	EscolaUUID  *uuid.UUID `json:"escola_uuid,omitempty"`
	Nome        string     `json:"nome"`
	Email       string     `json:"email"`
	Role        UserRole   `json:"role"`
	TrocarSenha bool       `json:"trocar_senha"`
	Live        bool       `json:"live"`
	CreateAt    time.Time  `json:"create_at"`
	UpdateAt    time.Time  `json:"update_at"`
}

func NewUsuarioResponseDto(u Usuario) UsuarioResponseDto {
	return UsuarioResponseDto{
		UUID:        u.UUID,
		EscolaUUID:  u.EscolaUUID,
		Nome:        u.Nome,
		Email:       u.Email,
		Role:        u.Role,
		TrocarSenha: u.TrocarSenha,
		Live:        u.Live,
		CreateAt:    u.CreateAt,
		UpdateAt:    u.UpdateAt,
	}
}
