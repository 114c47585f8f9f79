package user

import "github.com/google/uuid"

type ProvisionarRequest struct {
	Nome       string     `json:"nome" binding:"required"`
	Email      string     `json:"email" binding:"required,email"`
	Role       UserRole   `json:"role" binding:"required"`
	EscolaUUID *uuid.UUID `json:"escola_uuid"`
}
