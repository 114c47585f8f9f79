package user

import (
	"escola-gestao/internal/iam/domain/model"
)

// --- Type Aliases ---
type Usuario = model.Usuario
type UserRole = model.UserRole

const (
	RoleAdmin       = model.RoleAdmin
	RoleProfessor   = model.RoleProfessor
	RoleResponsavel = model.RoleResponsavel
	RoleAluno       = model.RoleAluno
	RoleSysAdmin    = model.RoleSysAdmin
)

var validRolesMap = map[UserRole]bool{
	RoleAdmin:       true,
	RoleProfessor:   true,
	RoleResponsavel: true,
	RoleAluno:       true,
	RoleSysAdmin:    true,
}

var AllValidRoles = []string{
	"ADMIN",
	"PROFESSOR",
	"RESPONSAVEL",
	"ALUNO",
	"SYSADMIN",
}

// IsValidUserRole valida contra o enum fechado de papéis: um papel
// desconhecido nunca passa por nenhuma checagem de autorização.
func IsValidUserRole(r UserRole) bool {
	_, ok := validRolesMap[r]
	return ok
}
