package auth

import (
	"time"

	"escola-gestao/internal/iam/domain/model"
	"escola-gestao/internal/iam/domain/user"

	"github.com/google/uuid"
)

type EscolaDto struct {
	UUID uuid.UUID `json:"uuid"`
	Slug string    `json:"slug"`
	Nome string    `json:"nome"`
}

func newEscolaDto(e *model.Escola) *EscolaDto {
	if e == nil {
		return nil
	}
	return &EscolaDto{UUID: e.UUID, Slug: e.Slug, Nome: e.Nome}
}

// RedirectDto descreve o destino pós-login; Hard indica navegação
// completa para outra origem.
type RedirectDto struct {
	Location string `json:"location"`
	Hard     bool   `json:"hard"`
}

type LoginResponse struct {
	Usuario  user.UsuarioResponseDto `json:"usuario"`
	Escola   *EscolaDto              `json:"escola,omitempty"`
	Token    string                  `json:"token"`
	Expire   time.Time               `json:"expire"`
	Redirect *RedirectDto            `json:"redirect,omitempty"`
}

type SessaoResponse struct {
	Usuario       user.UsuarioResponseDto `json:"usuario"`
	Escola        *EscolaDto              `json:"escola,omitempty"`
	Token         string                  `json:"token"`
	SystemTimeUTC time.Time               `json:"system_time_utc"`
	Expire        time.Time               `json:"expire"`
}
