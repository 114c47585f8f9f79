package session

import "errors"

// Erros tipados do provedor de identidade: o chamador decide por
// errors.Is, nunca por pânico.
var (
	ErrInvalidCredentials  = errors.New("credenciais inválidas")
	ErrRateLimited         = errors.New("muitas tentativas de login")
	ErrProviderUnavailable = errors.New("provedor de identidade indisponível")
)
