package auth

import (
	"errors"
	"sync"

	"escola-gestao/internal/iam/domain/user"
	"escola-gestao/internal/iam/redirect"
	"escola-gestao/internal/iam/session"

	"github.com/gorilla/sessions"
)

var (
	controllerInstance Controller
	once               sync.Once
	initErr            error
	ErrNotInitialized  = errors.New("auth module not initialized")
)

// UseAuth agrupa a camada exposta do módulo de autenticação
type UseAuth struct {
	Controller Controller
}

// New inicializa o singleton de autenticação; exige que sessão, usuário
// e redirecionador já tenham sido inicializados.
func New(store session.Store, cookies *sessions.CookieStore) (Controller, error) {
	once.Do(func() {
		if store == nil {
			initErr = errors.New("session store cannot be nil")
			return
		}
		if cookies == nil {
			initErr = errors.New("cookie store cannot be nil")
			return
		}

		controllerInstance = NewController(
			store,
			user.MustUse().Service,
			redirect.MustUse(),
			cookies,
		)
	})

	return controllerInstance, initErr
}

// Use retorna a instância singleton do módulo de autenticação
func Use() (Controller, error) {
	if controllerInstance == nil {
		return nil, ErrNotInitialized
	}
	return controllerInstance, nil
}

// MustUse retorna a camada exposta do módulo de autenticação
// Entra em pânico se o singleton não foi inicializado
func MustUse() *UseAuth {
	if controllerInstance == nil {
		panic(ErrNotInitialized)
	}
	return &UseAuth{Controller: controllerInstance}
}
