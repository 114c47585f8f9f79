package guard

import (
	"errors"
	"sync"

	"escola-gestao/internal/iam/resolver"
	"escola-gestao/internal/iam/session"
)

var (
	guardInstance     *Guard
	once              sync.Once
	initErr           error
	ErrNotInitialized = errors.New("access guard not initialized")
)

// New inicializa o singleton do guard com resolvedor e armazém de sessão
func New(r resolver.Resolver, s session.Store) (*Guard, error) {
	once.Do(func() {
		if r == nil || s == nil {
			initErr = errors.New("resolver and session store cannot be nil")
			return
		}
		guardInstance = NewGuard(r, s)
	})

	return guardInstance, initErr
}

// MustUse entra em pânico se o singleton não foi inicializado
func MustUse() *Guard {
	if guardInstance == nil {
		panic(ErrNotInitialized)
	}
	return guardInstance
}
