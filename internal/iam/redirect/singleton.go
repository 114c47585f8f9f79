package redirect

import (
	"errors"
	"sync"

	"escola-gestao/internal/iam/domain/tenant"

	"github.com/spf13/viper"
)

var (
	redirectorInstance *Redirector
	once               sync.Once
	initErr            error
	ErrNotInitialized  = errors.New("cross-tenant redirector not initialized")
)

// New inicializa o singleton do redirecionador pós-login
func New(directory tenant.Service) (*Redirector, error) {
	once.Do(func() {
		if directory == nil {
			initErr = errors.New("tenant directory cannot be nil")
			return
		}
		redirectorInstance = NewRedirector(directory, Config{
			RootDomain: viper.GetString("app.root_domain"),
		})
	})

	return redirectorInstance, initErr
}

// MustUse entra em pânico se o singleton não foi inicializado
func MustUse() *Redirector {
	if redirectorInstance == nil {
		panic(ErrNotInitialized)
	}
	return redirectorInstance
}
