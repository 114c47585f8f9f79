package resolver

import (
	"errors"
	"sync"
	"time"

	"escola-gestao/internal/iam/domain/tenant"

	"github.com/spf13/viper"
)

var (
	resolverInstance  Resolver
	once              sync.Once
	initErr           error
	ErrNotInitialized = errors.New("tenant resolver not initialized")
)

// New inicializa o singleton do resolvedor a partir da configuração
func New(directory tenant.Service) (Resolver, error) {
	once.Do(func() {
		if directory == nil {
			initErr = errors.New("tenant directory cannot be nil")
			return
		}

		resolverInstance = NewResolver(directory, Config{
			RootDomain: viper.GetString("app.root_domain"),
			CacheTTL:   time.Duration(viper.GetInt64("resolver.cache_ttl_sec")) * time.Second,
			Timeout:    time.Duration(viper.GetInt64("resolver.timeout_sec")) * time.Second,
		})
	})

	return resolverInstance, initErr
}

// Use retorna a instância singleton do resolvedor
func Use() (Resolver, error) {
	if resolverInstance == nil {
		return nil, ErrNotInitialized
	}
	return resolverInstance, nil
}

// MustUse entra em pânico se o singleton não foi inicializado
func MustUse() Resolver {
	if resolverInstance == nil {
		panic(ErrNotInitialized)
	}
	return resolverInstance
}
