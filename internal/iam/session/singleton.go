package session

import (
	"errors"
	"sync"
	"time"

	"escola-gestao/internal/iam/domain/tenant"
	"escola-gestao/internal/iam/domain/user"

	"github.com/spf13/viper"
	"gorm.io/gorm"
)

var (
	storeInstance      Store
	repositoryInstance Repository
	once               sync.Once
	initErr            error
	ErrNotInitialized  = errors.New("session store not initialized")
)

// UseSession agrupa as camadas do armazém de sessão (Repository, Store)
type UseSession struct {
	Repository Repository
	Store      Store
}

// New inicializa o singleton do armazém de sessão; exige que os domínios
// de usuário e diretório de escolas já tenham sido inicializados.
func New(db *gorm.DB) (Store, error) {
	once.Do(func() {
		if db == nil {
			initErr = errors.New("database connection cannot be nil")
			return
		}

		repositoryInstance = NewRepository(db)
		storeInstance = NewStore(
			repositoryInstance,
			user.MustUse().Service,
			tenant.MustUse().Service,
			Config{
				RateLimit:  viper.GetInt64("security.login_rate_limit"),
				RateWindow: time.Duration(viper.GetInt64("security.login_rate_window_sec")) * time.Second,
				Lockout:    time.Duration(viper.GetInt64("security.lockout_min")) * time.Minute,
			},
		)
	})

	return storeInstance, initErr
}

// Use retorna a instância singleton do armazém de sessão
func Use() (Store, error) {
	if storeInstance == nil {
		return nil, ErrNotInitialized
	}
	return storeInstance, nil
}

// MustUse retorna todas as camadas (Repository, Store)
// Entra em pânico se o singleton não foi inicializado
func MustUse() *UseSession {
	if storeInstance == nil || repositoryInstance == nil {
		panic(ErrNotInitialized)
	}
	return &UseSession{
		Repository: repositoryInstance,
		Store:      storeInstance,
	}
}
