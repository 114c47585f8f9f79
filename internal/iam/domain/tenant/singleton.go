package tenant

import (
	"errors"
	"sync"

	"gorm.io/gorm"
)

var (
	serviceInstance    Service
	repositoryInstance Repository
	once               sync.Once
	initErr            error
	ErrNotInitialized  = errors.New("tenant directory not initialized")
)

// UseTenant agrupa as camadas do diretório de escolas (Repository, Service)
type UseTenant struct {
	Repository Repository
	Service    Service
}

// New inicializa o singleton do diretório de escolas
func New(db *gorm.DB) (Service, error) {
	once.Do(func() {
		if db == nil {
			initErr = errors.New("database connection cannot be nil")
			return
		}

		// Inicializa as dependências em camadas
		repositoryInstance = NewRepository(db)
		serviceInstance = NewService(repositoryInstance)
	})

	return serviceInstance, initErr
}

// Use retorna a instância singleton do diretório
// Retorna erro se o diretório não foi inicializado
func Use() (Service, error) {
	if serviceInstance == nil {
		return nil, ErrNotInitialized
	}
	return serviceInstance, nil
}

// MustUse retorna todas as camadas (Repository, Service)
// Entra em pânico se o singleton não foi inicializado
func MustUse() *UseTenant {
	if serviceInstance == nil || repositoryInstance == nil {
		panic(ErrNotInitialized)
	}
	return &UseTenant{
		Repository: repositoryInstance,
		Service:    serviceInstance,
	}
}
