package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"escola-gestao/internal/iam/domain/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository é o diretório de escolas: somente leitura, o provisionamento
// acontece fora deste subsistema (migrations de seed / fluxo administrativo).
type Repository interface {
	ReadBySlug(ctx context.Context, slug string) (model.Escola, error)
	ReadByUUID(ctx context.Context, id uuid.UUID) (model.Escola, error)
}

type implRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &implRepository{db: db}
}

// ReadBySlug retorna apenas escolas ativas: uma escola desativada é
// indistinguível de uma inexistente para o resolvedor.
func (r *implRepository) ReadBySlug(ctx context.Context, slug string) (model.Escola, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return model.Escola{}, ErrInvalidInput
	}

	var m model.Escola
	query := r.db.WithContext(ctx).
		Where("slug = ? AND live = ?", slug, true).
		First(&m)
	if query.Error != nil {
		if errors.Is(query.Error, gorm.ErrRecordNotFound) {
			return model.Escola{}, ErrNotFound
		}
		return model.Escola{}, fmt.Errorf("erro ao consultar escola: %w", query.Error)
	}
	return m, nil
}

func (r *implRepository) ReadByUUID(ctx context.Context, id uuid.UUID) (model.Escola, error) {
	if id == uuid.Nil {
		return model.Escola{}, ErrInvalidInput
	}

	var m model.Escola
	query := r.db.WithContext(ctx).First(&m, "uuid = ?", id)
	if query.Error != nil {
		if errors.Is(query.Error, gorm.ErrRecordNotFound) {
			return model.Escola{}, ErrNotFound
		}
		return model.Escola{}, fmt.Errorf("erro ao consultar escola: %w", query.Error)
	}
	return m, nil
}
