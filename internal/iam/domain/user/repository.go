package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"escola-gestao/internal/iam/domain/tenant"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, usuario Usuario) (Usuario, error)
	ReadByEmail(ctx context.Context, email string) (Usuario, error)
	ReadByUUID(ctx context.Context, id uuid.UUID) (Usuario, error)
	UpdateSenha(ctx context.Context, id uuid.UUID, passwordHash string, trocarSenha bool) error
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{
		db: db,
	}
}

func (r *repositoryImpl) Create(ctx context.Context, usuario Usuario) (Usuario, error) {
	result := r.db.WithContext(ctx).Create(&usuario)
	if result.Error == nil {
		return usuario, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(result.Error, &pgErr) {
		if pgErr.Code == "23505" {
			return Usuario{}, ErrEmailDuplicated
		}
		if pgErr.Code == "23503" {
			return Usuario{}, tenant.ErrNotFound
		}
	}
	// O driver sqlite dos testes não expõe códigos pgconn
	if strings.Contains(result.Error.Error(), "UNIQUE constraint failed") {
		return Usuario{}, ErrEmailDuplicated
	}
	return Usuario{}, result.Error
}

func (r *repositoryImpl) ReadByEmail(ctx context.Context, email string) (Usuario, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return Usuario{}, ErrInvalidInput
	}

	var usuario Usuario
	query := r.db.WithContext(ctx).Where("email = ?", email).First(&usuario)
	if query.Error != nil {
		if errors.Is(query.Error, gorm.ErrRecordNotFound) {
			return Usuario{}, ErrNotFound
		}
		return Usuario{}, fmt.Errorf("erro ao ler usuário: %w", query.Error)
	}
	return usuario, nil
}

func (r *repositoryImpl) ReadByUUID(ctx context.Context, id uuid.UUID) (Usuario, error) {
	if id == uuid.Nil {
		return Usuario{}, ErrInvalidInput
	}

	var usuario Usuario
	query := r.db.WithContext(ctx).First(&usuario, "uuid = ?", id)
	if query.Error != nil {
		if errors.Is(query.Error, gorm.ErrRecordNotFound) {
			return Usuario{}, ErrNotFound
		}
		return Usuario{}, fmt.Errorf("erro ao ler usuário: %w", query.Error)
	}
	return usuario, nil
}

// UpdateSenha grava o novo hash e o estado da flag de troca obrigatória em
// uma única escrita, para que o guard nunca reavalie contra um perfil parcial.
func (r *repositoryImpl) UpdateSenha(ctx context.Context, id uuid.UUID, passwordHash string, trocarSenha bool) error {
	if id == uuid.Nil || passwordHash == "" {
		return ErrInvalidInput
	}

	result := r.db.WithContext(ctx).
		Model(&Usuario{}).
		Where("uuid = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"trocar_senha":  trocarSenha,
			"update_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
