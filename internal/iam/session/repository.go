package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"escola-gestao/internal/iam/domain/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateToken(ctx context.Context, m AccessToken) error
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
	GetLogin(ctx context.Context, token string) (*Login, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) CreateToken(ctx context.Context, m AccessToken) error {
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *repositoryImpl) RevokeToken(ctx context.Context, token string) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&AccessToken{}).
		Where("token = ?", token).
		Update("expire_date", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&AccessToken{}).
		Where("user_uuid = ? AND expire_date > ?", userID, now).
		Update("expire_date", now)
	return result.Error
}

type loginQueryResult struct {
	Token          string         `gorm:"column:token"`
	Expiry         time.Time      `gorm:"column:expire_date"`
	UserUUID       uuid.UUID      `gorm:"column:user_uuid"`
	UserEscolaUUID *uuid.UUID     `gorm:"column:escola_uuid"`
	UserNome       string         `gorm:"column:usuario_nome"`
	UserEmail      string         `gorm:"column:usuario_email"`
	UserPwdHash    string         `gorm:"column:password_hash"`
	UserRole       model.UserRole `gorm:"column:role"`
	UserTrocar     bool           `gorm:"column:trocar_senha"`
	UserLive       bool           `gorm:"column:live"`
	UserCreateAt   time.Time      `gorm:"column:create_at"`
	UserUpdateAt   time.Time      `gorm:"column:update_at"`
	EscolaSlug     sql.NullString `gorm:"column:escola_slug"`
	EscolaNome     sql.NullString `gorm:"column:escola_nome"`
	EscolaLive     sql.NullBool   `gorm:"column:escola_live"`
	EscolaCreateAt sql.NullTime   `gorm:"column:escola_create_at"`
	EscolaUpdateAt sql.NullTime   `gorm:"column:escola_update_at"`
}

const loginQuery = `
SELECT
        ut.token,
        ut.expire_date,
        ut.user_uuid,
        u.escola_uuid,
        u.nome AS usuario_nome,
        u.email AS usuario_email,
        u.password_hash,
        u.role,
        u.trocar_senha,
        u.live,
        u.create_at,
        u.update_at,
        e.slug AS escola_slug,
        e.nome AS escola_nome,
        e.live AS escola_live,
        e.create_at AS escola_create_at,
        e.update_at AS escola_update_at
FROM usuario_tokens AS ut
INNER JOIN usuarios AS u ON u.uuid = ut.user_uuid
LEFT JOIN escola AS e ON e.uuid = u.escola_uuid
WHERE ut.token = ?
LIMIT 1`

// GetLogin carrega sessão, perfil e vínculo de escola em uma única
// consulta: o consumidor nunca observa sessão com perfil parcial.
func (r *repositoryImpl) GetLogin(ctx context.Context, token string) (*Login, error) {
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}

	var result loginQueryResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Raw(loginQuery, token).Scan(&result)
		if query.Error != nil {
			return query.Error
		}
		if query.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("erro ao carregar login: %w", err)
	}

	login := &Login{
		Usuario: model.Usuario{
			UUID:        result.UserUUID,
			EscolaUUID:  result.UserEscolaUUID,
			Nome:        result.UserNome,
			Email:       result.UserEmail,
			Password:    result.UserPwdHash,
			Role:        result.UserRole,
			TrocarSenha: result.UserTrocar,
			Live:        result.UserLive,
			CreateAt:    result.UserCreateAt,
			UpdateAt:    result.UserUpdateAt,
		},
		Token: AccessToken{
			UserUUID: &result.UserUUID,
			Token:    result.Token,
			Expiry:   result.Expiry,
		},
	}

	if result.UserEscolaUUID != nil {
		escola := model.Escola{
			UUID: *result.UserEscolaUUID,
			Slug: result.EscolaSlug.String,
			Nome: result.EscolaNome.String,
		}
		if result.EscolaLive.Valid {
			escola.Live = result.EscolaLive.Bool
		}
		if result.EscolaCreateAt.Valid {
			escola.CreateAt = result.EscolaCreateAt.Time
		}
		if result.EscolaUpdateAt.Valid {
			escola.UpdateAt = result.EscolaUpdateAt.Time
		}
		login.Escola = &escola
		login.Usuario.Escola = escola
	}

	return login, nil
}
