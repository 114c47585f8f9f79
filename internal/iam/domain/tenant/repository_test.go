package tenant

import (
	"context"
	"testing"

	"escola-gestao/internal/iam/domain/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) (Repository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Escola{}))

	return NewRepository(db), db
}

func TestReadBySlugNormalizaEntrada(t *testing.T) {
	repo, db := newTestRepository(t)
	escola := model.Escola{Slug: "minha-escola", Nome: "Minha Escola", Live: true}
	require.NoError(t, db.Create(&escola).Error)

	for _, slug := range []string{"minha-escola", "MINHA-ESCOLA", "  minha-escola  "} {
		found, err := repo.ReadBySlug(context.Background(), slug)
		require.NoError(t, err, "slug %q", slug)
		assert.Equal(t, escola.UUID, found.UUID)
	}

	_, err := repo.ReadBySlug(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReadBySlugIgnoraEscolaDesativada(t *testing.T) {
	repo, db := newTestRepository(t)
	escola := model.Escola{Slug: "desativada", Nome: "Escola Desativada", Live: false}
	require.NoError(t, db.Create(&escola).Error)

	_, err := repo.ReadBySlug(context.Background(), "desativada")
	assert.ErrorIs(t, err, ErrNotFound)

	// Por UUID o registro continua acessível para fluxos administrativos.
	found, err := repo.ReadByUUID(context.Background(), escola.UUID)
	require.NoError(t, err)
	assert.False(t, found.Live)
}

func TestReadByUUIDInexistente(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.ReadByUUID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.ReadByUUID(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
