package user

import (
	"context"
	"os"
	"testing"

	"escola-gestao/internal/iam/domain/model"
	"escola-gestao/internal/iam/domain/tenant"
	"escola-gestao/internal/pkg/mailer"
	"escola-gestao/internal/pkg/util"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testDB     *gorm.DB
	testEscola model.Escola
)

func TestMain(m *testing.M) {
	var err error
	testDB, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}
	if err := testDB.AutoMigrate(&model.Escola{}, &model.Usuario{}); err != nil {
		panic(err)
	}

	testEscola = model.Escola{Slug: "minha-escola", Nome: "Minha Escola", Live: true}
	if err := testDB.Create(&testEscola).Error; err != nil {
		panic(err)
	}

	// ProvisionarAcesso valida o vínculo via singleton do diretório.
	if _, err := tenant.New(testDB); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func newTestService() Service {
	return NewService(NewRepository(testDB))
}

func TestProvisionarAcessoCriaUsuarioComTrocaObrigatoria(t *testing.T) {
	svc := newTestService()

	created, err := svc.ProvisionarAcesso(context.Background(), Usuario{
		Nome:       "Professor Bruno",
		Email:      "bruno@minhaescola.com.br",
		Role:       RoleProfessor,
		EscolaUUID: &testEscola.UUID,
	})
	// Sem SMTP configurado o usuário existe, mas o erro de envio sobe.
	require.ErrorIs(t, err, mailer.ErrMailerNotInitialized)

	assert.NotEqual(t, uuid.Nil, created.UUID)
	assert.True(t, created.TrocarSenha)
	assert.True(t, created.Live)
	assert.NotEmpty(t, created.Password)

	persisted, err := svc.ReadByEmail(context.Background(), "bruno@minhaescola.com.br")
	require.NoError(t, err)
	assert.Equal(t, created.UUID, persisted.UUID)
	assert.Equal(t, RoleProfessor, persisted.Role)
}

func TestProvisionarAcessoRejeitaPapelForaDoEnum(t *testing.T) {
	svc := newTestService()

	_, err := svc.ProvisionarAcesso(context.Background(), Usuario{
		Nome:  "Coordenador Carlos",
		Email: "carlos@minhaescola.com.br",
		Role:  UserRole("COORDENADOR"),
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestProvisionarAcessoRejeitaEscolaInexistente(t *testing.T) {
	svc := newTestService()
	fantasma := uuid.New()

	_, err := svc.ProvisionarAcesso(context.Background(), Usuario{
		Nome:       "Aluna Alice",
		Email:      "alice@minhaescola.com.br",
		Role:       RoleAluno,
		EscolaUUID: &fantasma,
	})
	assert.ErrorIs(t, err, tenant.ErrNotFound)
}

func TestProvisionarAcessoEmailDuplicado(t *testing.T) {
	svc := newTestService()

	novo := Usuario{
		Nome:       "Responsável Rita",
		Email:      "rita@minhaescola.com.br",
		Role:       RoleResponsavel,
		EscolaUUID: &testEscola.UUID,
	}
	_, err := svc.ProvisionarAcesso(context.Background(), novo)
	require.ErrorIs(t, err, mailer.ErrMailerNotInitialized)

	_, err = svc.ProvisionarAcesso(context.Background(), novo)
	assert.ErrorIs(t, err, ErrEmailDuplicated)
}

func TestChangeSenhaLimpaFlagDeTroca(t *testing.T) {
	svc := newTestService()

	hash, err := util.UsePassword().Hash("Temporaria@1")
	require.NoError(t, err)
	u := model.Usuario{
		EscolaUUID:  &testEscola.UUID,
		Nome:        "Aluna Alice",
		Email:       "alice.troca@minhaescola.com.br",
		Password:    hash,
		Role:        model.RoleAluno,
		TrocarSenha: true,
		Live:        true,
	}
	require.NoError(t, testDB.Create(&u).Error)

	require.NoError(t, svc.ChangeSenha(context.Background(), u.UUID, "Definitiva@2"))

	atual, err := svc.GetProfile(context.Background(), u.UUID)
	require.NoError(t, err)
	assert.False(t, atual.TrocarSenha)
	assert.NoError(t, util.UsePassword().Compare(atual.Password, "Definitiva@2"))
	assert.Error(t, util.UsePassword().Compare(atual.Password, "Temporaria@1"))
}

func TestReadByEmailNormaliza(t *testing.T) {
	svc := newTestService()

	hash, err := util.UsePassword().Hash("Senha@123")
	require.NoError(t, err)
	u := model.Usuario{
		EscolaUUID: &testEscola.UUID,
		Nome:       "Diretora Ana",
		Email:      "ana.norma@minhaescola.com.br",
		Password:   hash,
		Role:       model.RoleAdmin,
		Live:       true,
	}
	require.NoError(t, testDB.Create(&u).Error)

	found, err := svc.ReadByEmail(context.Background(), "  ANA.Norma@minhaescola.com.br ")
	require.NoError(t, err)
	assert.Equal(t, u.UUID, found.UUID)

	_, err = svc.ReadByEmail(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ReadByEmail(context.Background(), "ninguem@minhaescola.com.br")
	assert.ErrorIs(t, err, ErrNotFound)
}
