package session

import (
	"context"
	"os"
	"testing"
	"time"

	"escola-gestao/internal/iam/domain/model"
	"escola-gestao/internal/iam/domain/tenant"
	"escola-gestao/internal/iam/domain/user"
	"escola-gestao/internal/infra/jwt"
	"escola-gestao/internal/pkg/util"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const senhaTeste = "Senha@123"

func TestMain(m *testing.M) {
	err := jwt.Init(jwt.Config{
		AccessSecret: "segredo-de-teste-access",
		Issuer:       "escola-gestao-test",
		AccessExpiry: time.Hour,
	})
	if err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type storeFixture struct {
	db     *gorm.DB
	store  Store
	escola model.Escola
}

func newFixture(t *testing.T) *storeFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&model.Escola{}, &model.Usuario{}, &AccessToken{}))

	escola := model.Escola{Slug: "minha-escola", Nome: "Minha Escola", Live: true}
	require.NoError(t, db.Create(&escola).Error)

	usuarios := user.NewService(user.NewRepository(db))
	directory := tenant.NewService(tenant.NewRepository(db))
	store := NewStore(NewRepository(db), usuarios, directory, Config{})

	return &storeFixture{db: db, store: store, escola: escola}
}

func (f *storeFixture) seedUsuario(t *testing.T, email string, role model.UserRole, trocarSenha bool) model.Usuario {
	t.Helper()

	hash, err := util.UsePassword().Hash(senhaTeste)
	require.NoError(t, err)

	u := model.Usuario{
		EscolaUUID:  &f.escola.UUID,
		Nome:        "Usuário Teste",
		Email:       email,
		Password:    hash,
		Role:        role,
		TrocarSenha: trocarSenha,
		Live:        true,
	}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func TestSignInCredenciaisInvalidas(t *testing.T) {
	f := newFixture(t)
	f.seedUsuario(t, "ana@minhaescola.com.br", model.RoleAdmin, false)

	ctx := context.Background()

	_, err := f.store.SignIn(ctx, "desconhecido@minhaescola.com.br", senhaTeste)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.store.SignIn(ctx, "ana@minhaescola.com.br", "senha-errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.store.SignIn(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInUsuarioInativo(t *testing.T) {
	f := newFixture(t)
	u := f.seedUsuario(t, "inativa@minhaescola.com.br", model.RoleProfessor, false)
	require.NoError(t, f.db.Model(&model.Usuario{}).Where("uuid = ?", u.UUID).Update("live", false).Error)

	_, err := f.store.SignIn(context.Background(), u.Email, senhaTeste)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInEstabeleceSessaoComPerfil(t *testing.T) {
	f := newFixture(t)
	u := f.seedUsuario(t, "ana@minhaescola.com.br", model.RoleAdmin, false)

	ctx := context.Background()
	login, err := f.store.SignIn(ctx, u.Email, senhaTeste)
	require.NoError(t, err)
	require.NotEmpty(t, login.Token.Token)
	require.NotNil(t, login.Escola)
	assert.Equal(t, f.escola.Slug, login.Escola.Slug)
	assert.True(t, login.Token.Expiry.After(time.Now()))

	// Email é normalizado no login.
	login2, err := f.store.SignIn(ctx, "  ANA@minhaescola.com.br ", senhaTeste)
	require.NoError(t, err)
	assert.Equal(t, u.UUID, login2.Usuario.UUID)

	snap, err := f.store.Snapshot(ctx, login2.Token.Token)
	require.NoError(t, err)
	require.NotNil(t, snap.Session)
	require.NotNil(t, snap.Profile)
	assert.False(t, snap.Loading)
	assert.Equal(t, u.UUID, snap.Profile.UUID)
	assert.Equal(t, model.RoleAdmin, snap.Profile.Role)
	require.NotNil(t, snap.Escola)
	assert.Equal(t, f.escola.UUID, snap.Escola.UUID)
}

func TestSignInRevogaSessaoAnterior(t *testing.T) {
	f := newFixture(t)
	u := f.seedUsuario(t, "bruno@minhaescola.com.br", model.RoleProfessor, false)

	ctx := context.Background()
	primeiro, err := f.store.SignIn(ctx, u.Email, senhaTeste)
	require.NoError(t, err)

	segundo, err := f.store.SignIn(ctx, u.Email, senhaTeste)
	require.NoError(t, err)
	require.NotEqual(t, primeiro.Token.Token, segundo.Token.Token)

	snap, err := f.store.Snapshot(ctx, primeiro.Token.Token)
	require.NoError(t, err)
	assert.Nil(t, snap.Session, "sessão anterior deve estar revogada")

	snap, err = f.store.Snapshot(ctx, segundo.Token.Token)
	require.NoError(t, err)
	assert.NotNil(t, snap.Session)
}

func TestSignOutTornaSessaoAnonima(t *testing.T) {
	f := newFixture(t)
	u := f.seedUsuario(t, "ana@minhaescola.com.br", model.RoleAdmin, false)

	ctx := context.Background()
	login, err := f.store.SignIn(ctx, u.Email, senhaTeste)
	require.NoError(t, err)

	require.NoError(t, f.store.SignOut(ctx, login.Token.Token))

	snap, err := f.store.Snapshot(ctx, login.Token.Token)
	require.NoError(t, err)
	assert.Nil(t, snap.Session)
	assert.Nil(t, snap.Profile)
}

func TestSnapshotTokenDesconhecidoEAnonimo(t *testing.T) {
	f := newFixture(t)

	ctx := context.Background()
	snap, err := f.store.Snapshot(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, snap.Session)

	snap, err = f.store.Snapshot(ctx, "token-inexistente")
	require.NoError(t, err)
	assert.Nil(t, snap.Session)
}

func TestSnapshotTokenExpiradoEAnonimo(t *testing.T) {
	f := newFixture(t)
	u := f.seedUsuario(t, "ana@minhaescola.com.br", model.RoleAdmin, false)

	repo := NewRepository(f.db)
	expirado := AccessToken{
		UserUUID: &u.UUID,
		Token:    "token-expirado",
		Expiry:   time.Now().UTC().Add(-time.Minute),
	}
	require.NoError(t, repo.CreateToken(context.Background(), expirado))

	snap, err := f.store.Snapshot(context.Background(), "token-expirado")
	require.NoError(t, err)
	assert.Nil(t, snap.Session)
}

func TestTrocaDeSenhaAtualizaPerfilAntesDeResponder(t *testing.T) {
	f := newFixture(t)
	u := f.seedUsuario(t, "novata@minhaescola.com.br", model.RoleAluno, true)

	ctx := context.Background()
	login, err := f.store.SignIn(ctx, u.Email, senhaTeste)
	require.NoError(t, err)
	assert.True(t, login.Usuario.TrocarSenha)

	usuarios := user.NewService(user.NewRepository(f.db))
	require.NoError(t, usuarios.ChangeSenha(ctx, u.UUID, "NovaSenha@456"))

	snap, err := f.store.RefreshProfile(ctx, login.Token.Token)
	require.NoError(t, err)
	require.NotNil(t, snap.Profile)
	assert.False(t, snap.Profile.TrocarSenha)

	// A sessão sobrevive à troca; só a senha muda.
	_, err = f.store.SignIn(ctx, u.Email, "NovaSenha@456")
	require.NoError(t, err)
	_, err = f.store.SignIn(ctx, u.Email, senhaTeste)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSubscribeNotificaEventosDeSessao(t *testing.T) {
	f := newFixture(t)
	u := f.seedUsuario(t, "ana@minhaescola.com.br", model.RoleAdmin, false)

	var eventos []Event
	unsubscribe := f.store.Subscribe(func(ev Event) {
		eventos = append(eventos, ev)
	})

	ctx := context.Background()
	login, err := f.store.SignIn(ctx, u.Email, senhaTeste)
	require.NoError(t, err)
	require.NoError(t, f.store.SignOut(ctx, login.Token.Token))

	require.Len(t, eventos, 2)
	assert.Equal(t, EventSignIn, eventos[0].Kind)
	assert.Equal(t, u.UUID, eventos[0].UserUUID)
	assert.Equal(t, EventSignOut, eventos[1].Kind)

	// Após cancelar, nenhum evento novo chega.
	unsubscribe()
	_, err = f.store.SignIn(ctx, u.Email, senhaTeste)
	require.NoError(t, err)
	assert.Len(t, eventos, 2)
}

func TestPerfilSemVinculoDeEscola(t *testing.T) {
	f := newFixture(t)

	hash, err := util.UsePassword().Hash(senhaTeste)
	require.NoError(t, err)
	sysadmin := model.Usuario{
		UUID:     uuid.New(),
		Nome:     "Suporte",
		Email:    "suporte@escolagestao.com.br",
		Password: hash,
		Role:     model.RoleSysAdmin,
		Live:     true,
	}
	require.NoError(t, f.db.Create(&sysadmin).Error)

	ctx := context.Background()
	login, err := f.store.SignIn(ctx, sysadmin.Email, senhaTeste)
	require.NoError(t, err)
	assert.Nil(t, login.Escola)

	snap, err := f.store.Snapshot(ctx, login.Token.Token)
	require.NoError(t, err)
	require.NotNil(t, snap.Profile)
	assert.Nil(t, snap.Profile.EscolaUUID)
	assert.Nil(t, snap.Escola)
}
