package guard

import (
	"testing"
	"time"

	"escola-gestao/internal/iam/domain/model"
	"escola-gestao/internal/iam/resolver"
	"escola-gestao/internal/iam/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var (
	escolaA = model.Escola{UUID: uuid.New(), Slug: "escola-a", Nome: "Escola A", Live: true}
	escolaB = model.Escola{UUID: uuid.New(), Slug: "escola-b", Nome: "Escola B", Live: true}
)

func resolved(e model.Escola) resolver.Resolution {
	return resolver.Resolution{State: resolver.StateResolved, Escola: &e}
}

func snapshotFor(role model.UserRole, escolaUUID *uuid.UUID, trocarSenha bool) session.Snapshot {
	profile := &model.Usuario{
		UUID:        uuid.New(),
		EscolaUUID:  escolaUUID,
		Nome:        "Usuário Teste",
		Email:       "teste@example.com",
		Role:        role,
		TrocarSenha: trocarSenha,
		Live:        true,
	}
	return session.Snapshot{
		Session: &session.Session{
			UserUUID: profile.UUID,
			Email:    profile.Email,
			Token:    "token",
			Expiry:   time.Now().Add(time.Hour),
		},
		Profile: profile,
	}
}

func TestEvaluateUnauthenticatedRedirectsToLogin(t *testing.T) {
	routes := []struct {
		path string
		req  RouteRequirement
	}{
		{"/dashboard", Requires()},
		{"/trocar-senha", Requires()},
		{"/admin", Requires(model.RoleAdmin, model.RoleSysAdmin)},
		{"/professores", Requires(model.RoleAdmin, model.RoleProfessor)},
		{"/financeiro", Requires(model.RoleAdmin)},
	}

	for _, rt := range routes {
		d := Evaluate(resolved(escolaA), session.Snapshot{}, rt.req, rt.path, "")
		assert.Equal(t, ActionRedirectLogin, d.Action, "rota %s", rt.path)
		assert.Equal(t, LoginRoute, d.Location)
	}
}

func TestEvaluateLoadingPrecedesEverything(t *testing.T) {
	// Resolução pendente: nem a falta de sessão decide nada.
	d := Evaluate(resolver.Resolution{State: resolver.StatePending}, session.Snapshot{}, Requires(), "/dashboard", "")
	assert.Equal(t, ActionLoading, d.Action)

	// Perfil ainda carregando: sessão existe mas nada é negado.
	snap := snapshotFor(model.RoleAluno, &escolaA.UUID, false)
	snap.Profile = nil
	snap.Loading = true
	d = Evaluate(resolved(escolaA), snap, Requires(model.RoleAdmin), "/admin", "")
	assert.Equal(t, ActionLoading, d.Action)
}

func TestEvaluateTenantErrors(t *testing.T) {
	d := Evaluate(resolver.Resolution{State: resolver.StateNotFound}, session.Snapshot{}, Requires(), "/dashboard", "")
	assert.Equal(t, ActionEscolaNotFound, d.Action)

	d = Evaluate(resolver.Resolution{State: resolver.StateLoadError}, snapshotFor(model.RoleAdmin, &escolaA.UUID, false), Requires(), "/dashboard", "")
	assert.Equal(t, ActionEscolaLoadError, d.Action)
}

func TestEvaluateForcedPasswordChangePrecedesRoles(t *testing.T) {
	snap := snapshotFor(model.RoleAdmin, &escolaA.UUID, true)

	d := Evaluate(resolved(escolaA), snap, Requires(model.RoleAdmin), "/admin", "")
	assert.Equal(t, ActionRedirectTrocarSenha, d.Action)
	assert.Equal(t, TrocarSenhaRoute, d.Location)

	// Na própria rota de troca não há loop de redirect.
	d = Evaluate(resolved(escolaA), snap, Requires(), TrocarSenhaRoute, "")
	assert.Equal(t, ActionRender, d.Action)
}

func TestEvaluateRoleDenied(t *testing.T) {
	professor := snapshotFor(model.RoleProfessor, &escolaA.UUID, false)

	d := Evaluate(resolved(escolaA), professor, Requires(model.RoleAdmin), "/financeiro", "")
	assert.Equal(t, ActionRedirectUnauthorized, d.Action)
	assert.Equal(t, UnauthorizedRoute, d.Location)

	d = Evaluate(resolved(escolaA), professor, Requires(model.RoleAdmin, model.RoleProfessor), "/professores", "")
	assert.Equal(t, ActionRender, d.Action)
}

func TestEvaluateEmptyRoleSetAllowsAnyAuthenticated(t *testing.T) {
	for _, role := range []model.UserRole{model.RoleAdmin, model.RoleProfessor, model.RoleResponsavel, model.RoleAluno, model.RoleSysAdmin} {
		snap := snapshotFor(role, &escolaA.UUID, false)
		if role == model.RoleSysAdmin {
			snap.Profile.EscolaUUID = nil
		}
		d := Evaluate(resolved(escolaA), snap, Requires(), "/dashboard", "")
		assert.Equal(t, ActionRender, d.Action, "papel %s", role)
	}
}

func TestEvaluateUnknownRoleNeverAuthorized(t *testing.T) {
	snap := snapshotFor(model.UserRole("COORDENADOR"), &escolaA.UUID, false)

	d := Evaluate(resolved(escolaA), snap, Requires(), "/dashboard", "")
	assert.Equal(t, ActionRedirectUnauthorized, d.Action)

	d = Evaluate(resolved(escolaA), snap, Requires(model.RoleAdmin), "/admin", "")
	assert.Equal(t, ActionRedirectUnauthorized, d.Action)
}

func TestEvaluateEscolaMismatchTreatedAsUnauthenticated(t *testing.T) {
	snap := snapshotFor(model.RoleAdmin, &escolaA.UUID, false)

	d := Evaluate(resolved(escolaB), snap, Requires(), "/dashboard", "")
	assert.Equal(t, ActionRedirectLogin, d.Action)

	// O desvio vence inclusive a troca obrigatória de senha.
	snap = snapshotFor(model.RoleAdmin, &escolaA.UUID, true)
	d = Evaluate(resolved(escolaB), snap, Requires(), "/dashboard", "")
	assert.Equal(t, ActionRedirectLogin, d.Action)
}

func TestEvaluateSysAdminCrossesEscolas(t *testing.T) {
	snap := snapshotFor(model.RoleSysAdmin, nil, false)

	for _, res := range []resolver.Resolution{resolved(escolaA), resolved(escolaB), {State: resolver.StateNoEscola}} {
		d := Evaluate(res, snap, Requires(model.RoleAdmin, model.RoleSysAdmin), "/admin", "")
		assert.Equal(t, ActionRender, d.Action)
	}
}

func TestEvaluatePreservesQueryOnRedirects(t *testing.T) {
	d := Evaluate(resolved(escolaA), session.Snapshot{}, Requires(), "/dashboard", "escola=escola-a&ref=promo")
	assert.Equal(t, LoginRoute+"?escola=escola-a&ref=promo", d.Location)

	snap := snapshotFor(model.RoleAluno, &escolaA.UUID, true)
	d = Evaluate(resolved(escolaA), snap, Requires(), "/dashboard", "ref=promo")
	assert.Equal(t, TrocarSenhaRoute+"?ref=promo", d.Location)

	snap = snapshotFor(model.RoleAluno, &escolaA.UUID, false)
	d = Evaluate(resolved(escolaA), snap, Requires(model.RoleAdmin), "/admin", "ref=promo")
	assert.Equal(t, UnauthorizedRoute+"?ref=promo", d.Location)
}
