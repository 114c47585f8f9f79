package guard

import (
	"escola-gestao/internal/iam/domain/model"
	"escola-gestao/internal/iam/domain/user"
	"escola-gestao/internal/iam/resolver"
	"escola-gestao/internal/iam/session"
)

// Evaluate é a máquina de estados do guard: função pura, avaliada em
// ordem estrita com primeira correspondência vencendo.
//
//  1. Loading - resolução ou perfil pendente; nada é decidido ainda.
//  2. Erro de tenant - sem escola não há contra o que autorizar.
//  3. Não autenticado - redirect para login, query preservada.
//  4. Vínculo com outra escola - tratado como não autenticado aqui.
//  5. Troca de senha obrigatória - precede qualquer checagem de papel.
//  6. Papel - enum fechado; papel desconhecido nunca autoriza.
//  7. Autorizado.
func Evaluate(res resolver.Resolution, snap session.Snapshot, req RouteRequirement, path, rawQuery string) Decision {
	if res.State == resolver.StatePending || snap.Loading {
		return Decision{Action: ActionLoading}
	}

	switch res.State {
	case resolver.StateNotFound:
		return Decision{Action: ActionEscolaNotFound}
	case resolver.StateLoadError:
		return Decision{Action: ActionEscolaLoadError}
	}

	if snap.Session == nil || snap.Profile == nil {
		return Decision{Action: ActionRedirectLogin, Location: withQuery(LoginRoute, rawQuery)}
	}

	if escolaMismatch(res, snap.Profile) {
		return Decision{Action: ActionRedirectLogin, Location: withQuery(LoginRoute, rawQuery)}
	}

	if snap.Profile.TrocarSenha && path != TrocarSenhaRoute {
		return Decision{Action: ActionRedirectTrocarSenha, Location: withQuery(TrocarSenhaRoute, rawQuery)}
	}

	if !roleAllowed(snap.Profile.Role, req.AllowedRoles) {
		return Decision{Action: ActionRedirectUnauthorized, Location: withQuery(UnauthorizedRoute, rawQuery)}
	}

	return Decision{Action: ActionRender}
}

// escolaMismatch detecta sessão vinculada a outra escola: credenciais da
// escola A não valem no contexto da escola B.
func escolaMismatch(res resolver.Resolution, profile *model.Usuario) bool {
	if profile.Role == model.RoleSysAdmin || profile.EscolaUUID == nil {
		return false
	}
	if res.State != resolver.StateResolved || res.Escola == nil {
		return false
	}
	return *profile.EscolaUUID != res.Escola.UUID
}

func roleAllowed(role model.UserRole, allowed []model.UserRole) bool {
	// Enum fechado: papel fora do enum não passa em nenhuma rota.
	if !user.IsValidUserRole(role) {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

func withQuery(route, rawQuery string) string {
	if rawQuery == "" {
		return route
	}
	return route + "?" + rawQuery
}
