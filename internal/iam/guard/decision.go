package guard

import "escola-gestao/internal/iam/domain/model"

// Rotas fixas de destino do guard.
const (
	LoginRoute        = "/login"
	TrocarSenhaRoute  = "/trocar-senha"
	UnauthorizedRoute = "/nao-autorizado"
)

// RouteRequirement é o metadado estático por rota; conjunto vazio de
// papéis significa "qualquer papel autenticado".
type RouteRequirement struct {
	AllowedRoles []model.UserRole
}

// Requires é açúcar para registrar rotas.
func Requires(roles ...model.UserRole) RouteRequirement {
	return RouteRequirement{AllowedRoles: roles}
}

type Action int

const (
	// ActionLoading: resolução ou busca de perfil em andamento.
	ActionLoading Action = iota
	// ActionEscolaNotFound: slug sem escola; terminal, sem retry.
	ActionEscolaNotFound
	// ActionEscolaLoadError: falha de consulta; transitório, com retry.
	ActionEscolaLoadError
	// ActionRedirectLogin: sem sessão (ou sessão de outra escola).
	ActionRedirectLogin
	// ActionRedirectTrocarSenha: troca de senha obrigatória pendente.
	ActionRedirectTrocarSenha
	// ActionRedirectUnauthorized: papel não permitido na rota.
	ActionRedirectUnauthorized
	// ActionRender: acesso autorizado, renderiza a rota pedida.
	ActionRender
)

func (a Action) String() string {
	switch a {
	case ActionLoading:
		return "loading"
	case ActionEscolaNotFound:
		return "escola_not_found"
	case ActionEscolaLoadError:
		return "escola_load_error"
	case ActionRedirectLogin:
		return "redirect_login"
	case ActionRedirectTrocarSenha:
		return "redirect_trocar_senha"
	case ActionRedirectUnauthorized:
		return "redirect_unauthorized"
	case ActionRender:
		return "render"
	default:
		return "unknown"
	}
}

// Decision é o veredito do guard para uma navegação; Location carrega o
// destino dos redirects com a query original preservada.
type Decision struct {
	Action   Action
	Location string
}
