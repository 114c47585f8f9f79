package guard

import (
	"net/http"
	"strings"

	"escola-gestao/internal/iam/resolver"
	"escola-gestao/internal/iam/session"
	"escola-gestao/internal/pkg/log/auditoria_log"
	"escola-gestao/internal/pkg/rest_err"

	"github.com/gin-gonic/gin"
)

// Guard liga resolvedor e armazém de sessão à avaliação por navegação.
type Guard struct {
	resolver resolver.Resolver
	sessions session.Store
}

func NewGuard(r resolver.Resolver, s session.Store) *Guard {
	return &Guard{resolver: r, sessions: s}
}

// Protect devolve o middleware de guarda para uma rota com o requisito
// informado. A resolução de tenant sempre completa antes de qualquer
// decisão de autenticação; falhas viram estados do guard, nunca pânico.
func (g *Guard) Protect(req RouteRequirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := g.resolver.Resolve(c.Request.Context(), c.Request.Host, c.Request.URL.Query())

		snap, err := g.sessions.Snapshot(c.Request.Context(), tokenFrom(c))
		if err != nil {
			snap = session.Snapshot{}
		}

		decision := Evaluate(res, snap, req, c.Request.URL.Path, c.Request.URL.RawQuery)

		switch decision.Action {
		case ActionRender:
			if res.Escola != nil {
				SetEscola(c, res.Escola)
			}
			SetAuthenticatedUser(c, &snap)
			c.Next()

		case ActionLoading:
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusAccepted, gin.H{"status": "carregando"})

		case ActionEscolaNotFound:
			restErr := rest_err.NewNotFoundError("Escola não encontrada para este endereço.")
			c.AbortWithStatusJSON(restErr.Code, restErr)

		case ActionEscolaLoadError:
			restErr := rest_err.NewExternalProviderError("Falha ao carregar os dados da escola. Tente novamente.", nil)
			c.AbortWithStatusJSON(restErr.Code, restErr)

		case ActionRedirectUnauthorized:
			logDenial(c, snap, decision)
			redirectTo(c, decision.Location)

		default:
			redirectTo(c, decision.Location)
		}
	}
}

// redirectTo executa o redirect decidido pelo guard; requisições HTMX
// recebem HX-Redirect no lugar de um 302
func redirectTo(c *gin.Context, location string) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", location)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Redirect(http.StatusFound, location)
	c.Abort()
}

// tokenFrom lê o token da sessão web (colocado no contexto pelo
// middleware de cookie) ou do header Authorization.
func tokenFrom(c *gin.Context) string {
	if value, exists := c.Get(TokenContextKey); exists {
		if token, ok := value.(string); ok && token != "" {
			return token
		}
	}
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func logDenial(c *gin.Context, snap session.Snapshot, decision Decision) {
	entry := auditoria_log.AuditLog{
		Domain:     "guard",
		Action:     decision.Action.String(),
		Function:   "Protect",
		Success:    false,
		InputData:  auditoria_log.SerializeData(gin.H{"path": c.Request.URL.Path, "host": c.Request.Host}),
		OutputData: auditoria_log.SerializeData(gin.H{"location": decision.Location}),
	}
	if snap.Profile != nil {
		entry.UserUUID = &snap.Profile.UUID
		entry.EscolaUUID = snap.Profile.EscolaUUID
		entry.Identifier = snap.Profile.Email
	}
	auditoria_log.LogAsync(c.Request.Context(), entry)
}
