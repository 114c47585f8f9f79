package handler

import (
	"fmt"
	"html/template"
	"net/http"

	"escola-gestao/internal/iam/guard"
	"escola-gestao/internal/iam/resolver"

	"github.com/gin-gonic/gin"
)

// WebHandler serve as páginas HTML da aplicação. Os handlers são finos:
// toda decisão de acesso já aconteceu no guard antes de chegar aqui.
type WebHandler struct {
	resolver  resolver.Resolver
	templates map[string]*template.Template
}

// NewWebHandler compila os templates das páginas
func NewWebHandler(r resolver.Resolver) (*WebHandler, error) {
	templates := make(map[string]*template.Template)

	pages := []string{
		"login.html",
		"trocar_senha.html",
		"nao_autorizado.html",
		"dashboard.html",
		"secao.html",
	}

	for _, page := range pages {
		tmpl, err := template.New("").ParseFiles(
			"internal/web/templates/base.html",
			"internal/web/templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("error parsing template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &WebHandler{
		resolver:  r,
		templates: templates,
	}, nil
}

func (h *WebHandler) renderTemplate(c *gin.Context, page string, data gin.H) {
	tmpl, ok := h.templates[page]
	if !ok {
		c.String(http.StatusInternalServerError, "Template not found: "+page)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(c.Writer, "base.html", data); err != nil {
		c.String(http.StatusInternalServerError, "Error rendering template: "+err.Error())
	}
}

// ServeLogin exibe a página de login. É pública, mas resolve a escola do
// endereço para mostrar em qual contexto o usuário vai entrar.
func (h *WebHandler) ServeLogin(c *gin.Context) {
	data := gin.H{
		"Title":      "Login",
		"ShowHeader": false,
	}

	res := h.resolver.Resolve(c.Request.Context(), c.Request.Host, c.Request.URL.Query())
	switch res.State {
	case resolver.StateResolved:
		data["EscolaNome"] = res.Escola.Nome
	case resolver.StateNotFound:
		data["Error"] = "Escola não encontrada para este endereço."
	case resolver.StateLoadError:
		data["Error"] = "Falha ao carregar os dados da escola. Tente novamente."
	}

	h.renderTemplate(c, "login.html", data)
}

// ServeTrocarSenha exibe a página de troca obrigatória de senha
func (h *WebHandler) ServeTrocarSenha(c *gin.Context) {
	h.renderTemplate(c, "trocar_senha.html", h.pageData(c, "Trocar senha"))
}

// ServeNaoAutorizado exibe a página de acesso negado
func (h *WebHandler) ServeNaoAutorizado(c *gin.Context) {
	h.renderTemplate(c, "nao_autorizado.html", gin.H{
		"Title":      "Acesso negado",
		"ShowHeader": true,
	})
}

// ServeDashboard exibe o painel pós-login
func (h *WebHandler) ServeDashboard(c *gin.Context) {
	h.renderTemplate(c, "dashboard.html", h.pageData(c, "Painel"))
}

// ServeSecao devolve um handler para as seções gateadas por papel
func (h *WebHandler) ServeSecao(title, descricao string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := h.pageData(c, title)
		data["Descricao"] = descricao
		h.renderTemplate(c, "secao.html", data)
	}
}

// pageData monta os dados comuns das páginas autenticadas a partir do
// contexto preenchido pelo guard
func (h *WebHandler) pageData(c *gin.Context, title string) gin.H {
	data := gin.H{
		"Title":      title,
		"ShowHeader": true,
	}

	if escola, ok := guard.GetEscola(c); ok {
		data["EscolaNome"] = escola.Nome
	}
	if snap, ok := guard.GetAuthenticatedUser(c); ok && snap.Profile != nil {
		data["UsuarioNome"] = snap.Profile.Nome
		data["UsuarioRole"] = string(snap.Profile.Role)
	}

	return data
}
