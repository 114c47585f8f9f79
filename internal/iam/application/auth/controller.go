package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"escola-gestao/internal/iam/domain/user"
	"escola-gestao/internal/iam/redirect"
	"escola-gestao/internal/iam/session"
	"escola-gestao/internal/pkg/log/auditoria_log"
	"escola-gestao/internal/pkg/rest_err"
	"escola-gestao/internal/pkg/util"
	webMiddleware "escola-gestao/internal/web/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

type Controller interface {
	Routes(routes gin.IRouter)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	TrocarSenha(c *gin.Context)
	Sessao(c *gin.Context)
}

type controllerImpl struct {
	store      session.Store
	usuarios   user.Service
	redirector *redirect.Redirector
	cookies    *sessions.CookieStore
}

func NewController(store session.Store, usuarios user.Service, redirector *redirect.Redirector, cookies *sessions.CookieStore) Controller {
	return &controllerImpl{
		store:      store,
		usuarios:   usuarios,
		redirector: redirector,
		cookies:    cookies,
	}
}

// Routes registra as rotas de autenticação
func (ctrl *controllerImpl) Routes(routes gin.IRouter) {
	authGroup := routes.Group("/auth")
	{
		authGroup.POST("/login", ctrl.Login)
		authGroup.POST("/logout", ctrl.Logout)
		authGroup.POST("/senha", ctrl.TrocarSenha)
		authGroup.GET("/sessao", ctrl.Sessao)
	}
}

// @Summary Efetua o login do usuário
// @Description Recebe email e senha, autentica e retorna o token de acesso com o destino pós-login.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credenciais do Usuário (Email e Senha)"
// @Success 200 {object} LoginResponse "Login bem-sucedido"
// @Failure 400 {object} rest_err.RestErr "Requisição inválida (JSON mal formatado)"
// @Failure 404 {object} rest_err.RestErr "Credenciais inválidas (usuário/senha errados)"
// @Failure 429 {object} rest_err.RestErr "Muitas tentativas de login"
// @Failure 500 {object} rest_err.RestErr "Erro interno do servidor"
// @Router /api/auth/login [post]
func (ctrl *controllerImpl) Login(c *gin.Context) {
	traceID := c.GetHeader("X-Request-ID")
	if traceID == "" {
		traceID = uuid.NewString()
	}
	c.Header("X-Request-ID", traceID)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		restErr := rest_err.NewBadRequestError("invalid json body")
		auditoria_log.LogAsync(c.Request.Context(), auditoria_log.AuditLog{
			Identifier:   req.Email,
			RayTraceCode: traceID,
			Domain:       "auth",
			Action:       "login",
			Function:     "Login",
			Success:      false,
			OutputData:   auditoria_log.SerializeData(restErr),
		})
		c.JSON(restErr.Code, restErr)
		return
	}

	login, err := ctrl.store.SignIn(c.Request.Context(), req.Email, req.Senha)
	if err != nil {
		var restError *rest_err.RestErr
		switch {
		case errors.Is(err, session.ErrInvalidCredentials):
			restError = rest_err.NewNotFoundError(err.Error())

		case errors.Is(err, session.ErrRateLimited):
			restError = rest_err.NewTooManyRequestsError(err.Error())

		case errors.Is(err, session.ErrProviderUnavailable):
			restError = rest_err.NewExternalProviderError("identity provider unavailable", nil)

		default:
			restError = rest_err.NewInternalServerError("internal server error", nil)
		}

		auditoria_log.LogAsync(c.Request.Context(), auditoria_log.AuditLog{
			Identifier:   req.Email,
			RayTraceCode: traceID,
			Domain:       "auth",
			Action:       "login",
			Function:     "Login",
			Success:      false,
			OutputData:   auditoria_log.SerializeData(restError),
		})

		c.JSON(restError.Code, restError)
		return
	}

	if err := webMiddleware.SaveToken(c, ctrl.cookies, login.Token.Token); err != nil {
		log.Printf("[AUTH] Falha ao gravar sessão de cookie: %v", err)
	}

	response := LoginResponse{
		Usuario: user.NewUsuarioResponseDto(login.Usuario),
		Escola:  newEscolaDto(login.Escola),
		Token:   login.Token.Token,
		Expire:  login.Token.Expiry,
	}

	target, err := ctrl.redirector.AfterSignIn(c.Request.Context(), login.Usuario, c.Request.Host, c.Request.URL.Query())
	if err != nil {
		log.Printf("[AUTH] Falha ao calcular redirect pós-login: %v", err)
	} else if target != nil {
		response.Redirect = &RedirectDto{Location: target.Location, Hard: target.Hard}
	}

	auditoria_log.LogAsync(c.Request.Context(), auditoria_log.AuditLog{
		UserUUID:     &login.Usuario.UUID,
		EscolaUUID:   login.Usuario.EscolaUUID,
		Identifier:   req.Email,
		RayTraceCode: traceID,
		Domain:       "auth",
		Action:       "login",
		Function:     "Login",
		Success:      true,
		OutputData:   auditoria_log.SerializeData(response.Usuario),
	})

	c.JSON(http.StatusOK, response)
}

// @Summary Encerra a sessão do usuário
// @Description Revoga o token ativo e limpa a sessão de cookie.
// @Tags Auth
// @Produce json
// @Success 202 {object} map[string]string "Sessão encerrada"
// @Failure 401 {object} rest_err.RestErr "Sem sessão ativa"
// @Router /api/auth/logout [post]
func (ctrl *controllerImpl) Logout(c *gin.Context) {
	token := ctrl.extractToken(c)
	if token == "" {
		restErr := rest_err.NewUnauthorizedError("no active session")
		c.JSON(restErr.Code, restErr)
		return
	}

	if err := ctrl.store.SignOut(c.Request.Context(), token); err != nil {
		log.Printf("[AUTH] Logout com token já revogado: %v", err)
	}

	if err := webMiddleware.ClearToken(c, ctrl.cookies); err != nil {
		log.Printf("[AUTH] Falha ao limpar sessão de cookie: %v", err)
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "sessão encerrada"})
}

// @Summary Troca a senha do usuário autenticado
// @Description Valida a senha atual, grava a nova e atualiza o perfil da sessão antes de responder.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body TrocarSenhaRequest true "Senha atual e nova senha"
// @Success 200 {object} SessaoResponse "Senha trocada, perfil atualizado"
// @Failure 400 {object} rest_err.RestErr "Requisição inválida"
// @Failure 401 {object} rest_err.RestErr "Sem sessão ativa"
// @Failure 403 {object} rest_err.RestErr "Senha atual incorreta"
// @Failure 500 {object} rest_err.RestErr "Erro interno do servidor"
// @Router /api/auth/senha [post]
func (ctrl *controllerImpl) TrocarSenha(c *gin.Context) {
	traceID := c.GetHeader("X-Request-ID")
	if traceID == "" {
		traceID = uuid.NewString()
	}
	c.Header("X-Request-ID", traceID)

	token := ctrl.extractToken(c)
	snap, err := ctrl.store.Snapshot(c.Request.Context(), token)
	if err != nil || snap.Session == nil || snap.Profile == nil {
		restErr := rest_err.NewUnauthorizedError("no active session")
		c.JSON(restErr.Code, restErr)
		return
	}

	var req TrocarSenhaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		restErr := rest_err.NewBadRequestError("invalid json body")
		c.JSON(restErr.Code, restErr)
		return
	}

	if err := util.UsePassword().Compare(snap.Profile.Password, req.SenhaAtual); err != nil {
		restErr := rest_err.NewForbiddenError("senha atual incorreta")
		auditoria_log.LogAsync(c.Request.Context(), auditoria_log.AuditLog{
			UserUUID:     &snap.Profile.UUID,
			EscolaUUID:   snap.Profile.EscolaUUID,
			Identifier:   snap.Profile.Email,
			RayTraceCode: traceID,
			Domain:       "auth",
			Action:       "trocar_senha",
			Function:     "TrocarSenha",
			Success:      false,
			OutputData:   auditoria_log.SerializeData(restErr),
		})
		c.JSON(restErr.Code, restErr)
		return
	}

	if err := ctrl.usuarios.ChangeSenha(c.Request.Context(), snap.Profile.UUID, req.NovaSenha); err != nil {
		restErr := rest_err.NewInternalServerError("internal server error", nil)
		c.JSON(restErr.Code, restErr)
		return
	}

	// O perfil é recarregado antes de responder: quem chamou nunca
	// observa a flag de troca obrigatória desatualizada.
	refreshed, err := ctrl.store.RefreshProfile(c.Request.Context(), token)
	if err != nil || refreshed.Profile == nil {
		restErr := rest_err.NewInternalServerError("internal server error", nil)
		c.JSON(restErr.Code, restErr)
		return
	}

	auditoria_log.LogAsync(c.Request.Context(), auditoria_log.AuditLog{
		UserUUID:     &refreshed.Profile.UUID,
		EscolaUUID:   refreshed.Profile.EscolaUUID,
		Identifier:   refreshed.Profile.Email,
		RayTraceCode: traceID,
		Domain:       "auth",
		Action:       "trocar_senha",
		Function:     "TrocarSenha",
		Success:      true,
	})

	c.JSON(http.StatusOK, SessaoResponse{
		Usuario:       user.NewUsuarioResponseDto(*refreshed.Profile),
		Escola:        newEscolaDto(refreshed.Escola),
		Token:         token,
		SystemTimeUTC: time.Now().UTC(),
		Expire:        refreshed.Session.Expiry,
	})
}

// @Summary Retorna o estado da sessão atual
// @Description Devolve perfil e escola da sessão ativa; 202 enquanto o perfil ainda está carregando.
// @Tags Auth
// @Produce json
// @Success 200 {object} SessaoResponse "Sessão ativa"
// @Success 202 {object} map[string]string "Perfil ainda carregando"
// @Failure 401 {object} rest_err.RestErr "Sem sessão ativa"
// @Router /api/auth/sessao [get]
func (ctrl *controllerImpl) Sessao(c *gin.Context) {
	token := ctrl.extractToken(c)
	snap, err := ctrl.store.Snapshot(c.Request.Context(), token)
	if err != nil || snap.Session == nil {
		restErr := rest_err.NewUnauthorizedError("no active session")
		c.JSON(restErr.Code, restErr)
		return
	}

	if snap.Loading || snap.Profile == nil {
		c.Header("Retry-After", "1")
		c.JSON(http.StatusAccepted, gin.H{"message": "carregando perfil"})
		return
	}

	c.JSON(http.StatusOK, SessaoResponse{
		Usuario:       user.NewUsuarioResponseDto(*snap.Profile),
		Escola:        newEscolaDto(snap.Escola),
		Token:         token,
		SystemTimeUTC: time.Now().UTC(),
		Expire:        snap.Session.Expiry,
	})
}

func (ctrl *controllerImpl) extractToken(c *gin.Context) string {
	if token := webMiddleware.GetToken(c); token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
