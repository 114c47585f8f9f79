package user

import (
	"errors"
	"net/http"

	"escola-gestao/internal/iam/domain/tenant"
	"escola-gestao/internal/pkg/mailer"
	"escola-gestao/internal/pkg/rest_err"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	Routes(routes gin.IRouter, authz ...gin.HandlerFunc)
	Provisionar(c *gin.Context)
}

type controllerImpl struct {
	Service Service
}

func NewController(Service Service) Controller {
	return &controllerImpl{
		Service: Service,
	}
}

// Routes registra as rotas de usuário; authz é o middleware de guarda
// aplicado pelo chamador (somente ADMIN/SYSADMIN provisionam acessos)
func (ctrl *controllerImpl) Routes(routes gin.IRouter, authz ...gin.HandlerFunc) {
	userGroup := routes.Group("/usuarios", authz...)
	{
		userGroup.POST("", ctrl.Provisionar)
	}
}

// @Summary Provisiona o acesso de um usuário
// @Description Cria o usuário com senha temporária enviada por e-mail; a troca de senha é obrigatória no primeiro acesso.
// @Tags Usuarios
// @Accept json
// @Produce json
// @Param request body ProvisionarRequest true "Dados do usuário"
// @Success 201 {object} UsuarioResponseDto "Usuário provisionado"
// @Failure 400 {object} rest_err.RestErr "Requisição inválida"
// @Failure 409 {object} rest_err.RestErr "Email já cadastrado"
// @Failure 500 {object} rest_err.RestErr "Erro interno do servidor"
// @Router /api/usuarios [post]
func (ctrl *controllerImpl) Provisionar(c *gin.Context) {
	var req ProvisionarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		restErr := rest_err.NewBadRequestError("invalid json body")
		c.JSON(restErr.Code, restErr)
		return
	}

	novo := Usuario{
		Nome:       req.Nome,
		Email:      req.Email,
		Role:       req.Role,
		EscolaUUID: req.EscolaUUID,
	}

	created, err := ctrl.Service.ProvisionarAcesso(c.Request.Context(), novo)
	if err != nil {
		var restErr *rest_err.RestErr
		switch {
		case errors.Is(err, ErrInvalidRole):
			restErr = rest_err.NewBadRequestError(err.Error())
		case errors.Is(err, ErrEmailDuplicated):
			restErr = rest_err.NewConflictValidationError(err.Error(), nil)
		case errors.Is(err, tenant.ErrNotFound):
			restErr = rest_err.NewNotFoundError(err.Error())
		case errors.Is(err, mailer.ErrMailerNotInitialized):
			causes := []rest_err.Causes{rest_err.NewCause("Mailer", "mailer not initialized")}
			restErr = rest_err.NewInternalServerError("internal server error", causes)
		default:
			restErr = rest_err.NewInternalServerError("internal server error", nil)
		}
		c.JSON(restErr.Code, restErr)
		return
	}

	c.JSON(http.StatusCreated, NewUsuarioResponseDto(created))
}
