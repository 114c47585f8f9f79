package routes

import (
	"fmt"
	"net/http"
	"os"

	"escola-gestao/internal/iam/application/auth"
	"escola-gestao/internal/iam/domain/model"
	"escola-gestao/internal/iam/domain/user"
	"escola-gestao/internal/iam/guard"
	"escola-gestao/internal/iam/resolver"
	webHandler "escola-gestao/internal/web/handler"
	webMiddleware "escola-gestao/internal/web/middleware"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "escola-gestao/docs"
)

func SetupRouter() *gin.Engine {
	env := viper.GetString("app.env")
	switch env {
	case "dev":
		gin.SetMode(gin.DebugMode)
	case "prod":
		gin.SetMode(gin.ReleaseMode)
	case "":
		fmt.Println("WARNING: 'app.env' not set in config. Defaulting to 'dev' mode.")
		gin.SetMode(gin.DebugMode)
	default:
		fmt.Printf("ERROR: Invalid environment value '%s'. Must be 'dev' or 'prod'.\n", env)
		os.Exit(1)
	}

	r := gin.Default()

	// Acessível em /doc/index.html
	r.GET("/doc/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	SetupApiRoutes(r)
	SetupWebRoutes(r)
	return r
}

func SetupApiRoutes(r *gin.Engine) {
	route := r.Group("/api")
	route.Use(webMiddleware.WithSessionToken(webMiddleware.UseCookieStore()))

	userController, err := user.Use()
	if err != nil {
		panic(err)
	}
	authController, err := auth.Use()
	if err != nil {
		panic(err)
	}

	g := guard.MustUse()
	authController.Routes(route)
	userController.Routes(route, g.Protect(guard.Requires(model.RoleAdmin, model.RoleSysAdmin)))
}

func SetupWebRoutes(r *gin.Engine) {
	h, err := webHandler.NewWebHandler(resolver.MustUse())
	if err != nil {
		panic(err)
	}

	g := guard.MustUse()
	web := r.Group("/")
	web.Use(webMiddleware.WithSessionToken(webMiddleware.UseCookieStore()))

	// Rotas públicas: o login resolve a escola por conta própria e a
	// página de acesso negado precisa ser alcançável após qualquer negação.
	web.GET(guard.LoginRoute, h.ServeLogin)
	web.GET(guard.UnauthorizedRoute, h.ServeNaoAutorizado)

	// Rotas protegidas: conjunto vazio de papéis exige apenas sessão ativa.
	web.GET(guard.TrocarSenhaRoute, g.Protect(guard.Requires()), h.ServeTrocarSenha)
	web.GET("/dashboard", g.Protect(guard.Requires()), h.ServeDashboard)

	web.GET("/admin",
		g.Protect(guard.Requires(model.RoleAdmin, model.RoleSysAdmin)),
		h.ServeSecao("Administração", "Gestão de usuários e configurações da escola."))
	web.GET("/professores",
		g.Protect(guard.Requires(model.RoleAdmin, model.RoleProfessor)),
		h.ServeSecao("Professores", "Turmas, diários de classe e lançamentos de notas."))
	web.GET("/financeiro",
		g.Protect(guard.Requires(model.RoleAdmin)),
		h.ServeSecao("Financeiro", "Mensalidades, cobranças e inadimplência."))
	web.GET("/responsavel",
		g.Protect(guard.Requires(model.RoleResponsavel, model.RoleAdmin)),
		h.ServeSecao("Área do responsável", "Boletins, comunicados e autorizações."))

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
}
