package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"escola-gestao/cmd/server"
	"escola-gestao/internal/iam/application/auth"
	"escola-gestao/internal/iam/domain/tenant"
	"escola-gestao/internal/iam/domain/user"
	"escola-gestao/internal/iam/guard"
	"escola-gestao/internal/iam/redirect"
	"escola-gestao/internal/iam/resolver"
	"escola-gestao/internal/iam/session"
	"escola-gestao/internal/infra/database/postgres"
	"escola-gestao/internal/infra/jwt"
	"escola-gestao/internal/infra/kv"
	"escola-gestao/internal/pkg/log/auditoria_log"
	"escola-gestao/internal/pkg/mailer"
	webMiddleware "escola-gestao/internal/web/middleware"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.ngrok.com/ngrok/v2"
	"gorm.io/gorm"
)

// Application armazena as dependências centrais da aplicação.
type Application struct {
	server *server.HTTPServer
}

// Environment configura e lê o arquivo de configuração (configs.json).
// Variáveis de um .env local, quando presente, entram antes do viper.
func Environment() {
	if err := godotenv.Load(); err == nil {
		log.Println("[BOOTSTRAP-ENV] Variáveis do .env carregadas.")
	}

	viper.SetConfigName("configs")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/") // Para ambientes de produção
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error in configuration file: %w", err))
	}
}

// initIamDomain monta o contêiner de dependências na ordem em que cada
// módulo precisa dos anteriores.
func initIamDomain(db *gorm.DB) error {
	if _, err := auditoria_log.New(db, auditoria_log.Config{
		LogEnabled: viper.GetBool("log.enabled"),
		Enabled:    viper.GetBool("log.audit_enabled"),
	}); err != nil {
		log.Println("[BOOTSTRAP-AUDIT] Auditoria desativada:", err)
	}

	directory, err := tenant.New(db)
	if err != nil {
		return fmt.Errorf("diretório de escolas: %w", err)
	}
	if _, err := user.New(db); err != nil {
		return fmt.Errorf("domínio de usuários: %w", err)
	}

	store, err := session.New(db)
	if err != nil {
		return fmt.Errorf("armazém de sessão: %w", err)
	}

	res, err := resolver.New(directory)
	if err != nil {
		return fmt.Errorf("resolvedor de tenant: %w", err)
	}
	if _, err := redirect.New(directory); err != nil {
		return fmt.Errorf("redirecionador pós-login: %w", err)
	}
	if _, err := guard.New(res, store); err != nil {
		return fmt.Errorf("guard de acesso: %w", err)
	}

	if _, err := auth.New(store, webMiddleware.UseCookieStore()); err != nil {
		return fmt.Errorf("módulo de autenticação: %w", err)
	}

	return nil
}

// New prepara a aplicação (config, db, di) e retorna a instância.
func New() (*Application, error) {
	Environment()
	log.Println("[BOOTSTRAP-ENV] Configuração de ambiente carregada.")

	jwtConfig := jwt.Config{
		AccessSecret: viper.GetString("security.jwt_access_secret"),
		Issuer:       viper.GetString("app.name"),
		AccessExpiry: time.Duration(viper.GetInt64("security.jwt_access_expiry_min")) * time.Minute,
	}

	err := jwt.Init(jwtConfig)
	if err != nil {
		// Erro fatal, a aplicação não pode subir sem o gerador de token
		return nil, fmt.Errorf("[BOOTSTRAP-TOKEN] Falha ao criar gerador de token: %w", err)
	}
	log.Println("[BOOTSTRAP-TOKEN] Gerador de token inicializado.")

	mailerCfg := mailer.SMTPConfig{Host: viper.GetString("smtp.host"), Port: viper.GetString("smtp.port"), Username: viper.GetString("smtp.username"), Password: viper.GetString("smtp.password"), Encryption: viper.GetString("smtp.encryption"), Address: viper.GetString("smtp.address")}
	_, err = mailer.New(mailerCfg)
	if err != nil {
		log.Println("[BOOTSTRAP-MAILER] Falha ao iniciar sistema de emails")
	} else {
		log.Println("[BOOTSTRAP-MAILER] Sucesso ao iniciar sistema de emails")
	}

	if err := kv.Init(); err != nil {
		log.Println("[BOOTSTRAP-KV] Redis indisponível, limites de login desativados:", err)
	} else {
		log.Println("[BOOTSTRAP-KV] Redis inicializado.")
	}

	db := postgres.InitPostgres()
	log.Println("[BOOTSTRAP-DATABASE] Conexão com o banco de dados inicializada.")

	if err := initIamDomain(db); err != nil {
		return nil, fmt.Errorf("[BOOTSTRAP-DI] %w", err)
	}
	log.Println("[BOOTSTRAP-DI] Contêiner de dependências inicializado.")

	return &Application{
		server: server.NewHTTPServer(),
	}, nil
}

func startNgrokForward(ctx context.Context, token string, port int) error {
	agent, err := ngrok.NewAgent(
		ngrok.WithAuthtoken(token),
		ngrok.WithAutoConnect(true),
	)
	if err != nil {
		return fmt.Errorf("erro criando ngrok Agent: %w", err)
	}

	upstreamURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	upstream := ngrok.WithUpstream(upstreamURL)

	endpoint, err := agent.Forward(ctx, upstream)
	if err != nil {
		if ngErr, ok := err.(ngrok.Error); ok {
			log.Printf("[NGROK] erro ao criar forward (code=%s): %v\n", ngErr.Code(), ngErr)
		}
		return fmt.Errorf("erro iniciando ngrok Forward: %w", err)
	}

	log.Println("[NGROK] Endpoint online:", endpoint.URL())

	// Fica vivo até o ctx da aplicação ser cancelado
	<-ctx.Done()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := endpoint.CloseWithContext(closeCtx); err != nil {
		return fmt.Errorf("erro ao fechar endpoint ngrok: %w", err)
	}

	if err := agent.Disconnect(); err != nil {
		return fmt.Errorf("erro ao desconectar ngrok Agent: %w", err)
	}

	return nil
}

func (a *Application) Start(ctx context.Context) error {
	log.Println("[BOOTSTRAP] Iniciando servidor no ambiente:", viper.GetString("app.env"))

	errCh := make(chan error, 1)

	go func() {
		errCh <- a.server.Start()
	}()

	// Túnel de desenvolvimento, apenas quando habilitado na config
	if viper.GetBool("test.ngrok.live") {
		token := viper.GetString("test.ngrok.token")
		if token == "" {
			log.Println("[NGROK] test.ngrok.live=true mas test.ngrok.token está vazio; ngrok NÃO será iniciado")
		} else {
			port := viper.GetInt("server.http.port")

			go func() {
				if err := startNgrokForward(ctx, token, port); err != nil {
					log.Println("[NGROK] erro:", err)
				}
			}()
		}
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("falha ao encerrar servidor: %w", err)
		}
		return <-errCh

	case err := <-errCh:
		return err
	}
}
