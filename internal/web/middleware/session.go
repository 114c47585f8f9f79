package middleware

import (
	"log"
	"net/http"
	"sync"

	"escola-gestao/internal/iam/guard"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/spf13/viper"
)

const (
	SessionName    = "escola_sessao"
	SessionUserKey = "user_token"
)

var (
	cookieStore     *sessions.CookieStore
	cookieStoreOnce sync.Once
)

// UseCookieStore retorna o armazém de cookies compartilhado da aplicação
func UseCookieStore() *sessions.CookieStore {
	cookieStoreOnce.Do(func() {
		cookieStore = sessions.NewCookieStore([]byte(viper.GetString("security.session_secret")))
		cookieStore.Options.HttpOnly = true
		cookieStore.Options.SameSite = http.SameSiteLaxMode
		cookieStore.Options.Path = "/"
	})
	return cookieStore
}

// WithSessionToken carrega o token da sessão de cookie para o contexto,
// sem abortar a requisição. Quem decide o que fazer sem token é o guard.
func WithSessionToken(store *sessions.CookieStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.Get(c.Request, SessionName)
		if err == nil {
			if token, ok := session.Values[SessionUserKey].(string); ok && token != "" {
				c.Set(guard.TokenContextKey, token)
			}
		}
		c.Next()
	}
}

// SaveToken grava o token de acesso na sessão de cookie
func SaveToken(c *gin.Context, store *sessions.CookieStore, token string) error {
	session, err := store.Get(c.Request, SessionName)
	if err != nil {
		log.Printf("[WEB] Sessão de cookie inválida, recriando: %v", err)
	}
	session.Values[SessionUserKey] = token
	return session.Save(c.Request, c.Writer)
}

// ClearToken remove a sessão de cookie do navegador
func ClearToken(c *gin.Context, store *sessions.CookieStore) error {
	session, err := store.Get(c.Request, SessionName)
	if err != nil {
		log.Printf("[WEB] Sessão de cookie inválida ao limpar: %v", err)
	}
	delete(session.Values, SessionUserKey)
	session.Options.MaxAge = -1
	return session.Save(c.Request, c.Writer)
}

// GetToken retorna o token JWT armazenado no contexto
func GetToken(c *gin.Context) string {
	token, exists := c.Get(guard.TokenContextKey)
	if !exists {
		return ""
	}
	if s, ok := token.(string); ok {
		return s
	}
	return ""
}
