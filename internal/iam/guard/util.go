package guard

import (
	"escola-gestao/internal/iam/domain/model"
	"escola-gestao/internal/iam/session"

	"github.com/gin-gonic/gin"
)

const (
	UserContextKey   = "AuthenticatedUserKey"
	EscolaContextKey = "ResolvedEscolaKey"
	TokenContextKey  = "token"
)

func SetAuthenticatedUser(c *gin.Context, snap *session.Snapshot) {
	if snap != nil {
		c.Set(UserContextKey, snap)
	}
}

func GetAuthenticatedUser(c *gin.Context) (*session.Snapshot, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}
	snap, ok := value.(*session.Snapshot)
	if !ok {
		return nil, false
	}
	return snap, true
}

func SetEscola(c *gin.Context, escola *model.Escola) {
	if escola != nil {
		c.Set(EscolaContextKey, escola)
	}
}

func GetEscola(c *gin.Context) (*model.Escola, bool) {
	value, exists := c.Get(EscolaContextKey)
	if !exists {
		return nil, false
	}
	escola, ok := value.(*model.Escola)
	if !ok {
		return nil, false
	}
	return escola, true
}
