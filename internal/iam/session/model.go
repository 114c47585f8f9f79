package session

import (
	"time"

	"escola-gestao/internal/iam/domain/model"

	"github.com/google/uuid"
)

// AccessToken é o registro persistido da sessão; revogar é expirar.
type AccessToken struct {
	UserUUID *uuid.UUID `gorm:"type:uuid;index"`
	Token    string     `gorm:"type:varchar(512);not null;uniqueIndex"`
	Expiry   time.Time  `gorm:"type:timestamp;not null;column:expire_date"`
}

func (AccessToken) TableName() string {
	return "usuario_tokens"
}

// Session é a identidade autenticada, propriedade exclusiva do Store;
// o guard apenas lê.
type Session struct {
	UserUUID uuid.UUID
	Email    string
	Token    string
	Expiry   time.Time
}

// Login é o resultado de um SignIn bem-sucedido.
type Login struct {
	Usuario model.Usuario
	Escola  *model.Escola
	Token   AccessToken
}

// Snapshot é o estado observável por requisição. Loading indica sessão
// presente com busca de perfil ainda não concluída: o guard trata esse
// estado como carregamento, nunca como não autorizado.
type Snapshot struct {
	Session *Session
	Profile *model.Usuario
	Escola  *model.Escola
	Loading bool
}

type EventKind int

const (
	EventSignIn EventKind = iota
	EventSignOut
	EventProfileRefresh
)

// Event notifica assinantes sobre mudanças de credencial ou perfil.
type Event struct {
	Kind     EventKind
	UserUUID uuid.UUID
	Email    string
}
