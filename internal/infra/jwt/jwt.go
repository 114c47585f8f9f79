package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// 1. Variável global privada que guardará a instância única
var singleton *TokenGenerator

type AccessTokenClaims struct {
	EscolaSlug string `json:"escola,omitempty"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

type TokenGenerator struct {
	accessSecretKey []byte
	issuer          string
	accessExpiry    time.Duration
}

type Config struct {
	AccessSecret string
	Issuer       string
	AccessExpiry time.Duration
}

// 2. Função Init: Inicializa o Singleton (chame isso apenas uma vez, no main)
func Init(cfg Config) error {
	if cfg.AccessSecret == "" {
		return fmt.Errorf("segredo JWT não pode estar vazio")
	}
	if cfg.Issuer == "" {
		return fmt.Errorf("emissor (issuer) JWT não pode estar vazio")
	}
	if cfg.AccessExpiry <= 0 {
		return fmt.Errorf("expiração do token deve ser positiva")
	}

	singleton = &TokenGenerator{
		accessSecretKey: []byte(cfg.AccessSecret),
		issuer:          cfg.Issuer,
		accessExpiry:    cfg.AccessExpiry,
	}

	return nil
}

// 3. Função Use: Retorna a instância global para ser usada em qualquer lugar
func Use() *TokenGenerator {
	if singleton == nil {
		panic("JWT package não foi inicializado. Chame jwt.Init(cfg) no startup da aplicação.")
	}
	return singleton
}

// GenerateAccessToken emite o token de sessão; o slug da escola viaja nos
// claims para que a página de destino resolva o mesmo tenant após o login.
func (tg *TokenGenerator) GenerateAccessToken(userID uuid.UUID, email, escolaSlug string) (string, time.Time, error) {
	expirationTime := time.Now().UTC().Add(tg.accessExpiry)

	claims := &AccessTokenClaims{
		EscolaSlug: escolaSlug,
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			// ID único por emissão: dois logins no mesmo segundo nunca
			// produzem o mesmo token.
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    tg.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tg.accessSecretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("erro ao assinar o access token: %w", err)
	}

	return tokenString, expirationTime, nil
}

// ParseAccessToken valida assinatura e expiração e devolve os claims.
func (tg *TokenGenerator) ParseAccessToken(tokenString string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", t.Header["alg"])
		}
		return tg.accessSecretKey, nil
	}, jwt.WithIssuer(tg.issuer))
	if err != nil {
		return nil, fmt.Errorf("token de acesso inválido: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token de acesso inválido")
	}
	return claims, nil
}
