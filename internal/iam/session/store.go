package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"escola-gestao/internal/iam/domain/model"
	"escola-gestao/internal/iam/domain/tenant"
	"escola-gestao/internal/iam/domain/user"
	"escola-gestao/internal/infra/jwt"
	"escola-gestao/internal/infra/kv"
	"escola-gestao/internal/pkg/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store é o dono exclusivo de Session e Profile: nenhum outro componente
// escreve nesses registros.
type Store interface {
	SignIn(ctx context.Context, email, senha string) (Login, error)
	SignOut(ctx context.Context, token string) error
	Snapshot(ctx context.Context, token string) (Snapshot, error)
	RefreshProfile(ctx context.Context, token string) (Snapshot, error)
	Subscribe(fn func(Event)) func()
}

type Config struct {
	RateLimit  int64
	RateWindow time.Duration
	Lockout    time.Duration
}

type storeImpl struct {
	repository Repository
	usuarios   user.Service
	directory  tenant.Service
	cfg        Config

	mu      sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

func NewStore(repository Repository, usuarios user.Service, directory tenant.Service, cfg Config) Store {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = 15 * time.Minute
	}
	return &storeImpl{
		repository: repository,
		usuarios:   usuarios,
		directory:  directory,
		cfg:        cfg,
		subs:       make(map[int]func(Event)),
	}
}

// SignIn autentica no provedor de identidade e só retorna com o perfil
// estabelecido: nenhum consumidor observa sessão sem busca de perfil ao
// menos tentada.
func (s *storeImpl) SignIn(ctx context.Context, email, senha string) (Login, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || senha == "" {
		return Login{}, ErrInvalidCredentials
	}

	locked, err := kv.IsLocked(ctx, "login:lock:"+email)
	if err != nil {
		log.Printf("[SESSION] Falha ao consultar lockout: %v", err)
	}
	if locked {
		return Login{}, ErrRateLimited
	}
	allowed, err := kv.AllowRate(ctx, "login:rate:"+email, s.cfg.RateLimit, s.cfg.RateWindow)
	if err != nil {
		log.Printf("[SESSION] Falha no rate limit: %v", err)
	}
	if !allowed {
		_ = kv.SetLock(ctx, "login:lock:"+email, s.cfg.Lockout)
		return Login{}, ErrRateLimited
	}

	rUser, err := s.usuarios.ReadByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrInvalidInput) {
			return Login{}, ErrInvalidCredentials
		}
		return Login{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if !rUser.Live {
		return Login{}, ErrInvalidCredentials
	}
	if err := util.UsePassword().Compare(rUser.Password, senha); err != nil {
		return Login{}, ErrInvalidCredentials
	}

	var escola *model.Escola
	escolaSlug := ""
	if rUser.EscolaUUID != nil {
		e, err := s.directory.LookupByUUID(ctx, *rUser.EscolaUUID)
		if err != nil {
			return Login{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		escolaSlug = e.Slug
		escola = &e
	}

	token, expiry, err := jwt.Use().GenerateAccessToken(rUser.UUID, rUser.Email, escolaSlug)
	if err != nil {
		return Login{}, err
	}

	accessToken := AccessToken{UserUUID: &rUser.UUID, Token: token, Expiry: expiry}

	// Revoga tokens anteriores para garantir sessão única
	_ = s.repository.RevokeAllUserTokens(ctx, rUser.UUID)

	if err := s.repository.CreateToken(ctx, accessToken); err != nil {
		return Login{}, err
	}

	kv.Del(ctx, "login:rate:"+email)

	login := Login{Usuario: rUser, Escola: escola, Token: accessToken}

	s.notify(Event{Kind: EventSignIn, UserUUID: rUser.UUID, Email: rUser.Email})
	return login, nil
}

func (s *storeImpl) SignOut(ctx context.Context, token string) error {
	snap, err := s.Snapshot(ctx, token)
	if err != nil {
		return err
	}
	if err := s.repository.RevokeToken(ctx, token); err != nil {
		return err
	}
	ev := Event{Kind: EventSignOut}
	if snap.Session != nil {
		ev.UserUUID = snap.Session.UserUUID
		ev.Email = snap.Session.Email
	}
	s.notify(ev)
	return nil
}

// Snapshot reconstrói o estado observável a partir do token: sessão e
// perfil chegam juntos ou, em falha transitória do diretório, a sessão
// válida aparece com Loading ligado para o guard aguardar.
func (s *storeImpl) Snapshot(ctx context.Context, token string) (Snapshot, error) {
	if token == "" {
		return Snapshot{}, nil
	}

	login, err := s.repository.GetLogin(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Token revogado ou desconhecido: anônimo.
			return Snapshot{}, nil
		}
		if claims, perr := jwt.Use().ParseAccessToken(token); perr == nil {
			if uid, uerr := uuid.Parse(claims.Subject); uerr == nil {
				return Snapshot{
					Session: &Session{
						UserUUID: uid,
						Email:    claims.Email,
						Token:    token,
						Expiry:   claims.ExpiresAt.Time,
					},
					Loading: true,
				}, nil
			}
		}
		return Snapshot{}, err
	}

	if time.Now().UTC().After(login.Token.Expiry) {
		return Snapshot{}, nil
	}
	if !login.Usuario.Live {
		return Snapshot{}, nil
	}

	return Snapshot{
		Session: &Session{
			UserUUID: login.Usuario.UUID,
			Email:    login.Usuario.Email,
			Token:    token,
			Expiry:   login.Token.Expiry,
		},
		Profile: &login.Usuario,
		Escola:  login.Escola,
	}, nil
}

// RefreshProfile rebusca o perfil após mutações de TrocarSenha ou Role;
// é síncrono, o guard só reavalia depois do retorno.
func (s *storeImpl) RefreshProfile(ctx context.Context, token string) (Snapshot, error) {
	snap, err := s.Snapshot(ctx, token)
	if err != nil {
		return Snapshot{}, err
	}
	if snap.Session != nil {
		s.notify(Event{Kind: EventProfileRefresh, UserUUID: snap.Session.UserUUID, Email: snap.Session.Email})
	}
	return snap, nil
}

// Subscribe registra um assinante e retorna a função de cancelamento.
func (s *storeImpl) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *storeImpl) notify(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
