package resolver

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"

	"escola-gestao/internal/iam/domain/tenant"

	"github.com/patrickmn/go-cache"
)

// OverrideParam é o parâmetro de query que carrega o slug explícito da
// escola em desenvolvimento, onde não há subdomínios reais.
const OverrideParam = "escola"

type Resolver interface {
	Resolve(ctx context.Context, host string, query url.Values) Resolution
}

type Config struct {
	RootDomain string
	CacheTTL   time.Duration
	Timeout    time.Duration
}

type impl struct {
	directory tenant.Service
	cfg       Config
	memo      *cache.Cache
}

func NewResolver(directory tenant.Service, cfg Config) Resolver {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	return &impl{
		directory: directory,
		cfg:       cfg,
		memo:      cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
}

// Resolve é idempotente e seguro de reinvocar a cada requisição; o
// resultado é memoizado por (host, override) dentro do TTL configurado.
// LoadError nunca é memoizado: a próxima chamada consulta o diretório
// de novo.
func (r *impl) Resolve(ctx context.Context, host string, query url.Values) Resolution {
	slug, ok := CandidateSlug(host, query, r.cfg.RootDomain)
	if !ok {
		return Resolution{State: StateNoEscola}
	}

	key := host + "|" + slug
	if cached, found := r.memo.Get(key); found {
		return cached.(Resolution)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	escola, err := r.directory.LookupBySlug(ctx, slug)
	switch {
	case err == nil:
		res := Resolution{State: StateResolved, Escola: &escola}
		r.memo.Set(key, res, cache.DefaultExpiration)
		return res
	case errors.Is(err, tenant.ErrNotFound):
		res := Resolution{State: StateNotFound}
		r.memo.Set(key, res, cache.DefaultExpiration)
		return res
	default:
		return Resolution{State: StateLoadError, Err: err}
	}
}

// CandidateSlug extrai o slug candidato da requisição: o parâmetro de
// override (fora de produção) tem prioridade; caso contrário o rótulo de
// subdomínio sob o domínio raiz. Domínio raiz puro, www ou host fora do
// domínio raiz sem override significam site principal.
func CandidateSlug(host string, query url.Values, rootDomain string) (string, bool) {
	if !IsProductionHost(host) {
		if v := strings.TrimSpace(query.Get(OverrideParam)); v != "" {
			return strings.ToLower(v), true
		}
	}

	h := strings.ToLower(stripPort(host))
	root := strings.ToLower(rootDomain)
	if root == "" || h == root || h == "www."+root {
		return "", false
	}

	suffix := "." + root
	if !strings.HasSuffix(h, suffix) {
		return "", false
	}

	label := strings.TrimSuffix(h, suffix)
	if label == "" || label == "www" || strings.Contains(label, ".") {
		return "", false
	}
	return label, true
}

// IsProductionHost distingue hosts de produção de hosts de
// desenvolvimento (loopback e localhost).
func IsProductionHost(host string) bool {
	h := strings.ToLower(stripPort(host))
	if h == "" || h == "localhost" || strings.HasSuffix(h, ".localhost") {
		return false
	}
	if ip := net.ParseIP(h); ip != nil && ip.IsLoopback() {
		return false
	}
	return true
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
