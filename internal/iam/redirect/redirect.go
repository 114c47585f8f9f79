package redirect

import (
	"context"
	"fmt"
	"net/url"

	"escola-gestao/internal/iam/domain/model"
	"escola-gestao/internal/iam/domain/tenant"
	"escola-gestao/internal/iam/resolver"
)

// LandingPath é o destino fixo pós-login; a própria página resolve a
// mesma escola, então a reavaliação do guard é estável (sem loop).
const LandingPath = "/dashboard"

// Target descreve o redirect pós-login. Hard indica navegação completa
// de origem cruzada (o host muda), não uma troca de rota interna.
type Target struct {
	Location string
	Hard     bool
}

type Config struct {
	RootDomain string
}

// Redirector decide, uma única vez por login, se o usuário precisa ser
// levado ao contexto da escola do seu perfil.
type Redirector struct {
	directory tenant.Service
	cfg       Config
}

func NewRedirector(directory tenant.Service, cfg Config) *Redirector {
	return &Redirector{directory: directory, cfg: cfg}
}

// AfterSignIn compara o contexto atual com o vínculo do perfil:
//
//   - perfil sem vínculo (sysadmin / site principal): nenhum redirect;
//   - slugs já coincidem: nenhum redirect;
//   - produção: navegação completa para o subdomínio canônico da escola;
//   - desenvolvimento: rota interna com ?escola= injetado, demais
//     parâmetros de query preservados.
func (r *Redirector) AfterSignIn(ctx context.Context, usuario model.Usuario, host string, query url.Values) (*Target, error) {
	if usuario.EscolaUUID == nil {
		return nil, nil
	}

	escola, err := r.directory.LookupByUUID(ctx, *usuario.EscolaUUID)
	if err != nil {
		return nil, err
	}

	if current, ok := resolver.CandidateSlug(host, query, r.cfg.RootDomain); ok && current == escola.Slug {
		return nil, nil
	}

	if resolver.IsProductionHost(host) {
		return &Target{
			Location: fmt.Sprintf("https://%s.%s%s", escola.Slug, r.cfg.RootDomain, LandingPath),
			Hard:     true,
		}, nil
	}

	q := url.Values{}
	for k, vs := range query {
		if k == resolver.OverrideParam {
			continue
		}
		q[k] = vs
	}
	q.Set(resolver.OverrideParam, escola.Slug)
	return &Target{Location: LandingPath + "?" + q.Encode()}, nil
}
