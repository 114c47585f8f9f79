package user

import (
	"context"
	"fmt"

	"escola-gestao/internal/iam/domain/tenant"
	"escola-gestao/internal/pkg/mailer"
	"escola-gestao/internal/pkg/util"

	"github.com/google/uuid"
)

type Service interface {
	ReadByEmail(ctx context.Context, email string) (Usuario, error)
	GetProfile(ctx context.Context, id uuid.UUID) (Usuario, error)
	ChangeSenha(ctx context.Context, id uuid.UUID, novaSenha string) error
	ProvisionarAcesso(ctx context.Context, usuario Usuario) (Usuario, error)
}

type serviceImpl struct {
	Repository Repository
}

func NewService(repository Repository) Service {
	return &serviceImpl{
		Repository: repository,
	}
}

func (s *serviceImpl) ReadByEmail(ctx context.Context, email string) (Usuario, error) {
	return s.Repository.ReadByEmail(ctx, email)
}

func (s *serviceImpl) GetProfile(ctx context.Context, id uuid.UUID) (Usuario, error) {
	return s.Repository.ReadByUUID(ctx, id)
}

// ChangeSenha grava o novo hash e limpa a flag de troca obrigatória.
func (s *serviceImpl) ChangeSenha(ctx context.Context, id uuid.UUID, novaSenha string) error {
	hashPwd, err := util.UsePassword().Hash(novaSenha)
	if err != nil {
		return err
	}
	return s.Repository.UpdateSenha(ctx, id, hashPwd, false)
}

// ProvisionarAcesso cria o usuário com senha temporária enviada por e-mail
// e a flag TrocarSenha ligada: o primeiro acesso cai no gate de troca de
// senha antes de qualquer outra página protegida.
func (s *serviceImpl) ProvisionarAcesso(ctx context.Context, usuario Usuario) (Usuario, error) {
	if !IsValidUserRole(usuario.Role) {
		return Usuario{}, ErrInvalidRole
	}

	if usuario.EscolaUUID != nil {
		if _, err := tenant.MustUse().Service.LookupByUUID(ctx, *usuario.EscolaUUID); err != nil {
			return Usuario{}, err
		}
	}

	senhaTemporaria, err := util.GenerateTemporaryPassword(10)
	if err != nil {
		return Usuario{}, err
	}
	hashPwd, err := util.UsePassword().Hash(senhaTemporaria)
	if err != nil {
		return Usuario{}, err
	}

	usuario.Password = hashPwd
	usuario.TrocarSenha = true
	usuario.Live = true

	created, err := s.Repository.Create(ctx, usuario)
	if err != nil {
		return Usuario{}, err
	}

	mailService := mailer.Use()
	if mailService == nil {
		return created, mailer.ErrMailerNotInitialized
	}
	err = mailService.SendRaw(
		created.Email,
		"Acesso ao sistema da escola",
		fmt.Sprintf("<p>Sua senha temporária é: <b>%s</b></p><p>Você deverá trocá-la no primeiro acesso.</p>", senhaTemporaria),
	)
	if err != nil {
		return created, err
	}

	return created, nil
}
