package tenant

import (
	"context"

	"escola-gestao/internal/iam/domain/model"

	"github.com/google/uuid"
)

type Service interface {
	LookupBySlug(ctx context.Context, slug string) (model.Escola, error)
	LookupByUUID(ctx context.Context, id uuid.UUID) (model.Escola, error)
}

type implService struct {
	Repository Repository
}

func NewService(repository Repository) Service {
	return &implService{
		Repository: repository,
	}
}

func (s *implService) LookupBySlug(ctx context.Context, slug string) (model.Escola, error) {
	return s.Repository.ReadBySlug(ctx, slug)
}

func (s *implService) LookupByUUID(ctx context.Context, id uuid.UUID) (model.Escola, error) {
	return s.Repository.ReadByUUID(ctx, id)
}
