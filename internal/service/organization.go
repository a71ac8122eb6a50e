package service

import (
	"context"
	"fmt"

	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
)

type OrganizationRepository interface {
	FindByCode(ctx context.Context, code string) (domain.Organization, error)
	Update(ctx context.Context, org domain.Organization) (domain.Organization, error)
}

type OrganizationService struct {
	repo OrganizationRepository
}

func NewOrganizationService(repo OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		repo: repo,
	}
}

func (s *OrganizationService) GetOrganization(ctx context.Context, code string) (domain.Organization, error) {
	org, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("s.repo.FindByCode -> %w", err)
	}

	return org, nil
}

func (s *OrganizationService) UpdateOrganization(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	updated, err := s.repo.Update(ctx, org)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}
