package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
	"github.com/valais-ski/fis-inscriptions-api/internal/repository/dao"
)

var ErrOrganizationNotFound = dao.ErrOrganizationNotFound

type OrganizationDAO interface {
	FindByCode(ctx context.Context, code string) (dao.Organization, error)
	Update(ctx context.Context, org dao.Organization) (dao.Organization, error)
}

type OrganizationRepository struct {
	dao OrganizationDAO
}

func NewOrganizationRepository(dao OrganizationDAO) *OrganizationRepository {
	return &OrganizationRepository{
		dao: dao,
	}
}

func (r *OrganizationRepository) FindByCode(ctx context.Context, code string) (domain.Organization, error) {
	found, err := r.dao.FindByCode(ctx, code)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.FindByCode -> %w", err)
	}

	return r.daoToDomain(found)
}

func (r *OrganizationRepository) Update(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	contacts, err := json.Marshal(org.Contacts)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("json.Marshal contacts -> %w", err)
	}

	updated, err := r.dao.Update(ctx, dao.Organization{
		Code:                org.Code,
		Name:                org.Name,
		Country:             org.Country,
		BaseURL:             org.BaseURL,
		NotificationSubject: org.NotificationSubject,
		Contacts:            contacts,
	})
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated)
}

func (r *OrganizationRepository) daoToDomain(o dao.Organization) (domain.Organization, error) {
	var contacts []domain.OrganizationContact
	if len(o.Contacts) > 0 {
		if err := json.Unmarshal(o.Contacts, &contacts); err != nil {
			return domain.Organization{}, fmt.Errorf("json.Unmarshal contacts -> %w", err)
		}
	}

	return domain.Organization{
		ID:                  o.ID,
		Code:                o.Code,
		Name:                o.Name,
		Country:             o.Country,
		BaseURL:             o.BaseURL,
		NotificationSubject: o.NotificationSubject,
		Contacts:            contacts,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}, nil
}
