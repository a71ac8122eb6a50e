package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrOrganizationNotFound = errors.New("organization not found")

// Organization has no DeletedAt on purpose: tenants are only ever updated.
type Organization struct {
	ID uint `gorm:"primaryKey"`

	Code    string `gorm:"uniqueIndex;not null"`
	Name    string `gorm:"not null"`
	Country string
	BaseURL string

	NotificationSubject string
	Contacts            datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type OrganizationDAO struct {
	db *gorm.DB
}

func NewOrganizationDAO(db *gorm.DB) *OrganizationDAO {
	return &OrganizationDAO{
		db: db,
	}
}

func (d *OrganizationDAO) FindByCode(ctx context.Context, code string) (Organization, error) {
	var org Organization

	result := d.db.WithContext(ctx).First(&org, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Organization{}, ErrOrganizationNotFound
		}

		return Organization{}, result.Error
	}

	return org, nil
}

func (d *OrganizationDAO) Update(ctx context.Context, org Organization) (Organization, error) {
	result := d.db.WithContext(ctx).
		Model(&Organization{}).
		Where("code = ?", org.Code).
		Updates(map[string]any{
			"name":                 org.Name,
			"country":              org.Country,
			"base_url":             org.BaseURL,
			"notification_subject": org.NotificationSubject,
			"contacts":             org.Contacts,
		})
	if result.Error != nil {
		return Organization{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Organization{}, ErrOrganizationNotFound
	}

	return d.FindByCode(ctx, org.Code)
}
