package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCompetitorNotFound = errors.New("competitor not found")

type Competitor struct {
	CompetitorID uint `gorm:"primaryKey;column:competitorid;autoIncrement:false"`

	FisCode    string `gorm:"column:fiscode;index"`
	LastName   string `gorm:"not null;index"`
	FirstName  string `gorm:"not null;index"`
	NationCode string
	Gender     string
	BirthDate  string
	SkiClub    string

	SLPoints *float64 `gorm:"column:sl_points"`
	GSPoints *float64 `gorm:"column:gs_points"`
	SGPoints *float64 `gorm:"column:sg_points"`
	DHPoints *float64 `gorm:"column:dh_points"`
	ACPoints *float64 `gorm:"column:ac_points"`

	UpdatedAt time.Time
}

type CompetitorDAO struct {
	db *gorm.DB
}

func NewCompetitorDAO(db *gorm.DB) *CompetitorDAO {
	return &CompetitorDAO{
		db: db,
	}
}

func (d *CompetitorDAO) FindByID(ctx context.Context, competitorID uint) (Competitor, error) {
	var competitor Competitor

	result := d.db.WithContext(ctx).First(&competitor, "competitorid = ?", competitorID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Competitor{}, ErrCompetitorNotFound
		}

		return Competitor{}, result.Error
	}

	return competitor, nil
}

func (d *CompetitorDAO) FindByIDs(ctx context.Context, competitorIDs []uint) ([]Competitor, error) {
	var competitors []Competitor

	result := d.db.WithContext(ctx).
		Where("competitorid IN ?", competitorIDs).
		Find(&competitors)
	if result.Error != nil {
		return nil, result.Error
	}

	return competitors, nil
}

// Search matches a case-insensitive substring against first and last name.
// The minimum query length is enforced at the service boundary.
func (d *CompetitorDAO) Search(ctx context.Context, query string) ([]Competitor, error) {
	var competitors []Competitor

	pattern := "%" + query + "%"
	result := d.db.WithContext(ctx).
		Where("last_name ILIKE ? OR first_name ILIKE ?", pattern, pattern).
		Order("last_name, first_name").
		Limit(100).
		Find(&competitors)
	if result.Error != nil {
		return nil, result.Error
	}

	return competitors, nil
}

// UpsertBatch refreshes competitors from a points-list import. Existing rows
// are overwritten by competitorid, new ones inserted.
func (d *CompetitorDAO) UpsertBatch(ctx context.Context, competitors []Competitor) (int64, error) {
	if len(competitors) == 0 {
		return 0, nil
	}

	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "competitorid"}},
			UpdateAll: true,
		}).
		CreateInBatches(competitors, 500)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
