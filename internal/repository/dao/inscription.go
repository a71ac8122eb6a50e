package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInscriptionNotFound = errors.New("inscription not found")
	ErrCoachNotFound       = errors.New("coach not found")
	ErrEmptyLinkSet        = errors.New("competitor ids and codex numbers must not be empty")
)

type Inscription struct {
	ID uint `gorm:"primaryKey"`

	CreatedBy uint           `gorm:"not null;index"`
	EventData datatypes.JSON `gorm:"type:jsonb;not null"`

	Status      string `gorm:"not null;default:'open'"`
	MenStatus   *string
	WomenStatus *string

	EmailSentAt      *time.Time
	MenEmailSentAt   *time.Time
	WomenEmailSentAt *time.Time

	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	DeletedBy *uint
}

type InscriptionCompetitor struct {
	ID uint `gorm:"primaryKey"`

	InscriptionID uint   `gorm:"not null;index"`
	CompetitorID  uint   `gorm:"not null;index;column:competitor_id"`
	CodexNumber   string `gorm:"not null;index"`
	AddedBy       uint   `gorm:"not null"`

	Competitor Competitor `gorm:"foreignKey:CompetitorID;references:CompetitorID"`

	CreatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	DeletedBy *uint
}

type InscriptionCoach struct {
	ID uint `gorm:"primaryKey"`

	InscriptionID uint   `gorm:"not null;index"`
	FirstName     string `gorm:"not null"`
	LastName      string `gorm:"not null"`
	Gender        string `gorm:"not null"`
	Team          string
	StartDate     time.Time `gorm:"not null"`
	EndDate       time.Time `gorm:"not null"`
	AddedBy       uint      `gorm:"not null"`

	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	DeletedBy *uint
}

type InscriptionDAO struct {
	db *gorm.DB
}

func NewInscriptionDAO(db *gorm.DB) *InscriptionDAO {
	return &InscriptionDAO{
		db: db,
	}
}

func (d *InscriptionDAO) Insert(ctx context.Context, inscription Inscription) (Inscription, error) {
	result := d.db.WithContext(ctx).Create(&inscription)
	if result.Error != nil {
		return Inscription{}, result.Error
	}

	return inscription, nil
}

func (d *InscriptionDAO) FindByID(ctx context.Context, id uint) (Inscription, error) {
	var inscription Inscription

	result := d.db.WithContext(ctx).First(&inscription, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Inscription{}, ErrInscriptionNotFound
		}

		return Inscription{}, result.Error
	}

	return inscription, nil
}

func (d *InscriptionDAO) FindAll(ctx context.Context) ([]Inscription, error) {
	var inscriptions []Inscription

	result := d.db.WithContext(ctx).Order("id DESC").Find(&inscriptions)
	if result.Error != nil {
		return nil, result.Error
	}

	return inscriptions, nil
}

func (d *InscriptionDAO) FindByCreator(ctx context.Context, userID uint) ([]Inscription, error) {
	var inscriptions []Inscription

	result := d.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("id DESC").
		Find(&inscriptions)
	if result.Error != nil {
		return nil, result.Error
	}

	return inscriptions, nil
}

// UpdateEventData persists the complete snapshot. Last writer wins; there is
// no version column guarding concurrent edits.
func (d *InscriptionDAO) UpdateEventData(ctx context.Context, id uint, eventData datatypes.JSON) (Inscription, error) {
	result := d.db.WithContext(ctx).
		Model(&Inscription{}).
		Where("id = ?", id).
		Update("event_data", eventData)
	if result.Error != nil {
		return Inscription{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Inscription{}, ErrInscriptionNotFound
	}

	return d.FindByID(ctx, id)
}

// UpdateStatusFields applies a prepared set of status/email-sent columns.
func (d *InscriptionDAO) UpdateStatusFields(ctx context.Context, id uint, fields map[string]any) (Inscription, error) {
	result := d.db.WithContext(ctx).
		Model(&Inscription{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return Inscription{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Inscription{}, ErrInscriptionNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *InscriptionDAO) SoftDelete(ctx context.Context, id uint, deletedBy uint) error {
	affected, err := softDeleteRows(ctx, d.db, &Inscription{}, &deletedBy, "id = ?", id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInscriptionNotFound
	}

	return nil
}

func (d *InscriptionDAO) Restore(ctx context.Context, id uint) error {
	affected, err := restoreRows(ctx, d.db, &Inscription{}, "id = ?", id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInscriptionNotFound
	}

	return nil
}

func (d *InscriptionDAO) InsertCoach(ctx context.Context, coach InscriptionCoach) (InscriptionCoach, error) {
	result := d.db.WithContext(ctx).Create(&coach)
	if result.Error != nil {
		return InscriptionCoach{}, result.Error
	}

	return coach, nil
}

func (d *InscriptionDAO) FindCoaches(ctx context.Context, inscriptionID uint) ([]InscriptionCoach, error) {
	var coaches []InscriptionCoach

	// The join guards against links orphaned by a soft-deleted parent.
	result := d.db.WithContext(ctx).
		Joins("JOIN inscriptions ON inscriptions.id = inscription_coaches.inscription_id AND inscriptions.deleted_at IS NULL").
		Where("inscription_coaches.inscription_id = ?", inscriptionID).
		Order("inscription_coaches.id").
		Find(&coaches)
	if result.Error != nil {
		return nil, result.Error
	}

	return coaches, nil
}

func (d *InscriptionDAO) SoftDeleteCoach(ctx context.Context, inscriptionID, coachID, deletedBy uint) error {
	affected, err := softDeleteRows(ctx, d.db, &InscriptionCoach{}, &deletedBy,
		"id = ? AND inscription_id = ?", coachID, inscriptionID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCoachNotFound
	}

	return nil
}

func (d *InscriptionDAO) RestoreCoach(ctx context.Context, inscriptionID, coachID uint) error {
	affected, err := restoreRows(ctx, d.db, &InscriptionCoach{},
		"id = ? AND inscription_id = ?", coachID, inscriptionID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCoachNotFound
	}

	return nil
}

func (d *InscriptionDAO) FindCoachByID(ctx context.Context, inscriptionID, coachID uint) (InscriptionCoach, error) {
	var coach InscriptionCoach

	result := d.db.WithContext(ctx).
		Where("id = ? AND inscription_id = ?", coachID, inscriptionID).
		First(&coach)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return InscriptionCoach{}, ErrCoachNotFound
		}

		return InscriptionCoach{}, result.Error
	}

	return coach, nil
}

// ReplaceCompetitorLinks soft-deletes every link on the given codices and
// inserts the cross product of competitor ids and codex numbers, atomically.
func (d *InscriptionDAO) ReplaceCompetitorLinks(ctx context.Context, inscriptionID uint, competitorIDs []uint, codexNumbers []string, addedBy uint) ([]InscriptionCompetitor, error) {
	if len(competitorIDs) == 0 || len(codexNumbers) == 0 {
		return nil, ErrEmptyLinkSet
	}

	var links []InscriptionCompetitor

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := softDeleteRows(ctx, tx, &InscriptionCompetitor{}, &addedBy,
			"inscription_id = ? AND codex_number IN ?", inscriptionID, codexNumbers); err != nil {
			return err
		}

		links = make([]InscriptionCompetitor, 0, len(competitorIDs)*len(codexNumbers))
		for _, codexNumber := range codexNumbers {
			for _, competitorID := range competitorIDs {
				links = append(links, InscriptionCompetitor{
					InscriptionID: inscriptionID,
					CompetitorID:  competitorID,
					CodexNumber:   codexNumber,
					AddedBy:       addedBy,
				})
			}
		}

		return tx.Create(&links).Error
	})
	if err != nil {
		return nil, err
	}

	return links, nil
}

func (d *InscriptionDAO) FindCompetitorLinks(ctx context.Context, inscriptionID uint) ([]InscriptionCompetitor, error) {
	var links []InscriptionCompetitor

	result := d.db.WithContext(ctx).
		Preload("Competitor").
		Joins("JOIN inscriptions ON inscriptions.id = inscription_competitors.inscription_id AND inscriptions.deleted_at IS NULL").
		Where("inscription_competitors.inscription_id = ?", inscriptionID).
		Order("inscription_competitors.codex_number, inscription_competitors.id").
		Find(&links)
	if result.Error != nil {
		return nil, result.Error
	}

	return links, nil
}

// FindLinksByCompetitor resolves the non-deleted links of one competitor,
// filtering out links whose parent inscription was soft-deleted.
func (d *InscriptionDAO) FindLinksByCompetitor(ctx context.Context, competitorID uint) ([]InscriptionCompetitor, error) {
	var links []InscriptionCompetitor

	result := d.db.WithContext(ctx).
		Joins("JOIN inscriptions ON inscriptions.id = inscription_competitors.inscription_id AND inscriptions.deleted_at IS NULL").
		Where("inscription_competitors.competitor_id = ?", competitorID).
		Order("inscription_competitors.inscription_id, inscription_competitors.codex_number").
		Find(&links)
	if result.Error != nil {
		return nil, result.Error
	}

	return links, nil
}

func (d *InscriptionDAO) FindLinksAddedBy(ctx context.Context, userID uint, limit int) ([]InscriptionCompetitor, error) {
	var links []InscriptionCompetitor

	result := d.db.WithContext(ctx).
		Where("added_by = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&links)
	if result.Error != nil {
		return nil, result.Error
	}

	return links, nil
}
