package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
	"github.com/valais-ski/fis-inscriptions-api/internal/repository/dao"
)

var (
	ErrInscriptionNotFound = dao.ErrInscriptionNotFound
	ErrCoachNotFound       = dao.ErrCoachNotFound
	ErrEmptyLinkSet        = dao.ErrEmptyLinkSet
)

type InscriptionDAO interface {
	Insert(ctx context.Context, inscription dao.Inscription) (dao.Inscription, error)
	FindByID(ctx context.Context, id uint) (dao.Inscription, error)
	FindAll(ctx context.Context) ([]dao.Inscription, error)
	FindByCreator(ctx context.Context, userID uint) ([]dao.Inscription, error)
	UpdateEventData(ctx context.Context, id uint, eventData datatypes.JSON) (dao.Inscription, error)
	UpdateStatusFields(ctx context.Context, id uint, fields map[string]any) (dao.Inscription, error)
	SoftDelete(ctx context.Context, id uint, deletedBy uint) error
	Restore(ctx context.Context, id uint) error

	InsertCoach(ctx context.Context, coach dao.InscriptionCoach) (dao.InscriptionCoach, error)
	FindCoaches(ctx context.Context, inscriptionID uint) ([]dao.InscriptionCoach, error)
	FindCoachByID(ctx context.Context, inscriptionID, coachID uint) (dao.InscriptionCoach, error)
	SoftDeleteCoach(ctx context.Context, inscriptionID, coachID, deletedBy uint) error
	RestoreCoach(ctx context.Context, inscriptionID, coachID uint) error

	ReplaceCompetitorLinks(ctx context.Context, inscriptionID uint, competitorIDs []uint, codexNumbers []string, addedBy uint) ([]dao.InscriptionCompetitor, error)
	FindCompetitorLinks(ctx context.Context, inscriptionID uint) ([]dao.InscriptionCompetitor, error)
	FindLinksByCompetitor(ctx context.Context, competitorID uint) ([]dao.InscriptionCompetitor, error)
	FindLinksAddedBy(ctx context.Context, userID uint, limit int) ([]dao.InscriptionCompetitor, error)
}

type InscriptionRepository struct {
	dao InscriptionDAO
}

func NewInscriptionRepository(dao InscriptionDAO) *InscriptionRepository {
	return &InscriptionRepository{
		dao: dao,
	}
}

func (r *InscriptionRepository) Create(ctx context.Context, inscription domain.Inscription) (domain.Inscription, error) {
	eventData, err := json.Marshal(inscription.EventData)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("json.Marshal event data -> %w", err)
	}

	created, err := r.dao.Insert(ctx, dao.Inscription{
		CreatedBy: inscription.CreatedBy,
		EventData: datatypes.JSON(eventData),
		Status:    string(domain.StatusOpen),
	})
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created)
}

func (r *InscriptionRepository) FindByID(ctx context.Context, id uint) (domain.Inscription, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found)
}

func (r *InscriptionRepository) FindAll(ctx context.Context) ([]domain.Inscription, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daoListToDomain(found)
}

func (r *InscriptionRepository) FindByCreator(ctx context.Context, userID uint) ([]domain.Inscription, error) {
	found, err := r.dao.FindByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByCreator -> %w", err)
	}

	return r.daoListToDomain(found)
}

func (r *InscriptionRepository) UpdateEventData(ctx context.Context, id uint, eventData domain.EventData) (domain.Inscription, error) {
	raw, err := json.Marshal(eventData)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("json.Marshal event data -> %w", err)
	}

	updated, err := r.dao.UpdateEventData(ctx, id, datatypes.JSON(raw))
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("r.dao.UpdateEventData -> %w", err)
	}

	return r.daoToDomain(updated)
}

// UpdateStatus sets the overall or gender-specific status column.
func (r *InscriptionRepository) UpdateStatus(ctx context.Context, id uint, status domain.Status, gender string) (domain.Inscription, error) {
	fields := map[string]any{}
	switch gender {
	case domain.GenderMen:
		fields["men_status"] = string(status)
	case domain.GenderWomen:
		fields["women_status"] = string(status)
	default:
		fields["status"] = string(status)
	}

	updated, err := r.dao.UpdateStatusFields(ctx, id, fields)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("r.dao.UpdateStatusFields -> %w", err)
	}

	return r.daoToDomain(updated)
}

// MarkEmailSent transitions the inscription (or one gender bucket) to
// email_sent and stamps the dispatch time.
func (r *InscriptionRepository) MarkEmailSent(ctx context.Context, id uint, gender string, sentAt time.Time) (domain.Inscription, error) {
	fields := map[string]any{}
	switch gender {
	case domain.GenderMen:
		fields["men_status"] = string(domain.StatusEmailSent)
		fields["men_email_sent_at"] = sentAt
	case domain.GenderWomen:
		fields["women_status"] = string(domain.StatusEmailSent)
		fields["women_email_sent_at"] = sentAt
	default:
		fields["status"] = string(domain.StatusEmailSent)
		fields["email_sent_at"] = sentAt
	}

	updated, err := r.dao.UpdateStatusFields(ctx, id, fields)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("r.dao.UpdateStatusFields -> %w", err)
	}

	return r.daoToDomain(updated)
}

// RollbackEmailSent is support tooling: email_sent goes back to validated and
// the dispatch stamp is cleared.
func (r *InscriptionRepository) RollbackEmailSent(ctx context.Context, id uint, gender string) (domain.Inscription, error) {
	fields := map[string]any{}
	switch gender {
	case domain.GenderMen:
		fields["men_status"] = string(domain.StatusValidated)
		fields["men_email_sent_at"] = nil
	case domain.GenderWomen:
		fields["women_status"] = string(domain.StatusValidated)
		fields["women_email_sent_at"] = nil
	default:
		fields["status"] = string(domain.StatusValidated)
		fields["email_sent_at"] = nil
	}

	updated, err := r.dao.UpdateStatusFields(ctx, id, fields)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("r.dao.UpdateStatusFields -> %w", err)
	}

	return r.daoToDomain(updated)
}

func (r *InscriptionRepository) SoftDelete(ctx context.Context, id uint, deletedBy uint) error {
	if err := r.dao.SoftDelete(ctx, id, deletedBy); err != nil {
		return fmt.Errorf("r.dao.SoftDelete -> %w", err)
	}

	return nil
}

func (r *InscriptionRepository) Restore(ctx context.Context, id uint) error {
	if err := r.dao.Restore(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Restore -> %w", err)
	}

	return nil
}

func (r *InscriptionRepository) AddCoach(ctx context.Context, coach domain.InscriptionCoach) (domain.InscriptionCoach, error) {
	created, err := r.dao.InsertCoach(ctx, dao.InscriptionCoach{
		InscriptionID: coach.InscriptionID,
		FirstName:     coach.FirstName,
		LastName:      coach.LastName,
		Gender:        coach.Gender,
		Team:          coach.Team,
		StartDate:     coach.StartDate,
		EndDate:       coach.EndDate,
		AddedBy:       coach.AddedBy,
	})
	if err != nil {
		return domain.InscriptionCoach{}, fmt.Errorf("r.dao.InsertCoach -> %w", err)
	}

	return coachDAOToDomain(created), nil
}

func (r *InscriptionRepository) FindCoaches(ctx context.Context, inscriptionID uint) ([]domain.InscriptionCoach, error) {
	found, err := r.dao.FindCoaches(ctx, inscriptionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCoaches -> %w", err)
	}

	coaches := make([]domain.InscriptionCoach, 0, len(found))
	for _, coach := range found {
		coaches = append(coaches, coachDAOToDomain(coach))
	}

	return coaches, nil
}

func (r *InscriptionRepository) FindCoachByID(ctx context.Context, inscriptionID, coachID uint) (domain.InscriptionCoach, error) {
	found, err := r.dao.FindCoachByID(ctx, inscriptionID, coachID)
	if err != nil {
		return domain.InscriptionCoach{}, fmt.Errorf("r.dao.FindCoachByID -> %w", err)
	}

	return coachDAOToDomain(found), nil
}

func (r *InscriptionRepository) RemoveCoach(ctx context.Context, inscriptionID, coachID, deletedBy uint) error {
	if err := r.dao.SoftDeleteCoach(ctx, inscriptionID, coachID, deletedBy); err != nil {
		return fmt.Errorf("r.dao.SoftDeleteCoach -> %w", err)
	}

	return nil
}

func (r *InscriptionRepository) RestoreCoach(ctx context.Context, inscriptionID, coachID uint) error {
	if err := r.dao.RestoreCoach(ctx, inscriptionID, coachID); err != nil {
		return fmt.Errorf("r.dao.RestoreCoach -> %w", err)
	}

	return nil
}

func (r *InscriptionRepository) ReplaceCompetitors(ctx context.Context, inscriptionID uint, competitorIDs []uint, codexNumbers []string, addedBy uint) ([]domain.InscriptionCompetitor, error) {
	created, err := r.dao.ReplaceCompetitorLinks(ctx, inscriptionID, competitorIDs, codexNumbers, addedBy)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ReplaceCompetitorLinks -> %w", err)
	}

	links := make([]domain.InscriptionCompetitor, 0, len(created))
	for _, link := range created {
		links = append(links, linkDAOToDomain(link))
	}

	return links, nil
}

func (r *InscriptionRepository) FindCompetitorLinks(ctx context.Context, inscriptionID uint) ([]domain.InscriptionCompetitor, error) {
	found, err := r.dao.FindCompetitorLinks(ctx, inscriptionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCompetitorLinks -> %w", err)
	}

	links := make([]domain.InscriptionCompetitor, 0, len(found))
	for _, link := range found {
		links = append(links, linkDAOToDomain(link))
	}

	return links, nil
}

func (r *InscriptionRepository) FindLinksByCompetitor(ctx context.Context, competitorID uint) ([]domain.InscriptionCompetitor, error) {
	found, err := r.dao.FindLinksByCompetitor(ctx, competitorID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindLinksByCompetitor -> %w", err)
	}

	links := make([]domain.InscriptionCompetitor, 0, len(found))
	for _, link := range found {
		links = append(links, linkDAOToDomain(link))
	}

	return links, nil
}

func (r *InscriptionRepository) FindLinksAddedBy(ctx context.Context, userID uint, limit int) ([]domain.InscriptionCompetitor, error) {
	found, err := r.dao.FindLinksAddedBy(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindLinksAddedBy -> %w", err)
	}

	links := make([]domain.InscriptionCompetitor, 0, len(found))
	for _, link := range found {
		links = append(links, linkDAOToDomain(link))
	}

	return links, nil
}

func (r *InscriptionRepository) daoToDomain(i dao.Inscription) (domain.Inscription, error) {
	var eventData domain.EventData
	if err := json.Unmarshal(i.EventData, &eventData); err != nil {
		return domain.Inscription{}, fmt.Errorf("json.Unmarshal event data -> %w", err)
	}

	inscription := domain.Inscription{
		ID:               i.ID,
		CreatedBy:        i.CreatedBy,
		EventData:        eventData,
		Status:           domain.Status(i.Status),
		EmailSentAt:      i.EmailSentAt,
		MenEmailSentAt:   i.MenEmailSentAt,
		WomenEmailSentAt: i.WomenEmailSentAt,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
	if i.MenStatus != nil {
		status := domain.Status(*i.MenStatus)
		inscription.MenStatus = &status
	}
	if i.WomenStatus != nil {
		status := domain.Status(*i.WomenStatus)
		inscription.WomenStatus = &status
	}

	return inscription, nil
}

func (r *InscriptionRepository) daoListToDomain(rows []dao.Inscription) ([]domain.Inscription, error) {
	inscriptions := make([]domain.Inscription, 0, len(rows))
	for _, row := range rows {
		inscription, err := r.daoToDomain(row)
		if err != nil {
			return nil, err
		}
		inscriptions = append(inscriptions, inscription)
	}

	return inscriptions, nil
}

func coachDAOToDomain(c dao.InscriptionCoach) domain.InscriptionCoach {
	return domain.InscriptionCoach{
		ID:            c.ID,
		InscriptionID: c.InscriptionID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Gender:        c.Gender,
		Team:          c.Team,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		AddedBy:       c.AddedBy,
		CreatedAt:     c.CreatedAt,
	}
}

func linkDAOToDomain(l dao.InscriptionCompetitor) domain.InscriptionCompetitor {
	return domain.InscriptionCompetitor{
		ID:            l.ID,
		InscriptionID: l.InscriptionID,
		CompetitorID:  l.CompetitorID,
		CodexNumber:   l.CodexNumber,
		AddedBy:       l.AddedBy,
		CreatedAt:     l.CreatedAt,
		Competitor:    competitorDAOToDomain(l.Competitor),
	}
}
