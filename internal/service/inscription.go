package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
	"github.com/valais-ski/fis-inscriptions-api/internal/fisapi"
	"github.com/valais-ski/fis-inscriptions-api/internal/repository"
)

var (
	ErrInscriptionNotFound  = repository.ErrInscriptionNotFound
	ErrCoachNotFound        = repository.ErrCoachNotFound
	ErrEmptyLinkSet         = repository.ErrEmptyLinkSet
	ErrOrganizationNotFound = repository.ErrOrganizationNotFound
	ErrEventNotFound        = fisapi.ErrEventNotFound

	ErrInscriptionLocked   = errors.New("inscription is locked after entry form dispatch")
	ErrInvalidStatusChange = errors.New("invalid status change")
	ErrEventDataCurrent    = errors.New("event data already matches upstream")
	ErrUnknownCodex        = errors.New("codex does not belong to this event")

	ErrCoachDateOrder        = errors.New("start date cannot be after end date")
	ErrCoachStartBeforeEvent = errors.New("start date cannot be before event start date")
	ErrCoachEndAfterEvent    = errors.New("end date cannot be after event end date")
)

type InscriptionRepository interface {
	Create(ctx context.Context, inscription domain.Inscription) (domain.Inscription, error)
	FindByID(ctx context.Context, id uint) (domain.Inscription, error)
	FindAll(ctx context.Context) ([]domain.Inscription, error)
	FindByCreator(ctx context.Context, userID uint) ([]domain.Inscription, error)
	UpdateEventData(ctx context.Context, id uint, eventData domain.EventData) (domain.Inscription, error)
	UpdateStatus(ctx context.Context, id uint, status domain.Status, gender string) (domain.Inscription, error)
	MarkEmailSent(ctx context.Context, id uint, gender string, sentAt time.Time) (domain.Inscription, error)
	RollbackEmailSent(ctx context.Context, id uint, gender string) (domain.Inscription, error)
	SoftDelete(ctx context.Context, id uint, deletedBy uint) error
	Restore(ctx context.Context, id uint) error

	AddCoach(ctx context.Context, coach domain.InscriptionCoach) (domain.InscriptionCoach, error)
	FindCoaches(ctx context.Context, inscriptionID uint) ([]domain.InscriptionCoach, error)
	FindCoachByID(ctx context.Context, inscriptionID, coachID uint) (domain.InscriptionCoach, error)
	RemoveCoach(ctx context.Context, inscriptionID, coachID, deletedBy uint) error
	RestoreCoach(ctx context.Context, inscriptionID, coachID uint) error

	ReplaceCompetitors(ctx context.Context, inscriptionID uint, competitorIDs []uint, codexNumbers []string, addedBy uint) ([]domain.InscriptionCompetitor, error)
	FindCompetitorLinks(ctx context.Context, inscriptionID uint) ([]domain.InscriptionCompetitor, error)
}

type InscriptionOrganizationRepository interface {
	FindByCode(ctx context.Context, code string) (domain.Organization, error)
}

type CompetitorFinder interface {
	FindByIDs(ctx context.Context, competitorIDs []uint) ([]domain.Competitor, error)
}

type EventFetcher interface {
	GetEvent(ctx context.Context, codex, seasonCode string) (domain.EventData, error)
}

type EmailSender interface {
	SendInscriptionPDF(ctx context.Context, to []string, subject string, body string, pdf []byte, filename string) error
	SendNotification(ctx context.Context, to []string, subject string, lines []string) error
}

type InscriptionService struct {
	repo        InscriptionRepository
	orgs        InscriptionOrganizationRepository
	competitors CompetitorFinder
	events      EventFetcher
	emails      EmailSender
	orgCode     string
}

func NewInscriptionService(
	repo InscriptionRepository,
	orgs InscriptionOrganizationRepository,
	competitors CompetitorFinder,
	events EventFetcher,
	emails EmailSender,
	orgCode string,
) *InscriptionService {
	return &InscriptionService{
		repo:        repo,
		orgs:        orgs,
		competitors: competitors,
		events:      events,
		emails:      emails,
		orgCode:     orgCode,
	}
}

// CreateInscription pulls the event snapshot from the federation API and opens
// an inscription on it. The roster notification is best effort: the
// inscription is created even when the email fails.
func (s *InscriptionService) CreateInscription(ctx context.Context, userID uint, codex, seasonCode string) (domain.Inscription, error) {
	event, err := s.events.GetEvent(ctx, codex, seasonCode)
	if err != nil {
		if errors.Is(err, fisapi.ErrEventNotFound) {
			return domain.Inscription{}, ErrEventNotFound
		}

		return domain.Inscription{}, fmt.Errorf("s.events.GetEvent -> %w", err)
	}

	created, err := s.repo.Create(ctx, domain.Inscription{
		CreatedBy: userID,
		EventData: event,
	})
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.notifyInscriptionCreated(ctx, created)

	return created, nil
}

func (s *InscriptionService) ListInscriptions(ctx context.Context) ([]domain.Inscription, error) {
	inscriptions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return inscriptions, nil
}

func (s *InscriptionService) GetInscription(ctx context.Context, id uint) (domain.Inscription, error) {
	inscription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return inscription, nil
}

func (s *InscriptionService) ListInscriptionsByCreator(ctx context.Context, userID uint) ([]domain.Inscription, error) {
	inscriptions, err := s.repo.FindByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByCreator -> %w", err)
	}

	return inscriptions, nil
}

// UpdateStatus moves the inscription, or one gender bucket on a mixed event,
// through the lifecycle. email_sent is never settable here: it is only reached
// as a side effect of a successful entry-form dispatch.
func (s *InscriptionService) UpdateStatus(ctx context.Context, id uint, to domain.Status, gender string) (domain.Inscription, error) {
	if !to.Valid() || to == domain.StatusEmailSent {
		return domain.Inscription{}, ErrInvalidStatusChange
	}

	inscription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	gender = normalizeGender(&inscription, gender)

	from := inscription.EffectiveStatus(gender)
	if from == domain.StatusEmailSent {
		return domain.Inscription{}, ErrInscriptionLocked
	}
	if !domain.CanTransition(from, to) {
		return domain.Inscription{}, ErrInvalidStatusChange
	}

	updated, err := s.repo.UpdateStatus(ctx, id, to, gender)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return updated, nil
}

// CancelInscription moves the inscription, or one gender bucket, to cancelled.
// Unlike UpdateStatus this also reaches inscriptions locked behind email_sent:
// cancellation is allowed from every state except cancelled itself.
func (s *InscriptionService) CancelInscription(ctx context.Context, id uint, gender string) (domain.Inscription, error) {
	inscription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	gender = normalizeGender(&inscription, gender)

	if !domain.CanTransition(inscription.EffectiveStatus(gender), domain.StatusCancelled) {
		return domain.Inscription{}, ErrInvalidStatusChange
	}

	updated, err := s.repo.UpdateStatus(ctx, id, domain.StatusCancelled, gender)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return updated, nil
}

// DiffEventData fetches the authoritative upstream snapshot and reports every
// field where the stored copy drifted.
func (s *InscriptionService) DiffEventData(ctx context.Context, id uint) (domain.EventDiff, error) {
	inscription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.EventDiff{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if len(inscription.EventData.Competitions) == 0 {
		return domain.EventDiff{}, ErrEventNotFound
	}

	remote, err := s.events.GetEvent(ctx,
		inscription.EventData.Competitions[0].Codex, inscription.EventData.SeasonCode)
	if err != nil {
		if errors.Is(err, fisapi.ErrEventNotFound) {
			return domain.EventDiff{}, ErrEventNotFound
		}

		return domain.EventDiff{}, fmt.Errorf("s.events.GetEvent -> %w", err)
	}

	return domain.EventDiff{
		Differences: domain.DiffEventData(inscription.EventData, remote),
		Remote:      remote,
	}, nil
}

// ApplyEventData persists the upstream snapshot as the new stored copy,
// all or nothing. When nothing drifted there is nothing to apply.
func (s *InscriptionService) ApplyEventData(ctx context.Context, id uint) (domain.Inscription, error) {
	inscription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !canEditSnapshot(&inscription) {
		return domain.Inscription{}, ErrInscriptionLocked
	}

	diff, err := s.DiffEventData(ctx, id)
	if err != nil {
		return domain.Inscription{}, err
	}
	if !diff.HasChanges() {
		return domain.Inscription{}, ErrEventDataCurrent
	}

	updated, err := s.repo.UpdateEventData(ctx, id, diff.Remote)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("s.repo.UpdateEventData -> %w", err)
	}

	return updated, nil
}

func (s *InscriptionService) DeleteInscription(ctx context.Context, id uint, deletedBy uint) error {
	if err := s.repo.SoftDelete(ctx, id, deletedBy); err != nil {
		return fmt.Errorf("s.repo.SoftDelete -> %w", err)
	}

	return nil
}

func (s *InscriptionService) RestoreInscription(ctx context.Context, id uint) (domain.Inscription, error) {
	if err := s.repo.Restore(ctx, id); err != nil {
		return domain.Inscription{}, fmt.Errorf("s.repo.Restore -> %w", err)
	}

	inscription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return inscription, nil
}

// RollbackStatus is the support path that undoes an entry-form dispatch:
// email_sent goes back to validated and the bucket unlocks.
func (s *InscriptionService) RollbackStatus(ctx context.Context, id uint, gender string) (domain.Inscription, error) {
	inscription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	gender = normalizeGender(&inscription, gender)
	if inscription.EffectiveStatus(gender) != domain.StatusEmailSent {
		return domain.Inscription{}, ErrInvalidStatusChange
	}

	updated, err := s.repo.RollbackEmailSent(ctx, id, gender)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("s.repo.RollbackEmailSent -> %w", err)
	}

	return updated, nil
}

// AddCoach attaches a staff member whose validity window must sit inside the
// event window. Each date violation is its own error so callers can report it
// precisely.
func (s *InscriptionService) AddCoach(ctx context.Context, coach domain.InscriptionCoach) (domain.InscriptionCoach, error) {
	inscription, err := s.repo.FindByID(ctx, coach.InscriptionID)
	if err != nil {
		return domain.InscriptionCoach{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !inscription.CanEdit(normalizeGender(&inscription, coach.Gender)) {
		return domain.InscriptionCoach{}, ErrInscriptionLocked
	}

	eventStart, eventEnd, err := inscription.EventData.Window()
	if err != nil {
		return domain.InscriptionCoach{}, fmt.Errorf("inscription.EventData.Window -> %w", err)
	}

	switch {
	case coach.StartDate.After(coach.EndDate):
		return domain.InscriptionCoach{}, ErrCoachDateOrder
	case coach.StartDate.Before(eventStart):
		return domain.InscriptionCoach{}, ErrCoachStartBeforeEvent
	case coach.EndDate.After(eventEnd):
		return domain.InscriptionCoach{}, ErrCoachEndAfterEvent
	}

	created, err := s.repo.AddCoach(ctx, coach)
	if err != nil {
		return domain.InscriptionCoach{}, fmt.Errorf("s.repo.AddCoach -> %w", err)
	}

	return created, nil
}

func (s *InscriptionService) ListCoaches(ctx context.Context, inscriptionID uint) ([]domain.InscriptionCoach, error) {
	if _, err := s.repo.FindByID(ctx, inscriptionID); err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	coaches, err := s.repo.FindCoaches(ctx, inscriptionID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindCoaches -> %w", err)
	}

	return coaches, nil
}

func (s *InscriptionService) RemoveCoach(ctx context.Context, inscriptionID, coachID, deletedBy uint) error {
	inscription, err := s.repo.FindByID(ctx, inscriptionID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	coach, err := s.repo.FindCoachByID(ctx, inscriptionID, coachID)
	if err != nil {
		return fmt.Errorf("s.repo.FindCoachByID -> %w", err)
	}
	if !inscription.CanEdit(normalizeGender(&inscription, coach.Gender)) {
		return ErrInscriptionLocked
	}

	if err = s.repo.RemoveCoach(ctx, inscriptionID, coachID, deletedBy); err != nil {
		return fmt.Errorf("s.repo.RemoveCoach -> %w", err)
	}

	return nil
}

func (s *InscriptionService) RestoreCoach(ctx context.Context, inscriptionID, coachID uint) error {
	if err := s.repo.RestoreCoach(ctx, inscriptionID, coachID); err != nil {
		return fmt.Errorf("s.repo.RestoreCoach -> %w", err)
	}

	return nil
}

// SaveCompetitors replaces the links for the submitted codex set with the
// cross product of competitors and codices. Links on codices outside the
// submitted set are left untouched.
func (s *InscriptionService) SaveCompetitors(ctx context.Context, inscriptionID uint, competitorIDs []uint, codexNumbers []string, addedBy uint) ([]domain.InscriptionCompetitor, error) {
	if len(competitorIDs) == 0 || len(codexNumbers) == 0 {
		return nil, ErrEmptyLinkSet
	}

	inscription, err := s.repo.FindByID(ctx, inscriptionID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	competitionByCodex := make(map[string]domain.Competition, len(inscription.EventData.Competitions))
	for _, competition := range inscription.EventData.Competitions {
		competitionByCodex[competition.Codex] = competition
	}

	for _, codexNumber := range codexNumbers {
		competition, ok := competitionByCodex[codexNumber]
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnknownCodex, codexNumber)
		}
		if !inscription.CanEdit(normalizeGender(&inscription, competition.GenderCode)) {
			return nil, ErrInscriptionLocked
		}
	}

	found, err := s.competitors.FindByIDs(ctx, competitorIDs)
	if err != nil {
		return nil, fmt.Errorf("s.competitors.FindByIDs -> %w", err)
	}
	if len(found) != len(competitorIDs) {
		return nil, ErrCompetitorNotFound
	}

	links, err := s.repo.ReplaceCompetitors(ctx, inscriptionID, competitorIDs, codexNumbers, addedBy)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ReplaceCompetitors -> %w", err)
	}

	return links, nil
}

func (s *InscriptionService) ListCompetitors(ctx context.Context, inscriptionID uint) ([]domain.InscriptionCompetitor, error) {
	if _, err := s.repo.FindByID(ctx, inscriptionID); err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	links, err := s.repo.FindCompetitorLinks(ctx, inscriptionID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindCompetitorLinks -> %w", err)
	}

	return links, nil
}

// CheckCodex reports whether another live inscription already carries the
// codex within the season. Without a season the check always passes; codex
// numbers repeat across seasons.
func (s *InscriptionService) CheckCodex(ctx context.Context, number, seasonCode string, excludeID uint) (bool, error) {
	if seasonCode == "" {
		return false, nil
	}

	inscriptions, err := s.repo.FindAll(ctx)
	if err != nil {
		return false, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	for _, inscription := range inscriptions {
		if inscription.ID == excludeID || inscription.EventData.SeasonCode != seasonCode {
			continue
		}
		for _, competition := range inscription.EventData.Competitions {
			if competition.Codex == number {
				return true, nil
			}
		}
	}

	return false, nil
}

// SendEntryForm mails the PDF entry form to the race organizers and locks the
// inscription (or the gender bucket) behind email_sent. The email decides the
// outcome: once it went out it cannot be unsent, so a failure stamping the
// status afterwards is logged and swallowed.
func (s *InscriptionService) SendEntryForm(ctx context.Context, id uint, gender string, to []string, subject string, pdf []byte, filename string) (domain.Inscription, error) {
	inscription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Inscription{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	gender = normalizeGender(&inscription, gender)

	switch inscription.EffectiveStatus(gender) {
	case domain.StatusEmailSent:
		return domain.Inscription{}, ErrInscriptionLocked
	case domain.StatusValidated:
	default:
		return domain.Inscription{}, ErrInvalidStatusChange
	}

	body := fmt.Sprintf("<p>Entry form for %v, %v (%v to %v).</p>",
		inscription.EventData.Name, inscription.EventData.Place,
		inscription.EventData.StartDate, inscription.EventData.EndDate)
	if err = s.emails.SendInscriptionPDF(ctx, to, subject, body, pdf, filename); err != nil {
		return domain.Inscription{}, fmt.Errorf("s.emails.SendInscriptionPDF -> %w", err)
	}

	updated, err := s.repo.MarkEmailSent(ctx, id, gender, time.Now())
	if err != nil {
		zap.L().Error("entry form dispatched but status update failed",
			zap.Uint("inscription_id", id),
			zap.String("gender", gender),
			zap.Error(err))

		return inscription, nil
	}

	return updated, nil
}

// ContactInscription mails a formatted notification about the inscription to
// the organization's contact roster.
func (s *InscriptionService) ContactInscription(ctx context.Context, id uint, message string) error {
	inscription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	org, err := s.orgs.FindByCode(ctx, s.orgCode)
	if err != nil {
		return fmt.Errorf("s.orgs.FindByCode -> %w", err)
	}
	recipients := org.NotificationRecipients()
	if len(recipients) == 0 {
		return ErrOrganizationNotFound
	}

	lines := []string{
		fmt.Sprintf("Inscription #%v: %v, %v", inscription.ID, inscription.EventData.Name, inscription.EventData.Place),
		fmt.Sprintf("Dates: %v to %v", inscription.EventData.StartDate, inscription.EventData.EndDate),
	}
	if message != "" {
		lines = append(lines, message)
	}

	if err = s.emails.SendNotification(ctx, recipients, org.NotificationSubject, lines); err != nil {
		return fmt.Errorf("s.emails.SendNotification -> %w", err)
	}

	return nil
}

func (s *InscriptionService) notifyInscriptionCreated(ctx context.Context, inscription domain.Inscription) {
	org, err := s.orgs.FindByCode(ctx, s.orgCode)
	if err != nil {
		zap.L().Warn("skipping creation notification, organization lookup failed",
			zap.String("organization_code", s.orgCode),
			zap.Error(err))
		return
	}

	recipients := org.NotificationRecipients()
	if len(recipients) == 0 {
		return
	}

	lines := []string{
		fmt.Sprintf("New inscription #%v created for %v, %v",
			inscription.ID, inscription.EventData.Name, inscription.EventData.Place),
		fmt.Sprintf("Dates: %v to %v", inscription.EventData.StartDate, inscription.EventData.EndDate),
	}
	if err = s.emails.SendNotification(ctx, recipients, org.NotificationSubject, lines); err != nil {
		zap.L().Warn("creation notification failed",
			zap.Uint("inscription_id", inscription.ID),
			zap.Error(err))
	}
}

// normalizeGender collapses the gender selector to the overall bucket when the
// event is not mixed, so single-gender events are always governed by the
// overall status.
func normalizeGender(inscription *domain.Inscription, gender string) string {
	if !inscription.EventData.IsMixed() {
		return ""
	}
	if gender != domain.GenderMen && gender != domain.GenderWomen {
		return ""
	}

	return gender
}

// canEditSnapshot guards whole-blob writes: the snapshot spans both gender
// buckets, so a lock on either one blocks it.
func canEditSnapshot(inscription *domain.Inscription) bool {
	if !inscription.EventData.IsMixed() {
		return inscription.CanEdit("")
	}

	return inscription.CanEdit(domain.GenderMen) && inscription.CanEdit(domain.GenderWomen)
}
