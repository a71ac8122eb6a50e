package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
	"github.com/valais-ski/fis-inscriptions-api/internal/repository"
)

// Queries shorter than this would sweep most of the points list.
const minSearchLength = 7

var (
	ErrCompetitorNotFound = repository.ErrCompetitorNotFound
	ErrSearchTooShort     = fmt.Errorf("search query must be at least %v characters", minSearchLength)
	ErrEmptyImport        = errors.New("import contains no competitor rows")
	ErrMalformedImport    = errors.New("import file is malformed")
)

type CompetitorRepository interface {
	FindByID(ctx context.Context, competitorID uint) (domain.Competitor, error)
	Search(ctx context.Context, query string) ([]domain.Competitor, error)
	UpsertBatch(ctx context.Context, competitors []domain.Competitor) (int64, error)
}

type CompetitorInscriptionRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Inscription, error)
	FindLinksByCompetitor(ctx context.Context, competitorID uint) ([]domain.InscriptionCompetitor, error)
}

type CompetitorService struct {
	repo         CompetitorRepository
	inscriptions CompetitorInscriptionRepository
}

func NewCompetitorService(repo CompetitorRepository, inscriptions CompetitorInscriptionRepository) *CompetitorService {
	return &CompetitorService{
		repo:         repo,
		inscriptions: inscriptions,
	}
}

func (s *CompetitorService) SearchCompetitors(ctx context.Context, query string) ([]domain.Competitor, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchLength {
		return nil, ErrSearchTooShort
	}

	competitors, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Search -> %w", err)
	}

	return competitors, nil
}

// ListInscriptions resolves every live inscription the competitor is entered
// on, with the codices grouped per inscription.
func (s *CompetitorService) ListInscriptions(ctx context.Context, competitorID uint) ([]domain.CompetitorEntry, error) {
	if _, err := s.repo.FindByID(ctx, competitorID); err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	links, err := s.inscriptions.FindLinksByCompetitor(ctx, competitorID)
	if err != nil {
		return nil, fmt.Errorf("s.inscriptions.FindLinksByCompetitor -> %w", err)
	}

	var order []uint
	codicesByInscription := make(map[uint][]string)
	for _, link := range links {
		if _, seen := codicesByInscription[link.InscriptionID]; !seen {
			order = append(order, link.InscriptionID)
		}
		codicesByInscription[link.InscriptionID] = append(codicesByInscription[link.InscriptionID], link.CodexNumber)
	}

	entries := make([]domain.CompetitorEntry, 0, len(order))
	for _, inscriptionID := range order {
		inscription, err := s.inscriptions.FindByID(ctx, inscriptionID)
		if err != nil {
			// The link join already filtered deleted parents; a row
			// vanishing in between is a plain race, skip it.
			if errors.Is(err, repository.ErrInscriptionNotFound) {
				continue
			}

			return nil, fmt.Errorf("s.inscriptions.FindByID -> %w", err)
		}

		entries = append(entries, domain.CompetitorEntry{
			Inscription: inscription,
			Codices:     codicesByInscription[inscriptionID],
		})
	}

	return entries, nil
}

// ImportCSV refreshes the competitor table from a federation points list
// export. The header row names the columns; unknown columns are ignored.
func (s *CompetitorService) ImportCSV(ctx context.Context, r io.Reader) (int64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("%w: unreadable header row", ErrMalformedImport)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["competitorid"]; !ok {
		return 0, fmt.Errorf("%w: missing the competitorid column", ErrMalformedImport)
	}

	var competitors []domain.Competitor
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMalformedImport, err)
		}

		competitor, err := recordToCompetitor(columns, record)
		if err != nil {
			return 0, err
		}
		competitors = append(competitors, competitor)
	}
	if len(competitors) == 0 {
		return 0, ErrEmptyImport
	}

	affected, err := s.repo.UpsertBatch(ctx, competitors)
	if err != nil {
		return 0, fmt.Errorf("s.repo.UpsertBatch -> %w", err)
	}

	return affected, nil
}

func recordToCompetitor(columns map[string]int, record []string) (domain.Competitor, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	id, err := strconv.ParseUint(field("competitorid"), 10, 64)
	if err != nil {
		return domain.Competitor{}, fmt.Errorf("%w: invalid competitorid %q", ErrMalformedImport, field("competitorid"))
	}

	competitor := domain.Competitor{
		CompetitorID: uint(id),
		FisCode:      field("fiscode"),
		LastName:     field("lastname"),
		FirstName:    field("firstname"),
		NationCode:   field("nationcode"),
		Gender:       field("gender"),
		BirthDate:    field("birthdate"),
		SkiClub:      field("skiclub"),
	}

	points := []struct {
		column string
		target **float64
	}{
		{"slpoints", &competitor.SLPoints},
		{"gspoints", &competitor.GSPoints},
		{"sgpoints", &competitor.SGPoints},
		{"dhpoints", &competitor.DHPoints},
		{"acpoints", &competitor.ACPoints},
	}
	for _, p := range points {
		raw := field(p.column)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Competitor{}, fmt.Errorf("%w: invalid %v %q", ErrMalformedImport, p.column, raw)
		}
		*p.target = &value
	}

	return competitor, nil
}
