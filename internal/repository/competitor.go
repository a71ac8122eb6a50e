package repository

import (
	"context"
	"fmt"

	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
	"github.com/valais-ski/fis-inscriptions-api/internal/repository/dao"
)

var ErrCompetitorNotFound = dao.ErrCompetitorNotFound

type CompetitorDAO interface {
	FindByID(ctx context.Context, competitorID uint) (dao.Competitor, error)
	FindByIDs(ctx context.Context, competitorIDs []uint) ([]dao.Competitor, error)
	Search(ctx context.Context, query string) ([]dao.Competitor, error)
	UpsertBatch(ctx context.Context, competitors []dao.Competitor) (int64, error)
}

type CompetitorRepository struct {
	dao CompetitorDAO
}

func NewCompetitorRepository(dao CompetitorDAO) *CompetitorRepository {
	return &CompetitorRepository{
		dao: dao,
	}
}

func (r *CompetitorRepository) FindByID(ctx context.Context, competitorID uint) (domain.Competitor, error) {
	found, err := r.dao.FindByID(ctx, competitorID)
	if err != nil {
		return domain.Competitor{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return competitorDAOToDomain(found), nil
}

func (r *CompetitorRepository) FindByIDs(ctx context.Context, competitorIDs []uint) ([]domain.Competitor, error) {
	found, err := r.dao.FindByIDs(ctx, competitorIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByIDs -> %w", err)
	}

	competitors := make([]domain.Competitor, 0, len(found))
	for _, competitor := range found {
		competitors = append(competitors, competitorDAOToDomain(competitor))
	}

	return competitors, nil
}

func (r *CompetitorRepository) Search(ctx context.Context, query string) ([]domain.Competitor, error) {
	found, err := r.dao.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Search -> %w", err)
	}

	competitors := make([]domain.Competitor, 0, len(found))
	for _, competitor := range found {
		competitors = append(competitors, competitorDAOToDomain(competitor))
	}

	return competitors, nil
}

func (r *CompetitorRepository) UpsertBatch(ctx context.Context, competitors []domain.Competitor) (int64, error) {
	rows := make([]dao.Competitor, 0, len(competitors))
	for _, competitor := range competitors {
		rows = append(rows, dao.Competitor{
			CompetitorID: competitor.CompetitorID,
			FisCode:      competitor.FisCode,
			LastName:     competitor.LastName,
			FirstName:    competitor.FirstName,
			NationCode:   competitor.NationCode,
			Gender:       competitor.Gender,
			BirthDate:    competitor.BirthDate,
			SkiClub:      competitor.SkiClub,
			SLPoints:     competitor.SLPoints,
			GSPoints:     competitor.GSPoints,
			SGPoints:     competitor.SGPoints,
			DHPoints:     competitor.DHPoints,
			ACPoints:     competitor.ACPoints,
		})
	}

	affected, err := r.dao.UpsertBatch(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("r.dao.UpsertBatch -> %w", err)
	}

	return affected, nil
}

func competitorDAOToDomain(c dao.Competitor) domain.Competitor {
	return domain.Competitor{
		CompetitorID: c.CompetitorID,
		FisCode:      c.FisCode,
		LastName:     c.LastName,
		FirstName:    c.FirstName,
		NationCode:   c.NationCode,
		Gender:       c.Gender,
		BirthDate:    c.BirthDate,
		SkiClub:      c.SkiClub,
		SLPoints:     c.SLPoints,
		GSPoints:     c.GSPoints,
		SGPoints:     c.SGPoints,
		DHPoints:     c.DHPoints,
		ACPoints:     c.ACPoints,
		UpdatedAt:    c.UpdatedAt,
	}
}
