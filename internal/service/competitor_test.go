package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
	"github.com/valais-ski/fis-inscriptions-api/internal/repository"
)

type mockCompetitorRepo struct {
	FindByIDFn    func(ctx context.Context, competitorID uint) (domain.Competitor, error)
	SearchFn      func(ctx context.Context, query string) ([]domain.Competitor, error)
	UpsertBatchFn func(ctx context.Context, competitors []domain.Competitor) (int64, error)
}

func (m *mockCompetitorRepo) FindByID(ctx context.Context, competitorID uint) (domain.Competitor, error) {
	return m.FindByIDFn(ctx, competitorID)
}

func (m *mockCompetitorRepo) Search(ctx context.Context, query string) ([]domain.Competitor, error) {
	return m.SearchFn(ctx, query)
}

func (m *mockCompetitorRepo) UpsertBatch(ctx context.Context, competitors []domain.Competitor) (int64, error) {
	return m.UpsertBatchFn(ctx, competitors)
}

type mockCompetitorInscriptionRepo struct {
	FindByIDFn              func(ctx context.Context, id uint) (domain.Inscription, error)
	FindLinksByCompetitorFn func(ctx context.Context, competitorID uint) ([]domain.InscriptionCompetitor, error)
}

func (m *mockCompetitorInscriptionRepo) FindByID(ctx context.Context, id uint) (domain.Inscription, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *mockCompetitorInscriptionRepo) FindLinksByCompetitor(ctx context.Context, competitorID uint) ([]domain.InscriptionCompetitor, error) {
	return m.FindLinksByCompetitorFn(ctx, competitorID)
}

func TestSearchCompetitors(t *testing.T) {
	testCases := []struct {
		name    string
		query   string
		gotten  string
		wantErr error
	}{
		{name: "six characters rejected", query: "abcdef", wantErr: ErrSearchTooShort},
		{name: "seven characters accepted", query: "abcdefg", gotten: "abcdefg"},
		{name: "padding does not count", query: "  abc   ", wantErr: ErrSearchTooShort},
		{name: "query is trimmed before searching", query: " martinez ", gotten: "martinez"},
		{name: "runes counted not bytes", query: "éléonor", gotten: "éléonor"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var searched string
			repo := &mockCompetitorRepo{
				SearchFn: func(ctx context.Context, query string) ([]domain.Competitor, error) {
					searched = query
					return []domain.Competitor{{CompetitorID: 1}}, nil
				},
			}
			svc := NewCompetitorService(repo, &mockCompetitorInscriptionRepo{})

			results, err := svc.SearchCompetitors(context.Background(), tc.query)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, results, 1)
			require.Equal(t, tc.gotten, searched)
		})
	}
}

func TestCompetitorListInscriptions(t *testing.T) {
	repo := &mockCompetitorRepo{
		FindByIDFn: func(ctx context.Context, competitorID uint) (domain.Competitor, error) {
			return domain.Competitor{CompetitorID: competitorID}, nil
		},
	}
	inscriptions := &mockCompetitorInscriptionRepo{
		FindLinksByCompetitorFn: func(ctx context.Context, competitorID uint) ([]domain.InscriptionCompetitor, error) {
			return []domain.InscriptionCompetitor{
				{InscriptionID: 1, CodexNumber: "1234"},
				{InscriptionID: 2, CodexNumber: "5000"},
				{InscriptionID: 1, CodexNumber: "1235"},
			}, nil
		},
		FindByIDFn: func(ctx context.Context, id uint) (domain.Inscription, error) {
			if id == 2 {
				// Deleted between the link query and the lookup.
				return domain.Inscription{}, repository.ErrInscriptionNotFound
			}
			return domain.Inscription{ID: id}, nil
		},
	}
	svc := NewCompetitorService(repo, inscriptions)

	entries, err := svc.ListInscriptions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, uint(1), entries[0].Inscription.ID)
	require.Equal(t, []string{"1234", "1235"}, entries[0].Codices)
}

func TestImportCSV(t *testing.T) {
	newService := func(affected *[]domain.Competitor) *CompetitorService {
		repo := &mockCompetitorRepo{
			UpsertBatchFn: func(ctx context.Context, competitors []domain.Competitor) (int64, error) {
				*affected = competitors
				return int64(len(competitors)), nil
			},
		}
		return NewCompetitorService(repo, &mockCompetitorInscriptionRepo{})
	}

	t.Run("points list rows", func(t *testing.T) {
		csv := strings.Join([]string{
			"Competitorid,Fiscode,Lastname,Firstname,Nationcode,Gender,Birthdate,Skiclub,SLpoints,GSpoints",
			"512001,10001,FAVRE,Luc,SUI,M,2004-03-01,SC Verbier,12.34,",
			"512002,10002,MEIER,Anna,SUI,W,2005-07-15,SC Zermatt,,45.60",
		}, "\n")

		var got []domain.Competitor
		affected, err := newService(&got).ImportCSV(context.Background(), strings.NewReader(csv))
		require.NoError(t, err)
		require.Equal(t, int64(2), affected)
		require.Len(t, got, 2)

		require.Equal(t, uint(512001), got[0].CompetitorID)
		require.Equal(t, "FAVRE", got[0].LastName)
		require.NotNil(t, got[0].SLPoints)
		require.Equal(t, 12.34, *got[0].SLPoints)
		require.Nil(t, got[0].GSPoints)

		require.Nil(t, got[1].SLPoints)
		require.NotNil(t, got[1].GSPoints)
		require.Equal(t, 45.6, *got[1].GSPoints)
	})

	t.Run("header only", func(t *testing.T) {
		var got []domain.Competitor
		_, err := newService(&got).ImportCSV(context.Background(), strings.NewReader("competitorid,lastname\n"))
		require.ErrorIs(t, err, ErrEmptyImport)
	})

	t.Run("missing competitorid column", func(t *testing.T) {
		var got []domain.Competitor
		_, err := newService(&got).ImportCSV(context.Background(), strings.NewReader("fiscode,lastname\n10001,FAVRE\n"))
		require.ErrorIs(t, err, ErrMalformedImport)
	})

	t.Run("unparseable competitorid", func(t *testing.T) {
		var got []domain.Competitor
		_, err := newService(&got).ImportCSV(context.Background(), strings.NewReader("competitorid,lastname\nnot-a-number,FAVRE\n"))
		require.ErrorIs(t, err, ErrMalformedImport)
	})

	t.Run("unparseable points value", func(t *testing.T) {
		var got []domain.Competitor
		_, err := newService(&got).ImportCSV(context.Background(), strings.NewReader("competitorid,slpoints\n512001,n/a\n"))
		require.ErrorIs(t, err, ErrMalformedImport)
	})
}
