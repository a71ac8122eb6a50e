package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testDB stays nil when no docker daemon is reachable; every test skips then.
var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker not available, skipping dao tests: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=inscriptions_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	_ = resource.Expire(300)

	dsn := fmt.Sprintf("host=localhost port=%v user=postgres password=secret dbname=inscriptions_test sslmode=disable",
		resource.GetPort("5432/tcp"))
	if err = pool.Retry(func() error {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err = sqlDB.Ping(); err != nil {
			return err
		}
		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()
	_ = pool.Purge(resource)
	os.Exit(code)
}

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("docker is not available")
	}

	return testDB
}

func insertInscription(t *testing.T, db *gorm.DB, createdBy uint) Inscription {
	t.Helper()

	dao := NewInscriptionDAO(db)
	inscription, err := dao.Insert(context.Background(), Inscription{
		CreatedBy: createdBy,
		EventData: datatypes.JSON(`{"name": "test event"}`),
		Status:    "open",
	})
	require.NoError(t, err)

	return inscription
}

func TestInscriptionSoftDeleteAndRestore(t *testing.T) {
	db := requireDB(t)
	dao := NewInscriptionDAO(db)
	ctx := context.Background()

	inscription := insertInscription(t, db, 1)

	_, err := dao.FindByID(ctx, inscription.ID)
	require.NoError(t, err)

	require.NoError(t, dao.SoftDelete(ctx, inscription.ID, 9))

	// Deleted rows vanish from reads but stay in the table with the actor
	// recorded.
	_, err = dao.FindByID(ctx, inscription.ID)
	require.ErrorIs(t, err, ErrInscriptionNotFound)

	var raw Inscription
	require.NoError(t, db.Unscoped().First(&raw, inscription.ID).Error)
	require.True(t, raw.DeletedAt.Valid)
	require.NotNil(t, raw.DeletedBy)
	require.Equal(t, uint(9), *raw.DeletedBy)

	require.NoError(t, dao.Restore(ctx, inscription.ID))

	restored, err := dao.FindByID(ctx, inscription.ID)
	require.NoError(t, err)
	require.Equal(t, inscription.CreatedBy, restored.CreatedBy)
	require.Nil(t, restored.DeletedBy)

	// Deleting twice, or restoring a live row, matches nothing.
	require.NoError(t, dao.SoftDelete(ctx, inscription.ID, 9))
	require.ErrorIs(t, dao.SoftDelete(ctx, inscription.ID, 9), ErrInscriptionNotFound)
	require.NoError(t, dao.Restore(ctx, inscription.ID))
	require.ErrorIs(t, dao.Restore(ctx, inscription.ID), ErrInscriptionNotFound)
}

func TestSoftDeleteRequiresCondition(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	deletedBy := uint(1)
	_, err := softDeleteRows(ctx, db, &Inscription{}, &deletedBy, "  ")
	require.ErrorIs(t, err, ErrMissingWhereClause)

	_, err = restoreRows(ctx, db, &Inscription{}, "")
	require.ErrorIs(t, err, ErrMissingWhereClause)
}

func TestReplaceCompetitorLinks(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	inscriptionDAO := NewInscriptionDAO(db)
	competitorDAO := NewCompetitorDAO(db)

	_, err := competitorDAO.UpsertBatch(ctx, []Competitor{
		{CompetitorID: 601, LastName: "FAVRE", FirstName: "Luc"},
		{CompetitorID: 602, LastName: "MEIER", FirstName: "Anna"},
		{CompetitorID: 603, LastName: "ROUX", FirstName: "Paul"},
	})
	require.NoError(t, err)

	inscription := insertInscription(t, db, 1)

	// Cross product of two competitors over two codices.
	links, err := inscriptionDAO.ReplaceCompetitorLinks(ctx, inscription.ID, []uint{601, 602}, []string{"100", "200"}, 7)
	require.NoError(t, err)
	require.Len(t, links, 4)

	stored, err := inscriptionDAO.FindCompetitorLinks(ctx, inscription.ID)
	require.NoError(t, err)
	require.Len(t, stored, 4)

	// Replacing codex 100 leaves codex 200 untouched.
	_, err = inscriptionDAO.ReplaceCompetitorLinks(ctx, inscription.ID, []uint{603}, []string{"100"}, 7)
	require.NoError(t, err)

	stored, err = inscriptionDAO.FindCompetitorLinks(ctx, inscription.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)

	byCodex := make(map[string][]uint)
	for _, link := range stored {
		byCodex[link.CodexNumber] = append(byCodex[link.CodexNumber], link.CompetitorID)
	}
	require.Equal(t, []uint{603}, byCodex["100"])
	require.ElementsMatch(t, []uint{601, 602}, byCodex["200"])

	_, err = inscriptionDAO.ReplaceCompetitorLinks(ctx, inscription.ID, nil, []string{"100"}, 7)
	require.ErrorIs(t, err, ErrEmptyLinkSet)
}

func TestLinksHiddenBehindDeletedParent(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	inscriptionDAO := NewInscriptionDAO(db)
	competitorDAO := NewCompetitorDAO(db)

	_, err := competitorDAO.UpsertBatch(ctx, []Competitor{
		{CompetitorID: 701, LastName: "BLANC", FirstName: "Eva"},
	})
	require.NoError(t, err)

	inscription := insertInscription(t, db, 2)

	_, err = inscriptionDAO.ReplaceCompetitorLinks(ctx, inscription.ID, []uint{701}, []string{"300"}, 7)
	require.NoError(t, err)

	byCompetitor, err := inscriptionDAO.FindLinksByCompetitor(ctx, 701)
	require.NoError(t, err)
	require.Len(t, byCompetitor, 1)

	require.NoError(t, inscriptionDAO.SoftDelete(ctx, inscription.ID, 7))

	// The links themselves were not deleted, but the parent filter hides them.
	byCompetitor, err = inscriptionDAO.FindLinksByCompetitor(ctx, 701)
	require.NoError(t, err)
	require.Empty(t, byCompetitor)

	byInscription, err := inscriptionDAO.FindCompetitorLinks(ctx, inscription.ID)
	require.NoError(t, err)
	require.Empty(t, byInscription)

	require.NoError(t, inscriptionDAO.Restore(ctx, inscription.ID))

	byCompetitor, err = inscriptionDAO.FindLinksByCompetitor(ctx, 701)
	require.NoError(t, err)
	require.Len(t, byCompetitor, 1)
}

func TestCoachSoftDeleteAndRestore(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	dao := NewInscriptionDAO(db)
	inscription := insertInscription(t, db, 3)

	coach, err := dao.InsertCoach(ctx, InscriptionCoach{
		InscriptionID: inscription.ID,
		FirstName:     "Luc",
		LastName:      "Favre",
		Gender:        "M",
		AddedBy:       7,
	})
	require.NoError(t, err)

	coaches, err := dao.FindCoaches(ctx, inscription.ID)
	require.NoError(t, err)
	require.Len(t, coaches, 1)

	require.NoError(t, dao.SoftDeleteCoach(ctx, inscription.ID, coach.ID, 7))

	coaches, err = dao.FindCoaches(ctx, inscription.ID)
	require.NoError(t, err)
	require.Empty(t, coaches)

	_, err = dao.FindCoachByID(ctx, inscription.ID, coach.ID)
	require.ErrorIs(t, err, ErrCoachNotFound)

	require.NoError(t, dao.RestoreCoach(ctx, inscription.ID, coach.ID))

	coaches, err = dao.FindCoaches(ctx, inscription.ID)
	require.NoError(t, err)
	require.Len(t, coaches, 1)

	// A coach on another inscription is out of reach.
	other := insertInscription(t, db, 3)
	require.ErrorIs(t, dao.SoftDeleteCoach(ctx, other.ID, coach.ID, 7), ErrCoachNotFound)
}

func TestUserUniqueEmail(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	dao := NewUserDAO(db)

	_, err := dao.Insert(ctx, User{Email: "unique@example.com", Password: "x", Name: "First", Role: "user"})
	require.NoError(t, err)

	_, err = dao.Insert(ctx, User{Email: "unique@example.com", Password: "x", Name: "Second", Role: "user"})
	require.ErrorIs(t, err, ErrUserEmailExists)
}

func TestCompetitorUpsertBatch(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	dao := NewCompetitorDAO(db)

	points := 12.34
	_, err := dao.UpsertBatch(ctx, []Competitor{
		{CompetitorID: 801, LastName: "GAY", FirstName: "Marc", SLPoints: &points},
	})
	require.NoError(t, err)

	// A re-import overwrites the existing row in place.
	newPoints := 10.0
	_, err = dao.UpsertBatch(ctx, []Competitor{
		{CompetitorID: 801, LastName: "GAY", FirstName: "Marc", SLPoints: &newPoints},
	})
	require.NoError(t, err)

	competitor, err := dao.FindByID(ctx, 801)
	require.NoError(t, err)
	require.NotNil(t, competitor.SLPoints)
	require.Equal(t, 10.0, *competitor.SLPoints)

	var count int64
	require.NoError(t, db.Model(&Competitor{}).Where("competitorid = ?", 801).Count(&count).Error)
	require.Equal(t, int64(1), count)
}
