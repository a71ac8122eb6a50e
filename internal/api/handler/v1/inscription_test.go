package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/valais-ski/fis-inscriptions-api/internal/api/middleware"
	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
	"github.com/valais-ski/fis-inscriptions-api/internal/service"
)

type mockInscriptionService struct {
	CreateInscriptionFn  func(ctx context.Context, userID uint, codex, seasonCode string) (domain.Inscription, error)
	ListInscriptionsFn   func(ctx context.Context) ([]domain.Inscription, error)
	GetInscriptionFn     func(ctx context.Context, id uint) (domain.Inscription, error)
	UpdateStatusFn       func(ctx context.Context, id uint, to domain.Status, gender string) (domain.Inscription, error)
	CancelInscriptionFn  func(ctx context.Context, id uint, gender string) (domain.Inscription, error)
	DeleteInscriptionFn  func(ctx context.Context, id uint, deletedBy uint) error
	RestoreInscriptionFn func(ctx context.Context, id uint) (domain.Inscription, error)
	RollbackStatusFn     func(ctx context.Context, id uint, gender string) (domain.Inscription, error)
	DiffEventDataFn      func(ctx context.Context, id uint) (domain.EventDiff, error)
	ApplyEventDataFn     func(ctx context.Context, id uint) (domain.Inscription, error)
	AddCoachFn           func(ctx context.Context, coach domain.InscriptionCoach) (domain.InscriptionCoach, error)
	ListCoachesFn        func(ctx context.Context, inscriptionID uint) ([]domain.InscriptionCoach, error)
	RemoveCoachFn        func(ctx context.Context, inscriptionID, coachID, deletedBy uint) error
	SaveCompetitorsFn    func(ctx context.Context, inscriptionID uint, competitorIDs []uint, codexNumbers []string, addedBy uint) ([]domain.InscriptionCompetitor, error)
	ListCompetitorsFn    func(ctx context.Context, inscriptionID uint) ([]domain.InscriptionCompetitor, error)
	CheckCodexFn         func(ctx context.Context, number, seasonCode string, excludeID uint) (bool, error)
	ContactInscriptionFn func(ctx context.Context, id uint, message string) error
}

func (m *mockInscriptionService) CreateInscription(ctx context.Context, userID uint, codex, seasonCode string) (domain.Inscription, error) {
	return m.CreateInscriptionFn(ctx, userID, codex, seasonCode)
}

func (m *mockInscriptionService) ListInscriptions(ctx context.Context) ([]domain.Inscription, error) {
	return m.ListInscriptionsFn(ctx)
}

func (m *mockInscriptionService) GetInscription(ctx context.Context, id uint) (domain.Inscription, error) {
	return m.GetInscriptionFn(ctx, id)
}

func (m *mockInscriptionService) UpdateStatus(ctx context.Context, id uint, to domain.Status, gender string) (domain.Inscription, error) {
	return m.UpdateStatusFn(ctx, id, to, gender)
}

func (m *mockInscriptionService) CancelInscription(ctx context.Context, id uint, gender string) (domain.Inscription, error) {
	return m.CancelInscriptionFn(ctx, id, gender)
}

func (m *mockInscriptionService) DeleteInscription(ctx context.Context, id uint, deletedBy uint) error {
	return m.DeleteInscriptionFn(ctx, id, deletedBy)
}

func (m *mockInscriptionService) RestoreInscription(ctx context.Context, id uint) (domain.Inscription, error) {
	return m.RestoreInscriptionFn(ctx, id)
}

func (m *mockInscriptionService) RollbackStatus(ctx context.Context, id uint, gender string) (domain.Inscription, error) {
	return m.RollbackStatusFn(ctx, id, gender)
}

func (m *mockInscriptionService) DiffEventData(ctx context.Context, id uint) (domain.EventDiff, error) {
	return m.DiffEventDataFn(ctx, id)
}

func (m *mockInscriptionService) ApplyEventData(ctx context.Context, id uint) (domain.Inscription, error) {
	return m.ApplyEventDataFn(ctx, id)
}

func (m *mockInscriptionService) AddCoach(ctx context.Context, coach domain.InscriptionCoach) (domain.InscriptionCoach, error) {
	return m.AddCoachFn(ctx, coach)
}

func (m *mockInscriptionService) ListCoaches(ctx context.Context, inscriptionID uint) ([]domain.InscriptionCoach, error) {
	return m.ListCoachesFn(ctx, inscriptionID)
}

func (m *mockInscriptionService) RemoveCoach(ctx context.Context, inscriptionID, coachID, deletedBy uint) error {
	return m.RemoveCoachFn(ctx, inscriptionID, coachID, deletedBy)
}

func (m *mockInscriptionService) SaveCompetitors(ctx context.Context, inscriptionID uint, competitorIDs []uint, codexNumbers []string, addedBy uint) ([]domain.InscriptionCompetitor, error) {
	return m.SaveCompetitorsFn(ctx, inscriptionID, competitorIDs, codexNumbers, addedBy)
}

func (m *mockInscriptionService) ListCompetitors(ctx context.Context, inscriptionID uint) ([]domain.InscriptionCompetitor, error) {
	return m.ListCompetitorsFn(ctx, inscriptionID)
}

func (m *mockInscriptionService) CheckCodex(ctx context.Context, number, seasonCode string, excludeID uint) (bool, error) {
	return m.CheckCodexFn(ctx, number, seasonCode, excludeID)
}

func (m *mockInscriptionService) ContactInscription(ctx context.Context, id uint, message string) error {
	return m.ContactInscriptionFn(ctx, id, message)
}

type mockUserService struct {
	GetUserFn func(ctx context.Context, id uint) (domain.User, error)
}

func (m *mockUserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	return m.GetUserFn(ctx, id)
}

func newInscriptionRouter(svc InscriptionService, uSvc UserService, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if userID != 0 {
		router.Use(func(ctx *gin.Context) {
			ctx.Set(middleware.ContextKeyUserID, userID)
		})
	}

	handler := NewInscriptionHandler(svc, uSvc)
	router.PATCH("/inscriptions/:inscriptionID/status", handler.HandleUpdateStatus)
	router.POST("/inscriptions/:inscriptionID/cancel", handler.HandleCancelInscription)
	router.DELETE("/inscriptions/:inscriptionID", handler.HandleDeleteInscription)
	router.GET("/inscriptions/:inscriptionID", handler.HandleGetInscription)
	router.POST("/codex/check", handler.HandleCheckCodex)

	return router
}

func TestHandleUpdateStatus(t *testing.T) {
	testCases := []struct {
		name       string
		target     string
		svcErr     error
		wantStatus int
	}{
		{name: "open accepted", target: "open", wantStatus: http.StatusOK},
		{name: "validated accepted", target: "validated", wantStatus: http.StatusOK},
		{name: "email_sent rejected at the door", target: "email_sent", wantStatus: http.StatusBadRequest},
		{name: "cancelled rejected at the door", target: "cancelled", wantStatus: http.StatusBadRequest},
		{name: "garbage rejected", target: "archived", wantStatus: http.StatusBadRequest},
		{name: "missing status rejected", target: "", wantStatus: http.StatusBadRequest},
		{name: "locked inscription conflicts", target: "open", svcErr: service.ErrInscriptionLocked, wantStatus: http.StatusConflict},
		{name: "invalid transition", target: "validated", svcErr: service.ErrInvalidStatusChange, wantStatus: http.StatusBadRequest},
		{name: "unknown inscription", target: "open", svcErr: service.ErrInscriptionNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockInscriptionService{
				UpdateStatusFn: func(ctx context.Context, id uint, to domain.Status, gender string) (domain.Inscription, error) {
					if tc.svcErr != nil {
						return domain.Inscription{}, tc.svcErr
					}
					return domain.Inscription{ID: id, Status: to}, nil
				},
			}
			router := newInscriptionRouter(svc, &mockUserService{}, 0)

			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/inscriptions/1/status?status="+tc.target, nil)
			router.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatus, recorder.Code)
		})
	}
}

func TestHandleDeleteInscriptionOwnership(t *testing.T) {
	stored := domain.Inscription{ID: 1, CreatedBy: 7}

	newRouter := func(user domain.User) *gin.Engine {
		svc := &mockInscriptionService{
			GetInscriptionFn: func(ctx context.Context, id uint) (domain.Inscription, error) {
				return stored, nil
			},
			DeleteInscriptionFn: func(ctx context.Context, id uint, deletedBy uint) error {
				return nil
			},
		}
		uSvc := &mockUserService{
			GetUserFn: func(ctx context.Context, id uint) (domain.User, error) {
				return user, nil
			},
		}
		return newInscriptionRouter(svc, uSvc, user.ID)
	}

	testCases := []struct {
		name       string
		user       domain.User
		wantStatus int
	}{
		{name: "creator deletes their own", user: domain.User{ID: 7, Role: domain.RoleUser}, wantStatus: http.StatusOK},
		// A non-owner gets the same 404 as for a missing inscription, so the
		// response does not reveal that the record exists.
		{name: "other user sees not found", user: domain.User{ID: 8, Role: domain.RoleUser}, wantStatus: http.StatusNotFound},
		{name: "admin deletes any", user: domain.User{ID: 8, Role: domain.RoleAdmin}, wantStatus: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, "/inscriptions/1", nil)
			newRouter(tc.user).ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatus, recorder.Code)
		})
	}
}

func TestHandleCancelInscription(t *testing.T) {
	stored := domain.Inscription{ID: 1, CreatedBy: 7, Status: domain.StatusEmailSent}

	newRouter := func(user domain.User, svcErr error) *gin.Engine {
		svc := &mockInscriptionService{
			GetInscriptionFn: func(ctx context.Context, id uint) (domain.Inscription, error) {
				return stored, nil
			},
			CancelInscriptionFn: func(ctx context.Context, id uint, gender string) (domain.Inscription, error) {
				if svcErr != nil {
					return domain.Inscription{}, svcErr
				}
				cancelled := stored
				cancelled.Status = domain.StatusCancelled
				return cancelled, nil
			},
		}
		uSvc := &mockUserService{
			GetUserFn: func(ctx context.Context, id uint) (domain.User, error) {
				return user, nil
			},
		}
		return newInscriptionRouter(svc, uSvc, user.ID)
	}

	testCases := []struct {
		name       string
		user       domain.User
		svcErr     error
		wantStatus int
	}{
		{name: "creator cancels a dispatched inscription", user: domain.User{ID: 7, Role: domain.RoleUser}, wantStatus: http.StatusOK},
		{name: "admin cancels any", user: domain.User{ID: 8, Role: domain.RoleAdmin}, wantStatus: http.StatusOK},
		{name: "other user sees not found", user: domain.User{ID: 8, Role: domain.RoleUser}, wantStatus: http.StatusNotFound},
		{name: "already cancelled", user: domain.User{ID: 7, Role: domain.RoleUser}, svcErr: service.ErrInvalidStatusChange, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/inscriptions/1/cancel", nil)
			newRouter(tc.user, tc.svcErr).ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatus, recorder.Code)
		})
	}
}

func TestHandleCancelInscriptionUnauthenticated(t *testing.T) {
	router := newInscriptionRouter(&mockInscriptionService{}, &mockUserService{}, 0)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/inscriptions/1/cancel", nil)
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestHandleDeleteInscriptionUnauthenticated(t *testing.T) {
	router := newInscriptionRouter(&mockInscriptionService{}, &mockUserService{}, 0)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/inscriptions/1", nil)
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestHandleCheckCodex(t *testing.T) {
	t.Run("number is required", func(t *testing.T) {
		router := newInscriptionRouter(&mockInscriptionService{}, &mockUserService{}, 0)

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/codex/check", nil)
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("duplicate flagged", func(t *testing.T) {
		svc := &mockInscriptionService{
			CheckCodexFn: func(ctx context.Context, number, seasonCode string, excludeID uint) (bool, error) {
				return number == "1234" && seasonCode == "2026", nil
			},
		}
		router := newInscriptionRouter(svc, &mockUserService{}, 0)

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/codex/check?number=1234&seasonCode=2026", nil)
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
		require.JSONEq(t, `{"isDuplicate": true}`, recorder.Body.String())
	})

	t.Run("invalid excludeId", func(t *testing.T) {
		router := newInscriptionRouter(&mockInscriptionService{}, &mockUserService{}, 0)

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/codex/check?number=1234&excludeId=abc", nil)
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
