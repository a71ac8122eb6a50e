package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
)

var (
	ErrInvalidRole    = errors.New("invalid role")
	ErrSelfRoleChange = errors.New("cannot change your own role")
	ErrSelfDeletion   = errors.New("cannot delete your own account")
)

type AdminUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	UpdateRole(ctx context.Context, id uint, role domain.Role) (domain.User, error)
	SoftDelete(ctx context.Context, id uint, deletedBy uint) error
}

type ActivityRepository interface {
	FindByCreator(ctx context.Context, userID uint) ([]domain.Inscription, error)
	FindLinksAddedBy(ctx context.Context, userID uint, limit int) ([]domain.InscriptionCompetitor, error)
}

type AdminService struct {
	users    AdminUserRepository
	activity ActivityRepository
}

func NewAdminService(users AdminUserRepository, activity ActivityRepository) *AdminService {
	return &AdminService{
		users:    users,
		activity: activity,
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.users.FindAll -> %w", err)
	}

	return users, nil
}

func (s *AdminService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	return user, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, user domain.User) (domain.User, error) {
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.Update -> %w", err)
	}

	return updated, nil
}

// UpdateRole changes a user's role. Actors cannot weaken their own access:
// an admin stays at least admin, a super-admin stays super-admin.
func (s *AdminService) UpdateRole(ctx context.Context, actor domain.User, targetID uint, role domain.Role) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, ErrInvalidRole
	}

	if actor.ID == targetID {
		switch {
		case actor.Role == domain.RoleSuperAdmin && role != domain.RoleSuperAdmin:
			return domain.User{}, ErrSelfRoleChange
		case actor.Role == domain.RoleAdmin && !role.AtLeast(domain.RoleAdmin):
			return domain.User{}, ErrSelfRoleChange
		}
	}

	updated, err := s.users.UpdateRole(ctx, targetID, role)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.UpdateRole -> %w", err)
	}

	return updated, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, actor domain.User, targetID uint) error {
	if actor.ID == targetID {
		return ErrSelfDeletion
	}

	if err := s.users.SoftDelete(ctx, targetID, actor.ID); err != nil {
		return fmt.Errorf("s.users.SoftDelete -> %w", err)
	}

	return nil
}

// UserActivity builds the audit trail for a user: inscriptions they created
// and competitors they entered, newest first.
func (s *AdminService) UserActivity(ctx context.Context, userID uint) ([]domain.ActivityEntry, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	inscriptions, err := s.activity.FindByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.activity.FindByCreator -> %w", err)
	}

	links, err := s.activity.FindLinksAddedBy(ctx, userID, 200)
	if err != nil {
		return nil, fmt.Errorf("s.activity.FindLinksAddedBy -> %w", err)
	}

	entries := make([]domain.ActivityEntry, 0, len(inscriptions)+len(links))
	for _, inscription := range inscriptions {
		entries = append(entries, domain.ActivityEntry{
			Kind:          "inscription_created",
			InscriptionID: inscription.ID,
			EventName:     inscription.EventData.Name,
			OccurredAt:    inscription.CreatedAt,
		})
	}
	for _, link := range links {
		entries = append(entries, domain.ActivityEntry{
			Kind:          "competitor_added",
			InscriptionID: link.InscriptionID,
			CompetitorID:  link.CompetitorID,
			CodexNumber:   link.CodexNumber,
			OccurredAt:    link.CreatedAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].OccurredAt.After(entries[j].OccurredAt)
	})

	return entries, nil
}
