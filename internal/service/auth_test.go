package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
	"github.com/valais-ski/fis-inscriptions-api/internal/repository"
)

type mockAuthUserRepo struct {
	CreateFn      func(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmailFn func(ctx context.Context, email string) (domain.User, error)
}

func (m *mockAuthUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.CreateFn(ctx, user)
}

func (m *mockAuthUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.FindByEmailFn(ctx, email)
}

func TestSignup(t *testing.T) {
	t.Run("new user gets the user role and a hashed password", func(t *testing.T) {
		var created domain.User
		repo := &mockAuthUserRepo{
			FindByEmailFn: func(ctx context.Context, email string) (domain.User, error) {
				return domain.User{}, repository.ErrUserNotFound
			},
			CreateFn: func(ctx context.Context, user domain.User) (domain.User, error) {
				created = user
				user.ID = 1
				return user, nil
			},
		}
		svc := NewAuthService(repo)

		user, err := svc.Signup(context.Background(), domain.User{
			Email:    "luc@example.com",
			Password: "s3cret-pass",
			Name:     "Luc",
		})
		require.NoError(t, err)
		require.Equal(t, uint(1), user.ID)
		require.Equal(t, domain.RoleUser, created.Role)
		require.NotEqual(t, "s3cret-pass", created.Password)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret-pass")))
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := &mockAuthUserRepo{
			FindByEmailFn: func(ctx context.Context, email string) (domain.User, error) {
				return domain.User{ID: 1, Email: email}, nil
			},
		}
		svc := NewAuthService(repo)

		_, err := svc.Signup(context.Background(), domain.User{Email: "luc@example.com", Password: "s3cret-pass"})
		require.ErrorIs(t, err, ErrUserEmailExists)
	})
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockAuthUserRepo{
		FindByEmailFn: func(ctx context.Context, email string) (domain.User, error) {
			if email != "luc@example.com" {
				return domain.User{}, repository.ErrUserNotFound
			}
			return domain.User{ID: 1, Email: email, Password: string(hash)}, nil
		},
	}
	svc := NewAuthService(repo)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(context.Background(), "luc@example.com", "s3cret-pass")
		require.NoError(t, err)
		require.Equal(t, uint(1), user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "luc@example.com", "nope")
		require.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", "s3cret-pass")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}
