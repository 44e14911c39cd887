package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byEmail map[string]*User
	byID    map[string]*User
}

func newFakeRepo(users ...*User) *fakeRepo {
	r := &fakeRepo{byEmail: make(map[string]*User), byID: make(map[string]*User)}
	for _, u := range users {
		r.byEmail[u.Email] = u
		r.byID[u.ID] = u
	}
	return r
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) Create(ctx context.Context, u *User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return ErrEmailAlreadyUsed
	}
	u.ID = "user-1"
	u.CreatedAt = time.Now().UTC()
	r.byEmail[u.Email] = u
	r.byID[u.ID] = u
	return nil
}

func (r *fakeRepo) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = &t
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter UserFilter) ([]*User, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) Update(ctx context.Context, u *User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return ErrNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return nil
}

// plainHasher avoids bcrypt cost in unit tests.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hash:" + plain, nil }

func (plainHasher) Compare(hash, plain string) error {
	if hash != "hash:"+plain {
		return errors.New("mismatch")
	}
	return nil
}

func TestRegister(t *testing.T) {
	t.Run("success normalizes the email", func(t *testing.T) {
		svc := NewService(newFakeRepo(), plainHasher{})

		u, err := svc.Register(context.Background(), " Alex@Example.COM ", "password123", "Alex")
		require.NoError(t, err)
		assert.Equal(t, "alex@example.com", u.Email)
		assert.Equal(t, "hash:password123", u.PasswordHash)
		assert.True(t, u.IsActive)
		assert.False(t, u.IsSystemAdmin)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		repo := newFakeRepo(&User{ID: "u1", Email: "alex@example.com", PasswordHash: "x"})
		svc := NewService(repo, plainHasher{})

		_, err := svc.Register(context.Background(), "alex@example.com", "password123", "Alex")
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		svc := NewService(newFakeRepo(), plainHasher{})
		_, err := svc.Register(context.Background(), "alex@example.com", "short", "Alex")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("empty email is rejected", func(t *testing.T) {
		svc := NewService(newFakeRepo(), plainHasher{})
		_, err := svc.Register(context.Background(), "   ", "password123", "Alex")
		assert.ErrorIs(t, err, ErrEmailRequired)
	})
}

func TestLogin(t *testing.T) {
	activeUser := func() *User {
		return &User{
			ID:           "u1",
			Email:        "alex@example.com",
			PasswordHash: "hash:password123",
			IsActive:     true,
		}
	}

	t.Run("success records last login", func(t *testing.T) {
		repo := newFakeRepo(activeUser())
		svc := NewService(repo, plainHasher{})

		u, err := svc.Login(context.Background(), "alex@example.com", "password123")
		require.NoError(t, err)
		assert.NotNil(t, repo.byID[u.ID].LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := NewService(newFakeRepo(activeUser()), plainHasher{})
		_, err := svc.Login(context.Background(), "alex@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		svc := NewService(newFakeRepo(), plainHasher{})
		_, err := svc.Login(context.Background(), "ghost@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive user cannot log in", func(t *testing.T) {
		u := activeUser()
		u.IsActive = false
		svc := NewService(newFakeRepo(u), plainHasher{})

		_, err := svc.Login(context.Background(), "alex@example.com", "password123")
		assert.ErrorIs(t, err, ErrInactiveUser)
	})
}
