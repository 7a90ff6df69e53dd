// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenfackariol/ITCare/internal/core"
	"github.com/kenfackariol/ITCare/internal/validation"
)

type memRepo struct {
	nextID int64
	users  map[int64]*User
}

func newMemRepo(seed ...User) *memRepo {
	r := &memRepo{users: map[int64]*User{}}
	for _, u := range seed {
		u := u
		if u.ID > r.nextID {
			r.nextID = u.ID
		}
		r.users[u.ID] = &u
	}
	return r
}

func (r *memRepo) Create(_ context.Context, u *User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (r *memRepo) Update(_ context.Context, u *User) error {
	if _, ok := r.users[u.ID]; !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	for _, other := range r.users {
		if other.ID != u.ID && other.Email == u.Email {
			return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
	}
	u.UpdatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func (r *memRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("touch last login: %w", core.ErrNotFound)
	}
	u.LastLogin = &at
	return nil
}

func (r *memRepo) List(ctx context.Context, p ListUsersParams) ([]User, int, error) {
	all, _ := r.ListAll(ctx)
	filtered := []User{}
	for _, u := range all {
		if p.Role != "" && u.Role != p.Role {
			continue
		}
		if p.Active != nil && u.IsActive != *p.Active {
			continue
		}
		filtered = append(filtered, u)
	}
	start := min(p.Offset(), len(filtered))
	end := min(start+p.PageSize, len(filtered))
	return filtered[start:end], len(filtered), nil
}

func (r *memRepo) ListAll(context.Context) ([]User, error) {
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) Count(context.Context) (int, error) {
	return len(r.users), nil
}

func ptr[T any](v T) *T { return &v }

func seededService() (*Service, *memRepo) {
	repo := newMemRepo(
		User{ID: 1, Email: "admin@itcare.test", Role: RoleAdmin, IsActive: true},
		User{ID: 2, Email: "tech@itcare.test", Role: RoleUser, IsActive: true},
		User{ID: 3, Email: "boss@itcare.test", Role: RoleAdmin, IsActive: true},
	)
	return NewService(repo, validation.New()), repo
}

func assertAppError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	appErr, ok := core.IsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.StatusCode)
	if msg != "" {
		assert.Equal(t, msg, appErr.Message)
	}
}

func TestService_Create_LowercasesEmail(t *testing.T) {
	svc, _ := seededService()

	info, err := svc.Create(context.Background(), "New@ITCare.test", "hash", nil, RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "new@itcare.test", info.Email)
	assert.True(t, info.IsActive)

	_, err = svc.Create(context.Background(), "new@itcare.test", "hash", nil, RoleUser)
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestService_LoadPrincipal(t *testing.T) {
	svc, _ := seededService()

	p, err := svc.LoadPrincipal(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "tech@itcare.test", p.Email)
	assert.Equal(t, RoleUser, p.Role)

	_, err = svc.LoadPrincipal(context.Background(), 404)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_UpdateProfile(t *testing.T) {
	svc, _ := seededService()
	ctx := context.Background()

	u, err := svc.UpdateProfile(ctx, 2, UpdateProfileRequest{
		Email: ptr("Tech.New@ITCare.test"),
		Name:  ptr("Tech"),
	})
	require.NoError(t, err)
	assert.Equal(t, "tech.new@itcare.test", u.Email)
	assert.Equal(t, "Tech", *u.Name)

	_, err = svc.UpdateProfile(ctx, 2, UpdateProfileRequest{Email: ptr("admin@itcare.test")})
	assertAppError(t, err, http.StatusBadRequest, msgEmailInUse)

	_, err = svc.UpdateProfile(ctx, 2, UpdateProfileRequest{})
	assertAppError(t, err, http.StatusBadRequest, `"value" must have at least 1 key`)

	_, err = svc.UpdateProfile(ctx, 99, UpdateProfileRequest{Name: ptr("x")})
	assertAppError(t, err, http.StatusNotFound, msgUserNotFound)
}

func TestService_Deactivate(t *testing.T) {
	svc, repo := seededService()

	require.NoError(t, svc.Deactivate(context.Background(), 2))
	assert.False(t, repo.users[2].IsActive)

	err := svc.Deactivate(context.Background(), 99)
	assertAppError(t, err, http.StatusNotFound, msgUserNotFound)
}

func TestService_UpdateRole(t *testing.T) {
	svc, repo := seededService()
	ctx := context.Background()

	u, err := svc.UpdateRole(ctx, 1, 2, UpdateRoleRequest{Role: ptr(RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Equal(t, RoleAdmin, repo.users[2].Role)

	_, err = svc.UpdateRole(ctx, 1, 1, UpdateRoleRequest{Role: ptr(RoleUser)})
	assertAppError(t, err, http.StatusForbidden, core.MsgNoPermission)

	_, err = svc.UpdateRole(ctx, 1, 2, UpdateRoleRequest{Role: ptr("superuser")})
	assertAppError(t, err, http.StatusBadRequest, `"role" must be one of [user, admin]`)

	_, err = svc.UpdateRole(ctx, 1, 99, UpdateRoleRequest{Role: ptr(RoleUser)})
	assertAppError(t, err, http.StatusNotFound, msgUserNotFound)
}

func TestService_UpdateStatus(t *testing.T) {
	svc, repo := seededService()
	ctx := context.Background()

	u, err := svc.UpdateStatus(ctx, 1, 2, UpdateStatusRequest{IsActive: ptr(false)})
	require.NoError(t, err)
	assert.False(t, u.IsActive)
	assert.False(t, repo.users[2].IsActive)

	_, err = svc.UpdateStatus(ctx, 1, 1, UpdateStatusRequest{IsActive: ptr(false)})
	assertAppError(t, err, http.StatusForbidden, "")

	_, err = svc.UpdateStatus(ctx, 1, 3, UpdateStatusRequest{IsActive: ptr(false)})
	assertAppError(t, err, http.StatusForbidden, "")

	_, err = svc.UpdateStatus(ctx, 1, 2, UpdateStatusRequest{})
	assertAppError(t, err, http.StatusBadRequest, `"isActive" is required`)
}

func TestService_ListUsers_Normalizes(t *testing.T) {
	svc, _ := seededService()

	users, total, err := svc.ListUsers(context.Background(), ListUsersParams{
		Page:     0,
		PageSize: 500,
		Role:     RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, users, 2)
}
