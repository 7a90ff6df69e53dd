// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenfackariol/ITCare/internal/core"
	"github.com/kenfackariol/ITCare/internal/validation"
)

type fakeUsers struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*UserInfo
	logins  map[int64]time.Time
	lookErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:   map[int64]*UserInfo{},
		logins: map[int64]time.Time{},
	}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookErr != nil {
		return nil, f.lookErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Create(
	_ context.Context,
	email, passwordHash string,
	name *string,
	role string,
) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	f.nextID++
	now := time.Now()
	u := &UserInfo{
		ID:           f.nextID,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.byID[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) RecordLogin(_ context.Context, id int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins[id] = at
	return nil
}

type fakeTokens struct{}

func (fakeTokens) CreateAccessToken(c AccessTokenClaims) (string, error) {
	return fmt.Sprintf("token-%d-%s", c.UserID, c.Role), nil
}

func ptr[T any](v T) *T { return &v }

func newTestService(users UserProvider) *Service {
	return NewService(fakeTokens{}, users, validation.New())
}

func requireAppError(t *testing.T, err error, status int, code, msg string) {
	t.Helper()
	appErr, ok := core.IsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.StatusCode)
	assert.Equal(t, code, appErr.Code)
	if msg != "" {
		assert.Equal(t, msg, appErr.Message)
	}
}

func TestService_Register(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:    ptr("Tech@ITCare.test"),
		Password: ptr("password123"),
		Name:     ptr("Tech"),
	})
	require.NoError(t, err)

	assert.Equal(t, "tech@itcare.test", resp.User.Email)
	assert.Equal(t, "user", resp.User.Role)
	assert.True(t, resp.User.IsActive)
	assert.Equal(t, "token-1-user", resp.Token)

	stored := users.byID[resp.User.ID]
	assert.NotEqual(t, "password123", stored.PasswordHash)

	_, err = svc.Register(ctx, RegisterRequest{
		Email:    ptr("tech@itcare.test"),
		Password: ptr("password456"),
	})
	requireAppError(t, err, http.StatusBadRequest, core.CodeConflict, msgEmailInUse)
}

func TestService_Register_Validation(t *testing.T) {
	svc := newTestService(newFakeUsers())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    ptr("tech@itcare.test"),
		Password: ptr("short"),
	})
	requireAppError(t, err, http.StatusBadRequest, core.CodeValidation,
		`"password" length must be at least 8 characters long`)
}

func TestService_Login(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users)
	ctx := context.Background()

	fixed := time.Date(2024, 7, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	reg, err := svc.Register(ctx, RegisterRequest{
		Email:    ptr("tech@itcare.test"),
		Password: ptr("password123"),
	})
	require.NoError(t, err)

	t.Run("success stamps last login", func(t *testing.T) {
		resp, err := svc.Login(ctx, LoginRequest{
			Email:    ptr("TECH@itcare.test"),
			Password: ptr("password123"),
		})
		require.NoError(t, err)
		require.NotNil(t, resp.User.LastLogin)
		assert.Equal(t, fixed, *resp.User.LastLogin)
		assert.Equal(t, fixed, users.logins[reg.User.ID])
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{
			Email:    ptr("tech@itcare.test"),
			Password: ptr("nope-nope"),
		})
		requireAppError(t, err, http.StatusUnauthorized,
			core.CodeInvalidCredentials, core.MsgBadCredentials)
	})

	t.Run("unknown email looks identical", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{
			Email:    ptr("ghost@itcare.test"),
			Password: ptr("password123"),
		})
		requireAppError(t, err, http.StatusUnauthorized,
			core.CodeInvalidCredentials, core.MsgBadCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		users.byID[reg.User.ID].IsActive = false
		t.Cleanup(func() { users.byID[reg.User.ID].IsActive = true })

		_, err := svc.Login(ctx, LoginRequest{
			Email:    ptr("tech@itcare.test"),
			Password: ptr("password123"),
		})
		requireAppError(t, err, http.StatusUnauthorized,
			core.CodeAccountDeactivated, core.MsgAccountDeactivated)
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: ptr("tech@itcare.test")})
		requireAppError(t, err, http.StatusBadRequest, core.CodeValidation,
			`"password" is required`)
	})

	t.Run("store failure is internal", func(t *testing.T) {
		users.lookErr = errors.New("db down")
		t.Cleanup(func() { users.lookErr = nil })

		_, err := svc.Login(ctx, LoginRequest{
			Email:    ptr("tech@itcare.test"),
			Password: ptr("password123"),
		})
		appErr := core.Normalize(err)
		assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
		assert.False(t, appErr.Operational)
	})
}

func TestService_ChangePassword(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Email:    ptr("tech@itcare.test"),
		Password: ptr("password123"),
	})
	require.NoError(t, err)
	id := reg.User.ID

	err = svc.ChangePassword(ctx, id, ChangePasswordRequest{
		OldPassword: ptr("not-it-at-all"),
		NewPassword: ptr("newpassword1"),
	})
	requireAppError(t, err, http.StatusBadRequest, core.CodeValidation, msgWrongPassword)

	err = svc.ChangePassword(ctx, 999, ChangePasswordRequest{
		OldPassword: ptr("password123"),
		NewPassword: ptr("newpassword1"),
	})
	requireAppError(t, err, http.StatusNotFound, core.CodeNotFound, msgUserNotFound)

	require.NoError(t, svc.ChangePassword(ctx, id, ChangePasswordRequest{
		OldPassword: ptr("password123"),
		NewPassword: ptr("newpassword1"),
	}))

	_, err = svc.Login(ctx, LoginRequest{
		Email:    ptr("tech@itcare.test"),
		Password: ptr("password123"),
	})
	requireAppError(t, err, http.StatusUnauthorized, core.CodeInvalidCredentials, "")

	_, err = svc.Login(ctx, LoginRequest{
		Email:    ptr("tech@itcare.test"),
		Password: ptr("newpassword1"),
	})
	assert.NoError(t, err)
}
