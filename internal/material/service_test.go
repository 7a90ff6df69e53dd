// AngelaMos | 2026
// service_test.go

package material

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenfackariol/ITCare/internal/core"
	"github.com/kenfackariol/ITCare/internal/validation"
)

type memRepo struct {
	nextID     int64
	materials  map[int64]*Material
	breakdowns map[int64][]BreakdownRef
}

func newMemRepo() *memRepo {
	return &memRepo{
		materials:  map[int64]*Material{},
		breakdowns: map[int64][]BreakdownRef{},
	}
}

func (r *memRepo) Create(_ context.Context, m *Material) error {
	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	cp := *m
	r.materials[m.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*Material, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, fmt.Errorf("get material: %w", core.ErrNotFound)
	}
	cp := *m
	return &cp, nil
}

func (r *memRepo) List(context.Context) ([]Material, error) {
	out := []Material{}
	for id := int64(1); id <= r.nextID; id++ {
		if m, ok := r.materials[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, m *Material) error {
	if _, ok := r.materials[m.ID]; !ok {
		return fmt.Errorf("update material: %w", core.ErrNotFound)
	}
	m.UpdatedAt = time.Now()
	cp := *m
	r.materials[m.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.materials[id]; !ok {
		return fmt.Errorf("delete material: %w", core.ErrNotFound)
	}
	if len(r.breakdowns[id]) > 0 {
		return fmt.Errorf("delete material: %w", core.ErrForeignKey)
	}
	delete(r.materials, id)
	return nil
}

func (r *memRepo) ListBreakdowns(_ context.Context, id int64) ([]BreakdownRef, error) {
	return append([]BreakdownRef{}, r.breakdowns[id]...), nil
}

func (r *memRepo) Count(context.Context) (int, error) {
	return len(r.materials), nil
}

func ptr[T any](v T) *T { return &v }

func assertAppError(t *testing.T, err error, status int, code, msg string) {
	t.Helper()
	appErr, ok := core.IsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.StatusCode)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, msg, appErr.Message)
}

func TestService_CreateAndUpdate(t *testing.T) {
	svc := NewService(newMemRepo(), validation.New())
	ctx := context.Background()

	m, err := svc.Create(ctx, MaterialRequest{Name: ptr("  Switch Cisco 2960 ")})
	require.NoError(t, err)
	assert.Equal(t, "Switch Cisco 2960", m.Name)

	_, err = svc.Create(ctx, MaterialRequest{})
	assertAppError(t, err, http.StatusBadRequest, core.CodeValidation, `"name" is required`)

	_, err = svc.Create(ctx, MaterialRequest{Name: ptr("")})
	assertAppError(t, err, http.StatusBadRequest, core.CodeValidation,
		`"name" is not allowed to be empty`)

	updated, err := svc.Update(ctx, m.ID, MaterialRequest{Name: ptr("Switch Cisco 3750")})
	require.NoError(t, err)
	assert.Equal(t, "Switch Cisco 3750", updated.Name)

	_, err = svc.Update(ctx, 42, MaterialRequest{Name: ptr("x")})
	assertAppError(t, err, http.StatusNotFound, core.CodeNotFound, msgNotFound)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_RejectsBlankName(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, validation.New())
	ctx := context.Background()

	_, err := svc.Create(ctx, MaterialRequest{Name: ptr("   ")})
	assertAppError(t, err, http.StatusBadRequest, core.CodeValidation,
		`"name" is not allowed to be empty`)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	m, err := svc.Create(ctx, MaterialRequest{Name: ptr("Router")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, m.ID, MaterialRequest{Name: ptr("\t \n")})
	assertAppError(t, err, http.StatusBadRequest, core.CodeValidation,
		`"name" is not allowed to be empty`)

	got, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Router", got.Name)
}

func TestService_Details(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, validation.New())
	ctx := context.Background()

	m, err := svc.Create(ctx, MaterialRequest{Name: ptr("Laptop")})
	require.NoError(t, err)
	repo.breakdowns[m.ID] = []BreakdownRef{{ID: 7, NameRequester: "Finance"}}

	d, err := svc.Details(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", d.Material.Name)
	require.Len(t, d.Breakdowns, 1)
	assert.Equal(t, "Finance", d.Breakdowns[0].NameRequester)

	_, err = svc.Details(ctx, 99)
	assertAppError(t, err, http.StatusNotFound, core.CodeNotFound, msgNotFound)
}

func TestService_Delete(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, validation.New())
	ctx := context.Background()

	used, err := svc.Create(ctx, MaterialRequest{Name: ptr("Router")})
	require.NoError(t, err)
	free, err := svc.Create(ctx, MaterialRequest{Name: ptr("Mouse")})
	require.NoError(t, err)
	repo.breakdowns[used.ID] = []BreakdownRef{{ID: 1}}

	err = svc.Delete(ctx, used.ID)
	assertAppError(t, err, http.StatusBadRequest, core.CodeConflict, msgReferenced)

	require.NoError(t, svc.Delete(ctx, free.ID))

	err = svc.Delete(ctx, free.ID)
	assertAppError(t, err, http.StatusNotFound, core.CodeNotFound, msgNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, used.ID, list[0].ID)
}
