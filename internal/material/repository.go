// AngelaMos | 2026
// repository.go

package material

import (
	"context"
	"fmt"

	"github.com/kenfackariol/ITCare/internal/core"
)

type Repository interface {
	Create(ctx context.Context, m *Material) error
	GetByID(ctx context.Context, id int64) (*Material, error)
	List(ctx context.Context) ([]Material, error)
	Update(ctx context.Context, m *Material) error
	Delete(ctx context.Context, id int64) error
	ListBreakdowns(ctx context.Context, materialID int64) ([]BreakdownRef, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Material) error {
	query := `
		INSERT INTO materials (name)
		VALUES ($1)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query, m.Name)
	if err := row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return core.MapStoreError("create material", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Material, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM materials
		WHERE id = $1`

	var m Material
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, core.MapStoreError("get material", err)
	}

	return &m, nil
}

func (r *repository) List(ctx context.Context) ([]Material, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM materials
		ORDER BY id`

	materials := []Material{}
	if err := r.db.SelectContext(ctx, &materials, query); err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}

	return materials, nil
}

func (r *repository) Update(ctx context.Context, m *Material) error {
	query := `
		UPDATE materials
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	if err := r.db.GetContext(ctx, &m.UpdatedAt, query, m.ID, m.Name); err != nil {
		return core.MapStoreError("update material", err)
	}

	return nil
}

// Delete fails with core.ErrForeignKey while breakdowns still reference the row.
func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return core.MapStoreError("delete material", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete material: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListBreakdowns(
	ctx context.Context,
	materialID int64,
) ([]BreakdownRef, error) {
	query := `
		SELECT id, name_requester, type_intervention, start_date_intervention,
		       end_date_intervention, user_id, created_at
		FROM breakdowns
		WHERE material_id = $1
		ORDER BY created_at DESC, id DESC`

	refs := []BreakdownRef{}
	if err := r.db.SelectContext(ctx, &refs, query, materialID); err != nil {
		return nil, fmt.Errorf("list material breakdowns: %w", err)
	}

	return refs, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM materials`); err != nil {
		return 0, fmt.Errorf("count materials: %w", err)
	}
	return n, nil
}
