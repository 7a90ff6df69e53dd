// AngelaMos | 2026
// repository.go

package breakdown

import (
	"context"
	"fmt"
	"time"

	"github.com/kenfackariol/ITCare/internal/core"
)

type Repository interface {
	Create(ctx context.Context, b *Breakdown) error
	GetByID(ctx context.Context, id int64) (*Breakdown, error)
	List(ctx context.Context) ([]Breakdown, error)
	Update(ctx context.Context, b *Breakdown) error
	Delete(ctx context.Context, id int64) error
	ListByDateRange(ctx context.Context, start, end time.Time) ([]Breakdown, error)
	ListByRequester(ctx context.Context, name string) ([]Breakdown, error)
	ListByUser(ctx context.Context, userID int64) ([]Breakdown, error)
	Count(ctx context.Context) (int, error)
}

const breakdownColumns = `id, name_requester, direction_requester, door_requester,
		       name_responsable, serial_number, model, os, observation,
		       start_date_intervention, end_date_intervention, type_intervention,
		       designation_cr, user_id, material_id, created_at, updated_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Breakdown) error {
	query := `
		INSERT INTO breakdowns (
			name_requester, direction_requester, door_requester,
			name_responsable, serial_number, model, os, observation,
			start_date_intervention, end_date_intervention, type_intervention,
			designation_cr, user_id, material_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		b.NameRequester,
		b.DirectionRequester,
		b.DoorRequester,
		b.NameResponsable,
		b.SerialNumber,
		b.Model,
		b.OS,
		b.Observation,
		b.StartDateIntervention,
		b.EndDateIntervention,
		b.TypeIntervention,
		b.DesignationCR,
		b.UserID,
		b.MaterialID,
	)
	if err := row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return core.MapStoreError("create breakdown", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Breakdown, error) {
	query := `SELECT ` + breakdownColumns + ` FROM breakdowns WHERE id = $1`

	var b Breakdown
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		return nil, core.MapStoreError("get breakdown", err)
	}

	return &b, nil
}

func (r *repository) List(ctx context.Context) ([]Breakdown, error) {
	return r.selectMany(ctx, "list breakdowns",
		`SELECT `+breakdownColumns+` FROM breakdowns ORDER BY id`)
}

func (r *repository) Update(ctx context.Context, b *Breakdown) error {
	query := `
		UPDATE breakdowns
		SET name_requester = $2, direction_requester = $3, door_requester = $4,
		    name_responsable = $5, serial_number = $6, model = $7, os = $8,
		    observation = $9, start_date_intervention = $10,
		    end_date_intervention = $11, type_intervention = $12,
		    designation_cr = $13, material_id = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &b.UpdatedAt, query,
		b.ID,
		b.NameRequester,
		b.DirectionRequester,
		b.DoorRequester,
		b.NameResponsable,
		b.SerialNumber,
		b.Model,
		b.OS,
		b.Observation,
		b.StartDateIntervention,
		b.EndDateIntervention,
		b.TypeIntervention,
		b.DesignationCR,
		b.MaterialID,
	)
	if err != nil {
		return core.MapStoreError("update breakdown", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM breakdowns WHERE id = $1`, id)
	if err != nil {
		return core.MapStoreError("delete breakdown", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete breakdown: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete breakdown: %w", core.ErrNotFound)
	}

	return nil
}

// ListByDateRange matches on the intervention start, both bounds inclusive.
func (r *repository) ListByDateRange(
	ctx context.Context,
	start, end time.Time,
) ([]Breakdown, error) {
	query := `SELECT ` + breakdownColumns + `
		FROM breakdowns
		WHERE start_date_intervention BETWEEN $1 AND $2
		ORDER BY start_date_intervention, id`

	return r.selectMany(ctx, "list breakdowns by date range", query, start, end)
}

func (r *repository) ListByRequester(
	ctx context.Context,
	name string,
) ([]Breakdown, error) {
	query := `SELECT ` + breakdownColumns + `
		FROM breakdowns
		WHERE name_requester = $1
		ORDER BY id`

	return r.selectMany(ctx, "list breakdowns by requester", query, name)
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
) ([]Breakdown, error) {
	query := `SELECT ` + breakdownColumns + `
		FROM breakdowns
		WHERE user_id = $1
		ORDER BY id`

	return r.selectMany(ctx, "list breakdowns by user", query, userID)
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM breakdowns`); err != nil {
		return 0, fmt.Errorf("count breakdowns: %w", err)
	}
	return n, nil
}

func (r *repository) selectMany(
	ctx context.Context,
	op, query string,
	args ...any,
) ([]Breakdown, error) {
	items := []Breakdown{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}
