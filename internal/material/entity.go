// AngelaMos | 2026
// entity.go

package material

import (
	"time"
)

type Material struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// BreakdownRef is the slice of a breakdown shown on a material's detail view.
type BreakdownRef struct {
	ID                    int64      `db:"id"`
	NameRequester         string     `db:"name_requester"`
	TypeIntervention      *string    `db:"type_intervention"`
	StartDateIntervention *time.Time `db:"start_date_intervention"`
	EndDateIntervention   *time.Time `db:"end_date_intervention"`
	UserID                *int64     `db:"user_id"`
	CreatedAt             time.Time  `db:"created_at"`
}
