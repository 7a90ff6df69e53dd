// AngelaMos | 2026
// entity.go

package breakdown

import (
	"time"
)

type Breakdown struct {
	ID                    int64      `db:"id"`
	NameRequester         string     `db:"name_requester"`
	DirectionRequester    *string    `db:"direction_requester"`
	DoorRequester         *string    `db:"door_requester"`
	NameResponsable       *string    `db:"name_responsable"`
	SerialNumber          *string    `db:"serial_number"`
	Model                 *string    `db:"model"`
	OS                    *string    `db:"os"`
	Observation           *string    `db:"observation"`
	StartDateIntervention *time.Time `db:"start_date_intervention"`
	EndDateIntervention   *time.Time `db:"end_date_intervention"`
	TypeIntervention      *string    `db:"type_intervention"`
	DesignationCR         *string    `db:"designation_cr"`
	UserID                *int64     `db:"user_id"`
	MaterialID            int64      `db:"material_id"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
}

// Duration is the intervention length, or nil until both dates are known.
func (b *Breakdown) Duration() *time.Duration {
	if b.StartDateIntervention == nil || b.EndDateIntervention == nil {
		return nil
	}
	d := b.EndDateIntervention.Sub(*b.StartDateIntervention)
	return &d
}
