// AngelaMos | 2026
// dto.go

package breakdown

import (
	"time"

	"github.com/kenfackariol/ITCare/internal/material"
	"github.com/kenfackariol/ITCare/internal/user"
)

// CreateRequest has no userId: the creator is always the caller.
type CreateRequest struct {
	NameRequester         *string `json:"name_requester"          validate:"required,nonempty"`
	DirectionRequester    *string `json:"direction_requester"     validate:"omitempty,nonempty"`
	DoorRequester         *string `json:"door_requester"          validate:"omitempty,nonempty"`
	NameResponsable       *string `json:"name_responsable"        validate:"omitempty,nonempty"`
	SerialNumber          *string `json:"serial_number"           validate:"omitempty,nonempty"`
	Model                 *string `json:"model"                   validate:"omitempty,nonempty"`
	OS                    *string `json:"os"                      validate:"omitempty,nonempty"`
	Observation           *string `json:"observation"             validate:"omitempty,nonempty"`
	StartDateIntervention *string `json:"start_date_intervention" validate:"omitempty,nonempty,date"`
	EndDateIntervention   *string `json:"end_date_intervention"   validate:"omitempty,nonempty,date"`
	TypeIntervention      *string `json:"type_intervention"       validate:"omitempty,nonempty"`
	DesignationCR         *string `json:"designation_CR"          validate:"omitempty,nonempty"`
	MaterialID            *int64  `json:"materialId"              validate:"required,gt=0"`
}

type UpdateRequest struct {
	NameRequester         *string `json:"name_requester"          validate:"omitempty,nonempty"`
	DirectionRequester    *string `json:"direction_requester"     validate:"omitempty,nonempty"`
	DoorRequester         *string `json:"door_requester"          validate:"omitempty,nonempty"`
	NameResponsable       *string `json:"name_responsable"        validate:"omitempty,nonempty"`
	SerialNumber          *string `json:"serial_number"           validate:"omitempty,nonempty"`
	Model                 *string `json:"model"                   validate:"omitempty,nonempty"`
	OS                    *string `json:"os"                      validate:"omitempty,nonempty"`
	Observation           *string `json:"observation"             validate:"omitempty,nonempty"`
	StartDateIntervention *string `json:"start_date_intervention" validate:"omitempty,nonempty,date"`
	EndDateIntervention   *string `json:"end_date_intervention"   validate:"omitempty,nonempty,date"`
	TypeIntervention      *string `json:"type_intervention"       validate:"omitempty,nonempty"`
	DesignationCR         *string `json:"designation_CR"          validate:"omitempty,nonempty"`
	MaterialID            *int64  `json:"materialId"              validate:"omitempty,gt=0"`
}

func (r UpdateRequest) IsEmpty() bool {
	return r.NameRequester == nil &&
		r.DirectionRequester == nil &&
		r.DoorRequester == nil &&
		r.NameResponsable == nil &&
		r.SerialNumber == nil &&
		r.Model == nil &&
		r.OS == nil &&
		r.Observation == nil &&
		r.StartDateIntervention == nil &&
		r.EndDateIntervention == nil &&
		r.TypeIntervention == nil &&
		r.DesignationCR == nil &&
		r.MaterialID == nil
}

type BreakdownResponse struct {
	ID                    int64      `json:"id"`
	NameRequester         string     `json:"name_requester"`
	DirectionRequester    *string    `json:"direction_requester"`
	DoorRequester         *string    `json:"door_requester"`
	NameResponsable       *string    `json:"name_responsable"`
	SerialNumber          *string    `json:"serial_number"`
	Model                 *string    `json:"model"`
	OS                    *string    `json:"os"`
	Observation           *string    `json:"observation"`
	StartDateIntervention *time.Time `json:"start_date_intervention"`
	EndDateIntervention   *time.Time `json:"end_date_intervention"`
	TypeIntervention      *string    `json:"type_intervention"`
	DesignationCR         *string    `json:"designation_CR"`
	UserID                *int64     `json:"userId"`
	MaterialID            int64      `json:"materialId"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

type DetailsResponse struct {
	BreakdownResponse
	Material   *material.MaterialResponse `json:"material"`
	User       *user.UserResponse         `json:"user"`
	DurationMs *int64                     `json:"durationMs"`
}

type Details struct {
	Breakdown *Breakdown
	Material  *material.Material
	User      *user.User
}

func ToBreakdownResponse(b *Breakdown) BreakdownResponse {
	return BreakdownResponse(*b)
}

func ToBreakdownResponseList(items []Breakdown) []BreakdownResponse {
	out := make([]BreakdownResponse, 0, len(items))
	for i := range items {
		out = append(out, ToBreakdownResponse(&items[i]))
	}
	return out
}

func ToDetailsResponse(d *Details) DetailsResponse {
	resp := DetailsResponse{BreakdownResponse: ToBreakdownResponse(d.Breakdown)}

	if d.Material != nil {
		m := material.ToMaterialResponse(d.Material)
		resp.Material = &m
	}
	if d.User != nil {
		u := user.ToUserResponse(d.User)
		resp.User = &u
	}
	if dur := d.Breakdown.Duration(); dur != nil {
		ms := dur.Milliseconds()
		resp.DurationMs = &ms
	}

	return resp
}
