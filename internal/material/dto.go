// AngelaMos | 2026
// dto.go

package material

import (
	"time"
)

type MaterialRequest struct {
	Name *string `json:"name" validate:"required,notblank,max=255"`
}

type MaterialResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type BreakdownRefResponse struct {
	ID                    int64      `json:"id"`
	NameRequester         string     `json:"name_requester"`
	TypeIntervention      *string    `json:"type_intervention"`
	StartDateIntervention *time.Time `json:"start_date_intervention"`
	EndDateIntervention   *time.Time `json:"end_date_intervention"`
	UserID                *int64     `json:"userId"`
	CreatedAt             time.Time  `json:"createdAt"`
}

type Envelope struct {
	Material MaterialResponse `json:"material"`
}

type ListEnvelope struct {
	Materials []MaterialResponse `json:"materials"`
}

type DetailsResponse struct {
	Material   MaterialResponse       `json:"material"`
	Breakdowns []BreakdownRefResponse `json:"breakdowns"`
}

type Details struct {
	Material   *Material
	Breakdowns []BreakdownRef
}

func ToMaterialResponse(m *Material) MaterialResponse {
	return MaterialResponse{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToMaterialResponseList(materials []Material) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(materials))
	for i := range materials {
		out = append(out, ToMaterialResponse(&materials[i]))
	}
	return out
}

func ToDetailsResponse(d *Details) DetailsResponse {
	refs := make([]BreakdownRefResponse, 0, len(d.Breakdowns))
	for _, b := range d.Breakdowns {
		refs = append(refs, BreakdownRefResponse(b))
	}
	return DetailsResponse{
		Material:   ToMaterialResponse(d.Material),
		Breakdowns: refs,
	}
}
