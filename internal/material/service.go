// AngelaMos | 2026
// service.go

package material

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kenfackariol/ITCare/internal/core"
	"github.com/kenfackariol/ITCare/internal/validation"
)

const (
	msgNotFound   = "Material not found"
	msgReferenced = "Material is still referenced by breakdowns"
)

type Service struct {
	repo      Repository
	validator *validation.Validator
}

func NewService(repo Repository, v *validation.Validator) *Service {
	return &Service{repo: repo, validator: v}
}

func (s *Service) Create(ctx context.Context, req MaterialRequest) (*Material, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	m := &Material{Name: strings.TrimSpace(*req.Name)}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, core.InternalError(err, "Failed to create material")
	}

	return m, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Material, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Failed to retrieve material")
	}
	return m, nil
}

func (s *Service) List(ctx context.Context) ([]Material, error) {
	materials, err := s.repo.List(ctx)
	if err != nil {
		return nil, core.InternalError(err, "Failed to retrieve materials")
	}
	return materials, nil
}

func (s *Service) Details(ctx context.Context, id int64) (*Details, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	refs, err := s.repo.ListBreakdowns(ctx, id)
	if err != nil {
		return nil, core.InternalError(err, "Failed to retrieve material details")
	}

	return &Details{Material: m, Breakdowns: refs}, nil
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req MaterialRequest,
) (*Material, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Failed to update material")
	}

	m.Name = strings.TrimSpace(*req.Name)
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, mapError(err, "Failed to update material")
	}

	return m, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err, "Failed to delete material")
	}
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func mapError(err error, msg string) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.NotFoundError(msgNotFound)
	case errors.Is(err, core.ErrForeignKey):
		return core.NewAppError(err, msgReferenced, http.StatusBadRequest, core.CodeConflict)
	default:
		return core.InternalError(err, msg)
	}
}
