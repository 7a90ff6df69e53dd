// AngelaMos | 2026
// service.go

package breakdown

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kenfackariol/ITCare/internal/core"
	"github.com/kenfackariol/ITCare/internal/material"
	"github.com/kenfackariol/ITCare/internal/user"
	"github.com/kenfackariol/ITCare/internal/validation"
)

const (
	msgNotFound         = "Breakdown not found"
	msgMaterialNotFound = "Material not found"
	msgInvalidUserID    = "Invalid user ID"
)

type MaterialReader interface {
	Get(ctx context.Context, id int64) (*material.Material, error)
}

type UserReader interface {
	GetUser(ctx context.Context, id int64) (*user.User, error)
}

type Service struct {
	repo      Repository
	materials MaterialReader
	users     UserReader
	validator *validation.Validator
}

func NewService(
	repo Repository,
	materials MaterialReader,
	users UserReader,
	v *validation.Validator,
) *Service {
	return &Service{
		repo:      repo,
		materials: materials,
		users:     users,
		validator: v,
	}
}

// Create files a breakdown on behalf of actorID. The referenced material
// must exist.
func (s *Service) Create(
	ctx context.Context,
	actorID int64,
	req CreateRequest,
) (*Breakdown, error) {
	ctx, span := core.StartSpan(ctx, "breakdown.Create",
		attribute.Int64("user.id", actorID),
	)
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	if err := s.ensureMaterial(ctx, *req.MaterialID); err != nil {
		return nil, err
	}

	b := &Breakdown{
		NameRequester:      *req.NameRequester,
		DirectionRequester: req.DirectionRequester,
		DoorRequester:      req.DoorRequester,
		NameResponsable:    req.NameResponsable,
		SerialNumber:       req.SerialNumber,
		Model:              req.Model,
		OS:                 req.OS,
		Observation:        req.Observation,
		TypeIntervention:   req.TypeIntervention,
		DesignationCR:      req.DesignationCR,
		UserID:             &actorID,
		MaterialID:         *req.MaterialID,
	}

	var err error
	if b.StartDateIntervention, err = parseOptionalDate(req.StartDateIntervention); err != nil {
		return nil, err
	}
	if b.EndDateIntervention, err = parseOptionalDate(req.EndDateIntervention); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, core.ErrForeignKey) {
			return nil, core.NotFoundError(msgMaterialNotFound)
		}
		return nil, core.InternalError(err, "Failed to create breakdown")
	}

	return b, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Breakdown, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Failed to read breakdown")
	}
	return b, nil
}

// Details loads the breakdown with its material and creator. A creator
// removed from the store shows as a null user.
func (s *Service) Details(ctx context.Context, id int64) (*Details, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &Details{Breakdown: b}

	m, err := s.materials.Get(ctx, b.MaterialID)
	switch {
	case err == nil:
		d.Material = m
	case !errors.Is(err, core.ErrNotFound):
		return nil, err
	}

	if b.UserID != nil {
		u, err := s.users.GetUser(ctx, *b.UserID)
		switch {
		case err == nil:
			d.User = u
		case !errors.Is(err, core.ErrNotFound):
			return nil, err
		}
	}

	return d, nil
}

func (s *Service) List(ctx context.Context) ([]Breakdown, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, core.InternalError(err, "Failed to fetch breakdowns")
	}
	return items, nil
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateRequest,
) (*Breakdown, error) {
	ctx, span := core.StartSpan(ctx, "breakdown.Update",
		attribute.Int64("breakdown.id", id),
	)
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Failed to update breakdown")
	}

	if req.MaterialID != nil && *req.MaterialID != b.MaterialID {
		if err := s.ensureMaterial(ctx, *req.MaterialID); err != nil {
			return nil, err
		}
		b.MaterialID = *req.MaterialID
	}

	if err := applyUpdate(b, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		if errors.Is(err, core.ErrForeignKey) {
			return nil, core.NotFoundError(msgMaterialNotFound)
		}
		return nil, mapError(err, "Failed to update breakdown")
	}

	return b, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err, "Failed to delete breakdown")
	}
	return nil
}

// ListByDateRange treats a date-only end bound as the whole day.
func (s *Service) ListByDateRange(
	ctx context.Context,
	startRaw, endRaw string,
) ([]Breakdown, error) {
	start, err := validation.ParseDate(startRaw)
	if err != nil {
		return nil, core.ValidationError(
			fmt.Sprintf("Invalid start date format: %s", startRaw),
		)
	}

	end, err := validation.ParseDate(endRaw)
	if err != nil {
		return nil, core.ValidationError(
			fmt.Sprintf("Invalid end date format: %s", endRaw),
		)
	}
	if isDateOnly(endRaw) {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	if end.Before(start) {
		return nil, core.ValidationError("Start date must not be after end date")
	}

	items, err := s.repo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, core.InternalError(err, "Failed to fetch breakdowns by date range")
	}
	return items, nil
}

func (s *Service) ListByRequester(
	ctx context.Context,
	name string,
) ([]Breakdown, error) {
	items, err := s.repo.ListByRequester(ctx, name)
	if err != nil {
		return nil, core.InternalError(err, "Failed to fetch breakdowns by requester")
	}
	return items, nil
}

func (s *Service) ListByUser(
	ctx context.Context,
	userIDRaw string,
) ([]Breakdown, error) {
	userID, err := strconv.ParseInt(strings.TrimSpace(userIDRaw), 10, 64)
	if err != nil || userID <= 0 {
		return nil, core.ValidationError(msgInvalidUserID)
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, core.InternalError(err, "Failed to fetch breakdowns by user")
	}
	return items, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) ensureMaterial(ctx context.Context, id int64) error {
	if _, err := s.materials.Get(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError(msgMaterialNotFound)
		}
		return err
	}
	return nil
}

func applyUpdate(b *Breakdown, req UpdateRequest) error {
	if req.NameRequester != nil {
		b.NameRequester = *req.NameRequester
	}
	setIfPresent(&b.DirectionRequester, req.DirectionRequester)
	setIfPresent(&b.DoorRequester, req.DoorRequester)
	setIfPresent(&b.NameResponsable, req.NameResponsable)
	setIfPresent(&b.SerialNumber, req.SerialNumber)
	setIfPresent(&b.Model, req.Model)
	setIfPresent(&b.OS, req.OS)
	setIfPresent(&b.Observation, req.Observation)
	setIfPresent(&b.TypeIntervention, req.TypeIntervention)
	setIfPresent(&b.DesignationCR, req.DesignationCR)

	if req.StartDateIntervention != nil {
		t, err := parseOptionalDate(req.StartDateIntervention)
		if err != nil {
			return err
		}
		b.StartDateIntervention = t
	}
	if req.EndDateIntervention != nil {
		t, err := parseOptionalDate(req.EndDateIntervention)
		if err != nil {
			return err
		}
		b.EndDateIntervention = t
	}

	return nil
}

func setIfPresent(dst **string, v *string) {
	if v != nil {
		*dst = v
	}
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := validation.ParseDate(*raw)
	if err != nil {
		return nil, core.ValidationError(err.Error())
	}
	t = t.UTC()
	return &t, nil
}

func isDateOnly(s string) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	return err == nil
}

func mapError(err error, msg string) error {
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError(msgNotFound)
	}
	return core.InternalError(err, msg)
}
