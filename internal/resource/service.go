package resource

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name               string
	Description        string
	RequiresApproval   bool
	MinBookingMinutes  *int
	MaxBookingMinutes  *int
	AdvanceBookingDays *int
}

type UpdateRequest struct {
	Name               *string
	Description        *string
	RequiresApproval   *bool
	MinBookingMinutes  *int
	MaxBookingMinutes  *int
	AdvanceBookingDays *int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	res := &Resource{
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		RequiresApproval:  req.RequiresApproval,
		MinBookingMinutes: UnlimitedMinMinutes,
		MaxBookingMinutes: UnlimitedMaxMinutes,
	}
	if req.MinBookingMinutes != nil {
		res.MinBookingMinutes = *req.MinBookingMinutes
	}
	if req.MaxBookingMinutes != nil {
		res.MaxBookingMinutes = *req.MaxBookingMinutes
	}
	if req.AdvanceBookingDays != nil {
		res.AdvanceBookingDays = *req.AdvanceBookingDays
	}

	if err := validateDurations(res); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		res.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		res.Description = *req.Description
	}
	if req.RequiresApproval != nil {
		res.RequiresApproval = *req.RequiresApproval
	}
	if req.MinBookingMinutes != nil {
		res.MinBookingMinutes = *req.MinBookingMinutes
	}
	if req.MaxBookingMinutes != nil {
		res.MaxBookingMinutes = *req.MaxBookingMinutes
	}
	if req.AdvanceBookingDays != nil {
		res.AdvanceBookingDays = *req.AdvanceBookingDays
	}

	if err := validateDurations(res); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func validateDurations(res *Resource) error {
	min, max := res.MinDuration(), res.MaxDuration()
	if min != nil && max != nil && *min > *max {
		return ErrInvalidDurations
	}
	return nil
}
