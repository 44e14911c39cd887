package part

import (
	"context"
	"strings"
)

type CreateRequest struct {
	ResourceID string
	Name       string
	ParentID   *string
}

type UpdateRequest struct {
	Name     *string
	ParentID *string
	// ClearParent detaches the part from its parent. It wins over ParentID.
	ClearParent bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Part, error)
	GetByID(ctx context.Context, id string) (*Part, error)
	ListByResource(ctx context.Context, resourceID string) ([]*Part, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Part, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Part, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	if req.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ResourceID != req.ResourceID {
			return nil, ErrParentMismatch
		}
	}

	p := &Part{
		ResourceID: req.ResourceID,
		Name:       strings.TrimSpace(req.Name),
		ParentID:   req.ParentID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Part, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByResource(ctx context.Context, resourceID string) ([]*Part, error) {
	return s.repo.ListByResource(ctx, resourceID)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Part, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		p.Name = strings.TrimSpace(*req.Name)
	}

	switch {
	case req.ClearParent:
		p.ParentID = nil
	case req.ParentID != nil:
		parent, err := s.repo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ResourceID != p.ResourceID {
			return nil, ErrParentMismatch
		}

		// The conflict rule only looks one level up and down, but a cycle in
		// the parent chain would still corrupt blocking-set resolution.
		siblings, err := s.repo.ListByResource(ctx, p.ResourceID)
		if err != nil {
			return nil, err
		}
		if wouldCycle(siblings, p.ID, *req.ParentID) {
			return nil, ErrParentCycle
		}
		p.ParentID = req.ParentID
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
