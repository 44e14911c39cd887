package part

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, p *Part) error
	GetByID(ctx context.Context, id string) (*Part, error)
	// ListByResource returns every part of the resource, unpaginated.
	// The arena is needed in full for blocking-set resolution.
	ListByResource(ctx context.Context, resourceID string) ([]*Part, error)
	Update(ctx context.Context, p *Part) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, p *Part) error {
	const query = `
		INSERT INTO public.resource_parts (resource_id, name, parent_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, p.ResourceID, p.Name, p.ParentID).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrResourceNotFound
		}
		return fmt.Errorf("create part failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Part, error) {
	const query = `
		SELECT id, resource_id, name, parent_id, created_at
		FROM public.resource_parts
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var p Part
	if err := row.Scan(&p.ID, &p.ResourceID, &p.Name, &p.ParentID, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get part failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) ListByResource(ctx context.Context, resourceID string) ([]*Part, error) {
	const query = `
		SELECT id, resource_id, name, parent_id, created_at
		FROM public.resource_parts
		WHERE resource_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list parts failed: %w", err)
	}
	defer rows.Close()

	var parts []*Part
	for rows.Next() {
		var p Part
		if err := rows.Scan(&p.ID, &p.ResourceID, &p.Name, &p.ParentID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan part failed: %w", err)
		}
		parts = append(parts, &p)
	}
	return parts, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Part) error {
	const query = `
		UPDATE public.resource_parts
		SET name = $1, parent_id = $2
		WHERE id = $3
	`
	ct, err := r.pool.Exec(ctx, query, p.Name, p.ParentID, p.ID)
	if err != nil {
		return fmt.Errorf("update part failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.resource_parts WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete part failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
