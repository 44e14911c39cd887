package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeriesPlan is a fully validated, conflict-checkable batch of bookings for
// one resource: the proposed occurrences, the resolved blocking-set, and the
// per-part series to insert (each series is root first, then children).
type SeriesPlan struct {
	ResourceID      string
	Occurrences     []Occurrence
	BlockingPartIDs []string
	Series          [][]*Booking
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error

	// CreateSeries runs the conflict check and all inserts of the plan in a
	// single transaction, holding a per-resource advisory lock so that two
	// concurrent requests for the same resource cannot both pass the check.
	// On conflict it returns the offending booking and inserts nothing.
	CreateSeries(ctx context.Context, plan SeriesPlan) (*Booking, error)

	// FindActiveOverlapping returns active bookings on the resource whose
	// intervals intersect [start, end), restricted to the blocking part set
	// (nil/empty = all parts).
	FindActiveOverlapping(ctx context.Context, resourceID string, start, end time.Time, partIDs []string, excludeID string) ([]*Booking, error)

	// PurgePastTerminal deletes cancelled and rejected bookings that ended
	// before the given time. Returns the number of rows removed.
	PurgePastTerminal(ctx context.Context, before time.Time) (int64, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const bookingColumns = `
	b.id, b.resource_id, r.name, b.part_id, p.name, b.user_id, COALESCE(u.display_name, u.email),
	b.title, b.start_time, b.end_time, b.status,
	b.is_recurring, b.recurrence_type, b.recurrence_end_date, b.parent_booking_id,
	b.total_price, b.created_at, b.updated_at`

func scanBooking(row pgx.Row, b *Booking, extra ...any) error {
	dest := []any{
		&b.ID, &b.ResourceID, &b.ResourceName, &b.PartID, &b.PartName, &b.UserID, &b.UserName,
		&b.Title, &b.StartTime, &b.EndTime, &b.Status,
		&b.IsRecurring, &b.RecurrenceType, &b.RecurrenceEndDate, &b.ParentBookingID,
		&b.TotalPrice, &b.CreatedAt, &b.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `
		SELECT` + bookingColumns + `
		FROM public.bookings b
		JOIN public.resources r ON b.resource_id = r.id
		JOIN public.users u ON b.user_id = u.id
		LEFT JOIN public.resource_parts p ON b.part_id = p.id
		WHERE b.id = $1
	`
	var b Booking
	if err := scanBooking(r.pool.QueryRow(ctx, query, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.resource_id", "r.name", "b.part_id", "p.name", "b.user_id", "COALESCE(u.display_name, u.email)",
		"b.title", "b.start_time", "b.end_time", "b.status",
		"b.is_recurring", "b.recurrence_type", "b.recurrence_end_date", "b.parent_booking_id",
		"b.total_price", "b.created_at", "b.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.bookings b").
		Join("public.resources r ON b.resource_id = r.id").
		Join("public.users u ON b.user_id = u.id").
		LeftJoin("public.resource_parts p ON b.part_id = p.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.ResourceID != "" {
		query = query.Where(squirrel.Eq{"b.resource_id": filter.ResourceID})
	}
	if filter.PartID != "" {
		query = query.Where(squirrel.Eq{"b.part_id": filter.PartID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	// Date range filtering (intersection logic)
	if filter.StartTime != nil {
		query = query.Where(squirrel.GtOrEq{"b.end_time": filter.StartTime})
	}
	if filter.EndTime != nil {
		query = query.Where(squirrel.LtOrEq{"b.start_time": filter.EndTime})
	}

	orderBy := "b.start_time"
	if filter.SortBy != "" {
		orderBy = "b." + filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b, &total); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, total, nil
}

// overlapQuery builds the candidate query for the conflict check: active
// bookings on the resource intersecting [start, end), filtered to the
// blocking part set. Whole-resource bookings (part_id IS NULL) always
// qualify; an empty part set matches every part.
func overlapQuery(resourceID string, start, end time.Time, partIDs []string, excludeID string) (string, []interface{}, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.resource_id", "r.name", "b.part_id", "p.name", "b.user_id", "COALESCE(u.display_name, u.email)",
		"b.title", "b.start_time", "b.end_time", "b.status",
		"b.is_recurring", "b.recurrence_type", "b.recurrence_end_date", "b.parent_booking_id",
		"b.total_price", "b.created_at", "b.updated_at",
	).
		From("public.bookings b").
		Join("public.resources r ON b.resource_id = r.id").
		Join("public.users u ON b.user_id = u.id").
		LeftJoin("public.resource_parts p ON b.part_id = p.id").
		Where(squirrel.Eq{"b.resource_id": resourceID}).
		Where(squirrel.NotEq{"b.status": []string{string(StatusCancelled), string(StatusRejected)}}).
		Where(squirrel.Lt{"b.start_time": end}).
		Where(squirrel.Gt{"b.end_time": start}).
		OrderBy("b.start_time ASC")

	if len(partIDs) > 0 {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"b.part_id": nil},
			squirrel.Eq{"b.part_id": partIDs},
		})
	}
	if excludeID != "" {
		query = query.Where(squirrel.NotEq{"b.id": excludeID})
	}

	return query.ToSql()
}

func (r *pgxRepository) FindActiveOverlapping(ctx context.Context, resourceID string, start, end time.Time, partIDs []string, excludeID string) ([]*Booking, error) {
	sql, args, err := overlapQuery(resourceID, start, end, partIDs, excludeID)
	if err != nil {
		return nil, fmt.Errorf("build overlap query failed: %w", err)
	}
	return r.queryBookings(ctx, r.pool, sql, args)
}

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *pgxRepository) queryBookings(ctx context.Context, q pgxQuerier, sql string, args []interface{}) ([]*Booking, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, nil
}

func (r *pgxRepository) CreateSeries(ctx context.Context, plan SeriesPlan) (*Booking, error) {
	if len(plan.Occurrences) == 0 || len(plan.Series) == 0 {
		return nil, ErrInvalidTimeRange
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize conflicting creates per resource. The lock is released on
	// commit/rollback, so the check and the inserts form one atomic unit.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, plan.ResourceID); err != nil {
		return nil, fmt.Errorf("acquire resource lock failed: %w", err)
	}

	// One candidate fetch covers the whole series window; exact conflict
	// decisions are made per occurrence in FirstConflict.
	windowStart, windowEnd := seriesWindow(plan.Occurrences)
	sql, args, err := overlapQuery(plan.ResourceID, windowStart, windowEnd, plan.BlockingPartIDs, "")
	if err != nil {
		return nil, fmt.Errorf("build overlap query failed: %w", err)
	}
	candidates, err := r.queryBookings(ctx, tx, sql, args)
	if err != nil {
		return nil, err
	}

	blocking := make(map[string]struct{}, len(plan.BlockingPartIDs))
	for _, id := range plan.BlockingPartIDs {
		blocking[id] = struct{}{}
	}
	for _, occ := range plan.Occurrences {
		if conflict := FirstConflict(candidates, occ, blocking); conflict != nil {
			return conflict, nil
		}
	}

	const insert = `
		INSERT INTO public.bookings
			(resource_id, part_id, user_id, title, start_time, end_time, status,
			 is_recurring, recurrence_type, recurrence_end_date, parent_booking_id, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`
	for _, series := range plan.Series {
		var rootID *string
		for i, b := range series {
			if i > 0 {
				b.ParentBookingID = rootID
			}
			err := tx.QueryRow(ctx, insert,
				b.ResourceID, b.PartID, b.UserID, b.Title, b.StartTime, b.EndTime, b.Status,
				b.IsRecurring, b.RecurrenceType, b.RecurrenceEndDate, b.ParentBookingID, b.TotalPrice,
			).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
			if err != nil {
				return nil, fmt.Errorf("insert booking failed: %w", err)
			}
			if i == 0 {
				id := b.ID
				rootID = &id
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking series failed: %w", err)
	}
	return nil, nil
}

func seriesWindow(occurrences []Occurrence) (time.Time, time.Time) {
	start, end := occurrences[0].Start, occurrences[0].End
	for _, occ := range occurrences[1:] {
		if occ.Start.Before(start) {
			start = occ.Start
		}
		if occ.End.After(end) {
			end = occ.End
		}
	}
	return start, end
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("start_time", b.StartTime).
		Set("end_time", b.EndTime).
		Set("status", b.Status).
		Set("total_price", b.TotalPrice).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.bookings WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) PurgePastTerminal(ctx context.Context, before time.Time) (int64, error) {
	const query = `
		DELETE FROM public.bookings
		WHERE status IN ($1, $2) AND end_time < $3
	`
	ct, err := r.pool.Exec(ctx, query, StatusCancelled, StatusRejected, before)
	if err != nil {
		return 0, fmt.Errorf("purge bookings failed: %w", err)
	}
	return ct.RowsAffected(), nil
}
