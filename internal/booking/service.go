package booking

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Nyggen1981/arena-booking-sub002/internal/license"
	"github.com/Nyggen1981/arena-booking-sub002/internal/notify"
	"github.com/Nyggen1981/arena-booking-sub002/internal/part"
	"github.com/Nyggen1981/arena-booking-sub002/internal/pkg/apperror"
	"github.com/Nyggen1981/arena-booking-sub002/internal/resource"
	"github.com/Nyggen1981/arena-booking-sub002/internal/user"
)

type CreateRequest struct {
	UserID     string
	ResourceID string
	PartIDs    []string // empty = whole resource
	Title      string
	StartTime  time.Time
	EndTime    time.Time
	Recurrence *Recurrence
}

type RescheduleRequest struct {
	StartTime time.Time
	EndTime   time.Time
}

type Service interface {
	// Create expands the request into occurrences, resolves the blocking
	// part set, checks every occurrence for conflicts and materializes the
	// whole batch transactionally. Returns every created booking.
	Create(ctx context.Context, req CreateRequest) ([]*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Cancel(ctx context.Context, id, requesterID string, isAdmin bool) (*Booking, error)
	Decide(ctx context.Context, id string, approve bool, isAdmin bool) (*Booking, error)
	Reschedule(ctx context.Context, id string, req RescheduleRequest, requesterID string, isAdmin bool) (*Booking, error)
	Delete(ctx context.Context, id, requesterID string, isAdmin bool) error
	// PurgePastTerminal removes cancelled/rejected bookings already in the past.
	PurgePastTerminal(ctx context.Context) (int64, error)
}

type service struct {
	repo        Repository
	resService  resource.Service
	partService part.Service
	userService user.Service
	oracle      license.Oracle
	dispatcher  notify.Dispatcher
	logger      *slog.Logger

	now func() time.Time
}

func NewService(
	repo Repository,
	resService resource.Service,
	partService part.Service,
	userService user.Service,
	oracle license.Oracle,
	dispatcher notify.Dispatcher,
	logger *slog.Logger,
) Service {
	return &service{
		repo:        repo,
		resService:  resService,
		partService: partService,
		userService: userService,
		oracle:      oracle,
		dispatcher:  dispatcher,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) ([]*Booking, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}
	now := s.now()
	if req.StartTime.Before(now) {
		return nil, ErrStartTimePast
	}
	if req.Recurrence != nil {
		if !ValidRecurrenceType(req.Recurrence.Type) || req.Recurrence.EndDate.IsZero() {
			return nil, ErrInvalidRecurrence
		}
	}

	res, err := s.resService.GetByID(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	// Duration gating before anything is written.
	duration := req.EndTime.Sub(req.StartTime)
	if min := res.MinDuration(); min != nil && duration < *min {
		return nil, ErrTooShort
	}
	if max := res.MaxDuration(); max != nil && duration > *max {
		return nil, ErrTooLong
	}

	occurrences := ExpandOccurrences(req.StartTime, req.EndTime, req.Recurrence)
	if len(occurrences) == 0 {
		return nil, ErrInvalidRecurrence
	}

	// The advance window applies to every occurrence, so checking the last
	// (latest) one is enough.
	if res.AdvanceBookingDays > 0 {
		horizon := now.AddDate(0, 0, res.AdvanceBookingDays)
		if occurrences[len(occurrences)-1].Start.After(horizon) {
			return nil, ErrTooFarAhead
		}
	}

	// Resolve the blocking part set from the resource's part arena.
	var blockingIDs []string
	if len(req.PartIDs) > 0 {
		arena, err := s.partService.ListByResource(ctx, req.ResourceID)
		if err != nil {
			return nil, err
		}
		blocking, err := part.BlockingSet(arena, req.PartIDs)
		if err != nil {
			return nil, ErrPartNotFound
		}
		blockingIDs = make([]string, 0, len(blocking))
		for id := range blocking {
			blockingIDs = append(blockingIDs, id)
		}
	}

	// External license/pricing gate.
	verdict, err := s.oracle.Check(ctx, license.CheckRequest{
		UserID:      req.UserID,
		ResourceID:  req.ResourceID,
		Minutes:     int(duration / time.Minute),
		Occurrences: len(occurrences),
	})
	if err != nil {
		return nil, fmt.Errorf("license check failed: %w", err)
	}
	if !verdict.Allowed {
		return nil, ErrLicenseDenied
	}

	status := StatusApproved
	if res.RequiresApproval {
		status = StatusPending
	}

	plan := SeriesPlan{
		ResourceID:      req.ResourceID,
		Occurrences:     occurrences,
		BlockingPartIDs: blockingIDs,
		Series:          buildSeries(req, occurrences, status, verdict.PricePerOccurrence),
	}

	conflict, err := s.repo.CreateSeries(ctx, plan)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, conflictError(conflict)
	}

	created := make([]*Booking, 0, len(plan.Series)*len(occurrences))
	for _, series := range plan.Series {
		created = append(created, series...)
	}

	s.notifyCreated(ctx, req.UserID, res.Name, created)

	return created, nil
}

// buildSeries lays out one insert series per requested part (or a single
// whole-resource series): the first occurrence is the root, later ones are
// children linked to it during insertion. Repeated part ids in the request
// collapse to a single series each.
func buildSeries(req CreateRequest, occurrences []Occurrence, status Status, pricePerOccurrence *float64) [][]*Booking {
	targets := make([]*string, 0, len(req.PartIDs))
	if len(req.PartIDs) == 0 {
		targets = append(targets, nil)
	} else {
		seen := make(map[string]struct{}, len(req.PartIDs))
		for _, id := range req.PartIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			partID := id
			targets = append(targets, &partID)
		}
	}

	recurring := req.Recurrence != nil
	var recType *RecurrenceType
	var recEnd *time.Time
	if recurring {
		t := req.Recurrence.Type
		e := req.Recurrence.EndDate
		recType, recEnd = &t, &e
	}

	var totalPrice *float64
	if pricePerOccurrence != nil {
		total := *pricePerOccurrence * float64(len(occurrences))
		totalPrice = &total
	}

	series := make([][]*Booking, 0, len(targets))
	for _, target := range targets {
		bookings := make([]*Booking, 0, len(occurrences))
		for i, occ := range occurrences {
			b := &Booking{
				ResourceID:        req.ResourceID,
				PartID:            target,
				UserID:            req.UserID,
				Title:             req.Title,
				StartTime:         occ.Start,
				EndTime:           occ.End,
				Status:            status,
				IsRecurring:       recurring,
				RecurrenceType:    recType,
				RecurrenceEndDate: recEnd,
			}
			if i == 0 {
				b.TotalPrice = totalPrice
			}
			bookings = append(bookings, b)
		}
		series = append(series, bookings)
	}
	return series
}

// conflictError builds the 409 naming the clashing date and part.
func conflictError(conflict *Booking) error {
	target := "the whole facility"
	if conflict.PartName != nil {
		target = fmt.Sprintf("part %q", *conflict.PartName)
	}
	return apperror.Newf(http.StatusConflict,
		"time slot on %s conflicts with an existing booking for %s",
		conflict.StartTime.Format("2006-01-02"), target,
	)
}

func (s *service) notifyCreated(ctx context.Context, userID, resourceName string, created []*Booking) {
	u, err := s.userService.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("skipping booking notification, user lookup failed",
			slog.String("user_id", userID), slog.Any("error", err))
		return
	}

	first := created[0]
	name := u.Email
	if u.DisplayName != nil {
		name = *u.DisplayName
	}
	s.dispatcher.Dispatch(notify.Event{
		Type:         notify.EventBookingCreated,
		To:           u.Email,
		UserName:     name,
		ResourceName: resourceName,
		Title:        first.Title,
		StartTime:    first.StartTime,
		EndTime:      first.EndTime,
		Count:        len(created),
		Pending:      first.Status == StatusPending,
	})
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Cancel(ctx context.Context, id, requesterID string, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && b.UserID != requesterID {
		return nil, ErrPermissionDenied
	}
	if !b.Status.Active() {
		return b, nil // already terminal, idempotent
	}

	b.Status = StatusCancelled
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Decide(ctx context.Context, id string, approve bool, isAdmin bool) (*Booking, error) {
	if !isAdmin {
		return nil, ErrPermissionDenied
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, ErrNotPending
	}

	if approve {
		b.Status = StatusApproved
	} else {
		b.Status = StatusRejected
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Reschedule(ctx context.Context, id string, req RescheduleRequest, requesterID string, isAdmin bool) (*Booking, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}
	if req.StartTime.Before(s.now()) {
		return nil, ErrStartTimePast
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && b.UserID != requesterID {
		return nil, ErrPermissionDenied
	}
	if !b.Status.Active() {
		return nil, ErrInvalidStatus
	}

	res, err := s.resService.GetByID(ctx, b.ResourceID)
	if err != nil {
		return nil, err
	}
	duration := req.EndTime.Sub(req.StartTime)
	if min := res.MinDuration(); min != nil && duration < *min {
		return nil, ErrTooShort
	}
	if max := res.MaxDuration(); max != nil && duration > *max {
		return nil, ErrTooLong
	}

	// Recompute the blocking set for the booking's own part before the
	// overlap re-check, excluding the booking itself.
	var blockingIDs []string
	if b.PartID != nil {
		arena, err := s.partService.ListByResource(ctx, b.ResourceID)
		if err != nil {
			return nil, err
		}
		blocking, err := part.BlockingSet(arena, []string{*b.PartID})
		if err != nil {
			return nil, ErrPartNotFound
		}
		for id := range blocking {
			blockingIDs = append(blockingIDs, id)
		}
	}

	candidates, err := s.repo.FindActiveOverlapping(ctx, b.ResourceID, req.StartTime, req.EndTime, blockingIDs, b.ID)
	if err != nil {
		return nil, err
	}
	blocking := make(map[string]struct{}, len(blockingIDs))
	for _, pid := range blockingIDs {
		blocking[pid] = struct{}{}
	}
	occ := Occurrence{Start: req.StartTime, End: req.EndTime}
	if conflict := FirstConflict(candidates, occ, blocking); conflict != nil {
		return nil, conflictError(conflict)
	}

	b.StartTime = req.StartTime
	b.EndTime = req.EndTime
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id, requesterID string, isAdmin bool) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && b.UserID != requesterID {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) PurgePastTerminal(ctx context.Context) (int64, error) {
	purged, err := s.repo.PurgePastTerminal(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("purged past terminal bookings", slog.Int64("count", purged))
	}
	return purged, nil
}
