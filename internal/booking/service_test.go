package booking

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyggen1981/arena-booking-sub002/internal/license"
	"github.com/Nyggen1981/arena-booking-sub002/internal/notify"
	"github.com/Nyggen1981/arena-booking-sub002/internal/part"
	"github.com/Nyggen1981/arena-booking-sub002/internal/resource"
	"github.com/Nyggen1981/arena-booking-sub002/internal/user"
)

// ==== Fakes ====

type fakeRepo struct {
	bookings map[string]*Booking

	lastPlan    *SeriesPlan
	conflict    *Booking
	overlapping []*Booking
	updated     []*Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[string]*Booking)}
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) Update(ctx context.Context, b *Booking) error {
	r.updated = append(r.updated, b)
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeRepo) CreateSeries(ctx context.Context, plan SeriesPlan) (*Booking, error) {
	r.lastPlan = &plan
	if r.conflict != nil {
		return r.conflict, nil
	}
	for _, series := range plan.Series {
		for _, b := range series {
			r.bookings[b.ID] = b
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindActiveOverlapping(ctx context.Context, resourceID string, start, end time.Time, partIDs []string, excludeID string) ([]*Booking, error) {
	return r.overlapping, nil
}

func (r *fakeRepo) PurgePastTerminal(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeResources struct {
	res *resource.Resource
}

func (f *fakeResources) Create(ctx context.Context, req resource.CreateRequest) (*resource.Resource, error) {
	return nil, nil
}

func (f *fakeResources) GetByID(ctx context.Context, id string) (*resource.Resource, error) {
	if f.res == nil || f.res.ID != id {
		return nil, resource.ErrNotFound
	}
	return f.res, nil
}

func (f *fakeResources) List(ctx context.Context, filter resource.Filter) ([]*resource.Resource, int, error) {
	return nil, 0, nil
}

func (f *fakeResources) Update(ctx context.Context, id string, req resource.UpdateRequest) (*resource.Resource, error) {
	return nil, nil
}

func (f *fakeResources) Delete(ctx context.Context, id string) error { return nil }

type fakeParts struct {
	parts []*part.Part
}

func (f *fakeParts) Create(ctx context.Context, req part.CreateRequest) (*part.Part, error) {
	return nil, nil
}

func (f *fakeParts) GetByID(ctx context.Context, id string) (*part.Part, error) {
	return nil, part.ErrNotFound
}

func (f *fakeParts) ListByResource(ctx context.Context, resourceID string) ([]*part.Part, error) {
	return f.parts, nil
}

func (f *fakeParts) Update(ctx context.Context, id string, req part.UpdateRequest) (*part.Part, error) {
	return nil, nil
}

func (f *fakeParts) Delete(ctx context.Context, id string) error { return nil }

type fakeUsers struct {
	u *user.User
}

func (f *fakeUsers) Register(ctx context.Context, email, password, displayName string) (*user.User, error) {
	return nil, nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*user.User, error) {
	return nil, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*user.User, error) {
	if f.u == nil {
		return nil, user.ErrNotFound
	}
	return f.u, nil
}

func (f *fakeUsers) List(ctx context.Context, filter user.UserFilter) ([]*user.User, int, error) {
	return nil, 0, nil
}

func (f *fakeUsers) Update(ctx context.Context, id string, req user.UpdateUserRequest) (*user.User, error) {
	return nil, nil
}

func (f *fakeUsers) Delete(ctx context.Context, id string) error { return nil }

type fakeOracle struct {
	verdict license.Verdict
	lastReq license.CheckRequest
}

func (f *fakeOracle) Check(ctx context.Context, req license.CheckRequest) (license.Verdict, error) {
	f.lastReq = req
	return f.verdict, nil
}

type fakeDispatcher struct {
	events []notify.Event
}

func (f *fakeDispatcher) Dispatch(e notify.Event) {
	f.events = append(f.events, e)
}

// ==== Fixture ====

type fixture struct {
	svc        *service
	repo       *fakeRepo
	oracle     *fakeOracle
	dispatcher *fakeDispatcher
	now        time.Time
}

func newFixture(res *resource.Resource, parts []*part.Part) *fixture {
	repo := newFakeRepo()
	oracle := &fakeOracle{verdict: license.Verdict{Allowed: true}}
	dispatcher := &fakeDispatcher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	email := "booker@example.com"
	users := &fakeUsers{u: &user.User{ID: "user-1", Email: email}}

	svc := NewService(repo, &fakeResources{res: res}, &fakeParts{parts: parts}, users, oracle, dispatcher, logger).(*service)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &fixture{svc: svc, repo: repo, oracle: oracle, dispatcher: dispatcher, now: now}
}

func simpleResource() *resource.Resource {
	return &resource.Resource{
		ID:                "res-1",
		Name:              "Main Hall",
		MinBookingMinutes: 30,
		MaxBookingMinutes: 240,
	}
}

func validRequest() CreateRequest {
	return CreateRequest{
		UserID:     "user-1",
		ResourceID: "res-1",
		Title:      "Practice",
		StartTime:  time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
}

// ==== Create ====

func TestCreateBookingValidation(t *testing.T) {
	t.Run("title is required", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		req := validRequest()
		req.Title = ""

		_, err := f.svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrTitleRequired)
	})

	t.Run("end must be after start", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		req := validRequest()
		req.EndTime = req.StartTime

		_, err := f.svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("start must not be in the past", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		req := validRequest()
		req.StartTime = f.now.Add(-time.Hour)
		req.EndTime = f.now.Add(time.Hour)

		_, err := f.svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrStartTimePast)
	})

	t.Run("unknown recurrence type is rejected", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		req := validRequest()
		req.Recurrence = &Recurrence{Type: "daily", EndDate: req.StartTime.AddDate(0, 0, 30)}

		_, err := f.svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidRecurrence)
	})
}

func TestCreateBookingDurationGating(t *testing.T) {
	t.Run("shorter than minimum", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		req := validRequest()
		req.EndTime = req.StartTime.Add(15 * time.Minute)

		_, err := f.svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrTooShort)
	})

	t.Run("longer than maximum", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		req := validRequest()
		req.EndTime = req.StartTime.Add(5 * time.Hour)

		_, err := f.svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrTooLong)
	})

	t.Run("sentinel values disable the limits", func(t *testing.T) {
		res := simpleResource()
		res.MinBookingMinutes = resource.UnlimitedMinMinutes
		res.MaxBookingMinutes = resource.UnlimitedMaxMinutes
		f := newFixture(res, nil)

		req := validRequest()
		req.EndTime = req.StartTime.Add(12 * time.Hour)

		created, err := f.svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Len(t, created, 1)
	})

	t.Run("advance window checks the latest occurrence", func(t *testing.T) {
		res := simpleResource()
		res.AdvanceBookingDays = 14
		f := newFixture(res, nil)

		req := validRequest()
		req.Recurrence = &Recurrence{
			Type:    RecurrenceWeekly,
			EndDate: req.StartTime.AddDate(0, 0, 28),
		}

		_, err := f.svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrTooFarAhead)
	})
}

func TestCreateBookingSeries(t *testing.T) {
	t.Run("single whole-resource booking", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)

		created, err := f.svc.Create(context.Background(), validRequest())
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Nil(t, created[0].PartID)
		assert.Equal(t, StatusApproved, created[0].Status)
		assert.Empty(t, f.repo.lastPlan.BlockingPartIDs)
	})

	t.Run("approval-required resource creates pending bookings", func(t *testing.T) {
		res := simpleResource()
		res.RequiresApproval = true
		f := newFixture(res, nil)

		created, err := f.svc.Create(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, StatusPending, created[0].Status)
	})

	t.Run("recurring request creates one booking per occurrence", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)

		req := validRequest()
		req.Recurrence = &Recurrence{
			Type:    RecurrenceWeekly,
			EndDate: req.StartTime.AddDate(0, 0, 21),
		}

		created, err := f.svc.Create(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, created, 4)
		for _, b := range created {
			assert.True(t, b.IsRecurring)
			require.NotNil(t, b.RecurrenceType)
			assert.Equal(t, RecurrenceWeekly, *b.RecurrenceType)
		}
	})

	t.Run("blocking set includes parent and children of requested part", func(t *testing.T) {
		parts := []*part.Part{
			{ID: "left", ResourceID: "res-1", Name: "Left Half"},
			{ID: "left-a", ResourceID: "res-1", Name: "Quarter A", ParentID: strPtr("left")},
			{ID: "left-b", ResourceID: "res-1", Name: "Quarter B", ParentID: strPtr("left")},
			{ID: "right", ResourceID: "res-1", Name: "Right Half"},
		}
		f := newFixture(simpleResource(), parts)

		req := validRequest()
		req.PartIDs = []string{"left"}

		created, err := f.svc.Create(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, created, 1)
		require.NotNil(t, created[0].PartID)
		assert.Equal(t, "left", *created[0].PartID)

		assert.ElementsMatch(t, []string{"left", "left-a", "left-b"}, f.repo.lastPlan.BlockingPartIDs)
	})

	t.Run("repeated part ids collapse to a single series", func(t *testing.T) {
		parts := []*part.Part{
			{ID: "left", ResourceID: "res-1", Name: "Left Half"},
		}
		f := newFixture(simpleResource(), parts)

		req := validRequest()
		req.PartIDs = []string{"left", "left", "left"}

		created, err := f.svc.Create(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, created, 1)
		require.NotNil(t, created[0].PartID)
		assert.Equal(t, "left", *created[0].PartID)
		require.Len(t, f.repo.lastPlan.Series, 1)
	})

	t.Run("unknown part id is rejected before any write", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)

		req := validRequest()
		req.PartIDs = []string{"ghost"}

		_, err := f.svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrPartNotFound)
		assert.Nil(t, f.repo.lastPlan)
	})

	t.Run("conflict rejects the whole batch", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		f.repo.conflict = &Booking{
			ID:        "other",
			StartTime: time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC),
			Status:    StatusApproved,
			PartName:  strPtr("Left Half"),
		}

		req := validRequest()
		req.Recurrence = &Recurrence{
			Type:    RecurrenceWeekly,
			EndDate: req.StartTime.AddDate(0, 0, 21),
		}

		_, err := f.svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2026-03-02")
		assert.Contains(t, err.Error(), "Left Half")
		assert.Empty(t, f.repo.bookings, "no booking may be written on conflict")
		assert.Empty(t, f.dispatcher.events)
	})
}

func TestCreateBookingLicense(t *testing.T) {
	t.Run("denied verdict blocks the booking", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		f.oracle.verdict = license.Verdict{Allowed: false, Reason: "quota exceeded"}

		_, err := f.svc.Create(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrLicenseDenied)
		assert.Nil(t, f.repo.lastPlan)
	})

	t.Run("quoted price lands on the series root only", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		price := 25.0
		f.oracle.verdict = license.Verdict{Allowed: true, PricePerOccurrence: &price}

		req := validRequest()
		req.Recurrence = &Recurrence{
			Type:    RecurrenceWeekly,
			EndDate: req.StartTime.AddDate(0, 0, 7),
		}

		created, err := f.svc.Create(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, created, 2)

		require.NotNil(t, created[0].TotalPrice)
		assert.InDelta(t, 50.0, *created[0].TotalPrice, 0.001)
		assert.Nil(t, created[1].TotalPrice)
	})

	t.Run("oracle sees duration and occurrence count", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)

		_, err := f.svc.Create(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, 120, f.oracle.lastReq.Minutes)
		assert.Equal(t, 1, f.oracle.lastReq.Occurrences)
	})
}

func TestCreateBookingNotification(t *testing.T) {
	f := newFixture(simpleResource(), nil)

	created, err := f.svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, created, 1)

	require.Len(t, f.dispatcher.events, 1)
	e := f.dispatcher.events[0]
	assert.Equal(t, notify.EventBookingCreated, e.Type)
	assert.Equal(t, "booker@example.com", e.To)
	assert.Equal(t, "Main Hall", e.ResourceName)
	assert.Equal(t, 1, e.Count)
	assert.False(t, e.Pending)
}

// ==== Lifecycle ====

func seedBooking(f *fixture, status Status) *Booking {
	b := &Booking{
		ID:         "bk-1",
		ResourceID: "res-1",
		UserID:     "user-1",
		Title:      "Practice",
		StartTime:  f.now.Add(24 * time.Hour),
		EndTime:    f.now.Add(26 * time.Hour),
		Status:     status,
	}
	f.repo.bookings[b.ID] = b
	return b
}

func TestCancelBooking(t *testing.T) {
	t.Run("owner can cancel", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		seedBooking(f, StatusApproved)

		got, err := f.svc.Cancel(context.Background(), "bk-1", "user-1", false)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	})

	t.Run("non-owner cannot cancel", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		seedBooking(f, StatusApproved)

		_, err := f.svc.Cancel(context.Background(), "bk-1", "intruder", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("admin can cancel any booking", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		seedBooking(f, StatusApproved)

		got, err := f.svc.Cancel(context.Background(), "bk-1", "admin", true)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	})

	t.Run("cancelling a terminal booking is idempotent", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		seedBooking(f, StatusCancelled)

		got, err := f.svc.Cancel(context.Background(), "bk-1", "user-1", false)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
		assert.Empty(t, f.repo.updated, "no write for an already terminal booking")
	})
}

func TestDecideBooking(t *testing.T) {
	t.Run("approve", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		seedBooking(f, StatusPending)

		got, err := f.svc.Decide(context.Background(), "bk-1", true, true)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)
	})

	t.Run("reject", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		seedBooking(f, StatusPending)

		got, err := f.svc.Decide(context.Background(), "bk-1", false, true)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, got.Status)
	})

	t.Run("only pending bookings can be decided", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		seedBooking(f, StatusApproved)

		_, err := f.svc.Decide(context.Background(), "bk-1", true, true)
		assert.ErrorIs(t, err, ErrNotPending)
	})

	t.Run("non-admin cannot decide", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		seedBooking(f, StatusPending)

		_, err := f.svc.Decide(context.Background(), "bk-1", true, false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestRescheduleBooking(t *testing.T) {
	t.Run("moves the booking when the new slot is free", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		seedBooking(f, StatusApproved)

		req := RescheduleRequest{
			StartTime: f.now.Add(48 * time.Hour),
			EndTime:   f.now.Add(50 * time.Hour),
		}
		got, err := f.svc.Reschedule(context.Background(), "bk-1", req, "user-1", false)
		require.NoError(t, err)
		assert.Equal(t, req.StartTime, got.StartTime)
		assert.Equal(t, req.EndTime, got.EndTime)
	})

	t.Run("rejects a slot taken by another booking", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		seedBooking(f, StatusApproved)

		newStart := f.now.Add(48 * time.Hour)
		f.repo.overlapping = []*Booking{{
			ID:        "other",
			StartTime: newStart,
			EndTime:   newStart.Add(3 * time.Hour),
			Status:    StatusApproved,
		}}

		req := RescheduleRequest{StartTime: newStart, EndTime: newStart.Add(2 * time.Hour)}
		_, err := f.svc.Reschedule(context.Background(), "bk-1", req, "user-1", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "conflicts with an existing booking")
	})

	t.Run("terminal bookings cannot be rescheduled", func(t *testing.T) {
		f := newFixture(simpleResource(), nil)
		seedBooking(f, StatusCancelled)

		req := RescheduleRequest{
			StartTime: f.now.Add(48 * time.Hour),
			EndTime:   f.now.Add(50 * time.Hour),
		}
		_, err := f.svc.Reschedule(context.Background(), "bk-1", req, "user-1", false)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}
