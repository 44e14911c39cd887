package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	resources map[string]*Resource
}

func newFakeRepo(resources ...*Resource) *fakeRepo {
	r := &fakeRepo{resources: make(map[string]*Resource)}
	for _, res := range resources {
		r.resources[res.ID] = res
	}
	return r
}

func (r *fakeRepo) Create(ctx context.Context, res *Resource) error {
	res.ID = "res-1"
	r.resources[res.ID] = res
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Resource, error) {
	res, ok := r.resources[id]
	if !ok {
		return nil, ErrNotFound
	}
	return res, nil
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) Update(ctx context.Context, res *Resource) error {
	if _, ok := r.resources[res.ID]; !ok {
		return ErrNotFound
	}
	r.resources[res.ID] = res
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.resources[id]; !ok {
		return ErrNotFound
	}
	delete(r.resources, id)
	return nil
}

func intPtr(v int) *int { return &v }

func TestCreateResource(t *testing.T) {
	t.Run("name is required", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		_, err := svc.Create(context.Background(), CreateRequest{Name: "  "})
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("omitted limits default to the unlimited sentinels", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		res, err := svc.Create(context.Background(), CreateRequest{Name: "Main Hall"})
		require.NoError(t, err)
		assert.Equal(t, UnlimitedMinMinutes, res.MinBookingMinutes)
		assert.Equal(t, UnlimitedMaxMinutes, res.MaxBookingMinutes)
	})

	t.Run("min above max is rejected", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		_, err := svc.Create(context.Background(), CreateRequest{
			Name:              "Main Hall",
			MinBookingMinutes: intPtr(120),
			MaxBookingMinutes: intPtr(60),
		})
		assert.ErrorIs(t, err, ErrInvalidDurations)
	})
}

func TestUpdateResource(t *testing.T) {
	t.Run("tightening min above existing max is rejected", func(t *testing.T) {
		repo := newFakeRepo(&Resource{
			ID:                "res-1",
			Name:              "Main Hall",
			MinBookingMinutes: 30,
			MaxBookingMinutes: 60,
		})
		svc := NewService(repo)

		_, err := svc.Update(context.Background(), "res-1", UpdateRequest{MinBookingMinutes: intPtr(90)})
		assert.ErrorIs(t, err, ErrInvalidDurations)
	})
}

func TestDurationSentinels(t *testing.T) {
	t.Run("sentinel values expose nil limits", func(t *testing.T) {
		res := &Resource{
			MinBookingMinutes: UnlimitedMinMinutes,
			MaxBookingMinutes: UnlimitedMaxMinutes,
		}
		assert.Nil(t, res.MinDuration())
		assert.Nil(t, res.MaxDuration())
	})

	t.Run("real values convert to durations", func(t *testing.T) {
		res := &Resource{
			MinBookingMinutes: 30,
			MaxBookingMinutes: 240,
		}
		require.NotNil(t, res.MinDuration())
		require.NotNil(t, res.MaxDuration())
		assert.Equal(t, 30*time.Minute, *res.MinDuration())
		assert.Equal(t, 4*time.Hour, *res.MaxDuration())
	})
}
