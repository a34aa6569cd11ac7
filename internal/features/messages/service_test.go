package messages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/platewise/internal/pkg/pagination"
	apierr "github.com/platewise/platewise/pkg/errors"
)

type pairKey struct {
	user, restaurant primitive.ObjectID
}

// fakeStore mimics the repository's window semantics in memory.
type fakeStore struct {
	msgs      []Message
	windows   map[pairKey]time.Time
	insertErr error
	released  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{windows: map[pairKey]time.Time{}}
}

func (f *fakeStore) Insert(_ context.Context, msg *Message) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	msg.ID = primitive.NewObjectID()
	f.msgs = append(f.msgs, *msg)
	return nil
}

func (f *fakeStore) ClaimPostWindow(_ context.Context, userID, restaurantID primitive.ObjectID, now, cutoff time.Time) (*time.Time, error) {
	k := pairKey{userID, restaurantID}
	if last, ok := f.windows[k]; ok {
		if last.After(cutoff) {
			return nil, apierr.ErrRateLimited
		}
		f.windows[k] = now
		prev := last
		return &prev, nil
	}
	f.windows[k] = now
	return nil, nil
}

func (f *fakeStore) ReleasePostWindow(_ context.Context, userID, restaurantID primitive.ObjectID, previous *time.Time) error {
	k := pairKey{userID, restaurantID}
	f.released++
	if previous == nil {
		delete(f.windows, k)
		return nil
	}
	f.windows[k] = *previous
	return nil
}

func (f *fakeStore) ListForRestaurant(_ context.Context, restaurantID primitive.ObjectID, limit, offset int) ([]RestaurantMessage, error) {
	var rows []RestaurantMessage
	for _, m := range f.msgs {
		if m.RestaurantID == restaurantID {
			rows = append(rows, RestaurantMessage{ID: m.ID, Text: m.Text, Rating: m.Rating, CreatedAt: m.CreatedAt})
		}
	}
	if offset > len(rows) {
		offset = len(rows)
	}
	rows = rows[offset:]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeStore) ListForUser(_ context.Context, userID primitive.ObjectID, limit, offset int) ([]UserMessage, error) {
	var rows []UserMessage
	for _, m := range f.msgs {
		if m.UserID == userID {
			rows = append(rows, UserMessage{ID: m.ID, Text: m.Text, Rating: m.Rating, CreatedAt: m.CreatedAt})
		}
	}
	if offset > len(rows) {
		offset = len(rows)
	}
	rows = rows[offset:]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeStore) GetByID(_ context.Context, id primitive.ObjectID) (*Message, error) {
	for _, m := range f.msgs {
		if m.ID == id {
			msg := m
			return &msg, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, m := range f.msgs {
		if m.ID == id {
			f.msgs = append(f.msgs[:i], f.msgs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) DeleteAllForRestaurant(_ context.Context, restaurantID primitive.ObjectID) error {
	var kept []Message
	for _, m := range f.msgs {
		if m.RestaurantID != restaurantID {
			kept = append(kept, m)
		}
	}
	f.msgs = kept
	return nil
}

func (f *fakeStore) DeleteAllForUser(_ context.Context, userID primitive.ObjectID) error {
	var kept []Message
	for _, m := range f.msgs {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	f.msgs = kept
	return nil
}

func (f *fakeStore) MessageIDsForRestaurant(_ context.Context, restaurantID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, m := range f.msgs {
		if m.RestaurantID == restaurantID {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

func (f *fakeStore) LastMessageTime(_ context.Context, userID, restaurantID primitive.ObjectID) (*time.Time, error) {
	var latest *time.Time
	for _, m := range f.msgs {
		if m.UserID == userID && m.RestaurantID == restaurantID {
			if latest == nil || m.CreatedAt.After(*latest) {
				t := m.CreatedAt
				latest = &t
			}
		}
	}
	return latest, nil
}

type fakeRestaurants struct {
	existing map[primitive.ObjectID]bool
}

func (f *fakeRestaurants) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	return f.existing[id], nil
}

func newTestService(store *fakeStore, restaurantIDs ...primitive.ObjectID) *Service {
	existing := map[primitive.ObjectID]bool{}
	for _, id := range restaurantIDs {
		existing[id] = true
	}
	return NewService(store, &fakeRestaurants{existing: existing})
}

func TestPost_Validation(t *testing.T) {
	store := newFakeStore()
	restaurant := primitive.NewObjectID()
	svc := newTestService(store, restaurant)
	user := primitive.NewObjectID()

	err := svc.Post(context.Background(), user, restaurant, "   ", 3)
	require.ErrorIs(t, err, apierr.ErrValidation)

	err = svc.Post(context.Background(), user, restaurant, "fine", 0)
	require.ErrorIs(t, err, apierr.ErrValidation)

	err = svc.Post(context.Background(), user, restaurant, "fine", 6)
	require.ErrorIs(t, err, apierr.ErrValidation)

	// Unknown restaurant is a validation failure, not a 404.
	err = svc.Post(context.Background(), user, primitive.NewObjectID(), "fine", 3)
	require.ErrorIs(t, err, apierr.ErrValidation)

	require.Empty(t, store.msgs)
}

func TestPost_RateLimit(t *testing.T) {
	store := newFakeStore()
	restaurant := primitive.NewObjectID()
	svc := newTestService(store, restaurant)
	user := primitive.NewObjectID()

	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }
	require.NoError(t, svc.Post(context.Background(), user, restaurant, "Great food", 5))

	// One hour later: blocked.
	svc.now = func() time.Time { return t0.Add(time.Hour) }
	err := svc.Post(context.Background(), user, restaurant, "still great", 5)
	require.ErrorIs(t, err, apierr.ErrRateLimited)

	// 23h59m: still blocked.
	svc.now = func() time.Time { return t0.Add(24*time.Hour - time.Minute) }
	err = svc.Post(context.Background(), user, restaurant, "again", 4)
	require.ErrorIs(t, err, apierr.ErrRateLimited)

	// Exactly 24h: allowed.
	svc.now = func() time.Time { return t0.Add(24 * time.Hour) }
	require.NoError(t, svc.Post(context.Background(), user, restaurant, "back again", 4))
	require.Len(t, store.msgs, 2)
}

func TestPost_DifferentRestaurantNotLimited(t *testing.T) {
	store := newFakeStore()
	r1 := primitive.NewObjectID()
	r2 := primitive.NewObjectID()
	svc := newTestService(store, r1, r2)
	user := primitive.NewObjectID()

	require.NoError(t, svc.Post(context.Background(), user, r1, "one", 4))
	require.NoError(t, svc.Post(context.Background(), user, r2, "two", 4))
	require.Len(t, store.msgs, 2)
}

func TestPost_InsertFailureReleasesWindow(t *testing.T) {
	store := newFakeStore()
	restaurant := primitive.NewObjectID()
	svc := newTestService(store, restaurant)
	user := primitive.NewObjectID()

	store.insertErr = errors.New("write failed")
	err := svc.Post(context.Background(), user, restaurant, "Great food", 5)
	require.ErrorIs(t, err, apierr.ErrInternal)
	require.Equal(t, 1, store.released)

	// The window was rolled back, so a retry succeeds.
	store.insertErr = nil
	require.NoError(t, svc.Post(context.Background(), user, restaurant, "Great food", 5))
}

func TestListForRestaurant_Pagination(t *testing.T) {
	store := newFakeStore()
	restaurant := primitive.NewObjectID()
	svc := newTestService(store, restaurant)

	for i := 0; i < 3; i++ {
		store.msgs = append(store.msgs, Message{
			ID:           primitive.NewObjectID(),
			UserID:       primitive.NewObjectID(),
			RestaurantID: restaurant,
			Text:         "msg",
			Rating:       4,
			CreatedAt:    time.Now(),
		})
	}

	// Three rows, limit two: full page plus a more flag.
	rows, more, err := svc.ListForRestaurant(context.Background(), restaurant, pagination.Page{Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.True(t, more)

	// Exactly two rows left at offset 1: no more pages.
	rows, more, err = svc.ListForRestaurant(context.Background(), restaurant, pagination.Page{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.False(t, more)
}

func TestLastMessageTime(t *testing.T) {
	store := newFakeStore()
	restaurant := primitive.NewObjectID()
	svc := newTestService(store, restaurant)
	user := primitive.NewObjectID()

	got, err := svc.LastMessageTime(context.Background(), user, restaurant)
	require.NoError(t, err)
	require.Nil(t, got)

	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }
	require.NoError(t, svc.Post(context.Background(), user, restaurant, "Great food", 5))

	got, err = svc.LastMessageTime(context.Background(), user, restaurant)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.Equal(t0))
}
