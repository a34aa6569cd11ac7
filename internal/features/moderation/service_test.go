package moderation

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

type fakeStore struct {
	reports map[primitive.ObjectID]*Report // keyed by messageId
	log     []logEntry
	logErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{reports: map[primitive.ObjectID]*Report{}}
}

func (f *fakeStore) Upsert(_ context.Context, userID, restaurantID, messageID primitive.ObjectID, now time.Time) error {
	if existing, ok := f.reports[messageID]; ok {
		existing.ReportCount++
		return nil
	}
	f.reports[messageID] = &Report{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		RestaurantID:    restaurantID,
		MessageID:       messageID,
		FirstReportedAt: now,
		ReportCount:     1,
	}
	return nil
}

func (f *fakeStore) Queue(_ context.Context, limit, offset int) ([]QueueEntry, error) {
	var all []*Report
	for _, r := range f.reports {
		all = append(all, r)
	}
	// oldest first
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[j].FirstReportedAt.Before(all[i].FirstReportedAt) {
				all[i], all[j] = all[j], all[i]
			}
		}
	}
	if offset > len(all) {
		offset = len(all)
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	entries := make([]QueueEntry, 0, len(all))
	for _, r := range all {
		entries = append(entries, QueueEntry{
			ID:              r.ID,
			FirstReportedAt: r.FirstReportedAt,
			ReportCount:     r.ReportCount,
		})
	}
	return entries, nil
}

func (f *fakeStore) GetByID(_ context.Context, id primitive.ObjectID) (*Report, error) {
	for _, r := range f.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetByMessageID(_ context.Context, messageID primitive.ObjectID) (*Report, error) {
	if r, ok := f.reports[messageID]; ok {
		return r, nil
	}
	return nil, nil
}

func (f *fakeStore) Delete(_ context.Context, id primitive.ObjectID) error {
	for mid, r := range f.reports {
		if r.ID == id {
			delete(f.reports, mid)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) DeleteAllForMessages(_ context.Context, messageIDs []primitive.ObjectID) error {
	for _, mid := range messageIDs {
		delete(f.reports, mid)
	}
	return nil
}

func (f *fakeStore) AppendLog(_ context.Context, entry logEntry) error {
	if f.logErr != nil {
		return f.logErr
	}
	f.log = append(f.log, entry)
	return nil
}

type fakeDeleter struct {
	deleted []primitive.ObjectID
	err     error
}

func (f *fakeDeleter) Delete(_ context.Context, messageID primitive.ObjectID) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

func TestFile_AggregatesPerMessage(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeDeleter{})

	messageID := primitive.NewObjectID()
	restaurantID := primitive.NewObjectID()
	reporter1 := primitive.NewObjectID()
	reporter2 := primitive.NewObjectID()

	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }
	require.NoError(t, svc.File(context.Background(), reporter1, restaurantID, messageID))

	svc.now = func() time.Time { return t0.Add(time.Hour) }
	require.NoError(t, svc.File(context.Background(), reporter2, restaurantID, messageID))

	// Exactly one document with count 2; the first reporter and timestamp
	// stay on record.
	require.Len(t, store.reports, 1)
	report, err := svc.GetByMessageID(context.Background(), messageID)
	require.NoError(t, err)
	require.Equal(t, 2, report.ReportCount)
	require.Equal(t, reporter1, report.UserID)
	require.True(t, report.FirstReportedAt.Equal(t0))
}

func TestQueue_OldestFirstWithPagination(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeDeleter{})

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var messageIDs []primitive.ObjectID
	for i := 0; i < 3; i++ {
		mid := primitive.NewObjectID()
		messageIDs = append(messageIDs, mid)
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		require.NoError(t, svc.File(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), mid))
	}

	entries, more, err := svc.Queue(context.Background(), pagination.Page{Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.True(t, more)
	require.True(t, entries[0].FirstReportedAt.Before(entries[1].FirstReportedAt))

	entries, more, err = svc.Queue(context.Background(), pagination.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.False(t, more)
}

func TestResolve_NotFound(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeDeleter{})
	err := svc.Resolve(context.Background(), primitive.NewObjectID(), true, primitive.NewObjectID())
	require.ErrorIs(t, err, apierr.ErrNotFound)
}

func TestResolve_RejectedDeletesMessageAndReport(t *testing.T) {
	store := newFakeStore()
	deleter := &fakeDeleter{}
	svc := NewService(store, deleter)

	messageID := primitive.NewObjectID()
	require.NoError(t, svc.File(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), messageID))
	report, err := svc.GetByMessageID(context.Background(), messageID)
	require.NoError(t, err)

	adminID := primitive.NewObjectID()
	require.NoError(t, svc.Resolve(context.Background(), report.ID, true, adminID))

	require.Equal(t, []primitive.ObjectID{messageID}, deleter.deleted)
	_, err = svc.GetByID(context.Background(), report.ID)
	require.ErrorIs(t, err, apierr.ErrNotFound)

	require.Len(t, store.log, 1)
	require.True(t, store.log[0].Rejected)
	require.Equal(t, adminID, store.log[0].AdminID)
}

func TestResolve_DismissedKeepsMessage(t *testing.T) {
	store := newFakeStore()
	deleter := &fakeDeleter{}
	svc := NewService(store, deleter)

	messageID := primitive.NewObjectID()
	require.NoError(t, svc.File(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), messageID))
	report, err := svc.GetByMessageID(context.Background(), messageID)
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(context.Background(), report.ID, false, primitive.NewObjectID()))

	require.Empty(t, deleter.deleted)
	_, err = svc.GetByID(context.Background(), report.ID)
	require.ErrorIs(t, err, apierr.ErrNotFound)
}

func TestResolve_MessageDeleteFailureKeepsReport(t *testing.T) {
	store := newFakeStore()
	deleter := &fakeDeleter{err: errors.New("down")}
	svc := NewService(store, deleter)

	messageID := primitive.NewObjectID()
	require.NoError(t, svc.File(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), messageID))
	report, err := svc.GetByMessageID(context.Background(), messageID)
	require.NoError(t, err)

	err = svc.Resolve(context.Background(), report.ID, true, primitive.NewObjectID())
	require.ErrorIs(t, err, apierr.ErrInternal)

	// The report stays open so the admin can retry.
	got, err := svc.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	require.Equal(t, report.ID, got.ID)
}

func TestResolve_LogFailureDoesNotFailResolve(t *testing.T) {
	store := newFakeStore()
	store.logErr = errors.New("log down")
	svc := NewService(store, &fakeDeleter{})

	messageID := primitive.NewObjectID()
	require.NoError(t, svc.File(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), messageID))
	report, err := svc.GetByMessageID(context.Background(), messageID)
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(context.Background(), report.ID, false, primitive.NewObjectID()))
}
