package restaurants

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	byOwner map[primitive.ObjectID][]Restaurant
	deleted []primitive.ObjectID
}

func (f *fakeStore) ListByOwner(_ context.Context, ownerID primitive.ObjectID) ([]Restaurant, error) {
	return f.byOwner[ownerID], nil
}

func (f *fakeStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeMessages struct {
	ids        map[primitive.ObjectID][]primitive.ObjectID
	deletedFor []primitive.ObjectID
}

func (f *fakeMessages) MessageIDsForRestaurant(_ context.Context, restaurantID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return f.ids[restaurantID], nil
}

func (f *fakeMessages) DeleteAllForRestaurant(_ context.Context, restaurantID primitive.ObjectID) error {
	f.deletedFor = append(f.deletedFor, restaurantID)
	return nil
}

type fakeReports struct {
	cascaded [][]primitive.ObjectID
	err      error
}

func (f *fakeReports) CascadeForRestaurant(_ context.Context, messageIDs []primitive.ObjectID) error {
	if f.err != nil {
		return f.err
	}
	f.cascaded = append(f.cascaded, messageIDs)
	return nil
}

type fakeFavorites struct {
	deletedFor []primitive.ObjectID
}

func (f *fakeFavorites) DeleteAllForRestaurant(_ context.Context, restaurantID primitive.ObjectID) error {
	f.deletedFor = append(f.deletedFor, restaurantID)
	return nil
}

func TestDeleteRestaurant_Cascades(t *testing.T) {
	restaurantID := primitive.NewObjectID()
	msgIDs := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	store := &fakeStore{}
	messages := &fakeMessages{ids: map[primitive.ObjectID][]primitive.ObjectID{restaurantID: msgIDs}}
	reports := &fakeReports{}
	favorites := &fakeFavorites{}
	svc := NewService(store, messages, reports, favorites)

	require.NoError(t, svc.DeleteRestaurant(context.Background(), restaurantID))

	// Reports for the restaurant's messages go first, then the messages,
	// favorites and the restaurant itself.
	require.Equal(t, [][]primitive.ObjectID{msgIDs}, reports.cascaded)
	require.Equal(t, []primitive.ObjectID{restaurantID}, messages.deletedFor)
	require.Equal(t, []primitive.ObjectID{restaurantID}, favorites.deletedFor)
	require.Equal(t, []primitive.ObjectID{restaurantID}, store.deleted)
}

func TestDeleteRestaurant_ReportCascadeFailureStopsDelete(t *testing.T) {
	restaurantID := primitive.NewObjectID()

	store := &fakeStore{}
	messages := &fakeMessages{ids: map[primitive.ObjectID][]primitive.ObjectID{
		restaurantID: {primitive.NewObjectID()},
	}}
	reports := &fakeReports{err: errors.New("down")}
	svc := NewService(store, messages, reports, &fakeFavorites{})

	err := svc.DeleteRestaurant(context.Background(), restaurantID)
	require.Error(t, err)
	require.Empty(t, messages.deletedFor)
	require.Empty(t, store.deleted)
}

func TestDeleteAllForOwner(t *testing.T) {
	ownerID := primitive.NewObjectID()
	r1 := Restaurant{ID: primitive.NewObjectID(), OwnerID: ownerID}
	r2 := Restaurant{ID: primitive.NewObjectID(), OwnerID: ownerID}

	store := &fakeStore{byOwner: map[primitive.ObjectID][]Restaurant{ownerID: {r1, r2}}}
	messages := &fakeMessages{ids: map[primitive.ObjectID][]primitive.ObjectID{}}
	svc := NewService(store, messages, &fakeReports{}, &fakeFavorites{})

	require.NoError(t, svc.DeleteAllForOwner(context.Background(), ownerID))
	require.ElementsMatch(t, []primitive.ObjectID{r1.ID, r2.ID}, store.deleted)
}

func TestDeleteAllForOwner_NoRestaurants(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, &fakeMessages{}, &fakeReports{}, &fakeFavorites{})

	require.NoError(t, svc.DeleteAllForOwner(context.Background(), primitive.NewObjectID()))
	require.Empty(t, store.deleted)
}
