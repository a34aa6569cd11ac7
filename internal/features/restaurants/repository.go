package restaurants

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository struct {
	restaurants *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	restaurants := db.Collection("restaurants")

	_, _ = restaurants.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}},
	})

	return &Repository{restaurants: restaurants}
}

func (r *Repository) Create(ctx context.Context, restaurant *Restaurant) error {
	restaurant.CreatedAt = time.Now()
	restaurant.UpdatedAt = time.Now()

	result, err := r.restaurants.InsertOne(ctx, restaurant)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		restaurant.ID = oid
	}
	return nil
}

// GetByID returns the restaurant or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*Restaurant, error) {
	var restaurant Restaurant
	err := r.restaurants.FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &restaurant, nil
}

// Exists answers the message store's validation check without decoding the
// document.
func (r *Repository) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := r.restaurants.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	return count > 0, err
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]Restaurant, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.restaurants.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []Restaurant
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]Restaurant, error) {
	cursor, err := r.restaurants.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []Restaurant
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	updates["updatedAt"] = time.Now()

	result, err := r.restaurants.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.restaurants.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
