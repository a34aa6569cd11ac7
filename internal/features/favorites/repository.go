package favorites

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository struct {
	favorites *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	favorites := db.Collection("favorites")

	_, _ = favorites.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "restaurantId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "restaurantId", Value: 1}},
		},
	})

	return &Repository{favorites: favorites}
}

// Add saves a favorite. Saving twice is an idempotent no-op via the unique
// pair index.
func (r *Repository) Add(ctx context.Context, userID, restaurantID primitive.ObjectID) error {
	_, err := r.favorites.InsertOne(ctx, Favorite{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		RestaurantID: restaurantID,
		CreatedAt:    time.Now(),
	})
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

// Remove is idempotent: removing an absent favorite is not an error.
func (r *Repository) Remove(ctx context.Context, userID, restaurantID primitive.ObjectID) error {
	_, err := r.favorites.DeleteOne(ctx, bson.M{"userId": userID, "restaurantId": restaurantID})
	return err
}

// ListForUser returns the diner's favorites joined with the restaurant.
func (r *Repository) ListForUser(ctx context.Context, userID primitive.ObjectID, limit, offset int) ([]FavoriteRestaurant, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$skip", Value: int64(offset)}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "restaurants",
			"localField":   "restaurantId",
			"foreignField": "_id",
			"as":           "restaurant",
		}}},
		{{Key: "$unwind", Value: "$restaurant"}},
		{{Key: "$project", Value: bson.M{
			"createdAt":          1,
			"restaurant._id":     1,
			"restaurant.name":    1,
			"restaurant.address": 1,
		}}},
	}

	cursor, err := r.favorites.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []FavoriteRestaurant
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.favorites.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

func (r *Repository) DeleteAllForRestaurant(ctx context.Context, restaurantID primitive.ObjectID) error {
	_, err := r.favorites.DeleteMany(ctx, bson.M{"restaurantId": restaurantID})
	return err
}
