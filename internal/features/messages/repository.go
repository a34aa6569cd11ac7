package messages

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apierr "github.com/platewise/platewise/pkg/errors"
)

type Repository struct {
	messages    *mongo.Collection
	postWindows *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	messages := db.Collection("messages")
	postWindows := db.Collection("postWindows")

	_, _ = messages.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "restaurantId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	})

	// The unique pair index is what makes the window claim atomic: a losing
	// concurrent claim fails with a duplicate key instead of inserting a
	// second window.
	_, _ = postWindows.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "restaurantId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &Repository{messages: messages, postWindows: postWindows}
}

// Insert persists a new message.
func (r *Repository) Insert(ctx context.Context, msg *Message) error {
	msg.ID = primitive.NewObjectID()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	_, err := r.messages.InsertOne(ctx, msg)
	return err
}

// ClaimPostWindow atomically claims the (user, restaurant) posting slot.
// The claim succeeds when no window exists yet or the stored lastPostedAt is
// at or before cutoff. A window inside the cutoff makes the filter miss, so
// the upsert collides with the unique index and reports ErrRateLimited.
// The returned time is the previous lastPostedAt (nil on first post), used
// to roll the claim back if the message insert fails.
func (r *Repository) ClaimPostWindow(ctx context.Context, userID, restaurantID primitive.ObjectID, now, cutoff time.Time) (*time.Time, error) {
	filter := bson.M{
		"userId":       userID,
		"restaurantId": restaurantID,
		"lastPostedAt": bson.M{"$lte": cutoff},
	}
	update := bson.M{
		"$set": bson.M{"lastPostedAt": now},
		"$setOnInsert": bson.M{
			"userId":       userID,
			"restaurantId": restaurantID,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.Before)

	var before postWindow
	err := r.postWindows.FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Upserted: this is the pair's first post.
			return nil, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, apierr.ErrRateLimited
		}
		return nil, err
	}
	prev := before.LastPostedAt
	return &prev, nil
}

// ReleasePostWindow rolls a claim back after a failed insert so the window
// is not burned by a post that never landed.
func (r *Repository) ReleasePostWindow(ctx context.Context, userID, restaurantID primitive.ObjectID, previous *time.Time) error {
	filter := bson.M{"userId": userID, "restaurantId": restaurantID}
	if previous == nil {
		_, err := r.postWindows.DeleteOne(ctx, filter)
		return err
	}
	_, err := r.postWindows.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"lastPostedAt": *previous}})
	return err
}

// ListForRestaurant returns up to limit rows, newest first, each joined with
// the author's public profile.
func (r *Repository) ListForRestaurant(ctx context.Context, restaurantID primitive.ObjectID, limit, offset int) ([]RestaurantMessage, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"restaurantId": restaurantID}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$skip", Value: int64(offset)}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "author",
		}}},
		{{Key: "$unwind", Value: "$author"}},
		{{Key: "$project", Value: bson.M{
			"text":             1,
			"rating":           1,
			"createdAt":        1,
			"author._id":       1,
			"author.firstName": 1,
			"author.lastName":  1,
			"author.avatarUrl": 1,
		}}},
	}

	cursor, err := r.messages.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []RestaurantMessage
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListForUser is the symmetric query joined with the restaurant instead of
// the author.
func (r *Repository) ListForUser(ctx context.Context, userID primitive.ObjectID, limit, offset int) ([]UserMessage, error) {
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
			"text":            1,
			"rating":          1,
			"createdAt":       1,
			"restaurant._id":  1,
			"restaurant.name": 1,
		}}},
	}

	cursor, err := r.messages.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []UserMessage
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID returns the message or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*Message, error) {
	var msg Message
	err := r.messages.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// Delete removes one message. No error when nothing matched.
func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.messages.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteAllForRestaurant removes a restaurant's messages and post windows.
func (r *Repository) DeleteAllForRestaurant(ctx context.Context, restaurantID primitive.ObjectID) error {
	if _, err := r.messages.DeleteMany(ctx, bson.M{"restaurantId": restaurantID}); err != nil {
		return err
	}
	_, err := r.postWindows.DeleteMany(ctx, bson.M{"restaurantId": restaurantID})
	return err
}

// DeleteAllForUser removes a diner's messages and post windows.
func (r *Repository) DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := r.messages.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return err
	}
	_, err := r.postWindows.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// MessageIDsForRestaurant lists ids of a restaurant's messages, used by the
// report cascade.
func (r *Repository) MessageIDsForRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.messages.Find(ctx, bson.M{"restaurantId": restaurantID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&row); err == nil {
			ids = append(ids, row.ID)
		}
	}
	return ids, cursor.Err()
}

// LastMessageTime returns the most recent message time for the pair, or nil.
func (r *Repository) LastMessageTime(ctx context.Context, userID, restaurantID primitive.ObjectID) (*time.Time, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var msg Message
	err := r.messages.FindOne(ctx, bson.M{"userId": userID, "restaurantId": restaurantID}, opts).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &msg.CreatedAt, nil
}
