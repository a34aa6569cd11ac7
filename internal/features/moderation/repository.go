package moderation

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
	reports *mongo.Collection
	modLog  *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	reports := db.Collection("reports")
	modLog := db.Collection("moderationLog")

	// messageId is the aggregation key: one report document per message.
	_, _ = reports.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "messageId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "firstReportedAt", Value: 1}},
		},
	})

	return &Repository{reports: reports, modLog: modLog}
}

// Upsert files a report in one atomic write: the first report for a message
// inserts the document with count 1, every later report only increments the
// counter. Concurrent first reports collapse onto the unique messageId index.
func (r *Repository) Upsert(ctx context.Context, userID, restaurantID, messageID primitive.ObjectID, now time.Time) error {
	filter := bson.M{"messageId": messageID}
	update := bson.M{
		"$inc": bson.M{"reportCount": 1},
		"$setOnInsert": bson.M{
			"userId":          userID,
			"restaurantId":    restaurantID,
			"messageId":       messageID,
			"firstReportedAt": now,
		},
	}
	_, err := r.reports.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Queue returns up to limit reports, oldest first, joined with reporter,
// message and restaurant context.
func (r *Repository) Queue(ctx context.Context, limit, offset int) ([]QueueEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "firstReportedAt", Value: 1}}}},
		{{Key: "$skip", Value: int64(offset)}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "reporter",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "messages",
			"localField":   "messageId",
			"foreignField": "_id",
			"as":           "message",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "restaurants",
			"localField":   "restaurantId",
			"foreignField": "_id",
			"as":           "restaurant",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$reporter", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$unwind", Value: bson.M{"path": "$message", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$unwind", Value: bson.M{"path": "$restaurant", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"firstReportedAt":    1,
			"reportCount":        1,
			"reporter._id":       1,
			"reporter.firstName": 1,
			"reporter.lastName":  1,
			"message._id":        1,
			"message.userId":     1,
			"message.text":       1,
			"message.rating":     1,
			"message.createdAt":  1,
			"restaurant._id":     1,
			"restaurant.name":    1,
		}}},
	}

	cursor, err := r.reports.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []QueueEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetByID returns the report or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*Report, error) {
	var report Report
	err := r.reports.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// GetByMessageID returns the report for a message or nil when absent.
func (r *Repository) GetByMessageID(ctx context.Context, messageID primitive.ObjectID) (*Report, error) {
	var report Report
	err := r.reports.FindOne(ctx, bson.M{"messageId": messageID}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// Delete removes a report. No error when nothing matched.
func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.reports.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteAllForMessages removes the reports covering the given messages,
// used by the restaurant cascade.
func (r *Repository) DeleteAllForMessages(ctx context.Context, messageIDs []primitive.ObjectID) error {
	if len(messageIDs) == 0 {
		return nil
	}
	_, err := r.reports.DeleteMany(ctx, bson.M{"messageId": bson.M{"$in": messageIDs}})
	return err
}

// AppendLog writes one resolve decision to the append-only log.
func (r *Repository) AppendLog(ctx context.Context, entry logEntry) error {
	_, err := r.modLog.InsertOne(ctx, entry)
	return err
}
