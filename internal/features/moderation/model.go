package moderation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report aggregates every complaint about one message: the first report
// creates the document, later reports only increment ReportCount. UserID is
// the first reporter on record.
type Report struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	RestaurantID    primitive.ObjectID `bson:"restaurantId" json:"restaurantId"`
	MessageID       primitive.ObjectID `bson:"messageId" json:"messageId"`
	FirstReportedAt time.Time          `bson:"firstReportedAt" json:"firstReportedAt"`
	ReportCount     int                `bson:"reportCount" json:"reportCount"`
}

type FileReportRequest struct {
	UserID       string `json:"userId" binding:"required"`
	RestaurantID string `json:"restaurantId" binding:"required"`
	MessageID    string `json:"messageId"`
}

// QueueReporter is the reporter slice joined into the queue.
type QueueReporter struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
}

// QueueMessage is the reported message joined into the queue.
type QueueMessage struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Text      string             `bson:"text" json:"text"`
	Rating    int                `bson:"rating" json:"rating"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// QueueRestaurant is the restaurant slice joined into the queue.
type QueueRestaurant struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// QueueEntry is one open report with its triage context.
type QueueEntry struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	FirstReportedAt time.Time          `bson:"firstReportedAt" json:"firstReportedAt"`
	ReportCount     int                `bson:"reportCount" json:"reportCount"`
	Reporter        *QueueReporter     `bson:"reporter" json:"reporter"`
	Message         *QueueMessage      `bson:"message" json:"message"`
	Restaurant      *QueueRestaurant   `bson:"restaurant" json:"restaurant"`
}

// logEntry is the append-only record of a resolve decision. Write-only:
// nothing reads it back through the API, and the report itself is gone.
type logEntry struct {
	ReportID   primitive.ObjectID `bson:"reportId"`
	MessageID  primitive.ObjectID `bson:"messageId"`
	Rejected   bool               `bson:"rejected"`
	AdminID    primitive.ObjectID `bson:"adminId"`
	ResolvedAt time.Time          `bson:"resolvedAt"`
}
