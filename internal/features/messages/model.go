package messages

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a diner's review of a restaurant. Messages are never edited:
// they are created once and removed by moderation or by cascade when the
// restaurant or author goes away.
type Message struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	RestaurantID primitive.ObjectID `bson:"restaurantId" json:"restaurantId"`
	Text         string             `bson:"text" json:"text"`
	Rating       int                `bson:"rating" json:"rating"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// postWindow backs the 24h rate limit. One document per (userId,
// restaurantId) pair, claimed atomically before each post.
type postWindow struct {
	UserID       primitive.ObjectID `bson:"userId"`
	RestaurantID primitive.ObjectID `bson:"restaurantId"`
	LastPostedAt time.Time          `bson:"lastPostedAt"`
}

type PostMessageRequest struct {
	Text   string `json:"text" binding:"required"`
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
}

// Author is the public slice of the posting user joined into restaurant
// listings.
type Author struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	AvatarURL string             `bson:"avatarUrl" json:"avatarUrl"`
}

// RestaurantRef is the restaurant slice joined into per-user listings.
type RestaurantRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// RestaurantMessage is one row of a restaurant's message listing.
type RestaurantMessage struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Text      string             `bson:"text" json:"text"`
	Rating    int                `bson:"rating" json:"rating"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	Author    Author             `bson:"author" json:"author"`
}

// UserMessage is one row of a diner's own message listing.
type UserMessage struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Text       string             `bson:"text" json:"text"`
	Rating     int                `bson:"rating" json:"rating"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	Restaurant RestaurantRef      `bson:"restaurant" json:"restaurant"`
}
