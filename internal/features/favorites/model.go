package favorites

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite marks a restaurant a diner saved. One document per (user,
// restaurant) pair.
type Favorite struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	RestaurantID primitive.ObjectID `bson:"restaurantId" json:"restaurantId"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// FavoriteRestaurant is one row of a diner's favorites listing.
type FavoriteRestaurant struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	Restaurant struct {
		ID      primitive.ObjectID `bson:"_id" json:"id"`
		Name    string             `bson:"name" json:"name"`
		Address string             `bson:"address" json:"address"`
	} `bson:"restaurant" json:"restaurant"`
}
