package restaurants

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Restaurant struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Name      string             `bson:"name" json:"name"`
	Address   string             `bson:"address" json:"address"`
	Category  string             `bson:"category" json:"category"`
	ImageURL  string             `bson:"imageUrl" json:"imageUrl"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CreateRestaurantRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address" binding:"required"`
	Category string `json:"category"`
	ImageURL string `json:"imageUrl"`
}

type UpdateRestaurantRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Category string `json:"category"`
	ImageURL string `json:"imageUrl"`
}
