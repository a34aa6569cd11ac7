package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles carried in bearer tokens.
const (
	RoleUser  = "user"
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// User is a diner account. Token holds the single active session: issuing a
// new token replaces it, which silently invalidates the previous session.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	AvatarURL    string             `bson:"avatarUrl" json:"avatarUrl"`
	Banned       bool               `bson:"banned" json:"banned"`
	Token        string             `bson:"token,omitempty" json:"-"`
	GoogleID     string             `bson:"googleId,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Owner is a restaurant-owner account.
type Owner struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Token        string             `bson:"token,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Admin accounts are seeded out of band; there is no public admin signup.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Token        string             `bson:"token,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type RegisterUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

type RegisterOwnerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleAuthRequest carries a Google ID token for diner sign-in.
type GoogleAuthRequest struct {
	GoogleIDToken string `json:"googleIdToken" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// ToPublicProfile returns the author fields joined into message listings.
func (u *User) ToPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"avatarUrl": u.AvatarURL,
	}
}
