package auth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository handles database interactions for all three account kinds.
type Repository struct {
	users  *mongo.Collection
	owners *mongo.Collection
	admins *mongo.Collection
}

// NewRepository initializes the repository and creates necessary indexes.
func NewRepository(db *mongo.Database) *Repository {
	users := db.Collection("users")
	owners := db.Collection("owners")
	admins := db.Collection("admins")

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = users.Indexes().CreateOne(context.Background(), emailIndex)
	_, _ = owners.Indexes().CreateOne(context.Background(), emailIndex)
	_, _ = admins.Indexes().CreateOne(context.Background(), emailIndex)

	return &Repository{users: users, owners: owners, admins: admins}
}

// --- users ---

func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	result, err := r.users.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// GetUserByEmail finds a user by email. Not found is nil, not an error.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByGoogleID(ctx context.Context, googleID string) (*User, error) {
	var user User
	err := r.users.FindOne(ctx, bson.M{"googleId": googleID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var user User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// SetUserToken stores the active session token, replacing any previous one.
func (r *Repository) SetUserToken(ctx context.Context, id primitive.ObjectID, token string) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"token": token, "updatedAt": time.Now()}},
	)
	return err
}

func (r *Repository) SetUserBanned(ctx context.Context, id primitive.ObjectID, banned bool) error {
	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"banned": banned, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *Repository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// --- owners ---

func (r *Repository) CreateOwner(ctx context.Context, owner *Owner) error {
	owner.CreatedAt = time.Now()
	owner.UpdatedAt = time.Now()

	result, err := r.owners.InsertOne(ctx, owner)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		owner.ID = oid
	}
	return nil
}

func (r *Repository) GetOwnerByEmail(ctx context.Context, email string) (*Owner, error) {
	var owner Owner
	err := r.owners.FindOne(ctx, bson.M{"email": email}).Decode(&owner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &owner, nil
}

func (r *Repository) GetOwnerByID(ctx context.Context, id primitive.ObjectID) (*Owner, error) {
	var owner Owner
	err := r.owners.FindOne(ctx, bson.M{"_id": id}).Decode(&owner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &owner, nil
}

func (r *Repository) SetOwnerToken(ctx context.Context, id primitive.ObjectID, token string) error {
	_, err := r.owners.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"token": token, "updatedAt": time.Now()}},
	)
	return err
}

func (r *Repository) DeleteOwner(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.owners.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// --- admins ---

func (r *Repository) GetAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	var admin Admin
	err := r.admins.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *Repository) GetAdminByID(ctx context.Context, id primitive.ObjectID) (*Admin, error) {
	var admin Admin
	err := r.admins.FindOne(ctx, bson.M{"_id": id}).Decode(&admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *Repository) SetAdminToken(ctx context.Context, id primitive.ObjectID, token string) error {
	_, err := r.admins.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"token": token, "updatedAt": time.Now()}},
	)
	return err
}
