package messages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/platewise/internal/pkg/pagination"
	apierr "github.com/platewise/platewise/pkg/errors"
)

// RateLimitWindow is the minimum spacing between a diner's messages to the
// same restaurant.
const RateLimitWindow = 24 * time.Hour

// Store is the persistence surface the service needs. *Repository satisfies
// it; tests substitute a fake.
type Store interface {
	Insert(ctx context.Context, msg *Message) error
	ClaimPostWindow(ctx context.Context, userID, restaurantID primitive.ObjectID, now, cutoff time.Time) (*time.Time, error)
	ReleasePostWindow(ctx context.Context, userID, restaurantID primitive.ObjectID, previous *time.Time) error
	ListForRestaurant(ctx context.Context, restaurantID primitive.ObjectID, limit, offset int) ([]RestaurantMessage, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID, limit, offset int) ([]UserMessage, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Message, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAllForRestaurant(ctx context.Context, restaurantID primitive.ObjectID) error
	DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error
	MessageIDsForRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]primitive.ObjectID, error)
	LastMessageTime(ctx context.Context, userID, restaurantID primitive.ObjectID) (*time.Time, error)
}

// RestaurantChecker answers whether a restaurant exists.
type RestaurantChecker interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// Service owns message lifecycle rules: validation, the 24h rate limit and
// the joined listings.
type Service struct {
	store       Store
	restaurants RestaurantChecker
	now         func() time.Time
}

func NewService(store Store, restaurants RestaurantChecker) *Service {
	return &Service{store: store, restaurants: restaurants, now: time.Now}
}

// Post validates and persists a new message. A post to an unknown
// restaurant or with missing text/rating fails with ErrValidation; a second
// post by the same diner to the same restaurant within 24h fails with
// ErrRateLimited.
func (s *Service) Post(ctx context.Context, userID, restaurantID primitive.ObjectID, text string, rating int) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text is required", apierr.ErrValidation)
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", apierr.ErrValidation)
	}

	exists, err := s.restaurants.Exists(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	if !exists {
		return fmt.Errorf("%w: restaurant does not exist", apierr.ErrValidation)
	}

	// Claim before insert: the claim is the atomic check-and-set, so two
	// concurrent posts cannot both pass the window check.
	now := s.now()
	previous, err := s.store.ClaimPostWindow(ctx, userID, restaurantID, now, now.Add(-RateLimitWindow))
	if err != nil {
		if apierr.Is(err, apierr.ErrRateLimited) {
			return apierr.ErrRateLimited
		}
		return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}

	msg := &Message{
		UserID:       userID,
		RestaurantID: restaurantID,
		Text:         text,
		Rating:       rating,
		CreatedAt:    now,
	}
	if err := s.store.Insert(ctx, msg); err != nil {
		_ = s.store.ReleasePostWindow(ctx, userID, restaurantID, previous)
		return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	return nil
}

// ListForRestaurant returns one page of a restaurant's messages, newest
// first, with the author joined, plus whether more pages remain.
func (s *Service) ListForRestaurant(ctx context.Context, restaurantID primitive.ObjectID, page pagination.Page) ([]RestaurantMessage, bool, error) {
	rows, err := s.store.ListForRestaurant(ctx, restaurantID, page.FetchLimit(), page.Offset)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	rows, more := pagination.Trim(rows, page)
	return rows, more, nil
}

// ListForUser returns one page of a diner's messages with the restaurant
// joined.
func (s *Service) ListForUser(ctx context.Context, userID primitive.ObjectID, page pagination.Page) ([]UserMessage, bool, error) {
	rows, err := s.store.ListForUser(ctx, userID, page.FetchLimit(), page.Offset)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	rows, more := pagination.Trim(rows, page)
	return rows, more, nil
}

// Delete removes one message; deleting an absent message is a no-op.
func (s *Service) Delete(ctx context.Context, messageID primitive.ObjectID) error {
	if err := s.store.Delete(ctx, messageID); err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	return nil
}

// DeleteAllForRestaurant removes every message for a restaurant.
func (s *Service) DeleteAllForRestaurant(ctx context.Context, restaurantID primitive.ObjectID) error {
	if err := s.store.DeleteAllForRestaurant(ctx, restaurantID); err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	return nil
}

// DeleteAllForUser removes every message a diner posted.
func (s *Service) DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.store.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	return nil
}

// MessageIDsForRestaurant exposes the id listing the report cascade needs.
func (s *Service) MessageIDsForRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids, err := s.store.MessageIDsForRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	return ids, nil
}

// LastMessageTime returns the latest message time for the pair, or nil when
// the diner has never posted there.
func (s *Service) LastMessageTime(ctx context.Context, userID, restaurantID primitive.ObjectID) (*time.Time, error) {
	t, err := s.store.LastMessageTime(ctx, userID, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	return t, nil
}
