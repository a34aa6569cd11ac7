package restaurants

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/platewise/internal/pkg/logger"
	apierr "github.com/platewise/platewise/pkg/errors"
)

// MessageCascade is what restaurant deletion needs from the message store.
type MessageCascade interface {
	MessageIDsForRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]primitive.ObjectID, error)
	DeleteAllForRestaurant(ctx context.Context, restaurantID primitive.ObjectID) error
}

// ReportCascade removes the reports covering a set of messages.
type ReportCascade interface {
	CascadeForRestaurant(ctx context.Context, messageIDs []primitive.ObjectID) error
}

// FavoriteCascade removes favorites referencing a restaurant.
type FavoriteCascade interface {
	DeleteAllForRestaurant(ctx context.Context, restaurantID primitive.ObjectID) error
}

// Store is the persistence surface the service needs. *Repository satisfies
// it; tests substitute a fake.
type Store interface {
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]Restaurant, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Service owns listing lifecycle, mainly the delete cascade: a removed
// restaurant takes its messages, the reports on those messages, and the
// favorites pointing at it.
type Service struct {
	repo      Store
	messages  MessageCascade
	reports   ReportCascade
	favorites FavoriteCascade
}

func NewService(repo Store, messages MessageCascade, reports ReportCascade, favorites FavoriteCascade) *Service {
	return &Service{repo: repo, messages: messages, reports: reports, favorites: favorites}
}

// DeleteRestaurant removes one restaurant and everything hanging off it.
// Reports go first, while the message ids are still listable.
func (s *Service) DeleteRestaurant(ctx context.Context, id primitive.ObjectID) error {
	messageIDs, err := s.messages.MessageIDsForRestaurant(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	if err := s.reports.CascadeForRestaurant(ctx, messageIDs); err != nil {
		return err
	}
	if err := s.messages.DeleteAllForRestaurant(ctx, id); err != nil {
		return err
	}
	if err := s.favorites.DeleteAllForRestaurant(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}

	logger.Info("deleted restaurant %s with %d messages", id.Hex(), len(messageIDs))
	return nil
}

// DeleteAllForOwner cascades over every restaurant the owner had.
func (s *Service) DeleteAllForOwner(ctx context.Context, ownerID primitive.ObjectID) error {
	owned, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	for _, restaurant := range owned {
		if err := s.DeleteRestaurant(ctx, restaurant.ID); err != nil {
			return err
		}
	}
	return nil
}
