package moderation

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/platewise/internal/pkg/logger"
	"github.com/platewise/platewise/internal/pkg/pagination"
	apierr "github.com/platewise/platewise/pkg/errors"
)

// Store is the persistence surface the service needs. *Repository satisfies
// it; tests substitute a fake.
type Store interface {
	Upsert(ctx context.Context, userID, restaurantID, messageID primitive.ObjectID, now time.Time) error
	Queue(ctx context.Context, limit, offset int) ([]QueueEntry, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Report, error)
	GetByMessageID(ctx context.Context, messageID primitive.ObjectID) (*Report, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAllForMessages(ctx context.Context, messageIDs []primitive.ObjectID) error
	AppendLog(ctx context.Context, entry logEntry) error
}

// MessageDeleter is what resolution needs from the message store.
type MessageDeleter interface {
	Delete(ctx context.Context, messageID primitive.ObjectID) error
}

// Service owns report aggregation and the resolve workflow. A report is
// OPEN while its document exists; both resolved outcomes are terminal and
// represented by absence.
type Service struct {
	store    Store
	messages MessageDeleter
	now      func() time.Time
}

func NewService(store Store, messages MessageDeleter) *Service {
	return &Service{store: store, messages: messages, now: time.Now}
}

// File registers a complaint about a message. Repeated calls for the same
// message never create a second document; there is no per-reporter dedup,
// the same caller can increment the counter again.
func (s *Service) File(ctx context.Context, userID, restaurantID, messageID primitive.ObjectID) error {
	if err := s.store.Upsert(ctx, userID, restaurantID, messageID, s.now()); err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	return nil
}

// Queue returns one page of open reports, oldest first, with triage context
// joined, plus whether more pages remain.
func (s *Service) Queue(ctx context.Context, page pagination.Page) ([]QueueEntry, bool, error) {
	entries, err := s.store.Queue(ctx, page.FetchLimit(), page.Offset)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	entries, more := pagination.Trim(entries, page)
	return entries, more, nil
}

// GetByID returns a report; absence is ErrNotFound, distinct from a backend
// failure.
func (s *Service) GetByID(ctx context.Context, id primitive.ObjectID) (*Report, error) {
	report, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	if report == nil {
		return nil, apierr.ErrNotFound
	}
	return report, nil
}

// GetByMessageID returns the report covering a message, or ErrNotFound.
func (s *Service) GetByMessageID(ctx context.Context, messageID primitive.ObjectID) (*Report, error) {
	report, err := s.store.GetByMessageID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	if report == nil {
		return nil, apierr.ErrNotFound
	}
	return report, nil
}

// Resolve terminates a report. rejected=true means the message is taken
// down: it is deleted before the report so a failure leaves the report open
// for retry. rejected=false dismisses the report and the message stands.
// Either way the report document is removed; only the write-only log keeps
// the decision.
func (s *Service) Resolve(ctx context.Context, reportID primitive.ObjectID, rejected bool, adminID primitive.ObjectID) error {
	report, err := s.store.GetByID(ctx, reportID)
	if err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	if report == nil {
		return apierr.ErrNotFound
	}

	if rejected {
		if err := s.messages.Delete(ctx, report.MessageID); err != nil {
			return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
		}
	}

	if err := s.store.Delete(ctx, reportID); err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}

	if err := s.store.AppendLog(ctx, logEntry{
		ReportID:   reportID,
		MessageID:  report.MessageID,
		Rejected:   rejected,
		AdminID:    adminID,
		ResolvedAt: s.now(),
	}); err != nil {
		// The log is advisory; the resolution already happened.
		logger.Warn("moderation log append failed for report %s: %v", reportID.Hex(), err)
	}
	return nil
}

// CascadeForRestaurant removes the reports covering a restaurant's messages.
func (s *Service) CascadeForRestaurant(ctx context.Context, messageIDs []primitive.ObjectID) error {
	if err := s.store.DeleteAllForMessages(ctx, messageIDs); err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
	}
	return nil
}
