package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fkhayef/splitledger/internal/split"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// DefaultPageSize is used when a list request omits or exceeds the limit
const DefaultPageSize = 20

// Store is the inbox persistence contract. GetByID returns nil, nil when missing.
type Store interface {
	CreateBatch(ctx context.Context, notifications []*Notification) error
	GetByID(ctx context.Context, id int64) (*Notification, error)
	ListByRecipientID(ctx context.Context, recipientID int64, limit, offset int, unreadOnly bool) ([]*Notification, int, error)
	MarkAsRead(ctx context.Context, id int64) error
	MarkAllAsRead(ctx context.Context, recipientID int64) error
	GetUnreadCount(ctx context.Context, recipientID int64) (int, error)
}

// Service handles notification business logic
type Service struct {
	repo   Store
	logger *slog.Logger
}

// NewService creates a new notification service
func NewService(repo Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Name identifies the inbox sink in delivery metrics
func (s *Service) Name() string { return "inbox" }

// Deliver writes one inbox entry per event recipient
func (s *Service) Deliver(ctx context.Context, event split.Event) error {
	if len(event.Recipients) == 0 {
		return nil
	}

	kind, message := describe(event)
	entityType := EntityTypeSplit
	splitID := event.SplitID

	notifications := make([]*Notification, len(event.Recipients))
	for i, recipient := range event.Recipients {
		notifications[i] = &Notification{
			RecipientID:       recipient,
			Type:              kind,
			Message:           message,
			RelatedEntityType: &entityType,
			RelatedEntityID:   &splitID,
		}
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		return fmt.Errorf("store notifications for split %s: %w", event.SplitID, err)
	}
	return nil
}

// GetByID retrieves a notification by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	return notification, nil
}

// ListByRecipientID retrieves a page of notifications for a user
func (s *Service) ListByRecipientID(ctx context.Context, recipientID int64, limit, offset int, unreadOnly bool) ([]*Notification, int, error) {
	if limit < 1 || limit > 100 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByRecipientID(ctx, recipientID, limit, offset, unreadOnly)
}

// MarkAsRead marks a notification as read
func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	notification, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification.RecipientID != userID {
		return ErrNotRecipient
	}
	if notification.IsRead {
		return nil
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user
func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func describe(event split.Event) (NotificationType, string) {
	actor := fmt.Sprintf("User %d", event.ActorUserID)
	switch event.Action {
	case split.ActionCreate:
		return NotificationTypeSplitCreated, actor + " added you to a new split"
	case split.ActionConfirm:
		return NotificationTypeSplitConfirmed, actor + " confirmed their share"
	case split.ActionDecline:
		return NotificationTypeSplitDeclined, actor + " declined their share"
	default:
		if event.RecordStatus == split.RecordStatusSettled {
			return NotificationTypeSplitSettled, actor + " settled their share. The split is fully settled"
		}
		return NotificationTypeSplitSettled, actor + " settled their share"
	}
}
