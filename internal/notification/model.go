package notification

import "time"

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeSplitCreated   NotificationType = "SPLIT_CREATED"
	NotificationTypeSplitConfirmed NotificationType = "SPLIT_CONFIRMED"
	NotificationTypeSplitDeclined  NotificationType = "SPLIT_DECLINED"
	NotificationTypeSplitSettled   NotificationType = "SPLIT_SETTLED"
)

// EntityTypeSplit is the related entity type of split notifications
const EntityTypeSplit = "SPLIT"

// Notification is one inbox entry for a user
type Notification struct {
	ID                int64            `json:"id"`
	RecipientID       int64            `json:"recipient_id"`
	Type              NotificationType `json:"type"`
	Message           string           `json:"message"`
	IsRead            bool             `json:"is_read"`
	RelatedEntityType *string          `json:"related_entity_type,omitempty"`
	RelatedEntityID   *string          `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}
