package split

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/split/allocation"
)

// RecordStatus is the aggregate status of a split record.
// It is derived from participant statuses and only written by the Service.
type RecordStatus string

const (
	RecordStatusPending   RecordStatus = "PENDING"
	RecordStatusConfirmed RecordStatus = "CONFIRMED"
	RecordStatusDeclined  RecordStatus = "DECLINED"
	RecordStatusSettled   RecordStatus = "SETTLED"
)

// Valid reports whether s is a known record status
func (s RecordStatus) Valid() bool {
	switch s {
	case RecordStatusPending, RecordStatusConfirmed, RecordStatusDeclined, RecordStatusSettled:
		return true
	}
	return false
}

// ParticipantStatus is the state of a single participant's share
type ParticipantStatus string

const (
	ParticipantPending   ParticipantStatus = "PENDING"
	ParticipantConfirmed ParticipantStatus = "CONFIRMED"
	ParticipantDeclined  ParticipantStatus = "DECLINED"
	ParticipantSettled   ParticipantStatus = "SETTLED"
)

// SplitRecord is one shared expense allocated across participants
type SplitRecord struct {
	ID                string              `json:"id"`
	OriginalExpenseID string              `json:"original_expense_id"`
	GroupID           int64               `json:"group_id"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	Strategy          allocation.Strategy `json:"strategy"`
	Description       *string             `json:"description,omitempty"`
	Status            RecordStatus        `json:"status"`
	CreatedBy         int64               `json:"created_by"`
	CreatedAt         time.Time           `json:"created_at"`
}

// Participant is one member's share of a split record
type Participant struct {
	SplitID       string            `json:"split_id"`
	UserID        int64             `json:"user_id"`
	Position      int               `json:"position"`
	Amount        decimal.Decimal   `json:"amount"`
	Percentage    *decimal.Decimal  `json:"percentage,omitempty"`
	Status        ParticipantStatus `json:"status"`
	DeclineReason *string           `json:"decline_reason,omitempty"`
	ConfirmedAt   *time.Time        `json:"confirmed_at,omitempty"`
	SettledAt     *time.Time        `json:"settled_at,omitempty"`
}

// SplitWithParticipants combines a record with its participant rows, ordered by position
type SplitWithParticipants struct {
	Record       *SplitRecord
	Participants []*Participant
}

// Participant returns the row for userID, or nil
func (s *SplitWithParticipants) Participant(userID int64) *Participant {
	for _, p := range s.Participants {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// Template is a named, reusable strategy and participant configuration
type Template struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	GroupID      int64                  `json:"group_id"`
	Strategy     allocation.Strategy    `json:"strategy"`
	Participants []*TemplateParticipant `json:"participants"`
	CreatedBy    int64                  `json:"created_by"`
	CreatedAt    time.Time              `json:"created_at"`
}

// TemplateParticipant is one ordered entry of a template.
// Weight is the percentage for PERCENTAGE, the amount for AMOUNT and CUSTOM,
// and unused for EQUAL.
type TemplateParticipant struct {
	UserID int64            `json:"user_id"`
	Weight *decimal.Decimal `json:"weight,omitempty"`
}

// Member is a live group member as seen by the member directory
type Member struct {
	UserID      int64
	DisplayName string
}

// Action names a lifecycle step carried by an Event
type Action string

const (
	ActionCreate  Action = "create"
	ActionConfirm Action = "confirm"
	ActionDecline Action = "decline"
	ActionSettle  Action = "settle"
)

// Event is emitted after every state change of a split record
type Event struct {
	ID           string       `json:"id"`
	SplitID      string       `json:"split_id"`
	GroupID      int64        `json:"group_id"`
	Action       Action       `json:"action"`
	ActorUserID  int64        `json:"actor_user_id"`
	Timestamp    time.Time    `json:"timestamp"`
	RecordStatus RecordStatus `json:"record_status"`
	Recipients   []int64      `json:"recipients"`
}

// aggregateStatus derives the record status from its participants:
// any decline poisons the record, otherwise it advances only when every
// participant has.
func aggregateStatus(participants []*Participant) RecordStatus {
	if len(participants) == 0 {
		return RecordStatusPending
	}

	settled, confirmed := 0, 0
	for _, p := range participants {
		switch p.Status {
		case ParticipantDeclined:
			return RecordStatusDeclined
		case ParticipantSettled:
			settled++
		case ParticipantConfirmed:
			confirmed++
		}
	}

	switch {
	case settled == len(participants):
		return RecordStatusSettled
	case settled+confirmed == len(participants):
		return RecordStatusConfirmed
	default:
		return RecordStatusPending
	}
}
