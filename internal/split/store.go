package split

import (
	"context"
	"time"
)

// Store is the persistence boundary for split records.
// Reads return ErrSplitNotFound when the id does not resolve within the group.
type Store interface {
	// CreateSplitRecord writes the record and all participants atomically
	CreateSplitRecord(ctx context.Context, record *SplitRecord, participants []*Participant) (string, error)
	GetSplitRecord(ctx context.Context, groupID int64, id string) (*SplitWithParticipants, error)
	// ListSplitRecords returns newest first, optionally filtered by aggregate status
	ListSplitRecords(ctx context.Context, groupID int64, status *RecordStatus) ([]*SplitWithParticipants, error)
	// InTx runs fn as one atomic unit. fn's error rolls everything back.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the set of writes available inside Store.InTx
type Tx interface {
	// LockSplitRecord loads the record and holds it exclusively until the unit ends
	LockSplitRecord(ctx context.Context, groupID int64, id string) (*SplitWithParticipants, error)
	UpdateParticipantStatus(ctx context.Context, splitID string, userID int64, status ParticipantStatus, reason *string, at time.Time) error
	UpdateRecordStatus(ctx context.Context, splitID string, status RecordStatus) error
}

// TemplateStore persists split templates
type TemplateStore interface {
	CreateTemplate(ctx context.Context, t *Template) error
	GetTemplate(ctx context.Context, groupID int64, id string) (*Template, error)
	ListTemplates(ctx context.Context, groupID int64) ([]*Template, error)
}

// MemberDirectory resolves the live members of a group
type MemberDirectory interface {
	GetGroupMembers(ctx context.Context, groupID int64) ([]Member, error)
}

// EventPublisher receives lifecycle events. Publish must not block on delivery.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

// Observer is notified of completed operations, typically for metrics
type Observer interface {
	SplitCreated(strategy string)
	Transition(action string, outcome string)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) {}

type noopObserver struct{}

func (noopObserver) SplitCreated(string)       {}
func (noopObserver) Transition(string, string) {}
