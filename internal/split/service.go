package split

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/split/allocation"
)

// CreateSplitInput describes a new split of one expense
type CreateSplitInput struct {
	GroupID           int64
	OriginalExpenseID string
	TotalAmount       decimal.Decimal
	Strategy          allocation.Strategy
	Participants      []allocation.Input
	Description       *string
	CreatedBy         int64
}

// ApplyTemplateInput describes a split created from a stored template.
// A zero TotalAmount on an AMOUNT or CUSTOM template means the sum of its weights.
type ApplyTemplateInput struct {
	GroupID           int64
	TemplateID        string
	OriginalExpenseID string
	TotalAmount       decimal.Decimal
	Description       *string
	CreatedBy         int64
}

// Option configures a Service
type Option func(*Service)

// WithStrictSettlement requires a share to be CONFIRMED before it can be SETTLED
func WithStrictSettlement(strict bool) Option {
	return func(s *Service) { s.strictSettlement = strict }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPublisher sets where lifecycle events go
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithObserver sets the operation observer
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger sets the service logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service runs split creation and participant status transitions
type Service struct {
	store     Store
	templates TemplateStore
	members   MemberDirectory
	factory   *allocation.Factory

	publisher        EventPublisher
	observer         Observer
	logger           *slog.Logger
	now              func() time.Time
	strictSettlement bool
}

// NewService creates a new split lifecycle service with dependencies injected
func NewService(store Store, templates TemplateStore, members MemberDirectory, opts ...Option) *Service {
	s := &Service{
		store:     store,
		templates: templates,
		members:   members,
		factory:   allocation.NewFactory(),
		publisher: noopPublisher{},
		observer:  noopObserver{},
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StrictSettlement reports whether settling requires a prior confirmation
func (s *Service) StrictSettlement() bool {
	return s.strictSettlement
}

// CreateSplit allocates the total and persists the record with all participants PENDING.
// Nothing is written unless allocation succeeds.
func (s *Service) CreateSplit(ctx context.Context, in CreateSplitInput) (*SplitWithParticipants, error) {
	if !in.TotalAmount.IsPositive() || !in.TotalAmount.Equal(in.TotalAmount.Round(2)) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, in.TotalAmount.String())
	}
	if err := ValidateInputs(in.TotalAmount, in.Strategy, in.Participants); err != nil {
		return nil, err
	}

	shares, err := s.factory.Allocate(in.TotalAmount, in.Strategy, in.Participants)
	if err != nil {
		return nil, err
	}
	if in.Strategy == allocation.StrategyPercentage {
		if err := absorbRemainder(in.TotalAmount, shares); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	record := &SplitRecord{
		ID:                uuid.NewString(),
		OriginalExpenseID: in.OriginalExpenseID,
		GroupID:           in.GroupID,
		TotalAmount:       in.TotalAmount,
		Strategy:          in.Strategy,
		Description:       in.Description,
		Status:            RecordStatusPending,
		CreatedBy:         in.CreatedBy,
		CreatedAt:         now,
	}

	participants := make([]*Participant, len(shares))
	for i, share := range shares {
		participants[i] = &Participant{
			SplitID:    record.ID,
			UserID:     share.UserID,
			Position:   i,
			Amount:     share.Amount,
			Percentage: share.Percentage,
			Status:     ParticipantPending,
		}
	}

	id, err := s.store.CreateSplitRecord(ctx, record, participants)
	if err != nil {
		s.logger.ErrorContext(ctx, "create split failed", "group_id", in.GroupID, "error", err)
		return nil, persistenceError("create split", err)
	}
	record.ID = id
	for _, p := range participants {
		p.SplitID = id
	}

	result := &SplitWithParticipants{Record: record, Participants: participants}

	s.observer.SplitCreated(string(in.Strategy))
	s.logger.InfoContext(ctx, "split created",
		"split_id", id,
		"group_id", in.GroupID,
		"strategy", in.Strategy,
		"participants", len(participants),
	)
	s.emit(ctx, result, ActionCreate, in.CreatedBy)

	return result, nil
}

// ApplyTemplate creates a split using a stored template's strategy and participants.
// Every template participant must still be a member of the group.
func (s *Service) ApplyTemplate(ctx context.Context, in ApplyTemplateInput) (*SplitWithParticipants, error) {
	tmpl, err := s.getTemplate(ctx, in.GroupID, in.TemplateID)
	if err != nil {
		return nil, err
	}

	members, err := s.members.GetGroupMembers(ctx, in.GroupID)
	if err != nil {
		return nil, persistenceError("get group members", err)
	}
	live := make(map[int64]struct{}, len(members))
	for _, m := range members {
		live[m.UserID] = struct{}{}
	}

	inputs := make([]allocation.Input, len(tmpl.Participants))
	weights := decimal.Zero
	for i, p := range tmpl.Participants {
		if _, ok := live[p.UserID]; !ok {
			return nil, &TemplateMemberError{TemplateID: tmpl.ID, UserID: p.UserID}
		}

		inputs[i] = allocation.Input{UserID: p.UserID}
		if p.Weight == nil {
			continue
		}
		w := *p.Weight
		switch tmpl.Strategy {
		case allocation.StrategyPercentage:
			inputs[i].Percentage = &w
		case allocation.StrategyAmount, allocation.StrategyCustom:
			inputs[i].Amount = &w
			weights = weights.Add(w)
		}
	}

	total := in.TotalAmount
	if total.IsZero() && (tmpl.Strategy == allocation.StrategyAmount || tmpl.Strategy == allocation.StrategyCustom) {
		total = weights
	}

	description := in.Description
	if description == nil {
		name := tmpl.Name
		description = &name
	}

	return s.CreateSplit(ctx, CreateSplitInput{
		GroupID:           in.GroupID,
		OriginalExpenseID: in.OriginalExpenseID,
		TotalAmount:       total,
		Strategy:          tmpl.Strategy,
		Participants:      inputs,
		Description:       description,
		CreatedBy:         in.CreatedBy,
	})
}

// GetSplit returns a split and its participants
func (s *Service) GetSplit(ctx context.Context, groupID int64, splitID string) (*SplitWithParticipants, error) {
	if _, err := uuid.Parse(splitID); err != nil {
		return nil, ErrSplitNotFound
	}

	split, err := s.store.GetSplitRecord(ctx, groupID, splitID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, persistenceError("get split", err)
	}
	return split, nil
}

// ListSplits returns the group's splits, optionally filtered by aggregate status
func (s *Service) ListSplits(ctx context.Context, groupID int64, status *RecordStatus) ([]*SplitWithParticipants, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, string(*status))
	}

	splits, err := s.store.ListSplitRecords(ctx, groupID, status)
	if err != nil {
		return nil, persistenceError("list splits", err)
	}
	return splits, nil
}

// Confirm moves the user's share from PENDING to CONFIRMED.
// Confirming an already confirmed share succeeds without changes.
func (s *Service) Confirm(ctx context.Context, groupID int64, splitID string, userID int64) (*SplitWithParticipants, error) {
	return s.transition(ctx, groupID, splitID, userID, ActionConfirm, nil)
}

// Decline moves the user's share from PENDING to DECLINED, which also declines the whole record
func (s *Service) Decline(ctx context.Context, groupID int64, splitID string, userID int64, reason *string) (*SplitWithParticipants, error) {
	return s.transition(ctx, groupID, splitID, userID, ActionDecline, reason)
}

// Settle marks the user's share as paid.
// From PENDING this is allowed unless strict settlement is on.
func (s *Service) Settle(ctx context.Context, groupID int64, splitID string, userID int64) (*SplitWithParticipants, error) {
	return s.transition(ctx, groupID, splitID, userID, ActionSettle, nil)
}

// nextStatus returns the target status of a participant for an action.
// Returning from unchanged means the action is a no-op.
func (s *Service) nextStatus(from ParticipantStatus, action Action) (ParticipantStatus, error) {
	switch action {
	case ActionConfirm:
		switch from {
		case ParticipantPending:
			return ParticipantConfirmed, nil
		case ParticipantConfirmed:
			return from, nil
		}
	case ActionDecline:
		if from == ParticipantPending {
			return ParticipantDeclined, nil
		}
	case ActionSettle:
		switch from {
		case ParticipantConfirmed:
			return ParticipantSettled, nil
		case ParticipantSettled:
			return from, nil
		case ParticipantPending:
			if s.strictSettlement {
				return from, ErrConfirmationRequired
			}
			return ParticipantSettled, nil
		}
	}
	return from, ErrInvalidTransition
}

// transition applies one participant move and recomputes the aggregate in a single unit of work
func (s *Service) transition(ctx context.Context, groupID int64, splitID string, userID int64, action Action, reason *string) (*SplitWithParticipants, error) {
	if _, err := uuid.Parse(splitID); err != nil {
		return nil, ErrSplitNotFound
	}

	var (
		result  *SplitWithParticipants
		changed bool
	)

	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		split, err := tx.LockSplitRecord(ctx, groupID, splitID)
		if err != nil {
			return err
		}

		p := split.Participant(userID)
		if p == nil {
			return ErrParticipantNotFound
		}

		next, err := s.nextStatus(p.Status, action)
		if err != nil {
			return &TransitionError{SplitID: splitID, UserID: userID, From: p.Status, Action: action, Err: err}
		}
		if next == p.Status {
			result = split
			return nil
		}

		at := s.now().UTC()
		if err := tx.UpdateParticipantStatus(ctx, splitID, userID, next, reason, at); err != nil {
			return err
		}
		p.Status = next
		switch next {
		case ParticipantConfirmed:
			p.ConfirmedAt = &at
		case ParticipantSettled:
			p.SettledAt = &at
		case ParticipantDeclined:
			p.DeclineReason = reason
		}

		if agg := aggregateStatus(split.Participants); agg != split.Record.Status {
			if err := tx.UpdateRecordStatus(ctx, splitID, agg); err != nil {
				return err
			}
			split.Record.Status = agg
		}

		result = split
		changed = true
		return nil
	})
	if err != nil {
		var terr *TransitionError
		switch {
		case errors.As(err, &terr):
			s.observer.Transition(string(action), "rejected")
			return nil, err
		case errors.Is(err, ErrNotFound):
			s.observer.Transition(string(action), "not_found")
			return nil, err
		default:
			s.observer.Transition(string(action), "error")
			s.logger.ErrorContext(ctx, "split transition failed",
				"split_id", splitID,
				"user_id", userID,
				"action", action,
				"error", err,
			)
			return nil, persistenceError(string(action)+" split", err)
		}
	}

	if !changed {
		s.observer.Transition(string(action), "noop")
		return result, nil
	}

	s.observer.Transition(string(action), "applied")
	s.logger.InfoContext(ctx, "split participant updated",
		"split_id", splitID,
		"user_id", userID,
		"action", action,
		"record_status", result.Record.Status,
	)
	s.emit(ctx, result, action, userID)

	return result, nil
}

func (s *Service) getTemplate(ctx context.Context, groupID int64, id string) (*Template, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrTemplateNotFound
	}

	tmpl, err := s.templates.GetTemplate(ctx, groupID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, persistenceError("get template", err)
	}
	return tmpl, nil
}

// emit publishes an event to everyone involved except the actor
func (s *Service) emit(ctx context.Context, split *SplitWithParticipants, action Action, actor int64) {
	seen := map[int64]struct{}{actor: {}}
	var recipients []int64
	add := func(id int64) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		recipients = append(recipients, id)
	}
	add(split.Record.CreatedBy)
	for _, p := range split.Participants {
		add(p.UserID)
	}

	s.publisher.Publish(ctx, Event{
		ID:           uuid.NewString(),
		SplitID:      split.Record.ID,
		GroupID:      split.Record.GroupID,
		Action:       action,
		ActorUserID:  actor,
		Timestamp:    s.now().UTC(),
		RecordStatus: split.Record.Status,
		Recipients:   recipients,
	})
}
