package split

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/split/allocation"
)

const maxTemplateNameLength = 100

// CreateTemplateInput describes a new split template
type CreateTemplateInput struct {
	GroupID      int64
	Name         string
	Strategy     allocation.Strategy
	Participants []TemplateParticipant
	CreatedBy    int64
}

// TemplateService stores and retrieves split templates. It does no allocation.
type TemplateService struct {
	store  TemplateStore
	logger *slog.Logger
	now    func() time.Time
}

// NewTemplateService creates a new template service
func NewTemplateService(store TemplateStore, logger *slog.Logger) *TemplateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateService{store: store, logger: logger, now: time.Now}
}

// Create validates and stores a template
func (s *TemplateService) Create(ctx context.Context, in CreateTemplateInput) (*Template, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > maxTemplateNameLength {
		return nil, fmt.Errorf("%w: name must be 1 to %d characters", ErrInvalidTemplate, maxTemplateNameLength)
	}
	if !in.Strategy.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, string(in.Strategy))
	}
	if len(in.Participants) == 0 {
		return nil, ErrEmptyParticipants
	}

	participants, err := templateParticipants(in.Strategy, in.Participants)
	if err != nil {
		return nil, err
	}

	t := &Template{
		ID:           uuid.NewString(),
		Name:         name,
		GroupID:      in.GroupID,
		Strategy:     in.Strategy,
		Participants: participants,
		CreatedBy:    in.CreatedBy,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.store.CreateTemplate(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "create template failed", "group_id", in.GroupID, "error", err)
		return nil, persistenceError("create template", err)
	}

	s.logger.InfoContext(ctx, "split template created", "template_id", t.ID, "group_id", t.GroupID, "strategy", t.Strategy)
	return t, nil
}

// Get returns one template of the group
func (s *TemplateService) Get(ctx context.Context, groupID int64, id string) (*Template, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrTemplateNotFound
	}

	t, err := s.store.GetTemplate(ctx, groupID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, persistenceError("get template", err)
	}
	return t, nil
}

// ListByGroup returns all templates of the group
func (s *TemplateService) ListByGroup(ctx context.Context, groupID int64) ([]*Template, error) {
	templates, err := s.store.ListTemplates(ctx, groupID)
	if err != nil {
		return nil, persistenceError("list templates", err)
	}
	return templates, nil
}

// templateParticipants checks the weights a strategy needs and normalizes the rest.
// EQUAL templates never carry weights.
func templateParticipants(strategy allocation.Strategy, in []TemplateParticipant) ([]*TemplateParticipant, error) {
	out := make([]*TemplateParticipant, len(in))
	seen := make(map[int64]struct{}, len(in))
	sum := decimal.Zero

	for i, p := range in {
		if p.UserID <= 0 {
			return nil, fmt.Errorf("%w: invalid user id %d", ErrInvalidTemplate, p.UserID)
		}
		if _, dup := seen[p.UserID]; dup {
			return nil, fmt.Errorf("%w: user %d", ErrDuplicateParticipant, p.UserID)
		}
		seen[p.UserID] = struct{}{}

		entry := &TemplateParticipant{UserID: p.UserID}
		if strategy != allocation.StrategyEqual {
			if p.Weight == nil {
				return nil, fmt.Errorf("%w: user %d needs a weight for %s", ErrInvalidTemplate, p.UserID, strategy)
			}
			if p.Weight.IsNegative() {
				return nil, fmt.Errorf("%w: user %d has a negative weight", ErrInvalidTemplate, p.UserID)
			}
			places := int32(amountPlaces)
			if strategy == allocation.StrategyPercentage {
				if p.Weight.GreaterThan(hundred) {
					return nil, fmt.Errorf("%w: user %d percentage above 100", ErrInvalidTemplate, p.UserID)
				}
				places = percentagePlaces
			}
			if !hasPlaces(*p.Weight, places) {
				return nil, fmt.Errorf("%w: user %d weight %s has more than %d decimal places", ErrInvalidTemplate, p.UserID, p.Weight.String(), places)
			}
			w := *p.Weight
			entry.Weight = &w
			sum = sum.Add(w)
		}
		out[i] = entry
	}

	switch strategy {
	case allocation.StrategyPercentage:
		if !withinTolerance(sum, hundred) {
			return nil, fmt.Errorf("%w: got %s", ErrPercentageSumMismatch, sum.String())
		}
	case allocation.StrategyAmount, allocation.StrategyCustom:
		if !sum.IsPositive() {
			return nil, fmt.Errorf("%w: amounts must add up to more than zero", ErrInvalidTemplate)
		}
	}

	return out, nil
}
