package split

import (
	"errors"
	"fmt"

	"github.com/fkhayef/splitledger/internal/split/allocation"
)

// Engine errors are re-exported so callers only need this package
var (
	ErrInvalidStrategy   = allocation.ErrInvalidStrategy
	ErrEmptyParticipants = allocation.ErrEmptyParticipants
)

var (
	ErrInvalidAmount          = errors.New("invalid amount: totals must be positive, amounts use at most 2 decimal places and percentages at most 4")
	ErrInvalidFilter          = errors.New("invalid filter")
	ErrPercentageSumMismatch  = errors.New("percentages must add up to 100")
	ErrAmountSumMismatch      = errors.New("amounts must add up to the total")
	ErrDuplicateParticipant   = errors.New("a user may appear only once in a split")
	ErrTemplateMemberNotFound = errors.New("template participant is no longer a group member")
	ErrInvalidTemplate        = errors.New("invalid split template")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrConfirmationRequired   = errors.New("share must be confirmed before it can be settled")
	ErrNotFound               = errors.New("not found")
	ErrSplitNotFound          = fmt.Errorf("split %w", ErrNotFound)
	ErrParticipantNotFound    = fmt.Errorf("participant %w", ErrNotFound)
	ErrTemplateNotFound       = fmt.Errorf("template %w", ErrNotFound)
	ErrPersistence            = errors.New("persistence failure")
)

// TemplateMemberError reports which template participant is no longer in the group
type TemplateMemberError struct {
	TemplateID string
	UserID     int64
}

func (e *TemplateMemberError) Error() string {
	return fmt.Sprintf("template %s: user %d is no longer a group member", e.TemplateID, e.UserID)
}

func (e *TemplateMemberError) Unwrap() error {
	return ErrTemplateMemberNotFound
}

// TransitionError carries the rejected move of one participant
type TransitionError struct {
	SplitID string
	UserID  int64
	From    ParticipantStatus
	Action  Action
	Err     error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("split %s: cannot %s share of user %d in status %s: %v", e.SplitID, e.Action, e.UserID, e.From, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// persistenceError marks err as a store failure while keeping the cause inspectable
func persistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// IsValidationError reports whether err is a caller-fixable input problem
func IsValidationError(err error) bool {
	for _, target := range []error{
		allocation.ErrInvalidStrategy,
		allocation.ErrEmptyParticipants,
		allocation.ErrNonPositiveTotal,
		allocation.ErrMissingPercentage,
		allocation.ErrMissingAmount,
		allocation.ErrNegativeAmount,
		allocation.ErrPercentageOutOfRange,
		allocation.ErrTotalTooSmall,
		ErrInvalidAmount,
		ErrInvalidFilter,
		ErrPercentageSumMismatch,
		ErrAmountSumMismatch,
		ErrDuplicateParticipant,
		ErrInvalidTemplate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
