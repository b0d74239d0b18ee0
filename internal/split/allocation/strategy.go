package allocation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Strategy identifies how a total is divided among participants
type Strategy string

const (
	StrategyEqual      Strategy = "EQUAL"
	StrategyPercentage Strategy = "PERCENTAGE"
	StrategyAmount     Strategy = "AMOUNT"
	StrategyCustom     Strategy = "CUSTOM"
)

// Strategies lists every supported strategy in a stable order
var Strategies = []Strategy{StrategyEqual, StrategyPercentage, StrategyAmount, StrategyCustom}

// Valid reports whether s is one of the supported strategies
func (s Strategy) Valid() bool {
	switch s {
	case StrategyEqual, StrategyPercentage, StrategyAmount, StrategyCustom:
		return true
	}
	return false
}

// Input is one participant entry handed to the engine.
// Which optional field is required depends on the strategy.
type Input struct {
	UserID     int64            `json:"user_id"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"` // PERCENTAGE, optional for CUSTOM
	Amount     *decimal.Decimal `json:"amount,omitempty"`     // AMOUNT and CUSTOM
}

// Share is the computed allocation for a single participant
type Share struct {
	UserID     int64            `json:"user_id"`
	Amount     decimal.Decimal  `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// Calculator is implemented by every strategy
type Calculator interface {
	// Type returns the strategy this calculator implements
	Type() Strategy

	// Validate checks that each participant carries the fields the strategy needs.
	// It never checks that percentages or amounts add up.
	Validate(total decimal.Decimal, participants []Input) error

	// Calculate computes the per-participant shares in input order
	Calculate(total decimal.Decimal, participants []Input) ([]Share, error)
}

var (
	ErrInvalidStrategy      = errors.New("invalid split strategy")
	ErrEmptyParticipants    = errors.New("at least one participant is required")
	ErrNonPositiveTotal     = errors.New("total amount must be greater than zero")
	ErrMissingPercentage    = errors.New("percentage value required for all participants")
	ErrMissingAmount        = errors.New("amount required for all participants")
	ErrNegativeAmount       = errors.New("amounts cannot be negative")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")
	ErrTotalTooSmall        = errors.New("total amount is too small to divide among participants")
)

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// Factory creates calculators for a strategy
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the calculator for the given strategy
func (f *Factory) Create(strategy Strategy) (Calculator, error) {
	switch strategy {
	case StrategyEqual:
		return &EqualStrategy{}, nil
	case StrategyPercentage:
		return &PercentageStrategy{}, nil
	case StrategyAmount:
		return &AmountStrategy{}, nil
	case StrategyCustom:
		return &CustomStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, string(strategy))
	}
}

// CreateFromString creates a calculator from a raw strategy name (useful for API requests)
func (f *Factory) CreateFromString(strategy string) (Calculator, error) {
	return f.Create(Strategy(strategy))
}

// Allocate divides total among participants using the given strategy.
// It has no side effects.
func (f *Factory) Allocate(total decimal.Decimal, strategy Strategy, participants []Input) ([]Share, error) {
	calc, err := f.Create(strategy)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, ErrEmptyParticipants
	}
	if !total.IsPositive() {
		return nil, ErrNonPositiveTotal
	}
	if err := calc.Validate(total, participants); err != nil {
		return nil, err
	}
	return calc.Calculate(total, participants)
}

// Sum adds up the amounts of the given shares
func Sum(shares []Share) decimal.Decimal {
	total := zero
	for _, s := range shares {
		total = total.Add(s.Amount)
	}
	return total
}

// roundCents rounds to 2 decimal places, half away from zero
func roundCents(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

// percentOf returns part as a percentage of total, rounded for display
func percentOf(part, total decimal.Decimal) *decimal.Decimal {
	pct := roundCents(part.Mul(hundred).Div(total))
	return &pct
}
