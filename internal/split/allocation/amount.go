package allocation

import "github.com/shopspring/decimal"

// =============================================================================
// AMOUNT SPLIT STRATEGY
// Each participant owes a stated amount; the percentage is for display only
// =============================================================================

// AmountStrategy implements the Calculator interface for fixed-amount splits
type AmountStrategy struct{}

// Type returns the strategy identifier
func (s *AmountStrategy) Type() Strategy {
	return StrategyAmount
}

// Validate checks that every participant has a non-negative amount
func (s *AmountStrategy) Validate(total decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrEmptyParticipants
	}
	if !total.IsPositive() {
		return ErrNonPositiveTotal
	}
	return requireAmounts(participants)
}

// Calculate keeps the given amounts and derives the display percentage
func (s *AmountStrategy) Calculate(total decimal.Decimal, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		amount := roundCents(*p.Amount)
		shares[i] = Share{
			UserID:     p.UserID,
			Amount:     amount,
			Percentage: percentOf(amount, total),
		}
	}

	return shares, nil
}

func requireAmounts(participants []Input) error {
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingAmount
		}
		if p.Amount.IsNegative() {
			return ErrNegativeAmount
		}
	}
	return nil
}
