package allocation

import "github.com/shopspring/decimal"

// =============================================================================
// PERCENTAGE SPLIT STRATEGY
// Divides the total based on the percentage given for each participant
// =============================================================================

// PercentageStrategy implements the Calculator interface for percentage splits
type PercentageStrategy struct{}

// Type returns the strategy identifier
func (s *PercentageStrategy) Type() Strategy {
	return StrategyPercentage
}

// Validate checks that every participant has a percentage between 0 and 100.
// Whether they sum to 100 is the caller's concern.
func (s *PercentageStrategy) Validate(total decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrEmptyParticipants
	}
	if !total.IsPositive() {
		return ErrNonPositiveTotal
	}
	for _, p := range participants {
		if p.Percentage == nil {
			return ErrMissingPercentage
		}
		if p.Percentage.IsNegative() || p.Percentage.GreaterThan(hundred) {
			return ErrPercentageOutOfRange
		}
	}
	return nil
}

// Calculate computes round(total * percentage / 100, 2) for each participant
func (s *PercentageStrategy) Calculate(total decimal.Decimal, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	calculated := zero
	sumPercentage := zero
	adjustIdx := len(participants) - 1

	for i, p := range participants {
		pct := *p.Percentage
		amount := roundCents(total.Mul(pct).Div(hundred))
		calculated = calculated.Add(amount)
		sumPercentage = sumPercentage.Add(pct)
		shares[i] = Share{
			UserID:     p.UserID,
			Amount:     amount,
			Percentage: &pct,
		}
		if pct.IsPositive() {
			adjustIdx = i
		}
	}

	// Rounding each share independently can leave a cent over or under.
	// The last participant holding a non-zero percentage absorbs it.
	expected := roundCents(total.Mul(sumPercentage).Div(hundred))
	if diff := expected.Sub(calculated); !diff.IsZero() {
		adjusted := shares[adjustIdx].Amount.Add(diff)
		if adjusted.IsNegative() {
			return nil, ErrTotalTooSmall
		}
		shares[adjustIdx].Amount = adjusted
	}

	return shares, nil
}
