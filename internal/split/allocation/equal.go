package allocation

import "github.com/shopspring/decimal"

// =============================================================================
// EQUAL SPLIT STRATEGY
// Every participant gets the same rounded share; the last one absorbs the dust
// =============================================================================

// EqualStrategy implements the Calculator interface for equal splits
type EqualStrategy struct{}

// Type returns the strategy identifier
func (s *EqualStrategy) Type() Strategy {
	return StrategyEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(total decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrEmptyParticipants
	}
	if !total.IsPositive() {
		return ErrNonPositiveTotal
	}
	return nil
}

// Calculate gives round(total/n, 2) to all but the last participant.
// The last participant receives total minus everything already handed out,
// so the shares always add up to the total exactly.
func (s *EqualStrategy) Calculate(total decimal.Decimal, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	n := len(participants)
	share := roundCents(total.Div(decimal.NewFromInt(int64(n))))

	shares := make([]Share, n)
	distributed := zero
	for i, p := range participants[:n-1] {
		shares[i] = Share{
			UserID:     p.UserID,
			Amount:     share,
			Percentage: percentOf(share, total),
		}
		distributed = distributed.Add(share)
	}

	remainder := total.Sub(distributed)
	if remainder.IsNegative() {
		return nil, ErrTotalTooSmall
	}
	shares[n-1] = Share{
		UserID:     participants[n-1].UserID,
		Amount:     remainder,
		Percentage: percentOf(remainder, total),
	}

	return shares, nil
}
