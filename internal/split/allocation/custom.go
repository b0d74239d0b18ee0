package allocation

import "github.com/shopspring/decimal"

// CustomStrategy passes caller-supplied amounts and percentages through untouched
type CustomStrategy struct{}

// Type returns the strategy identifier
func (s *CustomStrategy) Type() Strategy {
	return StrategyCustom
}

// Validate checks that every participant has a non-negative amount
func (s *CustomStrategy) Validate(total decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrEmptyParticipants
	}
	if !total.IsPositive() {
		return ErrNonPositiveTotal
	}
	return requireAmounts(participants)
}

// Calculate returns the inputs as shares without any computation
func (s *CustomStrategy) Calculate(total decimal.Decimal, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{
			UserID:     p.UserID,
			Amount:     *p.Amount,
			Percentage: p.Percentage,
		}
	}

	return shares, nil
}
