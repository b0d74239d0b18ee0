package split

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/split/allocation"
)

// SumTolerance is the largest allowed gap between a declared sum and its target
var SumTolerance = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

// Stored precision of split_participants.amount and .percentage
const (
	amountPlaces     = 2
	percentagePlaces = 4
)

// ValidateInputs runs the checks that must pass before the allocation engine is called.
// The engine itself never looks at sums.
func ValidateInputs(total decimal.Decimal, strategy allocation.Strategy, participants []allocation.Input) error {
	if !strategy.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, string(strategy))
	}
	if len(participants) == 0 {
		return ErrEmptyParticipants
	}

	seen := make(map[int64]struct{}, len(participants))
	for _, p := range participants {
		if _, dup := seen[p.UserID]; dup {
			return fmt.Errorf("%w: user %d", ErrDuplicateParticipant, p.UserID)
		}
		seen[p.UserID] = struct{}{}
	}

	switch strategy {
	case allocation.StrategyPercentage:
		sum := decimal.Zero
		for _, p := range participants {
			if p.Percentage == nil {
				return allocation.ErrMissingPercentage
			}
			if err := checkPercentage(p.UserID, *p.Percentage); err != nil {
				return err
			}
			sum = sum.Add(*p.Percentage)
		}
		if !withinTolerance(sum, hundred) {
			return fmt.Errorf("%w: got %s", ErrPercentageSumMismatch, sum.String())
		}
	case allocation.StrategyAmount, allocation.StrategyCustom:
		sum := decimal.Zero
		for _, p := range participants {
			if p.Amount == nil {
				return allocation.ErrMissingAmount
			}
			if !hasPlaces(*p.Amount, amountPlaces) {
				return fmt.Errorf("%w: user %d amount %s has more than %d decimal places", ErrInvalidAmount, p.UserID, p.Amount.String(), amountPlaces)
			}
			// CUSTOM percentages are display values but still stored
			if strategy == allocation.StrategyCustom && p.Percentage != nil {
				if err := checkPercentage(p.UserID, *p.Percentage); err != nil {
					return err
				}
			}
			sum = sum.Add(*p.Amount)
		}
		if !withinTolerance(sum, total) {
			return fmt.Errorf("%w: got %s, want %s", ErrAmountSumMismatch, sum.StringFixed(2), total.StringFixed(2))
		}
	}

	return nil
}

// absorbRemainder moves whatever the shares miss of the total onto the last
// non-zero share. Percentages accepted within tolerance of 100 allocate
// slightly more or less than the total otherwise.
func absorbRemainder(total decimal.Decimal, shares []allocation.Share) error {
	diff := total.Sub(allocation.Sum(shares))
	if diff.IsZero() {
		return nil
	}
	idx := len(shares) - 1
	for i := len(shares) - 1; i >= 0; i-- {
		if shares[i].Amount.IsPositive() {
			idx = i
			break
		}
	}
	adjusted := shares[idx].Amount.Add(diff)
	if adjusted.IsNegative() {
		return allocation.ErrTotalTooSmall
	}
	shares[idx].Amount = adjusted
	return nil
}

func checkPercentage(userID int64, pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return fmt.Errorf("%w: user %d", allocation.ErrPercentageOutOfRange, userID)
	}
	if !hasPlaces(pct, percentagePlaces) {
		return fmt.Errorf("%w: user %d percentage %s has more than %d decimal places", ErrInvalidAmount, userID, pct.String(), percentagePlaces)
	}
	return nil
}

// hasPlaces reports whether d needs no more than places fractional digits
func hasPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

func withinTolerance(got, want decimal.Decimal) bool {
	return got.Sub(want).Abs().LessThanOrEqual(SumTolerance)
}
