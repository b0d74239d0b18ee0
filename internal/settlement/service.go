package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/split"
)

// Common errors
var (
	ErrCannotBalanceSelf = errors.New("cannot compute a balance with yourself")
)

// SplitSource lists the split records of a group
type SplitSource interface {
	ListSplits(ctx context.Context, groupID int64, status *split.RecordStatus) ([]*split.SplitWithParticipants, error)
}

// Service derives balances from open split shares.
// Every PENDING or CONFIRMED share owes the split creator; declined
// records and settled shares owe nothing.
type Service struct {
	splits  SplitSource
	members split.MemberDirectory
	logger  *slog.Logger
}

// NewService creates a new balance service
func NewService(splits SplitSource, members split.MemberDirectory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{splits: splits, members: members, logger: logger}
}

// GroupBalances computes the balance sheet of a group
func (s *Service) GroupBalances(ctx context.Context, groupID int64) (*GroupBalances, error) {
	ledger, err := s.ledger(ctx, groupID)
	if err != nil {
		return nil, err
	}

	names, err := s.displayNames(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances := make(map[int64]*MemberBalance)
	member := func(userID int64) *MemberBalance {
		if b, ok := balances[userID]; ok {
			return b
		}
		b := &MemberBalance{UserID: userID, DisplayName: nameOf(names, userID)}
		balances[userID] = b
		return b
	}
	// Directory members appear even with nothing open
	for userID := range names {
		member(userID)
	}

	debts := netPairs(ledger)
	for _, d := range debts {
		debtor, creditor := member(d.From), member(d.To)
		debtor.Owing = debtor.Owing.Add(d.Amount)
		creditor.Owed = creditor.Owed.Add(d.Amount)
	}

	result := &GroupBalances{GroupID: groupID, Debts: debts}
	for _, b := range balances {
		b.Net = b.Owed.Sub(b.Owing)
		result.Members = append(result.Members, b)
	}
	sort.Slice(result.Members, func(i, j int) bool { return result.Members[i].UserID < result.Members[j].UserID })

	result.Transfers = Simplify(result.Members)
	return result, nil
}

// NetBalances returns the caller's net balance with every member they share open splits with
func (s *Service) NetBalances(ctx context.Context, groupID, userID int64) ([]*NetBalance, error) {
	ledger, err := s.ledger(ctx, groupID)
	if err != nil {
		return nil, err
	}

	names, err := s.displayNames(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var out []*NetBalance
	for _, d := range netPairs(ledger) {
		switch userID {
		case d.From:
			out = append(out, &NetBalance{UserID: d.To, DisplayName: nameOf(names, d.To), Amount: d.Amount})
		case d.To:
			out = append(out, &NetBalance{UserID: d.From, DisplayName: nameOf(names, d.From), Amount: d.Amount.Neg()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// NetBalanceWithUser returns the net balance between the caller and one other member
func (s *Service) NetBalanceWithUser(ctx context.Context, groupID, userID, otherUserID int64) (*NetBalance, error) {
	if userID == otherUserID {
		return nil, ErrCannotBalanceSelf
	}

	ledger, err := s.ledger(ctx, groupID)
	if err != nil {
		return nil, err
	}

	names, err := s.displayNames(ctx, groupID)
	if err != nil {
		return nil, err
	}

	amount := ledger.owed(userID, otherUserID).Sub(ledger.owed(otherUserID, userID))
	return &NetBalance{UserID: otherUserID, DisplayName: nameOf(names, otherUserID), Amount: amount}, nil
}

// ledger maps debtor to creditor to the gross amount owed
type ledger map[int64]map[int64]decimal.Decimal

func (l ledger) add(from, to int64, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	if _, ok := l[from]; !ok {
		l[from] = make(map[int64]decimal.Decimal)
	}
	l[from][to] = l[from][to].Add(amount)
}

func (l ledger) owed(from, to int64) decimal.Decimal {
	return l[from][to]
}

func (s *Service) ledger(ctx context.Context, groupID int64) (ledger, error) {
	records, err := s.splits.ListSplits(ctx, groupID, nil)
	if err != nil {
		return nil, fmt.Errorf("list splits for group %d: %w", groupID, err)
	}

	l := make(ledger)
	for _, rec := range records {
		if rec.Record.Status == split.RecordStatusDeclined || rec.Record.Status == split.RecordStatusSettled {
			continue
		}
		creditor := rec.Record.CreatedBy
		for _, p := range rec.Participants {
			if p.UserID == creditor {
				continue
			}
			if p.Status == split.ParticipantPending || p.Status == split.ParticipantConfirmed {
				l.add(p.UserID, creditor, p.Amount)
			}
		}
	}
	return l, nil
}

func (s *Service) displayNames(ctx context.Context, groupID int64) (map[int64]string, error) {
	members, err := s.members.GetGroupMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members of group %d: %w", groupID, err)
	}
	names := make(map[int64]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.DisplayName
	}
	return names, nil
}

func nameOf(names map[int64]string, userID int64) string {
	if name, ok := names[userID]; ok {
		return name
	}
	// Former members keep their debts
	return fmt.Sprintf("User %d", userID)
}

// netPairs cancels mutual debts so each pair owes in one direction only.
// Output is ordered by debtor, then creditor.
func netPairs(l ledger) []Debt {
	var debts []Debt
	for from, row := range l {
		for to, amount := range row {
			if from > to && l.owed(to, from).IsPositive() {
				continue // handled from the other side
			}
			net := amount.Sub(l.owed(to, from))
			switch net.Sign() {
			case 1:
				debts = append(debts, Debt{From: from, To: to, Amount: net})
			case -1:
				debts = append(debts, Debt{From: to, To: from, Amount: net.Neg()})
			}
		}
	}
	sort.Slice(debts, func(i, j int) bool {
		if debts[i].From != debts[j].From {
			return debts[i].From < debts[j].From
		}
		return debts[i].To < debts[j].To
	})
	return debts
}

// Simplify matches the largest debtors with the largest creditors,
// producing at most len(members)-1 transfers that clear every net balance.
func Simplify(members []*MemberBalance) []Debt {
	type position struct {
		userID int64
		amount decimal.Decimal
	}

	var debtors, creditors []position
	for _, m := range members {
		switch m.Net.Sign() {
		case 1:
			creditors = append(creditors, position{m.UserID, m.Net})
		case -1:
			debtors = append(debtors, position{m.UserID, m.Net.Neg()})
		}
	}

	byAmount := func(p []position) func(i, j int) bool {
		return func(i, j int) bool {
			if !p[i].amount.Equal(p[j].amount) {
				return p[i].amount.GreaterThan(p[j].amount)
			}
			return p[i].userID < p[j].userID
		}
	}
	sort.Slice(debtors, byAmount(debtors))
	sort.Slice(creditors, byAmount(creditors))

	var transfers []Debt
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)
		if amount.IsPositive() {
			transfers = append(transfers, Debt{From: debtors[i].userID, To: creditors[j].userID, Amount: amount})
		}

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		if !debtors[i].amount.IsPositive() {
			i++
		}
		if !creditors[j].amount.IsPositive() {
			j++
		}
	}
	return transfers
}
