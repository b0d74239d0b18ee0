package settlement

import "github.com/shopspring/decimal"

// Debt is an amount one member owes another
type Debt struct {
	From   int64           `json:"from"`
	To     int64           `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// MemberBalance aggregates one member's open shares across a group
type MemberBalance struct {
	UserID      int64           `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Owed        decimal.Decimal `json:"owed"`  // Others owe this member
	Owing       decimal.Decimal `json:"owing"` // This member owes others
	Net         decimal.Decimal `json:"net"`   // Positive = owed money, Negative = owes money
}

// GroupBalances is the balance sheet of a group
type GroupBalances struct {
	GroupID int64
	Members []*MemberBalance
	// Debts holds pairwise debts after netting each pair
	Debts []Debt
	// Transfers is the reduced set of payments that clears every balance
	Transfers []Debt
}

// NetBalance represents the net amount owed between two users
type NetBalance struct {
	UserID      int64
	DisplayName string
	Amount      decimal.Decimal // Positive = you owe them, Negative = they owe you
}
