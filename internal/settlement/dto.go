package settlement

import "fmt"

// MemberBalanceResponse is one member's row in the balance sheet
type MemberBalanceResponse struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Owed        string `json:"owed"`
	Owing       string `json:"owing"`
	Net         string `json:"net"`
}

// DebtResponse is a payment from one member to another
type DebtResponse struct {
	FromUserID int64  `json:"from_user_id"`
	ToUserID   int64  `json:"to_user_id"`
	Amount     string `json:"amount"`
}

// GroupBalancesResponse represents the balance sheet of a group
type GroupBalancesResponse struct {
	GroupID   int64                    `json:"group_id"`
	Members   []*MemberBalanceResponse `json:"members"`
	Debts     []*DebtResponse          `json:"debts"`
	Transfers []*DebtResponse          `json:"transfers"`
}

// NetBalanceResponse represents the net balance with another user
type NetBalanceResponse struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Amount      string `json:"amount"`
	Message     string `json:"message"` // e.g., "You owe Ben 50.00" or "Ben owes you 30.00"
}

// ToResponse converts GroupBalances to a GroupBalancesResponse DTO
func (g *GroupBalances) ToResponse() *GroupBalancesResponse {
	resp := &GroupBalancesResponse{
		GroupID:   g.GroupID,
		Members:   make([]*MemberBalanceResponse, len(g.Members)),
		Debts:     debtResponses(g.Debts),
		Transfers: debtResponses(g.Transfers),
	}
	for i, m := range g.Members {
		resp.Members[i] = &MemberBalanceResponse{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			Owed:        m.Owed.StringFixed(2),
			Owing:       m.Owing.StringFixed(2),
			Net:         m.Net.StringFixed(2),
		}
	}
	return resp
}

// ToResponse converts a NetBalance to a NetBalanceResponse DTO
func (b *NetBalance) ToResponse() *NetBalanceResponse {
	var message string
	switch b.Amount.Sign() {
	case 1:
		message = fmt.Sprintf("You owe %s %s", b.DisplayName, b.Amount.StringFixed(2))
	case -1:
		message = fmt.Sprintf("%s owes you %s", b.DisplayName, b.Amount.Neg().StringFixed(2))
	default:
		message = fmt.Sprintf("You and %s are settled up", b.DisplayName)
	}

	return &NetBalanceResponse{
		UserID:      b.UserID,
		DisplayName: b.DisplayName,
		Amount:      b.Amount.StringFixed(2),
		Message:     message,
	}
}

func debtResponses(debts []Debt) []*DebtResponse {
	out := make([]*DebtResponse, len(debts))
	for i, d := range debts {
		out[i] = &DebtResponse{FromUserID: d.From, ToUserID: d.To, Amount: d.Amount.StringFixed(2)}
	}
	return out
}
