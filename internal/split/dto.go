package split

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/split/allocation"
)

const timeFormat = time.RFC3339

// ParticipantRequest is one participant entry of a create request
type ParticipantRequest struct {
	UserID     int64            `json:"user_id"`
	Percentage *decimal.Decimal `json:"percentage,omitempty" swaggertype:"string"` // PERCENTAGE, optional for CUSTOM
	Amount     *decimal.Decimal `json:"amount,omitempty" swaggertype:"string"`     // AMOUNT and CUSTOM
}

// CreateSplitRequest represents the request to split an expense
type CreateSplitRequest struct {
	OriginalExpenseID string                `json:"original_expense_id"`
	TotalAmount       decimal.Decimal       `json:"total_amount" swaggertype:"string" example:"100.00"`
	Strategy          string                `json:"strategy" example:"EQUAL"`
	Description       *string               `json:"description,omitempty"`
	Participants      []*ParticipantRequest `json:"participants"`
}

// ApplyTemplateRequest represents the request to split an expense with a template
type ApplyTemplateRequest struct {
	OriginalExpenseID string           `json:"original_expense_id"`
	TotalAmount       *decimal.Decimal `json:"total_amount,omitempty" swaggertype:"string" example:"200.00"`
	Description       *string          `json:"description,omitempty"`
}

// DeclineRequest represents the optional body of a decline
type DeclineRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CreateTemplateRequest represents the request to create a split template
type CreateTemplateRequest struct {
	Name         string                        `json:"name"`
	Strategy     string                        `json:"strategy" example:"PERCENTAGE"`
	Participants []*TemplateParticipantRequest `json:"participants"`
}

// TemplateParticipantRequest is one ordered template entry
type TemplateParticipantRequest struct {
	UserID int64            `json:"user_id"`
	Weight *decimal.Decimal `json:"weight,omitempty" swaggertype:"string"`
}

// SplitResponse represents a split record with its participants
type SplitResponse struct {
	ID                string                 `json:"id"`
	OriginalExpenseID string                 `json:"original_expense_id"`
	GroupID           int64                  `json:"group_id"`
	TotalAmount       string                 `json:"total_amount"`
	Strategy          string                 `json:"strategy"`
	Description       *string                `json:"description,omitempty"`
	Status            RecordStatus           `json:"status"`
	CreatedBy         int64                  `json:"created_by"`
	CreatedAt         string                 `json:"created_at"`
	Participants      []*ParticipantResponse `json:"participants"`
}

// ParticipantResponse represents one participant's share
type ParticipantResponse struct {
	UserID        int64             `json:"user_id"`
	Amount        string            `json:"amount"`
	Percentage    *string           `json:"percentage,omitempty"`
	Status        ParticipantStatus `json:"status"`
	DeclineReason *string           `json:"decline_reason,omitempty"`
	ConfirmedAt   *string           `json:"confirmed_at,omitempty"`
	SettledAt     *string           `json:"settled_at,omitempty"`
}

// TemplateResponse represents a split template
type TemplateResponse struct {
	ID           string                         `json:"id"`
	Name         string                         `json:"name"`
	GroupID      int64                          `json:"group_id"`
	Strategy     string                         `json:"strategy"`
	CreatedBy    int64                          `json:"created_by"`
	CreatedAt    string                         `json:"created_at"`
	Participants []*TemplateParticipantResponse `json:"participants"`
}

// TemplateParticipantResponse represents one template entry
type TemplateParticipantResponse struct {
	UserID int64   `json:"user_id"`
	Weight *string `json:"weight,omitempty"`
}

// ToInputs converts request participants to engine inputs
func (r *CreateSplitRequest) ToInputs() []allocation.Input {
	inputs := make([]allocation.Input, 0, len(r.Participants))
	for _, p := range r.Participants {
		if p == nil {
			continue
		}
		inputs = append(inputs, allocation.Input{
			UserID:     p.UserID,
			Percentage: p.Percentage,
			Amount:     p.Amount,
		})
	}
	return inputs
}

// ToParticipants converts request entries to template participants
func (r *CreateTemplateRequest) ToParticipants() []TemplateParticipant {
	out := make([]TemplateParticipant, 0, len(r.Participants))
	for _, p := range r.Participants {
		if p == nil {
			continue
		}
		out = append(out, TemplateParticipant{UserID: p.UserID, Weight: p.Weight})
	}
	return out
}

// ToResponse converts a split to its response DTO
func (s *SplitWithParticipants) ToResponse() *SplitResponse {
	resp := &SplitResponse{
		ID:                s.Record.ID,
		OriginalExpenseID: s.Record.OriginalExpenseID,
		GroupID:           s.Record.GroupID,
		TotalAmount:       s.Record.TotalAmount.StringFixed(2),
		Strategy:          string(s.Record.Strategy),
		Description:       s.Record.Description,
		Status:            s.Record.Status,
		CreatedBy:         s.Record.CreatedBy,
		CreatedAt:         s.Record.CreatedAt.Format(timeFormat),
		Participants:      make([]*ParticipantResponse, len(s.Participants)),
	}
	for i, p := range s.Participants {
		resp.Participants[i] = p.ToResponse()
	}
	return resp
}

// ToResponse converts a participant to its response DTO
func (p *Participant) ToResponse() *ParticipantResponse {
	return &ParticipantResponse{
		UserID:        p.UserID,
		Amount:        p.Amount.StringFixed(2),
		Percentage:    fixed(p.Percentage),
		Status:        p.Status,
		DeclineReason: p.DeclineReason,
		ConfirmedAt:   formatTime(p.ConfirmedAt),
		SettledAt:     formatTime(p.SettledAt),
	}
}

// ToResponse converts a template to its response DTO
func (t *Template) ToResponse() *TemplateResponse {
	resp := &TemplateResponse{
		ID:           t.ID,
		Name:         t.Name,
		GroupID:      t.GroupID,
		Strategy:     string(t.Strategy),
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt.Format(timeFormat),
		Participants: make([]*TemplateParticipantResponse, len(t.Participants)),
	}
	for i, p := range t.Participants {
		resp.Participants[i] = &TemplateParticipantResponse{UserID: p.UserID, Weight: fixed(p.Weight)}
	}
	return resp
}

func fixed(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeFormat)
	return &s
}
