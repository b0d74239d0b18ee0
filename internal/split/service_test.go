package split

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/splitledger/internal/split/allocation"
)

const testGroup int64 = 10

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type staticDirectory struct {
	members []Member
	err     error
}

func (d *staticDirectory) GetGroupMembers(context.Context, int64) ([]Member, error) {
	return d.members, d.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) actions() []Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Action, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}

// failingStore fails writes while keeping reads on the embedded store
type failingStore struct {
	*MemoryStore
	err error
}

func (f *failingStore) CreateSplitRecord(context.Context, *SplitRecord, []*Participant) (string, error) {
	return "", f.err
}

func (f *failingStore) InTx(context.Context, func(context.Context, Tx) error) error {
	return f.err
}

type fixture struct {
	store     *MemoryStore
	service   *Service
	templates *TemplateService
	events    *recordingPublisher
	members   *staticDirectory
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		store:  NewMemoryStore(),
		events: &recordingPublisher{},
		members: &staticDirectory{members: []Member{
			{UserID: 1, DisplayName: "Ana"},
			{UserID: 2, DisplayName: "Ben"},
			{UserID: 3, DisplayName: "Chloe"},
		}},
	}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithPublisher(f.events)}, opts...)
	f.service = NewService(f.store, f.store, f.members, opts...)
	f.templates = NewTemplateService(f.store, nil)
	return f
}

func (f *fixture) createEqual(t *testing.T, total string, users ...int64) *SplitWithParticipants {
	t.Helper()

	inputs := make([]allocation.Input, len(users))
	for i, id := range users {
		inputs[i] = allocation.Input{UserID: id}
	}
	s, err := f.service.CreateSplit(context.Background(), CreateSplitInput{
		GroupID:           testGroup,
		OriginalExpenseID: "exp-1",
		TotalAmount:       decimal.RequireFromString(total),
		Strategy:          allocation.StrategyEqual,
		Participants:      inputs,
		CreatedBy:         1,
	})
	require.NoError(t, err)
	return s
}

func statuses(s *SplitWithParticipants) []ParticipantStatus {
	out := make([]ParticipantStatus, len(s.Participants))
	for i, p := range s.Participants {
		out[i] = p.Status
	}
	return out
}

func pct(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateSplit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.createEqual(t, "100.00", 1, 2, 3)

	assert.Equal(t, RecordStatusPending, s.Record.Status)
	assert.Equal(t, fixedNow, s.Record.CreatedAt)
	assert.NoError(t, uuid.Validate(s.Record.ID))
	assert.Equal(t, []ParticipantStatus{ParticipantPending, ParticipantPending, ParticipantPending}, statuses(s))

	stored, err := f.service.GetSplit(ctx, testGroup, s.Record.ID)
	require.NoError(t, err)
	var amounts []string
	for _, p := range stored.Participants {
		amounts = append(amounts, p.Amount.StringFixed(2))
	}
	assert.Equal(t, []string{"33.33", "33.33", "33.34"}, amounts)

	require.Len(t, f.events.events, 1)
	e := f.events.events[0]
	assert.Equal(t, ActionCreate, e.Action)
	assert.Equal(t, int64(1), e.ActorUserID)
	assert.Equal(t, []int64{2, 3}, e.Recipients, "the creator is not notified of their own split")
}

func TestCreateSplit_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		total    string
		strategy allocation.Strategy
		inputs   []allocation.Input
		wantErr  error
	}{
		{
			name:     "unknown strategy",
			total:    "10",
			strategy: "SHARES",
			inputs:   []allocation.Input{{UserID: 1}},
			wantErr:  ErrInvalidStrategy,
		},
		{
			name:     "no participants",
			total:    "10",
			strategy: allocation.StrategyEqual,
			wantErr:  ErrEmptyParticipants,
		},
		{
			name:     "fractional cents",
			total:    "10.005",
			strategy: allocation.StrategyEqual,
			inputs:   []allocation.Input{{UserID: 1}},
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "percentages short of 100",
			total:    "10",
			strategy: allocation.StrategyPercentage,
			inputs:   []allocation.Input{{UserID: 1, Percentage: pct("50")}, {UserID: 2, Percentage: pct("49.98")}},
			wantErr:  ErrPercentageSumMismatch,
		},
		{
			name:     "amounts over the total",
			total:    "10",
			strategy: allocation.StrategyAmount,
			inputs:   []allocation.Input{{UserID: 1, Amount: pct("5")}, {UserID: 2, Amount: pct("5.02")}},
			wantErr:  ErrAmountSumMismatch,
		},
		{
			name:     "custom amounts must also add up",
			total:    "10",
			strategy: allocation.StrategyCustom,
			inputs:   []allocation.Input{{UserID: 1, Amount: pct("3")}},
			wantErr:  ErrAmountSumMismatch,
		},
		{
			name:     "amounts in thousandths",
			total:    "100.00",
			strategy: allocation.StrategyAmount,
			inputs:   []allocation.Input{{UserID: 1, Amount: pct("33.335")}, {UserID: 2, Amount: pct("33.335")}, {UserID: 3, Amount: pct("33.335")}},
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "same user twice",
			total:    "10",
			strategy: allocation.StrategyEqual,
			inputs:   []allocation.Input{{UserID: 1}, {UserID: 1}},
			wantErr:  ErrDuplicateParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateSplit(context.Background(), CreateSplitInput{
				GroupID:      testGroup,
				TotalAmount:  decimal.RequireFromString(tt.total),
				Strategy:     tt.strategy,
				Participants: tt.inputs,
				CreatedBy:    1,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}

	all, err := f.service.ListSplits(context.Background(), testGroup, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, f.events.events)
}

func TestCreateSplit_WithinTolerance(t *testing.T) {
	f := newFixture(t)

	s, err := f.service.CreateSplit(context.Background(), CreateSplitInput{
		GroupID:     testGroup,
		TotalAmount: decimal.RequireFromString("200.00"),
		Strategy:    allocation.StrategyPercentage,
		Participants: []allocation.Input{
			{UserID: 1, Percentage: pct("33.33")},
			{UserID: 2, Percentage: pct("33.33")},
			{UserID: 3, Percentage: pct("33.33")},
		},
		CreatedBy: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "66.66", s.Participants[0].Amount.StringFixed(2))
	assert.Equal(t, "66.68", s.Participants[2].Amount.StringFixed(2), "the last share takes the two cents 99.99 percent leaves over")
	assert.Equal(t, "33.33", s.Participants[2].Percentage.StringFixed(2))
}

func TestCreateSplit_SharesAddUpToTotal(t *testing.T) {
	amt := pct
	tests := []struct {
		name     string
		total    string
		strategy allocation.Strategy
		inputs   []allocation.Input
	}{
		{
			name:     "equal thirds",
			total:    "100.00",
			strategy: allocation.StrategyEqual,
			inputs:   []allocation.Input{{UserID: 1}, {UserID: 2}, {UserID: 3}},
		},
		{
			name:     "equal with one cent",
			total:    "0.01",
			strategy: allocation.StrategyEqual,
			inputs:   []allocation.Input{{UserID: 1}},
		},
		{
			name:     "percentage thirds of a large total",
			total:    "987654.32",
			strategy: allocation.StrategyPercentage,
			inputs:   []allocation.Input{{UserID: 1, Percentage: amt("33.33")}, {UserID: 2, Percentage: amt("33.33")}, {UserID: 3, Percentage: amt("33.33")}},
		},
		{
			name:     "percentage just over 100",
			total:    "50.00",
			strategy: allocation.StrategyPercentage,
			inputs:   []allocation.Input{{UserID: 1, Percentage: amt("50.0050")}, {UserID: 2, Percentage: amt("50.0050")}},
		},
		{
			name:     "percentage with four decimals",
			total:    "10.00",
			strategy: allocation.StrategyPercentage,
			inputs:   []allocation.Input{{UserID: 1, Percentage: amt("33.3333")}, {UserID: 2, Percentage: amt("33.3333")}, {UserID: 3, Percentage: amt("33.3334")}},
		},
		{
			name:     "amounts a cent short",
			total:    "100.00",
			strategy: allocation.StrategyAmount,
			inputs:   []allocation.Input{{UserID: 1, Amount: amt("33.33")}, {UserID: 2, Amount: amt("33.33")}, {UserID: 3, Amount: amt("33.33")}},
		},
		{
			name:     "custom cents",
			total:    "10.00",
			strategy: allocation.StrategyCustom,
			inputs:   []allocation.Input{{UserID: 1, Amount: amt("3.33")}, {UserID: 2, Amount: amt("3.33")}, {UserID: 3, Amount: amt("3.34"), Percentage: amt("33.4")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			total := decimal.RequireFromString(tt.total)

			s, err := f.service.CreateSplit(context.Background(), CreateSplitInput{
				GroupID:      testGroup,
				TotalAmount:  total,
				Strategy:     tt.strategy,
				Participants: tt.inputs,
				CreatedBy:    1,
			})
			require.NoError(t, err)

			sum := decimal.Zero
			for _, p := range s.Participants {
				assert.True(t, p.Amount.Equal(p.Amount.Round(2)), "share %s has sub-cent precision", p.Amount)
				sum = sum.Add(p.Amount)
			}
			assert.True(t, sum.Sub(total).Abs().LessThanOrEqual(SumTolerance), "shares add up to %s, total %s", sum, total)
		})
	}
}

func TestCreateSplit_RejectsSubCentInputs(t *testing.T) {
	amt := pct
	tests := []struct {
		name     string
		total    string
		strategy allocation.Strategy
		inputs   []allocation.Input
		wantErr  error
	}{
		{
			name:     "amounts in thousandths",
			total:    "100.00",
			strategy: allocation.StrategyAmount,
			inputs:   []allocation.Input{{UserID: 1, Amount: amt("33.335")}, {UserID: 2, Amount: amt("33.335")}, {UserID: 3, Amount: amt("33.335")}},
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "custom amounts in ten-thousandths",
			total:    "10.00",
			strategy: allocation.StrategyCustom,
			inputs:   []allocation.Input{{UserID: 1, Amount: amt("3.3333")}, {UserID: 2, Amount: amt("3.3333")}, {UserID: 3, Amount: amt("3.3334")}},
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "percentage with five decimals",
			total:    "10.00",
			strategy: allocation.StrategyPercentage,
			inputs:   []allocation.Input{{UserID: 1, Percentage: amt("50.00001")}, {UserID: 2, Percentage: amt("49.99999")}},
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "custom percentage above 100",
			total:    "10.00",
			strategy: allocation.StrategyCustom,
			inputs:   []allocation.Input{{UserID: 1, Amount: amt("10.00"), Percentage: amt("1000")}},
			wantErr:  allocation.ErrPercentageOutOfRange,
		},
		{
			name:     "custom percentage with five decimals",
			total:    "10.00",
			strategy: allocation.StrategyCustom,
			inputs:   []allocation.Input{{UserID: 1, Amount: amt("10.00"), Percentage: amt("99.99999")}},
			wantErr:  ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.service.CreateSplit(context.Background(), CreateSplitInput{
				GroupID:      testGroup,
				TotalAmount:  decimal.RequireFromString(tt.total),
				Strategy:     tt.strategy,
				Participants: tt.inputs,
				CreatedBy:    1,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))

			all, err := f.service.ListSplits(context.Background(), testGroup, nil)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestCreateSplit_PersistenceFailureCreatesNothing(t *testing.T) {
	mem := NewMemoryStore()
	store := &failingStore{MemoryStore: mem, err: errors.New("connection refused")}
	events := &recordingPublisher{}
	svc := NewService(store, mem, &staticDirectory{}, WithPublisher(events))

	_, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		GroupID:      testGroup,
		TotalAmount:  decimal.RequireFromString("30"),
		Strategy:     allocation.StrategyEqual,
		Participants: []allocation.Input{{UserID: 1}, {UserID: 2}},
		CreatedBy:    1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "connection refused")

	all, err := mem.ListSplitRecords(context.Background(), testGroup, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, events.events)
}

func TestTransition_PersistenceFailure(t *testing.T) {
	f := newFixture(t)
	s := f.createEqual(t, "20", 1, 2)

	svc := NewService(&failingStore{MemoryStore: f.store, err: errors.New("deadlock detected")}, f.store, f.members)
	_, err := svc.Confirm(context.Background(), testGroup, s.Record.ID, 2)
	assert.ErrorIs(t, err, ErrPersistence)

	stored, err := f.store.GetSplitRecord(context.Background(), testGroup, s.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, ParticipantPending, stored.Participant(2).Status)
}

func TestDeclinePoisonsAggregate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.createEqual(t, "90", 1, 2, 3)

	_, err := f.service.Confirm(ctx, testGroup, s.Record.ID, 1)
	require.NoError(t, err)

	reason := "I was not there"
	got, err := f.service.Decline(ctx, testGroup, s.Record.ID, 2, &reason)
	require.NoError(t, err)

	assert.Equal(t, RecordStatusDeclined, got.Record.Status)
	assert.Equal(t, []ParticipantStatus{ParticipantConfirmed, ParticipantDeclined, ParticipantPending}, statuses(got))
	require.NotNil(t, got.Participant(2).DeclineReason)
	assert.Equal(t, reason, *got.Participant(2).DeclineReason)

	// Others may still act, the record stays declined
	got, err = f.service.Confirm(ctx, testGroup, s.Record.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, RecordStatusDeclined, got.Record.Status)

	// Declined is terminal for that participant
	_, err = f.service.Confirm(ctx, testGroup, s.Record.ID, 2)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.service.Decline(ctx, testGroup, s.Record.ID, 2, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.service.Settle(ctx, testGroup, s.Record.ID, 2)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestFullConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.createEqual(t, "50", 1, 2)

	got, err := f.service.Confirm(ctx, testGroup, s.Record.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, RecordStatusPending, got.Record.Status)
	require.NotNil(t, got.Participant(1).ConfirmedAt)
	assert.Equal(t, fixedNow, *got.Participant(1).ConfirmedAt)

	got, err = f.service.Confirm(ctx, testGroup, s.Record.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, RecordStatusConfirmed, got.Record.Status)

	stored, err := f.service.GetSplit(ctx, testGroup, s.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, RecordStatusConfirmed, stored.Record.Status)
}

func TestSettlement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.createEqual(t, "50", 1, 2)

	for _, id := range []int64{1, 2} {
		_, err := f.service.Confirm(ctx, testGroup, s.Record.ID, id)
		require.NoError(t, err)
	}

	got, err := f.service.Settle(ctx, testGroup, s.Record.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, RecordStatusConfirmed, got.Record.Status, "partial settlement keeps the record confirmed")
	require.NotNil(t, got.Participant(1).SettledAt)

	got, err = f.service.Settle(ctx, testGroup, s.Record.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, RecordStatusSettled, got.Record.Status)

	// Settling again changes nothing
	got, err = f.service.Settle(ctx, testGroup, s.Record.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, RecordStatusSettled, got.Record.Status)

	_, err = f.service.Decline(ctx, testGroup, s.Record.ID, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSettleFromPending(t *testing.T) {
	t.Run("allowed by default", func(t *testing.T) {
		f := newFixture(t)
		s := f.createEqual(t, "50", 1, 2)

		got, err := f.service.Settle(context.Background(), testGroup, s.Record.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, ParticipantSettled, got.Participant(2).Status)
		assert.Equal(t, RecordStatusPending, got.Record.Status)
		assert.False(t, f.service.StrictSettlement())
	})

	t.Run("rejected in strict mode", func(t *testing.T) {
		f := newFixture(t, WithStrictSettlement(true))
		s := f.createEqual(t, "50", 1, 2)

		_, err := f.service.Settle(context.Background(), testGroup, s.Record.ID, 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfirmationRequired)

		var terr *TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, ParticipantPending, terr.From)
		assert.Equal(t, int64(2), terr.UserID)

		_, err = f.service.Confirm(context.Background(), testGroup, s.Record.ID, 2)
		require.NoError(t, err)
		got, err := f.service.Settle(context.Background(), testGroup, s.Record.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, ParticipantSettled, got.Participant(2).Status)
	})
}

func TestConfirmIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.createEqual(t, "50", 1, 2)

	first, err := f.service.Confirm(ctx, testGroup, s.Record.ID, 2)
	require.NoError(t, err)

	second, err := f.service.Confirm(ctx, testGroup, s.Record.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, first.Participant(2).Status, second.Participant(2).Status)
	assert.Equal(t, first.Participant(2).ConfirmedAt, second.Participant(2).ConfirmedAt)
	assert.Equal(t, first.Record.Status, second.Record.Status)
	assert.Equal(t, []Action{ActionCreate, ActionConfirm}, f.events.actions(), "no event for a no-op")
}

func TestTransition_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.createEqual(t, "50", 1, 2)

	_, err := f.service.Confirm(ctx, testGroup, uuid.NewString(), 1)
	assert.ErrorIs(t, err, ErrSplitNotFound)

	_, err = f.service.Confirm(ctx, testGroup, "not-a-uuid", 1)
	assert.ErrorIs(t, err, ErrSplitNotFound)

	_, err = f.service.Confirm(ctx, testGroup+1, s.Record.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound, "splits are scoped by group")

	_, err = f.service.Confirm(ctx, testGroup, s.Record.ID, 99)
	assert.ErrorIs(t, err, ErrParticipantNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.GetSplit(ctx, testGroup+1, s.Record.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentConfirms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 25
	users := make([]int64, n)
	for i := range users {
		users[i] = int64(i + 1)
	}
	s := f.createEqual(t, "1000.00", users...)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, id := range users {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if _, err := f.service.Confirm(ctx, testGroup, s.Record.ID, id); err != nil {
				errs <- err
			}
		}(id)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("confirm failed: %v", err)
	}

	got, err := f.service.GetSplit(ctx, testGroup, s.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, RecordStatusConfirmed, got.Record.Status)
	for _, p := range got.Participants {
		assert.Equal(t, ParticipantConfirmed, p.Status, "user %d", p.UserID)
	}
}

func TestListSplits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.createEqual(t, "10", 1, 2)
	f.createEqual(t, "20", 1, 3)
	_, err := f.service.Decline(ctx, testGroup, a.Record.ID, 2, nil)
	require.NoError(t, err)

	all, err := f.service.ListSplits(ctx, testGroup, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	declined := RecordStatusDeclined
	filtered, err := f.service.ListSplits(ctx, testGroup, &declined)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, a.Record.ID, filtered[0].Record.ID)

	bogus := RecordStatus("OPEN")
	_, err = f.service.ListSplits(ctx, testGroup, &bogus)
	assert.ErrorIs(t, err, ErrInvalidFilter)

	other, err := f.service.ListSplits(ctx, testGroup+1, nil)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestApplyTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tmpl, err := f.templates.Create(ctx, CreateTemplateInput{
		GroupID:  testGroup,
		Name:     "Groceries",
		Strategy: allocation.StrategyPercentage,
		Participants: []TemplateParticipant{
			{UserID: 1, Weight: pct("60")},
			{UserID: 2, Weight: pct("40")},
		},
		CreatedBy: 1,
	})
	require.NoError(t, err)

	s, err := f.service.ApplyTemplate(ctx, ApplyTemplateInput{
		GroupID:           testGroup,
		TemplateID:        tmpl.ID,
		OriginalExpenseID: "exp-7",
		TotalAmount:       decimal.RequireFromString("200.00"),
		CreatedBy:         1,
	})
	require.NoError(t, err)

	assert.Equal(t, allocation.StrategyPercentage, s.Record.Strategy)
	require.Len(t, s.Participants, 2)
	assert.Equal(t, "120.00", s.Participants[0].Amount.StringFixed(2))
	assert.Equal(t, "80.00", s.Participants[1].Amount.StringFixed(2))
	require.NotNil(t, s.Record.Description)
	assert.Equal(t, "Groceries", *s.Record.Description)
}

func TestApplyTemplate_AmountDefaultsToWeights(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tmpl, err := f.templates.Create(ctx, CreateTemplateInput{
		GroupID:  testGroup,
		Name:     "Rent",
		Strategy: allocation.StrategyAmount,
		Participants: []TemplateParticipant{
			{UserID: 1, Weight: pct("700")},
			{UserID: 3, Weight: pct("500")},
		},
		CreatedBy: 1,
	})
	require.NoError(t, err)

	s, err := f.service.ApplyTemplate(ctx, ApplyTemplateInput{GroupID: testGroup, TemplateID: tmpl.ID, CreatedBy: 1})
	require.NoError(t, err)
	assert.Equal(t, "1200.00", s.Record.TotalAmount.StringFixed(2))
}

func TestApplyTemplate_MemberNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tmpl, err := f.templates.Create(ctx, CreateTemplateInput{
		GroupID:      testGroup,
		Name:         "Dinner",
		Strategy:     allocation.StrategyEqual,
		Participants: []TemplateParticipant{{UserID: 1}, {UserID: 2}},
		CreatedBy:    1,
	})
	require.NoError(t, err)

	f.members.members = []Member{{UserID: 1, DisplayName: "Ana"}}

	_, err = f.service.ApplyTemplate(ctx, ApplyTemplateInput{
		GroupID:     testGroup,
		TemplateID:  tmpl.ID,
		TotalAmount: decimal.RequireFromString("40"),
		CreatedBy:   1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTemplateMemberNotFound)

	var memberErr *TemplateMemberError
	require.ErrorAs(t, err, &memberErr)
	assert.Equal(t, int64(2), memberErr.UserID)
	assert.Equal(t, tmpl.ID, memberErr.TemplateID)

	all, err := f.service.ListSplits(ctx, testGroup, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestApplyTemplate_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ApplyTemplate(ctx, ApplyTemplateInput{GroupID: testGroup, TemplateID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	tmpl, err := f.templates.Create(ctx, CreateTemplateInput{
		GroupID:      testGroup,
		Name:         "Dinner",
		Strategy:     allocation.StrategyEqual,
		Participants: []TemplateParticipant{{UserID: 1}},
	})
	require.NoError(t, err)

	f.members.err = errors.New("directory down")
	_, err = f.service.ApplyTemplate(ctx, ApplyTemplateInput{GroupID: testGroup, TemplateID: tmpl.ID, TotalAmount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestAggregateStatus(t *testing.T) {
	ps := func(statuses ...ParticipantStatus) []*Participant {
		out := make([]*Participant, len(statuses))
		for i, s := range statuses {
			out[i] = &Participant{UserID: int64(i + 1), Status: s}
		}
		return out
	}

	tests := []struct {
		name string
		in   []*Participant
		want RecordStatus
	}{
		{"all pending", ps(ParticipantPending, ParticipantPending), RecordStatusPending},
		{"some confirmed", ps(ParticipantConfirmed, ParticipantPending), RecordStatusPending},
		{"all confirmed", ps(ParticipantConfirmed, ParticipantConfirmed), RecordStatusConfirmed},
		{"confirmed and settled", ps(ParticipantSettled, ParticipantConfirmed), RecordStatusConfirmed},
		{"all settled", ps(ParticipantSettled, ParticipantSettled), RecordStatusSettled},
		{"settled next to pending", ps(ParticipantSettled, ParticipantPending), RecordStatusPending},
		{"one decline wins", ps(ParticipantSettled, ParticipantDeclined, ParticipantConfirmed), RecordStatusDeclined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aggregateStatus(tt.in))
		})
	}
}

func TestCreateTemplate_Validation(t *testing.T) {
	w := pct
	tests := []struct {
		name         string
		strategy     allocation.Strategy
		participants []TemplateParticipant
		wantErr      error
	}{
		{
			name:         "amount weights in thousandths",
			strategy:     allocation.StrategyAmount,
			participants: []TemplateParticipant{{UserID: 1, Weight: w("33.335")}, {UserID: 2, Weight: w("66.665")}},
			wantErr:      ErrInvalidTemplate,
		},
		{
			name:         "custom weights in ten-thousandths",
			strategy:     allocation.StrategyCustom,
			participants: []TemplateParticipant{{UserID: 1, Weight: w("3.3333")}},
			wantErr:      ErrInvalidTemplate,
		},
		{
			name:         "percentage weights with five decimals",
			strategy:     allocation.StrategyPercentage,
			participants: []TemplateParticipant{{UserID: 1, Weight: w("50.00001")}, {UserID: 2, Weight: w("49.99999")}},
			wantErr:      ErrInvalidTemplate,
		},
		{
			name:         "percentage above 100",
			strategy:     allocation.StrategyPercentage,
			participants: []TemplateParticipant{{UserID: 1, Weight: w("150")}},
			wantErr:      ErrInvalidTemplate,
		},
		{
			name:         "missing weight",
			strategy:     allocation.StrategyAmount,
			participants: []TemplateParticipant{{UserID: 1}},
			wantErr:      ErrInvalidTemplate,
		},
		{
			name:         "same user twice",
			strategy:     allocation.StrategyEqual,
			participants: []TemplateParticipant{{UserID: 1}, {UserID: 1}},
			wantErr:      ErrDuplicateParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.templates.Create(context.Background(), CreateTemplateInput{
				GroupID:      testGroup,
				Name:         "Weekly shop",
				Strategy:     tt.strategy,
				Participants: tt.participants,
				CreatedBy:    1,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			list, err := f.templates.ListByGroup(context.Background(), testGroup)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}

	t.Run("four decimal percentages are kept", func(t *testing.T) {
		f := newFixture(t)

		tmpl, err := f.templates.Create(context.Background(), CreateTemplateInput{
			GroupID:  testGroup,
			Name:     "Thirds",
			Strategy: allocation.StrategyPercentage,
			Participants: []TemplateParticipant{
				{UserID: 1, Weight: w("33.3333")},
				{UserID: 2, Weight: w("33.3333")},
				{UserID: 3, Weight: w("33.3334")},
			},
			CreatedBy: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, "33.3334", tmpl.Participants[2].Weight.String())
	})
}
