package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/splitledger/internal/split"
	"github.com/fkhayef/splitledger/internal/split/allocation"
	"github.com/fkhayef/splitledger/pkg/middleware"
)

type directory []split.Member

func (d directory) GetGroupMembers(context.Context, int64) ([]split.Member, error) {
	return d, nil
}

type failingSource struct{}

func (failingSource) ListSplits(context.Context, int64, *split.RecordStatus) ([]*split.SplitWithParticipants, error) {
	return nil, errors.New("connection reset")
}

var members = directory{
	{UserID: 1, DisplayName: "Ana"},
	{UserID: 2, DisplayName: "Ben"},
	{UserID: 3, DisplayName: "Cy"},
}

func equalSplit(t *testing.T, svc *split.Service, creator int64, total string, users ...int64) *split.SplitWithParticipants {
	t.Helper()
	inputs := make([]allocation.Input, len(users))
	for i, u := range users {
		inputs[i] = allocation.Input{UserID: u}
	}
	created, err := svc.CreateSplit(context.Background(), split.CreateSplitInput{
		GroupID:      1,
		TotalAmount:  decimal.RequireFromString(total),
		Strategy:     allocation.StrategyEqual,
		Participants: inputs,
		CreatedBy:    creator,
	})
	require.NoError(t, err)
	return created
}

// seed builds a group where Ana and Ben cancel out, Ben owes Cy 20.00,
// one split is declined and one share is settled.
func seed(t *testing.T) *split.Service {
	t.Helper()
	store := split.NewMemoryStore()
	svc := split.NewService(store, store, members)
	ctx := context.Background()

	dinner := equalSplit(t, svc, 1, "90.00", 1, 2, 3)
	equalSplit(t, svc, 2, "60.00", 1, 2)
	equalSplit(t, svc, 3, "40.00", 2, 3)
	declined := equalSplit(t, svc, 1, "100.00", 1, 3)

	_, err := svc.Decline(ctx, 1, declined.Record.ID, 3, nil)
	require.NoError(t, err)
	_, err = svc.Settle(ctx, 1, dinner.Record.ID, 3)
	require.NoError(t, err)

	return svc
}

func TestGroupBalances(t *testing.T) {
	svc := NewService(seed(t), members, nil)

	got, err := svc.GroupBalances(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, got.Members, 3)
	nets := map[int64]string{}
	for _, m := range got.Members {
		nets[m.UserID] = m.Net.StringFixed(2)
	}
	assert.Equal(t, map[int64]string{1: "0.00", 2: "-20.00", 3: "20.00"}, nets)
	assert.True(t, got.Members[0].Owed.IsZero(), "mutual debts cancel")
	assert.Equal(t, "20.00", got.Members[1].Owing.StringFixed(2))

	require.Len(t, got.Debts, 1)
	assert.Equal(t, int64(2), got.Debts[0].From)
	assert.Equal(t, int64(3), got.Debts[0].To)
	assert.True(t, got.Debts[0].Amount.Equal(decimal.NewFromInt(20)))

	require.Len(t, got.Transfers, 1)
	assert.Equal(t, int64(2), got.Transfers[0].From)
	assert.Equal(t, int64(3), got.Transfers[0].To)
	assert.True(t, got.Transfers[0].Amount.Equal(got.Debts[0].Amount))
}

func TestNetBalances(t *testing.T) {
	svc := NewService(seed(t), members, nil)
	ctx := context.Background()

	mine, err := svc.NetBalances(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "You owe Cy 20.00", mine[0].ToResponse().Message)

	theirs, err := svc.NetBalances(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "Ben owes you 20.00", theirs[0].ToResponse().Message)

	pair, err := svc.NetBalanceWithUser(ctx, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "You and Ben are settled up", pair.ToResponse().Message)

	_, err = svc.NetBalanceWithUser(ctx, 1, 2, 2)
	assert.ErrorIs(t, err, ErrCannotBalanceSelf)

	_, err = NewService(failingSource{}, members, nil).GroupBalances(ctx, 1)
	assert.Error(t, err)
}

func TestSimplify(t *testing.T) {
	balance := func(id int64, net int64) *MemberBalance {
		return &MemberBalance{UserID: id, Net: decimal.NewFromInt(net)}
	}

	transfers := Simplify([]*MemberBalance{
		balance(1, -30),
		balance(2, 10),
		balance(3, 25),
		balance(4, -5),
	})

	want := []Debt{
		{From: 1, To: 3, Amount: decimal.NewFromInt(25)},
		{From: 1, To: 2, Amount: decimal.NewFromInt(5)},
		{From: 4, To: 2, Amount: decimal.NewFromInt(5)},
	}
	require.Len(t, transfers, len(want))
	for i := range want {
		assert.Equal(t, want[i].From, transfers[i].From)
		assert.Equal(t, want[i].To, transfers[i].To)
		assert.True(t, want[i].Amount.Equal(transfers[i].Amount), "transfer %d: %s", i, transfers[i].Amount)
	}

	assert.Empty(t, Simplify([]*MemberBalance{balance(1, 0)}))
}

func TestHandler(t *testing.T) {
	svc := NewService(seed(t), members, nil)

	r := chi.NewRouter()
	r.Use(middleware.TestUserMiddleware)
	r.Mount("/groups/{groupId}/balances", NewHandler(svc).Routes())

	do := func(path, user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Test-User-ID", user)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := do("/groups/1/balances", "1")
	require.Equal(t, http.StatusOK, rec.Code)
	var sheet struct {
		Data GroupBalancesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sheet))
	require.Len(t, sheet.Data.Transfers, 1)
	assert.Equal(t, "20.00", sheet.Data.Transfers[0].Amount)

	rec = do("/groups/1/balances/3", "2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":"20.00"`)

	assert.Equal(t, http.StatusOK, do("/groups/1/balances/me", "2").Code)
	assert.Equal(t, http.StatusBadRequest, do("/groups/1/balances/2", "2").Code)
	assert.Equal(t, http.StatusBadRequest, do("/groups/1/balances/x", "2").Code)
}
