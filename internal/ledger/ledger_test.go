package ledger

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/backoffice-finance-go/internal/calculations"
)

var (
	loanStart = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	ledgerNow = time.Date(2025, time.April, 20, 14, 0, 0, 0, time.UTC)
)

func testSchedule(t *testing.T) *calculations.Schedule {
	t.Helper()
	s, err := calculations.BuildSchedule(12000, 12, 12, loanStart, ledgerNow)
	require.NoError(t, err)
	return s
}

func snapshot(s *State) State {
	return State{
		LoanID:  s.LoanID,
		Paid:    slices.Clone(s.Paid),
		History: slices.Clone(s.History),
		Closed:  s.Closed,
	}
}

func TestMarkPaid(t *testing.T) {
	sched := testSchedule(t)
	st := NewState("loan-1")

	out := st.MarkPaid(sched, 2, ledgerNow)
	require.True(t, out.Applied)
	assert.Equal(t, []int{2}, st.Paid)
	require.Len(t, st.History, 1)
	assert.Equal(t, 2, st.History[0].Installment)
	assert.Equal(t, sched.Payment, st.History[0].Amount)
	assert.Equal(t, ledgerNow, st.History[0].PaidAt)

	out = st.MarkPaid(sched, 2, ledgerNow.Add(time.Hour))
	assert.False(t, out.Applied)
	assert.Equal(t, ReasonAlreadyPaid, out.Reason)
	assert.Len(t, st.History, 1)
}

func TestMarkPaid_KeepsPaidSorted(t *testing.T) {
	sched := testSchedule(t)
	st := NewState("loan-1")

	for _, n := range []int{5, 1, 12, 3} {
		require.True(t, st.MarkPaid(sched, n, ledgerNow).Applied)
	}
	assert.Equal(t, []int{1, 3, 5, 12}, st.Paid)
	assert.True(t, st.IsPaid(12))
	assert.False(t, st.IsPaid(4))
}

func TestMarkPaid_DoesNotDuplicateHistory(t *testing.T) {
	sched := testSchedule(t)
	st := NewState("loan-1")
	st.History = []PaymentRecord{{Installment: 4, Amount: 1, PaidAt: loanStart}}

	require.True(t, st.MarkPaid(sched, 4, ledgerNow).Applied)
	require.Len(t, st.History, 1)
	assert.Equal(t, loanStart, st.History[0].PaidAt)
}

func TestMarkPaid_NoOps(t *testing.T) {
	sched := testSchedule(t)

	tests := []struct {
		name   string
		state  *State
		number int
		reason string
	}{
		{"nil state", nil, 1, ReasonUnknownLoan},
		{"empty loan id", NewState(""), 1, ReasonUnknownLoan},
		{"zero installment", NewState("loan-1"), 0, ReasonOutOfRange},
		{"beyond term", NewState("loan-1"), 13, ReasonOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.state.MarkPaid(sched, tt.number, ledgerNow)
			assert.False(t, out.Applied)
			assert.Equal(t, tt.reason, out.Reason)
		})
	}
}

func TestMarkPaidThenUnpaid_RestoresState(t *testing.T) {
	sched := testSchedule(t)
	st := NewState("loan-1")
	require.True(t, st.MarkPaid(sched, 1, loanStart).Applied)
	require.True(t, st.MarkPaid(sched, 7, loanStart).Applied)
	before := snapshot(st)

	require.True(t, st.MarkPaid(sched, 3, ledgerNow).Applied)
	require.True(t, st.MarkUnpaid(3).Applied)

	assert.Equal(t, before.Paid, st.Paid)
	assert.Equal(t, before.History, st.History)
	assert.Equal(t, before.Closed, st.Closed)
}

func TestMarkUnpaid_NoOps(t *testing.T) {
	sched := testSchedule(t)

	st := NewState("loan-1")
	out := st.MarkUnpaid(2)
	assert.False(t, out.Applied)
	assert.Equal(t, ReasonNotPaid, out.Reason)

	var missing *State
	assert.Equal(t, ReasonUnknownLoan, missing.MarkUnpaid(2).Reason)

	require.True(t, st.EarlyClose(sched, ledgerNow).Applied)
	out = st.MarkUnpaid(2)
	assert.False(t, out.Applied)
	assert.Equal(t, ReasonAlreadyClosed, out.Reason)
	assert.True(t, st.IsPaid(2))
}

func TestEarlyClose(t *testing.T) {
	sched := testSchedule(t)
	st := NewState("loan-1")
	require.True(t, st.MarkPaid(sched, 1, loanStart).Applied)

	require.True(t, st.EarlyClose(sched, ledgerNow).Applied)

	assert.True(t, st.Closed)
	assert.Len(t, st.Paid, 12)
	require.Len(t, st.History, 12)
	for _, r := range st.History {
		if r.Installment == 1 {
			assert.Equal(t, loanStart, r.PaidAt)
		} else {
			assert.Equal(t, ledgerNow, r.PaidAt)
		}
	}
}

func TestEarlyClose_Idempotent(t *testing.T) {
	sched := testSchedule(t)
	st := NewState("loan-1")

	require.True(t, st.EarlyClose(sched, ledgerNow).Applied)
	once := snapshot(st)

	out := st.EarlyClose(sched, ledgerNow.Add(24*time.Hour))
	assert.False(t, out.Applied)
	assert.Equal(t, ReasonAlreadyClosed, out.Reason)
	assert.Equal(t, once, snapshot(st))
}

func TestEarlyClose_UnknownLoan(t *testing.T) {
	out := NewState("").EarlyClose(testSchedule(t), ledgerNow)
	assert.False(t, out.Applied)
	assert.Equal(t, ReasonUnknownLoan, out.Reason)
}
