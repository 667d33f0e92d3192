package loan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoan(t *testing.T) {
	at := time.Date(2025, 8, 28, 9, 30, 15, 500, time.Local)
	l := NewLoan("LN2025082800003", "3", "11", at, 14)

	assert.Equal(t, StatusActive, l.Status)
	assert.True(t, l.IsOpen())
	assert.Nil(t, l.ReturnedAt)
	assert.Equal(t, "2025-08-28 09:30:15", l.BorrowedAt.String())
	assert.Equal(t, "2025-09-11 09:30:15", l.DueAt.String())
}

func TestLoan_StateMachine(t *testing.T) {
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.Local)

	t.Run("借阅中可以归还", func(t *testing.T) {
		l := &Loan{Status: StatusActive}
		require.NoError(t, l.Return(now))
		assert.Equal(t, StatusReturned, l.Status)
		require.NotNil(t, l.ReturnedAt)
		assert.Equal(t, "2025-09-01 10:00:00", l.ReturnedAt.String())
	})

	t.Run("逾期可以归还", func(t *testing.T) {
		l := &Loan{Status: StatusOverdue}
		assert.NoError(t, l.Return(now))
	})

	t.Run("已归还是终态", func(t *testing.T) {
		l := &Loan{Status: StatusReturned}
		assert.ErrorIs(t, l.Return(now), ErrInvalidStatusTransition)
		assert.False(t, l.IsOpen())
		assert.False(t, l.CanTransitionTo(StatusActive))
	})
}

func TestFormatLoanNo(t *testing.T) {
	day := time.Date(2025, 12, 28, 23, 59, 0, 0, time.Local)
	assert.Equal(t, "LN2025122800002", FormatLoanNo(day, 2))
	assert.Equal(t, "LN2025122812345", FormatLoanNo(day, 12345))
	assert.Equal(t, "20251228", DayKey(day))
}

func TestLoan_JSON(t *testing.T) {
	l := &Loan{
		ID:         "2",
		LoanNo:     "LN20251228000002",
		UserID:     "3",
		CopyID:     "10",
		BorrowedAt: MustParseDateTime("2025-08-08 10:00:00"),
		DueAt:      MustParseDateTime("2025-08-29 10:00:00"),
		Status:     StatusOverdue,
	}

	raw, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id":"2","loanNo":"LN20251228000002","userId":"3","copyId":"10",
		"borrowedAt":"2025-08-08 10:00:00","dueAt":"2025-08-29 10:00:00",
		"returnedAt":null,"status":3
	}`, string(raw))

	var decoded Loan
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, l.BorrowedAt.Equal(decoded.BorrowedAt.Time))
	assert.Nil(t, decoded.ReturnedAt)

	assert.Error(t, json.Unmarshal([]byte(`{"dueAt":"yesterday"}`), &decoded))
}
