package bookcopy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCopy(t *testing.T) {
	c, err := NewCopy("6", "BC2025000012", "A-9-20", 0)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, c.Status)

	_, err = NewCopy("6", "BC2025000013", "A-9-21", Status(7))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCopy_LendAndRelease(t *testing.T) {
	c := &Copy{ID: "11", Status: StatusAvailable}

	require.NoError(t, c.Lend())
	assert.Equal(t, StatusOnLoan, c.Status)
	assert.False(t, c.CanBorrow())

	assert.ErrorIs(t, c.Lend(), ErrCopyUnavailable, "已借出的副本不能再借")

	c.Release()
	assert.Equal(t, StatusAvailable, c.Status)
	assert.True(t, c.CanBorrow())
}

func TestCopy_Matches(t *testing.T) {
	c := &Copy{CopyCode: "BC2025000011", Location: "A-9-18"}
	assert.True(t, c.Matches("bc2025"))
	assert.True(t, c.Matches("9-18"))
	assert.False(t, c.Matches("B-1"))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "在架", StatusAvailable.String())
	assert.Equal(t, "借出", StatusOnLoan.String())
	assert.Equal(t, "未知状态", Status(0).String())
}
