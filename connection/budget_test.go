package connection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudget(t *testing.T) {
	b := NewBudget(2)

	assert.True(t, b.CanSend())
	assert.Equal(t, 2, b.Remaining())

	b.Record()
	b.Record()
	assert.False(t, b.CanSend())
	assert.Equal(t, 0, b.Remaining())

	// spent budget stays capped
	b.Record()
	assert.Equal(t, 2, b.Sent)
}

func TestBudgetNegativeClampsToZero(t *testing.T) {
	b := NewBudget(-3)
	assert.Equal(t, 0, b.Requested)
	assert.False(t, b.CanSend())
}
