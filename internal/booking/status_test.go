package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FranBistrovic/QuantumHotel/internal/model"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(model.StatusPending, model.StatusConfirmed))
	assert.True(t, CanTransition(model.StatusPending, model.StatusRejected))

	// terminal states never move
	assert.False(t, CanTransition(model.StatusConfirmed, model.StatusRejected))
	assert.False(t, CanTransition(model.StatusConfirmed, model.StatusPending))
	assert.False(t, CanTransition(model.StatusRejected, model.StatusConfirmed))
	assert.False(t, CanTransition(model.StatusPending, model.StatusPending))
	assert.False(t, CanTransition(model.StatusPending, "CANCELLED"))
}

func TestEditableAndBlocks(t *testing.T) {
	assert.True(t, Editable(model.StatusPending))
	assert.False(t, Editable(model.StatusConfirmed))
	assert.False(t, Editable(model.StatusRejected))

	assert.True(t, Blocks(model.StatusPending))
	assert.True(t, Blocks(model.StatusConfirmed))
	assert.False(t, Blocks(model.StatusRejected))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{model.StatusPending, model.StatusConfirmed, model.StatusRejected} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("HELD"))
	assert.False(t, ValidStatus(""))
}
