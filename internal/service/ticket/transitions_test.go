package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/cinema-store/internal/model"
)

func TestValidTransitionTable(t *testing.T) {
	allowed := []struct {
		from model.TicketStatus
		to   model.TicketStatus
	}{
		{model.StatusReserved, model.StatusPaid},
		{model.StatusReserved, model.StatusCancelled},
		{model.StatusPaid, model.StatusActive},
		{model.StatusPaid, model.StatusCancelled},
		{model.StatusActive, model.StatusUsed},
		{model.StatusActive, model.StatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, ValidTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	// Everything else is forbidden, including self-transitions and any
	// move out of a terminal status.
	all := []model.TicketStatus{
		model.StatusReserved, model.StatusPaid, model.StatusActive,
		model.StatusUsed, model.StatusCompleted, model.StatusCancelled,
	}
	allowedSet := map[[2]model.TicketStatus]bool{}
	for _, tc := range allowed {
		allowedSet[[2]model.TicketStatus{tc.from, tc.to}] = true
	}
	for _, from := range all {
		for _, to := range all {
			if allowedSet[[2]model.TicketStatus{from, to}] {
				continue
			}
			assert.False(t, ValidTransition(from, to), "%s -> %s should be rejected", from, to)
		}
	}
}

func TestValidTransitionUnknownStatus(t *testing.T) {
	assert.False(t, ValidTransition(model.TicketStatus("SHIPPED"), model.StatusPaid))
	assert.False(t, ValidTransition(model.StatusReserved, model.TicketStatus("SHIPPED")))
}

func TestTerminal(t *testing.T) {
	assert.True(t, Terminal(model.StatusUsed))
	assert.True(t, Terminal(model.StatusCompleted))
	assert.True(t, Terminal(model.StatusCancelled))
	assert.False(t, Terminal(model.StatusReserved))
	assert.False(t, Terminal(model.StatusPaid))
	assert.False(t, Terminal(model.StatusActive))
	assert.False(t, Terminal(model.TicketStatus("SHIPPED")))
}
