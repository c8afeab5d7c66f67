package ticket

import "github.com/iliyamo/cinema-store/internal/model"

// transitionMap lists, for every status, the statuses a ticket may move
// to next.  Terminal statuses map to an empty list.  Every state may be
// cancelled until it is used or otherwise closed.
var transitionMap = map[model.TicketStatus][]model.TicketStatus{
	model.StatusReserved:  {model.StatusPaid, model.StatusCancelled},
	model.StatusPaid:      {model.StatusActive, model.StatusCancelled},
	model.StatusActive:    {model.StatusUsed, model.StatusCancelled},
	model.StatusUsed:      {},
	model.StatusCompleted: {},
	model.StatusCancelled: {},
}

// ValidTransition reports whether a ticket in status from may move to to.
func ValidTransition(from, to model.TicketStatus) bool {
	allowed, ok := transitionMap[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves the given status.
func Terminal(s model.TicketStatus) bool {
	allowed, ok := transitionMap[s]
	return ok && len(allowed) == 0
}
