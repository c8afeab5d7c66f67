package ticket

import (
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-store/internal/model"
)

// ErrMovieUnavailable is returned by Create when the referenced movie
// exists but is not on sale.
var ErrMovieUnavailable = errors.New("movie not available for sale")

// ErrForbidden is returned when an Authorizer rejects the acting user for
// the requested operation.
var ErrForbidden = errors.New("operation not permitted for acting user")

// ErrContention is returned when repeated concurrent modifications keep a
// guarded update from being applied.  The caller may retry.
var ErrContention = errors.New("ticket modified concurrently, retry")

// InvalidTransitionError reports a status change that is not in the
// transition table.  It always names both statuses so callers and logs
// can see exactly which move was rejected.
type InvalidTransitionError struct {
	From model.TicketStatus
	To   model.TicketStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// InvalidStateError reports a mutation (seat change, delete) attempted
// while the ticket is in a status that forbids it.
type InvalidStateError struct {
	Op     string
	Status model.TicketStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s ticket in status %s", e.Op, e.Status)
}
