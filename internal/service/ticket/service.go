// Package ticket implements the ticket lifecycle engine: creation with a
// price snapshot, the status state machine, guarded field updates and the
// revenue/statistics queries.  The engine is stateless between calls;
// every state-changing operation reads, validates and writes the target
// ticket through a status-guarded update so that concurrent transitions
// on the same ticket cannot both succeed.
//
// The engine never resolves the acting user implicitly: callers pass the
// actor as an explicit parameter, which keeps the engine independently
// testable.  Role gating happens at the HTTP boundary; an optional
// Authorizer can additionally restrict transitions here.
//
// Note that nothing prevents two tickets for the same movie, showtime and
// seat.  Seating is effectively unlimited, as in the system this service
// replaces.
package ticket

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/cinema-store/internal/model"
	"github.com/iliyamo/cinema-store/internal/queue"
	"github.com/iliyamo/cinema-store/internal/repository"
	"github.com/iliyamo/cinema-store/internal/service/ticketnumber"
)

// createAttempts bounds the retries after a ticket-number collision.
const createAttempts = 3

// seatUpdateAttempts bounds the retries when a concurrent transition
// invalidates the status guard of a seat change.
const seatUpdateAttempts = 3

// Publisher sends ticket events to the message broker.  Publishing is
// best effort: a broker outage must not fail the customer's request.
type Publisher interface {
	PublishTicketStatusChanged(ctx context.Context, ev queue.TicketStatusChangedEvent) error
}

// Authorizer decides whether an acting user may perform a named action.
// When no Authorizer is configured every action is allowed; the HTTP
// layer is then the only gate.  A zero acting user is never consulted:
// unattributed calls, such as a customer cancelling their own ticket,
// carry no staff identity to check and rely on the route gating alone.
type Authorizer interface {
	Allow(actorID uint64, action string) bool
}

// Action names passed to the Authorizer.
const (
	ActionTransition = "ticket:transition"
	ActionDelete     = "ticket:delete"
)

// Service is the ticket lifecycle engine.
type Service struct {
	tickets   repository.TicketStore
	movies    repository.MovieStore
	numbers   ticketnumber.Generator
	publisher Publisher
	authz     Authorizer
	now       func() time.Time
}

// Option configures optional collaborators of the Service.
type Option func(*Service)

// WithPublisher attaches a broker publisher for status-change events.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithAuthorizer attaches a permission predicate consulted on
// state-changing operations.
func WithAuthorizer(a Authorizer) Option {
	return func(s *Service) { s.authz = a }
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService constructs the engine.  tickets, movies and numbers are
// required; options attach the rest.
func NewService(tickets repository.TicketStore, movies repository.MovieStore, numbers ticketnumber.Generator, opts ...Option) *Service {
	if tickets == nil || movies == nil || numbers == nil {
		panic("nil dependency passed to ticket.NewService")
	}
	s := &Service{
		tickets: tickets,
		movies:  movies,
		numbers: numbers,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput carries the parameters for Create.  Seat may be empty.
type CreateInput struct {
	CustomerID uint64
	MovieID    uint64
	Showtime   time.Time
	Seat       string
}

// Create reserves a ticket for a customer.  The movie must exist and be
// available; its current price is snapshotted onto the ticket and never
// recomputed afterwards, so later catalog price changes do not affect
// tickets already sold.  The ticket starts as RESERVED with no cashier.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.Ticket, error) {
	movie, err := s.movies.GetByID(ctx, in.MovieID)
	if err != nil {
		return model.Ticket{}, err
	}
	if !movie.Available {
		return model.Ticket{}, ErrMovieUnavailable
	}

	t := model.Ticket{
		CustomerID: in.CustomerID,
		MovieID:    movie.ID,
		Showtime:   in.Showtime.UTC(),
		Seat:       in.Seat,
		Status:     model.StatusReserved,
		PriceCents: movie.PriceCents,
	}
	// The number is only a candidate until the unique key accepts it;
	// retry with a fresh one on collision.
	for attempt := 0; attempt < createAttempts; attempt++ {
		t.TicketNumber = s.numbers.Next()
		err = s.tickets.Create(ctx, &t)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, repository.ErrTicketNumberExists) {
			return model.Ticket{}, err
		}
	}
	return model.Ticket{}, err
}

// Transition moves a ticket to a new status.  The move must be listed in
// the transition table; anything else, including any move out of a
// terminal status, fails with an InvalidTransitionError naming both
// statuses and leaves the stored ticket untouched.
//
// On success the first transition performed with a non-zero actingUserID
// permanently attributes the ticket to that staff member as its cashier;
// later transitions never reassign it.  Entering USED stamps usedAt once.
// Cancellation is not a separate operation: it is a transition to
// CANCELLED and the table governs which statuses allow it.
func (s *Service) Transition(ctx context.Context, ticketID uint64, to model.TicketStatus, actingUserID uint64) (model.Ticket, error) {
	if !to.Valid() {
		return model.Ticket{}, &InvalidTransitionError{From: "", To: to}
	}
	if s.authz != nil && actingUserID != 0 && !s.authz.Allow(actingUserID, ActionTransition) {
		return model.Ticket{}, ErrForbidden
	}

	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return model.Ticket{}, err
	}
	if !ValidTransition(current.Status, to) {
		return model.Ticket{}, &InvalidTransitionError{From: current.Status, To: to}
	}

	upd := repository.TransitionUpdate{
		From:      current.Status,
		To:        to,
		CashierID: actingUserID,
	}
	if to == model.StatusUsed {
		usedAt := s.now()
		upd.UsedAt = &usedAt
	}
	updated, ok, err := s.tickets.ApplyTransition(ctx, ticketID, upd)
	if err != nil {
		return model.Ticket{}, err
	}
	if !ok {
		// The status guard missed: the ticket was transitioned or
		// deleted concurrently between our read and write.  Re-read to
		// report the actual conflict.
		fresh, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			return model.Ticket{}, err
		}
		return model.Ticket{}, &InvalidTransitionError{From: fresh.Status, To: to}
	}

	s.publishStatusChanged(ctx, updated, current.Status)
	return updated, nil
}

// UpdateSeat changes the seat label.  Only RESERVED and PAID tickets may
// move seats; anything later in the pipeline is locked in.
//
// The status guard on the write can miss for two reasons: the seat
// column already held the requested value (MySQL reports zero affected
// rows for an identical update), or a concurrent transition changed the
// status between the read and the write.  The first case is an
// idempotent success; the second retries against the fresh status while
// it still allows seat changes, so the caller is never told a seat
// change succeeded that was not applied.
func (s *Service) UpdateSeat(ctx context.Context, ticketID uint64, seat string) (model.Ticket, error) {
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return model.Ticket{}, err
	}
	for attempt := 0; attempt < seatUpdateAttempts; attempt++ {
		if current.Status != model.StatusReserved && current.Status != model.StatusPaid {
			return model.Ticket{}, &InvalidStateError{Op: "change seat of", Status: current.Status}
		}
		updated, ok, err := s.tickets.UpdateSeat(ctx, ticketID, seat, current.Status)
		if err != nil {
			return model.Ticket{}, err
		}
		if ok {
			return updated, nil
		}
		fresh, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			return model.Ticket{}, err
		}
		if fresh.Seat == seat {
			if fresh.Status != model.StatusReserved && fresh.Status != model.StatusPaid {
				return model.Ticket{}, &InvalidStateError{Op: "change seat of", Status: fresh.Status}
			}
			return fresh, nil
		}
		current = fresh
	}
	return model.Ticket{}, ErrContention
}

// UpdateNotes replaces the free-text notes.  Notes are allowed in every
// status.
func (s *Service) UpdateNotes(ctx context.Context, ticketID uint64, notes string) (model.Ticket, error) {
	return s.tickets.UpdateNotes(ctx, ticketID, notes)
}

// Delete removes a ticket.  Only RESERVED and CANCELLED tickets may be
// deleted; tickets that progressed into the paid pipeline carry
// financial history and stay.
func (s *Service) Delete(ctx context.Context, ticketID uint64, actingUserID uint64) error {
	if s.authz != nil && actingUserID != 0 && !s.authz.Allow(actingUserID, ActionDelete) {
		return ErrForbidden
	}
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if current.Status != model.StatusReserved && current.Status != model.StatusCancelled {
		return &InvalidStateError{Op: "delete", Status: current.Status}
	}
	ok, err := s.tickets.Delete(ctx, ticketID, current.Status)
	if err != nil {
		return err
	}
	if !ok {
		fresh, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			// Already gone; deletion is idempotent enough.
			if errors.Is(err, repository.ErrTicketNotFound) {
				return nil
			}
			return err
		}
		return &InvalidStateError{Op: "delete", Status: fresh.Status}
	}
	return nil
}

// Get returns a ticket by id.
func (s *Service) Get(ctx context.Context, ticketID uint64) (model.Ticket, error) {
	return s.tickets.GetByID(ctx, ticketID)
}

// GetByNumber returns a ticket by its human-facing number.
func (s *Service) GetByNumber(ctx context.Context, number string) (model.Ticket, error) {
	return s.tickets.GetByNumber(ctx, number)
}

// FindByCustomer returns the customer's tickets with pagination.
func (s *Service) FindByCustomer(ctx context.Context, customerID uint64, q repository.TicketQuery) ([]model.Ticket, int64, error) {
	return s.tickets.ListByCustomer(ctx, customerID, q)
}

// FindByCashier returns the tickets attributed to a cashier.
func (s *Service) FindByCashier(ctx context.Context, cashierID uint64, q repository.TicketQuery) ([]model.Ticket, int64, error) {
	return s.tickets.ListByCashier(ctx, cashierID, q)
}

// FindByStatus returns tickets in the given status.
func (s *Service) FindByStatus(ctx context.Context, status model.TicketStatus, q repository.TicketQuery) ([]model.Ticket, int64, error) {
	return s.tickets.ListByStatus(ctx, status, q)
}

// Search matches the ticket number or the customer's first/last name with
// a case-insensitive substring.
func (s *Service) Search(ctx context.Context, text string, q repository.TicketQuery) ([]model.Ticket, int64, error) {
	return s.tickets.Search(ctx, text, q)
}

// FindBetweenDates returns tickets created in the inclusive range.
func (s *Service) FindBetweenDates(ctx context.Context, start, end time.Time, q repository.TicketQuery) ([]model.Ticket, int64, error) {
	return s.tickets.ListBetween(ctx, start, end, q)
}

// FindRecent returns the most recently created tickets, newest first.
func (s *Service) FindRecent(ctx context.Context, limit int) ([]model.Ticket, error) {
	return s.tickets.ListRecent(ctx, limit)
}

// FindRequiringProcessing returns every RESERVED or PAID ticket, oldest
// first, as the staff work queue.
func (s *Service) FindRequiringProcessing(ctx context.Context) ([]model.Ticket, error) {
	return s.tickets.ListRequiringProcessing(ctx)
}

// Count returns the total number of tickets.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.tickets.Count(ctx)
}

// CountByStatus returns the number of tickets in the given status.
func (s *Service) CountByStatus(ctx context.Context, status model.TicketStatus) (int64, error) {
	return s.tickets.CountByStatus(ctx, status)
}

// SumTotalByStatus sums the price snapshots of every ticket in the given
// status, zero when none match.
func (s *Service) SumTotalByStatus(ctx context.Context, status model.TicketStatus) (int64, error) {
	return s.tickets.SumPriceByStatus(ctx, status)
}

// CalculateRevenue sums the price of USED tickets created in the
// inclusive [start, end] range.  It always returns a number; an empty
// range yields zero.
func (s *Service) CalculateRevenue(ctx context.Context, start, end time.Time) (int64, error) {
	return s.tickets.RevenueBetween(ctx, start, end)
}

// publishStatusChanged emits a broker event for a successful transition.
// Failures are logged and swallowed: the transition is already durable.
func (s *Service) publishStatusChanged(ctx context.Context, t model.Ticket, from model.TicketStatus) {
	if s.publisher == nil {
		return
	}
	ev := queue.TicketStatusChangedEvent{
		TicketID:     t.ID,
		TicketNumber: t.TicketNumber,
		CustomerID:   t.CustomerID,
		MovieID:      t.MovieID,
		FromStatus:   string(from),
		ToStatus:     string(t.Status),
		PriceCents:   t.PriceCents,
		OccurredAt:   s.now().Format(time.RFC3339),
	}
	if t.CashierID != nil {
		ev.CashierID = *t.CashierID
	}
	if err := s.publisher.PublishTicketStatusChanged(ctx, ev); err != nil {
		log.Printf("ticket: publish status change for %s failed: %v", t.TicketNumber, err)
	}
}
