package model

import "time"

// TicketStatus enumerates the lifecycle states of a ticket.  A ticket is
// created as RESERVED, moves forward through payment and usage, and ends
// in one of the terminal states.  The legal moves between statuses are
// owned by the ticket service; this package only defines the values as
// they are stored in the tickets.status column.
type TicketStatus string

const (
    StatusReserved  TicketStatus = "RESERVED"  // created, awaiting payment
    StatusPaid      TicketStatus = "PAID"      // payment received
    StatusActive    TicketStatus = "ACTIVE"    // activated for entry
    StatusUsed      TicketStatus = "USED"      // presented at the hall (terminal)
    StatusCompleted TicketStatus = "COMPLETED" // administratively closed (terminal)
    StatusCancelled TicketStatus = "CANCELLED" // cancelled before use (terminal)
)

// Valid reports whether s is one of the known status values.
func (s TicketStatus) Valid() bool {
    switch s {
    case StatusReserved, StatusPaid, StatusActive, StatusUsed, StatusCompleted, StatusCancelled:
        return true
    }
    return false
}

// Ticket mirrors a row of the `tickets` table.  A ticket links a customer
// to a movie showing and carries a price snapshot taken from the movie at
// creation time.  The snapshot is deliberate: changing the movie's price
// later must not change the value of tickets already sold.
//
// Fields:
//  ID           – primary key identifier.
//  TicketNumber – human-facing unique number (secondary unique key).
//  CustomerID   – owning viewer; immutable after creation.
//  CashierID    – staff member who first moved the ticket out of
//                 RESERVED; nullable, written at most once.
//  MovieID      – movie being shown; immutable after creation.
//  Showtime     – date and time of the showing.
//  Seat         – optional short seat label such as "A12".
//  Status       – lifecycle state, see TicketStatus.
//  PriceCents   – price snapshot in integer cents.
//  Notes        – free-text staff annotation.
//  CreatedAt    – creation timestamp (UTC).
//  UpdatedAt    – last update timestamp (UTC).
//  UsedAt       – stamped once, the first time the status becomes USED.
type Ticket struct {
    ID           uint64       // tickets.id
    TicketNumber string       // tickets.ticket_number
    CustomerID   uint64       // tickets.customer_id
    CashierID    *uint64      // tickets.cashier_id (nullable)
    MovieID      uint64       // tickets.movie_id
    Showtime     time.Time    // tickets.showtime
    Seat         string       // tickets.seat
    Status       TicketStatus // tickets.status
    PriceCents   int64        // tickets.price_cents
    Notes        string       // tickets.notes
    CreatedAt    time.Time    // tickets.created_at
    UpdatedAt    time.Time    // tickets.updated_at
    UsedAt       *time.Time   // tickets.used_at (nullable)
}
