// Package queue defines message payloads exchanged over the message broker,
// the publisher that emits them and the background consumer that records
// them to the audit log.
package queue

// TicketStatusChangedEvent is published after every successful ticket
// status transition. It contains enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type TicketStatusChangedEvent struct {
    TicketID     uint64 `json:"ticket_id"`
    TicketNumber string `json:"ticket_number"`
    CustomerID   uint64 `json:"customer_id"`
    CashierID    uint64 `json:"cashier_id,omitempty"`
    MovieID      uint64 `json:"movie_id"`
    FromStatus   string `json:"from_status"`
    ToStatus     string `json:"to_status"`
    PriceCents   int64  `json:"price_cents"`
    OccurredAt   string `json:"occurred_at"`
}
