// Package ticketnumber generates the human-facing ticket numbers printed
// on receipts.  Generation sits behind a small interface so the ticket
// service can be tested with a fixed sequence and deployments can choose
// between a timestamp scheme and a random one.  Uniqueness is enforced by
// the database's unique key, not by the generator; the ticket service
// retries on a collision.
package ticketnumber

import (
    "strconv"
    "strings"
    "time"

    "github.com/google/uuid"
)

// Prefix is the default prefix on every generated number.
const Prefix = "TKT-"

// Generator produces candidate ticket numbers.
type Generator interface {
    Next() string
}

// Timestamp generates numbers of the form TKT-<unix milliseconds>.  Two
// calls within the same millisecond produce the same candidate; callers
// must be prepared to retry on a unique-key violation.
type Timestamp struct {
    // Now is the clock source; nil means time.Now.  Tests inject a
    // fixed clock here.
    Now func() time.Time
}

// Next returns the next candidate number.
func (g Timestamp) Next() string {
    now := time.Now
    if g.Now != nil {
        now = g.Now
    }
    return Prefix + strconv.FormatInt(now().UnixMilli(), 10)
}

// Random generates numbers from a random UUID, keeping only the first
// block to stay short enough for a printed ticket.  Collisions are
// vanishingly rare but still handled by the caller's retry.
type Random struct{}

// Next returns the next candidate number.
func (Random) Next() string {
    id := uuid.NewString()
    return Prefix + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:12])
}
