package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/cinema-store/internal/model"
)

// TicketQuery defines pagination and sorting for ticket listings.  A zero
// value is usable; normalize() applies the defaults.
type TicketQuery struct {
	Page     int    // 1-based page number
	PageSize int    // rows per page, capped at maxPageSize
	SortBy   string // one of created_at, showtime, price, status
	SortDesc bool   // descending order when true
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (q TicketQuery) normalize() TicketQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	return q
}

// orderClause maps the requested sort field onto a whitelisted column so
// that user input never reaches the ORDER BY clause directly.
func (q TicketQuery) orderClause() string {
	col := "t.created_at"
	switch strings.ToLower(q.SortBy) {
	case "showtime":
		col = "t.showtime"
	case "price":
		col = "t.price_cents"
	case "status":
		col = "t.status"
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	return col + " " + dir
}

// TransitionUpdate carries the compare-and-set parameters for a status
// transition.  From is the status the caller validated against; the UPDATE
// only matches while the row is still in that status, so two concurrent
// transitions on the same ticket cannot both succeed.
type TransitionUpdate struct {
	From      model.TicketStatus
	To        model.TicketStatus
	CashierID uint64     // acting staff member; 0 means none
	UsedAt    *time.Time // non-nil only when entering USED
}

// TicketStore is the persistence boundary consumed by the ticket service.
// The MySQL implementation below is the production one; tests substitute
// mocks.
type TicketStore interface {
	Create(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, id uint64) (model.Ticket, error)
	GetByNumber(ctx context.Context, number string) (model.Ticket, error)
	ApplyTransition(ctx context.Context, id uint64, upd TransitionUpdate) (model.Ticket, bool, error)
	UpdateSeat(ctx context.Context, id uint64, seat string, from model.TicketStatus) (model.Ticket, bool, error)
	UpdateNotes(ctx context.Context, id uint64, notes string) (model.Ticket, error)
	Delete(ctx context.Context, id uint64, from model.TicketStatus) (bool, error)
	ListByCustomer(ctx context.Context, customerID uint64, q TicketQuery) ([]model.Ticket, int64, error)
	ListByCashier(ctx context.Context, cashierID uint64, q TicketQuery) ([]model.Ticket, int64, error)
	ListByStatus(ctx context.Context, status model.TicketStatus, q TicketQuery) ([]model.Ticket, int64, error)
	Search(ctx context.Context, text string, q TicketQuery) ([]model.Ticket, int64, error)
	ListBetween(ctx context.Context, start, end time.Time, q TicketQuery) ([]model.Ticket, int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.Ticket, error)
	ListRequiringProcessing(ctx context.Context) ([]model.Ticket, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.TicketStatus) (int64, error)
	SumPriceByStatus(ctx context.Context, status model.TicketStatus) (int64, error)
	RevenueBetween(ctx context.Context, start, end time.Time) (int64, error)
}

// TicketRepo provides data access to the tickets table.  All timestamps
// are stored and compared in UTC.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

var _ TicketStore = (*TicketRepo)(nil)

// ticketCols is the column list shared by every SELECT in this file.  The
// alias `t` is applied so the same list works in joined queries.
const ticketCols = `t.id, t.ticket_number, t.customer_id, t.cashier_id, t.movie_id,
	t.showtime, t.seat, t.status, t.price_cents, t.notes,
	t.created_at, t.updated_at, t.used_at`

// scanTicket reads one ticket row from any source implementing Scan.
func scanTicket(row interface{ Scan(dest ...any) error }) (model.Ticket, error) {
	var (
		t         model.Ticket
		cashierID sql.NullInt64
		seat      sql.NullString
		notes     sql.NullString
		usedAt    sql.NullTime
	)
	err := row.Scan(&t.ID, &t.TicketNumber, &t.CustomerID, &cashierID, &t.MovieID,
		&t.Showtime, &seat, &t.Status, &t.PriceCents, &notes,
		&t.CreatedAt, &t.UpdatedAt, &usedAt)
	if err != nil {
		return model.Ticket{}, err
	}
	if cashierID.Valid {
		id := uint64(cashierID.Int64)
		t.CashierID = &id
	}
	t.Seat = seat.String
	t.Notes = notes.String
	if usedAt.Valid {
		ts := usedAt.Time.UTC()
		t.UsedAt = &ts
	}
	return t, nil
}

// Create inserts a new ticket and populates the generated ID and the
// database-assigned timestamps on the provided value.  A duplicate ticket
// number is reported as ErrTicketNumberExists so the caller can retry
// with a new number.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	var cashier any
	if t.CashierID != nil {
		cashier = *t.CashierID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (ticket_number, customer_id, cashier_id, movie_id, showtime, seat, status, price_cents, notes)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		t.TicketNumber, t.CustomerID, cashier, t.MovieID,
		t.Showtime.UTC(), t.Seat, string(t.Status), t.PriceCents, t.Notes)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrTicketNumberExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	// Query back the full row to populate created_at/updated_at defaults.
	stored, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = stored
	return nil
}

// GetByID fetches a ticket by primary key.  It returns ErrTicketNotFound
// when no row matches.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.Ticket, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ticketCols+` FROM tickets t WHERE t.id = ? LIMIT 1`, id)
	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return model.Ticket{}, ErrTicketNotFound
	}
	return t, err
}

// GetByNumber fetches a ticket by its human-facing unique number.
func (r *TicketRepo) GetByNumber(ctx context.Context, number string) (model.Ticket, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ticketCols+` FROM tickets t WHERE t.ticket_number = ? LIMIT 1`, number)
	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return model.Ticket{}, ErrTicketNotFound
	}
	return t, err
}

// ApplyTransition performs the status change as a single compare-and-set
// UPDATE guarded by the previous status, then reads the row back within
// the same transaction.  It returns false when the guard did not match,
// which means the row was either deleted or transitioned concurrently;
// the caller decides what that means.  COALESCE keeps the first cashier
// and the first used_at stamp: later writes never overwrite them.
func (r *TicketRepo) ApplyTransition(ctx context.Context, id uint64, upd TransitionUpdate) (model.Ticket, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Ticket{}, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var usedAt any
	if upd.UsedAt != nil {
		usedAt = upd.UsedAt.UTC()
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE tickets
		 SET status = ?,
		     cashier_id = COALESCE(cashier_id, NULLIF(?, 0)),
		     used_at = COALESCE(used_at, ?),
		     updated_at = UTC_TIMESTAMP()
		 WHERE id = ? AND status = ?`,
		string(upd.To), upd.CashierID, usedAt, id, string(upd.From))
	if err != nil {
		return model.Ticket{}, false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Ticket{}, false, err
	}
	if affected == 0 {
		return model.Ticket{}, false, nil
	}
	row := tx.QueryRowContext(ctx,
		`SELECT `+ticketCols+` FROM tickets t WHERE t.id = ? LIMIT 1`, id)
	t, err := scanTicket(row)
	if err != nil {
		return model.Ticket{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return model.Ticket{}, false, err
	}
	committed = true
	return t, true, nil
}

// UpdateSeat changes the seat label while the ticket is still in the
// status the caller validated.  The status guard makes the write safe
// against a concurrent transition between read and write.
func (r *TicketRepo) UpdateSeat(ctx context.Context, id uint64, seat string, from model.TicketStatus) (model.Ticket, bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET seat = ?, updated_at = UTC_TIMESTAMP() WHERE id = ? AND status = ?`,
		seat, id, string(from))
	if err != nil {
		return model.Ticket{}, false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Ticket{}, false, err
	}
	if affected == 0 {
		return model.Ticket{}, false, nil
	}
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Ticket{}, false, err
	}
	return t, true, nil
}

// UpdateNotes replaces the free-text notes.  Notes are permitted in any
// status so no guard is applied.
func (r *TicketRepo) UpdateNotes(ctx context.Context, id uint64, notes string) (model.Ticket, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET notes = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
		notes, id)
	if err != nil {
		return model.Ticket{}, err
	}
	// GetByID reports ErrTicketNotFound when the id matched no row.
	return r.GetByID(ctx, id)
}

// Delete removes a ticket, guarded by the status the caller validated.
// Returns false when the guard did not match.
func (r *TicketRepo) Delete(ctx context.Context, id uint64, from model.TicketStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tickets WHERE id = ? AND status = ?`, id, string(from))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// list runs a COUNT plus a paged SELECT for the given condition.  Every
// public listing method funnels through here so pagination behaves the
// same everywhere.
func (r *TicketRepo) list(ctx context.Context, join, cond string, args []any, q TicketQuery) ([]model.Ticket, int64, error) {
	q = q.normalize()

	var total int64
	countSQL := `SELECT COUNT(*) FROM tickets t ` + join + ` WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize
	dataSQL := `SELECT ` + ticketCols + ` FROM tickets t ` + join + ` WHERE ` + cond +
		` ORDER BY ` + q.orderClause() + ` LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Ticket, 0, limit)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListByCustomer returns the customer's tickets with pagination.
func (r *TicketRepo) ListByCustomer(ctx context.Context, customerID uint64, q TicketQuery) ([]model.Ticket, int64, error) {
	return r.list(ctx, "", "t.customer_id = ?", []any{customerID}, q)
}

// ListByCashier returns the tickets attributed to a cashier.
func (r *TicketRepo) ListByCashier(ctx context.Context, cashierID uint64, q TicketQuery) ([]model.Ticket, int64, error) {
	return r.list(ctx, "", "t.cashier_id = ?", []any{cashierID}, q)
}

// ListByStatus returns tickets in the given status.
func (r *TicketRepo) ListByStatus(ctx context.Context, status model.TicketStatus, q TicketQuery) ([]model.Ticket, int64, error) {
	return r.list(ctx, "", "t.status = ?", []any{string(status)}, q)
}

// Search matches the ticket number or the customer's first/last name with
// a case-insensitive substring.
func (r *TicketRepo) Search(ctx context.Context, text string, q TicketQuery) ([]model.Ticket, int64, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(text)) + "%"
	return r.list(ctx,
		"JOIN users u ON u.id = t.customer_id",
		"(LOWER(t.ticket_number) LIKE ? OR LOWER(u.first_name) LIKE ? OR LOWER(u.last_name) LIKE ?)",
		[]any{pattern, pattern, pattern}, q)
}

// ListBetween returns tickets created in the inclusive [start, end] range.
func (r *TicketRepo) ListBetween(ctx context.Context, start, end time.Time, q TicketQuery) ([]model.Ticket, int64, error) {
	return r.list(ctx, "", "t.created_at BETWEEN ? AND ?", []any{start.UTC(), end.UTC()}, q)
}

// ListRecent returns the most recently created tickets, newest first.
func (r *TicketRepo) ListRecent(ctx context.Context, limit int) ([]model.Ticket, error) {
	if limit < 1 {
		limit = defaultPageSize
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ticketCols+` FROM tickets t ORDER BY t.created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Ticket, 0, limit)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListRequiringProcessing returns the staff work queue: every RESERVED or
// PAID ticket, oldest first so the counter handles them first-in
// first-out.
func (r *TicketRepo) ListRequiringProcessing(ctx context.Context) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ticketCols+` FROM tickets t
		 WHERE t.status IN (?, ?) ORDER BY t.created_at ASC`,
		string(model.StatusReserved), string(model.StatusPaid))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count returns the total number of tickets.
func (r *TicketRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&n)
	return n, err
}

// CountByStatus returns the number of tickets in the given status.
func (r *TicketRepo) CountByStatus(ctx context.Context, status model.TicketStatus) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE status = ?`, string(status)).Scan(&n)
	return n, err
}

// SumPriceByStatus sums the price snapshots of every ticket in the given
// status.  COALESCE turns the NULL of an empty SUM into zero so revenue
// never surfaces as an absent value.
func (r *TicketRepo) SumPriceByStatus(ctx context.Context, status model.TicketStatus) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(price_cents), 0) FROM tickets WHERE status = ?`,
		string(status)).Scan(&sum)
	return sum, err
}

// RevenueBetween sums the price of USED tickets created in the inclusive
// [start, end] range.  Empty ranges yield zero, not NULL.
func (r *TicketRepo) RevenueBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(price_cents), 0) FROM tickets
		 WHERE created_at BETWEEN ? AND ? AND status = ?`,
		start.UTC(), end.UTC(), string(model.StatusUsed)).Scan(&sum)
	return sum, err
}
