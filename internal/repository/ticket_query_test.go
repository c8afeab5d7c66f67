package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketQueryNormalizeDefaults(t *testing.T) {
	q := TicketQuery{}.normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, defaultPageSize, q.PageSize)

	q = TicketQuery{Page: -3, PageSize: 100000}.normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, maxPageSize, q.PageSize)

	q = TicketQuery{Page: 4, PageSize: 50}.normalize()
	assert.Equal(t, 4, q.Page)
	assert.Equal(t, 50, q.PageSize)
}

func TestTicketQueryOrderClauseWhitelist(t *testing.T) {
	assert.Equal(t, "t.created_at ASC", TicketQuery{}.orderClause())
	assert.Equal(t, "t.created_at DESC", TicketQuery{SortDesc: true}.orderClause())
	assert.Equal(t, "t.showtime ASC", TicketQuery{SortBy: "Showtime"}.orderClause())
	assert.Equal(t, "t.price_cents DESC", TicketQuery{SortBy: "price", SortDesc: true}.orderClause())
	assert.Equal(t, "t.status ASC", TicketQuery{SortBy: "status"}.orderClause())

	// Anything unknown falls back to created_at so user input never
	// reaches ORDER BY.
	assert.Equal(t, "t.created_at ASC", TicketQuery{SortBy: "id; DROP TABLE tickets"}.orderClause())
}
