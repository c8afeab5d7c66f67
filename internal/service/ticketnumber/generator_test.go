package ticketnumber

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestampNext(t *testing.T) {
	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	g := Timestamp{Now: func() time.Time { return fixed }}
	assert.Equal(t, Prefix+"1749988800000", g.Next())
	// Same millisecond, same candidate; the store's unique key is the
	// real uniqueness guard.
	assert.Equal(t, g.Next(), g.Next())
}

func TestRandomNext(t *testing.T) {
	g := Random{}
	a := g.Next()
	b := g.Next()
	assert.True(t, strings.HasPrefix(a, Prefix))
	assert.Len(t, a, len(Prefix)+12)
	assert.NotEqual(t, a, b)
	assert.Equal(t, strings.ToUpper(a), a)
}
