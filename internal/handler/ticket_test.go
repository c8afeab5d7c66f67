package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/cinema-store/internal/model"
	"github.com/iliyamo/cinema-store/internal/repository"
	"github.com/iliyamo/cinema-store/internal/service/ticket"
	"github.com/iliyamo/cinema-store/internal/service/ticketnumber"
)

// stubTicketStore implements repository.TicketStore with overridable
// function fields.  Unset fields return zero values.
type stubTicketStore struct {
	create          func(ctx context.Context, t *model.Ticket) error
	getByID         func(ctx context.Context, id uint64) (model.Ticket, error)
	applyTransition func(ctx context.Context, id uint64, upd repository.TransitionUpdate) (model.Ticket, bool, error)
}

func (s *stubTicketStore) Create(ctx context.Context, t *model.Ticket) error {
	if s.create != nil {
		return s.create(ctx, t)
	}
	return nil
}

func (s *stubTicketStore) GetByID(ctx context.Context, id uint64) (model.Ticket, error) {
	if s.getByID != nil {
		return s.getByID(ctx, id)
	}
	return model.Ticket{}, repository.ErrTicketNotFound
}

func (s *stubTicketStore) GetByNumber(context.Context, string) (model.Ticket, error) {
	return model.Ticket{}, repository.ErrTicketNotFound
}

func (s *stubTicketStore) ApplyTransition(ctx context.Context, id uint64, upd repository.TransitionUpdate) (model.Ticket, bool, error) {
	if s.applyTransition != nil {
		return s.applyTransition(ctx, id, upd)
	}
	return model.Ticket{}, false, nil
}

func (s *stubTicketStore) UpdateSeat(context.Context, uint64, string, model.TicketStatus) (model.Ticket, bool, error) {
	return model.Ticket{}, false, nil
}

func (s *stubTicketStore) UpdateNotes(context.Context, uint64, string) (model.Ticket, error) {
	return model.Ticket{}, nil
}

func (s *stubTicketStore) Delete(context.Context, uint64, model.TicketStatus) (bool, error) {
	return false, nil
}

func (s *stubTicketStore) ListByCustomer(context.Context, uint64, repository.TicketQuery) ([]model.Ticket, int64, error) {
	return nil, 0, nil
}

func (s *stubTicketStore) ListByCashier(context.Context, uint64, repository.TicketQuery) ([]model.Ticket, int64, error) {
	return nil, 0, nil
}

func (s *stubTicketStore) ListByStatus(context.Context, model.TicketStatus, repository.TicketQuery) ([]model.Ticket, int64, error) {
	return nil, 0, nil
}

func (s *stubTicketStore) Search(context.Context, string, repository.TicketQuery) ([]model.Ticket, int64, error) {
	return nil, 0, nil
}

func (s *stubTicketStore) ListBetween(context.Context, time.Time, time.Time, repository.TicketQuery) ([]model.Ticket, int64, error) {
	return nil, 0, nil
}

func (s *stubTicketStore) ListRecent(context.Context, int) ([]model.Ticket, error) { return nil, nil }

func (s *stubTicketStore) ListRequiringProcessing(context.Context) ([]model.Ticket, error) {
	return nil, nil
}

func (s *stubTicketStore) Count(context.Context) (int64, error) { return 0, nil }

func (s *stubTicketStore) CountByStatus(context.Context, model.TicketStatus) (int64, error) {
	return 0, nil
}

func (s *stubTicketStore) SumPriceByStatus(context.Context, model.TicketStatus) (int64, error) {
	return 0, nil
}

func (s *stubTicketStore) RevenueBetween(context.Context, time.Time, time.Time) (int64, error) {
	return 0, nil
}

// stubMovieStore returns a fixed movie.
type stubMovieStore struct {
	movie model.Movie
	err   error
}

func (s *stubMovieStore) GetByID(context.Context, uint64) (model.Movie, error) {
	return s.movie, s.err
}

func newHandlerService(ts *stubTicketStore, ms *stubMovieStore) *ticket.Service {
	return ticket.NewService(ts, ms, ticketnumber.Random{})
}

// request builds an echo context with the identity the JWT middleware
// would have injected.
func request(method, target, body string, userID uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("role", role)
	return c, rec
}

func TestTicketCreateBooksForSelf(t *testing.T) {
	ts := &stubTicketStore{}
	ms := &stubMovieStore{movie: model.Movie{ID: 7, PriceCents: 1550, Available: true}}
	h := NewTicketHandler(newHandlerService(ts, ms))

	var stored model.Ticket
	ts.create = func(_ context.Context, tk *model.Ticket) error {
		tk.ID = 1
		stored = *tk
		return nil
	}

	c, rec := request(http.MethodPost, "/v1/tickets",
		`{"movie_id":7,"showtime":"2025-07-01T20:00:00Z","seat":"B12"}`, 3, model.RoleCustomer)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(3), stored.CustomerID)
	assert.Equal(t, int64(1550), stored.PriceCents)
	assert.Equal(t, model.StatusReserved, stored.Status)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "RESERVED", resp["status"])
}

func TestTicketCreateCustomerCannotBookForOthers(t *testing.T) {
	ts := &stubTicketStore{}
	ms := &stubMovieStore{movie: model.Movie{ID: 7, PriceCents: 1000, Available: true}}
	h := NewTicketHandler(newHandlerService(ts, ms))

	c, rec := request(http.MethodPost, "/v1/tickets",
		`{"customer_id":99,"movie_id":7,"showtime":"2025-07-01T20:00:00Z"}`, 3, model.RoleCustomer)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTicketCreateStaffBooksForCustomer(t *testing.T) {
	ts := &stubTicketStore{}
	ms := &stubMovieStore{movie: model.Movie{ID: 7, PriceCents: 1000, Available: true}}
	h := NewTicketHandler(newHandlerService(ts, ms))

	var stored model.Ticket
	ts.create = func(_ context.Context, tk *model.Ticket) error {
		stored = *tk
		return nil
	}

	c, rec := request(http.MethodPost, "/v1/tickets",
		`{"customer_id":99,"movie_id":7,"showtime":"2025-07-01T20:00:00Z"}`, 12, model.RoleCashier)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(99), stored.CustomerID)
}

func TestTicketCreateUnavailableMovie(t *testing.T) {
	ts := &stubTicketStore{}
	ms := &stubMovieStore{movie: model.Movie{ID: 7, Available: false}}
	h := NewTicketHandler(newHandlerService(ts, ms))

	c, rec := request(http.MethodPost, "/v1/tickets",
		`{"movie_id":7,"showtime":"2025-07-01T20:00:00Z"}`, 3, model.RoleCustomer)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTicketTransitionEndpoint(t *testing.T) {
	ts := &stubTicketStore{}
	ms := &stubMovieStore{}
	h := NewTicketHandler(newHandlerService(ts, ms))

	cashier := uint64(12)
	ts.getByID = func(_ context.Context, id uint64) (model.Ticket, error) {
		return model.Ticket{ID: id, Status: model.StatusReserved, PriceCents: 1000}, nil
	}
	ts.applyTransition = func(_ context.Context, id uint64, upd repository.TransitionUpdate) (model.Ticket, bool, error) {
		return model.Ticket{ID: id, Status: upd.To, CashierID: &cashier, PriceCents: 1000}, true, nil
	}

	c, rec := request(http.MethodPost, "/v1/tickets/1/transition", `{"status":"PAID"}`, cashier, model.RoleCashier)
	c.SetParamNames("id")
	c.SetParamValues("1")

	assert.NoError(t, h.Transition(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "PAID", resp["status"])
}

func TestTicketTransitionConflictNamesBothStatuses(t *testing.T) {
	ts := &stubTicketStore{}
	ms := &stubMovieStore{}
	h := NewTicketHandler(newHandlerService(ts, ms))

	ts.getByID = func(_ context.Context, id uint64) (model.Ticket, error) {
		return model.Ticket{ID: id, Status: model.StatusUsed}, nil
	}

	c, rec := request(http.MethodPost, "/v1/tickets/1/transition", `{"status":"PAID"}`, 12, model.RoleCashier)
	c.SetParamNames("id")
	c.SetParamValues("1")

	assert.NoError(t, h.Transition(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "USED")
	assert.Contains(t, rec.Body.String(), "PAID")
}

func TestTicketGetHidesForeignTicketFromCustomer(t *testing.T) {
	ts := &stubTicketStore{}
	ms := &stubMovieStore{}
	h := NewTicketHandler(newHandlerService(ts, ms))

	ts.getByID = func(_ context.Context, id uint64) (model.Ticket, error) {
		return model.Ticket{ID: id, CustomerID: 99, Status: model.StatusReserved}, nil
	}

	c, rec := request(http.MethodGet, "/v1/tickets/1", "", 3, model.RoleCustomer)
	c.SetParamNames("id")
	c.SetParamValues("1")

	assert.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTicketRevenueRejectsBadRange(t *testing.T) {
	ts := &stubTicketStore{}
	ms := &stubMovieStore{}
	h := NewTicketHandler(newHandlerService(ts, ms))

	c, rec := request(http.MethodGet,
		"/v1/tickets/revenue?start=2025-07-01T00:00:00Z&end=2025-06-01T00:00:00Z", "", 12, model.RoleManager)

	assert.NoError(t, h.Revenue(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
