package ticket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/cinema-store/internal/model"
	"github.com/iliyamo/cinema-store/internal/queue"
	"github.com/iliyamo/cinema-store/internal/repository"
)

// mockTicketStore is a testify mock over repository.TicketStore.
type mockTicketStore struct{ mock.Mock }

func (m *mockTicketStore) Create(ctx context.Context, t *model.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTicketStore) GetByID(ctx context.Context, id uint64) (model.Ticket, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Ticket), args.Error(1)
}

func (m *mockTicketStore) GetByNumber(ctx context.Context, number string) (model.Ticket, error) {
	args := m.Called(ctx, number)
	return args.Get(0).(model.Ticket), args.Error(1)
}

func (m *mockTicketStore) ApplyTransition(ctx context.Context, id uint64, upd repository.TransitionUpdate) (model.Ticket, bool, error) {
	args := m.Called(ctx, id, upd)
	return args.Get(0).(model.Ticket), args.Bool(1), args.Error(2)
}

func (m *mockTicketStore) UpdateSeat(ctx context.Context, id uint64, seat string, from model.TicketStatus) (model.Ticket, bool, error) {
	args := m.Called(ctx, id, seat, from)
	return args.Get(0).(model.Ticket), args.Bool(1), args.Error(2)
}

func (m *mockTicketStore) UpdateNotes(ctx context.Context, id uint64, notes string) (model.Ticket, error) {
	args := m.Called(ctx, id, notes)
	return args.Get(0).(model.Ticket), args.Error(1)
}

func (m *mockTicketStore) Delete(ctx context.Context, id uint64, from model.TicketStatus) (bool, error) {
	args := m.Called(ctx, id, from)
	return args.Bool(0), args.Error(1)
}

func (m *mockTicketStore) ListByCustomer(ctx context.Context, customerID uint64, q repository.TicketQuery) ([]model.Ticket, int64, error) {
	args := m.Called(ctx, customerID, q)
	return args.Get(0).([]model.Ticket), args.Get(1).(int64), args.Error(2)
}

func (m *mockTicketStore) ListByCashier(ctx context.Context, cashierID uint64, q repository.TicketQuery) ([]model.Ticket, int64, error) {
	args := m.Called(ctx, cashierID, q)
	return args.Get(0).([]model.Ticket), args.Get(1).(int64), args.Error(2)
}

func (m *mockTicketStore) ListByStatus(ctx context.Context, status model.TicketStatus, q repository.TicketQuery) ([]model.Ticket, int64, error) {
	args := m.Called(ctx, status, q)
	return args.Get(0).([]model.Ticket), args.Get(1).(int64), args.Error(2)
}

func (m *mockTicketStore) Search(ctx context.Context, text string, q repository.TicketQuery) ([]model.Ticket, int64, error) {
	args := m.Called(ctx, text, q)
	return args.Get(0).([]model.Ticket), args.Get(1).(int64), args.Error(2)
}

func (m *mockTicketStore) ListBetween(ctx context.Context, start, end time.Time, q repository.TicketQuery) ([]model.Ticket, int64, error) {
	args := m.Called(ctx, start, end, q)
	return args.Get(0).([]model.Ticket), args.Get(1).(int64), args.Error(2)
}

func (m *mockTicketStore) ListRecent(ctx context.Context, limit int) ([]model.Ticket, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.Ticket), args.Error(1)
}

func (m *mockTicketStore) ListRequiringProcessing(ctx context.Context) ([]model.Ticket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Ticket), args.Error(1)
}

func (m *mockTicketStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTicketStore) CountByStatus(ctx context.Context, status model.TicketStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTicketStore) SumPriceByStatus(ctx context.Context, status model.TicketStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTicketStore) RevenueBetween(ctx context.Context, start, end time.Time) (int64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(int64), args.Error(1)
}

// mockMovieStore is a testify mock over repository.MovieStore.
type mockMovieStore struct{ mock.Mock }

func (m *mockMovieStore) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Movie), args.Error(1)
}

// seqGenerator returns a fixed sequence of numbers, cycling on exhaustion.
type seqGenerator struct {
	numbers []string
	i       int
}

func (g *seqGenerator) Next() string {
	n := g.numbers[g.i%len(g.numbers)]
	g.i++
	return n
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []queue.TicketStatusChangedEvent
	err    error
}

func (p *recordingPublisher) PublishTicketStatusChanged(_ context.Context, ev queue.TicketStatusChangedEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(tickets *mockTicketStore, movies *mockMovieStore, opts ...Option) *Service {
	opts = append(opts, WithClock(func() time.Time { return fixedNow }))
	return NewService(tickets, movies, &seqGenerator{numbers: []string{"TKT-0001", "TKT-0002", "TKT-0003"}}, opts...)
}

func TestCreateSnapshotsPrice(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies)

	movies.On("GetByID", mock.Anything, uint64(7)).
		Return(model.Movie{ID: 7, Name: "Dune", PriceCents: 1550, Available: true}, nil)
	tickets.On("Create", mock.Anything, mock.AnythingOfType("*model.Ticket")).
		Run(func(args mock.Arguments) {
			tk := args.Get(1).(*model.Ticket)
			tk.ID = 42
		}).Return(nil).Once()

	got, err := svc.Create(context.Background(), CreateInput{
		CustomerID: 3,
		MovieID:    7,
		Showtime:   time.Date(2025, 7, 1, 20, 0, 0, 0, time.UTC),
		Seat:       "B12",
	})

	assert.NoError(t, err)
	assert.Equal(t, uint64(42), got.ID)
	assert.Equal(t, model.StatusReserved, got.Status)
	assert.Equal(t, int64(1550), got.PriceCents)
	assert.Nil(t, got.CashierID)
	assert.Equal(t, "TKT-0001", got.TicketNumber)
	tickets.AssertExpectations(t)
	movies.AssertExpectations(t)
}

func TestCreateRejectsUnavailableMovie(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies)

	movies.On("GetByID", mock.Anything, uint64(7)).
		Return(model.Movie{ID: 7, PriceCents: 1000, Available: false}, nil)

	_, err := svc.Create(context.Background(), CreateInput{CustomerID: 3, MovieID: 7})
	assert.ErrorIs(t, err, ErrMovieUnavailable)
	tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateMissingMovie(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies)

	movies.On("GetByID", mock.Anything, uint64(99)).
		Return(model.Movie{}, repository.ErrMovieNotFound)

	_, err := svc.Create(context.Background(), CreateInput{CustomerID: 3, MovieID: 99})
	assert.ErrorIs(t, err, repository.ErrMovieNotFound)
}

func TestCreateRetriesOnNumberCollision(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies)

	movies.On("GetByID", mock.Anything, uint64(7)).
		Return(model.Movie{ID: 7, PriceCents: 1000, Available: true}, nil)
	tickets.On("Create", mock.Anything, mock.AnythingOfType("*model.Ticket")).
		Return(repository.ErrTicketNumberExists).Twice()
	tickets.On("Create", mock.Anything, mock.AnythingOfType("*model.Ticket")).
		Return(nil).Once()

	got, err := svc.Create(context.Background(), CreateInput{CustomerID: 3, MovieID: 7})
	assert.NoError(t, err)
	assert.Equal(t, "TKT-0003", got.TicketNumber)
	tickets.AssertExpectations(t)
}

func TestCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies)

	movies.On("GetByID", mock.Anything, uint64(7)).
		Return(model.Movie{ID: 7, PriceCents: 1000, Available: true}, nil)
	tickets.On("Create", mock.Anything, mock.AnythingOfType("*model.Ticket")).
		Return(repository.ErrTicketNumberExists).Times(3)

	_, err := svc.Create(context.Background(), CreateInput{CustomerID: 3, MovieID: 7})
	assert.ErrorIs(t, err, repository.ErrTicketNumberExists)
	tickets.AssertNumberOfCalls(t, "Create", 3)
}

func TestTransitionHappyPath(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	pub := new(recordingPublisher)
	svc := newTestService(tickets, movies, WithPublisher(pub))

	cashier := uint64(12)
	reserved := model.Ticket{ID: 1, TicketNumber: "TKT-0001", CustomerID: 3, MovieID: 7, Status: model.StatusReserved, PriceCents: 1550}
	paid := reserved
	paid.Status = model.StatusPaid
	paid.CashierID = &cashier

	tickets.On("GetByID", mock.Anything, uint64(1)).Return(reserved, nil).Once()
	tickets.On("ApplyTransition", mock.Anything, uint64(1), repository.TransitionUpdate{
		From:      model.StatusReserved,
		To:        model.StatusPaid,
		CashierID: cashier,
	}).Return(paid, true, nil).Once()

	got, err := svc.Transition(context.Background(), 1, model.StatusPaid, cashier)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPaid, got.Status)
	if assert.NotNil(t, got.CashierID) {
		assert.Equal(t, cashier, *got.CashierID)
	}
	if assert.Len(t, pub.events, 1) {
		assert.Equal(t, "RESERVED", pub.events[0].FromStatus)
		assert.Equal(t, "PAID", pub.events[0].ToStatus)
		assert.Equal(t, cashier, pub.events[0].CashierID)
	}
	tickets.AssertExpectations(t)
}

func TestTransitionToUsedStampsTime(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies)

	active := model.Ticket{ID: 1, Status: model.StatusActive, PriceCents: 1000}
	used := active
	used.Status = model.StatusUsed
	used.UsedAt = &fixedNow

	tickets.On("GetByID", mock.Anything, uint64(1)).Return(active, nil).Once()
	tickets.On("ApplyTransition", mock.Anything, uint64(1), mock.MatchedBy(func(upd repository.TransitionUpdate) bool {
		return upd.To == model.StatusUsed && upd.UsedAt != nil && upd.UsedAt.Equal(fixedNow)
	})).Return(used, true, nil).Once()

	got, err := svc.Transition(context.Background(), 1, model.StatusUsed, 12)
	assert.NoError(t, err)
	if assert.NotNil(t, got.UsedAt) {
		assert.Equal(t, fixedNow, *got.UsedAt)
	}
	tickets.AssertExpectations(t)
}

func TestTransitionRejectsInvalidMove(t *testing.T) {
	cases := []struct {
		from model.TicketStatus
		to   model.TicketStatus
	}{
		{model.StatusReserved, model.StatusActive},
		{model.StatusReserved, model.StatusUsed},
		{model.StatusPaid, model.StatusUsed},
		{model.StatusUsed, model.StatusPaid},
		{model.StatusUsed, model.StatusCancelled},
		{model.StatusCancelled, model.StatusReserved},
		{model.StatusCompleted, model.StatusActive},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			tickets := new(mockTicketStore)
			movies := new(mockMovieStore)
			svc := newTestService(tickets, movies)

			tickets.On("GetByID", mock.Anything, uint64(1)).
				Return(model.Ticket{ID: 1, Status: tc.from}, nil).Once()

			_, err := svc.Transition(context.Background(), 1, tc.to, 12)
			var ite *InvalidTransitionError
			if assert.ErrorAs(t, err, &ite) {
				assert.Equal(t, tc.from, ite.From)
				assert.Equal(t, tc.to, ite.To)
			}
			tickets.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies)

	_, err := svc.Transition(context.Background(), 1, model.TicketStatus("SHIPPED"), 12)
	var ite *InvalidTransitionError
	assert.ErrorAs(t, err, &ite)
	tickets.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestTransitionLostRace(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies)

	reserved := model.Ticket{ID: 1, Status: model.StatusReserved}
	cancelled := model.Ticket{ID: 1, Status: model.StatusCancelled}

	tickets.On("GetByID", mock.Anything, uint64(1)).Return(reserved, nil).Once()
	tickets.On("ApplyTransition", mock.Anything, uint64(1), mock.Anything).
		Return(model.Ticket{}, false, nil).Once()
	tickets.On("GetByID", mock.Anything, uint64(1)).Return(cancelled, nil).Once()

	_, err := svc.Transition(context.Background(), 1, model.StatusPaid, 12)
	var ite *InvalidTransitionError
	if assert.ErrorAs(t, err, &ite) {
		assert.Equal(t, model.StatusCancelled, ite.From)
	}
	tickets.AssertExpectations(t)
}

func TestTransitionForbiddenByAuthorizer(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies, WithAuthorizer(denyAll{}))

	_, err := svc.Transition(context.Background(), 1, model.StatusPaid, 12)
	assert.ErrorIs(t, err, ErrForbidden)
	tickets.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

type denyAll struct{}

func (denyAll) Allow(uint64, string) bool { return false }

func TestTransitionZeroActorSkipsAuthorizer(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies, WithAuthorizer(denyAll{}))

	reserved := model.Ticket{ID: 1, Status: model.StatusReserved}
	cancelled := model.Ticket{ID: 1, Status: model.StatusCancelled}

	tickets.On("GetByID", mock.Anything, uint64(1)).Return(reserved, nil).Once()
	tickets.On("ApplyTransition", mock.Anything, uint64(1), repository.TransitionUpdate{
		From: model.StatusReserved,
		To:   model.StatusCancelled,
	}).Return(cancelled, true, nil).Once()

	got, err := svc.Transition(context.Background(), 1, model.StatusCancelled, 0)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)
	tickets.AssertExpectations(t)
}

// memTicketStore keeps a single ticket in memory and applies transitions
// with the same write-once rules as the SQL store: cashier_id is set only
// when still empty and the actor is non-zero, used_at only when still empty.
type memTicketStore struct {
	mockTicketStore
	t model.Ticket
}

func (m *memTicketStore) GetByID(_ context.Context, _ uint64) (model.Ticket, error) {
	return m.t, nil
}

func (m *memTicketStore) ApplyTransition(_ context.Context, _ uint64, upd repository.TransitionUpdate) (model.Ticket, bool, error) {
	if m.t.Status != upd.From {
		return model.Ticket{}, false, nil
	}
	m.t.Status = upd.To
	if m.t.CashierID == nil && upd.CashierID != 0 {
		id := upd.CashierID
		m.t.CashierID = &id
	}
	if m.t.UsedAt == nil && upd.UsedAt != nil {
		at := *upd.UsedAt
		m.t.UsedAt = &at
	}
	return m.t, true, nil
}

func TestTransitionPreservesCashierAndUsedAt(t *testing.T) {
	store := &memTicketStore{t: model.Ticket{ID: 1, Status: model.StatusReserved, PriceCents: 1550}}
	movies := new(mockMovieStore)
	svc := NewService(store, movies, &seqGenerator{numbers: []string{"TKT-0001"}},
		WithClock(func() time.Time { return fixedNow }))

	// The cashier who took the payment stays on the ticket no matter who
	// handles it afterwards.
	got, err := svc.Transition(context.Background(), 1, model.StatusPaid, 12)
	assert.NoError(t, err)
	if assert.NotNil(t, got.CashierID) {
		assert.Equal(t, uint64(12), *got.CashierID)
	}

	got, err = svc.Transition(context.Background(), 1, model.StatusActive, 99)
	assert.NoError(t, err)
	if assert.NotNil(t, got.CashierID) {
		assert.Equal(t, uint64(12), *got.CashierID)
	}

	got, err = svc.Transition(context.Background(), 1, model.StatusUsed, 77)
	assert.NoError(t, err)
	if assert.NotNil(t, got.CashierID) {
		assert.Equal(t, uint64(12), *got.CashierID)
	}
	if assert.NotNil(t, got.UsedAt) {
		assert.Equal(t, fixedNow, *got.UsedAt)
	}
}

func TestTransitionPublisherFailureIsSwallowed(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestService(tickets, movies, WithPublisher(pub))

	reserved := model.Ticket{ID: 1, Status: model.StatusReserved}
	paid := model.Ticket{ID: 1, Status: model.StatusPaid}

	tickets.On("GetByID", mock.Anything, uint64(1)).Return(reserved, nil).Once()
	tickets.On("ApplyTransition", mock.Anything, uint64(1), mock.Anything).
		Return(paid, true, nil).Once()

	got, err := svc.Transition(context.Background(), 1, model.StatusPaid, 12)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPaid, got.Status)
	assert.Len(t, pub.events, 1)
}

func TestUpdateSeatAllowedStatuses(t *testing.T) {
	for _, status := range []model.TicketStatus{model.StatusReserved, model.StatusPaid} {
		t.Run(string(status), func(t *testing.T) {
			tickets := new(mockTicketStore)
			movies := new(mockMovieStore)
			svc := newTestService(tickets, movies)

			current := model.Ticket{ID: 1, Status: status, Seat: "A1"}
			moved := current
			moved.Seat = "C4"

			tickets.On("GetByID", mock.Anything, uint64(1)).Return(current, nil).Once()
			tickets.On("UpdateSeat", mock.Anything, uint64(1), "C4", status).
				Return(moved, true, nil).Once()

			got, err := svc.UpdateSeat(context.Background(), 1, "C4")
			assert.NoError(t, err)
			assert.Equal(t, "C4", got.Seat)
			tickets.AssertExpectations(t)
		})
	}
}

func TestUpdateSeatRetriesAfterLostRace(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies)

	// A concurrent RESERVED->PAID transition invalidates the first guard,
	// but PAID still allows seat changes: the move must be retried, not
	// silently reported as done with the old seat.
	reserved := model.Ticket{ID: 1, Status: model.StatusReserved, Seat: "A1"}
	paid := model.Ticket{ID: 1, Status: model.StatusPaid, Seat: "A1"}
	moved := model.Ticket{ID: 1, Status: model.StatusPaid, Seat: "C4"}

	tickets.On("GetByID", mock.Anything, uint64(1)).Return(reserved, nil).Once()
	tickets.On("UpdateSeat", mock.Anything, uint64(1), "C4", model.StatusReserved).
		Return(model.Ticket{}, false, nil).Once()
	tickets.On("GetByID", mock.Anything, uint64(1)).Return(paid, nil).Once()
	tickets.On("UpdateSeat", mock.Anything, uint64(1), "C4", model.StatusPaid).
		Return(moved, true, nil).Once()

	got, err := svc.UpdateSeat(context.Background(), 1, "C4")
	assert.NoError(t, err)
	assert.Equal(t, "C4", got.Seat)
	tickets.AssertExpectations(t)
}

func TestUpdateSeatIdempotentWhenValueAlreadySet(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies)

	// Zero affected rows because the column already holds the requested
	// value: success, no retry.
	current := model.Ticket{ID: 1, Status: model.StatusReserved, Seat: "C4"}

	tickets.On("GetByID", mock.Anything, uint64(1)).Return(current, nil).Twice()
	tickets.On("UpdateSeat", mock.Anything, uint64(1), "C4", model.StatusReserved).
		Return(model.Ticket{}, false, nil).Once()

	got, err := svc.UpdateSeat(context.Background(), 1, "C4")
	assert.NoError(t, err)
	assert.Equal(t, "C4", got.Seat)
	tickets.AssertExpectations(t)
}

func TestUpdateSeatGivesUpUnderContention(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies)

	current := model.Ticket{ID: 1, Status: model.StatusReserved, Seat: "A1"}

	tickets.On("GetByID", mock.Anything, uint64(1)).Return(current, nil).Times(4)
	tickets.On("UpdateSeat", mock.Anything, uint64(1), "C4", model.StatusReserved).
		Return(model.Ticket{}, false, nil).Times(3)

	_, err := svc.UpdateSeat(context.Background(), 1, "C4")
	assert.ErrorIs(t, err, ErrContention)
	tickets.AssertExpectations(t)
}

func TestUpdateSeatRejectsLockedStatuses(t *testing.T) {
	for _, status := range []model.TicketStatus{model.StatusActive, model.StatusUsed, model.StatusCompleted, model.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			tickets := new(mockTicketStore)
			movies := new(mockMovieStore)
			svc := newTestService(tickets, movies)

			tickets.On("GetByID", mock.Anything, uint64(1)).
				Return(model.Ticket{ID: 1, Status: status}, nil).Once()

			_, err := svc.UpdateSeat(context.Background(), 1, "C4")
			var ise *InvalidStateError
			if assert.ErrorAs(t, err, &ise) {
				assert.Equal(t, status, ise.Status)
			}
			tickets.AssertNotCalled(t, "UpdateSeat", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDeleteAllowedStatuses(t *testing.T) {
	for _, status := range []model.TicketStatus{model.StatusReserved, model.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			tickets := new(mockTicketStore)
			movies := new(mockMovieStore)
			svc := newTestService(tickets, movies)

			tickets.On("GetByID", mock.Anything, uint64(1)).
				Return(model.Ticket{ID: 1, Status: status}, nil).Once()
			tickets.On("Delete", mock.Anything, uint64(1), status).Return(true, nil).Once()

			assert.NoError(t, svc.Delete(context.Background(), 1, 12))
			tickets.AssertExpectations(t)
		})
	}
}

func TestDeleteRejectsFinancialStatuses(t *testing.T) {
	for _, status := range []model.TicketStatus{model.StatusPaid, model.StatusActive, model.StatusUsed, model.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			tickets := new(mockTicketStore)
			movies := new(mockMovieStore)
			svc := newTestService(tickets, movies)

			tickets.On("GetByID", mock.Anything, uint64(1)).
				Return(model.Ticket{ID: 1, Status: status}, nil).Once()

			err := svc.Delete(context.Background(), 1, 12)
			var ise *InvalidStateError
			assert.ErrorAs(t, err, &ise)
			tickets.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDeleteAlreadyGoneIsNoError(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies)

	tickets.On("GetByID", mock.Anything, uint64(1)).
		Return(model.Ticket{ID: 1, Status: model.StatusReserved}, nil).Once()
	tickets.On("Delete", mock.Anything, uint64(1), model.StatusReserved).Return(false, nil).Once()
	tickets.On("GetByID", mock.Anything, uint64(1)).
		Return(model.Ticket{}, repository.ErrTicketNotFound).Once()

	assert.NoError(t, svc.Delete(context.Background(), 1, 12))
	tickets.AssertExpectations(t)
}

func TestCalculateRevenueDelegates(t *testing.T) {
	tickets := new(mockTicketStore)
	movies := new(mockMovieStore)
	svc := newTestService(tickets, movies)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	tickets.On("RevenueBetween", mock.Anything, start, end).Return(int64(0), nil).Once()

	got, err := svc.CalculateRevenue(context.Background(), start, end)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), got)
	tickets.AssertExpectations(t)
}
