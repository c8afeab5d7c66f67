package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/cinema-store/internal/model"
)

// MovieStore is the read surface the ticket service needs from the
// catalog: a price/availability snapshot by id.  The full MovieRepo
// implements it alongside the catalog CRUD used by handlers.
type MovieStore interface {
	GetByID(ctx context.Context, id uint64) (model.Movie, error)
}

// MovieFilter defines the optional filters for listing movies.  Zero
// values mean "no filter".
type MovieFilter struct {
	Search        string // substring match on name
	GenreID       uint64
	StudioID      uint64
	MinPriceCents int64
	MaxPriceCents int64
	OnlyAvailable bool
	Page          int
	PageSize      int
}

// MovieRepo provides CRUD operations for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo returns a new MovieRepo bound to the given database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

var _ MovieStore = (*MovieRepo)(nil)

const movieCols = `id, name, description, price_cents, duration_min, release_date, rating,
	genre_id, studio_id, is_available, created_at, updated_at`

func scanMovie(row interface{ Scan(dest ...any) error }) (model.Movie, error) {
	var (
		m        model.Movie
		desc     sql.NullString
		release  sql.NullTime
		rating   sql.NullFloat64
		genreID  sql.NullInt64
		studioID sql.NullInt64
	)
	err := row.Scan(&m.ID, &m.Name, &desc, &m.PriceCents, &m.DurationMin, &release, &rating,
		&genreID, &studioID, &m.Available, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return model.Movie{}, err
	}
	m.Description = desc.String
	if release.Valid {
		d := release.Time.UTC()
		m.ReleaseDate = &d
	}
	if rating.Valid {
		v := rating.Float64
		m.Rating = &v
	}
	if genreID.Valid {
		id := uint64(genreID.Int64)
		m.GenreID = &id
	}
	if studioID.Valid {
		id := uint64(studioID.Int64)
		m.StudioID = &id
	}
	return m, nil
}

// Create inserts a movie and populates the generated ID and timestamps.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	var release, rating, genreID, studioID any
	if m.ReleaseDate != nil {
		release = m.ReleaseDate.UTC()
	}
	if m.Rating != nil {
		rating = *m.Rating
	}
	if m.GenreID != nil {
		genreID = *m.GenreID
	}
	if m.StudioID != nil {
		studioID = *m.StudioID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO movies (name, description, price_cents, duration_min, release_date, rating, genre_id, studio_id, is_available)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		m.Name, m.Description, m.PriceCents, m.DurationMin, release, rating, genreID, studioID, m.Available)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	stored, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = stored
	return nil
}

// GetByID fetches a movie by primary key.  Returns ErrMovieNotFound when
// no row matches.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+movieCols+` FROM movies WHERE id = ? LIMIT 1`, id)
	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return model.Movie{}, ErrMovieNotFound
	}
	return m, err
}

// Update replaces the mutable fields of a movie.  The availability flag is
// managed separately via ToggleAvailable.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	var release, rating, genreID, studioID any
	if m.ReleaseDate != nil {
		release = m.ReleaseDate.UTC()
	}
	if m.Rating != nil {
		rating = *m.Rating
	}
	if m.GenreID != nil {
		genreID = *m.GenreID
	}
	if m.StudioID != nil {
		studioID = *m.StudioID
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE movies SET name = ?, description = ?, price_cents = ?, duration_min = ?,
		 release_date = ?, rating = ?, genre_id = ?, studio_id = ?, updated_at = UTC_TIMESTAMP()
		 WHERE id = ?`,
		m.Name, m.Description, m.PriceCents, m.DurationMin, release, rating, genreID, studioID, m.ID)
	if err != nil {
		return err
	}
	// RowsAffected is zero both for a missing row and for an identical
	// update; GetByID distinguishes the two.
	stored, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = stored
	return nil
}

// ToggleAvailable flips the availability flag and returns the updated row.
func (r *MovieRepo) ToggleAvailable(ctx context.Context, id uint64) (model.Movie, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE movies SET is_available = NOT is_available, updated_at = UTC_TIMESTAMP() WHERE id = ?`, id)
	if err != nil {
		return model.Movie{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Movie{}, ErrMovieNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a movie.  Movies referenced by tickets cannot be removed
// (foreign key), reported as ErrConflict.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		// 1451: row is referenced by a foreign key
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// List returns movies matching the filter along with the total row count
// for pagination.
func (r *MovieRepo) List(ctx context.Context, f MovieFilter) ([]model.Movie, int64, error) {
	where := []string{}
	args := []any{}

	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	if f.GenreID != 0 {
		where = append(where, "genre_id = ?")
		args = append(args, f.GenreID)
	}
	if f.StudioID != 0 {
		where = append(where, "studio_id = ?")
		args = append(args, f.StudioID)
	}
	if f.MinPriceCents > 0 {
		where = append(where, "price_cents >= ?")
		args = append(args, f.MinPriceCents)
	}
	if f.MaxPriceCents > 0 {
		where = append(where, "price_cents <= ?")
		args = append(args, f.MaxPriceCents)
	}
	if f.OnlyAvailable {
		where = append(where, "is_available = TRUE")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM movies WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	argsData := append(append([]any{}, args...), size, (page-1)*size)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movieCols+` FROM movies WHERE `+cond+` ORDER BY name ASC LIMIT ? OFFSET ?`,
		argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Movie, 0, size)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Count returns the total number of movies.
func (r *MovieRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n)
	return n, err
}

// CountAvailable returns the number of movies currently on sale.
func (r *MovieRepo) CountAvailable(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM movies WHERE is_available = TRUE`).Scan(&n)
	return n, err
}
