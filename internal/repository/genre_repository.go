package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/cinema-store/internal/model"
)

// GenreRepo provides CRUD operations for genres.  Genre names are unique;
// duplicate inserts surface as ErrNameExists.
type GenreRepo struct {
	db *sql.DB
}

// NewGenreRepo returns a new GenreRepo bound to the given database.
func NewGenreRepo(db *sql.DB) *GenreRepo { return &GenreRepo{db: db} }

const genreCols = `id, name, description, created_at, updated_at`

func scanGenre(row interface{ Scan(dest ...any) error }) (model.Genre, error) {
	var (
		g    model.Genre
		desc sql.NullString
	)
	err := row.Scan(&g.ID, &g.Name, &desc, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return model.Genre{}, err
	}
	g.Description = desc.String
	return g, nil
}

// Create inserts a genre and populates the generated ID and timestamps.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO genres (name, description) VALUES (?,?)`,
		g.Name, g.Description)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	stored, err := r.GetByID(ctx, g.ID)
	if err != nil {
		return err
	}
	*g = stored
	return nil
}

// GetByID fetches a genre by primary key.
func (r *GenreRepo) GetByID(ctx context.Context, id uint64) (model.Genre, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+genreCols+` FROM genres WHERE id = ? LIMIT 1`, id)
	g, err := scanGenre(row)
	if err == sql.ErrNoRows {
		return model.Genre{}, ErrGenreNotFound
	}
	return g, err
}

// Update renames a genre or changes its description.
func (r *GenreRepo) Update(ctx context.Context, g *model.Genre) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE genres SET name = ?, description = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
		g.Name, g.Description, g.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrNameExists
		}
		return err
	}
	stored, err := r.GetByID(ctx, g.ID)
	if err != nil {
		return err
	}
	*g = stored
	return nil
}

// Delete removes a genre.  Genres referenced by movies cannot be removed,
// reported as ErrConflict.
func (r *GenreRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id)
	if err != nil {
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGenreNotFound
	}
	return nil
}

// List returns all genres ordered by name.
func (r *GenreRepo) List(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+genreCols+` FROM genres ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Genre, 0)
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
