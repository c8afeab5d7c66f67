package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/cinema-store/internal/model"
)

// StudioRepo provides CRUD operations for studios.  Company names are
// unique; duplicate inserts surface as ErrNameExists.
type StudioRepo struct {
	db *sql.DB
}

// NewStudioRepo returns a new StudioRepo bound to the given database.
func NewStudioRepo(db *sql.DB) *StudioRepo { return &StudioRepo{db: db} }

const studioCols = `id, company_name, contact_person, phone, email, address, description,
	is_active, created_at, updated_at`

func scanStudio(row interface{ Scan(dest ...any) error }) (model.Studio, error) {
	var (
		s       model.Studio
		contact sql.NullString
		phone   sql.NullString
		email   sql.NullString
		address sql.NullString
		desc    sql.NullString
	)
	err := row.Scan(&s.ID, &s.CompanyName, &contact, &phone, &email, &address, &desc,
		&s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Studio{}, err
	}
	s.ContactPerson = contact.String
	s.Phone = phone.String
	s.Email = email.String
	s.Address = address.String
	s.Description = desc.String
	return s, nil
}

// Create inserts a studio and populates the generated ID and timestamps.
func (r *StudioRepo) Create(ctx context.Context, s *model.Studio) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO studios (company_name, contact_person, phone, email, address, description, is_active)
		 VALUES (?,?,?,?,?,?,?)`,
		s.CompanyName, s.ContactPerson, s.Phone, s.Email, s.Address, s.Description, s.Active)
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
	s.ID = uint64(id)
	stored, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = stored
	return nil
}

// GetByID fetches a studio by primary key.
func (r *StudioRepo) GetByID(ctx context.Context, id uint64) (model.Studio, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+studioCols+` FROM studios WHERE id = ? LIMIT 1`, id)
	s, err := scanStudio(row)
	if err == sql.ErrNoRows {
		return model.Studio{}, ErrStudioNotFound
	}
	return s, err
}

// Update replaces the mutable fields of a studio.
func (r *StudioRepo) Update(ctx context.Context, s *model.Studio) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE studios SET company_name = ?, contact_person = ?, phone = ?, email = ?,
		 address = ?, description = ?, is_active = ?, updated_at = UTC_TIMESTAMP()
		 WHERE id = ?`,
		s.CompanyName, s.ContactPerson, s.Phone, s.Email, s.Address, s.Description, s.Active, s.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrNameExists
		}
		return err
	}
	stored, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = stored
	return nil
}

// Delete removes a studio.  Studios referenced by movies cannot be
// removed, reported as ErrConflict.
func (r *StudioRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM studios WHERE id = ?`, id)
	if err != nil {
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStudioNotFound
	}
	return nil
}

// List returns all studios ordered by company name.
func (r *StudioRepo) List(ctx context.Context) ([]model.Studio, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+studioCols+` FROM studios ORDER BY company_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Studio, 0)
	for rows.Next() {
		s, err := scanStudio(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
