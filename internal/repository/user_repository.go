package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/cinema-store/internal/model"
	"github.com/iliyamo/cinema-store/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userCols = `id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user and returns its ID.  The password is hashed here
// so callers never handle the hash themselves.
func (r *UserRepo) Create(ctx context.Context, email, password, firstName, lastName, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, first_name, last_name, role) VALUES (?,?,?,?,?)",
		email, hash, firstName, lastName, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// List returns users with optional role filter and search over email and
// first/last name, with the total row count for pagination.
func (r *UserRepo) List(ctx context.Context, role, search string, page, pageSize int) ([]model.User, int64, error) {
	where := []string{}
	args := []any{}
	if role != "" {
		where = append(where, "role = ?")
		args = append(args, role)
	}
	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		where = append(where, "(LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	argsData := append(append([]any{}, args...), pageSize, (page-1)*pageSize)

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE "+cond+" ORDER BY created_at DESC LIMIT ? OFFSET ?",
		argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.User, 0, pageSize)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ChangeRole updates a user's role.
func (r *UserRepo) ChangeRole(ctx context.Context, id uint64, role string) (model.User, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=?, updated_at=UTC_TIMESTAMP() WHERE id=?", role, id)
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// ToggleActive flips the enabled flag and returns the updated row.
func (r *UserRepo) ToggleActive(ctx context.Context, id uint64) (model.User, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active = NOT is_active, updated_at=UTC_TIMESTAMP() WHERE id=?", id)
	if err != nil {
		return model.User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.User{}, ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

// UpdateProfile changes the user's display names and returns the fresh row.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, firstName, lastName string) (model.User, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET first_name=?, last_name=?, updated_at=UTC_TIMESTAMP() WHERE id=?",
		firstName, lastName, id)
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=UTC_TIMESTAMP() WHERE id=?", hash, id)
	return err
}

// Delete removes a user.  Users referenced by tickets cannot be removed,
// reported as ErrConflict.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// CountByRole returns the number of users holding the given role.
func (r *UserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE role=?", role).Scan(&n)
	return n, err
}
