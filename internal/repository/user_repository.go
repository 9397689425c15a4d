package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/qaops/test-manager/internal/model"
	"github.com/qaops/test-manager/internal/utils"
)

// UserRepo persists rows of the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,email,username,password_hash,role,is_active,created_at,updated_at,created_by,updated_by"

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u         model.User
		updatedAt sql.NullTime
		createdBy sql.NullString
		updatedBy sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.CreatedAt, &updatedAt, &createdBy, &updatedBy)
	if err != nil {
		return model.User{}, err
	}
	u.UpdatedAt = timePtr(updatedAt)
	u.CreatedBy = strPtr(createdBy)
	u.UpdatedBy = strPtr(updatedBy)
	return u, nil
}

// CreateUserParams carries the fields needed to insert a user.
type CreateUserParams struct {
	Email     string
	Username  string
	Password  string
	Role      string
	CreatedBy *string
}

// Create hashes the password and inserts a user, returning the new row.
// Duplicate email or username collisions are mapped to sentinel errors so
// handlers can answer 400 with the right detail.
func (r *UserRepo) Create(ctx context.Context, p CreateUserParams, cost int) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	hash, err := utils.HashPassword(p.Password, cost)
	if err != nil {
		return model.User{}, err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, username, password_hash, role, created_by) VALUES (?,?,?,?,?,?)",
		id, email, p.Username, hash, p.Role, p.CreatedBy)
	if err != nil {
		if isDuplicate(err) {
			if strings.Contains(err.Error(), "username") {
				return model.User{}, ErrUsernameExists
			}
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByUsername fetches a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE username=? LIMIT 1", username))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns users ordered by creation time, windowed by skip/limit.
func (r *UserRepo) List(ctx context.Context, skip, limit int) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users ORDER BY created_at LIMIT ? OFFSET ?", limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		var (
			u         model.User
			updatedAt sql.NullTime
			createdBy sql.NullString
			updatedBy sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
			&u.IsActive, &u.CreatedAt, &updatedAt, &createdBy, &updatedBy); err != nil {
			return nil, err
		}
		u.UpdatedAt = timePtr(updatedAt)
		u.CreatedBy = strPtr(createdBy)
		u.UpdatedBy = strPtr(updatedBy)
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateUserParams carries the optional fields of a user update; nil
// pointers leave the column untouched.
type UpdateUserParams struct {
	Email     *string
	Username  *string
	Password  *string
	IsActive  *bool
	UpdatedBy *string
}

// Update applies the non-nil fields and returns the updated row.
func (r *UserRepo) Update(ctx context.Context, id string, p UpdateUserParams, cost int) (model.User, error) {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	if p.Email != nil {
		set = append(set, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(*p.Email)))
	}
	if p.Username != nil {
		set = append(set, "username=?")
		args = append(args, *p.Username)
	}
	if p.Password != nil {
		hash, err := utils.HashPassword(*p.Password, cost)
		if err != nil {
			return model.User{}, err
		}
		set = append(set, "password_hash=?")
		args = append(args, hash)
	}
	if p.IsActive != nil {
		set = append(set, "is_active=?")
		args = append(args, *p.IsActive)
	}
	if p.UpdatedBy != nil {
		set = append(set, "updated_by=?")
		args = append(args, *p.UpdatedBy)
	}
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(set, ",")+" WHERE id=?", args...)
	if err != nil {
		if isDuplicate(err) {
			if strings.Contains(err.Error(), "username") {
				return model.User{}, ErrUsernameExists
			}
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a user row.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
