package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/avialex/AeroMarketGo/internal/domain"
	"github.com/avialex/AeroMarketGo/pkg/database"
	apperrors "github.com/avialex/AeroMarketGo/pkg/errors"
	"github.com/avialex/AeroMarketGo/pkg/pagination"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, first_name, last_name, company_name, phone,
		role, business_type, status, verification_level, last_login_at, created_at, updated_at`

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, company_name, phone,
			role, business_type, status, verification_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.CompanyName,
		u.Phone,
		string(u.Role),
		string(u.BusinessType),
		string(u.Status),
		int(u.VerificationLevel),
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(ctx, query, strings.ToLower(email))
}

// Update modifies an existing user's mutable profile fields.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = $1, password_hash = $2, first_name = $3, last_name = $4,
		    company_name = $5, phone = $6, business_type = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.pool.Exec(ctx, query,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.CompanyName,
		u.Phone,
		string(u.BusinessType),
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID)
	}

	return nil
}

// UpdateStatus changes the account lifecycle status.
func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error {
	query := `UPDATE users SET status = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

// UpdateVerificationLevel changes the KYC level.
func (r *UserRepository) UpdateVerificationLevel(ctx context.Context, id string, level domain.VerificationLevel) error {
	query := `UPDATE users SET verification_level = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, int(level), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update verification level: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

// TouchLastLogin records a successful login timestamp.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id string) error {
	query := `UPDATE users SET last_login_at = $1 WHERE id = $2`

	if _, err := r.pool.Exec(ctx, query, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}

	return nil
}

// List returns a page of users, newest first, plus the total count.
func (r *UserRepository) List(ctx context.Context, params pagination.Params) ([]domain.User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUserRow(rows, &u); err != nil {
			return nil, 0, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate user rows: %w", err)
	}

	if users == nil {
		users = []domain.User{}
	}

	return users, total, nil
}

// scanUser executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User

	err := scanUserRow(r.pool.QueryRow(ctx, query, args...), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(row rowScanner, u *domain.User) error {
	var (
		role         string
		businessType string
		status       string
		level        int
	)

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.CompanyName,
		&u.Phone,
		&role,
		&businessType,
		&status,
		&level,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return err
	}

	u.Role = domain.Role(role)
	u.BusinessType = domain.BusinessType(businessType)
	u.Status = domain.UserStatus(status)
	u.VerificationLevel = domain.VerificationLevel(level)
	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
