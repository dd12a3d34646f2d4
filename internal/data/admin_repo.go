package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brightsteps/brightsteps-web/internal/core"
	"github.com/brightsteps/brightsteps-web/internal/data/pgxutil"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// AdminRepo provides database operations for admin accounts.
type AdminRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAdminRepo creates a new AdminRepo with real time provider.
func NewAdminRepo(db *sql.DB) *AdminRepo {
	return &AdminRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewAdminRepoWithTimeProvider creates a new AdminRepo with a custom time provider (useful for tests).
func NewAdminRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AdminRepo {
	return &AdminRepo{DB: db, timeProvider: tp}
}

// Create inserts a new admin account. The password hash must already be
// computed by the caller.
func (r *AdminRepo) Create(ctx context.Context, email, displayName, role, passwordHash string) (*model.AdminAccount, error) {
	out, err := pgxutil.SelectOne[model.AdminAccount](ctx, r.DB, `
		INSERT INTO admin_accounts (email, display_name, role, password_hash, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, $5, $5)
		RETURNING `+adminColumns,
		strings.ToLower(strings.TrimSpace(email)),
		displayName,
		role,
		passwordHash,
		r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return nil, mapAdminWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves an admin account by ID.
func (r *AdminRepo) GetByID(ctx context.Context, id string) (*model.AdminAccount, error) {
	return r.getByQuery(ctx, `SELECT `+adminColumns+` FROM admin_accounts WHERE id = $1`, id)
}

// GetByEmail retrieves an admin account by email, case-insensitive.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*model.AdminAccount, error) {
	return r.getByQuery(ctx,
		`SELECT `+adminColumns+` FROM admin_accounts WHERE LOWER(email) = LOWER($1)`,
		strings.TrimSpace(email))
}

func (r *AdminRepo) getByQuery(ctx context.Context, query string, arg any) (*model.AdminAccount, error) {
	account, err := pgxutil.SelectOne[model.AdminAccount](ctx, r.DB, query, arg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin account: %w", err)
	}
	return &account, nil
}

// List retrieves all admin accounts ordered by email.
func (r *AdminRepo) List(ctx context.Context) ([]*model.AdminAccount, error) {
	rowsOut, err := pgxutil.SelectRows[model.AdminAccount](ctx, r.DB,
		`SELECT `+adminColumns+` FROM admin_accounts ORDER BY email ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin accounts: %w", err)
	}
	return asPtrSlice(rowsOut), nil
}

// Update updates fields of an admin account. Nil fields are left untouched.
func (r *AdminRepo) Update(ctx context.Context, id string, fields core.AdminUpdateFields) (*model.AdminAccount, error) {
	setParts := make([]string, 0, 5)
	args := make([]any, 0, 6)
	nextIdx := func() int { return len(args) + 1 }

	if fields.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, strings.ToLower(strings.TrimSpace(*fields.Email)))
	}
	if fields.DisplayName != nil {
		setParts = append(setParts, fmt.Sprintf("display_name = $%d", nextIdx()))
		args = append(args, *fields.DisplayName)
	}
	if fields.Role != nil {
		setParts = append(setParts, fmt.Sprintf("role = $%d", nextIdx()))
		args = append(args, *fields.Role)
	}
	if fields.PasswordHash != nil {
		setParts = append(setParts, fmt.Sprintf("password_hash = $%d", nextIdx()))
		args = append(args, *fields.PasswordHash)
	}
	if fields.Active != nil {
		setParts = append(setParts, fmt.Sprintf("active = $%d", nextIdx()))
		args = append(args, *fields.Active)
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE admin_accounts SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + adminColumns

	out, err := pgxutil.SelectOne[model.AdminAccount](ctx, r.DB, query, args...)
	if err != nil {
		return nil, mapAdminWriteErr(err, true)
	}
	return &out, nil
}

// Delete deletes an admin account by ID.
func (r *AdminRepo) Delete(ctx context.Context, id string) (bool, error) {
	rows, err := pgxutil.Exec(ctx, r.DB, `DELETE FROM admin_accounts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete admin account: %w", err)
	}
	return rows > 0, nil
}

const adminColumns = `id, email, display_name, role, password_hash, active, created_at, updated_at`

func mapAdminWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrAdminNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrAdminEmailExists
	}
	return err
}
