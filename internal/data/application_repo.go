package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brightsteps/brightsteps-web/internal/data/pgxutil"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// ApplicationRepo provides database operations for mentor applications.
type ApplicationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewApplicationRepo creates a new ApplicationRepo with real time provider.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewApplicationRepoWithTimeProvider creates a new ApplicationRepo with a custom time provider (useful for tests).
func NewApplicationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: tp}
}

// Create inserts a new mentor application, submitted from the public site.
func (r *ApplicationRepo) Create(ctx context.Context, req *model.CreateMentorApplicationRequest) (*model.MentorApplication, error) {
	if req == nil {
		return nil, errors.New("create mentor application request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	out, err := pgxutil.SelectOne[model.MentorApplication](ctx, r.DB, `
		INSERT INTO mentor_applications (name, email, phone, motivation, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+applicationColumns,
		req.Name,
		req.Email,
		req.Phone,
		strings.TrimSpace(req.Motivation),
		r.timeProvider.Now().UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrApplicationEmailExists
		}
		return nil, fmt.Errorf("failed to create mentor application: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a mentor application by ID.
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.MentorApplication, error) {
	app, err := pgxutil.SelectOne[model.MentorApplication](ctx, r.DB,
		`SELECT `+applicationColumns+` FROM mentor_applications WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get mentor application by ID: %w", err)
	}
	return &app, nil
}

// List retrieves mentor applications, oldest first so reviewers work the queue in order.
func (r *ApplicationRepo) List(ctx context.Context, limit, offset int) ([]*model.MentorApplication, error) {
	if limit <= 0 {
		limit = 100
	}
	offset = max(offset, 0)

	rowsOut, err := pgxutil.SelectRows[model.MentorApplication](ctx, r.DB,
		`SELECT `+applicationColumns+` FROM mentor_applications
		 ORDER BY created_at ASC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentor applications: %w", err)
	}
	return asPtrSlice(rowsOut), nil
}

// Count returns the number of pending mentor applications.
func (r *ApplicationRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `SELECT COUNT(*) FROM mentor_applications`).Scan(&count)
	}); err != nil {
		return 0, fmt.Errorf("failed to count mentor applications: %w", err)
	}
	return count, nil
}

// Approve converts a mentor application into a coach. The coach insert and
// the application delete happen in one transaction so a failure leaves the
// application in the queue.
func (r *ApplicationRepo) Approve(ctx context.Context, id string) (*model.Coach, error) {
	var coach model.Coach
	err := pgxutil.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT `+applicationColumns+` FROM mentor_applications WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}
		app, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MentorApplication])
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrApplicationNotFound
			}
			return err
		}

		coach, err = insertCoach(ctx, tx, &model.CreateCoachRequest{
			Name:  app.Name,
			Email: app.Email,
			Bio:   app.Motivation,
		}, r.timeProvider)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `DELETE FROM mentor_applications WHERE id = $1`, id)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			return nil, ErrApplicationNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrCoachEmailExists
		}
		return nil, fmt.Errorf("failed to approve mentor application: %w", err)
	}
	return &coach, nil
}

// Delete removes a mentor application, used for rejections.
func (r *ApplicationRepo) Delete(ctx context.Context, id string) (bool, error) {
	rows, err := pgxutil.Exec(ctx, r.DB, `DELETE FROM mentor_applications WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete mentor application: %w", err)
	}
	return rows > 0, nil
}

const applicationColumns = `id, name, email, phone, motivation, created_at`
