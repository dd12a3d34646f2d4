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

	"github.com/brightsteps/brightsteps-web/internal/data/pgxutil"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// CoacheeRepo provides database operations for coachees.
type CoacheeRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCoacheeRepo creates a new CoacheeRepo with real time provider.
func NewCoacheeRepo(db *sql.DB) *CoacheeRepo {
	return &CoacheeRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewCoacheeRepoWithTimeProvider creates a new CoacheeRepo with a custom time provider (useful for tests).
func NewCoacheeRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *CoacheeRepo {
	return &CoacheeRepo{DB: db, timeProvider: tp}
}

// coacheeSelect joins the assigned coach so listings can show the coach name
// without a second query.
const coacheeSelect = `
	SELECT c.id, c.name, c.email, c.notes, c.coach_id, co.name AS coach_name,
	       c.created_at, c.updated_at
	FROM coachees c
	LEFT JOIN coaches co ON co.id = c.coach_id`

// Create inserts a new coachee.
func (r *CoacheeRepo) Create(ctx context.Context, req *model.CreateCoacheeRequest) (*model.Coachee, error) {
	if req == nil {
		return nil, errors.New("create coachee request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()

	var id string
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			INSERT INTO coachees (name, email, notes, coach_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING id`,
			req.Name,
			req.Email,
			strings.TrimSpace(req.Notes),
			req.CoachID,
			createdAt,
		).Scan(&id)
	})
	if err != nil {
		return nil, mapCoacheeWriteErr(err, false)
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves a coachee by ID, with the assigned coach name if any.
func (r *CoacheeRepo) GetByID(ctx context.Context, id string) (*model.Coachee, error) {
	coachee, err := pgxutil.SelectOne[model.Coachee](ctx, r.DB, coacheeSelect+` WHERE c.id = $1`, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoacheeNotFound
		}
		return nil, fmt.Errorf("failed to get coachee by ID: %w", err)
	}
	return &coachee, nil
}

// List retrieves coachees with optional filters, name order.
func (r *CoacheeRepo) List(ctx context.Context, opts model.CoacheesListOptions) ([]*model.Coachee, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := max(opts.Offset, 0)

	where := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if opts.UnassignedOnly {
		where = append(where, "c.coach_id IS NULL")
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		args = append(args, "%"+strings.TrimSpace(*opts.Q)+"%")
		where = append(where, fmt.Sprintf("c.name ILIKE $%d", len(args)))
	}

	query := coacheeSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	query += " ORDER BY c.name ASC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rowsOut, err := pgxutil.SelectRows[model.Coachee](ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list coachees: %w", err)
	}
	return asPtrSlice(rowsOut), nil
}

// Count returns the number of coachees.
func (r *CoacheeRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `SELECT COUNT(*) FROM coachees`).Scan(&count)
	}); err != nil {
		return 0, fmt.Errorf("failed to count coachees: %w", err)
	}
	return count, nil
}

// Update updates name, email or notes of a coachee. Coach assignment goes
// through AssignCoach.
func (r *CoacheeRepo) Update(ctx context.Context, id string, req model.UpdateCoacheeRequest) (*model.Coachee, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setParts := make([]string, 0, 4)
	args := make([]any, 0, 5)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, *req.Name)
	}
	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, *req.Email)
	}
	if req.Notes != nil {
		setParts = append(setParts, fmt.Sprintf("notes = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Notes))
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE coachees SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))

	rows, err := pgxutil.Exec(ctx, r.DB, query, args...)
	if err != nil {
		return nil, mapCoacheeWriteErr(err, false)
	}
	if rows == 0 {
		return nil, ErrCoacheeNotFound
	}
	return r.GetByID(ctx, id)
}

// AssignCoach sets or clears the coach assignment for a coachee. A nil
// coachID unassigns. A coachID pointing at a missing coach returns
// ErrCoachMissing.
func (r *CoacheeRepo) AssignCoach(ctx context.Context, id string, coachID *string) (*model.Coachee, error) {
	rows, err := pgxutil.Exec(ctx, r.DB, `
		UPDATE coachees SET coach_id = $1, updated_at = $2 WHERE id = $3`,
		coachID,
		r.timeProvider.Now().UTC(),
		id,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, ErrCoachMissing
		}
		return nil, fmt.Errorf("failed to assign coach: %w", err)
	}
	if rows == 0 {
		return nil, ErrCoacheeNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete deletes a coachee by ID.
func (r *CoacheeRepo) Delete(ctx context.Context, id string) (bool, error) {
	rows, err := pgxutil.Exec(ctx, r.DB, `DELETE FROM coachees WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete coachee: %w", err)
	}
	return rows > 0, nil
}

func mapCoacheeWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrCoacheeNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrCoacheeEmailExists
		case pgerrcode.ForeignKeyViolation:
			return ErrCoachMissing
		}
	}
	return err
}
