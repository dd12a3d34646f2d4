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

	"github.com/brightsteps/brightsteps-web/internal/data/database"
	"github.com/brightsteps/brightsteps-web/internal/data/pgxutil"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// CoachRepo provides database operations for coaches.
type CoachRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCoachRepo creates a new CoachRepo with real time provider.
func NewCoachRepo(db *sql.DB) *CoachRepo {
	return &CoachRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewCoachRepoWithTimeProvider creates a new CoachRepo with a custom time provider (useful for tests).
func NewCoachRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *CoachRepo {
	return &CoachRepo{DB: db, timeProvider: tp}
}

// Create inserts a new coach.
func (r *CoachRepo) Create(ctx context.Context, req *model.CreateCoachRequest) (*model.Coach, error) {
	if req == nil {
		return nil, errors.New("create coach request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Coach
	if err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = insertCoach(ctx, conn, req, r.timeProvider)
		return err
	}); err != nil {
		return nil, mapCoachWriteErr(err, false)
	}
	return &out, nil
}

// insertCoach runs the coach INSERT on any pgx querier so it can participate
// in the mentor application approval transaction.
func insertCoach(ctx context.Context, q querier, req *model.CreateCoachRequest, tp TimeProvider) (model.Coach, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	createdAt := tp.Now().UTC()

	rows, err := q.Query(ctx, `
		INSERT INTO coaches (name, email, bio, photo_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+coachColumns,
		req.Name,
		req.Email,
		strings.TrimSpace(req.Bio),
		req.PhotoURL,
		active,
		createdAt,
	)
	if err != nil {
		return model.Coach{}, err
	}
	defer rows.Close()
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Coach])
}

// querier abstracts pgx.Conn and pgx.Tx for statements that run either
// standalone or inside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// GetByID retrieves a coach by ID.
func (r *CoachRepo) GetByID(ctx context.Context, id string) (*model.Coach, error) {
	coach, err := pgxutil.SelectOne[model.Coach](ctx, r.DB,
		`SELECT `+coachColumns+` FROM coaches WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, fmt.Errorf("failed to get coach by ID: %w", err)
	}
	return &coach, nil
}

// List retrieves coaches with optional filters, name order.
func (r *CoachRepo) List(ctx context.Context, opts model.CoachesListOptions) ([]*model.Coach, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(coachColumnList()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy("name", sortDirAsc),
	}
	if opts.ActiveOnly {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("active", database.Equal, true),
		))
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("name", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("coaches", queryOpts...))

	rowsOut, err := pgxutil.SelectRows[model.Coach](ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list coaches: %w", err)
	}
	return asPtrSlice(rowsOut), nil
}

// Count returns the number of coaches, optionally active only.
func (r *CoachRepo) Count(ctx context.Context, activeOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM coaches`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	var count int
	if err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query).Scan(&count)
	}); err != nil {
		return 0, fmt.Errorf("failed to count coaches: %w", err)
	}
	return count, nil
}

// Update updates fields of a coach.
func (r *CoachRepo) Update(ctx context.Context, id string, req model.UpdateCoachRequest) (*model.Coach, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setParts := make([]string, 0, 6)
	args := make([]any, 0, 7)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, *req.Name)
	}
	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, *req.Email)
	}
	if req.Bio != nil {
		setParts = append(setParts, fmt.Sprintf("bio = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Bio))
	}
	if req.PhotoURL != nil {
		if strings.TrimSpace(*req.PhotoURL) == "" {
			setParts = append(setParts, "photo_url = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("photo_url = $%d", nextIdx()))
			args = append(args, *req.PhotoURL)
		}
	}
	if req.Active != nil {
		setParts = append(setParts, fmt.Sprintf("active = $%d", nextIdx()))
		args = append(args, *req.Active)
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE coaches SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + coachColumns

	out, err := pgxutil.SelectOne[model.Coach](ctx, r.DB, query, args...)
	if err != nil {
		return nil, mapCoachWriteErr(err, true)
	}
	return &out, nil
}

// Delete deletes a coach by ID. Coachees assigned to the coach become
// unassigned via ON DELETE SET NULL.
func (r *CoachRepo) Delete(ctx context.Context, id string) (bool, error) {
	rows, err := pgxutil.Exec(ctx, r.DB, `DELETE FROM coaches WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete coach: %w", err)
	}
	return rows > 0, nil
}

const coachColumns = `id, name, email, bio, photo_url, active, created_at, updated_at`

func coachColumnList() []string {
	return []string{"id", "name", "email", "bio", "photo_url", "active", "created_at", "updated_at"}
}

func mapCoachWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrCoachNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrCoachEmailExists
	}
	return err
}
