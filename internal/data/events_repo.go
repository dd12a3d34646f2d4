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

// EventsRepo provides database operations for events and RSVPs.
type EventsRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEventsRepo creates a new EventsRepo with real time provider.
func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewEventsRepoWithTimeProvider creates a new EventsRepo with a custom time provider (useful for tests).
func NewEventsRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *EventsRepo {
	return &EventsRepo{DB: db, timeProvider: tp}
}

// eventSelect carries the RSVP count along so listings and capacity displays
// need no second query.
const eventSelect = `
	SELECT e.id, e.title, e.description, e.location, e.starts_at, e.ends_at,
	       e.capacity, e.published, e.created_at, e.updated_at,
	       (SELECT COUNT(*) FROM event_rsvps r WHERE r.event_id = e.id) AS rsvp_count
	FROM events e`

// Create inserts a new event.
func (r *EventsRepo) Create(ctx context.Context, req *model.CreateEventRequest) (*model.Event, error) {
	if req == nil {
		return nil, errors.New("create event request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()

	var id string
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			INSERT INTO events (title, description, location, starts_at, ends_at, capacity, published, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			RETURNING id`,
			req.Title,
			strings.TrimSpace(req.Description),
			req.Location,
			req.StartsAt.UTC(),
			req.EndsAt,
			req.Capacity,
			req.Published,
			createdAt,
		).Scan(&id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves an event by ID with its RSVP count.
func (r *EventsRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	event, err := pgxutil.SelectOne[model.Event](ctx, r.DB, eventSelect+` WHERE e.id = $1`, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}
	return &event, nil
}

// List retrieves events ordered by start time, soonest first.
func (r *EventsRepo) List(ctx context.Context, opts model.EventsListOptions) ([]*model.Event, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := max(opts.Offset, 0)

	where := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if opts.PublishedOnly {
		where = append(where, "e.published = TRUE")
	}
	if opts.UpcomingOnly {
		args = append(args, r.timeProvider.Now().UTC())
		where = append(where, fmt.Sprintf("e.starts_at >= $%d", len(args)))
	}

	query := eventSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	query += " ORDER BY e.starts_at ASC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rowsOut, err := pgxutil.SelectRows[model.Event](ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return asPtrSlice(rowsOut), nil
}

// Count returns the number of upcoming events.
func (r *EventsRepo) CountUpcoming(ctx context.Context) (int, error) {
	var count int
	if err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT COUNT(*) FROM events WHERE starts_at >= $1`,
			r.timeProvider.Now().UTC(),
		).Scan(&count)
	}); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// Update updates fields of an event.
func (r *EventsRepo) Update(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setParts := make([]string, 0, 8)
	args := make([]any, 0, 9)
	nextIdx := func() int { return len(args) + 1 }

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, *req.Title)
	}
	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Description))
	}
	if req.Location != nil {
		setParts = append(setParts, fmt.Sprintf("location = $%d", nextIdx()))
		args = append(args, *req.Location)
	}
	if req.StartsAt != nil {
		setParts = append(setParts, fmt.Sprintf("starts_at = $%d", nextIdx()))
		args = append(args, req.StartsAt.UTC())
	}
	if req.EndsAt != nil {
		setParts = append(setParts, fmt.Sprintf("ends_at = $%d", nextIdx()))
		args = append(args, req.EndsAt.UTC())
	}
	if req.Capacity != nil {
		setParts = append(setParts, fmt.Sprintf("capacity = $%d", nextIdx()))
		args = append(args, *req.Capacity)
	}
	if req.Published != nil {
		setParts = append(setParts, fmt.Sprintf("published = $%d", nextIdx()))
		args = append(args, *req.Published)
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE events SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))

	rows, err := pgxutil.Exec(ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if rows == 0 {
		return nil, ErrEventNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete deletes an event and its RSVPs.
func (r *EventsRepo) Delete(ctx context.Context, id string) (bool, error) {
	rows, err := pgxutil.Exec(ctx, r.DB, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete event: %w", err)
	}
	return rows > 0, nil
}

// CreateRSVP records an attendee for an event. The event row is locked for
// the capacity check so concurrent RSVPs cannot overbook.
func (r *EventsRepo) CreateRSVP(ctx context.Context, req *model.CreateEventRSVPRequest) (*model.EventRSVP, error) {
	if req == nil {
		return nil, errors.New("create RSVP request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	var rsvp model.EventRSVP
	err := pgxutil.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var capacity, taken int
		err := tx.QueryRow(ctx, `
			SELECT capacity,
			       (SELECT COUNT(*) FROM event_rsvps r WHERE r.event_id = e.id)
			FROM events e WHERE e.id = $1 FOR UPDATE`,
			req.EventID,
		).Scan(&capacity, &taken)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrEventNotFound
			}
			return err
		}
		if capacity > 0 && taken >= capacity {
			return ErrEventFull
		}

		rows, err := tx.Query(ctx, `
			INSERT INTO event_rsvps (event_id, name, email, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id, event_id, name, email, created_at`,
			req.EventID,
			req.Name,
			req.Email,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		rsvp, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.EventRSVP])
		return err
	})
	if err != nil {
		if errors.Is(err, ErrEventNotFound) || errors.Is(err, ErrEventFull) {
			return nil, err
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return nil, ErrAlreadyAttending
			case pgerrcode.ForeignKeyViolation:
				return nil, ErrEventNotFound
			}
		}
		return nil, fmt.Errorf("failed to create RSVP: %w", err)
	}
	return &rsvp, nil
}

// ListRSVPs retrieves the attendee list for an event, oldest first.
func (r *EventsRepo) ListRSVPs(ctx context.Context, eventID string) ([]*model.EventRSVP, error) {
	rowsOut, err := pgxutil.SelectRows[model.EventRSVP](ctx, r.DB, `
		SELECT id, event_id, name, email, created_at
		FROM event_rsvps WHERE event_id = $1
		ORDER BY created_at ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list RSVPs: %w", err)
	}
	return asPtrSlice(rowsOut), nil
}

// DeleteRSVP removes an attendee from an event.
func (r *EventsRepo) DeleteRSVP(ctx context.Context, id string) (bool, error) {
	rows, err := pgxutil.Exec(ctx, r.DB, `DELETE FROM event_rsvps WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete RSVP: %w", err)
	}
	return rows > 0, nil
}
