package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/dinner-party-reservation/internal/model"
)

// EventRepo provides persistence for events and the guest-count
// aggregates derived from their RSVP set.  Aggregates are never stored:
// every read recomputes them from the live rows, so the counters cannot
// drift from the RSVPs that justify them.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions
// that span several repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventColumns = `id, host_id, title, description, event_date, location_name,
       location_address, location_notes, max_guests, reserved_spots, min_guests,
       rsvp_deadline, confirmation_deadline, status, is_public, created_at, updated_at`

func scanEvent(scan func(dest ...any) error) (model.Event, error) {
	var (
		e        model.Event
		desc     sql.NullString
		addr     sql.NullString
		notes    sql.NullString
		isPublic bool
	)
	err := scan(&e.ID, &e.HostID, &e.Title, &desc, &e.EventDate, &e.LocationName,
		&addr, &notes, &e.MaxGuests, &e.ReservedSpots, &e.MinGuests,
		&e.RSVPDeadline, &e.ConfirmationDeadline, &e.Status, &isPublic,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, err
	}
	e.IsPublic = isPublic
	if desc.Valid {
		v := desc.String
		e.Description = &v
	}
	if addr.Valid {
		v := addr.String
		e.LocationAddress = &v
	}
	if notes.Valid {
		v := notes.String
		e.LocationNotes = &v
	}
	return e, nil
}

// CreateTx inserts a new event within the scope of an existing
// transaction and populates the generated ID on the provided model.
// The caller must commit or roll back the transaction.
func (r *EventRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.Event) error {
	const q = `INSERT INTO events (host_id, title, description, event_date, location_name,
	           location_address, location_notes, max_guests, reserved_spots, min_guests,
	           rsvp_deadline, confirmation_deadline, status, is_public)
	           VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		e.HostID, e.Title, e.Description, e.EventDate.UTC(), e.LocationName,
		e.LocationAddress, e.LocationNotes, e.MaxGuests, e.ReservedSpots, e.MinGuests,
		e.RSVPDeadline.UTC(), e.ConfirmationDeadline.UTC(), string(e.Status), e.IsPublic)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByID returns a single event.  ErrNotFound when no row exists.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id).Scan)
	if err == sql.ErrNoRows {
		return e, ErrNotFound
	}
	return e, err
}

// GetForUpdateTx loads the event row under an exclusive lock.  The lock
// is the per-event mutex for every capacity-affecting operation: two
// RSVP submissions for the same event cannot interleave their
// check-and-increment once both try to take it.
func (r *EventRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Event, error) {
	e, err := scanEvent(tx.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ? FOR UPDATE`, id).Scan)
	if err == sql.ErrNoRows {
		return e, ErrNotFound
	}
	return e, err
}

// Aggregates carries the guest-count projections for one event, derived
// from its live RSVP set.
type Aggregates struct {
	// ActiveGuests is the sum of guest_count over non-reserved RSVPs in
	// pending or confirmed state; it is what the free pool is charged.
	ActiveGuests int
	// ConfirmedGuests is the sum of guest_count over confirmed and
	// attended RSVPs, reserved included.
	ConfirmedGuests int
}

const aggregateQuery = `SELECT
	  COALESCE(SUM(CASE WHEN status IN ('pending','confirmed') AND is_reserved = 0 THEN guest_count ELSE 0 END), 0),
	  COALESCE(SUM(CASE WHEN status IN ('confirmed','attended') THEN guest_count ELSE 0 END), 0)
	FROM rsvps WHERE event_id = ?`

// AggregatesFor derives the guest counts for an event.
func (r *EventRepo) AggregatesFor(ctx context.Context, eventID uint64) (Aggregates, error) {
	var a Aggregates
	err := r.db.QueryRowContext(ctx, aggregateQuery, eventID).Scan(&a.ActiveGuests, &a.ConfirmedGuests)
	return a, err
}

// AggregatesForTx derives the guest counts inside a transaction, after
// the event row lock has been taken, so the numbers are stable for the
// remainder of the transaction.
func (r *EventRepo) AggregatesForTx(ctx context.Context, tx *sql.Tx, eventID uint64) (Aggregates, error) {
	var a Aggregates
	err := tx.QueryRowContext(ctx, aggregateQuery, eventID).Scan(&a.ActiveGuests, &a.ConfirmedGuests)
	return a, err
}

// ListRow is one event in a listing, together with the host's public
// identity and the raw counts the handler turns into a trust score.
type ListRow struct {
	Event           model.Event
	HostUsername    string
	HostHosted      int
	HostAttended    int
	HostNoShows     int
	ActiveGuests    int
	ConfirmedGuests int
}

const listSelect = `SELECT e.id, e.host_id, e.title, e.description, e.event_date, e.location_name,
	   e.location_address, e.location_notes, e.max_guests, e.reserved_spots, e.min_guests,
	   e.rsvp_deadline, e.confirmation_deadline, e.status, e.is_public, e.created_at, e.updated_at,
	   u.username,
	   (SELECT COUNT(*) FROM events he WHERE he.host_id = u.id AND he.status = 'completed'),
	   (SELECT COUNT(*) FROM rsvps hr WHERE hr.user_id = u.id AND hr.status = 'attended'),
	   (SELECT COUNT(*) FROM rsvps hr WHERE hr.user_id = u.id AND hr.status = 'no_show'),
	   COALESCE((SELECT SUM(r.guest_count) FROM rsvps r
	             WHERE r.event_id = e.id AND r.status IN ('pending','confirmed') AND r.is_reserved = 0), 0),
	   COALESCE((SELECT SUM(r.guest_count) FROM rsvps r
	             WHERE r.event_id = e.id AND r.status IN ('confirmed','attended')), 0)
	 FROM events e
	 JOIN users u ON u.id = e.host_id`

func collectListRows(rows *sql.Rows) ([]ListRow, error) {
	defer rows.Close()
	out := make([]ListRow, 0)
	for rows.Next() {
		var (
			lr    ListRow
			desc  sql.NullString
			addr  sql.NullString
			notes sql.NullString
		)
		if err := rows.Scan(&lr.Event.ID, &lr.Event.HostID, &lr.Event.Title, &desc,
			&lr.Event.EventDate, &lr.Event.LocationName, &addr, &notes,
			&lr.Event.MaxGuests, &lr.Event.ReservedSpots, &lr.Event.MinGuests,
			&lr.Event.RSVPDeadline, &lr.Event.ConfirmationDeadline, &lr.Event.Status,
			&lr.Event.IsPublic, &lr.Event.CreatedAt, &lr.Event.UpdatedAt,
			&lr.HostUsername, &lr.HostHosted, &lr.HostAttended, &lr.HostNoShows,
			&lr.ActiveGuests, &lr.ConfirmedGuests); err != nil {
			return nil, err
		}
		if desc.Valid {
			v := desc.String
			lr.Event.Description = &v
		}
		if addr.Valid {
			v := addr.String
			lr.Event.LocationAddress = &v
		}
		if notes.Valid {
			v := notes.String
			lr.Event.LocationNotes = &v
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}

// ListPublic returns public events ordered by event date.  When
// statuses is empty it defaults to open and confirmed; when
// upcomingOnly is set, past events are filtered out.
func (r *EventRepo) ListPublic(ctx context.Context, statuses []model.EventStatus, upcomingOnly bool) ([]ListRow, error) {
	if len(statuses) == 0 {
		statuses = []model.EventStatus{model.EventOpen, model.EventConfirmed}
	}
	q := listSelect + ` WHERE e.is_public = 1 AND e.status IN (`
	args := make([]any, 0, len(statuses)+1)
	for i, s := range statuses {
		if i > 0 {
			q += ","
		}
		q += "?"
		args = append(args, string(s))
	}
	q += ")"
	if upcomingOnly {
		q += " AND e.event_date > ?"
		args = append(args, time.Now().UTC())
	}
	q += " ORDER BY e.event_date"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectListRows(rows)
}

// ListByHost returns every event hosted by the user, newest first.
func (r *EventRepo) ListByHost(ctx context.Context, hostID uint64) ([]ListRow, error) {
	rows, err := r.db.QueryContext(ctx,
		listSelect+` WHERE e.host_id = ? ORDER BY e.event_date DESC`, hostID)
	if err != nil {
		return nil, err
	}
	return collectListRows(rows)
}

// GetDetail returns one event together with its host identity and
// guest aggregates, regardless of visibility.
func (r *EventRepo) GetDetail(ctx context.Context, id uint64) (ListRow, error) {
	rows, err := r.db.QueryContext(ctx, listSelect+` WHERE e.id = ?`, id)
	if err != nil {
		return ListRow{}, err
	}
	out, err := collectListRows(rows)
	if err != nil {
		return ListRow{}, err
	}
	if len(out) == 0 {
		return ListRow{}, ErrNotFound
	}
	return out[0], nil
}

// UpdateFieldsTx applies a partial update of the mutable event fields.
// Capacity configuration and deadlines may be adjusted while the event
// has not reached a terminal status; status itself moves only through
// UpdateStatusTx.
func (r *EventRepo) UpdateFieldsTx(ctx context.Context, tx *sql.Tx, e *model.Event) error {
	const q = `UPDATE events SET title=?, description=?, event_date=?, location_name=?,
	           location_address=?, location_notes=?, max_guests=?, reserved_spots=?,
	           min_guests=?, rsvp_deadline=?, confirmation_deadline=?, is_public=?, updated_at=?
	           WHERE id=?`
	_, err := tx.ExecContext(ctx, q,
		e.Title, e.Description, e.EventDate.UTC(), e.LocationName,
		e.LocationAddress, e.LocationNotes, e.MaxGuests, e.ReservedSpots,
		e.MinGuests, e.RSVPDeadline.UTC(), e.ConfirmationDeadline.UTC(), e.IsPublic,
		time.Now().UTC(), e.ID)
	return err
}

// UpdateStatusTx moves the event to a new lifecycle status.  Callers
// validate the transition against model.EventStatus.CanTransition while
// holding the row lock.
func (r *EventRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.EventStatus) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE events SET status=?, updated_at=? WHERE id=?`,
		string(status), time.Now().UTC(), id)
	return err
}

// CancelCascadeTx performs the transactional fan-out of an event
// cancellation: every active RSVP moves to cancelled, every pending
// invite is declined, and the food-claim projection is recomputed from
// the surviving rows.  All of it commits with the event's own status
// change or none of it does.
func (r *EventRepo) CancelCascadeTx(ctx context.Context, tx *sql.Tx, eventID uint64) error {
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE rsvps SET status='cancelled', updated_at=?
		 WHERE event_id=? AND status IN ('pending','confirmed')`, now, eventID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE invites SET status='declined', responded_at=?
		 WHERE event_id=? AND status='pending'`, now, eventID); err != nil {
		return err
	}
	// With the claiming RSVPs gone, the projection collapses to zero
	// for every item of the event; recompute from the rows to be exact.
	_, err := tx.ExecContext(ctx,
		`UPDATE event_food_items fi SET fi.quantity_claimed =
		   (SELECT COUNT(*) FROM rsvps r
		    WHERE r.food_item_id = fi.id AND r.status NOT IN ('cancelled','declined'))
		 WHERE fi.event_id = ?`, eventID)
	return err
}
