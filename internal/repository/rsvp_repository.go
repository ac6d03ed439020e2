package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/dinner-party-reservation/internal/model"
)

// RSVPRepo provides persistence for guest attendance records.  All the
// write paths that touch capacity run inside a transaction opened by
// the handler, after the event row lock has been taken.
type RSVPRepo struct {
	db *sql.DB
}

// NewRSVPRepo returns a new RSVPRepo bound to the given database.
func NewRSVPRepo(db *sql.DB) *RSVPRepo { return &RSVPRepo{db: db} }

// DB exposes the underlying handle for handler-scoped transactions.
func (r *RSVPRepo) DB() *sql.DB { return r.db }

const rsvpColumns = `id, user_id, event_id, food_item_id, status, guest_count, message,
       bringing_food_item, food_notes, is_reserved, invited_at, created_at, updated_at,
       confirmed_at, attended_at`

func scanRSVP(scan func(dest ...any) error) (model.RSVP, error) {
	var (
		r      model.RSVP
		foodID sql.NullInt64
		msg    sql.NullString
		bring  sql.NullString
		fnotes sql.NullString
		invAt  sql.NullTime
		confAt sql.NullTime
		attAt  sql.NullTime
	)
	err := scan(&r.ID, &r.UserID, &r.EventID, &foodID, &r.Status, &r.GuestCount,
		&msg, &bring, &fnotes, &r.IsReserved, &invAt, &r.CreatedAt, &r.UpdatedAt,
		&confAt, &attAt)
	if err != nil {
		return r, err
	}
	if foodID.Valid {
		v := uint64(foodID.Int64)
		r.FoodItemID = &v
	}
	if msg.Valid {
		v := msg.String
		r.Message = &v
	}
	if bring.Valid {
		v := bring.String
		r.BringingFoodItem = &v
	}
	if fnotes.Valid {
		v := fnotes.String
		r.FoodNotes = &v
	}
	if invAt.Valid {
		v := invAt.Time
		r.InvitedAt = &v
	}
	if confAt.Valid {
		v := confAt.Time
		r.ConfirmedAt = &v
	}
	if attAt.Valid {
		v := attAt.Time
		r.AttendedAt = &v
	}
	return r, nil
}

// CreateTx inserts a new RSVP and populates its generated ID.  The
// caller has already verified capacity under the event row lock.
func (r *RSVPRepo) CreateTx(ctx context.Context, tx *sql.Tx, rv *model.RSVP) error {
	const q = `INSERT INTO rsvps (user_id, event_id, food_item_id, status, guest_count,
	           message, bringing_food_item, food_notes, is_reserved, invited_at, confirmed_at)
	           VALUES (?,?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		rv.UserID, rv.EventID, rv.FoodItemID, string(rv.Status), rv.GuestCount,
		rv.Message, rv.BringingFoodItem, rv.FoodNotes, rv.IsReserved,
		rv.InvitedAt, rv.ConfirmedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// GetForUpdateTx loads an RSVP under an exclusive lock so a status
// transition cannot race a concurrent one for the same row.
func (r *RSVPRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.RSVP, error) {
	rv, err := scanRSVP(tx.QueryRowContext(ctx,
		`SELECT `+rsvpColumns+` FROM rsvps WHERE id = ? FOR UPDATE`, id).Scan)
	if err == sql.ErrNoRows {
		return rv, ErrNotFound
	}
	return rv, err
}

// HasActiveTx reports whether the user already holds an active RSVP for
// the event.  Runs under the event row lock so the answer cannot be
// invalidated before the caller's insert commits.
func (r *RSVPRepo) HasActiveTx(ctx context.Context, tx *sql.Tx, eventID, userID uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rsvps
		 WHERE event_id = ? AND user_id = ? AND status NOT IN ('cancelled','declined')`,
		eventID, userID).Scan(&n)
	return n > 0, err
}

// UpdateStatusTx moves an RSVP to a new status, stamping the matching
// timestamp column for confirmations and attendance outcomes.
func (r *RSVPRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.RSVPStatus) error {
	now := time.Now().UTC()
	switch {
	case status == model.RSVPConfirmed:
		_, err := tx.ExecContext(ctx,
			`UPDATE rsvps SET status=?, confirmed_at=?, updated_at=? WHERE id=?`,
			string(status), now, now, id)
		return err
	case status.Outcome():
		_, err := tx.ExecContext(ctx,
			`UPDATE rsvps SET status=?, attended_at=?, updated_at=? WHERE id=?`,
			string(status), now, now, id)
		return err
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE rsvps SET status=?, updated_at=? WHERE id=?`,
		string(status), now, id)
	return err
}

// UpdateDetailsTx applies a guest's partial edit of their own RSVP:
// party size, message and the free-text food fields.  Food-item claims
// move through the food repository, not here.
func (r *RSVPRepo) UpdateDetailsTx(ctx context.Context, tx *sql.Tx, rv *model.RSVP) error {
	const q = `UPDATE rsvps SET guest_count=?, message=?, bringing_food_item=?,
	           food_notes=?, food_item_id=?, updated_at=? WHERE id=?`
	_, err := tx.ExecContext(ctx, q,
		rv.GuestCount, rv.Message, rv.BringingFoodItem, rv.FoodNotes, rv.FoodItemID,
		time.Now().UTC(), rv.ID)
	return err
}

// ListConfirmedTx returns the confirmed RSVPs of an event, the set the
// completion endpoint must assign outcomes to.  Locked so no RSVP can
// slip in or out between the read and the outcome writes.
func (r *RSVPRepo) ListConfirmedTx(ctx context.Context, tx *sql.Tx, eventID uint64) ([]model.RSVP, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+rsvpColumns+` FROM rsvps WHERE event_id = ? AND status = 'confirmed' FOR UPDATE`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RSVP, 0)
	for rows.Next() {
		rv, err := scanRSVP(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// UserRow is one RSVP in a host-facing listing, with the guest's public
// identity and the raw counts the handler turns into trust metrics.
type UserRow struct {
	RSVP     model.RSVP
	Username string
	Hosted   int
	Attended int
	NoShows  int
}

// ListByEvent returns every RSVP of an event, guests joined in, oldest
// first.
func (r *RSVPRepo) ListByEvent(ctx context.Context, eventID uint64) ([]UserRow, error) {
	const q = `SELECT r.id, r.user_id, r.event_id, r.food_item_id, r.status, r.guest_count,
	       r.message, r.bringing_food_item, r.food_notes, r.is_reserved, r.invited_at,
	       r.created_at, r.updated_at, r.confirmed_at, r.attended_at,
	       u.username,
	       (SELECT COUNT(*) FROM events he WHERE he.host_id = u.id AND he.status = 'completed'),
	       (SELECT COUNT(*) FROM rsvps hr WHERE hr.user_id = u.id AND hr.status = 'attended'),
	       (SELECT COUNT(*) FROM rsvps hr WHERE hr.user_id = u.id AND hr.status = 'no_show')
	     FROM rsvps r
	     JOIN users u ON u.id = r.user_id
	     WHERE r.event_id = ?
	     ORDER BY r.created_at`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]UserRow, 0)
	for rows.Next() {
		var ur UserRow
		scan := func(dest ...any) error {
			dest = append(dest, &ur.Username, &ur.Hosted, &ur.Attended, &ur.NoShows)
			return rows.Scan(dest...)
		}
		rv, err := scanRSVP(scan)
		if err != nil {
			return nil, err
		}
		ur.RSVP = rv
		out = append(out, ur)
	}
	return out, rows.Err()
}

// EventRow is one RSVP in a guest-facing listing, with the event the
// RSVP belongs to.
type EventRow struct {
	RSVP  model.RSVP
	Event model.Event
}

// ListByUser returns every RSVP the user has made, newest event first.
func (r *RSVPRepo) ListByUser(ctx context.Context, userID uint64) ([]EventRow, error) {
	const q = `SELECT r.id, r.user_id, r.event_id, r.food_item_id, r.status, r.guest_count,
	       r.message, r.bringing_food_item, r.food_notes, r.is_reserved, r.invited_at,
	       r.created_at, r.updated_at, r.confirmed_at, r.attended_at,
	       e.id, e.host_id, e.title, e.description, e.event_date, e.location_name,
	       e.location_address, e.location_notes, e.max_guests, e.reserved_spots, e.min_guests,
	       e.rsvp_deadline, e.confirmation_deadline, e.status, e.is_public, e.created_at, e.updated_at
	     FROM rsvps r
	     JOIN events e ON e.id = r.event_id
	     WHERE r.user_id = ?
	     ORDER BY e.event_date DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]EventRow, 0)
	for rows.Next() {
		var er EventRow
		rv, err := scanRSVP(func(dest ...any) error {
			ev, evErr := scanEvent(func(evDest ...any) error {
				return rows.Scan(append(dest, evDest...)...)
			})
			er.Event = ev
			return evErr
		})
		if err != nil {
			return nil, err
		}
		er.RSVP = rv
		out = append(out, er)
	}
	return out, rows.Err()
}
