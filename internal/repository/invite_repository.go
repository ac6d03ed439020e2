package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/dinner-party-reservation/internal/model"
)

// InviteRepo provides persistence for host invites.  Invite arithmetic
// runs under the event row lock: pending and accepted invites together
// may never exceed reserved_spots, and the check-and-insert happens in
// one transaction so concurrent invites cannot overshoot the pool.
type InviteRepo struct {
	db *sql.DB
}

// NewInviteRepo returns a new InviteRepo bound to the given database.
func NewInviteRepo(db *sql.DB) *InviteRepo { return &InviteRepo{db: db} }

const inviteColumns = `id, event_id, user_id, status, created_at, responded_at`

func scanInvite(scan func(dest ...any) error) (model.Invite, error) {
	var (
		inv   model.Invite
		rspAt sql.NullTime
	)
	err := scan(&inv.ID, &inv.EventID, &inv.UserID, &inv.Status, &inv.CreatedAt, &rspAt)
	if err != nil {
		return inv, err
	}
	if rspAt.Valid {
		v := rspAt.Time
		inv.RespondedAt = &v
	}
	return inv, nil
}

// CreateTx inserts a pending invite.  The caller holds the event row
// lock and has already verified the reserved pool has room.
func (r *InviteRepo) CreateTx(ctx context.Context, tx *sql.Tx, inv *model.Invite) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO invites (event_id, user_id, status) VALUES (?,?,?)`,
		inv.EventID, inv.UserID, string(inv.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = uint64(id)
	return nil
}

// GetForUpdateTx loads an invite under an exclusive lock so two
// responses to the same invite cannot both apply.
func (r *InviteRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Invite, error) {
	inv, err := scanInvite(tx.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE id = ? FOR UPDATE`, id).Scan)
	if err == sql.ErrNoRows {
		return inv, ErrNotFound
	}
	return inv, err
}

// CountConsumingTx returns how many invites currently consume a
// reserved spot (pending or accepted).  Run under the event row lock.
func (r *InviteRepo) CountConsumingTx(ctx context.Context, tx *sql.Tx, eventID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invites WHERE event_id = ? AND status IN ('pending','accepted')`,
		eventID).Scan(&n)
	return n, err
}

// HasActiveTx reports whether the user already holds a pending or
// accepted invite for the event.
func (r *InviteRepo) HasActiveTx(ctx context.Context, tx *sql.Tx, eventID, userID uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invites
		 WHERE event_id = ? AND user_id = ? AND status IN ('pending','accepted')`,
		eventID, userID).Scan(&n)
	return n > 0, err
}

// UpdateStatusTx records the invitee's response.
func (r *InviteRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.InviteStatus) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE invites SET status=?, responded_at=? WHERE id=?`,
		string(status), time.Now().UTC(), id)
	return err
}

// InviteRow is one invite in a listing, joined with whichever side the
// viewer does not already know: the invitee for hosts, the event for
// invitees.
type InviteRow struct {
	Invite     model.Invite
	Username   string
	EventTitle string
	EventDate  time.Time
}

// ListByEvent returns the invites of an event with each invitee's
// username, oldest first.
func (r *InviteRepo) ListByEvent(ctx context.Context, eventID uint64) ([]InviteRow, error) {
	const q = `SELECT i.id, i.event_id, i.user_id, i.status, i.created_at, i.responded_at,
	       u.username, e.title, e.event_date
	     FROM invites i
	     JOIN users u ON u.id = i.user_id
	     JOIN events e ON e.id = i.event_id
	     WHERE i.event_id = ?
	     ORDER BY i.created_at`
	return r.collect(ctx, q, eventID)
}

// ListPendingByUser returns the invites awaiting the user's response,
// soonest event first.
func (r *InviteRepo) ListPendingByUser(ctx context.Context, userID uint64) ([]InviteRow, error) {
	const q = `SELECT i.id, i.event_id, i.user_id, i.status, i.created_at, i.responded_at,
	       u.username, e.title, e.event_date
	     FROM invites i
	     JOIN users u ON u.id = i.user_id
	     JOIN events e ON e.id = i.event_id
	     WHERE i.user_id = ? AND i.status = 'pending'
	     ORDER BY e.event_date`
	return r.collect(ctx, q, userID)
}

func (r *InviteRepo) collect(ctx context.Context, q string, arg any) ([]InviteRow, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]InviteRow, 0)
	for rows.Next() {
		var ir InviteRow
		inv, err := scanInvite(func(dest ...any) error {
			return rows.Scan(append(dest, &ir.Username, &ir.EventTitle, &ir.EventDate)...)
		})
		if err != nil {
			return nil, err
		}
		ir.Invite = inv
		out = append(out, ir)
	}
	return out, rows.Err()
}
