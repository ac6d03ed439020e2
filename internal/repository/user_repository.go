package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/dinner-party-reservation/internal/model"
	"github.com/iliyamo/dinner-party-reservation/internal/reputation"
	"github.com/iliyamo/dinner-party-reservation/internal/utils"
)

// UserRepo provides access to the users table and to the derived
// reputation history a user has accumulated across events and RSVPs.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, email, username, password_hash, full_name, referral_code,
       referred_by_id, referral_points, is_active, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u          model.User
		fullName   sql.NullString
		referredBy sql.NullInt64
	)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &fullName,
		&u.ReferralCode, &referredBy, &u.ReferralPoints, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	if fullName.Valid {
		v := fullName.String
		u.FullName = &v
	}
	if referredBy.Valid {
		v := uint64(referredBy.Int64)
		u.ReferredByID = &v
	}
	return u, nil
}

// Create inserts a user and returns its ID.  The referral code is
// generated here and retried once on the (unlikely) collision with an
// existing code.  Duplicate email and username violations are mapped to
// their sentinel errors.
func (r *UserRepo) Create(ctx context.Context, email, username, password string, fullName *string, referredBy *uint64, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	for attempt := 0; attempt < 2; attempt++ {
		code := utils.NewReferralCode()
		res, err := r.DB.ExecContext(ctx,
			`INSERT INTO users (email, username, password_hash, full_name, referral_code, referred_by_id)
			 VALUES (?,?,?,?,?,?)`,
			email, username, hash, fullName, code, referredBy)
		if err != nil {
			msg := strings.ToLower(err.Error())
			if strings.Contains(msg, "1062") {
				switch {
				case strings.Contains(msg, "email"):
					return 0, ErrEmailExists
				case strings.Contains(msg, "username"):
					return 0, ErrUsernameExists
				case strings.Contains(msg, "referral_code"):
					continue // regenerate and retry once
				}
			}
			return 0, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		return uint64(id), nil
	}
	return 0, ErrValidation
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email=? LIMIT 1`, email))
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// GetByUsername fetches a user by their public handle.  Used when the
// host invites a guest by name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username=? LIMIT 1`, strings.TrimSpace(username)))
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// GetByReferralCode fetches the owner of a referral code.  Codes are
// stored upper-case; lookup normalizes the input so validation is
// case-insensitive.
func (r *UserRepo) GetByReferralCode(ctx context.Context, code string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE referral_code=? LIMIT 1`, utils.NormalizeReferralCode(code)))
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// History aggregates the user's reputation-relevant counts from the
// rows that justify them: completed hosted events and terminal RSVP
// outcomes.  Nothing is cached; every call reads the live state.
func (r *UserRepo) History(ctx context.Context, userID uint64) (reputation.History, error) {
	const q = `SELECT
	  (SELECT COUNT(*) FROM events WHERE host_id = ? AND status = 'completed'),
	  (SELECT COUNT(*) FROM rsvps  WHERE user_id = ? AND status = 'attended'),
	  (SELECT COUNT(*) FROM rsvps  WHERE user_id = ? AND status = 'no_show')`
	var h reputation.History
	err := r.DB.QueryRowContext(ctx, q, userID, userID, userID).
		Scan(&h.Hosted, &h.Attended, &h.NoShows)
	return h, err
}

// LockTx locks the user's row for the remainder of the transaction.
// The referral subsystem uses this as the per-referrer mutex for bonus
// awards.  Returns ErrNotFound when the user does not exist.
func (r *UserRepo) LockTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	var id uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id=? FOR UPDATE`, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}
