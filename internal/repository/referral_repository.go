package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/dinner-party-reservation/internal/model"
)

// ReferralRepo provides persistence for referral records and the bonus
// award that may accompany them.  Awards are capped per referrer; the
// cap is enforced under the referrer's user row lock so concurrent
// registrations with the same code cannot both claim the final slot.
type ReferralRepo struct {
	db *sql.DB
}

// NewReferralRepo returns a new ReferralRepo bound to the given database.
func NewReferralRepo(db *sql.DB) *ReferralRepo { return &ReferralRepo{db: db} }

// AwardedCountTx returns how many of the referrer's referrals carried a
// bonus.  Run while holding the referrer's user row lock.
func (r *ReferralRepo) AwardedCountTx(ctx context.Context, tx *sql.Tx, referrerID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM referrals WHERE referrer_id = ? AND bonus_awarded = 1`,
		referrerID).Scan(&n)
	return n, err
}

// CreateTx inserts a referral record.  BonusAwarded, BonusAmount and
// BonusAwardedAt are taken from the model as the caller decided them
// under the referrer lock; the record itself is written either way so
// the referral history stays complete past the award cap.
func (r *ReferralRepo) CreateTx(ctx context.Context, tx *sql.Tx, ref *model.Referral) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO referrals (referrer_id, referred_user_id, referral_code_used,
		 bonus_awarded, bonus_amount, bonus_awarded_at) VALUES (?,?,?,?,?,?)`,
		ref.ReferrerID, ref.ReferredUserID, ref.ReferralCodeUsed,
		ref.BonusAwarded, ref.BonusAmount, ref.BonusAwardedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ref.ID = uint64(id)
	return nil
}

// RecordTx writes the referral produced by a registration and, when the
// referrer is still under the award cap, grants the bonus: the referral
// row is marked awarded and the referrer's point balance is credited in
// the same transaction.  Returns whether the bonus was granted.
//
// The caller must already hold the referrer's user row lock (see
// UserRepo.LockTx); it is what serializes the count-check-award
// sequence across concurrent registrations.
func (r *ReferralRepo) RecordTx(ctx context.Context, tx *sql.Tx, ref *model.Referral, maxAwards, bonusPoints int) (bool, error) {
	awarded, err := r.AwardedCountTx(ctx, tx, ref.ReferrerID)
	if err != nil {
		return false, err
	}
	if awarded < maxAwards {
		now := time.Now().UTC()
		ref.BonusAwarded = true
		ref.BonusAmount = bonusPoints
		ref.BonusAwardedAt = &now
	}
	if err := r.CreateTx(ctx, tx, ref); err != nil {
		return false, err
	}
	if !ref.BonusAwarded {
		return false, nil
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE users SET referral_points = referral_points + ?, updated_at = ? WHERE id = ?`,
		bonusPoints, time.Now().UTC(), ref.ReferrerID)
	if err != nil {
		return false, err
	}
	return true, nil
}

// StatRow is one referral in the referrer's history, with the referred
// user's username joined in.
type StatRow struct {
	Referral model.Referral
	Username string
}

// ListByReferrer returns the referrer's full referral history, newest
// first.
func (r *ReferralRepo) ListByReferrer(ctx context.Context, referrerID uint64) ([]StatRow, error) {
	const q = `SELECT r.id, r.referrer_id, r.referred_user_id, r.referral_code_used,
	       r.bonus_awarded, r.bonus_amount, r.bonus_awarded_at, r.created_at, u.username
	     FROM referrals r
	     JOIN users u ON u.id = r.referred_user_id
	     WHERE r.referrer_id = ?
	     ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, referrerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]StatRow, 0)
	for rows.Next() {
		var (
			sr StatRow
			at sql.NullTime
		)
		if err := rows.Scan(&sr.Referral.ID, &sr.Referral.ReferrerID,
			&sr.Referral.ReferredUserID, &sr.Referral.ReferralCodeUsed,
			&sr.Referral.BonusAwarded, &sr.Referral.BonusAmount, &at,
			&sr.Referral.CreatedAt, &sr.Username); err != nil {
			return nil, err
		}
		if at.Valid {
			v := at.Time
			sr.Referral.BonusAwardedAt = &v
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}
