package model

import "time"

// Referral is the immutable audit record of one successful signup
// attributed to a referral code, stored in the `referrals` table.
// Every signup with a valid code produces a row; BonusAwarded is set at
// most once, and only while the referrer is under the award cap.
//
// Fields:
//
//	ID               – primary key identifier.
//	ReferrerID       – owner of the code that was used.
//	ReferredUserID   – the newly registered user.
//	ReferralCodeUsed – the code as normalized at signup.
//	BonusAwarded     – whether the referrer was credited for this row.
//	BonusAmount      – points credited (0 when not awarded).
//	CreatedAt        – when the signup completed.
//	BonusAwardedAt   – when the bonus was credited, nil when not awarded.
type Referral struct {
	ID               uint64     // referrals.id
	ReferrerID       uint64     // referrals.referrer_id
	ReferredUserID   uint64     // referrals.referred_user_id
	ReferralCodeUsed string     // referrals.referral_code_used
	BonusAwarded     bool       // referrals.bonus_awarded
	BonusAmount      int        // referrals.bonus_amount
	CreatedAt        time.Time  // referrals.created_at
	BonusAwardedAt   *time.Time // referrals.bonus_awarded_at (nullable)
}
