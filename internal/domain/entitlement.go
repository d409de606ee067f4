package domain

import "errors"

// Entitlement-specific validation errors.
var (
	// ErrInvalidTier is returned when a tier value is not one of
	// GUEST, FREE, or PAID.
	ErrInvalidTier = errors.New("invalid entitlement tier")

	// ErrNegativeCredits is returned when a credit counter would go below zero.
	ErrNegativeCredits = errors.New("daily credits cannot be negative")

	// ErrNegativeXP is returned when an experience counter would go below zero.
	ErrNegativeXP = errors.New("xp cannot be negative")

	// ErrNegativeStudyHours is returned when the study-hours counter would go
	// below zero.
	ErrNegativeStudyHours = errors.New("study hours cannot be negative")
)

// Tier is the account entitlement level.
type Tier string

// Account tiers, in ascending order of privilege.
const (
	// TierGuest is an unauthenticated account. Guests cannot start sessions.
	TierGuest Tier = "GUEST"

	// TierFree is an authenticated account metered by daily credits.
	TierFree Tier = "FREE"

	// TierPaid is an unmetered subscription account.
	TierPaid Tier = "PAID"
)

// Fixed product constants for the entitlement lifecycle.
const (
	// DefaultDailyCredits is the credit balance granted on account creation
	// and restored by the daily reset for FREE accounts.
	DefaultDailyCredits = 5

	// XPPerCorrectAnswer is the fixed experience award for each correct
	// quiz answer.
	XPPerCorrectAnswer = 200
)

// Valid reports whether the tier is one of the three known levels.
func (t Tier) Valid() bool {
	switch t {
	case TierGuest, TierFree, TierPaid:
		return true
	}
	return false
}

// Metered reports whether session submissions on this tier consume credits.
// Only FREE is metered; GUEST is rejected outright and PAID is unmetered.
func (t Tier) Metered() bool {
	return t == TierFree
}

// Entitlement is the persisted account record read by the session gate and
// mutated through the entitlement ledger.
type Entitlement struct {
	Tier         Tier    `json:"tier"`
	DailyCredits int     `json:"daily_credits"`
	XP           int     `json:"xp"`
	StudyHours   float64 `json:"study_hours"`
	StreakDays   int     `json:"streak_days"`
}

// DefaultEntitlement returns the record created for a first-seen account:
// an unauthenticated guest with the default credit balance.
func DefaultEntitlement() Entitlement {
	return Entitlement{
		Tier:         TierGuest,
		DailyCredits: DefaultDailyCredits,
	}
}

// Validate checks the entitlement invariants.
func (e Entitlement) Validate() error {
	if !e.Tier.Valid() {
		return ErrInvalidTier
	}
	if e.DailyCredits < 0 {
		return ErrNegativeCredits
	}
	if e.XP < 0 {
		return ErrNegativeXP
	}
	if e.StudyHours < 0 {
		return ErrNegativeStudyHours
	}
	if e.StreakDays < 0 {
		return errors.New("streak days cannot be negative")
	}
	return nil
}
