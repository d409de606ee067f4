package domain

import (
	"errors"
	"testing"
)

func TestDefaultEntitlement(t *testing.T) {
	t.Parallel()

	e := DefaultEntitlement()

	if e.Tier != TierGuest {
		t.Errorf("Expected tier %s, got %s", TierGuest, e.Tier)
	}

	if e.DailyCredits != DefaultDailyCredits {
		t.Errorf("Expected %d credits, got %d", DefaultDailyCredits, e.DailyCredits)
	}

	if e.XP != 0 || e.StudyHours != 0 || e.StreakDays != 0 {
		t.Error("Expected zeroed activity counters on a default entitlement")
	}

	if err := e.Validate(); err != nil {
		t.Fatalf("Expected default entitlement to validate, got %v", err)
	}
}

func TestEntitlementValidate(t *testing.T) {
	t.Parallel()

	e := DefaultEntitlement()
	e.Tier = Tier("PLATINUM")
	if err := e.Validate(); !errors.Is(err, ErrInvalidTier) {
		t.Errorf("Expected ErrInvalidTier, got %v", err)
	}

	e = DefaultEntitlement()
	e.DailyCredits = -1
	if err := e.Validate(); !errors.Is(err, ErrNegativeCredits) {
		t.Errorf("Expected ErrNegativeCredits, got %v", err)
	}

	e = DefaultEntitlement()
	e.XP = -200
	if err := e.Validate(); !errors.Is(err, ErrNegativeXP) {
		t.Errorf("Expected ErrNegativeXP, got %v", err)
	}
}

func TestTierMetered(t *testing.T) {
	t.Parallel()

	if TierGuest.Metered() {
		t.Error("GUEST must not be metered; it is rejected before metering")
	}
	if !TierFree.Metered() {
		t.Error("FREE must be metered")
	}
	if TierPaid.Metered() {
		t.Error("PAID must be unmetered")
	}
}
