package domain

import (
	"testing"
	"time"
)

func TestIsCurrent(t *testing.T) {
	now := time.Now()
	contract := &Contract{
		Status:    ContractActive,
		StartDate: now.AddDate(0, 0, -7),
		EndDate:   now.AddDate(0, 0, 21),
	}
	if !contract.IsCurrent() {
		t.Fatalf("expected contract to be current")
	}

	contract.Status = ContractCancelled
	if contract.IsCurrent() {
		t.Fatalf("cancelled contract must not be current")
	}

	contract.Status = ContractActive
	contract.EndDate = now.AddDate(0, 0, -1)
	if contract.IsCurrent() {
		t.Fatalf("expired contract must not be current")
	}
}

func TestDaysRemainingRoundsUp(t *testing.T) {
	contract := &Contract{EndDate: time.Now().Add(36 * time.Hour)}
	if got := contract.DaysRemaining(); got != 2 {
		t.Fatalf("expected 2 days remaining, got %d", got)
	}

	expired := &Contract{EndDate: time.Now().Add(-48 * time.Hour)}
	if got := expired.DaysRemaining(); got >= 0 {
		t.Fatalf("expected negative days for an expired contract, got %d", got)
	}
}
