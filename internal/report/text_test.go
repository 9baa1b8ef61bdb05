package report

import (
	"strings"
	"testing"

	"github.com/skystatuspro/skystatus-sub006/internal/models"
)

func sampleReport() *models.StatementReport {
	flights := []models.FlightRecord{
		{Source: models.SourceSegment, Route: "AMS-CDG", FlightNumber: "KL123", Miles: 550, XP: 5, Date: "2025-07-05"},
	}
	return &models.StatementReport{
		Header: models.HeaderSnapshot{
			MilesBalance: 278499, XPBalance: 183, UXPBalance: 40,
			Status: models.StatusGold, MemberNumber: "1234567890",
			HasBalances: true, HasStatus: true,
		},
		RequalEvents: []models.RequalEvent{
			models.NewXPDeduct("2025-06-15", 300, models.StatusGold),
			models.NewSurplusXP("2025-06-15", 45),
		},
		BonusEvents: []models.BonusXPEvent{
			{Category: models.BonusDonationXP, XP: 25, Date: "2025-07-10"},
		},
		Flights:        flights,
		DedupedFlights: flights,
		HasCycle:       true,
		Cycle: models.QualificationCycle{
			StartDate: "2025-07-01", RolloverXP: 45,
			StatusReached: models.StatusGold, LevelUpDate: "2025-06-15",
		},
		Reconciliation: models.ReconciliationResult{
			RolloverXP: 45, FlightXPInCycle: 5, BonusXPInCycle: 25,
			CalculatedXP: 75, OfficialXP: 183, Difference: 108,
			Hypothesis: "missing 108 XP from calculation",
		},
	}
}

func TestWriteText(t *testing.T) {
	var b strings.Builder
	if err := WriteText(&b, sampleReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"Miles: 278499  XP: 183  UXP: 40",
		"Status: Gold",
		"level-up 2025-06-15: -300 XP, Gold reached",
		"surplus 2025-06-15: 45 XP carried over",
		"DONATION_XP 2025-07-10: 25 XP",
		"AMS-CDG KL123",
		"derived cycle start: 2025-07-01",
		"difference:          +108",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestWriteTextPartialReport(t *testing.T) {
	// A report without a cycle still prints every computable section and
	// labels what is missing.
	r := sampleReport()
	r.HasCycle = false
	r.Header.HasBalances = false
	r.Notes = []string{"no XP deduction events found: no current-cycle analysis available"}

	var b strings.Builder
	if err := WriteText(&b, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()

	if !strings.Contains(out, "balances: not found") {
		t.Errorf("output should label missing balances\n%s", out)
	}
	if !strings.Contains(out, "no current-cycle analysis available") {
		t.Errorf("output should label the missing cycle\n%s", out)
	}
	if strings.Contains(out, "=== Reconciliation ===") {
		t.Errorf("reconciliation section should be absent without a cycle\n%s", out)
	}
}
