package reconcile

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/skystatuspro/skystatus-sub006/internal/config"
	"github.com/skystatuspro/skystatus-sub006/internal/models"
)

func TestDedupFlights(t *testing.T) {
	flights := []models.FlightRecord{
		{Source: models.SourceTrip, Destination: "CDG-JFK", Date: "2025-08-12", XP: 25},
		{Source: models.SourceSegment, Route: "CDG-JFK", FlightNumber: "", Date: "2025-08-12", XP: 25, UXP: 25},
		{Source: models.SourceSegment, Route: "AMS-CDG", FlightNumber: "KL123", Date: "2025-07-01", XP: 5},
		{Source: models.SourceSegment, Route: "AMS-CDG", FlightNumber: "KL123", Date: "2025-07-01", XP: 5},
	}

	out := DedupFlights(flights)

	if len(out) != 2 {
		t.Fatalf("got %d flights, want 2: %+v", len(out), out)
	}
	// Same key from both passes: the segment record wins.
	if out[0].Source != models.SourceSegment || out[0].UXP != 25 {
		t.Errorf("expected segment record to win the conflict, got %+v", out[0])
	}
	if out[1].FlightNumber != "KL123" {
		t.Errorf("expected KL123 kept once, got %+v", out[1])
	}
}

func TestDedupFlightsDistinctKeys(t *testing.T) {
	// Same route, different dates: both kept.
	flights := []models.FlightRecord{
		{Source: models.SourceSegment, Route: "AMS-CDG", FlightNumber: "KL123", Date: "2025-07-01"},
		{Source: models.SourceSegment, Route: "AMS-CDG", FlightNumber: "KL123", Date: "2025-07-08"},
	}
	if out := DedupFlights(flights); len(out) != 2 {
		t.Fatalf("got %d flights, want 2", len(out))
	}
}

func TestDeriveCycle(t *testing.T) {
	events := []models.RequalEvent{
		models.NewXPDeduct("2023-03-14", 180, models.StatusSilver),
		models.NewXPDeduct("2025-06-15", 300, models.StatusGold),
		models.NewSurplusXP("2025-06-15", 45),
		models.NewSurplusXP("2023-03-14", 12),
	}

	cycle, ok := DeriveCycle(events)
	if !ok {
		t.Fatal("expected a cycle")
	}
	if cycle.LevelUpDate != "2025-06-15" {
		t.Errorf("LevelUpDate: got %q, want 2025-06-15", cycle.LevelUpDate)
	}
	if cycle.StartDate != "2025-07-01" {
		t.Errorf("StartDate: got %q, want 2025-07-01 (1st of following month)", cycle.StartDate)
	}
	if cycle.RolloverXP != 45 {
		t.Errorf("RolloverXP: got %d, want 45 (surplus dated on the level-up)", cycle.RolloverXP)
	}
	if cycle.StatusReached != models.StatusGold {
		t.Errorf("StatusReached: got %q, want Gold", cycle.StatusReached)
	}
}

func TestDeriveCycleYearRollover(t *testing.T) {
	cycle, ok := DeriveCycle([]models.RequalEvent{
		models.NewXPDeduct("2024-12-20", 100, models.StatusSilver),
	})
	if !ok {
		t.Fatal("expected a cycle")
	}
	if cycle.StartDate != "2025-01-01" {
		t.Errorf("StartDate: got %q, want 2025-01-01", cycle.StartDate)
	}
}

func TestDeriveCycleRolloverRequiresExactDate(t *testing.T) {
	// A surplus one day off the level-up date does not count.
	cycle, ok := DeriveCycle([]models.RequalEvent{
		models.NewXPDeduct("2025-06-15", 300, models.StatusGold),
		models.NewSurplusXP("2025-06-16", 45),
	})
	if !ok {
		t.Fatal("expected a cycle")
	}
	if cycle.RolloverXP != 0 {
		t.Errorf("RolloverXP: got %d, want 0", cycle.RolloverXP)
	}
}

func TestDeriveCycleNoDeducts(t *testing.T) {
	_, ok := DeriveCycle([]models.RequalEvent{
		models.NewSurplusXP("2025-06-15", 45),
		models.NewCycleBoundary("2025-06-30", "2025-07-01"),
	})
	if ok {
		t.Fatal("expected no cycle without XP deduction events")
	}
}

func TestDeriveCycleExplicitBoundary(t *testing.T) {
	cycle, ok := DeriveCycle([]models.RequalEvent{
		models.NewXPDeduct("2025-06-15", 300, models.StatusGold),
		models.NewCycleBoundary("2025-06-30", "2025-07-01"),
	})
	if !ok {
		t.Fatal("expected a cycle")
	}
	if cycle.ExplicitStart != "2025-07-01" || cycle.ExplicitEnd != "2025-06-30" {
		t.Errorf("explicit boundary: got %q / %q", cycle.ExplicitStart, cycle.ExplicitEnd)
	}
}

// Fixture matching the end-to-end reconciliation scenario: level-up on
// 2025-06-15 reaching Gold with 45 XP surplus, two flights and one bonus
// after the cycle start, official XP 130.
func fullExtraction(officialXP int) models.Extraction {
	return models.Extraction{
		Header: models.HeaderSnapshot{
			XPBalance:   officialXP,
			Status:      models.StatusGold,
			HasBalances: true,
			HasStatus:   true,
		},
		RequalEvents: []models.RequalEvent{
			models.NewXPDeduct("2025-06-15", 300, models.StatusGold),
			models.NewSurplusXP("2025-06-15", 45),
		},
		BonusEvents: []models.BonusXPEvent{
			{Category: models.BonusDonationXP, XP: 25, Date: "2025-07-10"},
		},
		Flights: []models.FlightRecord{
			{Source: models.SourceSegment, Route: "AMS-CDG", FlightNumber: "KL123", XP: 30, UXP: 10, Date: "2025-07-05"},
			{Source: models.SourceSegment, Route: "CDG-AMS", FlightNumber: "KL124", XP: 30, UXP: 10, Date: "2025-07-20"},
		},
	}
}

func TestBuildReportReconciled(t *testing.T) {
	report := BuildReport(fullExtraction(130), config.Defaults())

	if !report.HasCycle {
		t.Fatal("expected a cycle")
	}
	rec := report.Reconciliation
	if rec.RolloverXP != 45 {
		t.Errorf("RolloverXP: got %d, want 45", rec.RolloverXP)
	}
	if rec.FlightXPInCycle != 60 {
		t.Errorf("FlightXPInCycle: got %d, want 60", rec.FlightXPInCycle)
	}
	if rec.FlightUXPInCycle != 20 {
		t.Errorf("FlightUXPInCycle: got %d, want 20", rec.FlightUXPInCycle)
	}
	if rec.BonusXPInCycle != 25 {
		t.Errorf("BonusXPInCycle: got %d, want 25", rec.BonusXPInCycle)
	}
	if rec.CalculatedXP != 130 {
		t.Errorf("CalculatedXP: got %d, want 130", rec.CalculatedXP)
	}
	if rec.Difference != 0 {
		t.Errorf("Difference: got %d, want 0", rec.Difference)
	}
	if rec.Hypothesis != "fully reconciled" {
		t.Errorf("Hypothesis: got %q", rec.Hypothesis)
	}
}

func TestBuildReportMissingXP(t *testing.T) {
	report := BuildReport(fullExtraction(150), config.Defaults())

	rec := report.Reconciliation
	if rec.Difference != 20 {
		t.Errorf("Difference: got %d, want 20", rec.Difference)
	}
	if !strings.Contains(rec.Hypothesis, "missing") {
		t.Errorf("Hypothesis should point at missing XP, got %q", rec.Hypothesis)
	}
}

func TestBuildReportOverCalculated(t *testing.T) {
	report := BuildReport(fullExtraction(100), config.Defaults())

	rec := report.Reconciliation
	if rec.Difference != -30 {
		t.Errorf("Difference: got %d, want -30", rec.Difference)
	}
	if !strings.Contains(rec.Hypothesis, "previous cycle") {
		t.Errorf("Hypothesis should point at over-attribution, got %q", rec.Hypothesis)
	}
}

func TestBuildReportUnattributable(t *testing.T) {
	ex := fullExtraction(130)
	ex.Flights = append(ex.Flights, models.FlightRecord{
		Source: models.SourceSegment, Route: "LIS-AMS", FlightNumber: "KL166", XP: 17,
	})

	report := BuildReport(ex, config.Defaults())

	rec := report.Reconciliation
	// The undated flight never enters the in-cycle sum.
	if rec.FlightXPInCycle != 60 {
		t.Errorf("FlightXPInCycle: got %d, want 60", rec.FlightXPInCycle)
	}
	if len(rec.UnattributableFlights) != 1 || rec.UnattributableFlights[0].FlightNumber != "KL166" {
		t.Errorf("UnattributableFlights: got %+v", rec.UnattributableFlights)
	}
}

func TestBuildReportExcludesPreCycleActivity(t *testing.T) {
	ex := fullExtraction(130)
	ex.Flights = append(ex.Flights, models.FlightRecord{
		Source: models.SourceSegment, Route: "AMS-FCO", FlightNumber: "KL160", XP: 40, Date: "2025-05-01",
	})

	report := BuildReport(ex, config.Defaults())

	if report.Reconciliation.FlightXPInCycle != 60 {
		t.Errorf("FlightXPInCycle: got %d, want 60 (pre-cycle flight excluded)",
			report.Reconciliation.FlightXPInCycle)
	}
}

func TestBuildReportNoCycle(t *testing.T) {
	ex := fullExtraction(130)
	ex.RequalEvents = nil

	report := BuildReport(ex, config.Defaults())

	if report.HasCycle {
		t.Fatal("expected no cycle")
	}
	found := false
	for _, n := range report.Notes {
		if strings.Contains(n, "no current-cycle analysis") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a note about missing cycle analysis, got %v", report.Notes)
	}
}

func TestBuildReportExplicitPrecedence(t *testing.T) {
	ex := fullExtraction(130)
	// Explicit boundary says the cycle started later than derived; the
	// 2025-07-05 flight then falls outside the cycle.
	ex.RequalEvents = append(ex.RequalEvents, models.NewCycleBoundary("2025-07-09", "2025-07-10"))

	settings := config.Defaults()
	settings.CycleStart = config.CycleStartExplicit

	report := BuildReport(ex, settings)

	if report.Reconciliation.FlightXPInCycle != 30 {
		t.Errorf("FlightXPInCycle: got %d, want 30 (explicit start excludes the July 5 flight)",
			report.Reconciliation.FlightXPInCycle)
	}

	// Default precedence keeps the derived start.
	report = BuildReport(ex, config.Defaults())
	if report.Reconciliation.FlightXPInCycle != 60 {
		t.Errorf("FlightXPInCycle: got %d, want 60 under derived precedence",
			report.Reconciliation.FlightXPInCycle)
	}
}

func TestBuildReportDeterministic(t *testing.T) {
	// Running the pipeline twice on identical input yields byte-identical
	// structured output.
	a, err := json.Marshal(BuildReport(fullExtraction(130), config.Defaults()))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(BuildReport(fullExtraction(130), config.Defaults()))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("expected byte-identical reports for identical input")
	}
}
