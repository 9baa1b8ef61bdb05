package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/skystatuspro/skystatus-sub006/internal/config"
	"github.com/skystatuspro/skystatus-sub006/internal/models"
)

// DedupFlights removes duplicate flight records produced by the two
// extraction passes, keyed on (date, route-or-destination, flight number).
// When the same key appears from both passes the segment-level record wins
// because it carries finer granularity. Otherwise the first occurrence is
// kept, preserving extraction order.
func DedupFlights(flights []models.FlightRecord) []models.FlightRecord {
	type slot struct{ idx int }
	seen := map[string]slot{}
	var out []models.FlightRecord

	for _, f := range flights {
		key := fmt.Sprintf("%s|%s|%s", f.Date, f.Place(), f.FlightNumber)
		if s, ok := seen[key]; ok {
			if f.Source == models.SourceSegment && out[s.idx].Source == models.SourceTrip {
				out[s.idx] = f
			}
			continue
		}
		seen[key] = slot{idx: len(out)}
		out = append(out, f)
	}

	return out
}

// DeriveCycle determines the member's current qualification cycle from the
// requalification events. The latest XP_DEDUCT (by date) is the level-up
// that opened the cycle; the cycle starts on the first day of the following
// month. Rollover is the SURPLUS_XP event dated exactly on the level-up
// date, 0 if absent. An explicit CYCLE_BOUNDARY event, when present, is
// surfaced alongside the derived dates so the two sources can be compared.
//
// Returns ok=false when no dated XP_DEDUCT event exists: no current-cycle
// analysis is possible, which is a distinct partial-report state, not an
// error.
func DeriveCycle(events []models.RequalEvent) (models.QualificationCycle, bool) {
	var deducts []models.RequalEvent
	for _, ev := range events {
		if ev.Kind == models.KindXPDeduct && ev.Date != "" {
			deducts = append(deducts, ev)
		}
	}
	if len(deducts) == 0 {
		return models.QualificationCycle{}, false
	}

	// Zero-padded ISO dates sort correctly as strings.
	sort.SliceStable(deducts, func(i, j int) bool {
		return deducts[i].Date > deducts[j].Date
	})
	latest := deducts[0]

	cycle := models.QualificationCycle{
		StartDate:     firstOfNextMonth(latest.Date),
		StatusReached: latest.StatusReached,
		LevelUpDate:   latest.Date,
	}

	for _, ev := range events {
		if ev.Kind == models.KindSurplusXP && ev.Date == latest.Date {
			cycle.RolloverXP = ev.RolloverXP
			break
		}
	}

	for _, ev := range events {
		if ev.Kind == models.KindCycleBoundary {
			cycle.ExplicitEnd = ev.CycleEnd
			cycle.ExplicitStart = ev.CycleStart
			break
		}
	}

	return cycle, true
}

// firstOfNextMonth returns the ISO date of the 1st of the month after the
// given ISO date, or "" if the input is not a valid ISO date.
func firstOfNextMonth(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return ""
	}
	next := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return next.Format("2006-01-02")
}

// Reconcile sums the expected XP for the cycle and compares it against the
// official header XP. In-cycle means a date strictly greater than the cycle
// start; records with no date are excluded from the sums and reported as
// unattributable rather than silently assigned to the cycle.
func Reconcile(cycle models.QualificationCycle, flights []models.FlightRecord,
	bonuses []models.BonusXPEvent, officialXP int, cycleStart string) models.ReconciliationResult {

	start := cycle.StartDate
	if cycleStart == config.CycleStartExplicit && cycle.ExplicitStart != "" {
		start = cycle.ExplicitStart
	}

	r := models.ReconciliationResult{
		RolloverXP: cycle.RolloverXP,
		OfficialXP: officialXP,
	}

	for _, f := range flights {
		if f.Date == "" {
			r.UnattributableFlights = append(r.UnattributableFlights, f)
			continue
		}
		if f.Date > start {
			r.FlightXPInCycle += f.XP
			r.FlightUXPInCycle += f.UXP
		}
	}

	for _, b := range bonuses {
		if b.Date == "" {
			r.UnattributableBonuses = append(r.UnattributableBonuses, b)
			continue
		}
		if b.Date > start {
			r.BonusXPInCycle += b.XP
		}
	}

	r.CalculatedXP = r.RolloverXP + r.FlightXPInCycle + r.BonusXPInCycle
	r.Difference = r.OfficialXP - r.CalculatedXP
	r.Hypothesis = hypothesis(r.Difference)

	return r
}

// hypothesis annotates the signed difference with its likely cause. The two
// directions are asymmetric: missing XP points at detection gaps, excess XP
// points at over-attribution.
func hypothesis(diff int) string {
	switch {
	case diff > 0:
		return fmt.Sprintf("missing %d XP from calculation: suspect undetected bonus events or dates that failed to parse", diff)
	case diff < 0:
		return fmt.Sprintf("calculation exceeds official balance by %d XP: suspect flights counted from a previous cycle or an incorrect cycle-start derivation", -diff)
	default:
		return "fully reconciled"
	}
}

// BuildReport assembles the complete statement report: deduped flights,
// derived cycle, reconciliation, and notes labeling whatever could not be
// computed. Every section that can be computed is present even when others
// are missing.
func BuildReport(ex models.Extraction, settings config.Settings) models.StatementReport {
	report := models.StatementReport{
		Header:         ex.Header,
		RequalEvents:   ex.RequalEvents,
		BonusEvents:    ex.BonusEvents,
		Flights:        ex.Flights,
		DedupedFlights: DedupFlights(ex.Flights),
	}

	if !ex.Header.HasBalances {
		report.Notes = append(report.Notes, "header balances not found; official XP defaults to 0")
	}
	if !ex.Header.HasStatus {
		report.Notes = append(report.Notes, "status keyword not found in statement")
	}

	cycle, ok := DeriveCycle(ex.RequalEvents)
	if !ok {
		report.Notes = append(report.Notes, "no XP deduction events found: no current-cycle analysis available")
		return report
	}

	report.HasCycle = true
	report.Cycle = cycle
	if cycle.ExplicitStart != "" && cycle.ExplicitStart != cycle.StartDate {
		report.Notes = append(report.Notes, fmt.Sprintf(
			"explicit cycle start %s disagrees with derived start %s; using %s",
			cycle.ExplicitStart, cycle.StartDate, settings.CycleStart))
	}

	report.Reconciliation = Reconcile(cycle, report.DedupedFlights, ex.BonusEvents,
		ex.Header.XPBalance, settings.CycleStart)

	return report
}
