package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/skystatuspro/skystatus-sub006/internal/models"
)

// WriteText renders the full diagnostic report as human-readable text.
// Every section that could be computed is printed; missing sections are
// labeled explicitly instead of being skipped.
func WriteText(w io.Writer, r *models.StatementReport) error {
	var b strings.Builder

	b.WriteString("=== Header ===\n")
	if r.Header.HasBalances {
		fmt.Fprintf(&b, "Miles: %d  XP: %d  UXP: %d\n",
			r.Header.MilesBalance, r.Header.XPBalance, r.Header.UXPBalance)
	} else {
		b.WriteString("balances: not found\n")
	}
	if r.Header.HasStatus {
		fmt.Fprintf(&b, "Status: %s\n", r.Header.Status)
	} else {
		b.WriteString("status: not found\n")
	}
	if r.Header.MemberNumber != "" {
		fmt.Fprintf(&b, "Member number: %s\n", r.Header.MemberNumber)
	}
	if r.Header.MemberName != "" {
		fmt.Fprintf(&b, "Member name: %s\n", r.Header.MemberName)
	}

	b.WriteString("\n=== Requalification events ===\n")
	if len(r.RequalEvents) == 0 {
		b.WriteString("none found\n")
	}
	for _, ev := range r.RequalEvents {
		switch ev.Kind {
		case models.KindXPDeduct:
			fmt.Fprintf(&b, "- level-up %s: -%d XP, %s reached\n", orUnknown(ev.Date), ev.XPDeducted, ev.StatusReached)
		case models.KindSurplusXP:
			fmt.Fprintf(&b, "- surplus %s: %d XP carried over\n", orUnknown(ev.Date), ev.RolloverXP)
		case models.KindCycleBoundary:
			fmt.Fprintf(&b, "- cycle boundary: ends %s, begins %s\n", orUnknown(ev.CycleEnd), orUnknown(ev.CycleStart))
		}
	}

	b.WriteString("\n=== Bonus XP events ===\n")
	if len(r.BonusEvents) == 0 {
		b.WriteString("none found\n")
	}
	for _, ev := range r.BonusEvents {
		fmt.Fprintf(&b, "- %s %s: %d XP\n", ev.Category, orUnknown(ev.Date), ev.XP)
	}

	fmt.Fprintf(&b, "\n=== Flights (%d raw, %d after dedup) ===\n",
		len(r.Flights), len(r.DedupedFlights))
	for _, f := range r.DedupedFlights {
		fmt.Fprintf(&b, "- %s %s %s: %d Miles, %d XP, %d UXP\n",
			orUnknown(f.Date), f.Place(), orDash(f.FlightNumber), f.Miles, f.XP, f.UXP)
	}

	b.WriteString("\n=== Qualification cycle ===\n")
	if r.HasCycle {
		fmt.Fprintf(&b, "level-up: %s (%s reached)\n", r.Cycle.LevelUpDate, r.Cycle.StatusReached)
		fmt.Fprintf(&b, "derived cycle start: %s\n", r.Cycle.StartDate)
		if r.Cycle.ExplicitStart != "" {
			fmt.Fprintf(&b, "explicit cycle start: %s (ends %s)\n", r.Cycle.ExplicitStart, r.Cycle.ExplicitEnd)
		}
		fmt.Fprintf(&b, "rollover XP: %d\n", r.Cycle.RolloverXP)

		rec := r.Reconciliation
		b.WriteString("\n=== Reconciliation ===\n")
		fmt.Fprintf(&b, "rollover XP:         %d\n", rec.RolloverXP)
		fmt.Fprintf(&b, "flight XP in cycle:  %d\n", rec.FlightXPInCycle)
		fmt.Fprintf(&b, "flight UXP in cycle: %d\n", rec.FlightUXPInCycle)
		fmt.Fprintf(&b, "bonus XP in cycle:   %d\n", rec.BonusXPInCycle)
		fmt.Fprintf(&b, "calculated XP:       %d\n", rec.CalculatedXP)
		fmt.Fprintf(&b, "official XP:         %d\n", rec.OfficialXP)
		fmt.Fprintf(&b, "difference:          %+d (%s)\n", rec.Difference, rec.Hypothesis)
		if len(rec.UnattributableFlights) > 0 {
			fmt.Fprintf(&b, "unattributable flights (no date): %d\n", len(rec.UnattributableFlights))
		}
		if len(rec.UnattributableBonuses) > 0 {
			fmt.Fprintf(&b, "unattributable bonuses (no date): %d\n", len(rec.UnattributableBonuses))
		}
	} else {
		b.WriteString("no current-cycle analysis available\n")
	}

	if len(r.Notes) > 0 {
		b.WriteString("\n=== Notes ===\n")
		for _, n := range r.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func orUnknown(s string) string {
	if s == "" {
		return "(date unknown)"
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
