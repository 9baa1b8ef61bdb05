package parser

import (
	"regexp"

	"github.com/skystatuspro/skystatus-sub006/internal/config"
	"github.com/skystatuspro/skystatus-sub006/internal/models"
)

// Requalification patterns. These events span the original line layout, so
// they are matched against whitespace-collapsed text. All window and gap
// quantifiers are bounded to keep scans linear over large documents.
var (
	// "17 June 2025 ... Requalification ... -300 XP"
	// The gap between date and marker admits no digits, so the date cannot
	// be stolen from an unrelated earlier line. The sign on the quantity is
	// discarded; deductions are stored as positive magnitudes.
	deductPattern = regexp.MustCompile(
		`(?i)\b(\d{1,2}\s+\p{L}{3,}\.?\s+\d{4})\b\D{0,80}?\brequalif\p{L}*\b.{0,60}?([+\-\x{2212}]?\d{1,5})\s*XP\b`,
	)
	// "17 June 2025 ... Surplus XP ... 45 XP"
	surplusPattern = regexp.MustCompile(
		`(?i)\b(\d{1,2}\s+\p{L}{3,}\.?\s+\d{4})\b\D{0,80}?\bsurplus\b.{0,60}?(\d{1,5})\s*XP\b`,
	)
	// "... ending on 30/06/2025 ... beginning on 01/07/2025 ..."
	boundaryPattern = regexp.MustCompile(
		`(?i)\bending\s+on\s+(\d{1,2}/\d{1,2}/\d{4})\b.{0,160}?\bbeginning\s+on\s+(\d{1,2}/\d{1,2}/\d{4})\b`,
	)
	statusReachedPattern = regexp.MustCompile(
		`(?i)\b(Explorer|Silver|Gold|Platinum|Ultimate)\s+reached\b`,
	)
)

// ExtractRequalEvents scans the text for XP deductions (level-ups), surplus
// XP carried into a new cycle, and explicit cycle-boundary statements. The
// three scans are independent and may each find zero or many matches.
// Results are ordered by match position, not chronologically; the caller
// sorts if it needs time order.
func ExtractRequalEvents(text string, h config.Heuristics) []models.RequalEvent {
	collapsed := collapseWhitespace(text)
	var events []models.RequalEvent

	for _, loc := range deductPattern.FindAllStringSubmatchIndex(collapsed, -1) {
		date := ParseLongDate(collapsed[loc[2]:loc[3]])
		amount := parseSignedInt(collapsed[loc[4]:loc[5]])
		if amount < 0 {
			amount = -amount
		}

		// The status reached by the level-up is stated somewhere after the
		// deduction, not on the same layout line. Search a bounded forward
		// window; absence means Unknown, not a failed event.
		reached := models.StatusUnknown
		window := windowAfter(collapsed, loc[1], h.StatusWindow)
		if m := statusReachedPattern.FindStringSubmatch(window); m != nil {
			reached = models.ParseStatus(m[1])
		}

		events = append(events, models.NewXPDeduct(date, amount, reached))
	}

	for _, m := range surplusPattern.FindAllStringSubmatch(collapsed, -1) {
		date := ParseLongDate(m[1])
		rollover := parseGroupedInt(m[2])
		events = append(events, models.NewSurplusXP(date, rollover))
	}

	for _, m := range boundaryPattern.FindAllStringSubmatch(collapsed, -1) {
		end := ParseSlashDate(m[1])
		start := ParseSlashDate(m[2])
		events = append(events, models.NewCycleBoundary(end, start))
	}

	return events
}
