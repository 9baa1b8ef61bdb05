package parser

import (
	"fmt"
	"regexp"

	"github.com/skystatuspro/skystatus-sub006/internal/config"
	"github.com/skystatuspro/skystatus-sub006/internal/models"
)

// bonusRule ties one bonus category to its matcher. DateGroup is the
// submatch index of the preceding-date capture, or 0 for categories that
// never carry a date in the source text. Adding a category is one table
// entry; the scan below iterates rules uniformly.
type bonusRule struct {
	Category  models.BonusCategory
	Pattern   *regexp.Regexp
	DateGroup int
	XPGroup   int
}

// datedPrefix optionally captures a "DD Month YYYY" shortly before the
// category marker. The gap admits no digits so a date cannot be pulled in
// from an unrelated earlier record.
const datedPrefix = `(?i)(?:\b(\d{1,2}\s+\p{L}{3,}\.?\s+\d{4})\b\D{0,80}?)?`

// xpSuffix captures the granted quantity after the marker.
const xpSuffix = `.{0,60}?\b(\d{1,5})\s*XP\b`

const defaultMarkerGap = 120

// buildBonusRules compiles the category table. AmexAnnual and DiscountPass
// are two-part markers: a prefix phrase plus a second phrase appearing up to
// gap characters later, tolerating intervening boilerplate.
func buildBonusRules(gap int) []bonusRule {
	two := func(prefix, second string) string {
		return fmt.Sprintf(`%s.{0,%d}?%s`, prefix, gap, second)
	}
	return []bonusRule{
		{
			Category:  models.BonusAmexWelcome,
			Pattern:   regexp.MustCompile(datedPrefix + `American\s+Express\s+welcome\s+bonus` + xpSuffix),
			DateGroup: 1, XPGroup: 2,
		},
		{
			Category:  models.BonusAmexAnnual,
			Pattern:   regexp.MustCompile(datedPrefix + two(`American\s+Express\b`, `\bannual\s+bonus`) + xpSuffix),
			DateGroup: 1, XPGroup: 2,
		},
		{
			Category:  models.BonusDonationXP,
			Pattern:   regexp.MustCompile(datedPrefix + `\bdonation\b` + xpSuffix),
			DateGroup: 1, XPGroup: 2,
		},
		{
			// First-flight bonus has no associated date in the source text.
			Category: models.BonusFirstFlight,
			Pattern:  regexp.MustCompile(`(?i)\bfirst\s+flight\s+bonus\b` + xpSuffix),
			XPGroup:  1,
		},
		{
			Category:  models.BonusAirAdjustment,
			Pattern:   regexp.MustCompile(datedPrefix + `\badjustment\b` + xpSuffix),
			DateGroup: 1, XPGroup: 2,
		},
		{
			Category:  models.BonusHotelXP,
			Pattern:   regexp.MustCompile(datedPrefix + `\bhotel\s+stay\b` + xpSuffix),
			DateGroup: 1, XPGroup: 2,
		},
		{
			Category:  models.BonusDiscountPass,
			Pattern:   regexp.MustCompile(datedPrefix + two(`\bDiscount\s+Pass\b`, `\bsubscription\b`) + xpSuffix),
			DateGroup: 1, XPGroup: 2,
		},
	}
}

var defaultBonusRules = buildBonusRules(defaultMarkerGap)

// ExtractBonusEvents applies the category table over whitespace-collapsed
// text. Matches with a non-positive XP amount are dropped silently: every
// retained event has XP > 0.
func ExtractBonusEvents(text string, h config.Heuristics) []models.BonusXPEvent {
	rules := defaultBonusRules
	if h.MarkerGap > 0 && h.MarkerGap != defaultMarkerGap {
		rules = buildBonusRules(h.MarkerGap)
	}

	collapsed := collapseWhitespace(text)
	var events []models.BonusXPEvent

	for _, rule := range rules {
		for _, m := range rule.Pattern.FindAllStringSubmatch(collapsed, -1) {
			xp := parseGroupedInt(m[rule.XPGroup])
			if xp <= 0 {
				continue
			}
			ev := models.BonusXPEvent{Category: rule.Category, XP: xp}
			if rule.DateGroup > 0 && m[rule.DateGroup] != "" {
				ev.Date = ParseLongDate(m[rule.DateGroup])
			}
			events = append(events, ev)
		}
	}

	return events
}
