package parser

import (
	"regexp"
	"strings"

	"github.com/skystatuspro/skystatus-sub006/internal/models"
)

// Header patterns. The summary block of a statement renders the three
// balances on one logical line: "278,499 Miles 183 XP 40 UXP". Grouping
// separators vary with the statement language (comma, period, space).
var (
	balancesPattern = regexp.MustCompile(
		`(?i)(\d[\d.,\x{00A0} ]*?)\s*Miles\s+(\d[\d.,]*)\s*XP\s+(\d[\d.,]*)\s*UXP`,
	)
	statusPattern = regexp.MustCompile(
		`(?i)\b(Explorer|Silver|Gold|Platinum|Ultimate)\b`,
	)
	memberNumberPattern = regexp.MustCompile(
		`(?i)(?:member(?:ship)?\s*(?:number|no\.?)|n[°º]\s*de\s*membre|lidnummer|mitgliedsnummer)\s*:?\s*(\d{8,12})`,
	)
	memberNamePattern = regexp.MustCompile(
		`\b(?:MR|MRS|MS|MISS|DHR|MEVR|HERR|FRAU|SIG|SRA?)\.?\s+([A-Z][A-Z' -]{2,40}[A-Z])\b`,
	)
)

// ExtractHeader pulls the account's official balances and identity from the
// statement text. Every field is independently optional: a pattern miss
// leaves its field zeroed and is not an error.
func ExtractHeader(text string) models.HeaderSnapshot {
	h := models.HeaderSnapshot{Status: models.StatusUnknown}

	if m := balancesPattern.FindStringSubmatch(text); m != nil {
		h.MilesBalance = parseGroupedInt(m[1])
		h.XPBalance = parseGroupedInt(m[2])
		h.UXPBalance = parseGroupedInt(m[3])
		h.HasBalances = true
	}

	if m := statusPattern.FindStringSubmatch(text); m != nil {
		h.Status = models.ParseStatus(m[1])
		h.HasStatus = true
	}

	if m := memberNumberPattern.FindStringSubmatch(text); m != nil {
		h.MemberNumber = m[1]
	}

	if m := memberNamePattern.FindStringSubmatch(text); m != nil {
		h.MemberName = strings.TrimSpace(m[1])
	}

	return h
}
