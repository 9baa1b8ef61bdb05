package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// monthTable maps normalized month tokens to calendar month numbers for the
// seven statement languages: English, Dutch, French, German, Spanish,
// Italian, Portuguese. Overlapping abbreviations across languages are fine
// ("mei" and "mai" both mean May). Accented spellings appear alongside their
// plain forms because normalization keeps accented letters.
var monthTable = map[string]int{
	// January
	"jan": 1, "january": 1, "januari": 1, "janvier": 1, "januar": 1,
	"ene": 1, "enero": 1, "gen": 1, "gennaio": 1, "janeiro": 1,
	// February
	"feb": 2, "february": 2, "februari": 2, "februar": 2,
	"fev": 2, "fevrier": 2, "février": 2, "febrero": 2, "febbraio": 2, "fevereiro": 2,
	// March
	"mar": 3, "march": 3, "maart": 3, "mars": 3, "marz": 3, "märz": 3,
	"marzo": 3, "marco": 3, "março": 3, "mrt": 3,
	// April
	"apr": 4, "april": 4, "avr": 4, "avril": 4, "abr": 4, "abril": 4, "aprile": 4,
	// May
	"may": 5, "mayo": 5, "mei": 5, "mai": 5, "mag": 5, "maggio": 5, "maio": 5,
	// June
	"jun": 6, "june": 6, "juni": 6, "juin": 6, "junio": 6,
	"giu": 6, "giugno": 6, "junho": 6,
	// July
	"jul": 7, "july": 7, "juli": 7, "juil": 7, "juillet": 7, "julio": 7,
	"lug": 7, "luglio": 7, "julho": 7,
	// August
	"aug": 8, "august": 8, "augustus": 8, "aout": 8, "août": 8,
	"ago": 8, "agosto": 8,
	// September
	"sep": 9, "sept": 9, "september": 9, "septembre": 9, "septiembre": 9,
	"set": 9, "settembre": 9, "setembro": 9,
	// October
	"oct": 10, "october": 10, "okt": 10, "oktober": 10, "octobre": 10,
	"octubre": 10, "ott": 10, "ottobre": 10, "out": 10, "outubro": 10,
	// November
	"nov": 11, "november": 11, "novembre": 11, "noviembre": 11, "novembro": 11,
	// December
	"dec": 12, "december": 12, "decembre": 12, "décembre": 12, "dez": 12,
	"dezember": 12, "dic": 12, "diciembre": 12, "dicembre": 12, "dezembro": 12,
}

// sortedMonthKeys gives the prefix-match tier a deterministic scan order.
var sortedMonthKeys = func() []string {
	keys := make([]string, 0, len(monthTable))
	for k := range monthTable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// monthAllowedRunes are the characters kept by normalizeMonthToken: Latin
// letters plus the accented letters that occur in month names across the
// supported languages.
const monthAccents = "àáâäãçèéêëìíîïñòóôöõùúûüß"

func normalizeMonthToken(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	var b strings.Builder
	for _, r := range token {
		if (r >= 'a' && r <= 'z') || strings.ContainsRune(monthAccents, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveMonth maps a locale-ambiguous month token to a month number 1-12.
// Resolution tiers, most to least strict: exact table hit, first three
// characters, bidirectional prefix match. The prefix tier is forgiving and
// may mis-resolve very short truncated tokens. Returns (0, false) when
// nothing matches.
func ResolveMonth(token string) (int, bool) {
	norm := normalizeMonthToken(token)
	if norm == "" {
		return 0, false
	}

	if m, ok := monthTable[norm]; ok {
		return m, true
	}

	if len(norm) > 3 {
		if m, ok := monthTable[norm[:3]]; ok {
			return m, true
		}
	}

	for _, key := range sortedMonthKeys {
		if strings.HasPrefix(norm, key) || strings.HasPrefix(key, norm) {
			return monthTable[key], true
		}
	}

	return 0, false
}

// longDatePattern matches "DD <month-token> YYYY" with an optional leading
// connector word ("on" and its equivalents in the supported languages).
var longDatePattern = regexp.MustCompile(
	`(?i)(?:\b(?:on|le|op|am|el|il|em|del)\s+)?\b(\d{1,2})\s+([\p{L}]{3,})\.?\s+(\d{4})\b`,
)

// slashDatePattern matches DD/MM/YYYY.
var slashDatePattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)

// ParseLongDate parses the first "DD Month YYYY" occurrence in s into a
// zero-padded ISO date "YYYY-MM-DD". Returns "" for anything unparseable or
// out of range; callers treat "" as date unknown, never as a failure.
func ParseLongDate(s string) string {
	m := longDatePattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	month, ok := ResolveMonth(m[2])
	if !ok {
		return ""
	}
	return isoDate(year, month, day)
}

// ParseSlashDate parses the first DD/MM/YYYY occurrence in s into an ISO
// date, or "".
func ParseSlashDate(s string) string {
	m := slashDatePattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return isoDate(year, month, day)
}

// isoDate validates day/month/year ranges, including day-per-month validity
// ("31 Feb" is rejected via a calendar round-trip), and formats the date.
func isoDate(year, month, day int) string {
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 2000 || year > 2100 {
		return ""
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return ""
	}
	return t.Format("2006-01-02")
}
