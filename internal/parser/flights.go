package parser

import (
	"regexp"

	"github.com/skystatuspro/skystatus-sub006/internal/config"
	"github.com/skystatuspro/skystatus-sub006/internal/models"
)

// Flight patterns. Two independent passes over the collapsed text: trip
// summaries and individual segments. Both may match overlapping text for the
// same physical flight; dedup is the reconcile package's responsibility.
var (
	// "trip to AMSTERDAM 1,500 Miles 30 XP 30 UXP"
	tripPattern = regexp.MustCompile(
		`(?i)\btrip\s+to\s+([A-Za-z]+)\s+(\d[\d.,\x{00A0} ]*?)\s*Miles\s+(\d{1,4})\s*XP\b(?:\s+(\d{1,4})\s*UXP\b)?`,
	)
	// "CDG-JFK AF008 ... 3,635 Miles ... 25 XP ... 25 UXP"
	segmentPattern = regexp.MustCompile(
		`\b([A-Z]{3})\s*[-\x{2013}]\s*([A-Z]{3})\s+([A-Z]{2}\d{3,4})\b.{0,80}?(\d[\d.,]*)\s*Miles\b.{0,40}?(\d{1,4})\s*XP\b(?:.{0,40}?(\d{1,4})\s*UXP\b)?`,
	)
	// Connector word + long date, used to recover segment dates from the
	// surrounding window.
	connectorDatePattern = regexp.MustCompile(
		`(?i)\b(?:on|le|op|am|el|il|em)\s+(\d{1,2}\s+\p{L}{3,}\.?\s+\d{4})\b`,
	)
)

// ExtractFlights runs the trip-summary and segment passes and returns all
// raw matches in match-position order (trips first, then segments). Date
// recovery is a window heuristic: a trip's date is looked up shortly before
// the match, a segment's in a combined window around it. A miss leaves the
// date empty, which is expected and tolerated.
func ExtractFlights(text string, h config.Heuristics) []models.FlightRecord {
	collapsed := collapseWhitespace(text)
	var flights []models.FlightRecord

	for _, loc := range tripPattern.FindAllStringSubmatchIndex(collapsed, -1) {
		f := models.FlightRecord{
			Source:      models.SourceTrip,
			Destination: collapsed[loc[2]:loc[3]],
			Miles:       parseGroupedInt(collapsed[loc[4]:loc[5]]),
			XP:          parseGroupedInt(collapsed[loc[6]:loc[7]]),
		}
		if loc[8] >= 0 {
			f.UXP = parseGroupedInt(collapsed[loc[8]:loc[9]])
		}

		// Trip summaries are rendered directly after their date line, so the
		// closest date inside the backward window wins.
		window := windowBefore(collapsed, loc[0], h.TripDateBack)
		if dates := longDatePattern.FindAllString(window, -1); len(dates) > 0 {
			f.Date = ParseLongDate(dates[len(dates)-1])
		}

		flights = append(flights, f)
	}

	for _, loc := range segmentPattern.FindAllStringSubmatchIndex(collapsed, -1) {
		f := models.FlightRecord{
			Source:       models.SourceSegment,
			Route:        collapsed[loc[2]:loc[3]] + "-" + collapsed[loc[4]:loc[5]],
			FlightNumber: collapsed[loc[6]:loc[7]],
			Miles:        parseGroupedInt(collapsed[loc[8]:loc[9]]),
			XP:           parseGroupedInt(collapsed[loc[10]:loc[11]]),
		}
		if loc[12] >= 0 {
			f.UXP = parseGroupedInt(collapsed[loc[12]:loc[13]])
		}

		window := windowAround(collapsed, loc[0], h.SegDateBack, h.SegDateForward)
		if m := connectorDatePattern.FindStringSubmatch(window); m != nil {
			f.Date = ParseLongDate(m[1])
		}

		flights = append(flights, f)
	}

	return flights
}
