package parser

import (
	"github.com/skystatuspro/skystatus-sub006/internal/config"
	"github.com/skystatuspro/skystatus-sub006/internal/models"
)

// Analyze runs the four extractors over the same immutable statement text.
// The extractors are independent: none reads another's output, so the result
// is deterministic regardless of execution order. Per-fragment parse misses
// are absorbed as empty fields; Analyze itself cannot fail.
func Analyze(text string, h config.Heuristics) models.Extraction {
	return models.Extraction{
		Header:       ExtractHeader(text),
		RequalEvents: ExtractRequalEvents(text, h),
		BonusEvents:  ExtractBonusEvents(text, h),
		Flights:      ExtractFlights(text, h),
	}
}
