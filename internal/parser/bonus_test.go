package parser

import (
	"testing"

	"github.com/skystatuspro/skystatus-sub006/internal/models"
)

func TestExtractBonusEvents(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		category models.BonusCategory
		xp       int
		date     string
	}{
		{
			name:     "amex welcome",
			text:     "1 March 2025 American Express welcome bonus 60 XP",
			category: models.BonusAmexWelcome,
			xp:       60,
			date:     "2025-03-01",
		},
		{
			name:     "amex annual with boilerplate between markers",
			text:     "2 April 2025 American Express Platinum Card membership renewal annual bonus 60 XP",
			category: models.BonusAmexAnnual,
			xp:       60,
			date:     "2025-04-02",
		},
		{
			name:     "donation",
			text:     "3 March 2025 donation to the climate fund 15 XP",
			category: models.BonusDonationXP,
			xp:       15,
			date:     "2025-03-03",
		},
		{
			name:     "first flight has no date",
			text:     "Welcome aboard first flight bonus 100 XP",
			category: models.BonusFirstFlight,
			xp:       100,
			date:     "",
		},
		{
			name:     "adjustment",
			text:     "5 May 2025 goodwill adjustment 10 XP",
			category: models.BonusAirAdjustment,
			xp:       10,
			date:     "2025-05-05",
		},
		{
			name:     "hotel stay",
			text:     "10 May 2025 hotel stay partner earning 25 XP",
			category: models.BonusHotelXP,
			xp:       25,
			date:     "2025-05-10",
		},
		{
			name:     "discount pass with boilerplate between markers",
			text:     "6 June 2025 Discount Pass for Europe renewal of your subscription 40 XP",
			category: models.BonusDiscountPass,
			xp:       40,
			date:     "2025-06-06",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := ExtractBonusEvents(tt.text, testHeuristics())
			if len(events) != 1 {
				t.Fatalf("got %d events, want 1: %+v", len(events), events)
			}
			ev := events[0]
			if ev.Category != tt.category {
				t.Errorf("Category: got %q, want %q", ev.Category, tt.category)
			}
			if ev.XP != tt.xp {
				t.Errorf("XP: got %d, want %d", ev.XP, tt.xp)
			}
			if ev.Date != tt.date {
				t.Errorf("Date: got %q, want %q", ev.Date, tt.date)
			}
		})
	}
}

func TestExtractBonusEventsDropsNonPositive(t *testing.T) {
	// Every retained event has XP > 0.
	events := ExtractBonusEvents("1 March 2025 donation to charity 0 XP", testHeuristics())
	if len(events) != 0 {
		t.Fatalf("got %d events, want 0: %+v", len(events), events)
	}
}

func TestExtractBonusEventsMultiple(t *testing.T) {
	text := "1 March 2025 American Express welcome bonus 60 XP and later " +
		"first flight bonus 100 XP and then 3 March 2025 donation drive 15 XP"

	events := ExtractBonusEvents(text, testHeuristics())

	if len(events) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(events), events)
	}

	byCat := map[models.BonusCategory]models.BonusXPEvent{}
	for _, ev := range events {
		byCat[ev.Category] = ev
	}
	if ev := byCat[models.BonusAmexWelcome]; ev.XP != 60 || ev.Date != "2025-03-01" {
		t.Errorf("welcome: %+v", ev)
	}
	if ev := byCat[models.BonusFirstFlight]; ev.XP != 100 || ev.Date != "" {
		t.Errorf("first flight: %+v", ev)
	}
	if ev := byCat[models.BonusDonationXP]; ev.XP != 15 || ev.Date != "2025-03-03" {
		t.Errorf("donation: %+v", ev)
	}
}
