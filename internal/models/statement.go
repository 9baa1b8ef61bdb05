package models

import "strings"

// StatusLevel is a loyalty-program tier.
type StatusLevel string

const (
	StatusExplorer StatusLevel = "Explorer"
	StatusSilver   StatusLevel = "Silver"
	StatusGold     StatusLevel = "Gold"
	StatusPlatinum StatusLevel = "Platinum"
	StatusUltimate StatusLevel = "Ultimate"
	StatusUnknown  StatusLevel = "Unknown"
)

// ParseStatus normalizes a status keyword (any case) to a StatusLevel.
// Unrecognized input yields StatusUnknown.
func ParseStatus(s string) StatusLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "explorer":
		return StatusExplorer
	case "silver":
		return StatusSilver
	case "gold":
		return StatusGold
	case "platinum":
		return StatusPlatinum
	case "ultimate":
		return StatusUltimate
	}
	return StatusUnknown
}

// HeaderSnapshot holds the program's authoritative balances at
// statement-generation time. Every field is independently optional:
// the Has* flags record which pattern groups actually matched.
type HeaderSnapshot struct {
	MilesBalance int         `json:"milesBalance"`
	XPBalance    int         `json:"xpBalance"`
	UXPBalance   int         `json:"uxpBalance"`
	Status       StatusLevel `json:"status"`
	MemberNumber string      `json:"memberNumber,omitempty"`
	MemberName   string      `json:"memberName,omitempty"`

	HasBalances bool `json:"hasBalances"`
	HasStatus   bool `json:"hasStatus"`
}

// RequalKind discriminates requalification event variants.
type RequalKind string

const (
	KindXPDeduct      RequalKind = "XP_DEDUCT"
	KindSurplusXP     RequalKind = "SURPLUS_XP"
	KindCycleBoundary RequalKind = "CYCLE_BOUNDARY"
)

// RequalEvent is one requalification fact extracted from the statement text.
// The Kind field selects which of the variant fields are meaningful:
//
//	XP_DEDUCT:      Date, XPDeducted, StatusReached
//	SURPLUS_XP:     Date, RolloverXP
//	CYCLE_BOUNDARY: CycleEnd, CycleStart
//
// Events are ordered by position of occurrence in the text, not
// chronologically.
type RequalEvent struct {
	Kind          RequalKind  `json:"kind"`
	Date          string      `json:"date,omitempty"`
	XPDeducted    int         `json:"xpDeducted,omitempty"`
	StatusReached StatusLevel `json:"statusReached,omitempty"`
	RolloverXP    int         `json:"rolloverXP,omitempty"`
	CycleEnd      string      `json:"cycleEnd,omitempty"`
	CycleStart    string      `json:"cycleStart,omitempty"`
}

// NewXPDeduct builds an XP_DEDUCT event. The deducted amount is always a
// positive magnitude; callers strip the sign before constructing.
func NewXPDeduct(date string, xpDeducted int, reached StatusLevel) RequalEvent {
	return RequalEvent{Kind: KindXPDeduct, Date: date, XPDeducted: xpDeducted, StatusReached: reached}
}

// NewSurplusXP builds a SURPLUS_XP event.
func NewSurplusXP(date string, rollover int) RequalEvent {
	return RequalEvent{Kind: KindSurplusXP, Date: date, RolloverXP: rollover}
}

// NewCycleBoundary builds a CYCLE_BOUNDARY event.
func NewCycleBoundary(cycleEnd, cycleStart string) RequalEvent {
	return RequalEvent{Kind: KindCycleBoundary, CycleEnd: cycleEnd, CycleStart: cycleStart}
}

// BonusCategory identifies a non-flight XP source.
type BonusCategory string

const (
	BonusAmexWelcome   BonusCategory = "AMEX_WELCOME"
	BonusAmexAnnual    BonusCategory = "AMEX_ANNUAL"
	BonusDonationXP    BonusCategory = "DONATION_XP"
	BonusFirstFlight   BonusCategory = "FIRST_FLIGHT"
	BonusAirAdjustment BonusCategory = "AIR_ADJUSTMENT"
	BonusHotelXP       BonusCategory = "HOTEL_XP"
	BonusDiscountPass  BonusCategory = "DISCOUNT_PASS"
)

// BonusXPEvent is one non-flight XP grant. XP is always > 0: matches with a
// non-positive amount are dropped at extraction time. Date is empty when the
// category carries no date in the source text.
type BonusXPEvent struct {
	Category BonusCategory `json:"category"`
	XP       int           `json:"xp"`
	Date     string        `json:"date,omitempty"`
}

// FlightSource records which extraction pass produced a flight record.
type FlightSource string

const (
	SourceTrip    FlightSource = "trip"
	SourceSegment FlightSource = "segment"
)

// FlightRecord is a trip summary or an individual flown segment.
// Trip summaries carry Destination; segments carry Route ("XXX-XXX") and
// FlightNumber. An empty Date means no nearby date pattern matched, which
// is expected and tolerated.
type FlightRecord struct {
	Source       FlightSource `json:"source"`
	Destination  string       `json:"destination,omitempty"`
	Route        string       `json:"route,omitempty"`
	FlightNumber string       `json:"flightNumber,omitempty"`
	Miles        int          `json:"miles"`
	XP           int          `json:"xp"`
	UXP          int          `json:"uxp"`
	Date         string       `json:"date,omitempty"`
}

// Place returns the route for segments, the destination for trip summaries.
// It is one component of the dedup key.
func (f FlightRecord) Place() string {
	if f.Route != "" {
		return f.Route
	}
	return f.Destination
}

// Extraction bundles the raw output of the four independent extractors,
// before any dedup or cycle derivation.
type Extraction struct {
	Header       HeaderSnapshot `json:"header"`
	RequalEvents []RequalEvent  `json:"requalEvents"`
	BonusEvents  []BonusXPEvent `json:"bonusEvents"`
	Flights      []FlightRecord `json:"flights"`
}

// QualificationCycle is derived from the requalification events.
// StartDate is the first day of the month after the latest XP_DEDUCT.
// ExplicitStart/ExplicitEnd come from a CYCLE_BOUNDARY event when one was
// found; they may disagree with the derived StartDate.
type QualificationCycle struct {
	StartDate     string      `json:"startDate"`
	RolloverXP    int         `json:"rolloverXP"`
	StatusReached StatusLevel `json:"statusReached"`
	LevelUpDate   string      `json:"levelUpDate"`
	ExplicitStart string      `json:"explicitStart,omitempty"`
	ExplicitEnd   string      `json:"explicitEnd,omitempty"`
}

// ReconciliationResult compares the reconstructed ledger against the
// official header XP. Difference = OfficialXP - CalculatedXP; zero means
// full reconciliation. A nonzero difference is a diagnostic, not an error.
type ReconciliationResult struct {
	RolloverXP       int    `json:"rolloverXP"`
	FlightXPInCycle  int    `json:"flightXPInCycle"`
	FlightUXPInCycle int    `json:"flightUXPInCycle"`
	BonusXPInCycle   int    `json:"bonusXPInCycle"`
	CalculatedXP     int    `json:"calculatedXP"`
	OfficialXP       int    `json:"officialXP"`
	Difference       int    `json:"difference"`
	Hypothesis       string `json:"hypothesis"`

	// Records excluded from the in-cycle sums because no date could be
	// associated with them. Reported, never silently attributed.
	UnattributableFlights []FlightRecord `json:"unattributableFlights"`
	UnattributableBonuses []BonusXPEvent `json:"unattributableBonuses"`
}

// StatementReport is the full analysis of one statement. HasCycle is false
// when no XP_DEDUCT event was found, in which case Cycle and Reconciliation
// are zero values and the report is partial rather than failed.
type StatementReport struct {
	Header         HeaderSnapshot       `json:"header"`
	RequalEvents   []RequalEvent        `json:"requalEvents"`
	BonusEvents    []BonusXPEvent       `json:"bonusEvents"`
	Flights        []FlightRecord       `json:"flights"`
	DedupedFlights []FlightRecord       `json:"dedupedFlights"`
	HasCycle       bool                 `json:"hasCycle"`
	Cycle          QualificationCycle   `json:"cycle"`
	Reconciliation ReconciliationResult `json:"reconciliation"`
	Notes          []string             `json:"notes,omitempty"`
}
