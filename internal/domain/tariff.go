package domain

import (
	"time"
)

type ComponentKind int

const (
	ComponentKindPerEnergy ComponentKind = 1 // billed per Wh consumed
	ComponentKindFlat      ComponentKind = 2 // billed once per session
	ComponentKindPerTime   ComponentKind = 3 // billed per second of session duration
)

// TariffComponentCount is the fixed shape of a tariff: one component per kind.
const TariffComponentCount = 3

// Restriction gates whether a price component applies to a session profile.
// A zero bound means unbounded on that side; an all-zero restriction always
// applies.
type Restriction struct {
	StartDate   int64 `json:"start_date"` // epoch seconds
	EndDate     int64 `json:"end_date"`
	StartTime   int64 `json:"start_time"` // hour of day, 0-23
	EndTime     int64 `json:"end_time"`
	MinWh       int64 `json:"min_wh"`
	MaxWh       int64 `json:"max_wh"`
	MinDuration int64 `json:"min_duration"` // seconds
	MaxDuration int64 `json:"max_duration"`
}

// PriceComponent is one priced rule inside a tariff. Price is in currency
// minor units per billable unit of its kind; VAT is a whole percentage added
// on top of the component charge.
type PriceComponent struct {
	Price        int64         `json:"price"`
	VAT          int64         `json:"vat"`
	Kind         ComponentKind `json:"kind"`
	StepSize     int64         `json:"step_size"`
	Restrictions Restriction   `json:"restrictions"`
}

// Tariff is a versioned set of price components, immutable once stored.
// RoundAfterVAT selects whether the step-size rounding is applied to the
// component charge after VAT instead of to the billable quantity before
// pricing; the observable default is quantity-first.
type Tariff struct {
	ID              uint64           `json:"id"`
	CountryCode     int              `json:"country_code"`
	Currency        string           `json:"currency"`
	Owner           string           `json:"owner"`
	RoundAfterVAT   bool             `json:"round_after_vat"`
	PriceComponents []PriceComponent `json:"price_components"`
	CreatedAt       time.Time        `json:"created_at"`
}
