package domain

import (
	"time"
)

type TransactionState string

const (
	TransactionStateRequested TransactionState = "Requested"
	TransactionStateStarted   TransactionState = "Started"
	TransactionStateCharging  TransactionState = "Charging"
	TransactionStateCompleted TransactionState = "Completed"
	TransactionStateRejected  TransactionState = "Rejected"
	TransactionStateCancelled TransactionState = "Cancelled"
)

// Terminal reports whether no further transition is possible from the state.
func (s TransactionState) Terminal() bool {
	switch s {
	case TransactionStateCompleted, TransactionStateRejected, TransactionStateCancelled:
		return true
	}
	return false
}

// Open reports whether the state still counts against the one-open-session-
// per-idtag rule.
func (s TransactionState) Open() bool {
	return !s.Terminal()
}

// Transaction is one charging session attempt. IDs are sequential, 1-based and
// never reused. Energy counters are absolute meter readings in Wh.
type Transaction struct {
	ID                    uint64           `json:"id"`
	Initiator             string           `json:"initiator"`
	StationID             uint64           `json:"station_id"`
	ConnectorID           int              `json:"connector_id"`
	Idtag                 string           `json:"idtag"`
	State                 TransactionState `json:"state"`
	MeterStart            int64            `json:"meter_start"` // Wh
	MeterStop             int64            `json:"meter_stop"`  // Wh
	DateStart             int64            `json:"date_start"`  // epoch seconds
	DateStop              int64            `json:"date_stop"`   // epoch seconds
	TotalImportRegisterWh int64            `json:"total_import_register_wh"`
	TotalPrice            int64            `json:"total_price"` // currency minor units
	TariffID              uint64           `json:"tariff_id"`
	UnitPrice             int64            `json:"unit_price"` // per-energy price snapshot taken at start
	InvoiceID             uint64           `json:"invoice_id"` // 0 until completed
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// MeterValue is one reading reported by the station during a session. Readings
// are append-only and kept in arrival order; together they form the audit
// trail the pricing is reproducible from.
type MeterValue struct {
	TransactionID                uint64    `json:"transaction_id"`
	ConnectorID                  int       `json:"connector_id"`
	EnergyActiveImportRegisterWh int64     `json:"energy_active_import_register_wh"`
	CurrentImportA               int       `json:"current_import_a"`
	CurrentOfferedA              int       `json:"current_offered_a"`
	PowerActiveImportW           int       `json:"power_active_import_w"`
	VoltageV                     int       `json:"voltage_v"`
	Percent                      int       `json:"percent"` // state of charge
	ReceivedAt                   time.Time `json:"received_at"`
}

// Invoice is the immutable priced summary snapshotted when a transaction
// completes.
type Invoice struct {
	ID            uint64    `json:"id"`
	TransactionID uint64    `json:"transaction_id"`
	StationID     uint64    `json:"station_id"`
	ConnectorID   int       `json:"connector_id"`
	Idtag         string    `json:"idtag"`
	TariffID      uint64    `json:"tariff_id"`
	ConsumptionWh int64     `json:"consumption_wh"`
	DurationSec   int64     `json:"duration_sec"`
	DateStart     int64     `json:"date_start"`
	DateStop      int64     `json:"date_stop"`
	TotalPrice    int64     `json:"total_price"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
}
