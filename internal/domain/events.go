package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subjects for the records emitted by every mutating operation. Observers
// subscribe to these to reconstruct state without re-querying the core.
const (
	SubjectStationAdded        = "station.added"
	SubjectStationStateChanged = "station.state_changed"
	SubjectBootNotification    = "station.boot"
	SubjectHeartbeat           = "station.heartbeat"
	SubjectStatusNotification  = "connector.status"
	SubjectTariffAdded         = "tariff.added"
	SubjectRemoteStart         = "transaction.remote_start"
	SubjectRemoteStop          = "transaction.remote_stop"
	SubjectTransactionStarted  = "transaction.started"
	SubjectTransactionRejected = "transaction.rejected"
	SubjectTransactionCanceled = "transaction.cancelled"
	SubjectTransactionStopped  = "transaction.completed"
	SubjectMeterValues         = "transaction.meter_values"
)

// EventMeta is the envelope shared by all emitted records.
type EventMeta struct {
	EventID   string    `json:"event_id"`
	EmittedAt time.Time `json:"emitted_at"`
}

func NewEventMeta() EventMeta {
	return EventMeta{
		EventID:   uuid.New().String(),
		EmittedAt: time.Now().UTC(),
	}
}

type StationAddedEvent struct {
	EventMeta
	StationID uint64 `json:"station_id"`
	ClientUrl string `json:"client_url"`
	Owner     string `json:"owner"`
}

type StationStateChangedEvent struct {
	EventMeta
	ClientUrl string `json:"client_url"`
	State     bool   `json:"state"`
}

type BootNotificationEvent struct {
	EventMeta
	ClientUrl string `json:"client_url"`
}

type HeartbeatEvent struct {
	EventMeta
	ClientUrl string `json:"client_url"`
	Timestamp int64  `json:"timestamp"`
}

type StatusNotificationEvent struct {
	EventMeta
	ClientUrl   string          `json:"client_url"`
	ConnectorID int             `json:"connector_id"`
	Status      ConnectorStatus `json:"status"`
	ErrorCode   string          `json:"error_code"`
}

type TariffAddedEvent struct {
	EventMeta
	TariffID uint64 `json:"tariff_id"`
	Owner    string `json:"owner"`
}

// RemoteStartEvent carries the assigned transaction id; it is the only
// channel through which external callers learn it.
type RemoteStartEvent struct {
	EventMeta
	ClientUrl     string `json:"client_url"`
	ConnectorID   int    `json:"connector_id"`
	Idtag         string `json:"idtag"`
	TransactionID uint64 `json:"transaction_id"`
	Initiator     string `json:"initiator"`
}

type RemoteStopEvent struct {
	EventMeta
	ClientUrl     string `json:"client_url"`
	ConnectorID   int    `json:"connector_id"`
	Idtag         string `json:"idtag"`
	TransactionID uint64 `json:"transaction_id"`
}

type TransactionStartedEvent struct {
	EventMeta
	ClientUrl     string `json:"client_url"`
	TransactionID uint64 `json:"transaction_id"`
	MeterStart    int64  `json:"meter_start"`
	DateStart     int64  `json:"date_start"`
}

type TransactionRejectedEvent struct {
	EventMeta
	TransactionID uint64 `json:"transaction_id"`
}

type TransactionCancelledEvent struct {
	EventMeta
	ClientUrl     string `json:"client_url"`
	TransactionID uint64 `json:"transaction_id"`
}

type TransactionStoppedEvent struct {
	EventMeta
	ClientUrl     string `json:"client_url"`
	TransactionID uint64 `json:"transaction_id"`
	MeterStop     int64  `json:"meter_stop"`
	DateStop      int64  `json:"date_stop"`
	TotalPrice    int64  `json:"total_price"`
	InvoiceID     uint64 `json:"invoice_id"`
}

type MeterValuesEvent struct {
	EventMeta
	ClientUrl  string     `json:"client_url"`
	MeterValue MeterValue `json:"meter_value"`
}
