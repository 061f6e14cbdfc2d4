package domain

import (
	"time"
)

type ConnectorStatus string

const (
	ConnectorStatusAvailable     ConnectorStatus = "Available"
	ConnectorStatusPreparing     ConnectorStatus = "Preparing"
	ConnectorStatusCharging      ConnectorStatus = "Charging"
	ConnectorStatusSuspendedEVSE ConnectorStatus = "SuspendedEVSE"
	ConnectorStatusSuspendedEV   ConnectorStatus = "SuspendedEV"
	ConnectorStatusFinishing     ConnectorStatus = "Finishing"
	ConnectorStatusFaulted       ConnectorStatus = "Faulted"
)

// Station is one physical charge box. ID is assigned sequentially on insert and
// never changes; ClientUrl is the external identity reported by the box itself
// and is unique across the whole registry.
type Station struct {
	ID                    uint64      `json:"id"`
	ClientUrl             string      `json:"client_url"`
	Owner                 string      `json:"owner"`
	Name                  string      `json:"name"`
	Description           string      `json:"description"`
	Power                 int         `json:"power"`
	LocationLat           string      `json:"location_lat"`
	LocationLon           string      `json:"location_lon"`
	Address               string      `json:"address"`
	Time                  string      `json:"time"`
	ChargePointModel      string      `json:"charge_point_model"`
	ChargePointVendor     string      `json:"charge_point_vendor"`
	ChargeBoxSerialNumber string      `json:"charge_box_serial_number"`
	FirmwareVersion       string      `json:"firmware_version"`
	IsActive              bool        `json:"is_active"` // reachability, driven by boot notifications
	State                 bool        `json:"state"`     // operator-controlled enable flag
	Url                   string      `json:"url"`
	Type                  int         `json:"type"`
	OcppInterval          int64       `json:"ocpp_interval"`
	HeartbeatInterval     int64       `json:"heartbeat_interval"`
	LastSeen              time.Time   `json:"last_seen"`
	Connectors            []Connector `json:"connectors"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// Connector is a single outlet on a station, identified by a 1-based
// ConnectorID unique within its station.
type Connector struct {
	ConnectorID   int             `json:"connector_id"`
	TariffID      uint64          `json:"tariff_id"`
	Power         int             `json:"power"`
	ConnectorType int             `json:"connector_type"`
	Status        ConnectorStatus `json:"status"`
	ErrorCode     string          `json:"error_code"`
	IsHaveLock    bool            `json:"is_have_lock"`
}

// FindConnector returns the connector with the given 1-based id, or nil.
func (s *Station) FindConnector(connectorID int) *Connector {
	for i := range s.Connectors {
		if s.Connectors[i].ConnectorID == connectorID {
			return &s.Connectors[i]
		}
	}
	return nil
}
