package ports

import (
	"context"
	"time"

	"github.com/portalenergy/chargehub/internal/domain"
)

// AccessService answers the two-level authorization question used by every
// mutating call: ownership, elevated operator capability, or presence on the
// owner's allow-list.
type AccessService interface {
	AddPartner(ctx context.Context, owner, identity string) error
	DeletePartner(ctx context.Context, owner, identity string) error
	PartnerCanCreateTransaction(ctx context.Context, owner, identity string) (bool, error)
	// Authorized reports whether the caller may open sessions on resources
	// owned by owner: the caller is the owner itself, holds the operator
	// capability, or sits on the owner's allow-list.
	Authorized(ctx context.Context, caller, owner string) (bool, error)
	// CanAdminister is the narrower check for administrative writes such as
	// enabling or disabling a station: owner or operator only, never the
	// allow-list.
	CanAdminister(ctx context.Context, caller, owner string) (bool, error)
}

type StationService interface {
	AddStation(ctx context.Context, caller string, station *domain.Station) (*domain.Station, error)
	GetStation(ctx context.Context, id uint64) (*domain.Station, error)
	GetStationByUrl(ctx context.Context, url string) (*domain.Station, error)
	GetStations(ctx context.Context) ([]domain.Station, error)
	GetStationsCount(ctx context.Context) (int, error)
	SetState(ctx context.Context, caller, url string, state bool) error
	GetConnector(ctx context.Context, stationID uint64, connectorID int) (*domain.Connector, error)
	BootNotification(ctx context.Context, url string) error
	StatusNotification(ctx context.Context, url string, connectorID int, status domain.ConnectorStatus, errorCode string) error
	Heartbeat(ctx context.Context, url string, timestamp int64) error
	ReindexClientUrls(ctx context.Context) (int, error)
}

type TariffService interface {
	AddTariff(ctx context.Context, tariff *domain.Tariff) (uint64, error)
	GetTariff(ctx context.Context, id uint64) (*domain.Tariff, error)
	ComputePrice(ctx context.Context, tariffID uint64, consumptionWh, durationSec, startTs int64) (int64, error)
}

type TransactionService interface {
	RemoteStartTransaction(ctx context.Context, caller, url string, connectorID int, idtag string) (uint64, error)
	RemoteStopTransaction(ctx context.Context, url, idtag string) error
	StartTransaction(ctx context.Context, url, idtag string, timestamp, meterStart int64) error
	StopTransaction(ctx context.Context, url string, txID uint64, timestamp, meterStop int64) error
	RejectTransaction(ctx context.Context, txID uint64) error
	CancelTransaction(ctx context.Context, url string, txID uint64) error
	MeterValues(ctx context.Context, url string, connectorID int, txID uint64, mv *domain.MeterValue) (*domain.MeterValue, error)
	GetMeterValues(ctx context.Context, txID uint64) ([]domain.MeterValue, error)
	GetTransaction(ctx context.Context, id uint64) (*domain.Transaction, error)
	GetTransactions(ctx context.Context) ([]domain.Transaction, error)
	GetTransactionsCount(ctx context.Context) (int, error)
	GetTransactionsLocal(ctx context.Context, stationID uint64) ([]domain.Transaction, error)
	// GetUserTransaction returns the open transaction id for the idtag, 0 when
	// there is none.
	GetUserTransaction(ctx context.Context, idtag string) (uint64, error)
	GetInvoice(ctx context.Context, id uint64) (*domain.Invoice, error)

	// OnConnectorStatus is the narrow hook the station registry calls after a
	// connector status write; a Charging status promotes a Started transaction
	// on that connector.
	OnConnectorStatus(ctx context.Context, stationID uint64, connectorID int, status domain.ConnectorStatus) error
}

// Cache is a read-through cache for hot station lookups.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
