package ports

import (
	"context"

	"github.com/portalenergy/chargehub/internal/domain"
)

// StationRepository owns the station table together with its url index; both
// are updated inside the same call so they can never diverge.
type StationRepository interface {
	// Insert assigns the next sequential station id and indexes the record by
	// id and by ClientUrl. Fails with domain.ErrAlreadyExists when the url is
	// already indexed.
	Insert(ctx context.Context, station *domain.Station) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*domain.Station, error)
	FindByUrl(ctx context.Context, url string) (*domain.Station, error)
	FindAll(ctx context.Context) ([]domain.Station, error)
	Count(ctx context.Context) (int, error)
	// Update replaces the stored record identified by station.ID and keeps the
	// url index in step when the ClientUrl changed.
	Update(ctx context.Context, station *domain.Station) error
	// ReindexClientUrls rebuilds the url index from the id table and returns
	// the number of entries indexed. Administrative, off the hot path.
	ReindexClientUrls(ctx context.Context) (int, error)
}

// TransactionRepository owns the transaction table, the idtag open-transaction
// index, the append-only meter value log and the invoice table.
type TransactionRepository interface {
	// Insert assigns the next sequential transaction id and, for open states,
	// claims the idtag index entry. Fails with domain.ErrAlreadyOpen when the
	// idtag already has an open transaction.
	Insert(ctx context.Context, tx *domain.Transaction) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*domain.Transaction, error)
	FindAll(ctx context.Context) ([]domain.Transaction, error)
	FindByStation(ctx context.Context, stationID uint64) ([]domain.Transaction, error)
	Count(ctx context.Context) (int, error)
	// OpenByIdtag returns the id of the open transaction for the idtag, or 0
	// when there is none.
	OpenByIdtag(ctx context.Context, idtag string) (uint64, error)
	// Update replaces the stored record; a transition into a terminal state
	// releases the idtag index entry in the same call.
	Update(ctx context.Context, tx *domain.Transaction) error

	AppendMeterValue(ctx context.Context, mv *domain.MeterValue) error
	MeterValues(ctx context.Context, txID uint64) ([]domain.MeterValue, error)

	InsertInvoice(ctx context.Context, inv *domain.Invoice) (uint64, error)
	FindInvoice(ctx context.Context, id uint64) (*domain.Invoice, error)
}

type TariffRepository interface {
	// Insert assigns the next sequential tariff id; tariffs are immutable
	// once stored.
	Insert(ctx context.Context, tariff *domain.Tariff) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*domain.Tariff, error)
}

// PartnerRepository is the per-owner allow-list keyed by (owner, identity).
type PartnerRepository interface {
	Add(ctx context.Context, owner, identity string) error
	Delete(ctx context.Context, owner, identity string) error
	Exists(ctx context.Context, owner, identity string) (bool, error)
}
