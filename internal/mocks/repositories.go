package mocks

import (
	"context"

	"github.com/portalenergy/chargehub/internal/domain"
)

// MockStationRepository is a mock implementation of StationRepository
type MockStationRepository struct {
	InsertFunc            func(ctx context.Context, station *domain.Station) (uint64, error)
	FindByIDFunc          func(ctx context.Context, id uint64) (*domain.Station, error)
	FindByUrlFunc         func(ctx context.Context, url string) (*domain.Station, error)
	FindAllFunc           func(ctx context.Context) ([]domain.Station, error)
	CountFunc             func(ctx context.Context) (int, error)
	UpdateFunc            func(ctx context.Context, station *domain.Station) error
	ReindexClientUrlsFunc func(ctx context.Context) (int, error)
}

func (m *MockStationRepository) Insert(ctx context.Context, station *domain.Station) (uint64, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, station)
	}
	return 1, nil
}

func (m *MockStationRepository) FindByID(ctx context.Context, id uint64) (*domain.Station, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrStationNotFound
}

func (m *MockStationRepository) FindByUrl(ctx context.Context, url string) (*domain.Station, error) {
	if m.FindByUrlFunc != nil {
		return m.FindByUrlFunc(ctx, url)
	}
	return nil, domain.ErrStationNotFound
}

func (m *MockStationRepository) FindAll(ctx context.Context) ([]domain.Station, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return []domain.Station{}, nil
}

func (m *MockStationRepository) Count(ctx context.Context) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockStationRepository) Update(ctx context.Context, station *domain.Station) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, station)
	}
	return nil
}

func (m *MockStationRepository) ReindexClientUrls(ctx context.Context) (int, error) {
	if m.ReindexClientUrlsFunc != nil {
		return m.ReindexClientUrlsFunc(ctx)
	}
	return 0, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	InsertFunc           func(ctx context.Context, tx *domain.Transaction) (uint64, error)
	FindByIDFunc         func(ctx context.Context, id uint64) (*domain.Transaction, error)
	FindAllFunc          func(ctx context.Context) ([]domain.Transaction, error)
	FindByStationFunc    func(ctx context.Context, stationID uint64) ([]domain.Transaction, error)
	CountFunc            func(ctx context.Context) (int, error)
	OpenByIdtagFunc      func(ctx context.Context, idtag string) (uint64, error)
	UpdateFunc           func(ctx context.Context, tx *domain.Transaction) error
	AppendMeterValueFunc func(ctx context.Context, mv *domain.MeterValue) error
	MeterValuesFunc      func(ctx context.Context, txID uint64) ([]domain.MeterValue, error)
	InsertInvoiceFunc    func(ctx context.Context, inv *domain.Invoice) (uint64, error)
	FindInvoiceFunc      func(ctx context.Context, id uint64) (*domain.Invoice, error)
}

func (m *MockTransactionRepository) Insert(ctx context.Context, tx *domain.Transaction) (uint64, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx)
	}
	return 1, nil
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uint64) (*domain.Transaction, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return []domain.Transaction{}, nil
}

func (m *MockTransactionRepository) FindByStation(ctx context.Context, stationID uint64) ([]domain.Transaction, error) {
	if m.FindByStationFunc != nil {
		return m.FindByStationFunc(ctx, stationID)
	}
	return []domain.Transaction{}, nil
}

func (m *MockTransactionRepository) Count(ctx context.Context) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockTransactionRepository) OpenByIdtag(ctx context.Context, idtag string) (uint64, error) {
	if m.OpenByIdtagFunc != nil {
		return m.OpenByIdtagFunc(ctx, idtag)
	}
	return 0, nil
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx)
	}
	return nil
}

func (m *MockTransactionRepository) AppendMeterValue(ctx context.Context, mv *domain.MeterValue) error {
	if m.AppendMeterValueFunc != nil {
		return m.AppendMeterValueFunc(ctx, mv)
	}
	return nil
}

func (m *MockTransactionRepository) MeterValues(ctx context.Context, txID uint64) ([]domain.MeterValue, error) {
	if m.MeterValuesFunc != nil {
		return m.MeterValuesFunc(ctx, txID)
	}
	return []domain.MeterValue{}, nil
}

func (m *MockTransactionRepository) InsertInvoice(ctx context.Context, inv *domain.Invoice) (uint64, error) {
	if m.InsertInvoiceFunc != nil {
		return m.InsertInvoiceFunc(ctx, inv)
	}
	return 1, nil
}

func (m *MockTransactionRepository) FindInvoice(ctx context.Context, id uint64) (*domain.Invoice, error) {
	if m.FindInvoiceFunc != nil {
		return m.FindInvoiceFunc(ctx, id)
	}
	return nil, domain.ErrInvoiceNotFound
}

// MockTariffRepository is a mock implementation of TariffRepository
type MockTariffRepository struct {
	InsertFunc   func(ctx context.Context, tariff *domain.Tariff) (uint64, error)
	FindByIDFunc func(ctx context.Context, id uint64) (*domain.Tariff, error)
}

func (m *MockTariffRepository) Insert(ctx context.Context, tariff *domain.Tariff) (uint64, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tariff)
	}
	return 1, nil
}

func (m *MockTariffRepository) FindByID(ctx context.Context, id uint64) (*domain.Tariff, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrTariffNotFound
}

// MockPartnerRepository is a mock implementation of PartnerRepository
type MockPartnerRepository struct {
	AddFunc    func(ctx context.Context, owner, identity string) error
	DeleteFunc func(ctx context.Context, owner, identity string) error
	ExistsFunc func(ctx context.Context, owner, identity string) (bool, error)
}

func (m *MockPartnerRepository) Add(ctx context.Context, owner, identity string) error {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, owner, identity)
	}
	return nil
}

func (m *MockPartnerRepository) Delete(ctx context.Context, owner, identity string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, owner, identity)
	}
	return nil
}

func (m *MockPartnerRepository) Exists(ctx context.Context, owner, identity string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, owner, identity)
	}
	return false, nil
}
