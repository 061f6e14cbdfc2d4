package mocks

import (
	"context"

	"github.com/portalenergy/chargehub/internal/domain"
)

// MockAccessService is a mock implementation of AccessService
type MockAccessService struct {
	AddPartnerFunc                  func(ctx context.Context, owner, identity string) error
	DeletePartnerFunc               func(ctx context.Context, owner, identity string) error
	PartnerCanCreateTransactionFunc func(ctx context.Context, owner, identity string) (bool, error)
	AuthorizedFunc                  func(ctx context.Context, caller, owner string) (bool, error)
	CanAdministerFunc               func(ctx context.Context, caller, owner string) (bool, error)
}

func (m *MockAccessService) AddPartner(ctx context.Context, owner, identity string) error {
	if m.AddPartnerFunc != nil {
		return m.AddPartnerFunc(ctx, owner, identity)
	}
	return nil
}

func (m *MockAccessService) DeletePartner(ctx context.Context, owner, identity string) error {
	if m.DeletePartnerFunc != nil {
		return m.DeletePartnerFunc(ctx, owner, identity)
	}
	return nil
}

func (m *MockAccessService) PartnerCanCreateTransaction(ctx context.Context, owner, identity string) (bool, error) {
	if m.PartnerCanCreateTransactionFunc != nil {
		return m.PartnerCanCreateTransactionFunc(ctx, owner, identity)
	}
	return true, nil
}

func (m *MockAccessService) Authorized(ctx context.Context, caller, owner string) (bool, error) {
	if m.AuthorizedFunc != nil {
		return m.AuthorizedFunc(ctx, caller, owner)
	}
	return true, nil
}

func (m *MockAccessService) CanAdminister(ctx context.Context, caller, owner string) (bool, error) {
	if m.CanAdministerFunc != nil {
		return m.CanAdministerFunc(ctx, caller, owner)
	}
	return true, nil
}

// MockTariffService is a mock implementation of TariffService
type MockTariffService struct {
	AddTariffFunc    func(ctx context.Context, tariff *domain.Tariff) (uint64, error)
	GetTariffFunc    func(ctx context.Context, id uint64) (*domain.Tariff, error)
	ComputePriceFunc func(ctx context.Context, tariffID uint64, consumptionWh, durationSec, startTs int64) (int64, error)
}

func (m *MockTariffService) AddTariff(ctx context.Context, tariff *domain.Tariff) (uint64, error) {
	if m.AddTariffFunc != nil {
		return m.AddTariffFunc(ctx, tariff)
	}
	return 1, nil
}

func (m *MockTariffService) GetTariff(ctx context.Context, id uint64) (*domain.Tariff, error) {
	if m.GetTariffFunc != nil {
		return m.GetTariffFunc(ctx, id)
	}
	return nil, domain.ErrTariffNotFound
}

func (m *MockTariffService) ComputePrice(ctx context.Context, tariffID uint64, consumptionWh, durationSec, startTs int64) (int64, error) {
	if m.ComputePriceFunc != nil {
		return m.ComputePriceFunc(ctx, tariffID, consumptionWh, durationSec, startTs)
	}
	return 0, nil
}

// MockConnectorStatusSink records connector status notifications forwarded by
// the station registry.
type MockConnectorStatusSink struct {
	OnConnectorStatusFunc func(ctx context.Context, stationID uint64, connectorID int, status domain.ConnectorStatus) error
	Calls                 []ConnectorStatusCall
}

type ConnectorStatusCall struct {
	StationID   uint64
	ConnectorID int
	Status      domain.ConnectorStatus
}

func (m *MockConnectorStatusSink) OnConnectorStatus(ctx context.Context, stationID uint64, connectorID int, status domain.ConnectorStatus) error {
	m.Calls = append(m.Calls, ConnectorStatusCall{StationID: stationID, ConnectorID: connectorID, Status: status})
	if m.OnConnectorStatusFunc != nil {
		return m.OnConnectorStatusFunc(ctx, stationID, connectorID, status)
	}
	return nil
}
