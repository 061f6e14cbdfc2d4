package transaction

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/adapter/storage/memory"
	"github.com/portalenergy/chargehub/internal/domain"
	"github.com/portalenergy/chargehub/internal/ledger"
	"github.com/portalenergy/chargehub/internal/mocks"
	"github.com/portalenergy/chargehub/internal/ports"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func testTariff() *domain.Tariff {
	return &domain.Tariff{
		ID:       1,
		Currency: "EUR",
		PriceComponents: []domain.PriceComponent{
			{Kind: domain.ComponentKindPerEnergy, Price: 15, VAT: 20, StepSize: 1},
			{Kind: domain.ComponentKindFlat, Price: 500, VAT: 20, StepSize: 1},
			{Kind: domain.ComponentKindPerTime, Price: 2, VAT: 20, StepSize: 1},
		},
	}
}

type engineFixture struct {
	service   ports.TransactionService
	stations  ports.StationRepository
	queue     *mocks.MockMessageQueue
	access    *mocks.MockAccessService
	stationID uint64
}

func newEngine(t *testing.T) *engineFixture {
	t.Helper()

	stations := memory.NewStationRepository(newTestLogger())
	stationID, err := stations.Insert(context.Background(), &domain.Station{
		ClientUrl: "CB-001",
		Owner:     "owner-1",
		Connectors: []domain.Connector{
			{ConnectorID: 1, TariffID: 1, Status: domain.ConnectorStatusAvailable},
			{ConnectorID: 2, TariffID: 1, Status: domain.ConnectorStatusAvailable},
		},
	})
	if err != nil {
		t.Fatalf("seeding station failed: %v", err)
	}

	tariffs := &mocks.MockTariffService{
		GetTariffFunc: func(ctx context.Context, id uint64) (*domain.Tariff, error) {
			if id != 1 {
				return nil, domain.ErrTariffNotFound
			}
			return testTariff(), nil
		},
		ComputePriceFunc: func(ctx context.Context, tariffID uint64, consumptionWh, durationSec, startTs int64) (int64, error) {
			return consumptionWh * 18, nil
		},
	}

	queue := mocks.NewMockMessageQueue()
	access := &mocks.MockAccessService{}
	svc := NewService(memory.NewTransactionRepository(newTestLogger()), stations, tariffs, access, queue, ledger.NewGuard(), newTestLogger())

	return &engineFixture{
		service:   svc,
		stations:  stations,
		queue:     queue,
		access:    access,
		stationID: stationID,
	}
}

func TestRemoteStart_AssignsSequentialIDs(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)

	// Act
	first, err1 := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 1, "TAG-A")
	second, err2 := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 2, "TAG-B")

	// Assert
	if err1 != nil || err2 != nil {
		t.Fatalf("expected no errors, got %v / %v", err1, err2)
	}
	if first != 1 || second != 2 {
		t.Errorf("expected transaction ids 1 and 2, got %d and %d", first, second)
	}
	if len(f.queue.PublishedMessages[domain.SubjectRemoteStart]) != 2 {
		t.Errorf("expected two remote-start records, got %d",
			len(f.queue.PublishedMessages[domain.SubjectRemoteStart]))
	}
}

func TestRemoteStart_SecondOpenSessionForIdtag(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)
	if _, err := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 1, "TAG-A"); err != nil {
		t.Fatalf("first start failed: %v", err)
	}

	// Act
	_, err := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 2, "TAG-A")

	// Assert
	if !errors.Is(err, domain.ErrAlreadyOpen) {
		t.Fatalf("expected ErrAlreadyOpen, got %v", err)
	}
	count, _ := f.service.GetTransactionsCount(ctx)
	if count != 1 {
		t.Errorf("expected ledger unchanged at 1 transaction, got %d", count)
	}
}

func TestRemoteStart_UnknownConnector(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)

	// Act
	_, err := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 9, "TAG-A")

	// Assert
	if !errors.Is(err, domain.ErrConnectorNotFound) {
		t.Fatalf("expected ErrConnectorNotFound, got %v", err)
	}
}

func TestRemoteStart_AccessDenied(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)
	f.access.AuthorizedFunc = func(ctx context.Context, caller, owner string) (bool, error) {
		return false, nil
	}

	// Act
	_, err := f.service.RemoteStartTransaction(ctx, "stranger", "CB-001", 1, "TAG-A")

	// Assert
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	count, _ := f.service.GetTransactionsCount(ctx)
	if count != 0 {
		t.Errorf("expected no transaction recorded, got %d", count)
	}
}

func TestStartTransaction_FixesMeterAndTariffSnapshot(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)
	txID, err := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 1, "TAG-A")
	if err != nil {
		t.Fatalf("remote start failed: %v", err)
	}

	// Act
	if err := f.service.StartTransaction(ctx, "CB-001", "TAG-A", 1750000000, 12000); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	tx, _ := f.service.GetTransaction(ctx, txID)
	if tx.State != domain.TransactionStateStarted {
		t.Errorf("expected state Started, got %s", tx.State)
	}
	if tx.MeterStart != 12000 {
		t.Errorf("expected meter start 12000, got %d", tx.MeterStart)
	}
	if tx.TariffID != 1 {
		t.Errorf("expected tariff snapshot id 1, got %d", tx.TariffID)
	}
	if tx.UnitPrice != 15 {
		t.Errorf("expected per-energy unit price snapshot 15, got %d", tx.UnitPrice)
	}
}

func TestStartTransaction_NoOpenSessionForIdtag(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)

	// Act
	err := f.service.StartTransaction(ctx, "CB-001", "TAG-UNKNOWN", 1750000000, 0)

	// Assert
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestStopTransaction_BeforeStart(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)
	txID, err := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 1, "TAG-A")
	if err != nil {
		t.Fatalf("remote start failed: %v", err)
	}

	// Act
	err = f.service.StopTransaction(ctx, "CB-001", txID, 1750000000, 1000)

	// Assert
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	tx, _ := f.service.GetTransaction(ctx, txID)
	if tx.State != domain.TransactionStateRequested {
		t.Errorf("expected state unchanged at Requested, got %s", tx.State)
	}
}

func TestRejectTransaction_ReleasesIdtag(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)
	txID, err := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 1, "TAG-A")
	if err != nil {
		t.Fatalf("remote start failed: %v", err)
	}

	// Act
	if err := f.service.RejectTransaction(ctx, txID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	open, _ := f.service.GetUserTransaction(ctx, "TAG-A")
	if open != 0 {
		t.Errorf("expected idtag released, still open on %d", open)
	}
	if _, err := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 1, "TAG-A"); err != nil {
		t.Errorf("expected a fresh session after rejection, got %v", err)
	}
}

func TestCancelTransaction_WrongStation(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)
	if _, err := f.stations.Insert(ctx, &domain.Station{
		ClientUrl:  "CB-002",
		Owner:      "owner-2",
		Connectors: []domain.Connector{{ConnectorID: 1, TariffID: 1}},
	}); err != nil {
		t.Fatalf("seeding second station failed: %v", err)
	}
	txID, err := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 1, "TAG-A")
	if err != nil {
		t.Fatalf("remote start failed: %v", err)
	}

	// Act
	err = f.service.CancelTransaction(ctx, "CB-002", txID)

	// Assert
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestMeterValues_TrackRunningConsumption(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)
	txID, err := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 1, "TAG-A")
	if err != nil {
		t.Fatalf("remote start failed: %v", err)
	}
	if err := f.service.StartTransaction(ctx, "CB-001", "TAG-A", 1750000000, 12000); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Act
	readings := []int64{13000, 15500, 17000}
	for _, wh := range readings {
		if _, err := f.service.MeterValues(ctx, "CB-001", 1, txID, &domain.MeterValue{
			EnergyActiveImportRegisterWh: wh,
		}); err != nil {
			t.Fatalf("meter value %d failed: %v", wh, err)
		}
	}

	// Assert
	tx, _ := f.service.GetTransaction(ctx, txID)
	if tx.TotalImportRegisterWh != 5000 {
		t.Errorf("expected running consumption 5000 Wh, got %d", tx.TotalImportRegisterWh)
	}
	stored, _ := f.service.GetMeterValues(ctx, txID)
	if len(stored) != len(readings) {
		t.Fatalf("expected %d readings, got %d", len(readings), len(stored))
	}
	for i, wh := range readings {
		if stored[i].EnergyActiveImportRegisterWh != wh {
			t.Errorf("expected reading %d at position %d, got %d", wh, i, stored[i].EnergyActiveImportRegisterWh)
		}
	}
}

func TestMeterValues_BeforeStart(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)
	txID, err := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 1, "TAG-A")
	if err != nil {
		t.Fatalf("remote start failed: %v", err)
	}

	// Act
	_, err = f.service.MeterValues(ctx, "CB-001", 1, txID, &domain.MeterValue{
		EnergyActiveImportRegisterWh: 1000,
	})

	// Assert
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestOnConnectorStatus_PromotesStartedToCharging(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)
	txID, err := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 1, "TAG-A")
	if err != nil {
		t.Fatalf("remote start failed: %v", err)
	}
	if err := f.service.StartTransaction(ctx, "CB-001", "TAG-A", 1750000000, 0); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Act
	if err := f.service.OnConnectorStatus(ctx, f.stationID, 1, domain.ConnectorStatusCharging); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	tx, _ := f.service.GetTransaction(ctx, txID)
	if tx.State != domain.TransactionStateCharging {
		t.Errorf("expected state Charging, got %s", tx.State)
	}
}

func TestOnConnectorStatus_IgnoresOtherConnectorsAndStatuses(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)
	txID, err := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 1, "TAG-A")
	if err != nil {
		t.Fatalf("remote start failed: %v", err)
	}
	if err := f.service.StartTransaction(ctx, "CB-001", "TAG-A", 1750000000, 0); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Act
	if err := f.service.OnConnectorStatus(ctx, f.stationID, 2, domain.ConnectorStatusCharging); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := f.service.OnConnectorStatus(ctx, f.stationID, 1, domain.ConnectorStatusPreparing); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	tx, _ := f.service.GetTransaction(ctx, txID)
	if tx.State != domain.TransactionStateStarted {
		t.Errorf("expected state still Started, got %s", tx.State)
	}
}

func TestStopTransaction_CompletesAndInvoices(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)
	txID, err := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 1, "TAG-A")
	if err != nil {
		t.Fatalf("remote start failed: %v", err)
	}
	if err := f.service.StartTransaction(ctx, "CB-001", "TAG-A", 1750000000, 12000); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Act
	if err := f.service.StopTransaction(ctx, "CB-001", txID, 1750003600, 42000); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	tx, _ := f.service.GetTransaction(ctx, txID)
	if tx.State != domain.TransactionStateCompleted {
		t.Errorf("expected state Completed, got %s", tx.State)
	}
	if tx.TotalImportRegisterWh != 30000 {
		t.Errorf("expected 30000 Wh delivered, got %d", tx.TotalImportRegisterWh)
	}
	if tx.TotalPrice != 30000*18 {
		t.Errorf("expected total price %d, got %d", int64(30000*18), tx.TotalPrice)
	}
	if tx.InvoiceID == 0 {
		t.Fatal("expected invoice id assigned")
	}

	invoice, err := f.service.GetInvoice(ctx, tx.InvoiceID)
	if err != nil {
		t.Fatalf("expected invoice, got %v", err)
	}
	if invoice.ConsumptionWh != 30000 || invoice.DurationSec != 3600 {
		t.Errorf("unexpected invoice profile: %+v", invoice)
	}
	if invoice.Currency != "EUR" {
		t.Errorf("expected currency EUR, got %s", invoice.Currency)
	}

	open, _ := f.service.GetUserTransaction(ctx, "TAG-A")
	if open != 0 {
		t.Errorf("expected idtag released after completion, still open on %d", open)
	}
}

func TestStopTransaction_MeterRunsBackwards(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)
	txID, err := f.service.RemoteStartTransaction(ctx, "partner-1", "CB-001", 1, "TAG-A")
	if err != nil {
		t.Fatalf("remote start failed: %v", err)
	}
	if err := f.service.StartTransaction(ctx, "CB-001", "TAG-A", 1750000000, 12000); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Act
	err = f.service.StopTransaction(ctx, "CB-001", txID, 1750003600, 11000)

	// Assert
	if !errors.Is(err, domain.ErrInvalidMeterValue) {
		t.Fatalf("expected ErrInvalidMeterValue, got %v", err)
	}
	tx, _ := f.service.GetTransaction(ctx, txID)
	if tx.State != domain.TransactionStateStarted {
		t.Errorf("expected state unchanged at Started, got %s", tx.State)
	}
	open, _ := f.service.GetUserTransaction(ctx, "TAG-A")
	if open != txID {
		t.Errorf("expected idtag still bound to %d, got %d", txID, open)
	}
}

func TestGetUserTransaction_NoOpenSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newEngine(t)

	// Act
	open, err := f.service.GetUserTransaction(ctx, "TAG-NOBODY")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if open != 0 {
		t.Errorf("expected 0 for an idtag with no open session, got %d", open)
	}
}
