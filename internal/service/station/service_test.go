package station

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/adapter/storage/memory"
	"github.com/portalenergy/chargehub/internal/domain"
	"github.com/portalenergy/chargehub/internal/ledger"
	"github.com/portalenergy/chargehub/internal/mocks"
	"github.com/portalenergy/chargehub/internal/ports"
	"github.com/portalenergy/chargehub/internal/service/access"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func newTestService(accessSvc ports.AccessService) (*Service, *mocks.MockMessageQueue) {
	mockQueue := mocks.NewMockMessageQueue()
	repo := memory.NewStationRepository(newTestLogger())
	svc := NewService(repo, accessSvc, mocks.NewMockCache(), mockQueue, ledger.NewGuard(), time.Minute, newTestLogger())
	return svc, mockQueue
}

func TestAddStation_AssignsOwnerAndConnectorIDs(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, _ := newTestService(&mocks.MockAccessService{})

	// Act
	stored, err := svc.AddStation(ctx, "owner-1", &domain.Station{
		ClientUrl: "CB-001",
		Connectors: []domain.Connector{
			{TariffID: 1},
			{TariffID: 2, Status: domain.ConnectorStatusFaulted},
		},
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stored.ID != 1 {
		t.Errorf("expected station id 1, got %d", stored.ID)
	}
	if stored.Owner != "owner-1" {
		t.Errorf("expected owner 'owner-1', got '%s'", stored.Owner)
	}
	if stored.Connectors[0].ConnectorID != 1 || stored.Connectors[1].ConnectorID != 2 {
		t.Errorf("expected connector ids 1 and 2, got %d and %d",
			stored.Connectors[0].ConnectorID, stored.Connectors[1].ConnectorID)
	}
	if stored.Connectors[0].Status != domain.ConnectorStatusAvailable {
		t.Errorf("expected default status Available, got %s", stored.Connectors[0].Status)
	}
	if stored.Connectors[1].Status != domain.ConnectorStatusFaulted {
		t.Errorf("expected explicit status to survive, got %s", stored.Connectors[1].Status)
	}
}

func TestAddStation_DuplicateUrl(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, _ := newTestService(&mocks.MockAccessService{})
	if _, err := svc.AddStation(ctx, "owner-1", &domain.Station{ClientUrl: "CB-001"}); err != nil {
		t.Fatalf("seeding station failed: %v", err)
	}

	// Act
	_, err := svc.AddStation(ctx, "owner-2", &domain.Station{ClientUrl: "CB-001"})

	// Assert
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	count, _ := svc.GetStationsCount(ctx)
	if count != 1 {
		t.Errorf("expected registry unchanged at 1 station, got %d", count)
	}
}

func TestGetStation_ByIDAndByUrl_SameRecord(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, _ := newTestService(&mocks.MockAccessService{})
	stored, err := svc.AddStation(ctx, "owner-1", &domain.Station{ClientUrl: "CB-001", Name: "Garage"})
	if err != nil {
		t.Fatalf("seeding station failed: %v", err)
	}

	// Act
	byID, err1 := svc.GetStation(ctx, stored.ID)
	byUrl, err2 := svc.GetStationByUrl(ctx, "CB-001")

	// Assert
	if err1 != nil || err2 != nil {
		t.Fatalf("expected no error, got %v / %v", err1, err2)
	}
	if byID.ID != byUrl.ID || byID.Name != byUrl.Name {
		t.Errorf("expected both lookups to hit the same record, got %+v vs %+v", byID, byUrl)
	}
}

func TestSetState_AccessDenied(t *testing.T) {
	// Arrange
	ctx := context.Background()
	accessSvc := &mocks.MockAccessService{
		CanAdministerFunc: func(ctx context.Context, caller, owner string) (bool, error) {
			return false, nil
		},
	}
	svc, _ := newTestService(accessSvc)
	if _, err := svc.AddStation(ctx, "owner-1", &domain.Station{ClientUrl: "CB-001"}); err != nil {
		t.Fatalf("seeding station failed: %v", err)
	}

	// Act
	err := svc.SetState(ctx, "stranger", "CB-001", true)

	// Assert
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	station, _ := svc.GetStationByUrl(ctx, "CB-001")
	if station.State {
		t.Error("expected state flag untouched after denied call")
	}
}

func TestSetState_AllowListedPartnerDenied(t *testing.T) {
	// Arrange: a roaming partner on the owner's allow-list can open sessions
	// but must not be able to enable or disable the station.
	ctx := context.Background()
	accessSvc := access.NewService(memory.NewPartnerRepository(), nil, newTestLogger())
	if err := accessSvc.AddPartner(ctx, "owner-1", "roaming-partner"); err != nil {
		t.Fatalf("seeding allow-list failed: %v", err)
	}
	svc, _ := newTestService(accessSvc)
	if _, err := svc.AddStation(ctx, "owner-1", &domain.Station{ClientUrl: "CB-001"}); err != nil {
		t.Fatalf("seeding station failed: %v", err)
	}

	// Act
	err := svc.SetState(ctx, "roaming-partner", "CB-001", true)

	// Assert
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	station, _ := svc.GetStationByUrl(ctx, "CB-001")
	if station.State {
		t.Error("expected state flag untouched after denied call")
	}

	// The same identity still passes the session-opening check.
	allowed, err := accessSvc.Authorized(ctx, "roaming-partner", "owner-1")
	if err != nil || !allowed {
		t.Errorf("expected partner to stay authorized for sessions, got allowed=%v err=%v", allowed, err)
	}
}

func TestBootNotification_Idempotent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, _ := newTestService(&mocks.MockAccessService{})
	if _, err := svc.AddStation(ctx, "owner-1", &domain.Station{ClientUrl: "CB-001"}); err != nil {
		t.Fatalf("seeding station failed: %v", err)
	}

	// Act
	if err := svc.BootNotification(ctx, "CB-001"); err != nil {
		t.Fatalf("first boot failed: %v", err)
	}
	if err := svc.BootNotification(ctx, "CB-001"); err != nil {
		t.Fatalf("second boot failed: %v", err)
	}

	// Assert
	station, _ := svc.GetStationByUrl(ctx, "CB-001")
	if !station.IsActive {
		t.Error("expected station active after boot")
	}
}

func TestStatusNotification_UpdatesConnectorAndDrivesSink(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, mockQueue := newTestService(&mocks.MockAccessService{})
	sink := &mocks.MockConnectorStatusSink{}
	svc.SetConnectorStatusSink(sink)

	stored, err := svc.AddStation(ctx, "owner-1", &domain.Station{
		ClientUrl:  "CB-001",
		Connectors: []domain.Connector{{TariffID: 1}},
	})
	if err != nil {
		t.Fatalf("seeding station failed: %v", err)
	}

	// Act
	err = svc.StatusNotification(ctx, "CB-001", 1, domain.ConnectorStatusCharging, "NoError")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	conn, _ := svc.GetConnector(ctx, stored.ID, 1)
	if conn.Status != domain.ConnectorStatusCharging {
		t.Errorf("expected connector status Charging, got %s", conn.Status)
	}
	if len(sink.Calls) != 1 {
		t.Fatalf("expected one sink call, got %d", len(sink.Calls))
	}
	if sink.Calls[0].StationID != stored.ID || sink.Calls[0].ConnectorID != 1 {
		t.Errorf("sink called with wrong target: %+v", sink.Calls[0])
	}
	if len(mockQueue.PublishedMessages[domain.SubjectStatusNotification]) != 1 {
		t.Error("expected one connector.status record emitted")
	}
}

func TestStatusNotification_SinkFailureKeepsCommittedStatus(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, _ := newTestService(&mocks.MockAccessService{})
	sink := &mocks.MockConnectorStatusSink{
		OnConnectorStatusFunc: func(ctx context.Context, stationID uint64, connectorID int, status domain.ConnectorStatus) error {
			return errors.New("promotion failed")
		},
	}
	svc.SetConnectorStatusSink(sink)

	stored, err := svc.AddStation(ctx, "owner-1", &domain.Station{
		ClientUrl:  "CB-001",
		Connectors: []domain.Connector{{TariffID: 1}},
	})
	if err != nil {
		t.Fatalf("seeding station failed: %v", err)
	}

	// Act
	err = svc.StatusNotification(ctx, "CB-001", 1, domain.ConnectorStatusCharging, "NoError")

	// Assert: the committed connector write and the reported outcome agree.
	if err != nil {
		t.Fatalf("expected hook failure to be non-fatal, got %v", err)
	}
	conn, _ := svc.GetConnector(ctx, stored.ID, 1)
	if conn.Status != domain.ConnectorStatusCharging {
		t.Errorf("expected connector status Charging, got %s", conn.Status)
	}
}

func TestStatusNotification_UnknownConnector(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, _ := newTestService(&mocks.MockAccessService{})
	if _, err := svc.AddStation(ctx, "owner-1", &domain.Station{
		ClientUrl:  "CB-001",
		Connectors: []domain.Connector{{TariffID: 1}},
	}); err != nil {
		t.Fatalf("seeding station failed: %v", err)
	}

	// Act
	err := svc.StatusNotification(ctx, "CB-001", 5, domain.ConnectorStatusAvailable, "")

	// Assert
	if !errors.Is(err, domain.ErrConnectorNotFound) {
		t.Fatalf("expected ErrConnectorNotFound, got %v", err)
	}
}

func TestHeartbeat_RecordsLastSeen(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, _ := newTestService(&mocks.MockAccessService{})
	if _, err := svc.AddStation(ctx, "owner-1", &domain.Station{ClientUrl: "CB-001"}); err != nil {
		t.Fatalf("seeding station failed: %v", err)
	}
	ts := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC).Unix()

	// Act
	if err := svc.Heartbeat(ctx, "CB-001", ts); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	station, _ := svc.GetStationByUrl(ctx, "CB-001")
	if station.LastSeen.Unix() != ts {
		t.Errorf("expected last seen %d, got %d", ts, station.LastSeen.Unix())
	}
}
