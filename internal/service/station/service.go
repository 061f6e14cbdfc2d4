// Package station implements the station/connector registry: the catalogue
// of charge boxes, their connectors and their reported activity state.
package station

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/adapter/queue"
	"github.com/portalenergy/chargehub/internal/domain"
	"github.com/portalenergy/chargehub/internal/ledger"
	"github.com/portalenergy/chargehub/internal/observability/telemetry"
	"github.com/portalenergy/chargehub/internal/ports"
)

// ConnectorStatusSink receives connector status writes. It is the narrow,
// named seam between the registry and the transaction engine: a Charging
// status must be able to promote the session on that connector.
type ConnectorStatusSink interface {
	OnConnectorStatus(ctx context.Context, stationID uint64, connectorID int, status domain.ConnectorStatus) error
}

type Service struct {
	repo   ports.StationRepository
	access ports.AccessService
	cache  ports.Cache
	mq     queue.MessageQueue
	guard  *ledger.Guard
	sink   ConnectorStatusSink
	ttl    time.Duration
	log    *zap.Logger
}

func NewService(repo ports.StationRepository, access ports.AccessService, cache ports.Cache, mq queue.MessageQueue, guard *ledger.Guard, cacheTTL time.Duration, log *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		access: access,
		cache:  cache,
		mq:     mq,
		guard:  guard,
		ttl:    cacheTTL,
		log:    log,
	}
}

// SetConnectorStatusSink wires the transaction engine in after both services
// exist. Must be called before the first status notification is served.
func (s *Service) SetConnectorStatusSink(sink ConnectorStatusSink) {
	s.sink = sink
}

func (s *Service) AddStation(ctx context.Context, caller string, station *domain.Station) (*domain.Station, error) {
	var stored *domain.Station
	err := s.guard.Commit(func() error {
		station.Owner = caller
		for i := range station.Connectors {
			station.Connectors[i].ConnectorID = i + 1
			if station.Connectors[i].Status == "" {
				station.Connectors[i].Status = domain.ConnectorStatusAvailable
			}
		}

		id, err := s.repo.Insert(ctx, station)
		if err != nil {
			return err
		}

		stored, err = s.repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Station added",
		zap.Uint64("station_id", stored.ID),
		zap.String("client_url", stored.ClientUrl),
		zap.String("owner", stored.Owner),
	)
	telemetry.StationsRegistered.Inc()

	queue.EmitJSON(s.mq, s.log, domain.SubjectStationAdded, domain.StationAddedEvent{
		EventMeta: domain.NewEventMeta(),
		StationID: stored.ID,
		ClientUrl: stored.ClientUrl,
		Owner:     stored.Owner,
	})

	return stored, nil
}

func (s *Service) GetStation(ctx context.Context, id uint64) (*domain.Station, error) {
	cacheKey := fmt.Sprintf("station:id:%d", id)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var station domain.Station
		if err := json.Unmarshal([]byte(cached), &station); err == nil {
			return &station, nil
		}
	}

	station, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheStation(ctx, station)
	return station, nil
}

func (s *Service) GetStationByUrl(ctx context.Context, url string) (*domain.Station, error) {
	cacheKey := "station:url:" + url
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var station domain.Station
		if err := json.Unmarshal([]byte(cached), &station); err == nil {
			return &station, nil
		}
	}

	station, err := s.repo.FindByUrl(ctx, url)
	if err != nil {
		return nil, err
	}

	s.cacheStation(ctx, station)
	return station, nil
}

func (s *Service) GetStations(ctx context.Context) ([]domain.Station, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) GetStationsCount(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) SetState(ctx context.Context, caller, url string, state bool) error {
	err := s.guard.Commit(func() error {
		station, err := s.repo.FindByUrl(ctx, url)
		if err != nil {
			return err
		}

		ok, err := s.access.CanAdminister(ctx, caller, station.Owner)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAccessDenied
		}

		station.State = state
		if err := s.repo.Update(ctx, station); err != nil {
			return err
		}
		s.invalidate(ctx, station)

		queue.EmitJSON(s.mq, s.log, domain.SubjectStationStateChanged, domain.StationStateChangedEvent{
			EventMeta: domain.NewEventMeta(),
			ClientUrl: url,
			State:     state,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Station state changed", zap.String("client_url", url), zap.Bool("state", state))
	return nil
}

func (s *Service) GetConnector(ctx context.Context, stationID uint64, connectorID int) (*domain.Connector, error) {
	station, err := s.repo.FindByID(ctx, stationID)
	if err != nil {
		return nil, err
	}
	conn := station.FindConnector(connectorID)
	if conn == nil {
		return nil, domain.ErrConnectorNotFound
	}
	return conn, nil
}

// BootNotification marks the station reachable. Idempotent: repeating it for
// an already active station changes nothing beyond the emitted record.
func (s *Service) BootNotification(ctx context.Context, url string) error {
	err := s.guard.Commit(func() error {
		station, err := s.repo.FindByUrl(ctx, url)
		if err != nil {
			return err
		}

		station.IsActive = true
		station.LastSeen = time.Now()
		if err := s.repo.Update(ctx, station); err != nil {
			return err
		}
		s.invalidate(ctx, station)
		return nil
	})
	if err != nil {
		return err
	}

	queue.EmitJSON(s.mq, s.log, domain.SubjectBootNotification, domain.BootNotificationEvent{
		EventMeta: domain.NewEventMeta(),
		ClientUrl: url,
	})
	return nil
}

// StatusNotification is the sole channel by which connector status changes.
// The transaction engine is driven through the sink from inside the same
// commit. The sink call is best-effort like the record emission: once the
// connector write is committed the operation reports success, and a failed
// promotion is logged for the observers to reconcile.
func (s *Service) StatusNotification(ctx context.Context, url string, connectorID int, status domain.ConnectorStatus, errorCode string) error {
	err := s.guard.Commit(func() error {
		station, err := s.repo.FindByUrl(ctx, url)
		if err != nil {
			return err
		}

		conn := station.FindConnector(connectorID)
		if conn == nil {
			return domain.ErrConnectorNotFound
		}

		conn.Status = status
		conn.ErrorCode = errorCode
		if err := s.repo.Update(ctx, station); err != nil {
			return err
		}
		s.invalidate(ctx, station)

		if s.sink != nil {
			if err := s.sink.OnConnectorStatus(ctx, station.ID, connectorID, status); err != nil {
				s.log.Warn("Connector status hook failed",
					zap.Uint64("station_id", station.ID),
					zap.Int("connector_id", connectorID),
					zap.String("status", string(status)),
					zap.Error(err),
				)
			}
		}

		queue.EmitJSON(s.mq, s.log, domain.SubjectStatusNotification, domain.StatusNotificationEvent{
			EventMeta:   domain.NewEventMeta(),
			ClientUrl:   url,
			ConnectorID: connectorID,
			Status:      status,
			ErrorCode:   errorCode,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Connector status updated",
		zap.String("client_url", url),
		zap.Int("connector_id", connectorID),
		zap.String("status", string(status)),
	)
	return nil
}

// Heartbeat records liveness. Idempotent beyond last-seen bookkeeping.
func (s *Service) Heartbeat(ctx context.Context, url string, timestamp int64) error {
	err := s.guard.Commit(func() error {
		station, err := s.repo.FindByUrl(ctx, url)
		if err != nil {
			return err
		}

		station.LastSeen = time.Unix(timestamp, 0)
		if err := s.repo.Update(ctx, station); err != nil {
			return err
		}
		s.invalidate(ctx, station)
		return nil
	})
	if err != nil {
		return err
	}

	queue.EmitJSON(s.mq, s.log, domain.SubjectHeartbeat, domain.HeartbeatEvent{
		EventMeta: domain.NewEventMeta(),
		ClientUrl: url,
		Timestamp: timestamp,
	})
	return nil
}

func (s *Service) ReindexClientUrls(ctx context.Context) (int, error) {
	var n int
	err := s.guard.Commit(func() error {
		var err error
		n, err = s.repo.ReindexClientUrls(ctx)
		return err
	})
	return n, err
}

func (s *Service) cacheStation(ctx context.Context, station *domain.Station) {
	data, err := json.Marshal(station)
	if err != nil {
		return
	}
	s.cache.Set(ctx, fmt.Sprintf("station:id:%d", station.ID), string(data), s.ttl)
	s.cache.Set(ctx, "station:url:"+station.ClientUrl, string(data), s.ttl)
}

func (s *Service) invalidate(ctx context.Context, station *domain.Station) {
	s.cache.Delete(ctx, fmt.Sprintf("station:id:%d", station.ID))
	s.cache.Delete(ctx, "station:url:"+station.ClientUrl)
}
