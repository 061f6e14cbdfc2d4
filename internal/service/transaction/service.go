// Package transaction drives the charging session state machine. Sessions
// are created by remote-start commands and advanced by events reported from
// the physical world, which may arrive in any order from untrusted callers;
// every operation validates the full precondition set before it mutates
// anything.
package transaction

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/adapter/queue"
	"github.com/portalenergy/chargehub/internal/domain"
	"github.com/portalenergy/chargehub/internal/ledger"
	"github.com/portalenergy/chargehub/internal/observability/telemetry"
	"github.com/portalenergy/chargehub/internal/ports"
)

type Service struct {
	repo     ports.TransactionRepository
	stations ports.StationRepository
	tariffs  ports.TariffService
	access   ports.AccessService
	mq       queue.MessageQueue
	guard    *ledger.Guard
	log      *zap.Logger
}

func NewService(repo ports.TransactionRepository, stations ports.StationRepository, tariffs ports.TariffService, access ports.AccessService, mq queue.MessageQueue, guard *ledger.Guard, log *zap.Logger) ports.TransactionService {
	return &Service{
		repo:     repo,
		stations: stations,
		tariffs:  tariffs,
		access:   access,
		mq:       mq,
		guard:    guard,
		log:      log,
	}
}

func (s *Service) RemoteStartTransaction(ctx context.Context, caller, url string, connectorID int, idtag string) (uint64, error) {
	var txID uint64
	err := s.guard.Commit(func() error {
		station, err := s.stations.FindByUrl(ctx, url)
		if err != nil {
			return err
		}
		if station.FindConnector(connectorID) == nil {
			return domain.ErrConnectorNotFound
		}

		allowed, err := s.access.Authorized(ctx, caller, station.Owner)
		if err != nil {
			return err
		}
		if !allowed {
			return domain.ErrAccessDenied
		}

		tx := &domain.Transaction{
			Initiator:   caller,
			StationID:   station.ID,
			ConnectorID: connectorID,
			Idtag:       idtag,
			State:       domain.TransactionStateRequested,
		}

		// Insert claims the idtag index entry; a second open session for the
		// same tag fails here with ErrAlreadyOpen.
		txID, err = s.repo.Insert(ctx, tx)
		if err != nil {
			return err
		}

		queue.EmitJSON(s.mq, s.log, domain.SubjectRemoteStart, domain.RemoteStartEvent{
			EventMeta:     domain.NewEventMeta(),
			ClientUrl:     url,
			ConnectorID:   connectorID,
			Idtag:         idtag,
			TransactionID: txID,
			Initiator:     caller,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("Remote start requested",
		zap.Uint64("transaction_id", txID),
		zap.String("client_url", url),
		zap.Int("connector_id", connectorID),
		zap.String("idtag", idtag),
	)
	telemetry.OpenSessions.Inc()
	return txID, nil
}

func (s *Service) RejectTransaction(ctx context.Context, txID uint64) error {
	err := s.guard.Commit(func() error {
		tx, err := s.repo.FindByID(ctx, txID)
		if err != nil {
			return err
		}

		tx.State, err = nextState(tx.State, EventReject)
		if err != nil {
			return err
		}

		if err := s.repo.Update(ctx, tx); err != nil {
			return err
		}

		queue.EmitJSON(s.mq, s.log, domain.SubjectTransactionRejected, domain.TransactionRejectedEvent{
			EventMeta:     domain.NewEventMeta(),
			TransactionID: txID,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Transaction rejected", zap.Uint64("transaction_id", txID))
	telemetry.OpenSessions.Dec()
	return nil
}

func (s *Service) CancelTransaction(ctx context.Context, url string, txID uint64) error {
	err := s.guard.Commit(func() error {
		station, err := s.stations.FindByUrl(ctx, url)
		if err != nil {
			return err
		}

		tx, err := s.repo.FindByID(ctx, txID)
		if err != nil {
			return err
		}
		if tx.StationID != station.ID {
			return domain.ErrTransactionNotFound
		}

		tx.State, err = nextState(tx.State, EventCancel)
		if err != nil {
			return err
		}

		if err := s.repo.Update(ctx, tx); err != nil {
			return err
		}

		queue.EmitJSON(s.mq, s.log, domain.SubjectTransactionCanceled, domain.TransactionCancelledEvent{
			EventMeta:     domain.NewEventMeta(),
			ClientUrl:     url,
			TransactionID: txID,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Transaction cancelled", zap.Uint64("transaction_id", txID), zap.String("client_url", url))
	telemetry.OpenSessions.Dec()
	return nil
}

// StartTransaction is the charge box confirming a requested session: it fixes
// the opening meter reading and snapshots the connector's tariff so later
// pricing is insulated from tariff reassignment.
func (s *Service) StartTransaction(ctx context.Context, url, idtag string, timestamp, meterStart int64) error {
	var txID uint64
	err := s.guard.Commit(func() error {
		station, err := s.stations.FindByUrl(ctx, url)
		if err != nil {
			return err
		}

		openID, err := s.repo.OpenByIdtag(ctx, idtag)
		if err != nil {
			return err
		}
		if openID == 0 {
			return domain.ErrTransactionNotFound
		}

		tx, err := s.repo.FindByID(ctx, openID)
		if err != nil {
			return err
		}
		if tx.StationID != station.ID {
			return domain.ErrTransactionNotFound
		}

		newState, err := nextState(tx.State, EventStart)
		if err != nil {
			return err
		}

		conn := station.FindConnector(tx.ConnectorID)
		if conn == nil {
			return domain.ErrConnectorNotFound
		}
		tariff, err := s.tariffs.GetTariff(ctx, conn.TariffID)
		if err != nil {
			return err
		}

		tx.State = newState
		tx.MeterStart = meterStart
		tx.DateStart = timestamp
		tx.TariffID = tariff.ID
		tx.UnitPrice = perEnergyPrice(tariff)

		if err := s.repo.Update(ctx, tx); err != nil {
			return err
		}
		txID = tx.ID

		queue.EmitJSON(s.mq, s.log, domain.SubjectTransactionStarted, domain.TransactionStartedEvent{
			EventMeta:     domain.NewEventMeta(),
			ClientUrl:     url,
			TransactionID: tx.ID,
			MeterStart:    meterStart,
			DateStart:     timestamp,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Transaction started",
		zap.Uint64("transaction_id", txID),
		zap.String("client_url", url),
		zap.Int64("meter_start", meterStart),
	)
	return nil
}

// OnConnectorStatus promotes a Started session to Charging when its connector
// reports the Charging status. Called by the station registry from inside its
// own commit, so it must not take the engine guard itself.
func (s *Service) OnConnectorStatus(ctx context.Context, stationID uint64, connectorID int, status domain.ConnectorStatus) error {
	if status != domain.ConnectorStatusCharging {
		return nil
	}

	txs, err := s.repo.FindByStation(ctx, stationID)
	if err != nil {
		return err
	}

	for i := range txs {
		tx := &txs[i]
		if tx.ConnectorID != connectorID || tx.State != domain.TransactionStateStarted {
			continue
		}

		tx.State, err = nextState(tx.State, EventBeginCharging)
		if err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx); err != nil {
			return err
		}

		s.log.Info("Transaction promoted to charging",
			zap.Uint64("transaction_id", tx.ID),
			zap.Uint64("station_id", stationID),
			zap.Int("connector_id", connectorID),
		)
	}
	return nil
}

func (s *Service) MeterValues(ctx context.Context, url string, connectorID int, txID uint64, mv *domain.MeterValue) (*domain.MeterValue, error) {
	var stored domain.MeterValue
	err := s.guard.Commit(func() error {
		station, err := s.stations.FindByUrl(ctx, url)
		if err != nil {
			return err
		}

		tx, err := s.repo.FindByID(ctx, txID)
		if err != nil {
			return err
		}
		if tx.StationID != station.ID {
			return domain.ErrTransactionNotFound
		}
		if tx.ConnectorID != connectorID {
			return domain.ErrConnectorNotFound
		}
		if tx.State != domain.TransactionStateStarted && tx.State != domain.TransactionStateCharging {
			return domain.ErrInvalidState
		}

		mv.TransactionID = txID
		mv.ConnectorID = connectorID
		mv.ReceivedAt = time.Now()

		if err := s.repo.AppendMeterValue(ctx, mv); err != nil {
			return err
		}

		// Running consumption follows the absolute register reading.
		if delta := mv.EnergyActiveImportRegisterWh - tx.MeterStart; delta >= 0 {
			tx.TotalImportRegisterWh = delta
			if err := s.repo.Update(ctx, tx); err != nil {
				return err
			}
		}

		stored = *mv
		queue.EmitJSON(s.mq, s.log, domain.SubjectMeterValues, domain.MeterValuesEvent{
			EventMeta:  domain.NewEventMeta(),
			ClientUrl:  url,
			MeterValue: stored,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *Service) GetMeterValues(ctx context.Context, txID uint64) ([]domain.MeterValue, error) {
	return s.repo.MeterValues(ctx, txID)
}

// RemoteStopTransaction signals intent to stop; the session state only moves
// once the charge box confirms with StopTransaction.
func (s *Service) RemoteStopTransaction(ctx context.Context, url, idtag string) error {
	return s.guard.Commit(func() error {
		station, err := s.stations.FindByUrl(ctx, url)
		if err != nil {
			return err
		}

		openID, err := s.repo.OpenByIdtag(ctx, idtag)
		if err != nil {
			return err
		}
		if openID == 0 {
			return domain.ErrTransactionNotFound
		}

		tx, err := s.repo.FindByID(ctx, openID)
		if err != nil {
			return err
		}
		if tx.StationID != station.ID {
			return domain.ErrTransactionNotFound
		}

		queue.EmitJSON(s.mq, s.log, domain.SubjectRemoteStop, domain.RemoteStopEvent{
			EventMeta:     domain.NewEventMeta(),
			ClientUrl:     url,
			ConnectorID:   tx.ConnectorID,
			Idtag:         idtag,
			TransactionID: tx.ID,
		})
		return nil
	})
}

func (s *Service) StopTransaction(ctx context.Context, url string, txID uint64, timestamp, meterStop int64) error {
	var totalWh int64
	err := s.guard.Commit(func() error {
		station, err := s.stations.FindByUrl(ctx, url)
		if err != nil {
			return err
		}

		tx, err := s.repo.FindByID(ctx, txID)
		if err != nil {
			return err
		}
		if tx.StationID != station.ID {
			return domain.ErrTransactionNotFound
		}

		newState, err := nextState(tx.State, EventComplete)
		if err != nil {
			return err
		}

		if meterStop < tx.MeterStart {
			return domain.ErrInvalidMeterValue
		}
		totalWh = meterStop - tx.MeterStart
		durationSec := timestamp - tx.DateStart

		tariff, err := s.tariffs.GetTariff(ctx, tx.TariffID)
		if err != nil {
			return err
		}
		totalPrice, err := s.tariffs.ComputePrice(ctx, tx.TariffID, totalWh, durationSec, tx.DateStart)
		if err != nil {
			return err
		}

		invoiceID, err := s.repo.InsertInvoice(ctx, &domain.Invoice{
			TransactionID: tx.ID,
			StationID:     tx.StationID,
			ConnectorID:   tx.ConnectorID,
			Idtag:         tx.Idtag,
			TariffID:      tx.TariffID,
			ConsumptionWh: totalWh,
			DurationSec:   durationSec,
			DateStart:     tx.DateStart,
			DateStop:      timestamp,
			TotalPrice:    totalPrice,
			Currency:      tariff.Currency,
		})
		if err != nil {
			return err
		}

		tx.State = newState
		tx.MeterStop = meterStop
		tx.DateStop = timestamp
		tx.TotalImportRegisterWh = totalWh
		tx.TotalPrice = totalPrice
		tx.InvoiceID = invoiceID

		if err := s.repo.Update(ctx, tx); err != nil {
			return err
		}

		queue.EmitJSON(s.mq, s.log, domain.SubjectTransactionStopped, domain.TransactionStoppedEvent{
			EventMeta:     domain.NewEventMeta(),
			ClientUrl:     url,
			TransactionID: tx.ID,
			MeterStop:     meterStop,
			DateStop:      timestamp,
			TotalPrice:    totalPrice,
			InvoiceID:     invoiceID,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Transaction completed",
		zap.Uint64("transaction_id", txID),
		zap.Int64("total_import_wh", totalWh),
	)
	telemetry.OpenSessions.Dec()
	telemetry.EnergyDeliveredWh.Add(float64(totalWh))
	return nil
}

func (s *Service) GetTransaction(ctx context.Context, id uint64) (*domain.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) GetTransactionsCount(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) GetTransactionsLocal(ctx context.Context, stationID uint64) ([]domain.Transaction, error) {
	return s.repo.FindByStation(ctx, stationID)
}

func (s *Service) GetUserTransaction(ctx context.Context, idtag string) (uint64, error) {
	return s.repo.OpenByIdtag(ctx, idtag)
}

func (s *Service) GetInvoice(ctx context.Context, id uint64) (*domain.Invoice, error) {
	return s.repo.FindInvoice(ctx, id)
}

// perEnergyPrice extracts the per-energy component's unit price, the figure
// shown to drivers as "the price" of a connector.
func perEnergyPrice(t *domain.Tariff) int64 {
	for _, pc := range t.PriceComponents {
		if pc.Kind == domain.ComponentKindPerEnergy {
			return pc.Price
		}
	}
	return 0
}
