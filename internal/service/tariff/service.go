// Package tariff owns versioned tariff definitions and prices session
// profiles against them.
package tariff

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/adapter/queue"
	"github.com/portalenergy/chargehub/internal/domain"
	"github.com/portalenergy/chargehub/internal/ports"
)

type Service struct {
	repo ports.TariffRepository
	mq   queue.MessageQueue
	log  *zap.Logger
}

func NewService(repo ports.TariffRepository, mq queue.MessageQueue, log *zap.Logger) ports.TariffService {
	return &Service{
		repo: repo,
		mq:   mq,
		log:  log,
	}
}

func (s *Service) AddTariff(ctx context.Context, tariff *domain.Tariff) (uint64, error) {
	if len(tariff.PriceComponents) != domain.TariffComponentCount {
		return 0, fmt.Errorf("%w: expected %d price components, got %d",
			domain.ErrInvalidTariff, domain.TariffComponentCount, len(tariff.PriceComponents))
	}

	id, err := s.repo.Insert(ctx, tariff)
	if err != nil {
		return 0, err
	}

	s.log.Info("Tariff added",
		zap.Uint64("tariff_id", id),
		zap.String("owner", tariff.Owner),
	)

	queue.EmitJSON(s.mq, s.log, domain.SubjectTariffAdded, domain.TariffAddedEvent{
		EventMeta: domain.NewEventMeta(),
		TariffID:  id,
		Owner:     tariff.Owner,
	})

	return id, nil
}

func (s *Service) GetTariff(ctx context.Context, id uint64) (*domain.Tariff, error) {
	return s.repo.FindByID(ctx, id)
}

// ComputePrice prices a session profile against a tariff. Beyond the tariff
// lookup it is a pure function of its arguments.
func (s *Service) ComputePrice(ctx context.Context, tariffID uint64, consumptionWh, durationSec, startTs int64) (int64, error) {
	t, err := s.repo.FindByID(ctx, tariffID)
	if err != nil {
		return 0, err
	}
	return Price(t, consumptionWh, durationSec, startTs), nil
}
