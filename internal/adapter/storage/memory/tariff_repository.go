package memory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/domain"
	"github.com/portalenergy/chargehub/internal/ports"
)

type TariffRepository struct {
	mu      sync.RWMutex
	tariffs map[uint64]*domain.Tariff
	nextID  uint64
	log     *zap.Logger
}

func NewTariffRepository(log *zap.Logger) ports.TariffRepository {
	return &TariffRepository{
		tariffs: make(map[uint64]*domain.Tariff),
		nextID:  1,
		log:     log,
	}
}

func (r *TariffRepository) Insert(ctx context.Context, tariff *domain.Tariff) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tariff.ID = r.nextID
	r.nextID++
	tariff.CreatedAt = time.Now()

	stored := cloneTariff(tariff)
	r.tariffs[stored.ID] = stored
	return stored.ID, nil
}

func (r *TariffRepository) FindByID(ctx context.Context, id uint64) (*domain.Tariff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tariff, ok := r.tariffs[id]
	if !ok {
		return nil, domain.ErrTariffNotFound
	}
	return cloneTariff(tariff), nil
}

func cloneTariff(t *domain.Tariff) *domain.Tariff {
	out := *t
	out.PriceComponents = make([]domain.PriceComponent, len(t.PriceComponents))
	copy(out.PriceComponents, t.PriceComponents)
	return &out
}
