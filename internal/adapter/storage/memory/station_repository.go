// Package memory holds the arena-style stores backing the core: primary
// tables keyed by sequential id plus their secondary indexes, updated
// together inside each mutating call so the two can never diverge. Records
// are never deleted, only transitioned.
package memory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/domain"
	"github.com/portalenergy/chargehub/internal/ports"
)

type StationRepository struct {
	mu       sync.RWMutex
	stations map[uint64]*domain.Station
	byUrl    map[string]uint64
	nextID   uint64
	log      *zap.Logger
}

func NewStationRepository(log *zap.Logger) ports.StationRepository {
	return &StationRepository{
		stations: make(map[uint64]*domain.Station),
		byUrl:    make(map[string]uint64),
		nextID:   1,
		log:      log,
	}
}

func (r *StationRepository) Insert(ctx context.Context, station *domain.Station) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUrl[station.ClientUrl]; ok {
		return 0, domain.ErrAlreadyExists
	}

	station.ID = r.nextID
	r.nextID++

	now := time.Now()
	station.CreatedAt = now
	station.UpdatedAt = now

	stored := cloneStation(station)
	r.stations[stored.ID] = stored
	r.byUrl[stored.ClientUrl] = stored.ID

	return stored.ID, nil
}

func (r *StationRepository) FindByID(ctx context.Context, id uint64) (*domain.Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	station, ok := r.stations[id]
	if !ok {
		return nil, domain.ErrStationNotFound
	}
	return cloneStation(station), nil
}

func (r *StationRepository) FindByUrl(ctx context.Context, url string) (*domain.Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUrl[url]
	if !ok {
		return nil, domain.ErrStationNotFound
	}
	return cloneStation(r.stations[id]), nil
}

func (r *StationRepository) FindAll(ctx context.Context) ([]domain.Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Station, 0, len(r.stations))
	for id := uint64(1); id < r.nextID; id++ {
		if station, ok := r.stations[id]; ok {
			out = append(out, *cloneStation(station))
		}
	}
	return out, nil
}

func (r *StationRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stations), nil
}

func (r *StationRepository) Update(ctx context.Context, station *domain.Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.stations[station.ID]
	if !ok {
		return domain.ErrStationNotFound
	}

	if current.ClientUrl != station.ClientUrl {
		if _, taken := r.byUrl[station.ClientUrl]; taken {
			return domain.ErrAlreadyExists
		}
		delete(r.byUrl, current.ClientUrl)
		r.byUrl[station.ClientUrl] = station.ID
	}

	station.UpdatedAt = time.Now()
	r.stations[station.ID] = cloneStation(station)
	return nil
}

func (r *StationRepository) ReindexClientUrls(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUrl = make(map[string]uint64, len(r.stations))
	for id, station := range r.stations {
		r.byUrl[station.ClientUrl] = id
	}

	r.log.Info("Rebuilt station url index", zap.Int("entries", len(r.byUrl)))
	return len(r.byUrl), nil
}

func cloneStation(s *domain.Station) *domain.Station {
	out := *s
	out.Connectors = make([]domain.Connector, len(s.Connectors))
	copy(out.Connectors, s.Connectors)
	return &out
}
