package memory

import (
	"context"
	"sync"

	"github.com/portalenergy/chargehub/internal/ports"
)

type partnerKey struct {
	owner    string
	identity string
}

type PartnerRepository struct {
	mu       sync.RWMutex
	partners map[partnerKey]struct{}
}

func NewPartnerRepository() ports.PartnerRepository {
	return &PartnerRepository{
		partners: make(map[partnerKey]struct{}),
	}
}

func (r *PartnerRepository) Add(ctx context.Context, owner, identity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partners[partnerKey{owner, identity}] = struct{}{}
	return nil
}

func (r *PartnerRepository) Delete(ctx context.Context, owner, identity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.partners, partnerKey{owner, identity})
	return nil
}

func (r *PartnerRepository) Exists(ctx context.Context, owner, identity string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.partners[partnerKey{owner, identity}]
	return ok, nil
}
