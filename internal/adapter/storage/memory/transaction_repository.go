package memory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/domain"
	"github.com/portalenergy/chargehub/internal/ports"
)

type TransactionRepository struct {
	mu            sync.RWMutex
	transactions  map[uint64]*domain.Transaction
	openByIdtag   map[string]uint64
	meterValues   map[uint64][]domain.MeterValue
	invoices      map[uint64]*domain.Invoice
	nextID        uint64
	nextInvoiceID uint64
	log           *zap.Logger
}

func NewTransactionRepository(log *zap.Logger) ports.TransactionRepository {
	return &TransactionRepository{
		transactions:  make(map[uint64]*domain.Transaction),
		openByIdtag:   make(map[string]uint64),
		meterValues:   make(map[uint64][]domain.MeterValue),
		invoices:      make(map[uint64]*domain.Invoice),
		nextID:        1,
		nextInvoiceID: 1,
		log:           log,
	}
}

func (r *TransactionRepository) Insert(ctx context.Context, tx *domain.Transaction) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tx.State.Open() {
		if _, open := r.openByIdtag[tx.Idtag]; open {
			return 0, domain.ErrAlreadyOpen
		}
	}

	tx.ID = r.nextID
	r.nextID++

	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	stored := *tx
	r.transactions[stored.ID] = &stored
	if stored.State.Open() {
		r.openByIdtag[stored.Idtag] = stored.ID
	}

	return stored.ID, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id uint64) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	out := *tx
	return &out, nil
}

func (r *TransactionRepository) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Transaction, 0, len(r.transactions))
	for id := uint64(1); id < r.nextID; id++ {
		if tx, ok := r.transactions[id]; ok {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *TransactionRepository) FindByStation(ctx context.Context, stationID uint64) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Transaction
	for id := uint64(1); id < r.nextID; id++ {
		if tx, ok := r.transactions[id]; ok && tx.StationID == stationID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *TransactionRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.transactions), nil
}

func (r *TransactionRepository) OpenByIdtag(ctx context.Context, idtag string) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.openByIdtag[idtag], nil
}

func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.transactions[tx.ID]
	if !ok {
		return domain.ErrTransactionNotFound
	}

	// The idtag index entry is released in the same call that commits the
	// transition into a terminal state.
	if current.State.Open() && tx.State.Terminal() {
		if r.openByIdtag[current.Idtag] == current.ID {
			delete(r.openByIdtag, current.Idtag)
		}
	}

	tx.UpdatedAt = time.Now()
	stored := *tx
	r.transactions[stored.ID] = &stored
	return nil
}

func (r *TransactionRepository) AppendMeterValue(ctx context.Context, mv *domain.MeterValue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.transactions[mv.TransactionID]; !ok {
		return domain.ErrTransactionNotFound
	}
	r.meterValues[mv.TransactionID] = append(r.meterValues[mv.TransactionID], *mv)
	return nil
}

func (r *TransactionRepository) MeterValues(ctx context.Context, txID uint64) ([]domain.MeterValue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.transactions[txID]; !ok {
		return nil, domain.ErrTransactionNotFound
	}
	stored := r.meterValues[txID]
	out := make([]domain.MeterValue, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *TransactionRepository) InsertInvoice(ctx context.Context, inv *domain.Invoice) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv.ID = r.nextInvoiceID
	r.nextInvoiceID++
	inv.CreatedAt = time.Now()

	stored := *inv
	r.invoices[stored.ID] = &stored
	return stored.ID, nil
}

func (r *TransactionRepository) FindInvoice(ctx context.Context, id uint64) (*domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.invoices[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	out := *inv
	return &out, nil
}
