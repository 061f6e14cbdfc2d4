package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/portalenergy/chargehub/internal/domain"
)

func TestTransactionInsert_ClaimsIdtagIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(newTestLogger())

	id, err := repo.Insert(ctx, &domain.Transaction{Idtag: "TAG-A", State: domain.TransactionStateRequested})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	open, _ := repo.OpenByIdtag(ctx, "TAG-A")
	if open != id {
		t.Errorf("expected idtag bound to %d, got %d", id, open)
	}

	_, err = repo.Insert(ctx, &domain.Transaction{Idtag: "TAG-A", State: domain.TransactionStateRequested})
	if !errors.Is(err, domain.ErrAlreadyOpen) {
		t.Fatalf("expected ErrAlreadyOpen, got %v", err)
	}
}

func TestTransactionUpdate_TerminalStateReleasesIdtag(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(newTestLogger())

	id, err := repo.Insert(ctx, &domain.Transaction{Idtag: "TAG-A", State: domain.TransactionStateRequested})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	tx, _ := repo.FindByID(ctx, id)
	tx.State = domain.TransactionStateStarted
	if err := repo.Update(ctx, tx); err != nil {
		t.Fatalf("update to Started failed: %v", err)
	}
	if open, _ := repo.OpenByIdtag(ctx, "TAG-A"); open != id {
		t.Errorf("expected idtag still bound after Started, got %d", open)
	}

	tx.State = domain.TransactionStateCompleted
	if err := repo.Update(ctx, tx); err != nil {
		t.Fatalf("update to Completed failed: %v", err)
	}
	if open, _ := repo.OpenByIdtag(ctx, "TAG-A"); open != 0 {
		t.Errorf("expected idtag released after Completed, got %d", open)
	}
}

func TestMeterValues_KeptInArrivalOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(newTestLogger())

	id, err := repo.Insert(ctx, &domain.Transaction{Idtag: "TAG-A", State: domain.TransactionStateStarted})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	readings := []int64{100, 250, 400}
	for _, wh := range readings {
		if err := repo.AppendMeterValue(ctx, &domain.MeterValue{
			TransactionID:                id,
			EnergyActiveImportRegisterWh: wh,
		}); err != nil {
			t.Fatalf("append %d failed: %v", wh, err)
		}
	}

	stored, err := repo.MeterValues(ctx, id)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if len(stored) != len(readings) {
		t.Fatalf("expected %d readings, got %d", len(readings), len(stored))
	}
	for i, wh := range readings {
		if stored[i].EnergyActiveImportRegisterWh != wh {
			t.Errorf("position %d: expected %d, got %d", i, wh, stored[i].EnergyActiveImportRegisterWh)
		}
	}
}

func TestMeterValues_UnknownTransaction(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(newTestLogger())

	err := repo.AppendMeterValue(ctx, &domain.MeterValue{TransactionID: 42})
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound on append, got %v", err)
	}
	if _, err := repo.MeterValues(ctx, 42); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound on read, got %v", err)
	}
}

func TestFindAll_SequentialOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(newTestLogger())

	for _, tag := range []string{"TAG-A", "TAG-B", "TAG-C"} {
		if _, err := repo.Insert(ctx, &domain.Transaction{Idtag: tag, State: domain.TransactionStateRequested}); err != nil {
			t.Fatalf("insert %s failed: %v", tag, err)
		}
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all failed: %v", err)
	}
	for i, tx := range all {
		if tx.ID != uint64(i+1) {
			t.Errorf("expected id %d at position %d, got %d", i+1, i, tx.ID)
		}
	}
}
