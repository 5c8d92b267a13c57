package inventory

import (
	"context"
	"testing"

	"github.com/dishfeed/merchant-backend/pkg/db/models"
	pkgerrors "github.com/dishfeed/merchant-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Inventory{}); err != nil {
		t.Fatalf("migrate inventory: %v", err)
	}
	return db
}

func intPtr(v int) *int { return &v }

func seedQuantity(t *testing.T, db *gorm.DB, productID string, qty *int) {
	t.Helper()
	if err := db.Create(&models.Inventory{ProductID: productID, Quantity: qty}).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
}

func TestReserveDecrementsWhenStockSuffices(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	seedQuantity(t, db, "pasta", intPtr(10))

	ok, err := repo.Reserve(ctx, "pasta", 3, nil)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if !ok {
		t.Fatal("expected reservation to succeed")
	}

	qty, err := repo.Quantity(ctx, "pasta")
	if err != nil {
		t.Fatalf("quantity: %v", err)
	}
	if qty == nil || *qty != 7 {
		t.Fatalf("expected quantity 7, got %v", qty)
	}
}

func TestReserveFailsPlainlyWhenInsufficient(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	seedQuantity(t, db, "salmon", intPtr(2))

	ok, err := repo.Reserve(ctx, "salmon", 3, nil)
	if err != nil {
		t.Fatalf("insufficient stock must not surface as error: %v", err)
	}
	if ok {
		t.Fatal("expected reservation to fail")
	}

	qty, _ := repo.Quantity(ctx, "salmon")
	if qty == nil || *qty != 2 {
		t.Fatalf("stock must be untouched on failure, got %v", qty)
	}
}

func TestReserveNeverOversellsAcrossRepeatedAttempts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	seedQuantity(t, db, "eggs", intPtr(10))

	successes := 0
	for i := 0; i < 8; i++ {
		ok, err := repo.Reserve(ctx, "eggs", 3, nil)
		if err != nil {
			t.Fatalf("reserve attempt %d: %v", i, err)
		}
		if ok {
			successes++
		}
	}

	// floor(10/3) attempts can succeed, leaving 10 - 3*3 = 1.
	if successes != 3 {
		t.Fatalf("expected 3 successes, got %d", successes)
	}
	qty, _ := repo.Quantity(ctx, "eggs")
	if qty == nil || *qty != 1 {
		t.Fatalf("expected remaining quantity 1, got %v", qty)
	}
}

func TestReserveSeedsMissingRowFromFallback(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ok, err := repo.Reserve(ctx, "quinoa", 30, intPtr(100))
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if !ok {
		t.Fatal("expected fallback-seeded reservation to succeed")
	}

	qty, _ := repo.Quantity(ctx, "quinoa")
	if qty == nil || *qty != 70 {
		t.Fatalf("expected quantity 70, got %v", qty)
	}
}

func TestReserveBackfillsNullQuantityFromFallback(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	seedQuantity(t, db, "flour", nil)

	ok, err := repo.Reserve(ctx, "flour", 4, intPtr(20))
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if !ok {
		t.Fatal("expected backfilled reservation to succeed")
	}

	qty, _ := repo.Quantity(ctx, "flour")
	if qty == nil || *qty != 16 {
		t.Fatalf("expected quantity 16, got %v", qty)
	}
}

func TestReserveFallbackDoesNotTopUpExistingStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	seedQuantity(t, db, "butter", intPtr(1))

	// Fallback only applies to missing or NULL rows; a concrete 1 stays 1.
	ok, err := repo.Reserve(ctx, "butter", 5, intPtr(100))
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if ok {
		t.Fatal("expected reservation to fail against concrete stock of 1")
	}

	qty, _ := repo.Quantity(ctx, "butter")
	if qty == nil || *qty != 1 {
		t.Fatalf("expected quantity to remain 1, got %v", qty)
	}
}

func TestReserveRejectsInvalidQuantity(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Reserve(ctx, "milk", 0, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReserveInsideTransactionRollsBackWithIt(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	seedQuantity(t, db, "rice", intPtr(9))

	err := db.Transaction(func(tx *gorm.DB) error {
		ok, err := NewRepository(db).WithTx(tx).Reserve(ctx, "rice", 5, nil)
		if err != nil {
			return err
		}
		if !ok {
			t.Fatal("expected in-tx reservation to succeed")
		}
		return gorm.ErrInvalidTransaction
	})
	if err == nil {
		t.Fatal("expected transaction to roll back")
	}

	qty, _ := NewRepository(db).Quantity(ctx, "rice")
	if qty == nil || *qty != 9 {
		t.Fatalf("expected rollback to restore 9, got %v", qty)
	}
}
