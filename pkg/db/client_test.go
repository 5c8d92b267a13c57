package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex"`
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	path := fmt.Sprintf("file:client_%s?mode=memory&cache=shared", uuid.NewString())
	client, err := Open(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("open client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	if err := client.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return client
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestWithTxCommits(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{ID: 1, Name: "kept"}).Error
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	var got testModel
	if err := client.DB().First(&got, 1).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "kept" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{ID: 2, Name: "discarded"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int64
	if err := client.DB().Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback, found %d rows", count)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	client := newTestClient(t)

	if err := client.DB().Create(&testModel{ID: 3, Name: "dup"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	err := client.DB().Create(&testModel{ID: 4, Name: "dup"}).Error
	if err == nil {
		t.Fatal("expected unique violation")
	}
	if !IsUniqueViolation(err, "name") {
		t.Fatalf("expected unique violation detection, got %v", err)
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not report a violation")
	}
}
