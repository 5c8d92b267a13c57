package inventory

import (
	"context"
	"errors"

	"github.com/dishfeed/merchant-backend/pkg/db/models"
	pkgerrors "github.com/dishfeed/merchant-backend/pkg/errors"
	"gorm.io/gorm"
)

// DefaultFallbackQuantity seeds inventory for products the transactional
// store has never tracked.
const DefaultFallbackQuantity = 100

// Repository mutates and reads per-product stock counts.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Reserve decrements stock by quantity when enough is available, as a single
// conditional UPDATE. It reports false when stock is insufficient and no
// fallback applies; that outcome is a result, not an error.
//
// When fallbackQuantity is non-nil and the product has no usable row, the row
// is seeded with the fallback (created if absent, backfilled if the stored
// quantity is NULL) and the decrement is retried once.
func (r *Repository) Reserve(ctx context.Context, productID string, quantity int, fallbackQuantity *int) (bool, error) {
	if productID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "reservation quantity must be positive")
	}

	reserved, err := r.decrement(ctx, productID, quantity)
	if err != nil {
		return false, err
	}
	if reserved || fallbackQuantity == nil {
		return reserved, nil
	}

	if err := r.seed(ctx, productID, *fallbackQuantity); err != nil {
		return false, err
	}

	return r.decrement(ctx, productID, quantity)
}

// decrement is the atomic conditional update. A NULL stored quantity never
// satisfies the predicate.
func (r *Repository) decrement(ctx context.Context, productID string, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("product_id = ? AND quantity >= ?", productID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserving stock")
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) seed(ctx context.Context, productID string, fallbackQuantity int) error {
	var existing models.Inventory
	err := r.db.WithContext(ctx).First(&existing, "product_id = ?", productID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		record := models.Inventory{ProductID: productID, Quantity: &fallbackQuantity}
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seeding inventory")
		}
		return nil
	case err != nil:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading inventory")
	case existing.Quantity == nil:
		res := r.db.WithContext(ctx).
			Model(&models.Inventory{}).
			Where("product_id = ? AND quantity IS NULL", productID).
			UpdateColumn("quantity", fallbackQuantity)
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "backfilling inventory")
		}
		return nil
	default:
		// Row exists with a concrete quantity; the retry will re-test it.
		return nil
	}
}

// Quantity returns the stored quantity, nil when uninitialized or absent.
func (r *Repository) Quantity(ctx context.Context, productID string) (*int, error) {
	var record models.Inventory
	err := r.db.WithContext(ctx).First(&record, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading inventory")
	}
	return record.Quantity, nil
}
