package catalog

import (
	"context"
	"errors"

	"github.com/dishfeed/merchant-backend/pkg/db/models"
	pkgerrors "github.com/dishfeed/merchant-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository reads the catalog store. All methods select columns explicitly
// because the inventory_quantity column is not guaranteed to exist.
type Repository struct {
	db   *gorm.DB
	caps Capabilities
}

func NewRepository(db *gorm.DB, caps Capabilities) *Repository {
	return &Repository{db: db, caps: caps}
}

var baseProductColumns = []string{"id", "title", "price", "image_url"}

// ListProducts returns every catalog product ordered by title.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	columns := baseProductColumns
	if r.caps.InventoryQuantity {
		columns = append(append([]string{}, baseProductColumns...), "inventory_quantity")
	}

	var products []models.Product
	err := r.db.WithContext(ctx).
		Select(columns).
		Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list products")
	}
	return products, nil
}

// FindProduct returns nil when the id is unknown.
func (r *Repository) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	columns := baseProductColumns
	if r.caps.InventoryQuantity {
		columns = append(append([]string{}, baseProductColumns...), "inventory_quantity")
	}

	var product models.Product
	err := r.db.WithContext(ctx).
		Select(columns).
		Where("id = ?", id).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to find product")
	}
	return &product, nil
}

// ListPromotions returns every catalog promotion.
func (r *Repository) ListPromotions(ctx context.Context) ([]models.Promotion, error) {
	var promotions []models.Promotion
	err := r.db.WithContext(ctx).Find(&promotions).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list promotions")
	}
	return promotions, nil
}

func catalogModels() []any {
	return []any{&models.Product{}, &models.Promotion{}}
}
