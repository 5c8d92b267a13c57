package catalog

import (
	"context"

	pkgerrors "github.com/dishfeed/merchant-backend/pkg/errors"
	"gorm.io/gorm"
)

// Capabilities describes what the attached catalog file supports. Probed once
// at startup and treated as immutable for the process lifetime; older catalog
// files lack the inventory_quantity column.
type Capabilities struct {
	InventoryQuantity bool
}

type tableColumn struct {
	Name string `gorm:"column:name"`
}

// ProbeCapabilities inspects the products table schema of the attached
// catalog file.
func ProbeCapabilities(ctx context.Context, db *gorm.DB) (Capabilities, error) {
	var columns []tableColumn
	if err := db.WithContext(ctx).Raw("PRAGMA table_info(products)").Scan(&columns).Error; err != nil {
		return Capabilities{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to probe catalog schema")
	}

	caps := Capabilities{}
	for _, column := range columns {
		if column.Name == "inventory_quantity" {
			caps.InventoryQuantity = true
		}
	}
	return caps, nil
}

// EnsureSchema creates the catalog tables when they do not exist yet. It never
// alters existing tables, so catalog files written by older seeders keep their
// original column set.
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	migrator := db.WithContext(ctx).Migrator()
	for _, model := range catalogModels() {
		if migrator.HasTable(model) {
			continue
		}
		if err := migrator.CreateTable(model); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create catalog table")
		}
	}
	return nil
}
