package models

import "github.com/dishfeed/merchant-backend/pkg/types"

// Product is a catalog-store listing. Prices are cents. InventoryQuantity
// exists only in newer catalog files; read paths must check the catalog
// capability flag before selecting it.
type Product struct {
	ID                string  `gorm:"column:id;primaryKey"`
	Title             string  `gorm:"column:title"`
	Price             int     `gorm:"column:price"`
	ImageURL          *string `gorm:"column:image_url"`
	InventoryQuantity *int    `gorm:"column:inventory_quantity;-:migration"`
}

// TableName pins the table used by the catalog seeder.
func (Product) TableName() string {
	return "products"
}

// Promotion is a catalog-store promotion listing.
type Promotion struct {
	ID              string     `gorm:"column:id;primaryKey"`
	Type            string     `gorm:"column:type"`
	MinSubtotal     *int       `gorm:"column:min_subtotal"`
	EligibleItemIDs types.JSON `gorm:"column:eligible_item_ids"`
	Description     string     `gorm:"column:description"`
}

func (Promotion) TableName() string {
	return "promotions"
}
