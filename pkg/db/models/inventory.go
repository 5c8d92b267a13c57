package models

// Inventory tracks sellable stock per product in the transactional store.
// A NULL quantity means the product was never inventory-initialized; the
// reservation path lazily seeds it.
type Inventory struct {
	ProductID string `gorm:"column:product_id;primaryKey"`
	Quantity  *int   `gorm:"column:quantity"`
}

func (Inventory) TableName() string {
	return "inventory"
}
