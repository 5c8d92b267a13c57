package models

import "github.com/dishfeed/merchant-backend/pkg/types"

// CheckoutSession stores the full checkout document as opaque JSON alongside
// its lifecycle status.
type CheckoutSession struct {
	ID     string     `gorm:"column:id;primaryKey"`
	Status string     `gorm:"column:status"`
	Data   types.JSON `gorm:"column:data"`
}

func (CheckoutSession) TableName() string {
	return "checkouts"
}

// Order stores a completed order document as opaque JSON.
type Order struct {
	ID   string     `gorm:"column:id;primaryKey"`
	Data types.JSON `gorm:"column:data"`
}

func (Order) TableName() string {
	return "orders"
}
