package models

import "github.com/dishfeed/merchant-backend/pkg/enums"

// Discount is a redeemable code. Value is a percentage for percentage-type
// discounts and cents for fixed-amount ones.
type Discount struct {
	Code        string             `gorm:"column:code;primaryKey"`
	Type        enums.DiscountType `gorm:"column:type"`
	Value       int                `gorm:"column:value"`
	Description string             `gorm:"column:description"`
}

func (Discount) TableName() string {
	return "discounts"
}

// ShippingRate is a per-country shipping option. CountryCode "default"
// applies everywhere.
type ShippingRate struct {
	ID           string `gorm:"column:id;primaryKey"`
	CountryCode  string `gorm:"column:country_code"`
	ServiceLevel string `gorm:"column:service_level"`
	Price        int    `gorm:"column:price"`
	Title        string `gorm:"column:title"`
}

func (ShippingRate) TableName() string {
	return "shipping_rates"
}
