package models

// PaymentInstrument is a tokenized payment method reference.
type PaymentInstrument struct {
	ID         string `gorm:"column:id;primaryKey"`
	Type       string `gorm:"column:type"`
	Brand      string `gorm:"column:brand"`
	LastDigits string `gorm:"column:last_digits"`
	Token      string `gorm:"column:token"`
	HandlerID  string `gorm:"column:handler_id"`
}

func (PaymentInstrument) TableName() string {
	return "payment_instruments"
}
