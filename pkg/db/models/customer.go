package models

// Customer is a buyer identified by email.
type Customer struct {
	ID    string `gorm:"column:id;primaryKey"`
	Name  string `gorm:"column:name"`
	Email string `gorm:"column:email;index"`

	Addresses []CustomerAddress `gorm:"foreignKey:CustomerID"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerAddress is a saved shipping address.
type CustomerAddress struct {
	ID            string `gorm:"column:id;primaryKey"`
	CustomerID    string `gorm:"column:customer_id"`
	StreetAddress string `gorm:"column:street_address"`
	City          string `gorm:"column:city"`
	State         string `gorm:"column:state"`
	PostalCode    string `gorm:"column:postal_code"`
	Country       string `gorm:"column:country"`
}

func (CustomerAddress) TableName() string {
	return "customer_addresses"
}
