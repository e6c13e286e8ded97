package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
type Product struct {
	ID          int             `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"size:100;not null" validate:"required,notblank,min=2,max=100"`
	Description string          `json:"description" gorm:"size:500;not null" validate:"required,notblank,min=10,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null" validate:"required,gte=0.01,lte=999999.99"`
	Quantity    int             `json:"quantity" gorm:"not null;default:0" validate:"gte=0"`
}

// TableName returns the table name for Product model.
func (Product) TableName() string {
	return "products"
}

// MarshalJSON writes the price as a JSON number rather than the quoted
// string decimal.Decimal produces by default.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Price json.Number `json:"price"`
	}{
		product: product(p),
		Price:   json.Number(p.Price.String()),
	})
}
