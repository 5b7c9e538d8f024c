package model

import "github.com/shopspring/decimal"

func init() {
	// The API speaks JSON numbers for prices and totals.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog entry. Products are immutable once loaded.
type Product struct {
	ID          string              `json:"id"`
	Image       string              `json:"image"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Price       decimal.NullDecimal `json:"price"`
}

// ForSale reports whether the product has a price.
func (p Product) ForSale() bool {
	return p.Price.Valid
}

// PriceOrZero returns the price, or zero for products that are not for sale.
func (p Product) PriceOrZero() decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}

// Price builds a valid NullDecimal from an integer amount.
func Price(amount int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(amount))
}

// NoPrice is the price of a product that is not for sale.
var NoPrice = decimal.NullDecimal{}

// ProductList is the response body of GET /product.
type ProductList struct {
	Total int       `json:"total"`
	Items []Product `json:"items"`
}

// FindProduct returns the product with the given id.
func FindProduct(items []Product, id string) (Product, bool) {
	for _, p := range items {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// IDs returns the ids of items in order.
func IDs(items []Product) []string {
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	return ids
}
