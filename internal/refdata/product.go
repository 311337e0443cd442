package refdata

import "errors"

// Product identifies a tracked fuel product.
type Product string

const (
	ProductAGO Product = "AGO"
	ProductPMS Product = "PMS"
	ProductDPK Product = "DPK"
	ProductLPG Product = "LPG"
	ProductICE Product = "ICE"
)

// ErrInvalidProduct is returned when a product code is unknown.
var ErrInvalidProduct = errors.New("refdata: invalid product")

// Products lists every tracked product in column order.
func Products() []Product {
	return []Product{ProductAGO, ProductPMS, ProductDPK, ProductLPG, ProductICE}
}

// ParseProduct validates a product code.
func ParseProduct(value string) (Product, error) {
	switch Product(value) {
	case ProductAGO, ProductPMS, ProductDPK, ProductLPG, ProductICE:
		return Product(value), nil
	default:
		return "", ErrInvalidProduct
	}
}

// IsValid reports whether the product is a known code.
func (p Product) IsValid() bool {
	_, err := ParseProduct(string(p))
	return err == nil
}
