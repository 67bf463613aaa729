package enums

import "fmt"

// ProductType is the top-level catalog category.
type ProductType string

const (
	ProductTypeFlower      ProductType = "FLOWER"
	ProductTypePreroll     ProductType = "PREROLL"
	ProductTypeConcentrate ProductType = "CONCENTRATE"
	ProductTypeEdible      ProductType = "EDIBLE"
	ProductTypeVape        ProductType = "VAPE"
	ProductTypeTincture    ProductType = "TINCTURE"
	ProductTypeAccessory   ProductType = "ACCESSORY"
)

var validProductTypes = []ProductType{
	ProductTypeFlower,
	ProductTypePreroll,
	ProductTypeConcentrate,
	ProductTypeEdible,
	ProductTypeVape,
	ProductTypeTincture,
	ProductTypeAccessory,
}

// String implements fmt.Stringer.
func (p ProductType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductType.
func (p ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductType converts raw input into a ProductType.
func ParseProductType(value string) (ProductType, error) {
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}
