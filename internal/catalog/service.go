package catalog

import (
	_ "embed"
	"encoding/json"
	"sort"
	"strings"

	"github.com/barbarycoast/storefront-backend/pkg/enums"
	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

//go:embed data/products.json
var productsFixture []byte

// Product is one catalog entry. The catalog is read-only; callers receive
// copies and never mutate it.
type Product struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	ProductBrand   string          `json:"product_brand"`
	ProductType    string          `json:"product_type"`
	Classification *string         `json:"classification,omitempty"`
	Potency        *string         `json:"potency,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Weight         *string         `json:"weight,omitempty"`
	ImageURL       string          `json:"image_url,omitempty"`
	Description    string          `json:"description,omitempty"`
}

type fixtureFile struct {
	Data struct {
		Stock []Product `json:"stock"`
	} `json:"data"`
}

// Service exposes read-only catalog lookups and listings.
type Service interface {
	Get(productID string) (*Product, error)
	List(filters ListFilters) []Product
	Brands() []string
	Price(productID string) (decimal.Decimal, bool)
}

type service struct {
	products []Product
	byID     map[string]int
}

// NewService loads the bundled product fixture.
func NewService() (Service, error) {
	return NewServiceFromJSON(productsFixture)
}

// NewServiceFromJSON builds a catalog from raw fixture bytes.
func NewServiceFromJSON(raw []byte) (Service, error) {
	var file fixtureFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse product fixture")
	}

	byID := make(map[string]int, len(file.Data.Stock))
	for i, product := range file.Data.Stock {
		if strings.TrimSpace(product.ProductID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "product fixture entry missing product_id")
		}
		byID[product.ProductID] = i
	}

	return &service{products: file.Data.Stock, byID: byID}, nil
}

// ListFilters narrows and orders the product listing.
type ListFilters struct {
	Types           []enums.ProductType
	Classifications []string
	Brand           string
	Query           string
	MaxPrice        *decimal.Decimal
	Sort            string // "price_asc", "price_desc" or "" (fixture order)
}

func (s *service) Get(productID string) (*Product, error) {
	idx, ok := s.byID[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	product := s.products[idx]
	return &product, nil
}

func (s *service) Price(productID string) (decimal.Decimal, bool) {
	idx, ok := s.byID[productID]
	if !ok {
		return decimal.Zero, false
	}
	return s.products[idx].Price, true
}

func (s *service) List(filters ListFilters) []Product {
	out := make([]Product, 0, len(s.products))
	for _, product := range s.products {
		if !matchesFilters(product, filters) {
			continue
		}
		out = append(out, product)
	}

	switch filters.Sort {
	case "price_asc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case "price_desc":
		sort.SliceStable(out, func(i, j int) bool { return out[j].Price.LessThan(out[i].Price) })
	}
	return out
}

func (s *service) Brands() []string {
	seen := map[string]struct{}{}
	brands := make([]string, 0)
	for _, product := range s.products {
		if _, ok := seen[product.ProductBrand]; ok {
			continue
		}
		seen[product.ProductBrand] = struct{}{}
		brands = append(brands, product.ProductBrand)
	}
	sort.Strings(brands)
	return brands
}

func matchesFilters(product Product, filters ListFilters) bool {
	if len(filters.Types) > 0 && !containsType(filters.Types, product.ProductType) {
		return false
	}
	if len(filters.Classifications) > 0 {
		if product.Classification == nil {
			return false
		}
		if !containsFold(filters.Classifications, *product.Classification) {
			return false
		}
	}
	if filters.Brand != "" && !strings.EqualFold(filters.Brand, product.ProductBrand) {
		return false
	}
	if filters.MaxPrice != nil && product.Price.GreaterThan(*filters.MaxPrice) {
		return false
	}
	if filters.Query != "" {
		query := strings.ToLower(filters.Query)
		name := strings.ToLower(product.ProductName)
		brand := strings.ToLower(product.ProductBrand)
		if !strings.Contains(name, query) && !strings.Contains(brand, query) {
			return false
		}
	}
	return true
}

func containsType(types []enums.ProductType, value string) bool {
	for _, t := range types {
		if strings.EqualFold(string(t), value) {
			return true
		}
	}
	return false
}

func containsFold(values []string, value string) bool {
	for _, v := range values {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
