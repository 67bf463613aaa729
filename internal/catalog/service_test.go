package catalog

import (
	"testing"

	"github.com/barbarycoast/storefront-backend/pkg/enums"
	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func newTestCatalog(t *testing.T) Service {
	t.Helper()
	svc, err := NewService()
	if err != nil {
		t.Fatalf("load catalog fixture: %v", err)
	}
	return svc
}

func TestGetReturnsCopy(t *testing.T) {
	svc := newTestCatalog(t)

	product, err := svc.Get("83e1a132-ed63-40da-951a-cdb4183acc86")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.ProductName != "BLUE DREAM" {
		t.Fatalf("unexpected product %q", product.ProductName)
	}

	product.ProductName = "MUTATED"
	again, err := svc.Get("83e1a132-ed63-40da-951a-cdb4183acc86")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ProductName != "BLUE DREAM" {
		t.Fatal("catalog entry mutated through returned pointer")
	}
}

func TestGetUnknownProduct(t *testing.T) {
	svc := newTestCatalog(t)

	_, err := svc.Get("no-such-product")
	if err == nil {
		t.Fatal("expected error for unknown product")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestPriceLookup(t *testing.T) {
	svc := newTestCatalog(t)

	price, ok := svc.Price("94f2b243-fe74-51eb-a62b-fde5294bdd97")
	if !ok {
		t.Fatal("expected price hit")
	}
	if !price.Equal(decimal.NewFromFloat(15.0)) {
		t.Fatalf("unexpected price %s", price)
	}

	if _, ok := svc.Price("missing"); ok {
		t.Fatal("expected price miss for unknown product")
	}
}

func TestListFiltersByTypeAndPrice(t *testing.T) {
	svc := newTestCatalog(t)

	maxPrice := decimal.NewFromFloat(20.0)
	flower := svc.List(ListFilters{
		Types:    []enums.ProductType{enums.ProductTypeFlower},
		MaxPrice: &maxPrice,
	})
	if len(flower) != 2 {
		t.Fatalf("expected 2 flower products under $20, got %d", len(flower))
	}
	for _, product := range flower {
		if product.ProductType != "FLOWER" {
			t.Fatalf("type filter leaked %q", product.ProductType)
		}
		if product.Price.GreaterThan(maxPrice) {
			t.Fatalf("price filter leaked %s", product.Price)
		}
	}
}

func TestListQueryMatchesNameOrBrand(t *testing.T) {
	svc := newTestCatalog(t)

	byName := svc.List(ListFilters{Query: "gelato"})
	if len(byName) != 1 || byName[0].ProductBrand != "CONNECTED" {
		t.Fatalf("query by name failed: %+v", byName)
	}

	byBrand := svc.List(ListFilters{Query: "raw garden"})
	if len(byBrand) != 1 || byBrand[0].ProductName != "WEDDING CAKE LIVE RESIN" {
		t.Fatalf("query by brand failed: %+v", byBrand)
	}
}

func TestListSortsByPrice(t *testing.T) {
	svc := newTestCatalog(t)

	products := svc.List(ListFilters{Sort: "price_asc"})
	for i := 1; i < len(products); i++ {
		if products[i].Price.LessThan(products[i-1].Price) {
			t.Fatalf("price_asc out of order at index %d", i)
		}
	}
}

func TestBrandsDeduplicatedAndSorted(t *testing.T) {
	svc := newTestCatalog(t)

	brands := svc.Brands()
	if len(brands) != 8 {
		t.Fatalf("expected 8 distinct brands, got %d", len(brands))
	}
	for i := 1; i < len(brands); i++ {
		if brands[i] < brands[i-1] {
			t.Fatalf("brands not sorted at index %d", i)
		}
	}
}

func TestFixtureRejectsMissingID(t *testing.T) {
	_, err := NewServiceFromJSON([]byte(`{"data":{"stock":[{"product_name":"X","price":1}]}}`))
	if err == nil {
		t.Fatal("expected error for fixture entry without product_id")
	}
}
