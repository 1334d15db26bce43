package pricing

import (
	"testing"

	"tokohape/backend/internal/domain"
)

func TestComputeEmptyCart(t *testing.T) {
	totals := Compute(nil, domain.PromoRates{Brand: map[string]float64{"apple": 20}})
	if totals.Subtotal != 0 || totals.DiscountAmount != 0 || totals.Total != 0 {
		t.Fatalf("expected all-zero totals for empty cart, got %+v", totals)
	}
	if len(totals.Lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(totals.Lines))
	}
}

func TestComputeWithoutRates(t *testing.T) {
	totals := Compute([]domain.CartLineItem{
		{ProductID: "p1", BrandID: "apple", Price: 1000, Quantity: 2},
	}, domain.PromoRates{})
	if totals.Subtotal != 2000 {
		t.Fatalf("expected subtotal 2000, got %d", totals.Subtotal)
	}
	if totals.DiscountAmount != 0 {
		t.Fatalf("expected zero discount, got %d", totals.DiscountAmount)
	}
	if totals.Total != 2000 {
		t.Fatalf("expected total 2000, got %d", totals.Total)
	}
	if totals.Lines[0].Price != 1000 {
		t.Fatalf("expected undiscounted line price, got %d", totals.Lines[0].Price)
	}
}

func TestComputeBrandBeatsPackage(t *testing.T) {
	rates := domain.PromoRates{
		Brand:   map[string]float64{"apple": 20},
		Package: map[string]float64{"p1": 50},
	}
	totals := Compute([]domain.CartLineItem{
		{ProductID: "p1", BrandID: "apple", Price: 1000, Quantity: 1},
	}, rates)

	if totals.Lines[0].DiscountPercent != 20 {
		t.Fatalf("expected brand discount 20 to win over package 50, got %v", totals.Lines[0].DiscountPercent)
	}
	if totals.Lines[0].Price != 800 {
		t.Fatalf("expected discounted price 800, got %d", totals.Lines[0].Price)
	}
}

func TestComputeSpecExample(t *testing.T) {
	// SAVE20: brand {apple, 20}, package {pkg1, 10}.
	rates := domain.PromoRates{
		Brand:   map[string]float64{"apple": 20},
		Package: map[string]float64{"pkg1": 10},
	}
	items := []domain.CartLineItem{
		{ProductID: "p1", BrandID: "apple", Price: 1000, Quantity: 1},
		{ProductID: "pkg1", PackageID: "pkg1", Price: 500, Quantity: 2},
	}

	totals := Compute(items, rates)
	if totals.Subtotal != 2000 {
		t.Fatalf("expected subtotal 2000, got %d", totals.Subtotal)
	}
	if totals.DiscountAmount != 300 {
		t.Fatalf("expected discount 300, got %d", totals.DiscountAmount)
	}
	if totals.Total != 1700 {
		t.Fatalf("expected total 1700, got %d", totals.Total)
	}
	if totals.Lines[0].Price != 800 {
		t.Fatalf("expected item1 discounted price 800, got %d", totals.Lines[0].Price)
	}
	if totals.Lines[1].Price != 450 {
		t.Fatalf("expected item2 discounted unit price 450, got %d", totals.Lines[1].Price)
	}
}

func TestComputeTotalIdentity(t *testing.T) {
	rates := domain.PromoRates{
		Brand:   map[string]float64{"apple": 12.5, "samsung": 7},
		Package: map[string]float64{"pkg1": 3.3},
	}
	items := []domain.CartLineItem{
		{ProductID: "p1", BrandID: "apple", Price: 999, Quantity: 3},
		{ProductID: "p2", BrandID: "samsung", Price: 1234, Quantity: 1},
		{ProductID: "pkg1", PackageID: "pkg1", Price: 777, Quantity: 2},
		{ProductID: "p3", BrandID: "nokia", Price: 100, Quantity: 5},
	}

	totals := Compute(items, rates)
	if totals.Total != totals.Subtotal-totals.DiscountAmount {
		t.Fatalf("total identity violated: %d != %d - %d", totals.Total, totals.Subtotal, totals.DiscountAmount)
	}
	if totals.Lines[3].DiscountPercent != 0 {
		t.Fatalf("expected unmatched item to carry zero discount")
	}
}

func TestComputeDefaultsQuantityToOne(t *testing.T) {
	totals := Compute([]domain.CartLineItem{
		{ProductID: "p1", Price: 500},
	}, domain.PromoRates{})
	if totals.Subtotal != 500 {
		t.Fatalf("expected quantity default 1, subtotal 500, got %d", totals.Subtotal)
	}
}

func TestItemPercentPackageByProductID(t *testing.T) {
	rates := domain.PromoRates{Package: map[string]float64{"pkg9": 15}}
	pct := ItemPercent(domain.CartLineItem{ProductID: "pkg9"}, rates)
	if pct != 15 {
		t.Fatalf("expected package match via product id, got %v", pct)
	}
}

func TestEligiblePercentPicksMaxBrand(t *testing.T) {
	rates := domain.PromoRates{
		Brand: map[string]float64{"brandA": 10, "brandB": 20},
	}
	items := []domain.CartLineItem{
		{ProductID: "p1", BrandID: "brandA", Price: 100, Quantity: 1},
		{ProductID: "p2", BrandID: "brandB", Price: 100, Quantity: 1},
	}
	pct, ok := EligiblePercent(items, rates)
	if !ok {
		t.Fatalf("expected eligibility")
	}
	if pct != 20 {
		t.Fatalf("expected cart-wide max 20, got %v", pct)
	}
}

func TestEligiblePercentBrandPathSuppressesPackagePath(t *testing.T) {
	// One item matches a brand row, another matches a higher package row.
	// The brand path matched, so the package path must not be consulted.
	rates := domain.PromoRates{
		Brand:   map[string]float64{"brandA": 5},
		Package: map[string]float64{"pkg1": 40},
	}
	items := []domain.CartLineItem{
		{ProductID: "p1", BrandID: "brandA", Price: 100, Quantity: 1},
		{ProductID: "pkg1", PackageID: "pkg1", Price: 100, Quantity: 1},
	}
	pct, ok := EligiblePercent(items, rates)
	if !ok || pct != 5 {
		t.Fatalf("expected brand-path result 5, got %v ok=%v", pct, ok)
	}
}

func TestEligiblePercentNoMatch(t *testing.T) {
	rates := domain.PromoRates{
		Brand:   map[string]float64{"brandX": 30},
		Package: map[string]float64{"pkgX": 30},
	}
	items := []domain.CartLineItem{
		{ProductID: "p1", BrandID: "brandA", Price: 100, Quantity: 1},
	}
	if _, ok := EligiblePercent(items, rates); ok {
		t.Fatalf("expected no eligibility for non-matching cart")
	}
}

func TestDiscountedUnitPriceRounds(t *testing.T) {
	// 999 - 12.5% = 874.125 -> 874
	if got := DiscountedUnitPrice(999, 12.5); got != 874 {
		t.Fatalf("expected 874, got %d", got)
	}
	if got := DiscountedUnitPrice(1000, 0); got != 1000 {
		t.Fatalf("expected unchanged price for zero percent, got %d", got)
	}
}
