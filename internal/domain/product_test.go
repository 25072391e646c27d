package domain

import "testing"

func validProduct() Product {
	return Product{
		ID:         "prod-1",
		Name:       "Shirt",
		PriceMinor: 1000,
		Stock:      5,
		Images:     []string{"https://img.example.com/1"},
	}
}

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Product)
		wantErr error
	}{
		{"valid product", func(p *Product) {}, nil},
		{"missing name", func(p *Product) { p.Name = "" }, ErrProductNameRequired},
		{"negative price", func(p *Product) { p.PriceMinor = -1 }, ErrProductPriceInvalid},
		{"compare price below price", func(p *Product) { p.ComparePriceMinor = 500 }, ErrComparePriceInvalid},
		{"compare price equal to price", func(p *Product) { p.ComparePriceMinor = 1000 }, ErrComparePriceInvalid},
		{"negative stock", func(p *Product) { p.Stock = -1 }, ErrProductStockInvalid},
		{"no images", func(p *Product) { p.Images = nil }, ErrProductImagesInvalid},
		{"too many images", func(p *Product) {
			p.Images = []string{"1", "2", "3", "4", "5", "6", "7"}
		}, ErrProductImagesInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			product := validProduct()
			tc.mutate(&product)

			errs := product.Validate()
			if tc.wantErr == nil {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			if !containsErr(errs, tc.wantErr) {
				t.Fatalf("expected %v in %v", tc.wantErr, errs)
			}
		})
	}
}

func TestProduct_HasSize(t *testing.T) {
	sized := Product{Sizes: []string{"M", "L"}}
	if !sized.HasSize("M") {
		t.Fatal("expected size M available")
	}
	if sized.HasSize("XXL") {
		t.Fatal("expected size XXL unavailable")
	}
	if sized.HasSize("") {
		t.Fatal("empty size must be rejected for sized product")
	}

	// Товар без размеров допускает только пустой выбор.
	plain := Product{}
	if !plain.HasSize("") {
		t.Fatal("empty size must be accepted for sizeless product")
	}
	if plain.HasSize("M") {
		t.Fatal("any size must be rejected for sizeless product")
	}
}

func TestCategory_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cat     Category
		wantErr error
	}{
		{"valid", Category{Name: "Shoes", Slug: "shoes"}, nil},
		{"valid with dashes", Category{Name: "New Arrivals", Slug: "new-arrivals-2026"}, nil},
		{"missing name", Category{Slug: "shoes"}, ErrCategoryNameRequired},
		{"missing slug", Category{Name: "Shoes"}, ErrCategorySlugRequired},
		{"uppercase slug", Category{Name: "Shoes", Slug: "Shoes"}, ErrCategorySlugInvalid},
		{"spaces in slug", Category{Name: "Shoes", Slug: "new arrivals"}, ErrCategorySlugInvalid},
		{"trailing dash", Category{Name: "Shoes", Slug: "shoes-"}, ErrCategorySlugInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.cat.Validate()
			if tc.wantErr == nil {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			if !containsErr(errs, tc.wantErr) {
				t.Fatalf("expected %v in %v", tc.wantErr, errs)
			}
		})
	}
}
