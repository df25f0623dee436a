package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/texfolio/stockroom/internal/models"
	"github.com/texfolio/stockroom/internal/repo"
)

func seedRepo(t *testing.T) *repo.InMemoryProductRepository {
	t.Helper()
	products := repo.NewInMemoryProductRepository()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seed := []models.Product{
		{Name: "Blue Cushion Cover", SKU: "BCC-000001", Category: models.CategoryCushionCovers, Quantity: 20, Price: 25, UpdatedAt: base.Add(2 * time.Hour), CreatedAt: base},
		{Name: "Red Cushion Cover", SKU: "RCC-000002", Category: models.CategoryCushionCovers, Quantity: 15, Price: 22, UpdatedAt: base.Add(time.Hour), CreatedAt: base},
		{Name: "Silk Saree", SKU: "SS-000003", Category: models.CategorySarees, Quantity: 5, Price: 120, UpdatedAt: base, CreatedAt: base},
	}
	for _, p := range seed {
		if _, err := products.Create(context.Background(), p); err != nil {
			t.Fatalf("seeding products: %v", err)
		}
	}
	return products
}

func TestResolveByID(t *testing.T) {
	r := New(seedRepo(t))

	p, err := r.Resolve(context.Background(), "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Silk Saree" {
		t.Errorf("expected Silk Saree, got %q", p.Name)
	}
}

func TestResolveBySKUCaseInsensitive(t *testing.T) {
	r := New(seedRepo(t))

	p, err := r.Resolve(context.Background(), "bcc-000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Blue Cushion Cover" {
		t.Errorf("expected Blue Cushion Cover, got %q", p.Name)
	}
}

func TestResolveByPartialName(t *testing.T) {
	r := New(seedRepo(t))

	p, err := r.Resolve(context.Background(), "saree")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.SKU != "SS-000003" {
		t.Errorf("expected SS-000003, got %q", p.SKU)
	}
}

func TestResolveAmbiguous(t *testing.T) {
	r := New(seedRepo(t))

	_, err := r.Resolve(context.Background(), "cushion cover")
	var ambiguous *AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousError, got %v", err)
	}
	if len(ambiguous.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %v", ambiguous.Suggestions)
	}
	// Most recently updated match comes first.
	if ambiguous.Suggestions[0] != "Blue Cushion Cover (BCC-000001)" {
		t.Errorf("unexpected first suggestion %q", ambiguous.Suggestions[0])
	}
}

func TestResolveMissWithLoosenedSuggestions(t *testing.T) {
	r := New(seedRepo(t))

	_, err := r.Resolve(context.Background(), "silk sari")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(notFound.Suggestions) != 1 || notFound.Suggestions[0] != "Silk Saree (SS-000003)" {
		t.Errorf("expected loosened suggestion for Silk Saree, got %v", notFound.Suggestions)
	}
}

func TestResolveMissNoSuggestions(t *testing.T) {
	r := New(seedRepo(t))

	_, err := r.Resolve(context.Background(), "bedsheet")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(notFound.Suggestions) != 0 {
		t.Errorf("expected no suggestions, got %v", notFound.Suggestions)
	}
}

func TestResolveNumericNameFragment(t *testing.T) {
	products := repo.NewInMemoryProductRepository()
	if _, err := products.Create(context.Background(), models.Product{
		Name: "200 Thread Bed Cover", SKU: "TBC-000001", Category: models.CategoryBedCovers,
	}); err != nil {
		t.Fatal(err)
	}
	r := New(products)

	// "200" is not a product id; it should still match by name.
	p, err := r.Resolve(context.Background(), "200")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.SKU != "TBC-000001" {
		t.Errorf("expected TBC-000001, got %q", p.SKU)
	}
}
