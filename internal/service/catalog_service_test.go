package service

import (
	"context"
	"testing"

	"voltkart/internal/repository"
)

func boolPtr(v bool) *bool { return &v }

func newCatalogService() CatalogService {
	store := repository.NewMemoryStore()
	return NewCatalogService(store.Categories(), store.Products(), store.Services())
}

func TestCreateProductAppliesStorefrontDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newCatalogService()

	product, err := svc.CreateProduct(ctx, ProductInput{
		Name:  "Premium Switch Plate",
		Slug:  "premium-switch-plate",
		SKU:   "PSP-001",
		Price: 145.00,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if product.Unit != DefaultUnit {
		t.Errorf("expected default unit %q, got %q", DefaultUnit, product.Unit)
	}
	if !product.IsActive {
		t.Error("product should default to active")
	}
}

func TestCreateProductKeepsExplicitValues(t *testing.T) {
	ctx := context.Background()
	svc := newCatalogService()

	product, err := svc.CreateProduct(ctx, ProductInput{
		Name:     "Copper Wire 2.5mm",
		Slug:     "copper-wire-2-5mm",
		SKU:      "CW-2.5-100",
		Price:    2850.00,
		Unit:     "roll",
		IsActive: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if product.Unit != "roll" {
		t.Errorf("explicit unit was replaced: got %q", product.Unit)
	}
	if product.IsActive {
		t.Error("explicit inactive flag was overridden")
	}
}

func TestCreateServiceDefaultsToActive(t *testing.T) {
	ctx := context.Background()
	svc := newCatalogService()

	created, err := svc.CreateService(ctx, ServiceInput{
		Name:     "Home Installation",
		Slug:     "home-installation",
		Price:    2999,
		Duration: "4-6 hours",
	})
	if err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}
	if !created.IsActive {
		t.Error("service should default to active")
	}

	inactive, err := svc.CreateService(ctx, ServiceInput{
		Name:     "Legacy Audit",
		Slug:     "legacy-audit",
		Price:    999,
		IsActive: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}
	if inactive.IsActive {
		t.Error("explicit inactive flag was overridden")
	}
}

func TestCatalogConflictsPassThrough(t *testing.T) {
	ctx := context.Background()
	svc := newCatalogService()

	if _, err := svc.CreateCategory(ctx, CategoryInput{Name: "Tools", Slug: "tools"}); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if _, err := svc.CreateCategory(ctx, CategoryInput{Name: "Tools Again", Slug: "tools"}); err != repository.ErrCategorySlugExists {
		t.Errorf("expected ErrCategorySlugExists, got %v", err)
	}

	if _, err := svc.CreateProduct(ctx, ProductInput{Name: "A", Slug: "a", SKU: "A-1", Price: 1}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if _, err := svc.CreateProduct(ctx, ProductInput{Name: "B", Slug: "a", SKU: "B-1", Price: 1}); err != repository.ErrProductSlugExists {
		t.Errorf("expected ErrProductSlugExists, got %v", err)
	}
	if _, err := svc.CreateProduct(ctx, ProductInput{Name: "B", Slug: "b", SKU: "A-1", Price: 1}); err != repository.ErrProductSKUExists {
		t.Errorf("expected ErrProductSKUExists, got %v", err)
	}
}

func TestDeleteReportsWhetherAnythingWasRemoved(t *testing.T) {
	ctx := context.Background()
	svc := newCatalogService()

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Tools", Slug: "tools"})
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	deleted, err := svc.DeleteCategory(ctx, category.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteCategory: deleted=%v err=%v", deleted, err)
	}

	deleted, err = svc.DeleteCategory(ctx, category.ID)
	if err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if deleted {
		t.Error("second delete should report false")
	}
}
