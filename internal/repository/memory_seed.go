package repository

import (
	"context"
	"fmt"

	"voltkart/internal/domain"
)

// Seed loads the demo catalog into an empty store: four categories, one
// flagship product per category and three bookable services. Intended for
// the memory backend; the postgres backend seeds through migrations instead.
func (s *MemoryStore) Seed(ctx context.Context) error {
	categories := []domain.Category{
		{
			Name:        "Switches & Outlets",
			Slug:        "switches-outlets",
			Description: "Premium quality switches and outlets",
			ImageURL:    "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=300&h=200&fit=crop",
		},
		{
			Name:        "Wires & Cables",
			Slug:        "wires-cables",
			Description: "High-grade electrical wiring solutions",
			ImageURL:    "https://images.unsplash.com/photo-1621905252472-e545f915d3c9?w=300&h=200&fit=crop",
		},
		{
			Name:        "Tools & Equipment",
			Slug:        "tools-equipment",
			Description: "Professional electrical tools",
			ImageURL:    "https://images.unsplash.com/photo-1609592160928-dd36fb014c37?w=300&h=200&fit=crop",
		},
		{
			Name:        "Lighting & Fixtures",
			Slug:        "lighting-fixtures",
			Description: "Modern LED and lighting solutions",
			ImageURL:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=300&h=200&fit=crop",
		},
	}

	categoryIDs := make([]int64, 0, len(categories))
	categoryRepo := s.Categories()
	for i := range categories {
		if err := categoryRepo.Create(ctx, &categories[i]); err != nil {
			return fmt.Errorf("seeding category %q: %w", categories[i].Slug, err)
		}
		categoryIDs = append(categoryIDs, categories[i].ID)
	}

	products := []domain.Product{
		{
			Name:        "Premium Switch Plate",
			Slug:        "premium-switch-plate",
			Description: "Modular switch with LED indicator",
			SKU:         "PSP-001",
			Brand:       "Havells",
			CategoryID:  &categoryIDs[0],
			Price:       145.00,
			MRP:         f64ptr(199.00),
			Discount:    27,
			Stock:       85,
			ImageURL:    "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=400&h=300&fit=crop",
			Images:      []string{"https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=400&h=300&fit=crop"},
			Unit:        "piece",
			Warranty:    "2 years",
			TaxHSN:      "8536",
			IsActive:    true,
		},
		{
			Name:        "Copper Wire 2.5mm",
			Slug:        "copper-wire-2-5mm",
			Description: "100m roll, fire-resistant",
			SKU:         "CW-2.5-100",
			Brand:       "Polycab",
			CategoryID:  &categoryIDs[1],
			Price:       2850.00,
			MRP:         f64ptr(3200.00),
			Discount:    11,
			Stock:       25,
			ImageURL:    "https://images.unsplash.com/photo-1621905252472-e545f915d3c9?w=400&h=300&fit=crop",
			Images:      []string{"https://images.unsplash.com/photo-1621905252472-e545f915d3c9?w=400&h=300&fit=crop"},
			Unit:        "roll",
			Warranty:    "5 years",
			TaxHSN:      "8544",
			IsActive:    true,
		},
		{
			Name:        "Digital Multimeter",
			Slug:        "digital-multimeter",
			Description: "Professional grade, auto-ranging",
			SKU:         "DM-PRO-001",
			Brand:       "Fluke",
			CategoryID:  &categoryIDs[2],
			Price:       1299.00,
			MRP:         f64ptr(1599.00),
			Discount:    19,
			Stock:       42,
			ImageURL:    "https://images.unsplash.com/photo-1609592160928-dd36fb014c37?w=400&h=300&fit=crop",
			Images:      []string{"https://images.unsplash.com/photo-1609592160928-dd36fb014c37?w=400&h=300&fit=crop"},
			Unit:        "piece",
			Warranty:    "3 years",
			TaxHSN:      "9030",
			IsActive:    true,
		},
		{
			Name:        "LED Bulb 12W",
			Slug:        "led-bulb-12w",
			Description: "Energy efficient, 5-year warranty",
			SKU:         "LED-12W-001",
			Brand:       "Philips",
			CategoryID:  &categoryIDs[3],
			Price:       249.00,
			MRP:         f64ptr(349.00),
			Discount:    29,
			Stock:       156,
			ImageURL:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=300&fit=crop",
			Images:      []string{"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=300&fit=crop"},
			Unit:        "piece",
			Warranty:    "5 years",
			TaxHSN:      "8539",
			IsActive:    true,
		},
	}

	productRepo := s.Products()
	for i := range products {
		if err := productRepo.Create(ctx, &products[i]); err != nil {
			return fmt.Errorf("seeding product %q: %w", products[i].Slug, err)
		}
	}

	services := []domain.Service{
		{
			Name:        "Home Installation",
			Slug:        "home-installation",
			Description: "Complete electrical wiring and installation services for residential properties",
			Price:       2999.00,
			Duration:    "4-6 hours",
			ImageURL:    "https://images.unsplash.com/photo-1621905251918-48416bd8575a?w=400&h=300&fit=crop",
			IsActive:    true,
		},
		{
			Name:        "Repair & Maintenance",
			Slug:        "repair-maintenance",
			Description: "Expert repair services for all electrical equipment and systems",
			Price:       1499.00,
			Duration:    "2-3 hours",
			ImageURL:    "https://images.unsplash.com/photo-1621905251918-48416bd8575a?w=400&h=300&fit=crop",
			IsActive:    true,
		},
		{
			Name:        "Commercial Solutions",
			Slug:        "commercial-solutions",
			Description: "Industrial and commercial electrical installation and maintenance",
			Price:       4999.00,
			Duration:    "Full day",
			ImageURL:    "https://images.unsplash.com/photo-1621905251918-48416bd8575a?w=400&h=300&fit=crop",
			IsActive:    true,
		},
	}

	serviceRepo := s.Services()
	for i := range services {
		if err := serviceRepo.Create(ctx, &services[i]); err != nil {
			return fmt.Errorf("seeding service %q: %w", services[i].Slug, err)
		}
	}

	return nil
}

func f64ptr(v float64) *float64 { return &v }
