package domain

import "time"

// Category groups products in the catalog. Products hold a weak reference to
// their category; deleting a category never cascades.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Product represents a sellable item in the catalog
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	SKU         string    `json:"sku"`
	Brand       string    `json:"brand,omitempty"`
	CategoryID  *int64    `json:"categoryId,omitempty"`
	Price       float64   `json:"price"`
	MRP         *float64  `json:"mrp,omitempty"`
	Discount    int       `json:"discount"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Unit        string    `json:"unit"`
	Warranty    string    `json:"warranty,omitempty"`
	TaxHSN      string    `json:"taxHsn,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Service represents a bookable service (installation, repair, ...)
type Service struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Duration    string    `json:"duration,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CategoryUpdate carries a partial update; nil fields are left untouched.
type CategoryUpdate struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

// ProductUpdate carries a partial update; nil fields are left untouched.
// ID and CreatedAt are never updatable.
type ProductUpdate struct {
	Name        *string   `json:"name"`
	Slug        *string   `json:"slug"`
	Description *string   `json:"description"`
	SKU         *string   `json:"sku"`
	Brand       *string   `json:"brand"`
	CategoryID  *int64    `json:"categoryId"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	MRP         *float64  `json:"mrp"`
	Discount    *int      `json:"discount"`
	Stock       *int      `json:"stock"`
	ImageURL    *string   `json:"imageUrl"`
	Images      []string  `json:"images"`
	Unit        *string   `json:"unit"`
	Warranty    *string   `json:"warranty"`
	TaxHSN      *string   `json:"taxHsn"`
	IsActive    *bool     `json:"isActive"`
}

// ServiceUpdate carries a partial update; nil fields are left untouched.
type ServiceUpdate struct {
	Name        *string  `json:"name"`
	Slug        *string  `json:"slug"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Duration    *string  `json:"duration"`
	ImageURL    *string  `json:"imageUrl"`
	IsActive    *bool    `json:"isActive"`
}
