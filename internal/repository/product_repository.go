package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"voltkart/internal/domain"
	"voltkart/internal/query"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductSlugExists = errors.New("product with this slug already exists")
	ErrProductSKUExists  = errors.New("product with this sku already exists")
)

// ProductListFilter narrows a product listing before pagination. CategoryID
// and Brand are exact matches (brand case-insensitive), Search a
// case-insensitive substring over name, description and brand, MinPrice and
// MaxPrice inclusive bounds. Inactive products are excluded unless
// IncludeInactive is set. Pagination is applied after all narrowing.
type ProductListFilter struct {
	CategoryID      *int64
	Search          string
	Brand           string
	MinPrice        *float64
	MaxPrice        *float64
	Sort            query.Sort
	Limit           int
	Offset          int
	IncludeInactive bool
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	List(ctx context.Context, filter ProductListFilter) ([]domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Update(ctx context.Context, id int64, upd domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, slug, description, sku, brand, category_id, price, mrp,
	discount, stock, image_url, images, unit, warranty, tax_hsn, is_active, created_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*domain.Product, error) {
	product := &domain.Product{}
	var images []byte

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.SKU,
		&product.Brand,
		&product.CategoryID,
		&product.Price,
		&product.MRP,
		&product.Discount,
		&product.Stock,
		&product.ImageURL,
		&images,
		&product.Unit,
		&product.Warranty,
		&product.TaxHSN,
		&product.IsActive,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(images) > 0 {
		if err := json.Unmarshal(images, &product.Images); err != nil {
			return nil, fmt.Errorf("failed to decode product images: %w", err)
		}
	}

	return product, nil
}

func encodeImages(images []string) (interface{}, error) {
	if images == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product images: %w", err)
	}
	return encoded, nil
}

func mapProductUniqueViolation(err error) error {
	if !isUniqueViolation(err) {
		return nil
	}
	if strings.Contains(violatedConstraint(err), "sku") {
		return ErrProductSKUExists
	}
	return ErrProductSlugExists
}

// Create inserts a new product and fills in its assigned id and created_at
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	images, err := encodeImages(product.Images)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (name, slug, description, sku, brand, category_id, price, mrp,
			discount, stock, image_url, images, unit, warranty, tax_hsn, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Slug,
		product.Description,
		product.SKU,
		product.Brand,
		product.CategoryID,
		product.Price,
		product.MRP,
		product.Discount,
		product.Stock,
		product.ImageURL,
		images,
		product.Unit,
		product.Warranty,
		product.TaxHSN,
		product.IsActive,
	).Scan(&product.ID, &product.CreatedAt)

	if err != nil {
		if mapped := mapProductUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// List retrieves products with optional category and search filtering plus
// pagination, in creation order
func (r *productRepository) List(ctx context.Context, filter ProductListFilter) ([]domain.Product, error) {
	where := []string{}
	args := []interface{}{}

	if !filter.IncludeInactive {
		where = append(where, "is_active = TRUE")
	}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}

	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, "%"+escapeLikePattern(filter.Search)+"%")
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%d OR description ILIKE $%d OR brand ILIKE $%d)",
			len(args), len(args), len(args)))
	}

	if filter.Brand != "" {
		args = append(args, filter.Brand)
		where = append(where, fmt.Sprintf("LOWER(brand) = LOWER($%d)", len(args)))
	}

	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		where = append(where, fmt.Sprintf("price >= $%d", len(args)))
	}

	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		where = append(where, fmt.Sprintf("price <= $%d", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	orderBy := "id ASC"
	switch filter.Sort {
	case query.SortPriceAsc:
		orderBy = "price ASC, id ASC"
	case query.SortPriceDesc:
		orderBy = "price DESC, id ASC"
	case query.SortNameAsc:
		orderBy = "name ASC, id ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	stmt := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, orderBy, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindByID retrieves a product by ID, active or not
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindBySlug retrieves a product by its unique slug
func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by slug: %w", err)
	}

	return product, nil
}

// Update shallow-merges the supplied fields into an existing product.
// ID and created_at are never touched.
func (r *productRepository) Update(ctx context.Context, id int64, upd domain.ProductUpdate) (*domain.Product, error) {
	set := newSetBuilder()
	set.add("name", upd.Name)
	set.add("slug", upd.Slug)
	set.add("description", upd.Description)
	set.add("sku", upd.SKU)
	set.add("brand", upd.Brand)
	set.add("category_id", upd.CategoryID)
	set.add("price", upd.Price)
	set.add("mrp", upd.MRP)
	set.add("discount", upd.Discount)
	set.add("stock", upd.Stock)
	set.add("image_url", upd.ImageURL)
	set.add("unit", upd.Unit)
	set.add("warranty", upd.Warranty)
	set.add("tax_hsn", upd.TaxHSN)
	set.add("is_active", upd.IsActive)

	if upd.Images != nil {
		images, err := encodeImages(upd.Images)
		if err != nil {
			return nil, err
		}
		set.addRaw("images", images)
	}

	if set.empty() {
		return r.FindByID(ctx, id)
	}

	query := fmt.Sprintf(`
		UPDATE products
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, set.clause(), set.next(), productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, append(set.args, id)...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		if mapped := mapProductUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes a product. Order items referencing it keep their dangling
// product reference; historical orders stay intact.
func (r *productRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
