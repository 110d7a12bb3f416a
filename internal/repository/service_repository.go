package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"voltkart/internal/domain"
)

var (
	ErrServiceNotFound   = errors.New("service not found")
	ErrServiceSlugExists = errors.New("service with this slug already exists")
)

// ServiceRepository defines the interface for service data access
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) error
	List(ctx context.Context, includeInactive bool) ([]domain.Service, error)
	FindByID(ctx context.Context, id int64) (*domain.Service, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Service, error)
	Update(ctx context.Context, id int64, upd domain.ServiceUpdate) (*domain.Service, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type serviceRepository struct {
	db *sql.DB
}

// NewServiceRepository creates a new instance of ServiceRepository
func NewServiceRepository(db *sql.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

const serviceColumns = `id, name, slug, description, price, duration, image_url, is_active, created_at`

func scanService(row interface{ Scan(...interface{}) error }) (*domain.Service, error) {
	service := &domain.Service{}
	err := row.Scan(
		&service.ID,
		&service.Name,
		&service.Slug,
		&service.Description,
		&service.Price,
		&service.Duration,
		&service.ImageURL,
		&service.IsActive,
		&service.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return service, nil
}

// Create inserts a new service and fills in its assigned id and created_at
func (r *serviceRepository) Create(ctx context.Context, service *domain.Service) error {
	query := `
		INSERT INTO services (name, slug, description, price, duration, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		service.Name,
		service.Slug,
		service.Description,
		service.Price,
		service.Duration,
		service.ImageURL,
		service.IsActive,
	).Scan(&service.ID, &service.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrServiceSlugExists
		}
		return fmt.Errorf("failed to create service: %w", err)
	}

	return nil
}

// List retrieves services in creation order, active only by default
func (r *serviceRepository) List(ctx context.Context, includeInactive bool) ([]domain.Service, error) {
	query := fmt.Sprintf(`SELECT %s FROM services`, serviceColumns)
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	services := []domain.Service{}
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, *service)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating services: %w", err)
	}

	return services, nil
}

// FindByID retrieves a service by ID, active or not
func (r *serviceRepository) FindByID(ctx context.Context, id int64) (*domain.Service, error) {
	query := fmt.Sprintf(`SELECT %s FROM services WHERE id = $1`, serviceColumns)

	service, err := scanService(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to find service by ID: %w", err)
	}

	return service, nil
}

// FindBySlug retrieves a service by its unique slug
func (r *serviceRepository) FindBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	query := fmt.Sprintf(`SELECT %s FROM services WHERE slug = $1`, serviceColumns)

	service, err := scanService(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to find service by slug: %w", err)
	}

	return service, nil
}

// Update shallow-merges the supplied fields into an existing service
func (r *serviceRepository) Update(ctx context.Context, id int64, upd domain.ServiceUpdate) (*domain.Service, error) {
	set := newSetBuilder()
	set.add("name", upd.Name)
	set.add("slug", upd.Slug)
	set.add("description", upd.Description)
	set.add("price", upd.Price)
	set.add("duration", upd.Duration)
	set.add("image_url", upd.ImageURL)
	set.add("is_active", upd.IsActive)

	if set.empty() {
		return r.FindByID(ctx, id)
	}

	query := fmt.Sprintf(`
		UPDATE services
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, set.clause(), set.next(), serviceColumns)

	service, err := scanService(r.db.QueryRowContext(ctx, query, append(set.args, id)...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrServiceNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrServiceSlugExists
		}
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	return service, nil
}

// Delete removes a service. Bookings keep their dangling service reference.
func (r *serviceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete service: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
