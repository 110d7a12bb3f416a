package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"voltkart/internal/domain"
	"voltkart/internal/query"
)

// MemoryStore is the in-memory storage backend. All entities live in plain
// maps guarded by a single RWMutex: reads run concurrently, writes are
// serialized, updates are last-write-wins. Each repository interface is
// served by a lightweight view over the same store, so cross-entity
// operations like order creation stay atomic under one lock.
//
// Each entity type has its own monotonically increasing id counter.
// Uniqueness of slug, sku, email and order/booking numbers is enforced at
// this boundary, mirroring the postgres backend's unique constraints.
type MemoryStore struct {
	mu sync.RWMutex

	categories    map[int64]domain.Category
	products      map[int64]domain.Product
	services      map[int64]domain.Service
	orders        map[int64]domain.Order
	orderItems    map[int64]domain.OrderItem
	bookings      map[int64]domain.Booking
	users         map[int64]domain.User
	refreshTokens map[string]domain.RefreshToken

	nextCategoryID  int64
	nextProductID   int64
	nextServiceID   int64
	nextOrderID     int64
	nextOrderItemID int64
	nextBookingID   int64
	nextUserID      int64
	nextTokenID     int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories:    make(map[int64]domain.Category),
		products:      make(map[int64]domain.Product),
		services:      make(map[int64]domain.Service),
		orders:        make(map[int64]domain.Order),
		orderItems:    make(map[int64]domain.OrderItem),
		bookings:      make(map[int64]domain.Booking),
		users:         make(map[int64]domain.User),
		refreshTokens: make(map[string]domain.RefreshToken),
	}
}

// Categories returns the category view of the store
func (s *MemoryStore) Categories() CategoryRepository { return &memoryCategoryRepository{s} }

// Products returns the product view of the store
func (s *MemoryStore) Products() ProductRepository { return &memoryProductRepository{s} }

// Services returns the service view of the store
func (s *MemoryStore) Services() ServiceRepository { return &memoryServiceRepository{s} }

// Orders returns the order view of the store
func (s *MemoryStore) Orders() OrderRepository { return &memoryOrderRepository{s} }

// Bookings returns the booking view of the store
func (s *MemoryStore) Bookings() BookingRepository { return &memoryBookingRepository{s} }

// Users returns the user view of the store
func (s *MemoryStore) Users() UserRepository { return &memoryUserRepository{s} }

// RefreshTokens returns the refresh token view of the store
func (s *MemoryStore) RefreshTokens() RefreshTokenRepository { return &memoryRefreshTokenRepository{s} }

type memoryCategoryRepository struct{ store *MemoryStore }

func (r *memoryCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if existing.Slug == category.Slug {
			return ErrCategorySlugExists
		}
	}

	s.nextCategoryID++
	category.ID = s.nextCategoryID
	s.categories[category.ID] = *category
	return nil
}

func (r *memoryCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]domain.Category, 0, len(s.categories))
	for _, category := range s.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (r *memoryCategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return &category, nil
}

func (r *memoryCategoryRepository) Update(ctx context.Context, id int64, upd domain.CategoryUpdate) (*domain.Category, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}

	if upd.Slug != nil && *upd.Slug != category.Slug {
		for _, existing := range s.categories {
			if existing.Slug == *upd.Slug {
				return nil, ErrCategorySlugExists
			}
		}
		category.Slug = *upd.Slug
	}
	if upd.Name != nil {
		category.Name = *upd.Name
	}
	if upd.Description != nil {
		category.Description = *upd.Description
	}
	if upd.ImageURL != nil {
		category.ImageURL = *upd.ImageURL
	}

	s.categories[id] = category
	return &category, nil
}

func (r *memoryCategoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return false, nil
	}
	delete(s.categories, id)
	return true, nil
}

type memoryProductRepository struct{ store *MemoryStore }

func (r *memoryProductRepository) Create(ctx context.Context, product *domain.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.products {
		if existing.Slug == product.Slug {
			return ErrProductSlugExists
		}
		if existing.SKU == product.SKU {
			return ErrProductSKUExists
		}
	}

	s.nextProductID++
	product.ID = s.nextProductID
	product.CreatedAt = time.Now()
	s.products[product.ID] = *product
	return nil
}

func (r *memoryProductRepository) List(ctx context.Context, filter ProductListFilter) ([]domain.Product, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		if !filter.IncludeInactive && !product.IsActive {
			continue
		}
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	narrow := query.Filter{
		CategoryID: filter.CategoryID,
		Search:     filter.Search,
		Brand:      filter.Brand,
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		narrow.Price = &query.PriceBracket{Min: filter.MinPrice, Max: filter.MaxPrice}
	}

	products = query.Order(query.Apply(products, narrow), filter.Sort)
	return query.Paginate(products, filter.Limit, filter.Offset), nil
}

func (r *memoryProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

func (r *memoryProductRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, product := range s.products {
		if product.Slug == slug {
			p := product
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func (r *memoryProductRepository) Update(ctx context.Context, id int64, upd domain.ProductUpdate) (*domain.Product, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}

	if upd.Slug != nil && *upd.Slug != product.Slug {
		for _, existing := range s.products {
			if existing.Slug == *upd.Slug {
				return nil, ErrProductSlugExists
			}
		}
		product.Slug = *upd.Slug
	}
	if upd.SKU != nil && *upd.SKU != product.SKU {
		for _, existing := range s.products {
			if existing.SKU == *upd.SKU {
				return nil, ErrProductSKUExists
			}
		}
		product.SKU = *upd.SKU
	}
	if upd.Name != nil {
		product.Name = *upd.Name
	}
	if upd.Description != nil {
		product.Description = *upd.Description
	}
	if upd.Brand != nil {
		product.Brand = *upd.Brand
	}
	if upd.CategoryID != nil {
		product.CategoryID = upd.CategoryID
	}
	if upd.Price != nil {
		product.Price = *upd.Price
	}
	if upd.MRP != nil {
		product.MRP = upd.MRP
	}
	if upd.Discount != nil {
		product.Discount = *upd.Discount
	}
	if upd.Stock != nil {
		product.Stock = *upd.Stock
	}
	if upd.ImageURL != nil {
		product.ImageURL = *upd.ImageURL
	}
	if upd.Images != nil {
		product.Images = upd.Images
	}
	if upd.Unit != nil {
		product.Unit = *upd.Unit
	}
	if upd.Warranty != nil {
		product.Warranty = *upd.Warranty
	}
	if upd.TaxHSN != nil {
		product.TaxHSN = *upd.TaxHSN
	}
	if upd.IsActive != nil {
		product.IsActive = *upd.IsActive
	}

	s.products[id] = product
	return &product, nil
}

func (r *memoryProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	// Order items referencing the product keep their dangling reference.
	delete(s.products, id)
	return true, nil
}

type memoryServiceRepository struct{ store *MemoryStore }

func (r *memoryServiceRepository) Create(ctx context.Context, service *domain.Service) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.services {
		if existing.Slug == service.Slug {
			return ErrServiceSlugExists
		}
	}

	s.nextServiceID++
	service.ID = s.nextServiceID
	service.CreatedAt = time.Now()
	s.services[service.ID] = *service
	return nil
}

func (r *memoryServiceRepository) List(ctx context.Context, includeInactive bool) ([]domain.Service, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	services := make([]domain.Service, 0, len(s.services))
	for _, service := range s.services {
		if !includeInactive && !service.IsActive {
			continue
		}
		services = append(services, service)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services, nil
}

func (r *memoryServiceRepository) FindByID(ctx context.Context, id int64) (*domain.Service, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	service, ok := s.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return &service, nil
}

func (r *memoryServiceRepository) FindBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, service := range s.services {
		if service.Slug == slug {
			sv := service
			return &sv, nil
		}
	}
	return nil, ErrServiceNotFound
}

func (r *memoryServiceRepository) Update(ctx context.Context, id int64, upd domain.ServiceUpdate) (*domain.Service, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	service, ok := s.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}

	if upd.Slug != nil && *upd.Slug != service.Slug {
		for _, existing := range s.services {
			if existing.Slug == *upd.Slug {
				return nil, ErrServiceSlugExists
			}
		}
		service.Slug = *upd.Slug
	}
	if upd.Name != nil {
		service.Name = *upd.Name
	}
	if upd.Description != nil {
		service.Description = *upd.Description
	}
	if upd.Price != nil {
		service.Price = *upd.Price
	}
	if upd.Duration != nil {
		service.Duration = *upd.Duration
	}
	if upd.ImageURL != nil {
		service.ImageURL = *upd.ImageURL
	}
	if upd.IsActive != nil {
		service.IsActive = *upd.IsActive
	}

	s.services[id] = service
	return &service, nil
}

func (r *memoryServiceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.services[id]; !ok {
		return false, nil
	}
	delete(s.services, id)
	return true, nil
}

type memoryOrderRepository struct{ store *MemoryStore }

func (r *memoryOrderRepository) Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.orders {
		if existing.OrderNumber == order.OrderNumber {
			return ErrOrderNumberExists
		}
	}

	// Single critical section: order and items appear together or not at all.
	s.nextOrderID++
	order.ID = s.nextOrderID
	order.CreatedAt = time.Now()
	s.orders[order.ID] = *order

	for _, item := range items {
		s.nextOrderItemID++
		item.ID = s.nextOrderItemID
		item.OrderID = order.ID
		s.orderItems[item.ID] = item
	}

	return nil
}

func (r *memoryOrderRepository) List(ctx context.Context, userID *int64) ([]domain.Order, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if userID != nil && (order.UserID == nil || *order.UserID != *userID) {
			continue
		}
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (r *memoryOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

func (r *memoryOrderRepository) ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []domain.OrderItem{}
	for _, item := range s.orderItems {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *memoryOrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	order.Status = status
	s.orders[id] = order
	return &order, nil
}

type memoryBookingRepository struct{ store *MemoryStore }

func (r *memoryBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bookings {
		if existing.BookingNumber == booking.BookingNumber {
			return ErrBookingNumberExists
		}
	}

	s.nextBookingID++
	booking.ID = s.nextBookingID
	booking.CreatedAt = time.Now()
	s.bookings[booking.ID] = *booking
	return nil
}

func (r *memoryBookingRepository) List(ctx context.Context, userID *int64) ([]domain.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]domain.Booking, 0, len(s.bookings))
	for _, booking := range s.bookings {
		if userID != nil && (booking.UserID == nil || *booking.UserID != *userID) {
			continue
		}
		bookings = append(bookings, booking)
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
	return bookings, nil
}

func (r *memoryBookingRepository) FindByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &booking, nil
}

func (r *memoryBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	booking.Status = status
	s.bookings[id] = booking
	return &booking, nil
}

type memoryUserRepository struct{ store *MemoryStore }

func (r *memoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return ErrUserAlreadyExists
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

type memoryRefreshTokenRepository struct{ store *MemoryStore }

func (r *memoryRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTokenID++
	token.ID = s.nextTokenID
	token.CreatedAt = time.Now()
	s.refreshTokens[token.Token] = *token
	return nil
}

func (r *memoryRefreshTokenRepository) FindByToken(ctx context.Context, tokenString string) (*domain.RefreshToken, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.refreshTokens[tokenString]
	if !ok {
		return nil, ErrRefreshTokenNotFound
	}
	if token.Revoked {
		return nil, ErrRefreshTokenRevoked
	}
	return &token, nil
}

func (r *memoryRefreshTokenRepository) Revoke(ctx context.Context, tokenString string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.refreshTokens[tokenString]
	if !ok {
		return ErrRefreshTokenNotFound
	}
	token.Revoked = true
	s.refreshTokens[tokenString] = token
	return nil
}
