package transport

import (
	"net/http"
	"strconv"

	"voltkart/internal/domain"
	"voltkart/internal/middleware"
	"voltkart/internal/query"
	"voltkart/internal/repository"
	"voltkart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug" validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Slug        string   `json:"slug" validate:"required"`
	Description string   `json:"description"`
	SKU         string   `json:"sku" validate:"required"`
	Brand       string   `json:"brand"`
	CategoryID  *int64   `json:"categoryId"`
	Price       float64  `json:"price" validate:"gte=0"`
	MRP         *float64 `json:"mrp"`
	Discount    int      `json:"discount"`
	Stock       int      `json:"stock"`
	ImageURL    string   `json:"imageUrl"`
	Images      []string `json:"images"`
	Unit        string   `json:"unit"`
	Warranty    string   `json:"warranty"`
	TaxHSN      string   `json:"taxHsn"`
	IsActive    *bool    `json:"isActive"`
}

// CreateServiceRequest represents the service creation payload
type CreateServiceRequest struct {
	Name        string  `json:"name" validate:"required"`
	Slug        string  `json:"slug" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Duration    string  `json:"duration"`
	ImageURL    string  `json:"imageUrl"`
	IsActive    *bool   `json:"isActive"`
}

// CatalogHandler handles HTTP requests for categories, products and services
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers the catalog routes. Reads are public; writes
// require an authenticated admin.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/{id}", h.GetCategory)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Post("/", h.CreateCategory)
			r.Put("/{id}", h.UpdateCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/slug/{slug}", h.GetProductBySlug)
		r.Get("/{id}", h.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})
	})

	r.Route("/api/services", func(r chi.Router) {
		r.Get("/", h.ListServices)
		r.Get("/slug/{slug}", h.GetServiceBySlug)
		r.Get("/{id}", h.GetService)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Post("/", h.CreateService)
			r.Put("/{id}", h.UpdateService)
			r.Delete("/{id}", h.DeleteService)
		})
	})
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// ListCategories returns all categories in creation order
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to get category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), service.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		if err == repository.ErrCategorySlugExists {
			middleware.RespondWithError(w, http.StatusConflict, "category with this slug already exists")
			return
		}
		h.logger.Error("Failed to create category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	h.logger.Info("Category created", zap.Int64("category_id", category.ID), zap.String("slug", category.Slug))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var upd domain.CategoryUpdate
	if err := middleware.DecodeAndValidate(r, &upd); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalog.UpdateCategory(r.Context(), id, upd)
	if err != nil {
		switch err {
		case repository.ErrCategoryNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		case repository.ErrCategorySlugExists:
			middleware.RespondWithError(w, http.StatusConflict, "category with this slug already exists")
		default:
			h.logger.Error("Failed to update category", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update category")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	deleted, err := h.catalog.DeleteCategory(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to delete category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	if !deleted {
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		return
	}

	h.logger.Info("Category deleted", zap.Int64("category_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ListProducts returns active products narrowed by the query string:
// categoryId, search, brand, minPrice, maxPrice, sort, limit, offset.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.ProductListFilter{
		Search: q.Get("search"),
		Brand:  q.Get("brand"),
		Sort:   query.ParseSort(q.Get("sort")),
	}

	if v := q.Get("categoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid categoryId")
			return
		}
		filter.CategoryID = &id
	}

	if v := q.Get("minPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid minPrice")
			return
		}
		filter.MinPrice = &p
	}

	if v := q.Get("maxPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid maxPrice")
			return
		}
		filter.MaxPrice = &p
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.catalog.GetProductBySlug(r.Context(), slug)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product by slug", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), service.ProductInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		SKU:         req.SKU,
		Brand:       req.Brand,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		MRP:         req.MRP,
		Discount:    req.Discount,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Images:      req.Images,
		Unit:        req.Unit,
		Warranty:    req.Warranty,
		TaxHSN:      req.TaxHSN,
		IsActive:    req.IsActive,
	})
	if err != nil {
		switch err {
		case repository.ErrProductSlugExists:
			middleware.RespondWithError(w, http.StatusConflict, "product with this slug already exists")
		case repository.ErrProductSKUExists:
			middleware.RespondWithError(w, http.StatusConflict, "product with this sku already exists")
		default:
			h.logger.Error("Failed to create product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		}
		return
	}

	h.logger.Info("Product created", zap.Int64("product_id", product.ID), zap.String("slug", product.Slug))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var upd domain.ProductUpdate
	if err := middleware.DecodeAndValidate(r, &upd); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, upd)
	if err != nil {
		switch err {
		case repository.ErrProductNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case repository.ErrProductSlugExists:
			middleware.RespondWithError(w, http.StatusConflict, "product with this slug already exists")
		case repository.ErrProductSKUExists:
			middleware.RespondWithError(w, http.StatusConflict, "product with this sku already exists")
		default:
			h.logger.Error("Failed to update product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	deleted, err := h.catalog.DeleteProduct(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	if !deleted {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	h.logger.Info("Product deleted", zap.Int64("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ListServices returns active services in creation order
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListServices(r.Context(), false)
	if err != nil {
		h.logger.Error("Failed to list services", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list services")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, services)
}

func (h *CatalogHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid service id")
		return
	}

	svc, err := h.catalog.GetService(r.Context(), id)
	if err != nil {
		if err == repository.ErrServiceNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "service not found")
			return
		}
		h.logger.Error("Failed to get service", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get service")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, svc)
}

func (h *CatalogHandler) GetServiceBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	svc, err := h.catalog.GetServiceBySlug(r.Context(), slug)
	if err != nil {
		if err == repository.ErrServiceNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "service not found")
			return
		}
		h.logger.Error("Failed to get service by slug", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get service")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, svc)
}

func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	svc, err := h.catalog.CreateService(r.Context(), service.ServiceInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if err == repository.ErrServiceSlugExists {
			middleware.RespondWithError(w, http.StatusConflict, "service with this slug already exists")
			return
		}
		h.logger.Error("Failed to create service", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create service")
		return
	}

	h.logger.Info("Service created", zap.Int64("service_id", svc.ID), zap.String("slug", svc.Slug))
	middleware.RespondWithJSON(w, http.StatusCreated, svc)
}

func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid service id")
		return
	}

	var upd domain.ServiceUpdate
	if err := middleware.DecodeAndValidate(r, &upd); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	svc, err := h.catalog.UpdateService(r.Context(), id, upd)
	if err != nil {
		switch err {
		case repository.ErrServiceNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "service not found")
		case repository.ErrServiceSlugExists:
			middleware.RespondWithError(w, http.StatusConflict, "service with this slug already exists")
		default:
			h.logger.Error("Failed to update service", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update service")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, svc)
}

func (h *CatalogHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid service id")
		return
	}

	deleted, err := h.catalog.DeleteService(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to delete service", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete service")
		return
	}
	if !deleted {
		middleware.RespondWithError(w, http.StatusNotFound, "service not found")
		return
	}

	h.logger.Info("Service deleted", zap.Int64("service_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
