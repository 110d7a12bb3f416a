package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"voltkart/internal/domain"
	"voltkart/internal/middleware"
	"voltkart/internal/repository"
	"voltkart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret-key"

// testEnv wires the full route surface over a fresh in-memory store
type testEnv struct {
	router *chi.Mux
	store  *repository.MemoryStore
	users  service.UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repository.NewMemoryStore()
	logger := zap.NewNop()

	userService := service.NewUserService(store.Users(), store.RefreshTokens(), testJWTSecret)
	catalogService := service.NewCatalogService(store.Categories(), store.Products(), store.Services())
	orderService := service.NewOrderService(store.Orders())
	bookingService := service.NewBookingService(store.Bookings())

	auth := middleware.AuthMiddleware(testJWTSecret, logger)
	admin := middleware.RequireAdmin(logger)

	r := chi.NewRouter()
	NewUserHandler(userService, logger).RegisterRoutes(r, auth)
	NewCatalogHandler(catalogService, logger).RegisterRoutes(r, auth, admin)
	NewOrderHandler(orderService, logger).RegisterRoutes(r, auth, admin)
	NewBookingHandler(bookingService, logger).RegisterRoutes(r, auth, admin)

	return &testEnv{router: r, store: store, users: userService}
}

// do runs one request through the router. A non-empty token is sent as a
// bearer credential.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login creates a user directly in the store so the admin flag can be set,
// then returns an access token together with the user id. Registration over
// the API never yields admins.
func (e *testEnv) login(t *testing.T, email string, isAdmin bool) (string, int64) {
	t.Helper()

	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &domain.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hashed),
		IsAdmin:      isAdmin,
	}
	if err := e.store.Users().Create(ctx, user); err != nil {
		t.Fatalf("failed to create %s: %v", email, err)
	}

	accessToken, _, _, err := e.users.Login(ctx, email, "password123")
	if err != nil {
		t.Fatalf("failed to login %s: %v", email, err)
	}
	return accessToken, user.ID
}

func decodeSuccess(t *testing.T, w *httptest.ResponseRecorder, into interface{}) {
	t.Helper()

	raw := struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode response envelope: %v", err)
	}
	if !raw.Success {
		t.Fatalf("expected success envelope, got body %s", w.Body.String())
	}
	if into != nil {
		if err := json.Unmarshal(raw.Data, into); err != nil {
			t.Fatalf("failed to decode response data: %v", err)
		}
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorResponse {
	t.Helper()

	var envelope middleware.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if envelope.Success {
		t.Fatalf("expected error envelope, got body %s", w.Body.String())
	}
	if envelope.Message == "" {
		t.Fatalf("error envelope has no message: %s", w.Body.String())
	}
	return envelope
}
