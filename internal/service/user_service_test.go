package service

import (
	"context"
	"testing"
	"time"

	"voltkart/internal/domain"
	"voltkart/internal/repository"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService() (UserService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	return NewUserService(store.Users(), store.RefreshTokens(), "test-secret-key"), store
}

func TestProperty_RegistrationCreatesHashedPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(email string, password string, name string) bool {
			service, store := newTestUserService()
			ctx := context.Background()

			user, err := service.Register(ctx, email, password, name, "9876543210", "12 Main Street")
			if err != nil {
				// If registration fails, skip this test case
				return true
			}

			// Verify password is hashed (not equal to plaintext)
			if user.PasswordHash == password {
				t.Logf("FAIL: Password stored as plaintext for email %s", email)
				return false
			}

			err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
			if err != nil {
				t.Logf("FAIL: Password hash is not a valid bcrypt hash or doesn't match: %v", err)
				return false
			}

			storedUser, err := store.Users().FindByEmail(ctx, email)
			if err != nil {
				t.Logf("FAIL: Could not find stored user: %v", err)
				return false
			}

			if storedUser.PasswordHash != user.PasswordHash {
				t.Logf("FAIL: Stored password hash doesn't match returned password hash")
				return false
			}

			if storedUser.IsAdmin {
				t.Logf("FAIL: Self-registered user must not be an admin")
				return false
			}

			return true
		},
		// Generate valid email addresses
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		// Generate passwords with at least 8 characters
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		// Generate names
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_DuplicateRegistrationIsRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("registering the same email twice fails", prop.ForAll(
		func(email string, password string, name string) bool {
			service, _ := newTestUserService()
			ctx := context.Background()

			if _, err := service.Register(ctx, email, password, name, "", ""); err != nil {
				return true
			}

			_, err := service.Register(ctx, email, password, name, "", "")
			if err != repository.ErrUserAlreadyExists {
				t.Logf("FAIL: Expected ErrUserAlreadyExists, got: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_JWTTokensContainRequiredClaims(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("access tokens contain user ID and admin claims", prop.ForAll(
		func(email string, password string, name string, isAdmin bool) bool {
			service, store := newTestUserService()
			ctx := context.Background()

			// Create the user directly so the admin flag can be exercised
			hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
			if err != nil {
				t.Logf("FAIL: Failed to hash password: %v", err)
				return false
			}
			user := &domain.User{
				Email:        email,
				Name:         name,
				PasswordHash: string(hashed),
				IsAdmin:      isAdmin,
			}
			if err := store.Users().Create(ctx, user); err != nil {
				return true // Skip on duplicate email
			}

			accessToken, _, _, err := service.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			claims, err := service.ValidateToken(accessToken)
			if err != nil {
				t.Logf("FAIL: Token validation failed: %v", err)
				return false
			}

			if claims.UserID != user.ID {
				t.Logf("FAIL: User ID claim mismatch. Expected %d, got %d", user.ID, claims.UserID)
				return false
			}

			if claims.IsAdmin != isAdmin {
				t.Logf("FAIL: Admin claim mismatch. Expected %v, got %v", isAdmin, claims.IsAdmin)
				return false
			}

			if claims.ExpiresAt == nil {
				t.Logf("FAIL: Token missing expiration claim")
				return false
			}

			if claims.IssuedAt == nil {
				t.Logf("FAIL: Token missing issued at claim")
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_TokenRefreshRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid refresh token returns new valid access token", prop.ForAll(
		func(email string, password string, name string) bool {
			service, _ := newTestUserService()
			ctx := context.Background()

			if _, err := service.Register(ctx, email, password, name, "", ""); err != nil {
				return true // Skip if registration fails
			}

			_, refreshToken, user, err := service.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			newAccessToken, err := service.RefreshToken(ctx, refreshToken)
			if err != nil {
				t.Logf("FAIL: Token refresh failed: %v", err)
				return false
			}

			claims, err := service.ValidateToken(newAccessToken)
			if err != nil {
				t.Logf("FAIL: New access token validation failed: %v", err)
				return false
			}

			if claims.UserID != user.ID {
				t.Logf("FAIL: User ID mismatch in refreshed token")
				return false
			}

			if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
				t.Logf("FAIL: Refreshed token is already expired")
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_LogoutInvalidatesRefreshToken(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("logout marks refresh token as revoked", prop.ForAll(
		func(email string, password string, name string) bool {
			service, store := newTestUserService()
			ctx := context.Background()

			if _, err := service.Register(ctx, email, password, name, "", ""); err != nil {
				return true // Skip if registration fails
			}

			_, refreshToken, _, err := service.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			// Verify refresh token works before logout
			if _, err := service.RefreshToken(ctx, refreshToken); err != nil {
				t.Logf("FAIL: Refresh token should work before logout: %v", err)
				return false
			}

			if err := service.Logout(ctx, refreshToken); err != nil {
				t.Logf("FAIL: Logout failed: %v", err)
				return false
			}

			_, err = service.RefreshToken(ctx, refreshToken)
			if err == nil {
				t.Logf("FAIL: Refresh token should be invalid after logout")
				return false
			}
			if err != ErrInvalidToken {
				t.Logf("FAIL: Expected ErrInvalidToken, got: %v", err)
				return false
			}

			// Verify token is marked as revoked in the store
			if _, err := store.RefreshTokens().FindByToken(ctx, refreshToken); err != repository.ErrRefreshTokenRevoked {
				t.Logf("FAIL: Token should be revoked in repository, got error: %v", err)
				return false
			}

			// Logging out twice is harmless
			if err := service.Logout(ctx, refreshToken); err != nil {
				t.Logf("FAIL: Second logout failed: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()

	if _, err := service.Register(ctx, "amit@example.com", "correct-horse", "Amit", "", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, _, _, err := service.Login(ctx, "amit@example.com", "wrong-horse"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for a wrong password, got %v", err)
	}

	if _, _, _, err := service.Login(ctx, "nobody@example.com", "correct-horse"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for an unknown email, got %v", err)
	}
}

func TestExpiredRefreshTokenIsRejected(t *testing.T) {
	service, store := newTestUserService()
	ctx := context.Background()

	user, err := service.Register(ctx, "amit@example.com", "correct-horse", "Amit", "", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	expired := &domain.RefreshToken{
		UserID:    user.ID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := store.RefreshTokens().Create(ctx, expired); err != nil {
		t.Fatalf("token Create failed: %v", err)
	}

	if _, err := service.RefreshToken(ctx, "expired-token"); err != ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	service, _ := newTestUserService()
	other := NewUserService(repository.NewMemoryStore().Users(), repository.NewMemoryStore().RefreshTokens(), "other-secret")
	ctx := context.Background()

	if _, err := service.Register(ctx, "amit@example.com", "correct-horse", "Amit", "", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	accessToken, _, _, err := service.Login(ctx, "amit@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := other.ValidateToken(accessToken); err == nil {
		t.Error("token signed with a different secret should not validate")
	}
}
