package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coreos/go-oidc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/config"
)

// NoOpLogger for testing
type NoOpLogger struct{}

func (l *NoOpLogger) Debug(msg string, args ...any) {}
func (l *NoOpLogger) Info(msg string, args ...any)  {}
func (l *NoOpLogger) Error(msg string, args ...any) {}

// MockKeySet satisfies oidc.KeySet to bypass signature verification
type MockKeySet struct{}

func (m *MockKeySet) VerifySignature(ctx context.Context, jwtToken string) ([]byte, error) {
	parts := strings.Split(jwtToken, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed jwt")
	}
	return base64.RawURLEncoding.DecodeString(parts[1])
}

// fakeToken builds an unsigned JWT whose payload the MockKeySet will
// accept verbatim.
func fakeToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()

	header := map[string]interface{}{"alg": "RS256", "typ": "JWT", "kid": "test-key"}
	headerBytes, err := json.Marshal(header)
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	return base64.RawURLEncoding.EncodeToString(headerBytes) + "." +
		base64.RawURLEncoding.EncodeToString(payload) + "." +
		base64.RawURLEncoding.EncodeToString([]byte("fakesignature"))
}

func testVerifier(issuer, clientID string) *oidc.IDTokenVerifier {
	return oidc.NewVerifier(issuer, &MockKeySet{}, &oidc.Config{
		ClientID:          clientID,
		SkipClientIDCheck: true, // Matches logic in auth.go for apiVerifier
	})
}

func TestRequireAuth_BearerToken_PutsIdentityInContext(t *testing.T) {
	issuer := "https://test-issuer.com"
	clientID := "test-client"

	token := fakeToken(t, map[string]interface{}{
		"iss":   issuer,
		"aud":   clientID,
		"sub":   "test-user",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Add(-1 * time.Minute).Unix(),
		"email": "user@acme.com",
		"name":  "A. User",
	})

	a := &Auth{apiVerifier: testVerifier(issuer, clientID)}

	req := httptest.NewRequest("GET", "/api/v1/states", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := IdentityFrom(r.Context())
		assert.True(t, ok, "identity should be in context")
		assert.Equal(t, "test-user", ident.Subject)
		assert.Equal(t, "user@acme.com", ident.Email)
		assert.Equal(t, "A. User", ident.Name)
		w.WriteHeader(http.StatusOK)
	})

	a.RequireAuth(nextHandler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Logf("Response Body: %s", rec.Body.String())
	}
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_BypassMode(t *testing.T) {
	cfg := &config.Config{Environment: "development"}
	cfg.Auth.DevBypass = true

	a, err := New(context.Background(), cfg, &NoOpLogger{})
	require.NoError(t, err)
	assert.True(t, a.authBypass)

	req := httptest.NewRequest("GET", "/api/v1/states", nil)
	rec := httptest.NewRecorder()

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := IdentityFrom(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "dev@localhost", ident.Email)
		w.WriteHeader(http.StatusOK)
	})

	a.RequireAuth(nextHandler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_MissingCookieRedirectsToLogin(t *testing.T) {
	a := &Auth{}

	req := httptest.NewRequest("GET", "/api/v1/states", nil)
	rec := httptest.NewRecorder()

	a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAuth_RejectsBadBearerTokens(t *testing.T) {
	issuer := "https://test-issuer.com"
	a := &Auth{apiVerifier: testVerifier(issuer, "test-client")}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"expired", fakeToken(t, map[string]interface{}{
			"iss": issuer,
			"sub": "test-user",
			"exp": time.Now().Add(-time.Hour).Unix(),
			"iat": time.Now().Add(-2 * time.Hour).Unix(),
		})},
		{"wrong issuer", fakeToken(t, map[string]interface{}{
			"iss": "https://evil-issuer.com",
			"sub": "test-user",
			"exp": time.Now().Add(time.Hour).Unix(),
			"iat": time.Now().Unix(),
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/states", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()

			a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler should not run")
			})).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestNew_IncompleteConfigRejected(t *testing.T) {
	cfg := &config.Config{Environment: "production"}
	cfg.Auth.Issuer = "https://test-issuer.com"
	// client id/secret/redirect missing

	_, err := New(context.Background(), cfg, &NoOpLogger{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth configuration is incomplete")
}

func TestLogoutHandler_ClearsSessionCookie(t *testing.T) {
	a := &Auth{}

	req := httptest.NewRequest("GET", "/logout", nil)
	rec := httptest.NewRecorder()
	a.LogoutHandler(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)

	var cleared bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "id_token" {
			cleared = cookie.Value == "" && cookie.MaxAge < 0
		}
	}
	assert.True(t, cleared, "id_token cookie should be expired")
}
