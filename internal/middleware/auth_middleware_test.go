package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, key *rsa.PrivateKey, sub string, expiresIn time.Duration) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(expiresIn).Unix(),
	})
	signed, err := tok.SignedString(key)
	require.NoError(t, err)
	return signed
}

func echoUserID() (http.Handler, *string) {
	var captured string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v := r.Context().Value(ContextKeyUserID); v != nil {
			captured = v.(string)
		}
		w.WriteHeader(http.StatusOK)
	})
	return h, &captured
}

func TestAuthMiddleware(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	userID := uuid.New().String()

	do := func(authorization string) (*httptest.ResponseRecorder, string) {
		handler, captured := echoUserID()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		AuthMiddleware(&key.PublicKey)(handler).ServeHTTP(rec, req)
		return rec, *captured
	}

	t.Run("valid token passes the subject through", func(t *testing.T) {
		rec, captured := do("Bearer " + signToken(t, key, userID, time.Hour))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, userID, captured)
	})

	t.Run("missing header", func(t *testing.T) {
		rec, _ := do("")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		rec, _ := do("Token abc")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		rec, _ := do("Bearer " + signToken(t, key, userID, -time.Minute))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "token_expired")
	})

	t.Run("token signed with another key", func(t *testing.T) {
		otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		rec, _ := do("Bearer " + signToken(t, otherKey, userID, time.Hour))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	userID := uuid.New().String()

	t.Run("anonymous request proceeds", func(t *testing.T) {
		handler, captured := echoUserID()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/offices", nil)
		OptionalAuthMiddleware(&key.PublicKey)(handler).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, *captured)
	})

	t.Run("garbage token degrades to anonymous", func(t *testing.T) {
		handler, captured := echoUserID()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/offices", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		OptionalAuthMiddleware(&key.PublicKey)(handler).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, *captured)
	})

	t.Run("valid token is honored", func(t *testing.T) {
		handler, captured := echoUserID()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/offices", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, key, userID, time.Hour))
		OptionalAuthMiddleware(&key.PublicKey)(handler).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, userID, *captured)
	})
}
