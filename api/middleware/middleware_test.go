package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
	"github.com/listny/listny-backend/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "local-dev-secret"

func signHS256(t *testing.T, claims sessionClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func validClaims(sub, email string) sessionClaims {
	now := time.Now()
	return sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "https://clerk.test",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

type stubLookup struct {
	email string
	err   error
	calls int
}

func (s *stubLookup) PrimaryEmail(context.Context, string) (string, error) {
	s.calls++
	return s.email, s.err
}

func newAuthRouter(t *testing.T, lookup EmailLookup) *gin.Engine {
	t.Helper()
	verifier, err := NewTokenVerifier(AuthConfig{HMACSecret: testSecret, Issuer: "https://clerk.test"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", ClerkAuth(verifier, logger.Discard()), func(c *gin.Context) {
		identity, _ := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"user": identity.UserID})
	})
	r.GET("/admin", ClerkAuth(verifier, logger.Discard()),
		RequireAdmin([]string{"Boss@Listny.test"}, lookup, logger.Discard()),
		func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	t.Run("generates when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		RequestID()(c)

		assert.NotEmpty(t, GetRequestID(c))
		assert.Equal(t, GetRequestID(c), w.Header().Get("X-Request-ID"))
	})

	t.Run("keeps caller id", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("X-Request-ID", "req-42")

		RequestID()(c)

		assert.Equal(t, "req-42", GetRequestID(c))
	})
}

func TestClerkAuth(t *testing.T) {
	r := newAuthRouter(t, nil)

	w := do(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "You must be logged in")

	w = do(r, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired := validClaims("user_1", "")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	w = do(r, "/me", signHS256(t, expired))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	foreign := validClaims("user_1", "")
	foreign.Issuer = "https://elsewhere.test"
	w = do(r, "/me", signHS256(t, foreign))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/me", signHS256(t, validClaims("user_1", "")))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"user_1"}`, w.Body.String())
}

// jwksServer 提供一把 RS256 公钥，并统计 JWKS 请求次数
type jwksServer struct {
	*httptest.Server
	key  *rsa.PrivateKey
	hits atomic.Int32
}

func newJWKSServer(t *testing.T) *jwksServer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	s := &jwksServer{key: key}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jwks" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.hits.Add(1)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"keys": []map[string]string{{
				"kid": "ins_test",
				"kty": "RSA",
				"alg": "RS256",
				"use": "sig",
				"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
			}},
		})
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *jwksServer) sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = "ins_test"
	signed, err := token.SignedString(s.key)
	require.NoError(t, err)
	return signed
}

func clerkClaims(sub, email string) jwt.MapClaims {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": sub,
		"iss": "https://clerk.listny.test",
		"sid": "sess_1",
		"iat": now.Unix(),
		"nbf": now.Add(-time.Minute).Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}
	return claims
}

func TestClerkVerifier(t *testing.T) {
	srv := newJWKSServer(t)
	verifier := NewClerkVerifier(ClerkConfig{SecretKey: "sk_test", APIURL: srv.URL, Timeout: time.Second}, "https://clerk.listny.test")
	ctx := context.Background()

	identity, err := verifier.Verify(ctx, srv.sign(t, clerkClaims("user_9", "a@b.test")))
	require.NoError(t, err)
	assert.Equal(t, catalog_models.Identity{UserID: "user_9", Email: "a@b.test"}, identity)

	// 公钥按 kid 缓存
	identity, err = verifier.Verify(ctx, srv.sign(t, clerkClaims("user_10", "")))
	require.NoError(t, err)
	assert.Equal(t, catalog_models.Identity{UserID: "user_10"}, identity)
	assert.Equal(t, int32(1), srv.hits.Load())

	expired := clerkClaims("user_9", "")
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	_, err = verifier.Verify(ctx, srv.sign(t, expired))
	assert.Error(t, err)

	foreign := clerkClaims("user_9", "")
	foreign["iss"] = "https://clerk.elsewhere.test"
	_, err = verifier.Verify(ctx, srv.sign(t, foreign))
	assert.Error(t, err)

	// 共享密钥签发的令牌不能冒充
	_, err = verifier.Verify(ctx, signHS256(t, validClaims("user_9", "")))
	assert.Error(t, err)
}

func TestClerkVerifier_RefetchesAfterTTL(t *testing.T) {
	srv := newJWKSServer(t)
	verifier := NewClerkVerifier(ClerkConfig{SecretKey: "sk_test", APIURL: srv.URL}, "")
	now := time.Now()
	verifier.now = func() time.Time { return now }

	token := srv.sign(t, clerkClaims("user_1", ""))
	_, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)

	now = now.Add(jwkCacheTTL + time.Minute)
	_, err = verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestNewTokenVerifier(t *testing.T) {
	_, err := NewTokenVerifier(AuthConfig{})
	assert.Error(t, err)

	v, err := NewTokenVerifier(AuthConfig{Clerk: ClerkConfig{SecretKey: "sk_test"}, HMACSecret: testSecret})
	require.NoError(t, err)
	assert.IsType(t, &ClerkVerifier{}, v)

	v, err = NewTokenVerifier(AuthConfig{HMACSecret: testSecret})
	require.NoError(t, err)
	assert.IsType(t, &hmacVerifier{}, v)
}

func TestRequireAdmin(t *testing.T) {
	t.Run("email claim", func(t *testing.T) {
		lookup := &stubLookup{}
		r := newAuthRouter(t, lookup)

		w := do(r, "/admin", signHS256(t, validClaims("u", "boss@listny.test")))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Zero(t, lookup.calls)

		w = do(r, "/admin", signHS256(t, validClaims("u", "fan@listny.test")))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("looked up email", func(t *testing.T) {
		lookup := &stubLookup{email: "boss@listny.test"}
		r := newAuthRouter(t, lookup)

		w := do(r, "/admin", signHS256(t, validClaims("u", "")))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, 1, lookup.calls)
	})

	t.Run("no email", func(t *testing.T) {
		r := newAuthRouter(t, &stubLookup{})
		w := do(r, "/admin", signHS256(t, validClaims("u", "")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("lookup failure", func(t *testing.T) {
		r := newAuthRouter(t, &stubLookup{err: errors.New("clerk down")})
		w := do(r, "/admin", signHS256(t, validClaims("u", "")))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "clerk down")
	})
}

func TestClerkUsers_PrimaryEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/user_1":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id":                       "user_1",
				"object":                   "user",
				"primary_email_address_id": "e2",
				"email_addresses": []map[string]string{
					{"id": "e1", "object": "email_address", "email_address": "old@listny.test"},
					{"id": "e2", "object": "email_address", "email_address": "main@listny.test"},
				},
			})
		case "/users/no_primary":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "no_primary", "object": "user"})
		case "/users/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[{"code":"resource_not_found","message":"not found"}]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"errors":[{"code":"internal_clerk_error","message":"boom"}]}`))
		}
	}))
	defer srv.Close()

	users := NewClerkUsers(ClerkConfig{SecretKey: "sk_test", APIURL: srv.URL, Timeout: time.Second})
	ctx := context.Background()

	email, err := users.PrimaryEmail(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "main@listny.test", email)

	email, err = users.PrimaryEmail(ctx, "no_primary")
	require.NoError(t, err)
	assert.Empty(t, email)

	email, err = users.PrimaryEmail(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, email)

	_, err = users.PrimaryEmail(ctx, "broken")
	assert.Error(t, err)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.Use(rl.Limit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, do(r, "/", "").Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, do(r, "/", "").Code)
}

func TestRateLimiter_CleanupDropsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("1.1.1.1"))
	now = now.Add(rl.idleTTL * 2)
	assert.True(t, rl.allow("2.2.2.2"))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.limiters, "1.1.1.1")
	assert.Contains(t, rl.limiters, "2.2.2.2")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(logger.Discard()))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := do(r, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
}
