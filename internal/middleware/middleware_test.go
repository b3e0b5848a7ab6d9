package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/foodlog/foodlog/internal/config"
	"github.com/foodlog/foodlog/internal/ctxkeys"
	"github.com/foodlog/foodlog/internal/model"
	"github.com/foodlog/foodlog/internal/repository"
	"github.com/foodlog/foodlog/internal/service"
	"github.com/foodlog/foodlog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(ok)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/dashboard/foods", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "u1"}))
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireGuest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "u1"}))
	rec := httptest.NewRecorder()
	RequireGuest(ok)(rec, req)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestRequireAPIAuth(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireAPIAuth(ok)(rec, httptest.NewRequest(http.MethodPost, "/api/update-email", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"not signed in"}`, rec.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	conn := testutil.NewDB(t)
	users := repository.NewUserRepository(conn)
	profiles := repository.NewProfileRepository(conn)
	avatars := testutil.NewMemoryStorage("avatars")
	email := service.NewEmailService("", "", "", "FoodLog", true)
	auth := service.NewAuthService(users, profiles, service.NewFileService(avatars, "avatars"), email, "secret", false, time.Hour)
	userService := service.NewUserService(users, profiles, auth, service.NewFileService(avatars, "avatars"), service.NewAvatarResolver(avatars, time.Minute))

	user := testutil.CreateUser(t, conn, "ana@example.com")
	token, err := auth.GenerateJWT(user)
	require.NoError(t, err)

	var seen *model.User
	var seenProfile *model.Profile
	h := AuthMiddleware(auth, userService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.User(r.Context())
		seenProfile = ctxkeys.Profile(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: token})
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)
	assert.Nil(t, seen.PasswordHash)
	require.NotNil(t, seenProfile)
	assert.Equal(t, service.AvatarPlaceholder, seenProfile.AvatarURL)

	seen = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Nil(t, seen)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), service.AuthCookieName+"=;")
}

func TestCSRFProtection(t *testing.T) {
	var token string
	h := CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = ctxkeys.CSRFToken(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/addfood", nil))
	require.NotEmpty(t, token)
	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, csrfCookieName, cookie.Name)

	// missing token
	req := httptest.NewRequest(http.MethodPost, "/addfood", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// header
	req = httptest.NewRequest(http.MethodDelete, "/foods/1", nil)
	req.AddCookie(cookie)
	req.Header.Set(CSRFHeader, cookie.Value)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// form field
	form := url.Values{"csrf_token": {cookie.Value}}
	req = httptest.NewRequest(http.MethodPost, "/addfood", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"))

	now = now.Add(time.Hour)
	rl.Cleanup()
	assert.Empty(t, rl.requests)
}

func TestRateLimiterLetsPagesThrough(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := rl.Limit(ok)

	for range 3 {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.Config{AppEnv: "production", S3Endpoint: "http://localhost:9000"}
	h := Chain(http.HandlerFunc(ok), Config(cfg), NonceMiddleware, SecurityHeaders)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "'nonce-")
	assert.Contains(t, csp, "http://localhost:9000")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(http.HandlerFunc(ok), mark("a"), mark("b"), mark("c")).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestRequestLoggingPassesStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	RequestLogging(mux)(mux).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
