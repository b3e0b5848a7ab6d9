package routes

import (
	"net/http"
	"time"

	"github.com/foodlog/foodlog/assets"
	"github.com/foodlog/foodlog/internal/app"
	"github.com/foodlog/foodlog/internal/handler"
	"github.com/foodlog/foodlog/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes builds the mux and wraps it in the global middleware.
// The returned limiter must be run by the caller to expire old entries.
func SetupRoutes(app *app.App) (http.Handler, *middleware.RateLimiter) {
	home := handler.NewHomeHandler(app.ContentService)
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg)
	dashboard := handler.NewDashboardHandler(app.FoodService)
	food := handler.NewFoodHandler(app.FoodService)
	profile := handler.NewProfileHandler(app.AuthService, app.UserService)
	api := handler.NewAPIHandler(app.AuthService)
	feed := handler.NewFeedHandler(app.Hub, app.Cfg.AppURL)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(assets.AssetsFS))))

	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	mux.HandleFunc("GET /{$}", home.HomePage)
	mux.HandleFunc("GET /pages/{slug}", home.ContentPage)
	mux.HandleFunc("GET /robots.txt", home.Robots)

	// Auth (rate limited: 10 submissions per 15 minutes per IP)
	limiter := middleware.NewRateLimiter(10, 15*time.Minute)

	mux.HandleFunc("GET /login", middleware.RequireGuest(auth.LoginPage))
	mux.HandleFunc("POST /login", limiter.Limit(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("GET /register", middleware.RequireGuest(auth.RegisterPage))
	mux.HandleFunc("POST /register", limiter.Limit(middleware.RequireGuest(auth.Register)))
	mux.HandleFunc("GET /auth/google", middleware.RequireGuest(auth.GoogleAuth))
	mux.HandleFunc("GET /auth/google/callback", auth.GoogleCallback)
	mux.HandleFunc("POST /logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /dashboard", middleware.RequireAuth(dashboard.DashboardPage))
	mux.HandleFunc("GET /dashboard/foods", middleware.RequireAuth(dashboard.FoodList))
	mux.HandleFunc("GET /feed", middleware.RequireAuth(feed.Feed))

	mux.HandleFunc("GET /addfood", middleware.RequireAuth(food.AddFoodPage))
	mux.HandleFunc("POST /addfood", middleware.RequireAuth(food.AddFood))
	mux.HandleFunc("GET /updatefood/{id}", middleware.RequireAuth(food.UpdateFoodPage))
	mux.HandleFunc("POST /updatefood/{id}", middleware.RequireAuth(food.UpdateFood))
	mux.HandleFunc("DELETE /foods/{id}", middleware.RequireAuth(food.DeleteFood))

	mux.HandleFunc("GET /profile", middleware.RequireAuth(profile.ProfilePage))
	mux.HandleFunc("POST /profile", middleware.RequireAuth(profile.UpdateProfile))

	mux.HandleFunc("POST /api/update-email", middleware.RequireAPIAuth(api.UpdateEmail))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (needed by SecurityHeaders for S3 endpoint)
		middleware.NonceMiddleware,
		middleware.SecurityHeaders,
		middleware.RequestLogging(mux),
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService, app.UserService),
		middleware.WithURLPath,
	)

	return handler, limiter
}
