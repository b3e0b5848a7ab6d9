package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/foodlog/foodlog/internal/config"
	"github.com/foodlog/foodlog/internal/ctxkeys"
	"github.com/foodlog/foodlog/internal/service"
	"github.com/foodlog/foodlog/internal/ui"
	"github.com/foodlog/foodlog/internal/ui/pages"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookie = "oauth_state"
	googleUserInfo   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type AuthHandler struct {
	authService       *service.AuthService
	googleOAuthConfig *oauth2.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	h := &AuthHandler{authService: authService}
	if cfg.GoogleEnabled() {
		h.googleOAuthConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		}
	}
	return h
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	form := pages.AuthForm{}
	if r.URL.Query().Get("pw_changed") == "1" {
		form.Notice = "Your password was changed. Please sign in again."
	}
	ui.Render(w, r, pages.Login(form))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	user, err := h.authService.Login(r.Context(), email, password)
	if err != nil {
		msg := errorMessage(err, "Something went wrong. Please try again.")
		if errors.Is(err, service.ErrInvalidCredentials) {
			msg = "Invalid email or password"
		} else if msg != err.Error() {
			slog.Error("login failed", "error", err)
		}
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.Login(pages.AuthForm{Email: email, Error: msg}))
		return
	}

	err = h.authService.StartSession(w, user)
	if err != nil {
		slog.Error("failed to start session", "error", err, "user_id", user.ID)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Login(pages.AuthForm{Email: email, Error: "Something went wrong. Please try again."}))
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Register(pages.AuthForm{}))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Register(pages.AuthForm{Error: "Failed to parse form"}))
		return
	}

	form := pages.AuthForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		FullName: strings.TrimSpace(r.FormValue("fullname")),
		Gender:   r.FormValue("gender"),
	}

	avatar, done, err := formImage(r, "avatar")
	if err != nil {
		form.Error = err.Error()
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.Register(form))
		return
	}
	defer done()

	user, err := h.authService.Register(r.Context(), service.RegisterForm{
		Email:    form.Email,
		Password: r.FormValue("password"),
		FullName: form.FullName,
		Gender:   form.Gender,
		Avatar:   avatar,
	})
	if err != nil {
		form.Error = errorMessage(err, "Registration failed. Please try again.")
		if form.Error != err.Error() {
			slog.Error("registration failed", "error", err)
		}
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.Register(form))
		return
	}

	err = h.authService.StartSession(w, user)
	if err != nil {
		slog.Error("failed to start session", "error", err, "user_id", user.ID)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuthConfig == nil {
		ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
		return
	}

	state := generateOAuthState()

	cfg := ctxkeys.Config(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg != nil && cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	http.Redirect(w, r, h.googleOAuthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	failed := func() {
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Login(pages.AuthForm{Error: "Google sign-in failed. Please try again."}))
	}

	if h.googleOAuthConfig == nil {
		ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		slog.Warn("google oauth state validation failed", "error", err)
		failed()
		return
	}

	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("google oauth callback missing code")
		failed()
		return
	}

	token, err := h.googleOAuthConfig.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("google oauth token exchange failed", "error", err)
		failed()
		return
	}

	resp, err := h.googleOAuthConfig.Client(r.Context(), token).Get(googleUserInfo)
	if err != nil {
		slog.Error("failed to get google user info", "error", err)
		failed()
		return
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	var userInfo struct {
		Email string `json:"email"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		slog.Error("failed to decode google user info", "error", err)
		failed()
		return
	}

	user, err := h.authService.AuthenticateOAuth(r.Context(), userInfo.Email, "google")
	if err != nil {
		slog.Error("oauth authentication failed", "error", err)
		failed()
		return
	}

	err = h.authService.StartSession(w, user)
	if err != nil {
		slog.Error("failed to start session", "error", err, "user_id", user.ID)
		failed()
		return
	}

	slog.Info("user logged in with google oauth", "user_id", user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func generateOAuthState() string {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
