package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/foodlog/foodlog/internal/ctxkeys"
	"github.com/foodlog/foodlog/internal/service"
)

type APIHandler struct {
	authService *service.AuthService
}

func NewAPIHandler(authService *service.AuthService) *APIHandler {
	return &APIHandler{authService: authService}
}

type updateEmailRequest struct {
	UserID   *string `json:"userId"`
	NewEmail *string `json:"newEmail"`
}

type apiUser struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// UpdateEmail sets a new, already confirmed email for the signed-in user and
// mirrors it into the profile.
func (h *APIHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	var req updateEmailRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req)
	if err != nil || req.UserID == nil || req.NewEmail == nil || strings.TrimSpace(*req.UserID) == "" {
		writeJSONError(w, http.StatusBadRequest, "missing or invalid userId/newEmail")
		return
	}

	user := ctxkeys.User(r.Context())
	if *req.UserID != user.ID {
		slog.Warn("email change for another user rejected", "user_id", user.ID)
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	updated, err := h.authService.ChangeEmail(r.Context(), user.ID, strings.TrimSpace(*req.NewEmail))
	if err != nil {
		var inputErr *service.InputError
		switch {
		case errors.As(err, &inputErr):
			writeJSONError(w, http.StatusBadRequest, inputErr.Error())
		case errors.Is(err, service.ErrEmailAlreadyExists), errors.Is(err, service.ErrUserNotFound):
			writeJSONError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to change email", "error", err, "user_id", user.ID)
			writeJSONError(w, http.StatusInternalServerError, "failed to update email")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"user": apiUser{
			ID:              updated.ID,
			Email:           updated.Email,
			EmailVerifiedAt: updated.EmailVerifiedAt,
		},
	})
}
