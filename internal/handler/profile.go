package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/foodlog/foodlog/internal/ctxkeys"
	"github.com/foodlog/foodlog/internal/model"
	"github.com/foodlog/foodlog/internal/service"
	"github.com/foodlog/foodlog/internal/ui"
	"github.com/foodlog/foodlog/internal/ui/pages"
)

type ProfileHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewProfileHandler(authService *service.AuthService, userService *service.UserService) *ProfileHandler {
	return &ProfileHandler{authService: authService, userService: userService}
}

func profileData(profile *model.Profile) pages.ProfileData {
	return pages.ProfileData{
		FullName:  profile.FullName,
		Gender:    profile.GenderValue(),
		Email:     profile.Email,
		AvatarURL: profile.AvatarURL,
	}
}

func (h *ProfileHandler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Profile(profileData(ctxkeys.Profile(r.Context()))))
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	data := profileData(ctxkeys.Profile(r.Context()))

	err := parseForm(r)
	if err != nil {
		data.Error = "Failed to parse form"
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Profile(data))
		return
	}

	data.FullName = strings.TrimSpace(r.FormValue("fullname"))
	data.Gender = r.FormValue("gender")
	data.Email = strings.TrimSpace(r.FormValue("email"))

	avatar, done, err := formImage(r, "avatar")
	defer done()
	if err != nil {
		data.Error = err.Error()
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.Profile(data))
		return
	}

	result, err := h.userService.UpdateProfile(r.Context(), user.ID, service.ProfileForm{
		FullName: data.FullName,
		Gender:   data.Gender,
		Email:    data.Email,
		Password: r.FormValue("password"),
		Avatar:   avatar,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			data.Error = "That email is already registered to another account."
		default:
			data.Error = errorMessage(err, "Failed to save profile. Please try again.")
			if data.Error != err.Error() {
				slog.Error("failed to update profile", "error", err, "user_id", user.ID)
			}
		}
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.Profile(data))
		return
	}

	if result.PasswordChanged {
		h.authService.ClearJWTCookie(w)
		http.Redirect(w, r, "/login?pw_changed=1", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
