package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/foodlog/foodlog/internal/ctxkeys"
	"github.com/foodlog/foodlog/internal/model"
	"github.com/foodlog/foodlog/internal/service"
	"github.com/foodlog/foodlog/internal/ui"
	"github.com/foodlog/foodlog/internal/ui/pages"
)

type DashboardHandler struct {
	foodService *service.FoodService
}

func NewDashboardHandler(foodService *service.FoodService) *DashboardHandler {
	return &DashboardHandler{foodService: foodService}
}

func (h *DashboardHandler) list(r *http.Request) (*model.FoodPage, error) {
	user := ctxkeys.User(r.Context())
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}
	return h.foodService.List(r.Context(), user.ID, r.URL.Query().Get("q"), page)
}

func (h *DashboardHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	foods, err := h.list(r)
	if err != nil {
		slog.Error("failed to load foods", "error", err, "user_id", ctxkeys.User(r.Context()).ID)
		foods = service.Paginate(nil, 1, 1)
	}
	ui.Render(w, r, pages.Dashboard(foods))
}

// FoodList renders only the list, for search, paging and feed refreshes.
func (h *DashboardHandler) FoodList(w http.ResponseWriter, r *http.Request) {
	foods, err := h.list(r)
	if err != nil {
		slog.Error("failed to load foods", "error", err, "user_id", ctxkeys.User(r.Context()).ID)
		http.Error(w, "failed to load foods", http.StatusInternalServerError)
		return
	}
	ui.Render(w, r, pages.FoodList(foods))
}
