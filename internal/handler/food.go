package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/foodlog/foodlog/internal/ctxkeys"
	"github.com/foodlog/foodlog/internal/model"
	"github.com/foodlog/foodlog/internal/service"
	"github.com/foodlog/foodlog/internal/ui"
	"github.com/foodlog/foodlog/internal/ui/pages"
)

type FoodHandler struct {
	foodService *service.FoodService
}

func NewFoodHandler(foodService *service.FoodService) *FoodHandler {
	return &FoodHandler{foodService: foodService}
}

func addFoodForm() pages.FoodFormData {
	return pages.FoodFormData{
		Title:  "Add Food",
		Action: "/addfood",
		Submit: "Add Food",
		Date:   time.Now().Format(model.DateLayout),
	}
}

func updateFoodForm(food *model.Food) pages.FoodFormData {
	return pages.FoodFormData{
		Title:    "Update Food",
		Action:   "/updatefood/" + food.ID,
		Submit:   "Save Changes",
		Name:     food.Name,
		Meal:     string(food.Meal),
		Date:     food.DateString(),
		ImageURL: food.ImageURL,
	}
}

// readFoodForm fills data with the submitted values and returns the service form.
func readFoodForm(r *http.Request, data *pages.FoodFormData) (service.FoodForm, func(), error) {
	data.Name = r.FormValue("name")
	data.Meal = r.FormValue("meal")
	data.Date = r.FormValue("date")

	img, done, err := formImage(r, "image")
	if err != nil {
		return service.FoodForm{}, done, err
	}
	return service.FoodForm{Name: data.Name, Meal: data.Meal, Date: data.Date, Image: img}, done, nil
}

func (h *FoodHandler) AddFoodPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.FoodForm(addFoodForm()))
}

func (h *FoodHandler) AddFood(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	data := addFoodForm()

	err := parseForm(r)
	if err != nil {
		data.Error = "Failed to parse form"
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.FoodForm(data))
		return
	}

	form, done, err := readFoodForm(r, &data)
	defer done()
	if err != nil {
		data.Error = err.Error()
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.FoodForm(data))
		return
	}

	_, err = h.foodService.Create(r.Context(), user.ID, form)
	if err != nil {
		data.Error = errorMessage(err, "Failed to save food. Please try again.")
		if data.Error != err.Error() {
			slog.Error("failed to create food", "error", err, "user_id", user.ID)
		}
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.FoodForm(data))
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *FoodHandler) UpdateFoodPage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	food, err := h.foodService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		if !errors.Is(err, service.ErrFoodNotFound) {
			slog.Error("failed to load food", "error", err, "user_id", user.ID)
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	ui.Render(w, r, pages.FoodForm(updateFoodForm(food)))
}

func (h *FoodHandler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	foodID := r.PathValue("id")

	food, err := h.foodService.ByID(r.Context(), user.ID, foodID)
	if err != nil {
		if !errors.Is(err, service.ErrFoodNotFound) {
			slog.Error("failed to load food", "error", err, "user_id", user.ID)
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	data := updateFoodForm(food)

	err = parseForm(r)
	if err != nil {
		data.Error = "Failed to parse form"
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.FoodForm(data))
		return
	}

	form, done, err := readFoodForm(r, &data)
	defer done()
	if err != nil {
		data.Error = err.Error()
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.FoodForm(data))
		return
	}

	_, err = h.foodService.Update(r.Context(), user.ID, foodID, form)
	if err != nil {
		if errors.Is(err, service.ErrFoodNotFound) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		data.Error = errorMessage(err, "Failed to save food. Please try again.")
		if data.Error != err.Error() {
			slog.Error("failed to update food", "error", err, "user_id", user.ID, "food_id", foodID)
		}
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.FoodForm(data))
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// DeleteFood answers an empty 200 so htmx drops the row.
func (h *FoodHandler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	foodID := r.PathValue("id")

	err := h.foodService.Delete(r.Context(), user.ID, foodID)
	if err != nil {
		if errors.Is(err, service.ErrFoodNotFound) {
			ui.RenderStatus(w, r, http.StatusNotFound, pages.Toast("That entry no longer exists.", true))
			return
		}
		slog.Error("failed to delete food", "error", err, "user_id", user.ID, "food_id", foodID)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Toast("Failed to delete food.", true))
		return
	}

	w.WriteHeader(http.StatusOK)
}
