package validation

import (
	"errors"
	"strings"
	"time"

	"github.com/foodlog/foodlog/internal/model"
)

func ValidateMeal(meal string) (model.MealType, error) {
	if meal == "" {
		return "", errors.New("meal is required")
	}
	m := model.MealType(meal)
	if !m.Valid() {
		return "", errors.New("meal must be Breakfast, Lunch, Dinner or Snack")
	}
	return m, nil
}

func ValidateFoodDate(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, errors.New("date is required")
	}
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return time.Time{}, errors.New("date must be in YYYY-MM-DD format")
	}
	return t, nil
}
