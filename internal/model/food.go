package model

import (
	"time"
)

type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnack     MealType = "Snack"
)

var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// DateLayout is the wire and storage format of Food.EatenOn.
const DateLayout = "2006-01-02"

type Food struct {
	ID        string
	UserID    string
	Name      string
	Meal      MealType
	EatenOn   time.Time
	ImageRef  *string // Absolute URL or path inside the food bucket
	CreatedAt time.Time
	UpdatedAt time.Time

	// Computed fields (not in database)
	ImageURL string
}

func (f *Food) DateString() string {
	return f.EatenOn.Format(DateLayout)
}

// FoodPage is one page of a filtered, sorted food list.
type FoodPage struct {
	Items      []*Food
	Query      string
	Page       int
	TotalPages int
	Total      int
	From       int // 1-based index of the first item shown, 0 when empty
	To         int
}

func (p *FoodPage) HasPrev() bool { return p.Page > 1 }
func (p *FoodPage) HasNext() bool { return p.Page < p.TotalPages }
