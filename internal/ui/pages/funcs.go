package pages

import (
	"html/template"
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/foodlog/foodlog/internal/model"
)

const badgeBase = "inline-flex items-center rounded-full bg-gradient-to-r px-2.5 py-0.5 text-xs font-semibold ring-1 ring-white/60"

var mealColors = map[model.MealType]string{
	model.MealBreakfast: "from-amber-200 to-yellow-200 text-amber-800",
	model.MealLunch:     "from-emerald-200 to-teal-200 text-emerald-800",
	model.MealDinner:    "from-indigo-200 to-blue-200 text-indigo-800",
	model.MealSnack:     "from-pink-200 to-fuchsia-200 text-pink-800",
}

// MealBadgeClass returns the badge classes for a meal. Unknown meals get the snack colours.
func MealBadgeClass(meal model.MealType) string {
	color, ok := mealColors[meal]
	if !ok {
		color = mealColors[model.MealSnack]
	}
	return twmerge.Merge(badgeBase, color)
}

// navClass highlights the link of the current page.
func navClass(current, href string) string {
	base := "rounded-full px-3 py-1.5 text-sm font-semibold text-slate-800 transition hover:bg-white"
	if current == href {
		return twmerge.Merge(base, "bg-white shadow")
	}
	return twmerge.Merge(base, "bg-white/70")
}

var funcs = template.FuncMap{
	"mealBadge": MealBadgeClass,
	"navClass":  navClass,
	"shortDate": func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"isoDate":   func(t time.Time) string { return t.Format(model.DateLayout) },
	"pageURL":   pageURL,
	"add":       func(a, b int) int { return a + b },
	"meals":     func() []model.MealType { return model.MealTypes },
	"genders":   func() []model.Gender { return model.Genders },
	"safeHTML":  func(s string) template.HTML { return template.HTML(s) },
}
