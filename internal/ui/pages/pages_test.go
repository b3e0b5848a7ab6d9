package pages

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/foodlog/foodlog/internal/ctxkeys"
	"github.com/foodlog/foodlog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func signedIn() context.Context {
	ctx := context.Background()
	ctx = ctxkeys.WithUser(ctx, &model.User{ID: "u1", Email: "ana@example.com"})
	ctx = ctxkeys.WithProfile(ctx, &model.Profile{UserID: "u1", FullName: "Ana Lima", AvatarURL: "https://cdn.test/a.png"})
	ctx = ctxkeys.WithCSRFToken(ctx, "tok123")
	return templ.WithNonce(ctx, "n0nce")
}

func TestAllPagesRender(t *testing.T) {
	ctx := signedIn()
	page := &model.FoodPage{Page: 1, TotalPages: 1}

	for name, c := range map[string]templ.Component{
		"home":      Home(HomeData{Title: "FoodLog", HTML: "<p>hi</p>"}),
		"login":     Login(AuthForm{Email: "ana@example.com", Notice: "Password changed"}),
		"register":  Register(AuthForm{Gender: "female"}),
		"dashboard": Dashboard(page),
		"food_form": FoodForm(FoodFormData{Title: "Add Food", Action: "/addfood", Submit: "Save", Meal: "Lunch"}),
		"profile":   Profile(ProfileData{Email: "ana@example.com", Gender: "other"}),
		"not_found": NotFound(),
	} {
		t.Run(name, func(t *testing.T) {
			html := render(t, ctx, c)
			assert.Contains(t, html, `nonce="n0nce"`)
			assert.Contains(t, html, "tok123")
			assert.Contains(t, html, "Ana Lima")
		})
	}
}

func TestGenderOptionsSelected(t *testing.T) {
	html := render(t, signedIn(), Profile(ProfileData{Email: "ana@example.com", Gender: "female"}))
	assert.Contains(t, html, `<option value="female" selected>`)
	assert.NotContains(t, html, `<option value="male" selected>`)
	assert.NotContains(t, html, `<option value="" selected>`)

	html = render(t, signedIn(), Register(AuthForm{}))
	assert.Contains(t, html, `<option value="" selected>`)
}

func TestDashboardList(t *testing.T) {
	ref := "u1/food-1.png"
	page := &model.FoodPage{
		Items: []*model.Food{{
			ID:       "f1",
			Name:     `Pancakes <b>`,
			Meal:     model.MealBreakfast,
			EatenOn:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			ImageRef: &ref,
			ImageURL: "https://storage.test/foods/u1/food-1.png",
		}},
		Query:      "pan",
		Page:       2,
		TotalPages: 3,
		Total:      15,
		From:       8,
		To:         14,
	}

	html := render(t, signedIn(), FoodList(page))
	assert.Contains(t, html, `id="food-list"`)
	assert.Contains(t, html, `hx-sync="this:replace"`)
	assert.Contains(t, html, "Pancakes &lt;b&gt;")
	assert.Contains(t, html, `hx-delete="/foods/f1"`)
	assert.Contains(t, html, "Showing 8 to 14 of 15")
	assert.Contains(t, html, "/dashboard/foods?page=3&amp;q=pan")
	assert.Contains(t, html, "/dashboard/foods?q=pan")
	assert.Contains(t, html, "from-amber-200")
	assert.NotContains(t, html, "<html")
}

func TestDashboardEmpty(t *testing.T) {
	html := render(t, signedIn(), FoodList(&model.FoodPage{Query: "pizza", Page: 1, TotalPages: 1}))
	assert.Contains(t, html, "No foods match")
	assert.NotContains(t, html, "Next")
}

func TestGuestNav(t *testing.T) {
	html := render(t, context.Background(), Login(AuthForm{Error: "invalid email or password"}))
	assert.Contains(t, html, `href="/register"`)
	assert.Contains(t, html, "invalid email or password")
	assert.NotContains(t, html, "Logout")
}

func TestMealBadgeClass(t *testing.T) {
	assert.Contains(t, MealBadgeClass(model.MealDinner), "text-indigo-800")
	assert.Equal(t, MealBadgeClass(model.MealSnack), MealBadgeClass(model.MealType("Brunch")))
}

func TestToast(t *testing.T) {
	html := render(t, context.Background(), Toast("Food deleted", false))
	assert.Contains(t, html, "Food deleted")
	assert.NotContains(t, html, "<html")
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "/dashboard", pageURL("/dashboard", "", 1))
	assert.Equal(t, "/dashboard?page=2", pageURL("/dashboard", "", 2))
	assert.Equal(t, "/dashboard?page=2&q=green+tea", pageURL("/dashboard", "green tea", 2))
}
