package pages

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/foodlog/foodlog/internal/model"
)

type HomeData struct {
	Title       string
	Description string
	CTA         string
	HTML        string // rendered markdown
}

func Home(data HomeData) templ.Component {
	return pageComponent("home", data)
}

// ContentPage renders a markdown page without the landing call to action.
func ContentPage(data HomeData) templ.Component {
	return pageComponent("page", data)
}

// AuthForm backs both the login and the register page.
type AuthForm struct {
	Email    string
	FullName string
	Gender   string
	Error    string
	Notice   string
}

func Login(form AuthForm) templ.Component {
	return pageComponent("login", form)
}

func Register(form AuthForm) templ.Component {
	return pageComponent("register", form)
}

func Dashboard(page *model.FoodPage) templ.Component {
	return pageComponent("dashboard", page)
}

// FoodList is the list fragment the dashboard swaps on search, paging and feed events.
func FoodList(page *model.FoodPage) templ.Component {
	return component("dashboard", "food-list", page)
}

type FoodFormData struct {
	Title    string
	Action   string
	Submit   string
	Name     string
	Meal     string
	Date     string
	ImageURL string // current photo when editing
	Error    string
}

func FoodForm(data FoodFormData) templ.Component {
	return pageComponent("food_form", data)
}

type ProfileData struct {
	FullName  string
	Gender    string
	Email     string
	AvatarURL string
	Error     string
}

func Profile(data ProfileData) templ.Component {
	return pageComponent("profile", data)
}

func NotFound() templ.Component {
	return pageComponent("not_found", nil)
}

type ToastData struct {
	Message string
	Error   bool
}

// Toast renders a dismissible notice, usually swapped out of band into #toasts.
func Toast(message string, isError bool) templ.Component {
	return component("not_found", "toast", ToastData{Message: message, Error: isError})
}

// pageURL builds a dashboard list URL keeping the search query.
func pageURL(base, query string, page int) string {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return base
	}
	return base + "?" + v.Encode()
}
