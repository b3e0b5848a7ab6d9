package handler

import (
	"net/http"

	"github.com/foodlog/foodlog/internal/ctxkeys"
	"github.com/foodlog/foodlog/internal/service"
	"github.com/foodlog/foodlog/internal/ui"
	"github.com/foodlog/foodlog/internal/ui/pages"
)

type HomeHandler struct {
	content *service.ContentService
}

func NewHomeHandler(content *service.ContentService) *HomeHandler {
	return &HomeHandler{content: content}
}

func pageData(page *service.ContentPage) pages.HomeData {
	return pages.HomeData{
		Title:       page.Title,
		Description: page.Description,
		CTA:         page.CTA,
		HTML:        page.HTML,
	}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	data := pages.HomeData{Title: "FoodLog"}
	if cfg := ctxkeys.Config(r.Context()); cfg != nil {
		data.Title = cfg.AppName
		data.Description = cfg.AppTagline
	}

	if page, ok := h.content.Page("home"); ok {
		data = pageData(page)
	}

	ui.Render(w, r, pages.Home(data))
}

// ContentPage serves one markdown page from the content directory.
func (h *HomeHandler) ContentPage(w http.ResponseWriter, r *http.Request) {
	page, ok := h.content.Page(r.PathValue("slug"))
	if !ok {
		h.NotFoundPage(w, r)
		return
	}
	ui.Render(w, r, pages.ContentPage(pageData(page)))
}

// Robots keeps crawlers on the public pages.
func (h *HomeHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(`User-agent: *
Allow: /
Disallow: /dashboard
Disallow: /addfood
Disallow: /updatefood/
Disallow: /profile
Disallow: /api/
`))
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
}
