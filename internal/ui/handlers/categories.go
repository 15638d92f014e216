package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	wiki "github.com/micro-hygiene/wiki"
	"github.com/micro-hygiene/wiki/internal/logger"
	"github.com/micro-hygiene/wiki/internal/ui/templates"
	"github.com/micro-hygiene/wiki/internal/ui/types"
	"github.com/micro-hygiene/wiki/internal/ui/urls"
)

func (h *HandlerService) CategoriesPage(w http.ResponseWriter, r *http.Request) {
	categories, err := h.ApiClient.GetCategories(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err, "Failed to load categories. Please try again.")
		return
	}

	h.render(w, r, http.StatusOK, templates.CategoriesPage(categories), "categories page")
}

// CategoryPage renders a category with its tips. The API returns every tip of the category, the page is sliced here.
func (h *HandlerService) CategoryPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	logger.ContextWithLogAttrs(r.Context(), slog.String("category", slug))

	category, err := h.ApiClient.GetCategory(r.Context(), slug)
	if err != nil {
		h.renderLoadError(w, r, err, "Failed to load category. Please try again.")
		return
	}

	page := types.Paginate(category.Tips, types.ParsePage(r.URL.Query().Get("page")), wiki.PageSize, urls.CategoryURL(category.Slug))

	h.render(w, r, http.StatusOK, templates.CategoryPage(category, page), "category page")
}
