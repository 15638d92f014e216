package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/micro-hygiene/wiki/internal/logger"
	"github.com/micro-hygiene/wiki/internal/ui/client"
	"github.com/micro-hygiene/wiki/internal/ui/templates"
	"github.com/micro-hygiene/wiki/internal/ui/types"
)

// HomePage renders the latest tips (?page=n) or the results of a search (?q=).
// The categories sidebar is loaded alongside the tips; a failure of either only affects its own part of the page.
func (h *HandlerService) HomePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqLogger := logger.ContextRequestLogger(ctx)

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	page := types.ParsePage(r.URL.Query().Get("page"))

	view := templates.HomeView{Query: query}

	var (
		g             errgroup.Group
		tipsErr       error
		categoriesErr error
	)

	g.Go(func() error {
		if query != "" {
			results, err := h.ApiClient.SearchTips(ctx, query)
			if err != nil {
				tipsErr = err
				return nil
			}
			view.Tips = results
			view.TotalTips = len(results)
			return nil
		}

		res, err := h.ApiClient.GetTips(ctx, page)
		if err != nil {
			tipsErr = err
			return nil
		}
		view.Tips = res.Results
		view.TotalTips = res.Count
		view.Pager = tipsPager(res)
		return nil
	})

	g.Go(func() error {
		categories, err := h.ApiClient.GetCategories(ctx)
		if err != nil {
			categoriesErr = err
			return nil
		}
		view.Categories = categories
		return nil
	})

	_ = g.Wait()

	status := http.StatusOK

	if tipsErr != nil {
		if query == "" && pageOutOfRange(page, tipsErr) {
			reqLogger.Info("Tips page out of range", slog.Int("page", page), slog.Int("api_status", client.StatusCode(tipsErr)))
			h.NotFoundPage(w, r)
			return
		}

		if query != "" {
			reqLogger.Error("Failed to search tips", slog.String("query", query), slog.String("error", tipsErr.Error()))
			view.TipsError = "Search failed. Please try again."
		} else {
			reqLogger.Error("Failed to load tips", slog.Int("page", page), slog.String("error", tipsErr.Error()))
			view.TipsError = "Failed to load tips. Please try again."
		}
		status = pageStatus(tipsErr)
	}

	if categoriesErr != nil {
		reqLogger.Warn("Failed to load categories", slog.String("error", categoriesErr.Error()))
		view.CategoriesError = "Categories are unavailable right now."
	}

	h.render(w, r, status, templates.HomePage(view), "home page")
}

// pageOutOfRange reports whether a failed request for a page past the first asked for a page past the end of the list.
// The API answers such a page with a 404, or with a server error when its paginator raises.
func pageOutOfRange(page int, err error) bool {
	if page <= 1 {
		return false
	}
	code := client.StatusCode(err)
	return code == http.StatusNotFound || code >= http.StatusInternalServerError
}

// tipsPager follows the next/previous links of the API envelope rather than recomputing them
func tipsPager(res *client.TipListResponse) types.Pager {
	p := types.Pager{
		Path:    "/",
		Current: res.CurrentPage,
		Total:   res.TotalPages,
	}
	if res.Previous != nil {
		p.Previous = *res.Previous
	}
	if res.Next != nil {
		p.Next = *res.Next
	}
	return p
}
