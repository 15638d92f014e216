package handlers

import (
	"net/http"

	"github.com/micro-hygiene/wiki/internal/ui/client"
	"github.com/micro-hygiene/wiki/internal/ui/templates"
)

// ProductsPage lists the active affiliate products
func (h *HandlerService) ProductsPage(w http.ResponseWriter, r *http.Request) {
	products, err := h.ApiClient.GetAffiliateProducts(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err, "Failed to load products. Please try again.")
		return
	}

	active := make([]client.AffiliateProduct, 0, len(products))
	for _, p := range products {
		if p.IsActive {
			active = append(active, p)
		}
	}

	h.render(w, r, http.StatusOK, templates.ProductsPage(active), "products page")
}
