package catalog

import (
	"net/http"
	"strconv"

	"github.com/noah-isme/shopfront/internal/common"
)

// Handler exposes the catalog over HTTP.
type Handler struct {
	Store *Store
}

// List returns the in-memory product list, triggering a best-effort fetch first.
func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog store not configured", nil)
		return
	}
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 0)
	products := h.Store.FetchAll(r.Context(), page, limit)
	common.Data(w, http.StatusOK, products)
}

// Refresh re-fetches the catalog; unlike List it surfaces fetch failures.
func (h Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog store not configured", nil)
		return
	}
	products, err := h.Store.Refresh(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusBadGateway, "UPSTREAM", "unable to refresh catalog", nil)
		return
	}
	common.Data(w, http.StatusOK, products)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
