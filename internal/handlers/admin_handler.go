package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/BradenHooton/sitebase/internal/admin"
	"github.com/BradenHooton/sitebase/internal/services"
	pkghttp "github.com/BradenHooton/sitebase/pkg/http"
	"github.com/go-chi/chi/v5"
)

// AdminServiceInterface defines the generic back-office contract.
type AdminServiceInterface interface {
	Models() []services.ModelSummary
	Fieldsets(name string) ([]admin.Fieldset, error)
	List(ctx context.Context, name string, q admin.ListQuery) (*admin.ListResult, error)
}

// AdminHandler serves the generic list and fieldset views of registered models.
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// reserved query parameters; every other parameter is a list filter
var listParams = map[string]bool{"q": true, "limit": true, "offset": true, "all": true}

// RegisterRoutes registers the index and a static list and fieldsets route per model,
// so they take precedence over entity routes such as /users/{id}.
func (h *AdminHandler) RegisterRoutes(router chi.Router) {
	router.Get("/", h.Index)
	for _, m := range h.service.Models() {
		name := m.Name
		router.Get("/"+name, func(w http.ResponseWriter, r *http.Request) { h.List(w, r, name) })
		router.Get("/"+name+"/fieldsets", func(w http.ResponseWriter, r *http.Request) { h.Fieldsets(w, r, name) })
	}
}

// Index handles GET /admin/
func (h *AdminHandler) Index(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"models": h.service.Models()})
}

// List handles GET /admin/{model}?q=&limit=&offset=&all=&<filter>=
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request, model string) {
	query := r.URL.Query()

	q := admin.ListQuery{
		Search:  query.Get("q"),
		Filters: make(map[string]string),
	}

	var err error
	if q.Limit, err = intParam(query.Get("limit")); err != nil {
		pkghttp.WriteValidationError(w, "limit", "must be a non-negative integer")
		return
	}
	if q.Offset, err = intParam(query.Get("offset")); err != nil {
		pkghttp.WriteValidationError(w, "offset", "must be a non-negative integer")
		return
	}
	if all := query.Get("all"); all != "" {
		if q.IncludeDeleted, err = strconv.ParseBool(all); err != nil {
			pkghttp.WriteValidationError(w, "all", "must be true or false")
			return
		}
	}

	for key, values := range query {
		if listParams[key] || len(values) == 0 {
			continue
		}
		q.Filters[key] = values[0]
	}

	result, err := h.service.List(r.Context(), model, q)
	if err != nil {
		writeServiceError(w, err, "Model not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}

// Fieldsets handles GET /admin/{model}/fieldsets
func (h *AdminHandler) Fieldsets(w http.ResponseWriter, r *http.Request, model string) {
	fieldsets, err := h.service.Fieldsets(model)
	if err != nil {
		writeServiceError(w, err, "Model not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"model": model, "fieldsets": fieldsets})
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
