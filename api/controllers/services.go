package controllers

import (
	"net/http"

	"github.com/subtrackr/backend/api/responses"
	"github.com/subtrackr/backend/internal/services"
	"github.com/subtrackr/backend/pkg/logger"
)

// ServiceCatalogList handles GET /api/v1/services.
func ServiceCatalogList(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalog, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog)
	}
}
