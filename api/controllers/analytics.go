package controllers

import (
	"net/http"

	"github.com/subtrackr/backend/api/responses"
	"github.com/subtrackr/backend/internal/analytics"
	"github.com/subtrackr/backend/pkg/logger"
)

// AnalyticsOverview handles GET /api/v1/analytics.
func AnalyticsOverview(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		overview, err := svc.Overview(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}
