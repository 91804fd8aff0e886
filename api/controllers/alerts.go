package controllers

import (
	"net/http"

	"github.com/subtrackr/backend/api/responses"
	"github.com/subtrackr/backend/api/validators"
	"github.com/subtrackr/backend/internal/alerts"
	"github.com/subtrackr/backend/pkg/config"
	"github.com/subtrackr/backend/pkg/logger"
)

const maxAlertThresholdDays = 365

// AlertsUpcoming handles GET /api/v1/alerts?threshold=N. A threshold of zero
// is honored as a today-only query; the configured default applies only when
// the parameter is absent.
func AlertsUpcoming(svc alerts.Service, cfg config.AlertsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		threshold, err := validators.ParseQueryInt(r, "threshold", cfg.ThresholdDays, 0, maxAlertThresholdDays)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Upcoming(r.Context(), userID, threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AlertsDecision handles GET /api/v1/alerts/decision.
func AlertsDecision(svc alerts.Service, cfg config.AlertsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		threshold, err := validators.ParseQueryInt(r, "threshold", cfg.ThresholdDays, 0, maxAlertThresholdDays)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		decision, err := svc.Decide(r.Context(), userID, threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, decision)
	}
}

// AlertsAcknowledge handles POST /api/v1/alerts/ack, recording that alerts
// were shown so the decision endpoint throttles until tomorrow.
func AlertsAcknowledge(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Acknowledge(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "acknowledged"})
	}
}
