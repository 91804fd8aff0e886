package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/subtrackr/backend/api/controllers"
	"github.com/subtrackr/backend/api/middleware"
	"github.com/subtrackr/backend/internal/alerts"
	"github.com/subtrackr/backend/internal/analytics"
	"github.com/subtrackr/backend/internal/auth"
	"github.com/subtrackr/backend/internal/notifications"
	"github.com/subtrackr/backend/internal/services"
	"github.com/subtrackr/backend/internal/subscriptions"
	"github.com/subtrackr/backend/pkg/auth/session"
	"github.com/subtrackr/backend/pkg/config"
	"github.com/subtrackr/backend/pkg/db"
	"github.com/subtrackr/backend/pkg/logger"
	"github.com/subtrackr/backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker

	Auth          auth.Service
	Subscriptions subscriptions.Service
	Services      services.Service
	Analytics     analytics.Service
	Alerts        alerts.Service
	Notifications notifications.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(p.Auth, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))
		r.Use(middleware.Idempotency(p.Redis, logg))

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", controllers.SubscriptionList(p.Subscriptions, logg))
			r.Post("/", controllers.SubscriptionCreate(p.Subscriptions, logg))
			r.Route("/{subscriptionId}", func(r chi.Router) {
				r.Get("/", controllers.SubscriptionGet(p.Subscriptions, logg))
				r.Put("/", controllers.SubscriptionUpdate(p.Subscriptions, logg))
				r.Delete("/", controllers.SubscriptionDelete(p.Subscriptions, logg))
				r.Get("/trial", controllers.SubscriptionTrialStatus(p.Subscriptions, logg))
			})
		})

		r.Get("/services", controllers.ServiceCatalogList(p.Services, logg))
		r.Get("/analytics", controllers.AnalyticsOverview(p.Analytics, logg))

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", controllers.AlertsUpcoming(p.Alerts, cfg.Alerts, logg))
			r.Get("/decision", controllers.AlertsDecision(p.Alerts, cfg.Alerts, logg))
			r.Post("/ack", controllers.AlertsAcknowledge(p.Alerts, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(p.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(p.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(p.Notifications, logg))
		})
	})

	return r
}
