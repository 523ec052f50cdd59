// Package cashplane предоставляет маршруты для основного приложения.
package cashplane

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/cashplane/internal/config"
	"github.com/magabrotheeeer/cashplane/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/cashplane/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/cashplane/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/cashplane/internal/http/handlers/auth/verifyemail"
	"github.com/magabrotheeeer/cashplane/internal/http/handlers/health"
	"github.com/magabrotheeeer/cashplane/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/cashplane/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/cashplane/internal/http/handlers/referral/verify"
	"github.com/magabrotheeeer/cashplane/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cashplane/internal/lib/jwt"
	"github.com/magabrotheeeer/cashplane/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/cashplane/internal/services/auth"
	paymentservice "github.com/magabrotheeeer/cashplane/internal/services/payment"
	referralservice "github.com/magabrotheeeer/cashplane/internal/services/referral"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService, paymentService *paymentservice.Service,
	referralService *referralservice.Service, providerClient *paymentprovider.Client,
	jwtMaker jwt.Maker) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
			r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
			r.Get("/auth/verify-email", verifyemail.New(logger, authService).ServeHTTP)
			r.Post("/referral/verify-referral", verify.New(logger, referralService).ServeHTTP)
			r.Post("/payments/initialize", paymentcreate.New(logger, providerClient, cfg.FrontendURL+"/payment/callback").ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Get("/auth/me", me.New(logger, authService).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации, подпись проверяется в обработчике)
		r.Post("/webhook/paystack", paymentwebhook.New(logger, paymentService, cfg.PaystackSecretKey).ServeHTTP)

		r.Get("/health", health.New(logger).ServeHTTP)
	})
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
