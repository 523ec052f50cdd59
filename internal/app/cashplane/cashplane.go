// Package cashplane собирает основное HTTP-приложение: хранилище,
// кэш, очередь уведомлений, платёжный провайдер и маршруты.
package cashplane

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/cashplane/internal/cache"
	"github.com/magabrotheeeer/cashplane/internal/config"
	"github.com/magabrotheeeer/cashplane/internal/lib/jwt"
	"github.com/magabrotheeeer/cashplane/internal/migrations"
	"github.com/magabrotheeeer/cashplane/internal/paymentprovider"
	"github.com/magabrotheeeer/cashplane/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/cashplane/internal/services/auth"
	paymentservice "github.com/magabrotheeeer/cashplane/internal/services/payment"
	referralservice "github.com/magabrotheeeer/cashplane/internal/services/referral"
	"github.com/magabrotheeeer/cashplane/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	providerClient := paymentprovider.NewClient(cfg.PaystackSecretKey, cfg.PaystackAPIURL)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, cacheRedis, publisher, jwtMaker, cfg.FrontendURL, logger)
	paymentService := paymentservice.New(db, publisher, logger)
	referralService := referralservice.New(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, paymentService, referralService, providerClient, jwtMaker)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close RabbitMQ channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close RabbitMQ connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
