package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/luminos-labs/accountd"
	"github.com/luminos-labs/accountd/config"
	"github.com/luminos-labs/accountd/health"
	"github.com/luminos-labs/accountd/mailer"
	"github.com/luminos-labs/accountd/rest"
	"github.com/luminos-labs/accountd/store/mongostore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Error("mongo disconnect: %v", err)
		}
	}()

	bootCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := client.Ping(bootCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)

	store := mongostore.New(db)
	if err := store.EnsureIndexes(bootCtx); err != nil {
		return err
	}

	hasher := accountd.NewBcryptHasher()
	tokens := accountd.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTExpiresIn, logger)
	sender := newSender(cfg, logger)

	service := accountd.NewAccountService(store, hasher, tokens, sender).
		WithLogger(logger)

	app := fiber.New(fiber.Config{
		AppName:      "accountd",
		ErrorHandler: rest.NewErrorHandler(logger, cfg.IsProduction()),
	})

	app.Use(rest.RequestLogger(logger))

	api := app.Group("/api")
	rest.NewAuthController(service, logger).RegisterRoutes(api)
	rest.NewUserController(logger).RegisterRoutes(api, rest.RequireAuth(tokens, store, logger))
	rest.NewHealthController(health.NewService(db, logger)).RegisterRoutes(api)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	logger.Info("server listening on port %s (%s)", cfg.Port, cfg.Env)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("received %s, shutting down", sig)
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func newSender(cfg *config.Config, logger accountd.Logger) accountd.NotificationSender {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set, emails will be logged instead of sent")
		return mailer.LogSender{Logger: logger, AppURL: cfg.AppURL}
	}

	sender, err := mailer.NewSMTPSender(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
		AppURL:   cfg.AppURL,
	}, logger)
	if err != nil {
		logger.Error("smtp client init failed, falling back to log sender: %v", err)
		return mailer.LogSender{Logger: logger, AppURL: cfg.AppURL}
	}

	return sender
}

// slogLogger adapts slog to the printf-style Logger the core packages use.
type slogLogger struct {
	l *slog.Logger
}

func newLogger(cfg *config.Config) slogLogger {
	level := slog.LevelDebug
	if cfg.IsProduction() {
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slogLogger{l: slog.New(handler)}
}

func (s slogLogger) Debug(format string, args ...any) { s.l.Debug(fmt.Sprintf(format, args...)) }
func (s slogLogger) Info(format string, args ...any)  { s.l.Info(fmt.Sprintf(format, args...)) }
func (s slogLogger) Warn(format string, args ...any)  { s.l.Warn(fmt.Sprintf(format, args...)) }
func (s slogLogger) Error(format string, args ...any) { s.l.Error(fmt.Sprintf(format, args...)) }
