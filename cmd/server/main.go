package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "taskboard/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"taskboard/internal/auth"
	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/handler"
	"taskboard/internal/logging"
	"taskboard/internal/mail"
	"taskboard/internal/realtime"
	"taskboard/internal/repository"
	"taskboard/internal/router"
	"taskboard/internal/service"
)

// @title Taskboard API
// @version 1.0
// @description Project and task management API with collaborators, JWT authentication and realtime task events.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("database init", "err", err)
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logger.Fatal("reset database", "err", err)
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("auto-migrate", "err", err)
	}

	// Redis is optional: without it the cache is disabled and realtime
	// events stay on this instance.
	var cacheClient *cache.Client
	var relay realtime.Relay
	if cfg.RedisAddr != "" {
		cacheClient = cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := cacheClient.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, continuing without cache", "addr", cfg.RedisAddr, "err", err)
		}
		relay = cacheClient
		defer cacheClient.Close()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret, time.Duration(cfg.TokenTTL)*time.Hour)
	mailer := mail.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailSender, cfg.FrontendURL)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, mailer, logger)
	userService := service.NewUserService(userRepo, cacheClient)
	projectService := service.NewProjectService(projectRepo, userRepo, cacheClient)
	taskService := service.NewTaskService(taskRepo, projectRepo, cacheClient)

	broker := realtime.NewBroker(relay, logger)
	go broker.Run(ctx)

	e := echo.New()
	e.HideBanner = true

	router.Register(
		e,
		cfg,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewProjectHandler(projectService),
		handler.NewTaskHandler(taskService),
		handler.NewRealtimeHandler(broker, cfg.FrontendURL, logger),
	)

	logger.Info("swagger documentation available", "url", swaggerURL(cfg))

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server listening", "addr", addr, "db", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server start", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
