package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/Tomlord1122/task-api/internal/config"
	"github.com/Tomlord1122/task-api/internal/database"
	"github.com/Tomlord1122/task-api/internal/domain"
	"github.com/Tomlord1122/task-api/internal/logger"
	"github.com/Tomlord1122/task-api/internal/metrics"
	"github.com/Tomlord1122/task-api/internal/repository"
	"github.com/Tomlord1122/task-api/internal/server"
	"github.com/Tomlord1122/task-api/internal/service"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, timeout time.Duration, l *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	l.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctxTimeout, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		l.Error("server forced to shutdown", zap.Error(err))
	}

	if err := dbService.Close(); err != nil {
		l.Error("close database connection pool", zap.Error(err))
	} else {
		l.Info("database connection pool closed")
	}

	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	dbService, err := database.New(cfg.Database.DSN(), l)
	if err != nil {
		l.Fatal("failed to connect to database", zap.Error(err))
	}

	// The tasks table must exist before the listener accepts connections.
	if err := dbService.GetDB().AutoMigrate(&domain.Task{}); err != nil {
		l.Fatal("failed to auto-migrate database", zap.Error(err))
	}
	l.Info("database schema ready")

	m := metrics.New()
	if sqlDB, err := dbService.SQLDB(); err == nil {
		if err := m.RegisterDB(sqlDB, dbService.Dialect()); err != nil {
			l.Warn("register database metrics", zap.Error(err))
		}
	}

	taskRepo := repository.NewGormTaskRepository(dbService.GetDB())
	taskService := service.NewTaskService(taskRepo)
	apiServer := server.NewServer(cfg, taskService, dbService, l, m)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, cfg.ShutdownTimeout, l, done)

	l.Info("starting server", zap.String("addr", apiServer.Addr))
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Fatal("HTTP server ListenAndServe error", zap.Error(err))
	}

	<-done
	l.Info("graceful shutdown complete")
}
