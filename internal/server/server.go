package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Tomlord1122/task-api/internal/config"
	"github.com/Tomlord1122/task-api/internal/database"
	"github.com/Tomlord1122/task-api/internal/metrics"
	"github.com/Tomlord1122/task-api/internal/service"
)

type Server struct {
	taskService    service.TaskService
	db             database.Service
	logger         *zap.Logger
	metrics        *metrics.Metrics
	allowedOrigins []string
}

func New(
	taskService service.TaskService,
	dbService database.Service,
	logger *zap.Logger,
	m *metrics.Metrics,
	allowedOrigins []string,
) *Server {
	return &Server{
		taskService:    taskService,
		db:             dbService,
		logger:         logger,
		metrics:        m,
		allowedOrigins: allowedOrigins,
	}
}

// NewServer builds the *http.Server listening on cfg's address.
func NewServer(
	cfg *config.Config,
	taskService service.TaskService,
	dbService database.Service,
	logger *zap.Logger,
	m *metrics.Metrics,
) *http.Server {
	appServer := New(taskService, dbService, logger, m, cfg.CORSAllowedOrigins)

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     zap.NewStdLog(logger.Named("http")),
	}
}
