package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Tomlord1122/task-api/internal/domain"
	"github.com/Tomlord1122/task-api/internal/service"
)

const maxBodyBytes = 1 << 20

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", s.indexHandler)

	r.Get("/health", s.healthHandler)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", s.createTaskHandler)
		r.Get("/", s.getAllTasksHandler)
		r.Get("/{id}", s.getTaskByIDHandler)
		r.Put("/{id}", s.updateTaskHandler)
		r.Delete("/{id}", s.deleteTaskHandler)
	})

	return r
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Welcome to my API"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTaskRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondWithDecodeError(w, r, err)
		return
	}

	task, err := s.taskService.CreateTask(r.Context(), req)
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to create task")
		return
	}

	respondWithJSON(w, http.StatusOK, task)
}

func (s *Server) getAllTasksHandler(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.taskService.GetAllTasks(r.Context())
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to retrieve tasks")
		return
	}

	respondWithJSON(w, http.StatusOK, tasks)
}

func (s *Server) getTaskByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	task, err := s.taskService.GetTaskByID(r.Context(), id)
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to retrieve task")
		return
	}

	respondWithJSON(w, http.StatusOK, task)
}

func (s *Server) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	var req service.UpdateTaskRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondWithDecodeError(w, r, err)
		return
	}

	task, err := s.taskService.UpdateTask(r.Context(), id, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to update task")
		return
	}

	respondWithJSON(w, http.StatusOK, task)
}

func (s *Server) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	task, err := s.taskService.DeleteTask(r.Context(), id)
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to delete task")
		return
	}

	respondWithJSON(w, http.StatusOK, task)
}

func parseTaskID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID provided")
		return 0, false
	}
	return uint(id), true
}

// requestError is a decode failure whose message is safe to return.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError

	switch {
	case errors.As(err, &syntaxError):
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		return &requestError{status: http.StatusBadRequest, msg: msg}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return &requestError{status: http.StatusBadRequest, msg: "Request body contains badly-formed JSON"}
	case errors.As(err, &unmarshalTypeError):
		msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		return &requestError{status: http.StatusBadRequest, msg: msg}
	case errors.Is(err, io.EOF):
		return &requestError{status: http.StatusBadRequest, msg: "Request body must not be empty"}
	case errors.As(err, &maxBytesError):
		msg := fmt.Sprintf("Request body must not be larger than %d bytes", maxBytesError.Limit)
		return &requestError{status: http.StatusRequestEntityTooLarge, msg: msg}
	default:
		return err
	}
}

func (s *Server) respondWithDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		respondWithError(w, reqErr.status, reqErr.msg)
		return
	}
	s.logger.Error("decode request body",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, "Error processing request")
}

// statusForError maps service and domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConstraintViolation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusForError(err)
	switch status {
	case http.StatusBadRequest:
		respondWithError(w, status, errorDetail(err, service.ErrInvalidInput))
	case http.StatusNotFound:
		respondWithError(w, status, "Task not found")
	case http.StatusConflict:
		respondWithError(w, status, errorDetail(err, domain.ErrConstraintViolation))
	default:
		s.logger.Error(fallback,
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		respondWithError(w, status, fallback)
	}
}

// errorDetail returns the part of err's message starting at sentinel, so
// "create task: invalid input: title is required" becomes
// "invalid input: title is required".
func errorDetail(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()); i >= 0 {
		return msg[i:]
	}
	return sentinel.Error()
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
