package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Tomlord1122/task-api/internal/domain"
	"github.com/Tomlord1122/task-api/internal/repository"
)

// ErrInvalidInput is returned when a request is missing a field or a field
// is out of bounds.
var ErrInvalidInput = errors.New("invalid input")

// TaskService defines the operations for managing tasks.
type TaskService interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error)
	GetTaskByID(ctx context.Context, id uint) (*TaskResponse, error)
	GetAllTasks(ctx context.Context) ([]TaskResponse, error)
	UpdateTask(ctx context.Context, id uint, req UpdateTaskRequest) (*TaskResponse, error)
	// DeleteTask removes a task and returns it as it was before deletion.
	DeleteTask(ctx context.Context, id uint) (*TaskResponse, error)
}

type taskService struct {
	repo     repository.TaskRepository
	validate *validator.Validate
}

// NewTaskService creates a TaskService backed by repo.
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *taskService) CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       *req.Title,
		Description: *req.Description,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	response := NewTaskResponse(*task)
	return &response, nil
}

func (s *taskService) GetTaskByID(ctx context.Context, id uint) (*TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("task with ID %d: %w", id, domain.ErrNotFound)
	}

	response := NewTaskResponse(*task)
	return &response, nil
}

func (s *taskService) GetAllTasks(ctx context.Context) ([]TaskResponse, error) {
	tasks, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all tasks: %w", err)
	}
	return NewTaskResponses(tasks), nil
}

func (s *taskService) UpdateTask(ctx context.Context, id uint, req UpdateTaskRequest) (*TaskResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	task, err := s.repo.Update(ctx, id, *req.Title, *req.Description)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	response := NewTaskResponse(*task)
	return &response, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id uint) (*TaskResponse, error) {
	task, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}

	response := NewTaskResponse(*task)
	return &response, nil
}

func (s *taskService) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
