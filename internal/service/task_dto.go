package service

import "github.com/Tomlord1122/task-api/internal/domain"

// CreateTaskRequest holds the data needed to create a new task.
// Pointers distinguish a missing field from an empty string.
type CreateTaskRequest struct {
	Title       *string `json:"title" validate:"required,max=70"`
	Description *string `json:"description" validate:"required,max=100"`
}

// UpdateTaskRequest replaces both mutable fields of a task.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"required,max=70"`
	Description *string `json:"description" validate:"required,max=100"`
}

// TaskResponse is the wire representation of a Task.
type TaskResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewTaskResponse converts a stored task to its wire form.
func NewTaskResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
	}
}

// NewTaskResponses converts a list of tasks. The result is never nil so it
// encodes as [] rather than null.
func NewTaskResponses(tasks []domain.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task))
	}
	return responses
}
