package repository

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/Tomlord1122/task-api/internal/database"
	"github.com/Tomlord1122/task-api/internal/domain"
)

// TaskRepository defines the storage operations on the tasks table.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	// FindByID returns nil, nil when no task has the given ID.
	FindByID(ctx context.Context, id uint) (*domain.Task, error)
	GetAll(ctx context.Context) ([]domain.Task, error)
	Update(ctx context.Context, id uint, title, description string) (*domain.Task, error)
	Delete(ctx context.Context, id uint) (*domain.Task, error)
}

// gormTaskRepository implements TaskRepository using GORM
type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM task repository
func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

// Create inserts task and fills in its ID.
func (r *gormTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if err := checkBounds(task.Title, task.Description); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return mapError(err, "insert task")
	}
	return nil
}

func (r *gormTaskRepository) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task %d: %w", id, err)
	}
	return &task, nil
}

// GetAll returns every task ordered by ID.
func (r *gormTaskRepository) GetAll(ctx context.Context) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update overwrites title and description of the task with the given ID.
func (r *gormTaskRepository) Update(ctx context.Context, id uint, title, description string) (*domain.Task, error) {
	if err := checkBounds(title, description); err != nil {
		return nil, err
	}

	var task domain.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}

		task.Title = title
		task.Description = description

		return tx.Model(&task).Select("title", "description").Updates(&task).Error
	})
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("update task %d", id))
	}
	return &task, nil
}

// Delete removes the task with the given ID and returns it as it was.
func (r *gormTaskRepository) Delete(ctx context.Context, id uint) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Task{}, id).Error
	})
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("delete task %d", id))
	}
	return &task, nil
}

func checkBounds(title, description string) error {
	if n := utf8.RuneCountInString(title); n > domain.TitleMaxLength {
		return fmt.Errorf("%w: title is %d characters, max %d", domain.ErrConstraintViolation, n, domain.TitleMaxLength)
	}
	if n := utf8.RuneCountInString(description); n > domain.DescriptionMaxLength {
		return fmt.Errorf("%w: description is %d characters, max %d", domain.ErrConstraintViolation, n, domain.DescriptionMaxLength)
	}
	return nil
}

func mapError(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w: title already exists", op, domain.ErrConstraintViolation)
	case database.IsConstraintViolation(err):
		return fmt.Errorf("%s: %w: value rejected by column constraint", op, domain.ErrConstraintViolation)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
