package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"tasktracker/internal/model"
)

// mutableTaskColumns lists what Update may write. created_by and created_at are never touched.
var mutableTaskColumns = []string{
	"title", "description", "due_date", "priority", "status", "user_id", "unassigned", "updated_at",
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// Update writes the mutable columns of an existing task. Unlike Save it never
// inserts, so updating a task that was deleted meanwhile yields ErrTaskNotFound.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).
		Model(task).
		Select(mutableTaskColumns).
		Updates(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// List returns one page of tasks matching filter together with the filtered total.
// Rows are ordered by creation time, then id, so pages stay stable.
func (r *TaskRepository) List(ctx context.Context, filter model.TaskFilter, page model.Page) ([]model.Task, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&model.Task{})
		if filter.UserID != nil {
			db = db.Where("user_id = ?", *filter.UserID)
		}
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		if filter.Priority != "" {
			db = db.Where("priority = ?", filter.Priority)
		}
		if filter.Search != "" {
			pattern := containsPattern(filter.Search)
			db = db.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
		}
		return db
	}

	var (
		tasks = []model.Task{}
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Scopes(scope).
			Order("created_at ASC").Order("id ASC").
			Offset(page.Offset()).Limit(page.Limit).
			Find(&tasks).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Scopes(scope).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}
