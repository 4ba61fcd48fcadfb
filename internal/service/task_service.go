package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tasktracker/internal/model"
	"tasktracker/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter model.TaskFilter, page model.Page) ([]model.Task, int64, error)
}

// UserReader is the part of the credential store the task engine needs.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindSummaries(ctx context.Context, ids []uuid.UUID) ([]model.UserSummary, error)
}

type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    model.Priority
	Status      model.Status
	// AssigneeID is optional; without it the task starts unassigned.
	AssigneeID *uuid.UUID
}

// TaskPatch holds the fields present in a partial update. Nil means "leave as is".
type TaskPatch struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *model.Priority
	Status       *model.Status
	UserID       *uuid.UUID
	ClearUserID  bool
	Unassigned   *bool
}

func (p TaskPatch) assigns() bool {
	return p.UserID != nil && (p.Unassigned == nil || !*p.Unassigned)
}

func (p TaskPatch) apply(t *model.Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.ClearDueDate {
		t.DueDate = nil
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.ClearUserID {
		t.UserID = nil
		t.Unassigned = true
	}
	if p.UserID != nil {
		t.UserID = p.UserID
		t.Unassigned = false
	}
	if p.Unassigned != nil {
		t.Unassigned = *p.Unassigned
		if t.Unassigned {
			t.UserID = nil
		}
	}
}

// TaskDetail is a task with its assignee and creator projections attached.
type TaskDetail struct {
	model.Task
	User        *model.UserSummary
	CreatedUser *model.UserSummary
}

type ListTasksQuery struct {
	// ScopeUserID restricts the listing to one assignee; nil lists all tasks.
	ScopeUserID *uuid.UUID
	Page        model.Page
	Status      string
	Priority    string
	Search      string
}

type TaskList struct {
	Tasks []TaskDetail
	Total int64
	Page  model.Page
}

type TaskService struct {
	tasks    TaskStore
	users    UserReader
	validate *validator.Validate
	logger   *slog.Logger
}

func NewTaskService(tasks TaskStore, users UserReader, logger *slog.Logger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		users:    users,
		validate: validator.New(),
		logger:   logger.With("component", "task"),
	}
}

// Create stores a new task owned by creatorID.
func (s *TaskService) Create(ctx context.Context, creatorID uuid.UUID, in CreateTaskInput) (*model.Task, error) {
	if creatorID == uuid.Nil {
		return nil, ErrUserNotFound
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, badRequest("Title is required")
	}

	task := &model.Task{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Status:      in.Status,
		CreatedBy:   creatorID,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.Status == "" {
		task.Status = model.StatusPending
	}

	if in.AssigneeID != nil {
		if err := s.ensureUserExists(ctx, *in.AssigneeID); err != nil {
			return nil, err
		}
		assignee := *in.AssigneeID
		task.UserID = &assignee
		task.Unassigned = false
	} else {
		creator := creatorID
		task.UserID = &creator
		task.Unassigned = true
	}

	if err := s.validateTask(task); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task created", "task_id", task.ID, "created_by", creatorID, "unassigned", task.Unassigned)
	return task, nil
}

// Get returns a task with its user projections.
func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*TaskDetail, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	details, err := s.enrich(ctx, []model.Task{*task})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// Update merges patch into the stored task, validates the result and persists it.
// An invalid merge leaves the stored task untouched.
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, patch TaskPatch) (*model.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.assigns() {
		if err := s.ensureUserExists(ctx, *patch.UserID); err != nil {
			return nil, err
		}
	}

	patch.apply(task)
	if err := s.validateTask(task); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	s.logger.Info("task updated", "task_id", task.ID, "unassigned", task.Unassigned)
	return task, nil
}

// Assign sets the task's assignee, or unassigns it when assigneeID is nil.
func (s *TaskService) Assign(ctx context.Context, id uuid.UUID, assigneeID *uuid.UUID) (*model.Task, error) {
	unassigned := assigneeID == nil
	task, err := s.Update(ctx, id, TaskPatch{UserID: assigneeID, Unassigned: &unassigned})
	if err != nil {
		return nil, err
	}

	if unassigned {
		s.logger.Info("task unassigned", "task_id", id)
	} else {
		s.logger.Info("task assigned", "task_id", id, "user_id", *assigneeID)
	}
	return task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	s.logger.Info("task deleted", "task_id", id)
	return nil
}

// List pages through tasks. Status and priority values outside their
// enumerations are ignored rather than rejected.
func (s *TaskService) List(ctx context.Context, q ListTasksQuery) (*TaskList, error) {
	filter := model.TaskFilter{
		UserID: q.ScopeUserID,
		Search: strings.TrimSpace(q.Search),
	}
	if status := model.Status(q.Status); status.Valid() {
		filter.Status = status
	}
	if priority := model.Priority(q.Priority); priority.Valid() {
		filter.Priority = priority
	}

	page := model.NewPage(q.Page.Number, q.Page.Limit)
	tasks, total, err := s.tasks.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	details, err := s.enrich(ctx, tasks)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("tasks listed", "count", len(details), "total", total, "all", q.ScopeUserID == nil)
	return &TaskList{Tasks: details, Total: total, Page: page}, nil
}

// enrich attaches user projections to tasks using a single batch lookup.
func (s *TaskService) enrich(ctx context.Context, tasks []model.Task) ([]TaskDetail, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, 2*len(tasks))
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for i := range tasks {
		if assignee := tasks[i].AssigneeID(); assignee != nil {
			add(*assignee)
		}
		add(tasks[i].CreatedBy)
	}

	summaries, err := s.users.FindSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.UserSummary, len(summaries))
	for _, u := range summaries {
		byID[u.ID] = u
	}

	details := make([]TaskDetail, len(tasks))
	for i, task := range tasks {
		details[i] = TaskDetail{Task: task}
		if assignee := task.AssigneeID(); assignee != nil {
			if u, ok := byID[*assignee]; ok {
				details[i].User = &u
			}
		}
		if u, ok := byID[task.CreatedBy]; ok {
			details[i].CreatedUser = &u
		}
	}
	return details, nil
}

func (s *TaskService) load(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) ensureUserExists(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return nil
}

func (s *TaskService) validateTask(task *model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return badRequest("Title is required")
	}
	if err := s.validate.Struct(task); err != nil {
		return badRequest("Invalid task data")
	}
	if !task.Unassigned && task.UserID == nil {
		return badRequest("An assigned task needs a userId")
	}
	return nil
}
