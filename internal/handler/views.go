package handler

import (
	"time"

	"tasktracker/internal/model"
	"tasktracker/internal/service"

	"github.com/google/uuid"
)

// UserView is the sanitized account projection returned by signup and admin creation.
type UserView struct {
	ID       uuid.UUID  `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

func newUserView(u *model.User) UserView {
	return UserView{ID: u.ID, Username: u.Username, Role: u.Role}
}

// TaskView is a task as returned by create, update and assign.
// UserID is omitted while the task is unassigned.
type TaskView struct {
	ID          uuid.UUID      `json:"_id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	Priority    model.Priority `json:"priority"`
	Status      model.Status   `json:"status"`
	UserID      *uuid.UUID     `json:"userId,omitempty"`
	Unassigned  bool           `json:"unassigned"`
	CreatedBy   uuid.UUID      `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func newTaskView(t *model.Task) TaskView {
	return TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		UserID:      t.AssigneeID(),
		Unassigned:  t.Unassigned,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TaskDetailView adds the assignee and creator projections used by reads.
type TaskDetailView struct {
	TaskView
	User        *model.UserSummary `json:"user,omitempty"`
	CreatedUser *model.UserSummary `json:"createdUser,omitempty"`
}

func newTaskDetailView(d *service.TaskDetail) TaskDetailView {
	return TaskDetailView{
		TaskView:    newTaskView(&d.Task),
		User:        d.User,
		CreatedUser: d.CreatedUser,
	}
}

type PaginationView struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func newPaginationView(page model.Page, total int64) PaginationView {
	return PaginationView{
		Page:       page.Number,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: page.TotalPages(total),
	}
}

type TaskListView struct {
	Tasks      []TaskDetailView `json:"tasks"`
	Pagination PaginationView   `json:"pagination"`
}

type UserListView struct {
	Users      []model.UserSummary `json:"users"`
	Pagination PaginationView      `json:"pagination"`
}

type TokenView struct {
	Token string `json:"token"`
}
