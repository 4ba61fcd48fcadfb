package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"tasktracker/internal/middleware"
	"tasktracker/internal/model"
	"tasktracker/internal/response"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskService interface {
	Create(ctx context.Context, creatorID uuid.UUID, in service.CreateTaskInput) (*model.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*service.TaskDetail, error)
	Update(ctx context.Context, id uuid.UUID, patch service.TaskPatch) (*model.Task, error)
	Assign(ctx context.Context, id uuid.UUID, assigneeID *uuid.UUID) (*model.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q service.ListTasksQuery) (*service.TaskList, error)
}

type TaskHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	UserID      string `json:"userId"`
}

// UpdateTaskRequest is the body of PUT /tasks/:id. Only present fields are applied.
type UpdateTaskRequest struct {
	Title       Optional[string] `json:"title" swaggertype:"string"`
	Description Optional[string] `json:"description" swaggertype:"string"`
	DueDate     Optional[string] `json:"dueDate" swaggertype:"string"`
	Priority    Optional[string] `json:"priority" swaggertype:"string"`
	Status      Optional[string] `json:"status" swaggertype:"string"`
	UserID      Optional[string] `json:"userId" swaggertype:"string"`
	Unassigned  Optional[bool]   `json:"unassigned" swaggertype:"boolean"`
}

// AssignTaskRequest is the body of POST /tasks/assign-task/:id. A missing userId unassigns.
type AssignTaskRequest struct {
	UserID string `json:"userId"`
}

var dueDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDueDate(value string) (*time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, &service.ValidationError{Message: "Invalid dueDate"}
}

// parseAssignee treats an empty value as "no assignee".
func parseAssignee(value string) (*uuid.UUID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, &service.ValidationError{Message: "Invalid userId"}
	}
	return &id, nil
}

func (r CreateTaskRequest) input() (service.CreateTaskInput, error) {
	in := service.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    model.Priority(r.Priority),
		Status:      model.Status(r.Status),
	}
	if r.DueDate != "" {
		dueDate, err := parseDueDate(r.DueDate)
		if err != nil {
			return in, err
		}
		in.DueDate = dueDate
	}
	assignee, err := parseAssignee(r.UserID)
	if err != nil {
		return in, err
	}
	in.AssigneeID = assignee
	return in, nil
}

func (r UpdateTaskRequest) patch() (service.TaskPatch, error) {
	var p service.TaskPatch

	if r.Title.Set {
		title := r.Title.Value
		p.Title = &title
	}
	if r.Description.Set {
		description := r.Description.Value
		p.Description = &description
	}
	if r.DueDate.Set {
		if r.DueDate.Null || r.DueDate.Value == "" {
			p.ClearDueDate = true
		} else {
			dueDate, err := parseDueDate(r.DueDate.Value)
			if err != nil {
				return p, err
			}
			p.DueDate = dueDate
		}
	}
	if r.Priority.Present() && r.Priority.Value != "" {
		priority := model.Priority(r.Priority.Value)
		p.Priority = &priority
	}
	if r.Status.Present() && r.Status.Value != "" {
		status := model.Status(r.Status.Value)
		p.Status = &status
	}
	if r.UserID.Set {
		assignee, err := parseAssignee(r.UserID.Value)
		if err != nil {
			return p, err
		}
		if assignee == nil {
			p.ClearUserID = true
		} else {
			p.UserID = assignee
		}
	}
	if r.Unassigned.Present() {
		unassigned := r.Unassigned.Value
		p.Unassigned = &unassigned
	}
	return p, nil
}

// Create godoc
// @Summary      Create a task
// @Description  Without userId the task starts unassigned.
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateTaskRequest  true  "Task"
// @Success      201   {object}  response.Envelope{payload=TaskView}
// @Failure      400   {object}  response.Envelope
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	creatorID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, service.ErrUserNotFound)
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.JSON(c, http.StatusBadRequest, "Invalid request", nil)
		return
	}

	in, err := req.input()
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), creatorID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, "Task created successfully", newTaskView(task))
}

// List godoc
// @Summary      List tasks
// @Description  Lists the caller's tasks, or every task with all=true. Unknown status or priority values are ignored.
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Items per page"
// @Param        status    query     string  false  "Status filter"
// @Param        priority  query     string  false  "Priority filter"
// @Param        search    query     string  false  "Matches title or description"
// @Param        all       query     bool    false  "List tasks of every user"
// @Success      200       {object}  response.Envelope{payload=TaskListView}
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, service.ErrUserNotFound)
		return
	}

	q := service.ListTasksQuery{
		Page:     pageFromQuery(c),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}
	if c.Query("all") != "true" {
		q.ScopeUserID = &userID
	}

	list, err := h.tasks.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]TaskDetailView, len(list.Tasks))
	for i := range list.Tasks {
		views[i] = newTaskDetailView(&list.Tasks[i])
	}

	response.JSON(c, http.StatusOK, "Tasks retrieved successfully", TaskListView{
		Tasks:      views,
		Pagination: newPaginationView(list.Page, list.Total),
	})
}

// GetByID godoc
// @Summary      Get a task
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  response.Envelope{payload=TaskDetailView}
// @Failure      400  {object}  response.Envelope
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	detail, err := h.tasks.Get(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Task retrieved successfully", newTaskDetailView(detail))
}

// Update godoc
// @Summary      Update a task
// @Description  Partial update. userId null or "" unassigns, as does unassigned=true.
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      UpdateTaskRequest  true  "Fields to change"
// @Success      200   {object}  response.Envelope{payload=TaskView}
// @Failure      400   {object}  response.Envelope
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.JSON(c, http.StatusBadRequest, "Invalid request", nil)
		return
	}

	patch, err := req.patch()
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), taskID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Task updated successfully", newTaskView(task))
}

// Assign godoc
// @Summary      Assign or unassign a task
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string             true   "Task ID"
// @Param        body  body      AssignTaskRequest  false  "Assignee"
// @Success      200   {object}  response.Envelope{payload=TaskView}
// @Failure      400   {object}  response.Envelope
// @Router       /tasks/assign-task/{id} [post]
func (h *TaskHandler) Assign(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req AssignTaskRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.JSON(c, http.StatusBadRequest, "Invalid request", nil)
			return
		}
	}

	assignee, err := parseAssignee(req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.tasks.Assign(c.Request.Context(), taskID, assignee)
	if err != nil {
		respondError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Task assigned successfully", newTaskView(task))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  response.Envelope
// @Failure      400  {object}  response.Envelope
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), taskID); err != nil {
		respondError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Task deleted successfully", nil)
}

func taskIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.JSON(c, http.StatusBadRequest, "Invalid task ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}
