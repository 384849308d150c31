package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"task-dashboard/internal/domain"
	"task-dashboard/internal/services"
)

type getTaskResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	StartDate   domain.Date `json:"start_date"`
	EndDate     domain.Date `json:"end_date"`
	Owner       string      `json:"owner"`
	OwnerEmail  string      `json:"owner_email,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func newGetTaskResponse(task *domain.Task) getTaskResponse {
	return getTaskResponse{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		StartDate:   task.StartDate,
		EndDate:     task.EndDate,
		Owner:       task.Owner,
		OwnerEmail:  task.OwnerEmail,
		CreatedAt:   task.CreatedAt,
	}
}

func newGetTasksResponse(tasks []domain.Task) []getTaskResponse {
	response := make([]getTaskResponse, len(tasks))
	for i := range tasks {
		response[i] = newGetTaskResponse(&tasks[i])
	}
	return response
}

// taskRequest is the body of create, update and each bulk replace row.
// Dates are ISO strings; the service reports missing or inverted ranges.
type taskRequest struct {
	ID          string      `json:"id,omitempty" binding:"omitempty,uuid"`
	Name        string      `json:"name" binding:"required,max=255"`
	Description string      `json:"description"`
	StartDate   domain.Date `json:"start_date"`
	EndDate     domain.Date `json:"end_date"`
	Owner       string      `json:"owner" binding:"max=255"`
	OwnerEmail  string      `json:"owner_email,omitempty" binding:"omitempty,email"`
}

func (r taskRequest) input() services.TaskInput {
	return services.TaskInput{
		Name:        r.Name,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Owner:       r.Owner,
		OwnerEmail:  r.OwnerEmail,
	}
}

func (r taskRequest) task() domain.Task {
	return domain.Task{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Owner:       r.Owner,
		OwnerEmail:  r.OwnerEmail,
	}
}

func filterFromQuery(c *gin.Context) domain.TaskFilter {
	return domain.TaskFilter{
		Owners: c.QueryArray("owner"),
		Search: c.Query("q"),
	}
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	tasks, err := h.api.ListTasks(c, filterFromQuery(c))
	if err != nil {
		h.fail(c, "list tasks", err)
		return
	}
	h.logger.Debug().
		Int("count", len(tasks)).
		Msg("listed tasks")
	c.JSON(http.StatusOK, newGetTasksResponse(tasks))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	task, err := h.api.GetTask(c, c.Param("id"))
	if err != nil {
		h.fail(c, "get task", err)
		return
	}
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()+": "+err.Error()))
		return
	}

	task, err := h.api.CreateTask(c, req.input())
	if err != nil {
		h.fail(c, "create task", err)
		return
	}

	h.logger.Info().
		Str("id", task.ID).
		Msg("created task")
	h.warnSnapshot(c)
	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()+": "+err.Error()))
		return
	}

	task, err := h.api.UpdateTask(c, c.Param("id"), req.input())
	if err != nil {
		h.fail(c, "update task", err)
		return
	}

	h.logger.Info().
		Str("id", task.ID).
		Msg("updated task")
	h.warnSnapshot(c)
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

// HandleReplaceTasks swaps the whole task list for the request body,
// which is validated as a unit.
func (h *handlerImpl) HandleReplaceTasks(c *gin.Context) {
	var req []taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()+": "+err.Error()))
		return
	}

	tasks := make([]domain.Task, len(req))
	for i, r := range req {
		tasks[i] = r.task()
	}

	saved, err := h.api.ReplaceTasks(c, tasks)
	if err != nil {
		h.fail(c, "replace tasks", err)
		return
	}

	h.logger.Info().
		Int("count", len(saved)).
		Msg("replaced tasks")
	h.warnSnapshot(c)
	c.JSON(http.StatusOK, newGetTasksResponse(saved))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	if err := h.api.DeleteTask(c, c.Param("id")); err != nil {
		h.fail(c, "delete task", err)
		return
	}
	h.warnSnapshot(c)
	c.Status(http.StatusNoContent)
}

// HandleDeleteTasks deletes every task with ?name=, or all tasks when
// ?confirm=true is given.
func (h *handlerImpl) HandleDeleteTasks(c *gin.Context) {
	if name, ok := c.GetQuery("name"); ok {
		ids, err := h.api.DeleteTasksByName(c, name)
		if err != nil {
			h.fail(c, "delete tasks by name", err)
			return
		}
		h.warnSnapshot(c)
		c.JSON(http.StatusOK, gin.H{"deleted": ids})
		return
	}

	confirm, _ := strconv.ParseBool(c.Query("confirm"))
	removed, err := h.api.ClearTasks(c, confirm)
	if err != nil {
		h.fail(c, "clear tasks", err)
		return
	}
	h.logger.Info().
		Int("count", removed).
		Msg("cleared tasks")
	h.warnSnapshot(c)
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (h *handlerImpl) HandleListOwners(c *gin.Context) {
	owners, err := h.api.Owners(c)
	if err != nil {
		h.fail(c, "list owners", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owners": owners})
}
