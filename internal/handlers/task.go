package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fuelbuddy/fuelbuddy-api/internal/dto"
	apierrors "github.com/fuelbuddy/fuelbuddy-api/internal/errors"
	"github.com/fuelbuddy/fuelbuddy-api/internal/middleware"
	"github.com/fuelbuddy/fuelbuddy-api/internal/models"
	"github.com/fuelbuddy/fuelbuddy-api/internal/repository"
)

// taskRelations are the preloads needed to shape a full task response.
var taskRelations = []string{"Creator", "Assignees", "Assignees.User"}

type TaskHandler struct {
	tasks repository.TaskRepository
}

func NewTaskHandler(tasks repository.TaskRepository) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// ListTasks returns every task the current user created or is assigned
// to. Accepts an optional status equality filter.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	var status *models.TaskStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.TaskStatus(statusStr)
		if !models.ValidTaskStatus(s) {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		status = &s
	}

	tasks, err := h.tasks.ListForUser(userID, status)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a specific task by ID. Reads are not ownership
// gated; any authenticated user may fetch a task it knows the ID of.
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.tasks.FindByID(taskID, taskRelations...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Task not found")
		} else {
			apierrors.InternalError(c, "Failed to fetch task")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task with the current user as creator.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		DueDate     *time.Time `json:"dueDate"`
		AssigneeIDs []string   `json:"assigneeIds"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if len(req.AssigneeIDs) > 0 {
		if ok := h.verifyUsersExist(c, req.AssigneeIDs); !ok {
			return
		}
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatusPending,
		DueDate:     req.DueDate,
		CreatorID:   &userID,
	}

	if err := h.tasks.Create(&task); err != nil {
		apierrors.InternalError(c, "Failed to create task")
		return
	}

	if len(req.AssigneeIDs) > 0 {
		if err := h.tasks.ReplaceAssignees(task.ID, req.AssigneeIDs); err != nil {
			apierrors.InternalError(c, "Failed to assign users to task")
			return
		}
	}

	created, err := h.tasks.FindByID(task.ID, taskRelations...)
	if err != nil {
		apierrors.InternalError(c, "Failed to reload task")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*created))
}

// UpdateTask applies a partial update. Only the creator may update;
// a provided assignee list fully replaces the existing set.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Task not found")
		} else {
			apierrors.InternalError(c, "Failed to fetch task")
		}
		return
	}

	if !isCreator(task, userID) {
		apierrors.Forbidden(c, "Only the creator can update this task")
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if title, ok := rawReq["title"]; ok {
		titleStr, ok := title.(string)
		if !ok || titleStr == "" {
			apierrors.BadRequest(c, "Title must be a non-empty string")
			return
		}
		task.Title = titleStr
	}
	if description, ok := rawReq["description"]; ok {
		if descStr, ok := description.(string); ok {
			task.Description = descStr
		}
	}
	if status, ok := rawReq["status"]; ok {
		statusStr, ok := status.(string)
		if !ok || !models.ValidTaskStatus(models.TaskStatus(statusStr)) {
			apierrors.BadRequest(c, "Invalid status value")
			return
		}
		task.Status = models.TaskStatus(statusStr)
	}
	if _, ok := rawReq["dueDate"]; ok {
		// dueDate was provided (might be null)
		if rawReq["dueDate"] == nil {
			task.DueDate = nil
		} else if dueDateStr, ok := rawReq["dueDate"].(string); ok {
			parsedTime, err := time.Parse(time.RFC3339, dueDateStr)
			if err != nil {
				apierrors.BadRequest(c, "Invalid dueDate value")
				return
			}
			task.DueDate = &parsedTime
		}
	}

	var assigneeIDs []string
	replaceAssignees := false
	if rawIDs, ok := rawReq["assigneeIds"]; ok {
		rawList, ok := rawIDs.([]any)
		if !ok {
			apierrors.BadRequest(c, "assigneeIds must be an array of user IDs")
			return
		}
		for _, raw := range rawList {
			id, ok := raw.(string)
			if !ok {
				apierrors.BadRequest(c, "assigneeIds must be an array of user IDs")
				return
			}
			assigneeIDs = append(assigneeIDs, id)
		}
		replaceAssignees = true

		if len(assigneeIDs) > 0 {
			if ok := h.verifyUsersExist(c, assigneeIDs); !ok {
				return
			}
		}
	}

	if err := h.tasks.Update(task); err != nil {
		apierrors.InternalError(c, "Failed to update task")
		return
	}

	if replaceAssignees {
		if err := h.tasks.ReplaceAssignees(task.ID, assigneeIDs); err != nil {
			apierrors.InternalError(c, "Failed to update task assignees")
			return
		}
	}

	updated, err := h.tasks.FindByID(task.ID, taskRelations...)
	if err != nil {
		apierrors.InternalError(c, "Failed to reload task")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask removes a task and its assignee rows. Creator only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Task not found")
		} else {
			apierrors.InternalError(c, "Failed to fetch task")
		}
		return
	}

	if !isCreator(task, userID) {
		apierrors.Forbidden(c, "Only the creator can delete this task")
		return
	}

	if err := h.tasks.Delete(task.ID); err != nil {
		apierrors.InternalError(c, "Failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

// verifyUsersExist answers whether every listed user ID is registered,
// responding with a validation error when one is not.
func (h *TaskHandler) verifyUsersExist(c *gin.Context, userIDs []string) bool {
	count, err := h.tasks.CountUsersByIDs(userIDs)
	if err != nil {
		apierrors.InternalError(c, "Failed to verify assignees")
		return false
	}
	if int(count) != len(uniqueIDs(userIDs)) {
		apierrors.BadRequest(c, "One or more assignee IDs do not exist")
		return false
	}
	return true
}

func isCreator(task *models.Task, userID string) bool {
	return task.CreatorID != nil && *task.CreatorID == userID
}

func parseTaskID(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return taskID, true
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
