package dto

import (
	"time"

	"github.com/fuelbuddy/fuelbuddy-api/internal/models"
)

// TaskDTO represents a task in API responses. Assignees are flattened
// to the assigned users; an empty set serializes as [] rather than
// being omitted.
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	DueDate     *time.Time        `json:"dueDate"`
	CreatorID   *string           `json:"creatorId"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Creator     *UserDTO          `json:"creator,omitempty"`
	Assignees   []UserDTO         `json:"assignees"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     task.DueDate,
		CreatorID:   task.CreatorID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Assignees:   []UserDTO{},
	}

	// Include creator if preloaded
	if task.Creator != nil && task.Creator.ID != "" {
		creator := ToUserDTO(*task.Creator)
		dto.Creator = &creator
	}

	for _, assignee := range task.Assignees {
		dto.Assignees = append(dto.Assignees, ToUserDTO(assignee.User))
	}

	return dto
}

// ToTaskDTOs converts a slice of Task models
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
