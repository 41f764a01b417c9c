package repository

import (
	"github.com/fuelbuddy/fuelbuddy-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListForUser retrieves every task the user created or is assigned
	// to, with creator and assignee relations populated
	ListForUser(userID string, status *models.TaskStatus) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete removes a task and its assignee rows
	Delete(id uint64) error

	// ReplaceAssignees replaces the task's assignee set with userIDs
	ReplaceAssignees(taskID uint64, userIDs []string) error

	// CountUsersByIDs counts how many of the given user IDs exist
	CountUsersByIDs(userIDs []string) (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns all users
	List() ([]models.User, error)
}
