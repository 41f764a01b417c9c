package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fuelbuddy/fuelbuddy-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListForUser retrieves every task the user created or is assigned to
func (r *GormTaskRepository) ListForUser(userID string, status *models.TaskStatus) ([]models.Task, error) {
	var tasks []models.Task

	assigneeSubQuery := r.db.Model(&models.TaskAssignee{}).
		Select("1").
		Where("task_assignees.task_id = tasks.id").
		Where("task_assignees.user_id = ?", userID)

	query := r.db.Model(&models.Task{}).
		Where("tasks.creator_id = ? OR EXISTS (?)", userID, assigneeSubQuery)

	if status != nil {
		query = query.Where("tasks.status = ?", *status)
	}

	err := query.
		Order("tasks.created_at DESC").
		Preload("Creator").
		Preload("Assignees").
		Preload("Assignees.User").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task and its assignee rows. The join rows are
// cleared first so stores without cascade support stay orphan-free.
func (r *GormTaskRepository) Delete(id uint64) error {
	if err := r.db.Where("task_id = ?", id).Delete(&models.TaskAssignee{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Task{}, id).Error
}

// ReplaceAssignees replaces the task's assignee set with userIDs
func (r *GormTaskRepository) ReplaceAssignees(taskID uint64, userIDs []string) error {
	if err := r.db.Where("task_id = ?", taskID).Delete(&models.TaskAssignee{}).Error; err != nil {
		return err
	}

	if len(userIDs) == 0 {
		return nil
	}

	assignees := make([]models.TaskAssignee, 0, len(userIDs))
	for _, uid := range userIDs {
		assignees = append(assignees, models.TaskAssignee{
			TaskID: taskID,
			UserID: uid,
		})
	}

	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignees).Error
}

// CountUsersByIDs counts how many of the given user IDs exist
func (r *GormTaskRepository) CountUsersByIDs(userIDs []string) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("id IN ?", userIDs).
		Count(&count).Error
	return count, err
}
