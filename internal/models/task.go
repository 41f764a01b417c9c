package models

import "time"

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// ValidTaskStatus reports whether s is one of the known status values.
func ValidTaskStatus(s TaskStatus) bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	CreatorID   *string    `gorm:"type:varchar(128)" json:"creatorId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Relations
	Creator   *User          `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Assignees []TaskAssignee `gorm:"foreignKey:TaskID" json:"assignees,omitempty"`
}
