package models

// TaskAssignee links a task to an assigned user. The composite key
// keeps a (task, user) pair unique; deleting either side cascades.
type TaskAssignee struct {
	TaskID uint64 `gorm:"primarykey" json:"taskId"`
	UserID string `gorm:"type:varchar(128);primarykey" json:"userId"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
