package models

import "time"

// User is registered on first login against the external identity
// provider; its ID is the provider-issued subject and never changes.
type User struct {
	ID        string    `gorm:"type:varchar(128);primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	CreatedTasks []Task         `gorm:"foreignKey:CreatorID" json:"-"`
	Assignments  []TaskAssignee `gorm:"foreignKey:UserID" json:"-"`
}
