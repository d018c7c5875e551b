package model

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	Completed   bool       `gorm:"not null;default:false"`
	AssignedTo  *uuid.UUID `gorm:"type:uuid"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Board    Board `gorm:"foreignKey:BoardID"`
	Assignee User  `gorm:"foreignKey:AssignedTo"`
	Creator  User  `gorm:"foreignKey:CreatedBy"`
}
