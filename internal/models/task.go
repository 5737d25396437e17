package models

import (
	"time"

	"github.com/gofrs/uuid"
)

const TitleMaxLength = 50

type Task struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	OwnerID     uuid.UUID `json:"owner" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"size:50;not null"`
	Description string    `json:"description"`
	Done        bool      `json:"done" gorm:"default:false"`
	Created     time.Time `json:"created"`
}
