package models

import (
	"time"

	"github.com/google/uuid"
)

// Note uses a client-supplied id as its primary key. Once an id is
// taken it stays bound to its first content; a second create with the
// same id is acknowledged but writes nothing.
type Note struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
