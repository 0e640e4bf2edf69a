package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a feed entry. The owner is always the session user; it is never
// taken from client input.
type Post struct {
	ID        uuid.UUID   `gorm:"column:id;type:uuid;primaryKey;not null" json:"id"`
	UserID    uuid.UUID   `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Content   string      `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time   `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time   `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	User      User        `gorm:"foreignKey:UserID" json:"-"`
	Images    []PostImage `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Comments  []Comment   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}
