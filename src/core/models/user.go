package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                      uuid.UUID `gorm:"column:id;type:uuid;primaryKey;not null" json:"id"`
	Username                string    `gorm:"column:username;type:text;unique;not null" json:"username"`
	Password                string    `gorm:"column:password;type:text;not null" json:"-"`
	Email                   string    `gorm:"column:email;type:text;not null;default:''" json:"email"`
	ShortDescription        string    `gorm:"column:short_description;type:text;not null;default:''" json:"short_description"`
	ProfileImageURL         string    `gorm:"column:profile_image_url;type:text;not null;default:''" json:"profile_image_url"`
	ProfileImageStoragePath string    `gorm:"column:profile_image_storage_path;type:text;not null;default:''" json:"-"`
	CreatedAt               time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt               time.Time `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
