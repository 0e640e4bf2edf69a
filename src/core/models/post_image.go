package models

import "github.com/google/uuid"

// PostImage rows are created sequentially in submission order, so ordering by
// the autoincrement id reproduces the order the images were uploaded in.
type PostImage struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID      uuid.UUID `gorm:"column:post_id;type:uuid;not null;index" json:"post_id"`
	PhotoURL    string    `gorm:"column:photo_url;type:text;not null" json:"photo_url"`
	StoragePath string    `gorm:"column:storage_path;type:text;not null;default:''" json:"-"`
}

func (PostImage) TableName() string {
	return "post_images"
}
