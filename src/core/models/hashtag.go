package models

import "github.com/google/uuid"

// HashTag names are looked up case-sensitively by exact name. The unique
// index is what makes concurrent get-or-create safe.
type HashTag struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;type:text;unique;not null" json:"name"`
}

func (HashTag) TableName() string {
	return "hash_tags"
}

// PostHashTag links a post to a tag. The composite unique index gives the
// attachment set-semantics: attaching the same tag twice is a no-op.
type PostHashTag struct {
	ID     uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID uuid.UUID `gorm:"column:post_id;type:uuid;not null;uniqueIndex:idx_post_hashtags_post_tag" json:"post_id"`
	TagID  uint      `gorm:"column:tag_id;not null;uniqueIndex:idx_post_hashtags_post_tag" json:"tag_id"`
}

func (PostHashTag) TableName() string {
	return "post_hashtags"
}
