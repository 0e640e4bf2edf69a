package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow records follower -> following. The relationship is asymmetric and
// queried from both directions, so both columns are indexed.
type Follow struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FollowerID  uuid.UUID `gorm:"column:follower_id;type:uuid;not null;uniqueIndex:idx_follows_pair;index" json:"follower_id"`
	FollowingID uuid.UUID `gorm:"column:following_id;type:uuid;not null;uniqueIndex:idx_follows_pair;index" json:"following_id"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
