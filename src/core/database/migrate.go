package database

import (
	"github.com/HEEpage/heestagram/src/core/models"
)

// Migrate creates or updates the schema for every model.
func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostImage{},
		&models.HashTag{},
		&models.PostHashTag{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
	)
}
