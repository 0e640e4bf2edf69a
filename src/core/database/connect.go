package database

import (
	"fmt"
	"log"

	"github.com/HEEpage/heestagram/src/core/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDB opens the configured database and sets the package-level handle.
// DB_DRIVER selects postgres (default) or sqlite for local runs.
func ConnectDB() {
	var err error

	switch driver := config.ConfigOr("DB_DRIVER", "postgres"); driver {
	case "sqlite":
		path := config.ConfigOr("DB_PATH", "./heestagram.db")
		DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			config.Config("DB_HOST"),
			config.Config("DB_PORT"),
			config.Config("DB_USER"),
			config.Config("DB_PASSWORD"),
			config.Config("DB_NAME"),
		)
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		log.Fatalf("Unknown DB_DRIVER %q", driver)
	}

	if err != nil {
		log.Fatalf("Error connecting to the database: %v", err)
	}
	fmt.Println("Database successfully connected!")
}
