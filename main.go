package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/HEEpage/heestagram/src/core/config"
	"github.com/HEEpage/heestagram/src/core/database"
	"github.com/HEEpage/heestagram/src/core/router"
)

func main() {
	app := fiber.New()

	app.Use(recover.New())   // Recover middleware to handle panics
	app.Use(cors.New())      // CORS middleware for cross-origin requests
	app.Use(requestid.New()) // Middleware to generate unique request IDs

	// Setup environment variables
	config.SetupEnv()

	// Connect to the database and bring the schema up to date
	database.ConnectDB()
	if err := database.Migrate(); err != nil {
		log.Fatalf("Error migrating the database: %v", err)
	}

	// Set up routes
	router.InitialiseAndSetupRoutes(app)

	// Get port from config and start the server
	port := config.ConfigOr("APP_PORT", "8000")
	log.Fatal(app.Listen(fmt.Sprintf(":%s", port)))
}
