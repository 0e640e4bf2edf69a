package router

import (
	"fmt"
	"sort"

	"github.com/HEEpage/heestagram/src/core/middleware"
	"github.com/HEEpage/heestagram/src/modules/authentication"
	"github.com/HEEpage/heestagram/src/modules/comments"
	"github.com/HEEpage/heestagram/src/modules/feed"
	"github.com/HEEpage/heestagram/src/modules/posts"
	"github.com/HEEpage/heestagram/src/modules/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func InitialiseAndSetupRoutes(app *fiber.App) {
	root := app.Group("/", logger.New())

	root.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	setupUserRoutes(root.Group("/users"))
	setupPostRoutes(root.Group("/posts"))

	routes := app.GetRoutes()
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})
	for _, route := range routes {
		fmt.Printf("%s\t%s\n", route.Method, route.Path)
	}
}

func setupUserRoutes(router fiber.Router) {
	router.Post("/signup", authentication.SignUp)
	router.Get("/login", authentication.LoginPage)
	router.Post("/login", authentication.SignIn)
	router.Get("/logout", authentication.SignOut)
	router.Post("/logout", authentication.SignOut)

	router.Post("/upload-profile-photo", middleware.Protected(), users.UploadProfilePhoto)

	router.Get("/:user_id/profile", users.GetProfile)
	router.Get("/:user_id/followers", users.Followers)
	router.Get("/:user_id/following", users.Following)
	router.Post("/:user_id/follow", middleware.Protected(), users.FollowToggle)
}

func setupPostRoutes(router fiber.Router) {
	router.Get("/feed", middleware.Protected(), feed.FetchFeed)
	router.Post("/post-add", middleware.Protected(), posts.CreatePost)
	router.Post("/comment-add", middleware.Protected(), comments.CreateComment)
	router.Post("/comment-delete/:comment_id", middleware.Protected(), comments.DeleteComment)
	router.Get("/tags/:tag_name", posts.PostsByTag)

	// Parameterized post routes come last so the fixed paths above win
	router.Get("/:post_id", posts.PostDetail)
	router.Post("/:post_id/like", middleware.Protected(), posts.ToggleLike)
	router.Get("/:post_id/like", middleware.Protected(), posts.ToggleLike)
}
