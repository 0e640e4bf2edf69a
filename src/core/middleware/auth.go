package middleware

import (
	"github.com/HEEpage/heestagram/src/core/config"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookie is the cookie the login handler stores the signed token in.
const SessionCookie = "heestagram_session"

// LoginPath is where every unauthenticated request on a guarded route lands.
const LoginPath = "/users/login/"

// Protected guards a route behind a valid session token. The token is
// accepted from the session cookie or a bearer header; anything else is
// redirected to the login page rather than answered with a bare 401.
func Protected() fiber.Handler {
	jwtSecret := config.Config("JWT_SECRET")
	if jwtSecret == "" {
		panic("JWT_SECRET is not set in the environment variables") // Panic to prevent startup
	}

	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(jwtSecret)},
		TokenLookup:  "header:Authorization,cookie:" + SessionCookie,
		ErrorHandler: redirectToLogin,
		SuccessHandler: func(c *fiber.Ctx) error {
			// Extract user claims and attach user_id to the context
			user := c.Locals("user").(*jwt.Token)
			claims := user.Claims.(jwt.MapClaims)
			if userID, ok := claims["sub"].(string); ok {
				c.Locals("user_id", userID)
				return c.Next()
			}
			return redirectToLogin(c, nil)
		},
	})
}

func redirectToLogin(c *fiber.Ctx, _ error) error {
	return c.Redirect(LoginPath, fiber.StatusFound)
}

// CurrentUserID returns the authenticated user's id attached by Protected.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
