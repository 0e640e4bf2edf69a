package authentication

import (
	"errors"
	"fmt"
	"time"

	"github.com/HEEpage/heestagram/src/core/config"
	"github.com/HEEpage/heestagram/src/core/database"
	"github.com/HEEpage/heestagram/src/core/helpers"
	"github.com/HEEpage/heestagram/src/core/middleware"
	"github.com/HEEpage/heestagram/src/core/models"
	"github.com/HEEpage/heestagram/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionLifetime = 30 * 24 * time.Hour

type signupInput struct {
	Username         string `validate:"required,min=3"`
	Password         string `validate:"required,min=6"`
	Email            string `validate:"omitempty,email"`
	ShortDescription string
}

type loginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// IssueSessionToken generates the signed token that represents a session.
func IssueSessionToken(userID string, username string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"name": username,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(sessionLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

// SignUp handles user registration. On success the account exists and the
// client is sent to the login page; there is no auto-login.
func SignUp(c *fiber.Ctx) error {
	db := database.DB

	input := signupInput{
		Username:         c.FormValue("username"),
		Password:         c.FormValue("password"),
		Email:            c.FormValue("email"),
		ShortDescription: c.FormValue("short_description"),
	}
	if err := helpers.Validate(input); err != nil {
		return helpers.HandleValidationError(c, "Invalid signup data", err)
	}

	var existing models.User
	if err := db.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		return helpers.HandleFieldErrors(c, "Invalid signup data", "username already taken",
			map[string]string{"username": "already taken"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to check username", err)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to hash password", err)
	}

	user := models.User{
		ID:               uuid.New(),
		Username:         input.Username,
		Password:         string(hashedPwd),
		Email:            input.Email,
		ShortDescription: input.ShortDescription,
	}

	// Profile image is optional at signup
	if image, err := c.FormFile("profile_image"); err == nil {
		path := fmt.Sprintf("profiles/%s-%s", user.ID, image.Filename)
		storagePath, url, _, err := utils.UploadFile(image, path)
		if err != nil {
			return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to upload profile image", err)
		}
		user.ProfileImageURL = url
		user.ProfileImageStoragePath = storagePath
	}

	if err := db.Create(&user).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create user account", err)
	}

	return c.Redirect(middleware.LoginPath, fiber.StatusSeeOther)
}

// LoginPage is where the login redirect from guarded routes lands. There is
// no HTML form to render, so it tells the client how to open a session.
func LoginPage(c *fiber.Ctx) error {
	return helpers.HandleSuccess(c, fiber.StatusOK, "Log in with your username and password", fiber.Map{
		"method": "POST",
		"action": middleware.LoginPath,
		"fields": []string{"username", "password"},
	})
}

// SignIn authenticates a user and opens a session. The signed token goes into
// the session cookie so the browser carries it on every following request.
func SignIn(c *fiber.Ctx) error {
	db := database.DB

	input := loginInput{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}
	if err := helpers.Validate(input); err != nil {
		return helpers.HandleValidationError(c, "Invalid login data", err)
	}

	var user models.User
	if err := db.Where("username = ?", input.Username).First(&user).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "No user matches the given credentials", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "No user matches the given credentials", nil)
	}

	token, err := IssueSessionToken(user.ID.String(), user.Username)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to generate token", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(sessionLifetime),
		Path:     "/",
		HTTPOnly: true,
	})

	return c.Redirect("/posts/feed/", fiber.StatusSeeOther)
}

// SignOut destroys the session and sends the client back to the login page.
func SignOut(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		Path:     "/",
		HTTPOnly: true,
	})
	return c.Redirect(middleware.LoginPath, fiber.StatusFound)
}
