package users

import (
	"errors"
	"fmt"
	"time"

	"github.com/HEEpage/heestagram/src/core/database"
	"github.com/HEEpage/heestagram/src/core/helpers"
	"github.com/HEEpage/heestagram/src/core/middleware"
	"github.com/HEEpage/heestagram/src/core/models"
	"github.com/HEEpage/heestagram/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RelationshipView is one side of a follow row, shown on the followers and
// following pages.
type RelationshipView struct {
	UserID          string    `json:"user_id"`
	Username        string    `json:"username"`
	ProfileImageURL string    `json:"profile_image_url"`
	FollowedAt      time.Time `json:"followed_at"`
}

// GetProfile returns a user's public profile or 404.
func GetProfile(c *fiber.Ctx) error {
	db := database.DB

	user, err := fetchUser(c, db)
	if err != nil {
		return handleUserError(c, err)
	}

	var postCount, followerCount, followingCount int64
	if err := db.Model(&models.Post{}).Where("user_id = ?", user.ID).Count(&postCount).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch profile", err)
	}
	if err := db.Model(&models.Follow{}).Where("following_id = ?", user.ID).Count(&followerCount).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch profile", err)
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&followingCount).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch profile", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "User profile retrieved successfully", fiber.Map{
		"user":            user,
		"post_count":      postCount,
		"follower_count":  followerCount,
		"following_count": followingCount,
	})
}

// Followers lists everyone following the given user.
func Followers(c *fiber.Ctx) error {
	db := database.DB

	user, err := fetchUser(c, db)
	if err != nil {
		return handleUserError(c, err)
	}

	relationships, err := fetchRelationships(db, "follows.following_id", "follows.follower_id", user.ID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch followers", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Followers retrieved successfully", fiber.Map{
		"user":          user,
		"relationships": relationships,
	})
}

// Following lists everyone the given user follows.
func Following(c *fiber.Ctx) error {
	db := database.DB

	user, err := fetchUser(c, db)
	if err != nil {
		return handleUserError(c, err)
	}

	relationships, err := fetchRelationships(db, "follows.follower_id", "follows.following_id", user.ID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch following", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Following retrieved successfully", fiber.Map{
		"user":          user,
		"relationships": relationships,
	})
}

// FollowToggle follows the target user, or unfollows when already following.
func FollowToggle(c *fiber.Ctx) error {
	db := database.DB
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.Redirect(middleware.LoginPath, fiber.StatusFound)
	}

	target, err := fetchUser(c, db)
	if err != nil {
		return handleUserError(c, err)
	}
	if target.ID == userID {
		return helpers.HandleError(c, fiber.StatusBadRequest, "You cannot follow yourself", nil)
	}

	var follow models.Follow
	err = db.Where("follower_id = ? AND following_id = ?", userID, target.ID).First(&follow).Error
	switch {
	case err == nil:
		if err := db.Delete(&follow).Error; err != nil {
			return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to unfollow", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		follow = models.Follow{FollowerID: userID, FollowingID: target.ID}
		if err := db.Create(&follow).Error; err != nil {
			return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to follow", err)
		}
	default:
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch follow", err)
	}

	if next := c.Query("next"); next != "" {
		return c.Redirect(next, fiber.StatusSeeOther)
	}
	return c.Redirect(fmt.Sprintf("/users/%s/profile/", target.ID), fiber.StatusSeeOther)
}

// UploadProfilePhoto replaces the session user's profile image.
func UploadProfilePhoto(c *fiber.Ctx) error {
	db := database.DB
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.Redirect(middleware.LoginPath, fiber.StatusFound)
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusNotFound, "User not found", err)
	}

	image, err := c.FormFile("profile_image")
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing profile_image file", err)
	}

	path := fmt.Sprintf("profiles/%s-%s", user.ID, image.Filename)
	storagePath, url, _, err := utils.UploadFile(image, path)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to upload profile image", err)
	}

	if user.ProfileImageStoragePath != "" && user.ProfileImageStoragePath != storagePath {
		// Old image is unreferenced after the update; a failed delete only leaks storage
		_ = utils.DeleteFile(user.ProfileImageStoragePath)
	}

	user.ProfileImageURL = url
	user.ProfileImageStoragePath = storagePath
	if err := db.Save(&user).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to update profile", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Profile photo updated successfully", user)
}

var errUserNotFound = errors.New("user not found")

// fetchUser resolves the :user_id route param to a user row.
func fetchUser(c *fiber.Ctx, db *gorm.DB) (models.User, error) {
	var user models.User

	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return user, errUserNotFound
	}

	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, errUserNotFound
		}
		return user, err
	}
	return user, nil
}

// handleUserError writes the fetch-or-404 contract for fetchUser failures.
func handleUserError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errUserNotFound) {
		return helpers.HandleError(c, fiber.StatusNotFound, "User not found", err)
	}
	return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch user", err)
}

func fetchRelationships(db *gorm.DB, whereColumn, joinColumn string, userID uuid.UUID) ([]RelationshipView, error) {
	relationships := []RelationshipView{}
	err := db.Table("follows").
		Select("users.id AS user_id, users.username, users.profile_image_url, follows.created_at AS followed_at").
		Joins(fmt.Sprintf("JOIN users ON users.id = %s", joinColumn)).
		Where(fmt.Sprintf("%s = ?", whereColumn), userID).
		Order("follows.created_at DESC").
		Scan(&relationships).Error
	return relationships, err
}
