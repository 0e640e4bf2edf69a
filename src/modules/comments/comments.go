package comments

import (
	"errors"
	"strconv"

	"github.com/HEEpage/heestagram/src/core/database"
	"github.com/HEEpage/heestagram/src/core/helpers"
	"github.com/HEEpage/heestagram/src/core/middleware"
	"github.com/HEEpage/heestagram/src/core/models"
	"github.com/HEEpage/heestagram/src/modules/feed"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type createCommentInput struct {
	PostID  string `validate:"required,uuid4"`
	Content string `validate:"required"`
}

// CreateComment adds a comment to a post. The owner is always the session
// user; the client never chooses it. On invalid input nothing is created.
func CreateComment(c *fiber.Ctx) error {
	db := database.DB
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.Redirect(middleware.LoginPath, fiber.StatusFound)
	}

	input := createCommentInput{
		PostID:  c.FormValue("post_id"),
		Content: c.FormValue("content"),
	}
	if err := helpers.Validate(input); err != nil {
		return helpers.HandleValidationError(c, "Invalid comment data", err)
	}

	postID, err := uuid.Parse(input.PostID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid post_id format", err)
	}

	var post models.Post
	if err := db.Where("id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Post not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch post", err)
	}

	comment := models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: input.Content,
	}
	if err := db.Create(&comment).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create comment", err)
	}

	if next := c.Query("next"); next != "" {
		return c.Redirect(next, fiber.StatusSeeOther)
	}
	return c.Redirect(feed.AnchorPath(postID), fiber.StatusSeeOther)
}

// DeleteComment removes a comment. Only its author may do that; anyone else
// gets a 403 and the comment stays.
func DeleteComment(c *fiber.Ctx) error {
	db := database.DB
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.Redirect(middleware.LoginPath, fiber.StatusFound)
	}

	commentID, err := strconv.Atoi(c.Params("comment_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusNotFound, "Comment not found", err)
	}

	var comment models.Comment
	if err := db.Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Comment not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch comment", err)
	}

	if comment.UserID != userID {
		return helpers.HandleError(c, fiber.StatusForbidden, "You can only delete your own comments", nil)
	}

	if err := db.Delete(&comment).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to delete comment", err)
	}

	return c.Redirect(feed.AnchorPath(comment.PostID), fiber.StatusSeeOther)
}
