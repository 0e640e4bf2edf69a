package posts

import (
	"errors"
	"fmt"

	"github.com/HEEpage/heestagram/src/core/database"
	"github.com/HEEpage/heestagram/src/core/helpers"
	"github.com/HEEpage/heestagram/src/core/middleware"
	"github.com/HEEpage/heestagram/src/core/models"
	"github.com/HEEpage/heestagram/src/modules/feed"
	"github.com/HEEpage/heestagram/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type createPostInput struct {
	Content string `validate:"required"`
}

// CreatePost creates a post owned by the session user, stores its images in
// submission order and attaches its tags, then redirects to the feed anchored
// at the new post.
func CreatePost(c *fiber.Ctx) error {
	db := database.DB
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.Redirect(middleware.LoginPath, fiber.StatusFound)
	}

	input := createPostInput{Content: c.FormValue("content")}
	if err := helpers.Validate(input); err != nil {
		return helpers.HandleValidationError(c, "Invalid post data", err)
	}

	// Tags are shared rows created lazily; resolving them outside the
	// transaction keeps the conflict-retry in getOrCreateTag usable and
	// leaving a tag behind on a failed post is harmless.
	// An empty or absent tag string attaches nothing; that is not an error.
	var tags []models.HashTag
	for _, name := range utils.SplitTags(c.FormValue("tags")) {
		tag, err := getOrCreateTag(db, name)
		if err != nil {
			return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to save tags", err)
		}
		tags = append(tags, tag)
	}

	post := models.Post{
		ID:      uuid.New(),
		UserID:  userID,
		Content: input.Content,
	}

	// The post, its images and its tag attachments land together or not
	// at all; a failed upload rolls the half-made post back.
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}

		if form, err := c.MultipartForm(); err == nil && form != nil {
			for _, image := range form.File["images"] {
				path := fmt.Sprintf("posts/%s/%s-%s", post.ID, uuid.New(), image.Filename)
				storagePath, url, _, err := utils.UploadFile(image, path)
				if err != nil {
					return err
				}
				postImage := models.PostImage{
					PostID:      post.ID,
					PhotoURL:    url,
					StoragePath: storagePath,
				}
				if err := tx.Create(&postImage).Error; err != nil {
					return err
				}
			}
		}

		for _, tag := range tags {
			if err := attachTag(tx, post.ID, tag.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create post", err)
	}

	return c.Redirect(feed.AnchorPath(post.ID), fiber.StatusSeeOther)
}

// getOrCreateTag finds the tag with the exact name or creates it. When a
// concurrent request wins the insert, the unique index on hash_tags.name
// rejects ours and the follow-up fetch returns the winner's row.
func getOrCreateTag(db *gorm.DB, name string) (models.HashTag, error) {
	var tag models.HashTag
	err := db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return tag, err
	}

	tag = models.HashTag{Name: name}
	if createErr := db.Create(&tag).Error; createErr != nil {
		if fetchErr := db.Where("name = ?", name).First(&tag).Error; fetchErr != nil {
			return tag, createErr
		}
	}
	return tag, nil
}

// attachTag links a tag to a post. An insert refused by the composite unique
// index means the attachment is already there, which is the wanted state.
func attachTag(db *gorm.DB, postID uuid.UUID, tagID uint) error {
	err := db.Create(&models.PostHashTag{PostID: postID, TagID: tagID}).Error
	if err == nil {
		return nil
	}

	var count int64
	if checkErr := db.Model(&models.PostHashTag{}).
		Where("post_id = ? AND tag_id = ?", postID, tagID).
		Count(&count).Error; checkErr == nil && count > 0 {
		return nil
	}
	return err
}

// PostDetail returns one post or 404.
func PostDetail(c *fiber.Ctx) error {
	db := database.DB

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusNotFound, "Post not found", err)
	}

	var post models.Post
	if err := db.Where("id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Post not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch post", err)
	}

	viewerID, _ := middleware.CurrentUserID(c)
	view, err := feed.BuildPostView(db, post, viewerID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to assemble post", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Post fetched successfully", view)
}

// PostsByTag lists every post carrying the named tag. An unknown name is an
// empty listing, not an error.
func PostsByTag(c *fiber.Ctx) error {
	db := database.DB
	tagName := c.Params("tag_name")

	var tag models.HashTag
	if err := db.Where("name = ?", tagName).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleSuccess(c, fiber.StatusOK, "Posts fetched successfully", fiber.Map{
				"tag":   tagName,
				"posts": []feed.PostView{},
			})
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch tag", err)
	}

	var posts []models.Post
	err := db.Joins("JOIN post_hashtags ON post_hashtags.post_id = posts.id").
		Where("post_hashtags.tag_id = ?", tag.ID).
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch posts", err)
	}

	viewerID, _ := middleware.CurrentUserID(c)
	views, err := feed.BuildPostViews(db, posts, viewerID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to assemble posts", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Posts fetched successfully", fiber.Map{
		"tag":   tagName,
		"posts": views,
	})
}

// ToggleLike flips the session user's like on a post: liked becomes un-liked
// and back. Afterwards the client goes to ?next= when given, else to the feed
// anchored at the post.
func ToggleLike(c *fiber.Ctx) error {
	db := database.DB
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.Redirect(middleware.LoginPath, fiber.StatusFound)
	}

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusNotFound, "Post not found", err)
	}

	var post models.Post
	if err := db.Where("id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Post not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch post", err)
	}

	var like models.Like
	err = db.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error
	switch {
	case err == nil:
		if err := db.Delete(&like).Error; err != nil {
			return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to remove like", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		like = models.Like{UserID: userID, PostID: postID}
		if err := db.Create(&like).Error; err != nil {
			return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to save like", err)
		}
	default:
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch like", err)
	}

	if next := c.Query("next"); next != "" {
		return c.Redirect(next, fiber.StatusSeeOther)
	}
	return c.Redirect(feed.AnchorPath(postID), fiber.StatusSeeOther)
}
