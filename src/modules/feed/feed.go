package feed

import (
	"time"

	"github.com/HEEpage/heestagram/src/core/database"
	"github.com/HEEpage/heestagram/src/core/helpers"
	"github.com/HEEpage/heestagram/src/core/middleware"
	"github.com/HEEpage/heestagram/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostView is the shape a post takes in feed, tag and detail responses.
type PostView struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	Username      string        `json:"username"`
	Content       string        `json:"content"`
	Images        []string      `json:"images"`
	Tags          []string      `json:"tags"`
	LikesCount    int64         `json:"likes_count"`
	CommentsCount int64         `json:"comments_count"`
	Liked         bool          `json:"liked"`
	Comments      []CommentView `json:"comments"`
	CreatedAt     time.Time     `json:"created_at"`
}

type CommentView struct {
	ID        uint      `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// AnchorPath is the feed location anchored at one post, so the client can
// scroll straight to it after a redirect.
func AnchorPath(postID uuid.UUID) string {
	return "/posts/feed/#post-" + postID.String()
}

// FetchFeed returns every post, newest first.
func FetchFeed(c *fiber.Ctx) error {
	viewerID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.Redirect(middleware.LoginPath, fiber.StatusFound)
	}

	db := database.DB
	posts, err := FetchAllPosts(db)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch feed", err)
	}

	views, err := BuildPostViews(db, posts, viewerID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to assemble feed", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Feed fetched successfully", fiber.Map{
		"posts": views,
	})
}

// FetchAllPosts orders by creation time descending; the id tiebreak keeps the
// order stable for posts sharing a timestamp.
func FetchAllPosts(db *gorm.DB) ([]models.Post, error) {
	var posts []models.Post
	err := db.Order("created_at DESC, id DESC").Find(&posts).Error
	return posts, err
}

// BuildPostViews assembles the response shape for a list of posts. A nil
// viewer (uuid.Nil) leaves the liked flag false everywhere.
func BuildPostViews(db *gorm.DB, posts []models.Post, viewerID uuid.UUID) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		view, err := BuildPostView(db, post, viewerID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// BuildPostView assembles one post with its author, images, tags, counts and
// comments.
func BuildPostView(db *gorm.DB, post models.Post, viewerID uuid.UUID) (PostView, error) {
	view := PostView{
		ID:        post.ID.String(),
		UserID:    post.UserID.String(),
		Content:   post.Content,
		Images:    []string{},
		Tags:      []string{},
		Comments:  []CommentView{},
		CreatedAt: post.CreatedAt,
	}

	var author models.User
	if err := db.Select("username").Where("id = ?", post.UserID).First(&author).Error; err == nil {
		view.Username = author.Username
	}

	var images []models.PostImage
	if err := db.Where("post_id = ?", post.ID).Order("id ASC").Find(&images).Error; err != nil {
		return view, err
	}
	for _, image := range images {
		view.Images = append(view.Images, image.PhotoURL)
	}

	tags, err := RetrieveTagsForPost(db, post.ID)
	if err != nil {
		return view, err
	}
	view.Tags = tags

	if err := db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&view.LikesCount).Error; err != nil {
		return view, err
	}

	if viewerID != uuid.Nil {
		var liked int64
		if err := db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", post.ID, viewerID).Count(&liked).Error; err != nil {
			return view, err
		}
		view.Liked = liked > 0
	}

	comments, err := retrieveCommentsForPost(db, post.ID)
	if err != nil {
		return view, err
	}
	view.Comments = comments
	view.CommentsCount = int64(len(comments))

	return view, nil
}

// RetrieveTagsForPost returns the names of every tag attached to a post.
func RetrieveTagsForPost(db *gorm.DB, postID uuid.UUID) ([]string, error) {
	tags := []string{}
	err := db.Table("hash_tags").
		Joins("JOIN post_hashtags ON post_hashtags.tag_id = hash_tags.id").
		Where("post_hashtags.post_id = ?", postID).
		Order("hash_tags.name ASC").
		Pluck("hash_tags.name", &tags).Error
	return tags, err
}

func retrieveCommentsForPost(db *gorm.DB, postID uuid.UUID) ([]CommentView, error) {
	comments := []CommentView{}
	err := db.Table("comments").
		Select("comments.id, comments.user_id, users.username, comments.content, comments.created_at").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.id ASC").
		Scan(&comments).Error
	return comments, err
}
