package users_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HEEpage/heestagram/src/core/database"
	"github.com/HEEpage/heestagram/src/core/middleware"
	"github.com/HEEpage/heestagram/src/core/models"
	"github.com/HEEpage/heestagram/src/core/router"
	"github.com/HEEpage/heestagram/src/modules/authentication"
	"github.com/HEEpage/heestagram/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	database.DB = db
	if err := database.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	app := fiber.New()
	router.InitialiseAndSetupRoutes(app)
	return app
}

func createTestUser(t *testing.T, username string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{ID: uuid.New(), Username: username, Password: string(hash)}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func sessionCookie(t *testing.T, user models.User) *http.Cookie {
	t.Helper()
	token, err := authentication.IssueSessionToken(user.ID.String(), user.Username)
	if err != nil {
		t.Fatalf("failed to issue session token: %v", err)
	}
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

func doRequest(t *testing.T, app *fiber.App, method, path string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestProfileNotFound(t *testing.T) {
	app := setupTestApp(t)

	for _, path := range []string{
		"/users/" + uuid.NewString() + "/profile",
		"/users/not-a-uuid/profile",
	} {
		resp := doRequest(t, app, http.MethodGet, path, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, resp.StatusCode)
		}
	}
}

func TestProfileCounts(t *testing.T) {
	app := setupTestApp(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	post := models.Post{ID: uuid.New(), UserID: alice.ID, Content: "hello"}
	if err := database.DB.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	follow := models.Follow{FollowerID: bob.ID, FollowingID: alice.ID}
	if err := database.DB.Create(&follow).Error; err != nil {
		t.Fatalf("failed to create follow: %v", err)
	}

	resp := doRequest(t, app, http.MethodGet, "/users/"+alice.ID.String()+"/profile", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var envelope struct {
		Data struct {
			User struct {
				Username string `json:"username"`
			} `json:"user"`
			PostCount      int64 `json:"post_count"`
			FollowerCount  int64 `json:"follower_count"`
			FollowingCount int64 `json:"following_count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Data.User.Username != "alice" {
		t.Errorf("expected username alice, got %q", envelope.Data.User.Username)
	}
	if envelope.Data.PostCount != 1 || envelope.Data.FollowerCount != 1 || envelope.Data.FollowingCount != 0 {
		t.Errorf("unexpected counts: posts=%d followers=%d following=%d",
			envelope.Data.PostCount, envelope.Data.FollowerCount, envelope.Data.FollowingCount)
	}
}

func TestFollowToggle(t *testing.T) {
	app := setupTestApp(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	cookie := sessionCookie(t, alice)

	followCount := func() int64 {
		var n int64
		database.DB.Model(&models.Follow{}).
			Where("follower_id = ? AND following_id = ?", alice.ID, bob.ID).
			Count(&n)
		return n
	}

	path := "/users/" + bob.ID.String() + "/follow"
	resp := doRequest(t, app, http.MethodPost, path, cookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, resp.StatusCode)
	}
	want := "/users/" + bob.ID.String() + "/profile/"
	if location := resp.Header.Get("Location"); location != want {
		t.Errorf("expected redirect to %q, got %q", want, location)
	}
	if followCount() != 1 {
		t.Fatalf("expected follow row after first toggle, got %d", followCount())
	}

	resp = doRequest(t, app, http.MethodPost, path, cookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, resp.StatusCode)
	}
	if followCount() != 0 {
		t.Errorf("expected follow removed after second toggle, got %d", followCount())
	}
}

func TestFollowRequiresLogin(t *testing.T) {
	app := setupTestApp(t)
	bob := createTestUser(t, "bob")

	resp := doRequest(t, app, http.MethodPost, "/users/"+bob.ID.String()+"/follow", nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected %d, got %d", http.StatusFound, resp.StatusCode)
	}
	if location := resp.Header.Get("Location"); location != middleware.LoginPath {
		t.Errorf("expected redirect to %q, got %q", middleware.LoginPath, location)
	}

	var count int64
	database.DB.Model(&models.Follow{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no follow rows, got %d", count)
	}
}

func TestSelfFollowRejected(t *testing.T) {
	app := setupTestApp(t)
	alice := createTestUser(t, "alice")

	resp := doRequest(t, app, http.MethodPost, "/users/"+alice.ID.String()+"/follow", sessionCookie(t, alice))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var count int64
	database.DB.Model(&models.Follow{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no follow rows, got %d", count)
	}
}

func TestUploadProfilePhotoReplacesOldImage(t *testing.T) {
	app := setupTestApp(t)
	alice := createTestUser(t, "alice")

	alice.ProfileImageURL = "https://cdn.test/profiles/old.png"
	alice.ProfileImageStoragePath = "profiles/old.png"
	if err := database.DB.Save(&alice).Error; err != nil {
		t.Fatalf("failed to seed profile image: %v", err)
	}

	originalUpload := utils.UploadFile
	utils.UploadFile = func(file *multipart.FileHeader, path string) (string, string, string, error) {
		return path, "https://cdn.test/" + path, "image/png", nil
	}
	t.Cleanup(func() { utils.UploadFile = originalUpload })

	var deleted []string
	originalDelete := utils.DeleteFile
	utils.DeleteFile = func(path string) error {
		deleted = append(deleted, path)
		return nil
	}
	t.Cleanup(func() { utils.DeleteFile = originalDelete })

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("profile_image", "new.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte("new.png")); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/users/upload-profile-photo", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(sessionCookie(t, alice))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if len(deleted) != 1 || deleted[0] != "profiles/old.png" {
		t.Errorf("expected old image deleted, got %v", deleted)
	}

	var updated models.User
	if err := database.DB.Where("id = ?", alice.ID).First(&updated).Error; err != nil {
		t.Fatalf("failed to fetch user: %v", err)
	}
	if !strings.HasSuffix(updated.ProfileImageStoragePath, "new.png") {
		t.Errorf("expected storage path ending in new.png, got %q", updated.ProfileImageStoragePath)
	}
	if updated.ProfileImageURL != "https://cdn.test/"+updated.ProfileImageStoragePath {
		t.Errorf("expected URL to match storage path, got %q", updated.ProfileImageURL)
	}
}

func TestFollowersAndFollowingListings(t *testing.T) {
	app := setupTestApp(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	follow := models.Follow{FollowerID: bob.ID, FollowingID: alice.ID}
	if err := database.DB.Create(&follow).Error; err != nil {
		t.Fatalf("failed to create follow: %v", err)
	}

	type listing struct {
		Data struct {
			Relationships []struct {
				Username string `json:"username"`
			} `json:"relationships"`
		} `json:"data"`
	}

	decode := func(resp *http.Response) listing {
		t.Helper()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		var l listing
		if err := json.Unmarshal(body, &l); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return l
	}

	followers := decode(doRequest(t, app, http.MethodGet, "/users/"+alice.ID.String()+"/followers", nil))
	if len(followers.Data.Relationships) != 1 || followers.Data.Relationships[0].Username != "bob" {
		t.Errorf("expected bob in alice's followers, got %+v", followers.Data.Relationships)
	}

	following := decode(doRequest(t, app, http.MethodGet, "/users/"+bob.ID.String()+"/following", nil))
	if len(following.Data.Relationships) != 1 || following.Data.Relationships[0].Username != "alice" {
		t.Errorf("expected alice in bob's following, got %+v", following.Data.Relationships)
	}

	empty := decode(doRequest(t, app, http.MethodGet, "/users/"+alice.ID.String()+"/following", nil))
	if len(empty.Data.Relationships) != 0 {
		t.Errorf("expected empty following list for alice, got %+v", empty.Data.Relationships)
	}
}
