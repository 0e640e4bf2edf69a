package utils

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/HEEpage/heestagram/src/core/database"

	storage_go "github.com/supabase-community/storage-go"
)

// UploadFile stores an uploaded file and returns its storage path and public
// URL. It is a variable so handler tests can run without a storage backend.
var UploadFile = UploadToSupabaseStorage

// DeleteFile removes a stored file by its storage path. A variable for the
// same reason as UploadFile.
var DeleteFile = DeleteFromSupabaseStorage

// UploadToSupabaseStorage uploads a file to Supabase storage and returns the file's path, public URL, and content type.
func UploadToSupabaseStorage(file *multipart.FileHeader, path string) (string, string, string, error) {
	storageClient, bucketName, err := database.SupabaseStorage()
	if err != nil {
		return "", "", "", err
	}

	fileBody, err := file.Open()
	if err != nil {
		return "", "", "", err
	}
	defer fileBody.Close()

	fileBytes, err := io.ReadAll(fileBody)
	if err != nil {
		return "", "", "", err
	}

	// Reset the file pointer to the beginning
	_, err = fileBody.Seek(0, io.SeekStart)
	if err != nil {
		return "", "", "", err
	}

	// Detect content type based on file contents
	contentType := http.DetectContentType(fileBytes)

	_, err = storageClient.UploadFile(bucketName, path, fileBody, storage_go.FileOptions{ContentType: &contentType})
	if err != nil {
		return "", "", "", err
	}

	response := storageClient.GetPublicUrl(bucketName, path)
	return path, response.SignedURL, contentType, nil
}

// DeleteFromSupabaseStorage deletes a file from Supabase storage given the file path.
func DeleteFromSupabaseStorage(path string) error {
	storageClient, bucketName, err := database.SupabaseStorage()
	if err != nil {
		return err
	}

	_, err = storageClient.RemoveFile(bucketName, []string{path})
	return err
}

// SplitTags turns a comma-separated tag string into trimmed, non-empty,
// deduplicated names, preserving first-seen order.
func SplitTags(raw string) []string {
	names := []string{}
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return RemoveDuplicates(names)
}

// RemoveDuplicates removes duplicate values from a slice of strings.
func RemoveDuplicates(slice []string) []string {
	seen := make(map[string]bool)
	result := []string{}

	for _, val := range slice {
		if _, ok := seen[val]; !ok {
			seen[val] = true
			result = append(result, val)
		}
	}

	return result
}
