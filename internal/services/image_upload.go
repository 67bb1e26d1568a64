package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ImageUploader forwards uploaded files to the ImgBB API and returns the
// hosted URL.
type ImageUploader struct {
	key       string
	uploadURL string
	client    *http.Client
}

// NewImageUploader builds an uploader for the given API key and endpoint.
func NewImageUploader(key, uploadURL string) *ImageUploader {
	return &ImageUploader{
		key:       key,
		uploadURL: uploadURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether an API key is present. Without one the create
// path skips the upload entirely.
func (u *ImageUploader) Configured() bool {
	return u.key != ""
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the file to the image host and returns the public URL.
func (u *ImageUploader) Upload(file multipart.File, header *multipart.FileHeader) (string, error) {
	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	part, err := writer.CreateFormFile("image", header.Filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read image file: %w", err)
	}
	if err := writer.WriteField("key", u.key); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, u.uploadURL, &requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	var result imgbbResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	if !result.Success {
		return "", fmt.Errorf("image host rejected upload: %s", result.Error.Message)
	}

	return result.Data.URL, nil
}
