package services

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// buildUpload returns a multipart file/header pair the way gin hands them
// to the service.
func buildUpload(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("ReadForm failed: %v", err)
	}
	header := form.File["image"][0]
	file, err := header.Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return file, header
}

func TestImageUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm failed: %v", err)
		}
		if r.FormValue("key") != "test-key" {
			t.Errorf("key = %q, want test-key", r.FormValue("key"))
		}

		file, _, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("missing image part: %v", err)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "fake-image-bytes" {
			t.Errorf("image content = %q", data)
		}

		w.Write([]byte(`{"success": true, "data": {"url": "https://cdn.example/i/abc.jpg"}}`))
	}))
	defer server.Close()

	u := NewImageUploader("test-key", server.URL)
	if !u.Configured() {
		t.Fatal("uploader with key should report configured")
	}

	file, header := buildUpload(t, "photo.jpg", []byte("fake-image-bytes"))
	url, err := u.Upload(file, header)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if url != "https://cdn.example/i/abc.jpg" {
		t.Errorf("url = %q", url)
	}
}

func TestImageUploadRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": {"message": "invalid key"}}`))
	}))
	defer server.Close()

	u := NewImageUploader("bad-key", server.URL)
	file, header := buildUpload(t, "photo.jpg", []byte("x"))
	if _, err := u.Upload(file, header); err == nil {
		t.Error("expected error when the host rejects the upload")
	}
}

func TestImageUploaderUnconfigured(t *testing.T) {
	u := NewImageUploader("", "https://api.example/upload")
	if u.Configured() {
		t.Error("uploader without key should not report configured")
	}
}
