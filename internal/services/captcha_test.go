package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCaptchaVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		if r.PostForm.Get("secret") != "test-secret" {
			t.Errorf("secret = %q, want test-secret", r.PostForm.Get("secret"))
		}

		switch r.PostForm.Get("response") {
		case "good-token":
			w.Write([]byte(`{"success": true}`))
		default:
			w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
		}
	}))
	defer server.Close()

	v := NewCaptchaVerifier("test-secret", server.URL)

	ok, err := v.Verify("good-token")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Error("valid token rejected")
	}

	ok, err = v.Verify("bad-token")
	if err != nil {
		t.Fatalf("rejection must not be an error: %v", err)
	}
	if ok {
		t.Error("invalid token accepted")
	}
}

func TestCaptchaVerifyUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Unreachable endpoint

	v := NewCaptchaVerifier("test-secret", server.URL)
	if _, err := v.Verify("token"); err == nil {
		t.Error("expected error for unreachable provider")
	}
}
