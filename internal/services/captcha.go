package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// CaptchaVerifier checks submitted hCaptcha tokens against the provider's
// siteverify endpoint. One attempt per token, no retries.
type CaptchaVerifier struct {
	secret    string
	verifyURL string
	client    *http.Client
}

// NewCaptchaVerifier builds a verifier for the given secret and endpoint.
func NewCaptchaVerifier(secret, verifyURL string) *CaptchaVerifier {
	return &CaptchaVerifier{
		secret:    secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type captchaResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify reports whether the provider accepted the token. A reachable
// provider rejecting the token is (false, nil); transport failures are
// returned as errors.
func (v *CaptchaVerifier) Verify(token string) (bool, error) {
	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
	}

	resp, err := v.client.PostForm(v.verifyURL, form)
	if err != nil {
		return false, fmt.Errorf("captcha verification request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read captcha response: %w", err)
	}

	var result captchaResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("failed to parse captcha response: %w", err)
	}

	return result.Success, nil
}
