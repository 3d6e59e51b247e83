package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// LoginError is returned when the MindsDB session login failed.
type LoginError struct {
	URL    string
	Reason string
	Err    error
}

// Error returns a user-friendly error message.
func (e *LoginError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("login to %s failed: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("login to %s failed: %s", e.URL, e.Reason)
}

// Unwrap returns the underlying error.
func (e *LoginError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is() to work with wrapped errors.
func (e *LoginError) Is(target error) bool {
	_, ok := target.(*LoginError)
	return ok
}

type loginResponse struct {
	Token   string `json:"token"`
	Session string `json:"session"`
}

// LoginMindsDB exchanges username and password for a MindsDB session
// token. The "token" response field is preferred over "session"; an empty
// value is an error.
func LoginMindsDB(ctx context.Context, httpClient *http.Client, baseURL, username, password string) (string, error) {
	loginURL := strings.TrimSuffix(baseURL, "/") + "/api/login"

	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return "", &LoginError{URL: loginURL, Reason: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
	if err != nil {
		return "", &LoginError{URL: loginURL, Reason: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", &LoginError{URL: loginURL, Reason: "request", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &LoginError{URL: loginURL, Reason: "read response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &LoginError{URL: loginURL, Reason: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	var parsed loginResponse
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &parsed); err != nil {
			return "", &LoginError{URL: loginURL, Reason: "parse response", Err: err}
		}
	}

	if parsed.Token != "" {
		return parsed.Token, nil
	}
	if parsed.Session != "" {
		return parsed.Session, nil
	}
	return "", &LoginError{URL: loginURL, Reason: "no token or session in response"}
}
