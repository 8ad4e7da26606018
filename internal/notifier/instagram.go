package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultInstagramURL = "https://i.instagram.com/api/v1"

// InstagramClient drives the image-centric platform: session login, photo
// publish and the profile bio update that advertises the latest deal link.
// Sessions are not cached; every publish attempt logs in afresh.
type InstagramClient struct {
	username string
	password string
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
}

func NewInstagram(username, password string) *InstagramClient {
	return &InstagramClient{
		username: username,
		password: password,
		baseURL:  defaultInstagramURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		// One publish attempt is three calls (login, photo, bio); allow
		// that as a burst and pace anything beyond it.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 3),
	}
}

type igLoginResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type igStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Login authenticates and returns a session token for one publish attempt.
func (c *InstagramClient) Login(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	var loginResp igLoginResponse
	if err := c.do(ctx, http.MethodPost, "/accounts/login/", "",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &loginResp); err != nil {
		return "", fmt.Errorf("instagram login failed: %w", err)
	}
	if loginResp.Status != "ok" || loginResp.SessionID == "" {
		return "", fmt.Errorf("instagram login rejected: %s", loginResp.Message)
	}
	return loginResp.SessionID, nil
}

// PublishPhoto uploads the photo with the given caption.
func (c *InstagramClient) PublishPhoto(ctx context.Context, session string, photo []byte, caption string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("photo", "deal.jpg")
	if err != nil {
		return err
	}
	if _, err := part.Write(photo); err != nil {
		return err
	}
	if err := writer.WriteField("caption", caption); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	var pubResp igStatusResponse
	if err := c.do(ctx, http.MethodPost, "/media/photo/", session,
		writer.FormDataContentType(), &body, &pubResp); err != nil {
		return fmt.Errorf("instagram photo publish failed: %w", err)
	}
	if pubResp.Status != "ok" {
		return fmt.Errorf("instagram photo publish rejected: %s", pubResp.Message)
	}
	return nil
}

// UpdateBiography replaces the account bio text.
func (c *InstagramClient) UpdateBiography(ctx context.Context, session, bio string) error {
	form := url.Values{}
	form.Set("biography", bio)

	var editResp igStatusResponse
	if err := c.do(ctx, http.MethodPost, "/accounts/edit_profile/", session,
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &editResp); err != nil {
		return fmt.Errorf("instagram bio update failed: %w", err)
	}
	if editResp.Status != "ok" {
		return fmt.Errorf("instagram bio update rejected: %s", editResp.Message)
	}
	return nil
}

func (c *InstagramClient) do(ctx context.Context, method, path, session, contentType string, body io.Reader, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	if session != "" {
		req.Header.Set("Authorization", "Bearer "+session)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %s, body: %s", resp.Status, string(bodyBytes))
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("unreadable response body: %w", err)
	}
	return nil
}
