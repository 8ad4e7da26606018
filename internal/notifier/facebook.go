package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dealwire/dealbot/internal/models"
)

const defaultGraphURL = "https://graph.facebook.com/v19.0"

// FacebookClient posts composed deal messages to the account feed via the
// Graph API.
type FacebookClient struct {
	appID       string
	appSecret   string
	accessToken string
	baseURL     string
	client      *http.Client
	limiter     *rate.Limiter
}

func NewFacebook(appID, appSecret, accessToken string) *FacebookClient {
	return &FacebookClient{
		appID:       appID,
		appSecret:   appSecret,
		accessToken: accessToken,
		baseURL:     defaultGraphURL,
		client:      &http.Client{Timeout: 15 * time.Second},
		limiter:     rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type graphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

type graphFeedResponse struct {
	ID    string      `json:"id"`
	Error *graphError `json:"error"`
}

// PostFeed publishes the deal as a feed post with the affiliate link as a
// separate link field. Success is decided by the absence of an error object
// in the Graph response.
func (c *FacebookClient) PostFeed(ctx context.Context, deal models.Deal) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("message", fmt.Sprintf("%s\nPrice: %s\nCheck out this deal: %s",
		deal.ProductName, deal.Price, deal.AffiliateLink))
	form.Set("link", deal.AffiliateLink)
	form.Set("access_token", c.accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/me/feed", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("facebook request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	var feedResp graphFeedResponse
	if err := json.Unmarshal(bodyBytes, &feedResp); err != nil {
		return fmt.Errorf("facebook status %s: unreadable body: %w", resp.Status, err)
	}
	if feedResp.Error != nil {
		return fmt.Errorf("facebook error (%s, code %d): %s",
			feedResp.Error.Type, feedResp.Error.Code, feedResp.Error.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("facebook status: %s, body: %s", resp.Status, string(bodyBytes))
	}
	return nil
}
