package resolver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxRedirects  = 10
	maxSniffBytes = 64 << 10
)

// Resolver follows the redirect chain behind a shortened deal link to its
// canonical destination. Resolution never fails the caller: on any transport
// error the original URL is returned so extraction can proceed with partial
// data.
type Resolver struct {
	client *http.Client
}

func New(timeout time.Duration) *Resolver {
	return &Resolver{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

func (r *Resolver) Resolve(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		slog.Warn("Error building resolve request", "url", rawURL, "error", err)
		return rawURL
	}

	resp, err := r.client.Do(req)
	if err != nil {
		slog.Warn("Error resolving link", "url", rawURL, "error", err)
		return rawURL
	}
	defer resp.Body.Close()

	final := resp.Request.URL

	// Some shorteners answer 200 with an HTML meta-refresh instead of an
	// HTTP redirect. Follow that one extra hop.
	if target := metaRefreshTarget(resp); target != "" {
		if abs, err := final.Parse(target); err == nil {
			return abs.String()
		}
	}

	return final.String()
}

func metaRefreshTarget(resp *http.Response) string {
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxSniffBytes))
	if err != nil {
		return ""
	}

	var target string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		equiv, _ := s.Attr("http-equiv")
		if !strings.EqualFold(equiv, "refresh") {
			return true
		}
		content, _ := s.Attr("content")
		if t := parseRefreshContent(content); t != "" {
			target = t
			return false
		}
		return true
	})
	return target
}

// parseRefreshContent extracts the url= part of a refresh directive such as
// "0; url=https://example.com/x".
func parseRefreshContent(content string) string {
	for _, part := range strings.Split(content, ";") {
		part = strings.TrimSpace(part)
		if len(part) > 4 && strings.EqualFold(part[:4], "url=") {
			candidate := strings.Trim(part[4:], `'" `)
			if _, err := url.Parse(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}
