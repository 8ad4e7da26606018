package util

import "net/url"

// AffiliateLink stamps rawURL with the given Amazon affiliate tag. It is
// idempotent: a URL that already carries a tag parameter is returned
// unchanged, so re-tagging never doubles the parameter. The tag is joined
// through url.Values, which uses "&" when the URL already has a query string.
// An unparseable URL is returned as is.
func AffiliateLink(rawURL, tag string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	query := parsed.Query()
	if query.Has("tag") {
		return rawURL
	}
	query.Set("tag", tag)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
