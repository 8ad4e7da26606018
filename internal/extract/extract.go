package extract

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dealwire/dealbot/internal/models"
	"github.com/dealwire/dealbot/internal/util"
)

// PriceNotFound is the sentinel price recorded when a message carries no
// recognizable price marker.
const PriceNotFound = "Price not found"

var linkRegex = regexp.MustCompile(`https?://(?:www\.)?(?:amazon\.com|amzn\.to)[^\s]+`)

// LinkResolver follows a (possibly shortened) URL to its destination.
type LinkResolver interface {
	Resolve(ctx context.Context, rawURL string) string
}

// NameCleaner rewrites a raw product line into a cleaner product name.
// Implementations may be unavailable at runtime; errors degrade to the raw
// name.
type NameCleaner interface {
	CleanName(ctx context.Context, name string) (string, error)
}

// Extractor turns inbound chat messages into Deal records.
type Extractor struct {
	resolver LinkResolver
	cleaner  NameCleaner
	tag      string
}

// Option configures optional extractor behavior.
type Option func(*Extractor)

// WithNameCleaner enables AI cleanup of product names.
func WithNameCleaner(c NameCleaner) Option {
	return func(e *Extractor) { e.cleaner = c }
}

func New(resolver LinkResolver, tag string, opts ...Option) *Extractor {
	e := &Extractor{resolver: resolver, tag: tag}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses msg into a Deal. ok is false when the message carries no
// recognized store link; once a link matches, extraction always succeeds and
// missing pieces degrade to sentinels rather than errors.
func (e *Extractor) Extract(ctx context.Context, msg models.Message) (deal *models.Deal, ok bool) {
	link := linkRegex.FindString(msg.Text)
	if link == "" {
		return nil, false
	}

	name := e.productName(ctx, msg.Text, link)

	price := PriceNotFound
	if p, found := util.ExtractPrice(msg.Text); found {
		price = p
	}

	resolved := e.resolver.Resolve(ctx, link)
	affiliateLink := util.AffiliateLink(resolved, e.tag)

	return &models.Deal{
		ProductName:   name,
		Price:         price,
		AffiliateLink: affiliateLink,
		Image:         largestVariant(msg.Photos),
	}, true
}

// productName derives the product name from the first line of text. If
// stripping the decorative markers empties the line, the raw trimmed line is
// used; if that is empty too, the matched link stands in so the name is never
// empty.
func (e *Extractor) productName(ctx context.Context, text, link string) string {
	raw := util.FirstLine(text)
	name := util.StripMarkers(raw)
	if name == "" {
		name = strings.TrimSpace(raw)
	}
	if name == "" {
		name = link
	}

	if e.cleaner != nil {
		cleaned, err := e.cleaner.CleanName(ctx, name)
		switch {
		case err != nil:
			slog.Warn("Product name cleanup failed, keeping raw name", "name", name, "error", err)
		case cleaned != "":
			name = cleaned
		}
	}
	return name
}

// largestVariant picks the highest-resolution photo. Variants arrive ordered
// smallest to largest, but selection is by area so an out-of-order provider
// still yields the largest.
func largestVariant(photos []models.ImageRef) *models.ImageRef {
	if len(photos) == 0 {
		return nil
	}
	best := photos[0]
	for _, p := range photos[1:] {
		if p.Width*p.Height >= best.Width*best.Height {
			best = p
		}
	}
	return &best
}
