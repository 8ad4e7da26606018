package publisher

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dealwire/dealbot/internal/models"
)

// FeedPoster is the text-feed platform (Facebook).
type FeedPoster interface {
	PostFeed(ctx context.Context, deal models.Deal) error
}

// PhotoPublisher is the image-centric platform (Instagram). Every publish
// attempt authenticates a fresh session.
type PhotoPublisher interface {
	Login(ctx context.Context) (session string, err error)
	PublishPhoto(ctx context.Context, session string, photo []byte, caption string) error
	UpdateBiography(ctx context.Context, session, bio string) error
}

// ImageFetcher downloads the photo bytes behind an opaque image reference.
type ImageFetcher interface {
	FetchImage(ctx context.Context, fileID string) ([]byte, error)
}

// Publisher fans a single deal out to every configured platform. Each
// platform attempt runs inside its own failure boundary: errors are logged
// with the platform identity and never propagate, so one platform failing
// cannot block the other or corrupt the queue.
type Publisher struct {
	feed   FeedPoster
	photos PhotoPublisher
	images ImageFetcher
}

func New(feed FeedPoster, photos PhotoPublisher, images ImageFetcher) *Publisher {
	return &Publisher{feed: feed, photos: photos, images: images}
}

// Publish attempts delivery of one deal to both platforms and returns once
// both attempts have finished. The deal is not re-queued on failure; each
// deal gets at most one delivery attempt per platform.
func (p *Publisher) Publish(ctx context.Context, deal models.Deal) {
	var g errgroup.Group
	g.Go(func() error {
		if err := p.feed.PostFeed(ctx, deal); err != nil {
			slog.Error("Facebook publish failed", "product", deal.ProductName, "error", err)
		} else {
			slog.Info("Posted to Facebook", "link", deal.AffiliateLink)
		}
		return nil
	})
	g.Go(func() error {
		if err := p.publishInstagram(ctx, deal); err != nil {
			slog.Error("Instagram publish failed", "product", deal.ProductName, "error", err)
		}
		return nil
	})
	_ = g.Wait()
}

func (p *Publisher) publishInstagram(ctx context.Context, deal models.Deal) error {
	if deal.Image == nil {
		slog.Info("Skipped Instagram - no image available", "product", deal.ProductName)
		return nil
	}

	photo, err := p.images.FetchImage(ctx, deal.Image.FileID)
	if err != nil {
		return fmt.Errorf("image fetch: %w", err)
	}

	session, err := p.photos.Login(ctx)
	if err != nil {
		return err
	}

	caption := fmt.Sprintf("%s\nPrice: %s\nLink in bio!", deal.ProductName, deal.Price)
	if err := p.photos.PublishPhoto(ctx, session, photo, caption); err != nil {
		return err
	}
	slog.Info("Posted to Instagram", "link", deal.AffiliateLink)

	// The bio points discoverers at the most recently posted deal; it is
	// only touched after the photo post succeeded.
	bio := fmt.Sprintf("Latest Deal: %s 🔥 Check out more deals in my stories!", deal.AffiliateLink)
	if err := p.photos.UpdateBiography(ctx, session, bio); err != nil {
		return fmt.Errorf("bio update: %w", err)
	}
	slog.Info("Updated Instagram bio with link", "link", deal.AffiliateLink)
	return nil
}
