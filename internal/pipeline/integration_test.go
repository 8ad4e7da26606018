package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/dealwire/dealbot/internal/extract"
	"github.com/dealwire/dealbot/internal/models"
	"github.com/dealwire/dealbot/internal/publisher"
	"github.com/dealwire/dealbot/internal/store"
	"github.com/dealwire/dealbot/internal/validator"
)

// End-to-end pipeline test: real extractor, store and validator, with the
// link resolver and both platforms faked out.

type echoResolver struct{}

func (echoResolver) Resolve(_ context.Context, rawURL string) string {
	if rawURL == "https://amzn.to/abc123" {
		return "https://www.amazon.com/dp/B0MOUSE"
	}
	return rawURL
}

type captureFeed struct {
	mu     sync.Mutex
	posted []models.Deal
}

func (c *captureFeed) PostFeed(_ context.Context, deal models.Deal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posted = append(c.posted, deal)
	return nil
}

type capturePhotos struct {
	mu        sync.Mutex
	published []string
	bios      []string
}

func (c *capturePhotos) Login(_ context.Context) (string, error) { return "sess", nil }

func (c *capturePhotos) PublishPhoto(_ context.Context, _ string, _ []byte, caption string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, caption)
	return nil
}

func (c *capturePhotos) UpdateBiography(_ context.Context, _ string, bio string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bios = append(c.bios, bio)
	return nil
}

type staticImages struct{}

func (staticImages) FetchImage(_ context.Context, _ string) ([]byte, error) {
	return []byte("jpeg"), nil
}

func TestFullPipeline(t *testing.T) {
	st := store.New()
	ext := extract.New(echoResolver{}, "dealwire-21")
	p := New(ext, st, validator.New())

	ctx := context.Background()

	// Not a deal: no state change.
	p.HandleMessage(ctx, models.Message{Text: "good morning"})
	if st.QueueLen() != 0 {
		t.Fatalf("QueueLen() = %d after non-deal message, want 0", st.QueueLen())
	}

	// Text-only deal.
	p.HandleMessage(ctx, models.Message{
		Text: "🔥 Wireless Mouse\nDeal Price : ₹499\nhttps://amzn.to/abc123",
	})

	// Photo deal.
	p.HandleMessage(ctx, models.Message{
		Text: "🔥 Gaming Keyboard\nDeal Price : ₹1999\nhttps://amzn.to/kbd999",
		Photos: []models.ImageRef{
			{FileID: "thumb", Width: 90, Height: 90},
			{FileID: "full", Width: 1280, Height: 1280},
		},
	})

	deals := st.Deals()
	if len(deals) != 2 {
		t.Fatalf("Deals() len = %d, want 2", len(deals))
	}
	if deals[0].AffiliateLink != "https://www.amazon.com/dp/B0MOUSE?tag=dealwire-21" {
		t.Errorf("deal 1 link = %q", deals[0].AffiliateLink)
	}
	if deals[1].Image == nil || deals[1].Image.FileID != "full" {
		t.Errorf("deal 2 image = %+v, want the full-size variant", deals[1].Image)
	}

	// Drain the queue through the publisher the way a scheduler tick would.
	feed := &captureFeed{}
	photos := &capturePhotos{}
	pub := publisher.New(feed, photos, staticImages{})

	for {
		deal, ok := st.DequeueOne()
		if !ok {
			break
		}
		pub.Publish(ctx, deal)
	}

	if len(feed.posted) != 2 {
		t.Errorf("Facebook posts = %d, want 2", len(feed.posted))
	}
	// Only the photo deal reaches Instagram.
	if len(photos.published) != 1 {
		t.Fatalf("Instagram posts = %d, want 1", len(photos.published))
	}
	if len(photos.bios) != 1 {
		t.Errorf("Bio updates = %d, want 1", len(photos.bios))
	}
	if st.QueueLen() != 0 {
		t.Errorf("QueueLen() = %d after draining, want 0", st.QueueLen())
	}
	if got := len(st.Deals()); got != 2 {
		t.Errorf("Deals() len = %d after publishing, want 2 (record is append-only)", got)
	}
}
