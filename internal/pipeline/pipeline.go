package pipeline

import (
	"context"
	"log/slog"

	"github.com/dealwire/dealbot/internal/models"
)

// Pipeline ties extraction to the application state: every inbound message
// either becomes a recorded-and-queued deal or is silently skipped.
type Pipeline struct {
	extractor Extractor
	store     DealStore
	validate  DealValidator
}

func New(extractor Extractor, store DealStore, validate DealValidator) *Pipeline {
	return &Pipeline{extractor: extractor, store: store, validate: validate}
}

// HandleMessage runs one inbound chat message through extraction. Messages
// without a recognized store link are not deals and leave no trace; a deal
// that fails validation is dropped with a log rather than stored half-formed.
func (p *Pipeline) HandleMessage(ctx context.Context, msg models.Message) {
	deal, ok := p.extractor.Extract(ctx, msg)
	if !ok {
		return
	}

	if err := p.validate.ValidateStruct(deal); err != nil {
		slog.Warn("Extracted deal failed validation, dropping", "product", deal.ProductName, "error", err)
		return
	}

	p.store.Add(*deal)
	slog.Info("Deal recorded and queued", "product", deal.ProductName, "price", deal.Price)
}
