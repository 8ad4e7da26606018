package pipeline

import (
	"context"

	"github.com/dealwire/dealbot/internal/models"
)

// Extractor decides whether a chat message is a deal and parses it.
type Extractor interface {
	Extract(ctx context.Context, msg models.Message) (*models.Deal, bool)
}

// DealStore records an extracted deal and enqueues it for publishing.
type DealStore interface {
	Add(deal models.Deal)
}

// DealValidator checks a deal against its struct tags before it is recorded.
type DealValidator interface {
	ValidateStruct(s any) error
}
