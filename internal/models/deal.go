package models

import "encoding/json"

// ImageRef is an opaque handle to a photo attachment held by the chat
// provider. Only the reference travels through the pipeline; the bytes are
// fetched on demand at publish time.
type ImageRef struct {
	FileID string
	Width  int
	Height int
}

// MarshalJSON renders an ImageRef as its bare file ID, which is all the
// listing endpoint exposes.
func (r ImageRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.FileID)
}

// Deal is the structured record extracted from one chat message. It is
// immutable once created; the store and the publish queue each hold their own
// copy by value.
type Deal struct {
	ProductName   string    `json:"productName" validate:"required"`
	Price         string    `json:"price" validate:"required"`
	AffiliateLink string    `json:"affiliateLink" validate:"required,url"`
	Image         *ImageRef `json:"image"`
}

// Message is the decoded inbound chat event the extractor consumes. Photos,
// when present, are ordered smallest to largest as delivered by the provider.
type Message struct {
	Text   string
	Photos []ImageRef
}
