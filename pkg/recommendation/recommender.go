package recommendation

import "context"

// Request is one recommendation round trip.
type Request struct {
	System string
	Prompt string
}

// RawPayload is the recommender's JSON document before validation.
type RawPayload []byte

// Recommender suggests charts for a prompt. Implementations make a single
// attempt; callers bound them with the context deadline.
type Recommender interface {
	Recommend(ctx context.Context, req Request) (RawPayload, error)
}
