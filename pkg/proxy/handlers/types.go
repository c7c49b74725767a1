package handlers

import (
	"context"

	"mercator-hq/kotoba/pkg/providers"
	"mercator-hq/kotoba/pkg/relay"
)

// Relayer answers a raw relay request body. *relay.Service implements it.
type Relayer interface {
	Handle(ctx context.Context, rawBody []byte) relay.Reply
}

// ProviderHealthSource exposes passive upstream health.
// *openai.Client implements it through its embedded HTTP provider.
type ProviderHealthSource interface {
	GetName() string
	GetHealth() providers.ProviderHealth
}
