package assistant

import (
	"context"

	"github.com/classpilot/classpilot/pkg/logger"
)

// Router selects which provider should handle a request and decides whether a
// gateway session must be established first.
type Router struct {
	preferences     map[string]Provider
	defaultProvider Provider
	gateway         *GatewayClient
	logger          *logger.Logger
}

// NewRouter creates a router with the given preference table. The table is
// copied so callers cannot mutate routing after construction.
func NewRouter(preferences map[string]Provider, defaultProvider Provider, gateway *GatewayClient, logger *logger.Logger) *Router {
	prefs := make(map[string]Provider, len(preferences))
	for taskType, provider := range preferences {
		prefs[taskType] = provider
	}
	return &Router{
		preferences:     prefs,
		defaultProvider: defaultProvider,
		gateway:         gateway,
		logger:          logger,
	}
}

// SelectProvider picks the provider for a task. Attachments are the dominant
// signal: any attachment forces the attachment-capable provider regardless of
// the task type. Unknown task types silently degrade to the default provider.
func (r *Router) SelectProvider(taskType string, hasAttachments bool) Provider {
	if hasAttachments {
		return ProviderGemini
	}
	if provider, ok := r.preferences[taskType]; ok {
		return provider
	}
	return r.defaultProvider
}

// IsProviderConnected re-fetches the gateway's connection status and reports
// whether the provider has an authenticated, active session. Transport errors
// count as not connected.
func (r *Router) IsProviderConnected(ctx context.Context, provider Provider) bool {
	status, err := r.gateway.Status(ctx)
	if err != nil {
		r.logger.Warn("Failed to fetch gateway status", "provider", provider, "error", err)
		return false
	}
	if !status.Authenticated {
		return false
	}
	for _, site := range status.ConnectedWebsites {
		if site.Name == string(provider) && site.SessionActive {
			return true
		}
	}
	return false
}

// EnsureAuthenticated makes sure the gateway holds a session for the provider,
// triggering a blocking authenticate call when it does not. The result is
// advisory: dispatch proceeds regardless of the outcome.
func (r *Router) EnsureAuthenticated(ctx context.Context, provider Provider) bool {
	if r.IsProviderConnected(ctx, provider) {
		return true
	}
	ok, err := r.gateway.Authenticate(ctx, provider)
	if err != nil {
		r.logger.Warn("Authentication with provider failed", "provider", provider, "error", err)
		return false
	}
	return ok
}
