package assistant

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpilot/classpilot/pkg/logger"
)

func newTestRouter(t *testing.T, gateway *GatewayClient) *Router {
	t.Helper()
	return NewRouter(DefaultProviderPreferences(), ProviderDeepseek, gateway, logger.NewDefault())
}

func TestSelectProviderMappedTaskTypes(t *testing.T) {
	router := newTestRouter(t, nil)

	for taskType, want := range DefaultProviderPreferences() {
		got := router.SelectProvider(taskType, false)
		assert.Equal(t, want, got, "task type %s", taskType)
	}
}

func TestSelectProviderUnknownTaskTypeFallsBackToDefault(t *testing.T) {
	router := newTestRouter(t, nil)

	assert.Equal(t, ProviderDeepseek, router.SelectProvider("poetry_generation", false))
	assert.Equal(t, ProviderDeepseek, router.SelectProvider("", false))
}

func TestSelectProviderAttachmentsAlwaysWin(t *testing.T) {
	router := newTestRouter(t, nil)

	// Attachments dominate even for task types mapped to deepseek.
	for taskType := range DefaultProviderPreferences() {
		assert.Equal(t, ProviderGemini, router.SelectProvider(taskType, true))
	}
	assert.Equal(t, ProviderGemini, router.SelectProvider("unknown_type", true))
}

func TestRouterPreferenceTableIsCopied(t *testing.T) {
	prefs := map[string]Provider{"text_chat": ProviderGemini}
	router := NewRouter(prefs, ProviderDeepseek, nil, logger.NewDefault())

	prefs["text_chat"] = ProviderDeepseek
	assert.Equal(t, ProviderGemini, router.SelectProvider("text_chat", false))
}

func TestIsProviderConnected(t *testing.T) {
	gw := newMockGateway()
	defer gw.close()
	router := newTestRouter(t, gw.client())

	assert.True(t, router.IsProviderConnected(context.Background(), ProviderDeepseek))

	gw.status = ConnectionStatus{
		Authenticated: true,
		ConnectedWebsites: []ConnectedWebsite{
			{Name: "deepseek", SessionActive: false},
		},
	}
	assert.False(t, router.IsProviderConnected(context.Background(), ProviderDeepseek),
		"inactive session must not count as connected")

	gw.status = ConnectionStatus{
		Authenticated:     false,
		ConnectedWebsites: []ConnectedWebsite{{Name: "deepseek", SessionActive: true}},
	}
	assert.False(t, router.IsProviderConnected(context.Background(), ProviderDeepseek),
		"unauthenticated gateway must not count as connected")
}

func TestIsProviderConnectedTransportErrorIsNotConnected(t *testing.T) {
	gw := newMockGateway()
	gw.close() // server down: every status fetch fails
	router := newTestRouter(t, gw.client())

	assert.False(t, router.IsProviderConnected(context.Background(), ProviderDeepseek))
}

func TestEnsureAuthenticatedShortCircuitsWhenConnected(t *testing.T) {
	gw := newMockGateway()
	defer gw.close()
	router := newTestRouter(t, gw.client())

	require.True(t, router.EnsureAuthenticated(context.Background(), ProviderDeepseek))

	_, _, authCalls, _, _ := gw.counts()
	assert.Equal(t, 0, authCalls, "no authenticate call when a session is already active")
}

func TestEnsureAuthenticatedTriggersAuthWhenDisconnected(t *testing.T) {
	gw := newMockGateway()
	defer gw.close()
	gw.status = ConnectionStatus{Authenticated: false}
	router := newTestRouter(t, gw.client())

	assert.True(t, router.EnsureAuthenticated(context.Background(), ProviderDeepseek))

	_, _, authCalls, _, _ := gw.counts()
	assert.Equal(t, 1, authCalls)
}

func TestEnsureAuthenticatedReportsFailure(t *testing.T) {
	gw := newMockGateway()
	defer gw.close()
	gw.status = ConnectionStatus{Authenticated: false}
	gw.authSuccess = false
	router := newTestRouter(t, gw.client())

	assert.False(t, router.EnsureAuthenticated(context.Background(), ProviderDeepseek))
}

func TestEnsureAuthenticatedTransportError(t *testing.T) {
	gw := newMockGateway()
	gw.status = ConnectionStatus{Authenticated: false}
	gw.authCode = http.StatusInternalServerError
	defer gw.close()
	router := newTestRouter(t, gw.client())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	assert.False(t, router.EnsureAuthenticated(ctx, ProviderGemini))
}
