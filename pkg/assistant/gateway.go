package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/classpilot/classpilot/pkg/logger"
)

// Timeout budget per call kind. Health and status probes stay short, message
// dispatch stays long because the gateway may itself be waiting on a slow AI
// provider.
const (
	healthTimeout     = 5 * time.Second
	statusTimeout     = 5 * time.Second
	disconnectTimeout = 10 * time.Second
	syncTimeout       = 10 * time.Second
	authTimeout       = 30 * time.Second
)

// GatewayClient talks to the external AI automation gateway. It is stateless:
// no session cache, no connection pool beyond the shared http.Client, and no
// retries — every failure surfaces immediately.
type GatewayClient struct {
	baseURL         string
	httpClient      *http.Client
	dispatchTimeout time.Duration
	logger          *logger.Logger
}

// NewGatewayClient creates a gateway client. dispatchTimeout bounds message
// sends; the remaining calls use fixed short budgets.
func NewGatewayClient(baseURL string, dispatchTimeout time.Duration, logger *logger.Logger) *GatewayClient {
	return &GatewayClient{
		baseURL:         baseURL,
		httpClient:      &http.Client{},
		dispatchTimeout: dispatchTimeout,
		logger:          logger,
	}
}

// ChatRequest is the payload for a message dispatch.
type ChatRequest struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
	Website string `json:"website"`
}

// ChatResponse is the gateway's reply envelope for a dispatch.
type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	ChatID   string `json:"chat_id"`
	Website  string `json:"website"`
	Message  string `json:"message"`
}

// LatestChat is the gateway's record of its most recent chat.
type LatestChat struct {
	ID     int64  `json:"id"`
	ChatID string `json:"chat_id"`
}

type authenticateRequest struct {
	Website  string `json:"website"`
	Headless bool   `json:"headless"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type syncResponse struct {
	Success    bool        `json:"success"`
	LatestChat *LatestChat `json:"latest_chat"`
}

// Health probes the gateway's liveness endpoint. The body is ignored; any 2xx
// status counts as alive.
func (c *GatewayClient) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/chats", nil)
	if err != nil {
		return errors.Wrap(err, "failed to build health request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "gateway health check failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("gateway health check returned status %d", resp.StatusCode)
	}
	return nil
}

// Status fetches the gateway's current connection snapshot.
func (c *GatewayClient) Status(ctx context.Context) (*ConnectionStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status", nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build status request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch gateway status")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("gateway status returned status %d", resp.StatusCode)
	}
	var status ConnectionStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, errors.Wrap(err, "failed to decode gateway status")
	}
	return &status, nil
}

// Authenticate asks the gateway to establish a session with the provider.
// This blocks while the gateway drives the provider's login flow.
func (c *GatewayClient) Authenticate(ctx context.Context, provider Provider) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	var out statusResponse
	if err := c.postJSON(ctx, "/api/authenticate", authenticateRequest{
		Website:  string(provider),
		Headless: true,
	}, &out); err != nil {
		return false, err
	}
	return out.Success, nil
}

// Disconnect tears down the gateway's session with the provider. An empty
// provider disconnects all sessions.
func (c *GatewayClient) Disconnect(ctx context.Context, provider Provider) error {
	ctx, cancel := context.WithTimeout(ctx, disconnectTimeout)
	defer cancel()

	payload := map[string]string{}
	if provider != "" {
		payload["website"] = string(provider)
	}
	var out statusResponse
	if err := c.postJSON(ctx, "/api/disconnect", payload, &out); err != nil {
		return err
	}
	if !out.Success {
		return errors.Errorf("gateway refused to disconnect: %s", out.Message)
	}
	return nil
}

// SyncAndGetLatest asks the gateway to sync its chat list and return the most
// recent chat record.
func (c *GatewayClient) SyncAndGetLatest(ctx context.Context) (*LatestChat, error) {
	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	var out syncResponse
	if err := c.postJSON(ctx, "/api/chats/sync-and-get-latest", struct{}{}, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.LatestChat == nil {
		return nil, errors.New("gateway sync did not return a latest chat")
	}
	return out.LatestChat, nil
}

// SendChat dispatches a plain text message as a single JSON POST.
func (c *GatewayClient) SendChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return c.sendChat(ctx, req, c.dispatchTimeout)
}

// SendChatWithTimeout dispatches with an explicit timeout, used by flows with
// their own budget such as onboarding.
func (c *GatewayClient) SendChatWithTimeout(ctx context.Context, req ChatRequest, timeout time.Duration) (*ChatResponse, error) {
	return c.sendChat(ctx, req, timeout)
}

func (c *GatewayClient) sendChat(ctx context.Context, req ChatRequest, timeout time.Duration) (*ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var out ChatResponse
	if err := c.postJSON(ctx, "/api/external/chat", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendChatWithFiles dispatches a message with attachments as a multipart POST.
// This is a structurally distinct path from SendChat because of the transport
// encoding, not a parametrized branch of the same builder.
func (c *GatewayClient) SendChatWithFiles(ctx context.Context, req ChatRequest, files []Attachment) (*ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.dispatchTimeout)
	defer cancel()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := map[string]string{
		"chat_id": req.ChatID,
		"message": req.Message,
		"website": req.Website,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, errors.Wrapf(err, "failed to write multipart field %s", name)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile("files", file.Filename)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create multipart part for %s", file.Filename)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, errors.Wrapf(err, "failed to write attachment %s", file.Filename)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize multipart body")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/external/chat", &body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build multipart dispatch request")
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "multipart dispatch failed")
	}
	defer resp.Body.Close()
	return decodeChatResponse(resp)
}

func (c *GatewayClient) postJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal request for %s", path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return errors.Wrapf(err, "failed to build request for %s", path)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "request to %s failed", path)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("request to %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode response from %s", path)
	}
	return nil
}

func decodeChatResponse(resp *http.Response) (*ChatResponse, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Errorf("dispatch returned status %d: %s", resp.StatusCode, string(body))
	}
	var out ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "failed to decode dispatch response")
	}
	return &out, nil
}
