package common

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/classpilot/classpilot/pkg/assistant"
)

// SendMessageRequest mirrors the API's message dispatch body.
type SendMessageRequest struct {
	ChatID   string `json:"chat_id,omitempty"`
	Message  string `json:"message"`
	TaskType string `json:"task_type,omitempty"`
}

// SendMessage dispatches a chat message through the service's REST API.
func (c *Client) SendMessage(req *SendMessageRequest) (*assistant.ChatResult, error) {
	resp, err := c.Post("/api/assistant/messages", req)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()
	if err := CheckResponse(resp, http.StatusOK); err != nil {
		return nil, err
	}
	var result assistant.ChatResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// GatewayStatus fetches the gateway connection status through the API.
func (c *Client) GatewayStatus() (*assistant.ConnectionStatus, error) {
	resp, err := c.Get("/api/assistant/status")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status: %w", err)
	}
	if err := CheckResponse(resp, http.StatusOK); err != nil {
		return nil, err
	}
	body, err := ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var status assistant.ConnectionStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &status, nil
}
