package assistant

import (
	"context"

	"github.com/classpilot/classpilot/pkg/logger"
)

// DispatchService delivers chat messages to the selected provider through the
// gateway and normalizes every outcome into a ChatResult. All operations are
// synchronous blocking calls with no retries and no shared mutable state;
// concurrent sends to the same chat_id can interleave arbitrarily at the
// gateway.
type DispatchService struct {
	gateway *GatewayClient
	router  *Router
	logger  *logger.Logger
}

// NewDispatchService creates a dispatch service.
func NewDispatchService(gateway *GatewayClient, router *Router, logger *logger.Logger) *DispatchService {
	return &DispatchService{
		gateway: gateway,
		router:  router,
		logger:  logger,
	}
}

// SendMessageInput describes one dispatch request.
type SendMessageInput struct {
	ChatID      string
	Message     string
	TaskType    string
	Attachments []Attachment
}

// SendMessage routes and dispatches a message. The health check is the one
// hard precondition: if the gateway is down nothing else is attempted.
// Authentication is best effort — a failed auth is logged and the send is
// attempted anyway, since the gateway may already hold a session the probe
// did not see, or may authenticate on its own.
func (s *DispatchService) SendMessage(ctx context.Context, input SendMessageInput) ChatResult {
	if err := s.gateway.Health(ctx); err != nil {
		s.logger.Error("Gateway unavailable, aborting dispatch", "error", err)
		return ChatResult{Success: false, Error: MsgServiceUnavailable}
	}

	provider := s.router.SelectProvider(input.TaskType, len(input.Attachments) > 0)
	return s.dispatch(ctx, provider, input)
}

// SendMessageToProvider dispatches to a fixed provider, bypassing the router.
// Used by flows with a hardcoded provider such as timetable generation.
func (s *DispatchService) SendMessageToProvider(ctx context.Context, provider Provider, input SendMessageInput) ChatResult {
	if err := s.gateway.Health(ctx); err != nil {
		s.logger.Error("Gateway unavailable, aborting dispatch", "error", err)
		return ChatResult{Success: false, Error: MsgServiceUnavailable}
	}
	return s.dispatch(ctx, provider, input)
}

func (s *DispatchService) dispatch(ctx context.Context, provider Provider, input SendMessageInput) ChatResult {
	if ok := s.router.EnsureAuthenticated(ctx, provider); !ok {
		s.logger.Warn("Authentication failed, attempting dispatch anyway", "provider", provider)
	}

	req := ChatRequest{
		ChatID:  input.ChatID,
		Message: input.Message,
		Website: string(provider),
	}

	var resp *ChatResponse
	var err error
	if len(input.Attachments) > 0 {
		resp, err = s.gateway.SendChatWithFiles(ctx, req, input.Attachments)
	} else {
		resp, err = s.gateway.SendChat(ctx, req)
	}
	if err != nil {
		s.logger.Error("Dispatch failed", "provider", provider, "chat_id", input.ChatID, "error", err)
		return ChatResult{Success: false, Website: string(provider), Error: MsgServiceNotRespond}
	}
	return normalizeResponse(provider, resp)
}

// normalizeResponse folds the gateway reply into the result envelope. A 2xx
// transport status is necessary but not sufficient: the body must also carry
// success=true, otherwise the operation is a domain failure.
func normalizeResponse(provider Provider, resp *ChatResponse) ChatResult {
	if !resp.Success {
		errMsg := resp.Message
		if errMsg == "" {
			errMsg = MsgRequestFailed
		}
		return ChatResult{Success: false, Website: string(provider), Error: errMsg}
	}
	website := resp.Website
	if website == "" {
		website = string(provider)
	}
	return ChatResult{
		Success:  true,
		Response: resp.Response,
		ChatID:   resp.ChatID,
		Website:  website,
	}
}

// GenerateTimetable renders the timetable prompt and dispatches it to the
// reasoning provider. The provider is intentionally fixed rather than routed:
// timetable generation always goes to deepseek.
func (s *DispatchService) GenerateTimetable(ctx context.Context, req TimetableRequest) ChatResult {
	prompt := BuildTimetablePrompt(req)
	return s.SendMessageToProvider(ctx, ProviderDeepseek, SendMessageInput{
		ChatID:   req.ChatID,
		Message:  prompt,
		TaskType: TaskTimetableGeneration,
	})
}

// GatewayStatus exposes the gateway's connection snapshot to callers.
func (s *DispatchService) GatewayStatus(ctx context.Context) (*ConnectionStatus, error) {
	return s.gateway.Status(ctx)
}
