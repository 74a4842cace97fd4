package assistant

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpilot/classpilot/pkg/logger"
)

func newTestDispatch(t *testing.T, gw *mockGateway) *DispatchService {
	t.Helper()
	client := gw.client()
	router := NewRouter(DefaultProviderPreferences(), ProviderDeepseek, client, logger.NewDefault())
	return NewDispatchService(client, router, logger.NewDefault())
}

func TestSendMessageSuccess(t *testing.T) {
	gw := newMockGateway()
	defer gw.close()
	svc := newTestDispatch(t, gw)

	result := svc.SendMessage(context.Background(), SendMessageInput{
		ChatID:   "chat-1",
		Message:  "what is the homework?",
		TaskType: TaskTextChat,
	})

	assert.True(t, result.Success)
	assert.Equal(t, "hello from the gateway", result.Response)
	assert.Equal(t, "chat-1", result.ChatID)
	assert.Equal(t, "deepseek", result.Website)
	assert.Empty(t, result.Error)
}

func TestSendMessageHealthFailureAbortsBeforeDispatch(t *testing.T) {
	gw := newMockGateway()
	defer gw.close()
	gw.healthStatus = http.StatusServiceUnavailable
	svc := newTestDispatch(t, gw)

	result := svc.SendMessage(context.Background(), SendMessageInput{
		Message:  "hello",
		TaskType: TaskTextChat,
	})

	assert.False(t, result.Success)
	assert.Equal(t, MsgServiceUnavailable, result.Error)

	_, statusCalls, authCalls, dispatchCalls, _ := gw.counts()
	assert.Equal(t, 0, dispatchCalls, "dispatch must not be attempted when the gateway is down")
	assert.Equal(t, 0, statusCalls)
	assert.Equal(t, 0, authCalls)
}

func TestSendMessageAuthFailureDoesNotBlockDispatch(t *testing.T) {
	gw := newMockGateway()
	defer gw.close()
	gw.status = ConnectionStatus{Authenticated: false}
	gw.authSuccess = false
	svc := newTestDispatch(t, gw)

	result := svc.SendMessage(context.Background(), SendMessageInput{
		Message:  "hello",
		TaskType: TaskTextChat,
	})

	assert.True(t, result.Success, "auth failure must not short-circuit dispatch")

	_, _, authCalls, dispatchCalls, _ := gw.counts()
	assert.Equal(t, 1, authCalls)
	assert.Equal(t, 1, dispatchCalls)
}

func TestSendMessageTransportFailure(t *testing.T) {
	gw := newMockGateway()
	defer gw.close()
	gw.chatCode = http.StatusBadGateway
	svc := newTestDispatch(t, gw)

	result := svc.SendMessage(context.Background(), SendMessageInput{
		Message:  "hello",
		TaskType: TaskTextChat,
	})

	assert.False(t, result.Success)
	assert.Equal(t, MsgServiceNotRespond, result.Error)
}

func TestSendMessageDomainFailureUsesBodyMessage(t *testing.T) {
	gw := newMockGateway()
	defer gw.close()
	gw.chatResponse = ChatResponse{Success: false, Message: "provider rate limited"}
	svc := newTestDispatch(t, gw)

	result := svc.SendMessage(context.Background(), SendMessageInput{
		Message:  "hello",
		TaskType: TaskTextChat,
	})

	assert.False(t, result.Success)
	assert.Equal(t, "provider rate limited", result.Error)
}

func TestSendMessageDomainFailureGenericFallback(t *testing.T) {
	gw := newMockGateway()
	defer gw.close()
	gw.chatResponse = ChatResponse{Success: false}
	svc := newTestDispatch(t, gw)

	result := svc.SendMessage(context.Background(), SendMessageInput{
		Message:  "hello",
		TaskType: TaskTextChat,
	})

	assert.False(t, result.Success)
	assert.Equal(t, MsgRequestFailed, result.Error)
}

func TestSendMessageWithAttachmentsRoutesToGeminiOverMultipart(t *testing.T) {
	gw := newMockGateway()
	defer gw.close()
	svc := newTestDispatch(t, gw)

	result := svc.SendMessage(context.Background(), SendMessageInput{
		Message:  "summarize this file",
		TaskType: TaskTextChat, // mapped to deepseek, overridden by the attachment
		Attachments: []Attachment{
			{Filename: "essay.txt", Content: []byte("my essay")},
		},
	})

	require.True(t, result.Success)
	assert.Contains(t, gw.lastDispatch.contentType, "multipart/form-data")
	assert.Equal(t, "gemini", gw.lastDispatch.website)
	assert.Equal(t, []byte("my essay"), gw.lastDispatch.files["essay.txt"])
}

func TestGenerateTimetableUsesDeepseek(t *testing.T) {
	gw := newMockGateway()
	defer gw.close()
	gw.chatResponse = ChatResponse{
		Success:  true,
		Response: `{"timetable": [], "logic_explanation": "even spread", "suggestions": []}`,
		Website:  "deepseek",
	}
	svc := newTestDispatch(t, gw)

	result := svc.GenerateTimetable(context.Background(), TimetableRequest{
		ClassName: "5A",
		Subjects:  []TimetableSubject{{Name: "Math", WeeklySessions: 4}},
	})

	require.True(t, result.Success)
	assert.Equal(t, "deepseek", gw.lastDispatch.website)
	assert.Contains(t, gw.lastDispatch.message, "5A")
	assert.Contains(t, gw.lastDispatch.message, "- Math")
}
