package assistant

import (
	"context"
	"database/sql"
	"time"

	"github.com/classpilot/classpilot/pkg/db"
	apperrors "github.com/classpilot/classpilot/pkg/errors"
)

// ConversationService reads conversations and their messages for API callers.
type ConversationService struct {
	queries *db.Queries
}

// NewConversationService creates a conversation service.
func NewConversationService(queries *db.Queries) *ConversationService {
	return &ConversationService{queries: queries}
}

// MessageView is a message in API shape.
type MessageView struct {
	ID        int64  `json:"id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// ConversationDetail is a conversation with its messages in API shape.
type ConversationDetail struct {
	Token          string        `json:"token"`
	Role           string        `json:"role"`
	ExternalChatID string        `json:"externalChatId,omitempty"`
	StartedAt      string        `json:"startedAt"`
	Messages       []MessageView `json:"messages"`
}

// GetConversationDetail returns a conversation by public token with all of its
// messages.
func (s *ConversationService) GetConversationDetail(ctx context.Context, token string) (*ConversationDetail, error) {
	conv, err := s.queries.GetConversationByToken(ctx, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFoundError("Conversation not found", nil)
		}
		return nil, apperrors.NewInternalError("Failed to load conversation", err, nil)
	}

	msgs, err := s.queries.ListMessagesForConversation(ctx, conv.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load messages", err, nil)
	}

	detail := &ConversationDetail{
		Token:     conv.Token,
		Role:      conv.Role,
		StartedAt: conv.StartedAt.Format(time.RFC3339),
		Messages:  []MessageView{},
	}
	if conv.ExternalChatID.Valid {
		detail.ExternalChatID = conv.ExternalChatID.String
	}
	for _, m := range msgs {
		detail.Messages = append(detail.Messages, MessageView{
			ID:        m.ID,
			Sender:    m.Sender,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}
	return detail, nil
}
