package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/classpilot/classpilot/pkg/db"
	"github.com/classpilot/classpilot/pkg/logger"
)

// onboardingTimeout bounds the single dispatch made while bootstrapping a new
// conversation. Shorter than the general dispatch budget: onboarding blocks a
// signup flow.
const onboardingTimeout = 120 * time.Second

// Onboarding conversations always use the default text provider, no routing.
const onboardingProvider = ProviderDeepseek

// OnboardingService bootstraps the first conversation for newly registered
// students, teachers and school admins: it creates a local conversation,
// seeds it with a synthesized introduction, sends that one message through
// the gateway, and records the reply (or a fallback) as the second entry.
type OnboardingService struct {
	queries *db.Queries
	gateway *GatewayClient
	router  *Router
	logger  *logger.Logger
}

// NewOnboardingService creates an onboarding service.
func NewOnboardingService(queries *db.Queries, gateway *GatewayClient, router *Router, logger *logger.Logger) *OnboardingService {
	return &OnboardingService{
		queries: queries,
		gateway: gateway,
		router:  router,
		logger:  logger,
	}
}

// StudentProfile holds the fields used to seed a student's first message.
type StudentProfile struct {
	Name              string
	EducationLevel    string
	EducationCategory string
}

// TeacherProfile holds the fields used to seed a teacher's first message.
type TeacherProfile struct {
	Name            string
	Specialization  string
	YearsExperience int
}

// AdminProfile holds the fields used to seed a school admin's first message.
type AdminProfile struct {
	SchoolName   string
	StudentCount int
}

// BootstrapResult is what a successful bootstrap returns. An error from any
// Create method means "nothing was created" from the caller's perspective,
// even though conversation rows persisted before the failure are not rolled
// back (known gap, kept from the original behavior).
type BootstrapResult struct {
	Conversation *db.Conversation
	Messages     []*db.Message
}

// CreateChatForStudent bootstraps the onboarding conversation for a student.
func (s *OnboardingService) CreateChatForStudent(ctx context.Context, profile StudentProfile) (*BootstrapResult, error) {
	seed := fmt.Sprintf(
		"Hello! I am %s, a new student at the %s level in the %s track. Please introduce yourself and tell me how you can help me with my studies.",
		profile.Name, profile.EducationLevel, profile.EducationCategory,
	)
	return s.bootstrap(ctx, "student", seed)
}

// CreateChatForTeacher bootstraps the onboarding conversation for a teacher.
func (s *OnboardingService) CreateChatForTeacher(ctx context.Context, profile TeacherProfile) (*BootstrapResult, error) {
	seed := fmt.Sprintf(
		"Hello! I am %s, a teacher specialized in %s with %d years of experience. Please introduce yourself and tell me how you can help me with lesson planning and my classes.",
		profile.Name, profile.Specialization, profile.YearsExperience,
	)
	return s.bootstrap(ctx, "teacher", seed)
}

// CreateChatForAdmin bootstraps the onboarding conversation for a school admin.
func (s *OnboardingService) CreateChatForAdmin(ctx context.Context, profile AdminProfile) (*BootstrapResult, error) {
	seed := fmt.Sprintf(
		"Hello! I manage %s, a school with %d students. Please introduce yourself and tell me how you can help me run the school.",
		profile.SchoolName, profile.StudentCount,
	)
	return s.bootstrap(ctx, "admin", seed)
}

func (s *OnboardingService) bootstrap(ctx context.Context, role, seedMessage string) (*BootstrapResult, error) {
	conv, err := s.queries.CreateConversation(ctx, db.CreateConversationParams{
		Token: uuid.NewString(),
		Role:  role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	userMsg, err := s.queries.InsertMessage(ctx, db.InsertMessageParams{
		ConversationID: conv.ID,
		Sender:         "user",
		Content:        seedMessage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed conversation: %w", err)
	}

	// Best effort: a failed authentication must not block the attempt.
	if ok := s.router.EnsureAuthenticated(ctx, onboardingProvider); !ok {
		s.logger.Warn("Onboarding authentication failed, attempting dispatch anyway",
			"provider", onboardingProvider, "role", role)
	}

	reply := MsgOnboardingFallback
	resp, err := s.gateway.SendChatWithTimeout(ctx, ChatRequest{
		Message: seedMessage,
		Website: string(onboardingProvider),
	}, onboardingTimeout)
	switch {
	case err != nil:
		s.logger.Error("Onboarding dispatch failed, using fallback reply", "role", role, "error", err)
	case !resp.Success:
		s.logger.Warn("Gateway rejected onboarding message, using fallback reply",
			"role", role, "message", resp.Message)
	default:
		reply = resp.Response
	}

	assistantMsg, err := s.queries.InsertMessage(ctx, db.InsertMessageParams{
		ConversationID: conv.ID,
		Sender:         "assistant",
		Content:        reply,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store assistant reply: %w", err)
	}

	// Reconcile the gateway's own chat identifier into the local record. A
	// failure here is silently skipped: the conversation stays usable locally
	// without the external linkage.
	if latest, err := s.gateway.SyncAndGetLatest(ctx); err != nil {
		s.logger.Debug("Chat sync skipped", "role", role, "error", err)
	} else if latest.ChatID != "" {
		if err := s.queries.SetExternalChatID(ctx, conv.ID, latest.ChatID); err != nil {
			s.logger.Debug("Failed to record external chat id", "conversation", conv.ID, "error", err)
		} else {
			conv.ExternalChatID.String = latest.ChatID
			conv.ExternalChatID.Valid = true
		}
	}

	return &BootstrapResult{
		Conversation: conv,
		Messages:     []*db.Message{userMsg, assistantMsg},
	}, nil
}
