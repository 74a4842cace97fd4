package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/classpilot/classpilot/pkg/assistant"
	"github.com/classpilot/classpilot/pkg/errors"
	"github.com/classpilot/classpilot/pkg/http/response"
	"github.com/classpilot/classpilot/pkg/logger"
)

// maxUploadBytes caps the in-memory portion of multipart uploads.
const maxUploadBytes = 32 << 20

// Handler handles HTTP requests for the AI assistant.
type Handler struct {
	dispatch      *assistant.DispatchService
	onboarding    *assistant.OnboardingService
	conversations *assistant.ConversationService
	validate      *validator.Validate
	logger        *logger.Logger
}

// NewHandler creates a new assistant handler.
func NewHandler(
	dispatch *assistant.DispatchService,
	onboarding *assistant.OnboardingService,
	conversations *assistant.ConversationService,
	logger *logger.Logger,
) *Handler {
	return &Handler{
		dispatch:      dispatch,
		onboarding:    onboarding,
		conversations: conversations,
		validate:      validator.New(),
		logger:        logger,
	}
}

// RegisterRoutes registers the assistant routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assistant", func(r chi.Router) {
		r.Post("/messages", response.Middleware(h.SendMessage))
		r.Post("/timetable", response.Middleware(h.GenerateTimetable))
		r.Post("/onboarding/students", response.Middleware(h.OnboardStudent))
		r.Post("/onboarding/teachers", response.Middleware(h.OnboardTeacher))
		r.Post("/onboarding/admins", response.Middleware(h.OnboardAdmin))
		r.Get("/conversations/{token}", response.Middleware(h.GetConversation))
		r.Get("/status", response.Middleware(h.GetStatus))
	})
}

// SendMessage dispatches a chat message to the AI gateway
// @Summary Send a chat message
// @Description Routes a message to an AI provider and returns the normalized result. Accepts JSON, or multipart/form-data when file attachments are present.
// @Tags Assistant
// @Accept json
// @Produce json
// @Param request body SendMessageRequest true "Message to dispatch"
// @Success 200 {object} assistant.ChatResult
// @Failure 400 {object} response.ErrorResponse
// @Router /assistant/messages [post]
// @ID sendAssistantMessage
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) error {
	input, err := h.decodeSendMessage(r)
	if err != nil {
		return err
	}
	result := h.dispatch.SendMessage(r.Context(), *input)
	return response.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) decodeSendMessage(r *http.Request) (*assistant.SendMessageInput, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, errors.NewValidationError("Invalid multipart request", nil)
		}
		input := assistant.SendMessageInput{
			ChatID:   r.FormValue("chat_id"),
			Message:  r.FormValue("message"),
			TaskType: r.FormValue("task_type"),
		}
		if input.Message == "" {
			return nil, errors.NewValidationError("Message is required", nil)
		}
		for _, header := range r.MultipartForm.File["files"] {
			file, err := header.Open()
			if err != nil {
				return nil, errors.NewValidationError("Unreadable attachment: "+header.Filename, nil)
			}
			content, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				return nil, errors.NewValidationError("Unreadable attachment: "+header.Filename, nil)
			}
			input.Attachments = append(input.Attachments, assistant.Attachment{
				Filename: header.Filename,
				Content:  content,
			})
		}
		return &input, nil
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.NewValidationError("Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, errors.NewValidationError("Message is required", nil)
	}
	return &assistant.SendMessageInput{
		ChatID:   req.ChatID,
		Message:  req.Message,
		TaskType: req.TaskType,
	}, nil
}

// GenerateTimetable generates a class timetable through the AI gateway
// @Summary Generate a timetable
// @Description Builds the timetable prompt, dispatches it to the reasoning provider, and returns the result with the extracted timetable JSON when parseable.
// @Tags Assistant
// @Accept json
// @Produce json
// @Param request body TimetableRequest true "Timetable generation inputs"
// @Success 200 {object} TimetableResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /assistant/timetable [post]
// @ID generateTimetable
func (h *Handler) GenerateTimetable(w http.ResponseWriter, r *http.Request) error {
	var req TimetableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return errors.NewValidationError("Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return errors.NewValidationError("Class name and at least one subject are required", nil)
	}

	subjects := make([]assistant.TimetableSubject, 0, len(req.Subjects))
	for _, s := range req.Subjects {
		subjects = append(subjects, assistant.TimetableSubject{
			Name:            s.Name,
			WeeklySessions:  s.WeeklySessions,
			PreferredPeriod: s.PreferredPeriod,
		})
	}

	result := h.dispatch.GenerateTimetable(r.Context(), assistant.TimetableRequest{
		ChatID:      req.ChatID,
		ClassName:   req.ClassName,
		GradeLevel:  req.GradeLevel,
		TeacherName: req.TeacherName,
		Subjects:    subjects,
		Preferences: assistant.TimetablePreferences{
			StartTime:              req.StartTime,
			EndTime:                req.EndTime,
			SessionDurationMinutes: req.SessionMins,
			Days:                   req.Days,
		},
	})

	resp := TimetableResponse{ChatResult: result}
	if result.Success {
		resp.Timetable = assistant.ExtractJSONFromResponse(result.Response)
	}
	return response.WriteJSON(w, http.StatusOK, resp)
}

// OnboardStudent bootstraps the onboarding conversation for a new student
// @Summary Onboard a student
// @Tags Assistant
// @Accept json
// @Produce json
// @Param request body OnboardStudentRequest true "Student profile"
// @Success 201 {object} OnboardResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /assistant/onboarding/students [post]
// @ID onboardStudent
func (h *Handler) OnboardStudent(w http.ResponseWriter, r *http.Request) error {
	var req OnboardStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return errors.NewValidationError("Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return errors.NewValidationError("Name and education level are required", nil)
	}
	result, err := h.onboarding.CreateChatForStudent(r.Context(), assistant.StudentProfile{
		Name:              req.Name,
		EducationLevel:    req.EducationLevel,
		EducationCategory: req.EducationCategory,
	})
	if err != nil {
		h.logger.Error("Student onboarding failed", "error", err)
		return errors.NewInternalError("Failed to create onboarding chat", err, nil)
	}
	return response.WriteJSON(w, http.StatusCreated, toOnboardResponse(result))
}

// OnboardTeacher bootstraps the onboarding conversation for a new teacher
// @Summary Onboard a teacher
// @Tags Assistant
// @Accept json
// @Produce json
// @Param request body OnboardTeacherRequest true "Teacher profile"
// @Success 201 {object} OnboardResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /assistant/onboarding/teachers [post]
// @ID onboardTeacher
func (h *Handler) OnboardTeacher(w http.ResponseWriter, r *http.Request) error {
	var req OnboardTeacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return errors.NewValidationError("Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return errors.NewValidationError("Name and specialization are required", nil)
	}
	result, err := h.onboarding.CreateChatForTeacher(r.Context(), assistant.TeacherProfile{
		Name:            req.Name,
		Specialization:  req.Specialization,
		YearsExperience: req.YearsExperience,
	})
	if err != nil {
		h.logger.Error("Teacher onboarding failed", "error", err)
		return errors.NewInternalError("Failed to create onboarding chat", err, nil)
	}
	return response.WriteJSON(w, http.StatusCreated, toOnboardResponse(result))
}

// OnboardAdmin bootstraps the onboarding conversation for a new school admin
// @Summary Onboard a school admin
// @Tags Assistant
// @Accept json
// @Produce json
// @Param request body OnboardAdminRequest true "School profile"
// @Success 201 {object} OnboardResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /assistant/onboarding/admins [post]
// @ID onboardAdmin
func (h *Handler) OnboardAdmin(w http.ResponseWriter, r *http.Request) error {
	var req OnboardAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return errors.NewValidationError("Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return errors.NewValidationError("School name is required", nil)
	}
	result, err := h.onboarding.CreateChatForAdmin(r.Context(), assistant.AdminProfile{
		SchoolName:   req.SchoolName,
		StudentCount: req.StudentCount,
	})
	if err != nil {
		h.logger.Error("Admin onboarding failed", "error", err)
		return errors.NewInternalError("Failed to create onboarding chat", err, nil)
	}
	return response.WriteJSON(w, http.StatusCreated, toOnboardResponse(result))
}

// GetConversation returns a conversation with its messages
// @Summary Get a conversation
// @Tags Assistant
// @Produce json
// @Param token path string true "Conversation token"
// @Success 200 {object} assistant.ConversationDetail
// @Failure 404 {object} response.ErrorResponse
// @Router /assistant/conversations/{token} [get]
// @ID getAssistantConversation
func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) error {
	token := chi.URLParam(r, "token")
	if token == "" {
		return errors.NewValidationError("Conversation token is required", nil)
	}
	detail, err := h.conversations.GetConversationDetail(r.Context(), token)
	if err != nil {
		return err
	}
	return response.WriteJSON(w, http.StatusOK, detail)
}

// GetStatus proxies the gateway's connection status
// @Summary Gateway connection status
// @Tags Assistant
// @Produce json
// @Success 200 {object} assistant.ConnectionStatus
// @Failure 503 {object} response.ErrorResponse
// @Router /assistant/status [get]
// @ID getAssistantStatus
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) error {
	status, err := h.dispatch.GatewayStatus(r.Context())
	if err != nil {
		return errors.NewServiceUnavailableError("AI gateway is unreachable", err)
	}
	return response.WriteJSON(w, http.StatusOK, status)
}

func toOnboardResponse(result *assistant.BootstrapResult) OnboardResponse {
	resp := OnboardResponse{
		Token:    result.Conversation.Token,
		Messages: []assistant.MessageView{},
	}
	if result.Conversation.ExternalChatID.Valid {
		resp.ExternalChatID = result.Conversation.ExternalChatID.String
	}
	for _, m := range result.Messages {
		resp.Messages = append(resp.Messages, assistant.MessageView{
			ID:      m.ID,
			Sender:  m.Sender,
			Content: m.Content,
		})
	}
	return resp
}
