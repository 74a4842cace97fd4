package http

import "github.com/classpilot/classpilot/pkg/assistant"

// SendMessageRequest is the JSON body for a plain message dispatch. Requests
// with attachments use multipart form encoding with the same field names.
type SendMessageRequest struct {
	ChatID   string `json:"chat_id"`
	Message  string `json:"message" validate:"required"`
	TaskType string `json:"task_type"`
}

// TimetableSubjectRequest is one subject entry in a timetable request.
type TimetableSubjectRequest struct {
	Name            string `json:"name" validate:"required"`
	WeeklySessions  int    `json:"weekly_sessions" validate:"gte=0"`
	PreferredPeriod string `json:"preferred_period"`
}

// TimetableRequest is the JSON body for timetable generation.
type TimetableRequest struct {
	ChatID      string                    `json:"chat_id"`
	ClassName   string                    `json:"class_name" validate:"required"`
	GradeLevel  string                    `json:"grade_level"`
	TeacherName string                    `json:"teacher_name"`
	Subjects    []TimetableSubjectRequest `json:"subjects" validate:"required,min=1,dive"`
	StartTime   string                    `json:"start_time"`
	EndTime     string                    `json:"end_time"`
	SessionMins int                       `json:"session_duration_minutes" validate:"gte=0"`
	Days        []string                  `json:"days"`
}

// TimetableResponse carries the dispatch result plus, when the reply contained
// a parseable JSON object, the extracted timetable payload.
type TimetableResponse struct {
	assistant.ChatResult
	Timetable map[string]interface{} `json:"timetable,omitempty"`
}

// OnboardStudentRequest is the JSON body for student onboarding.
type OnboardStudentRequest struct {
	Name              string `json:"name" validate:"required"`
	EducationLevel    string `json:"education_level" validate:"required"`
	EducationCategory string `json:"education_category"`
}

// OnboardTeacherRequest is the JSON body for teacher onboarding.
type OnboardTeacherRequest struct {
	Name            string `json:"name" validate:"required"`
	Specialization  string `json:"specialization" validate:"required"`
	YearsExperience int    `json:"years_experience" validate:"gte=0"`
}

// OnboardAdminRequest is the JSON body for school admin onboarding.
type OnboardAdminRequest struct {
	SchoolName   string `json:"school_name" validate:"required"`
	StudentCount int    `json:"student_count" validate:"gte=0"`
}

// OnboardResponse is returned by all onboarding endpoints.
type OnboardResponse struct {
	Token          string                  `json:"token"`
	ExternalChatID string                  `json:"externalChatId,omitempty"`
	Messages       []assistant.MessageView `json:"messages"`
}
