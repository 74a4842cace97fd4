package assistant

// Provider identifies one of the AI backends fronted by the automation gateway.
type Provider string

const (
	ProviderDeepseek Provider = "deepseek"
	ProviderGemini   Provider = "gemini"
)

// Task types callers may tag a request with. Used only for provider selection.
const (
	TaskFileAnalysis        = "file_analysis"
	TaskDocumentExtraction  = "document_extraction"
	TaskImageGeneration     = "image_generation"
	TaskTimetableGeneration = "timetable_generation"
	TaskReasoning           = "reasoning_tasks"
	TaskCourseGeneration    = "course_generation"
	TaskTextChat            = "text_chat"
)

// DefaultProviderPreferences maps each task type to the provider best suited
// for it. Attachment-bearing requests bypass this table entirely.
func DefaultProviderPreferences() map[string]Provider {
	return map[string]Provider{
		TaskFileAnalysis:        ProviderGemini,
		TaskDocumentExtraction:  ProviderGemini,
		TaskImageGeneration:     ProviderGemini,
		TaskTimetableGeneration: ProviderDeepseek,
		TaskReasoning:           ProviderDeepseek,
		TaskCourseGeneration:    ProviderDeepseek,
		TaskTextChat:            ProviderDeepseek,
	}
}

// ChatResult is the normalized envelope every dispatch operation returns.
// Transport failures and gateway-reported failures share this shape; callers
// can only tell them apart by the error message.
type ChatResult struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	ChatID   string `json:"chat_id,omitempty"`
	Website  string `json:"website,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ConnectionStatus is the gateway's snapshot of its provider sessions. Always
// re-fetched before a trust decision, never cached locally.
type ConnectionStatus struct {
	Authenticated     bool               `json:"authenticated"`
	ConnectedWebsites []ConnectedWebsite `json:"connected_websites"`
}

// ConnectedWebsite describes one provider session held by the gateway.
type ConnectedWebsite struct {
	Name          string `json:"name"`
	SessionActive bool   `json:"session_active"`
}

// Attachment is a file forwarded with a chat message.
type Attachment struct {
	Filename string
	Content  []byte
}

// User-facing fallback messages for the error taxonomy.
const (
	MsgServiceUnavailable = "The AI assistant is currently unavailable. Please try again later."
	MsgServiceNotRespond  = "The AI service is not responding. Please try again later."
	MsgRequestFailed      = "The AI service could not process the request."
	MsgOnboardingFallback = "Welcome! I am your assistant. I could not reach the AI service just now, but feel free to ask me anything and I will answer as soon as I am back online."
)
