package assistant

import (
	"fmt"
	"strings"
)

// Defaults applied when scheduling preferences are omitted, so prompt
// construction never fails on missing fields.
const (
	defaultStartTime       = "08:00"
	defaultEndTime         = "14:00"
	defaultSessionDuration = 45
)

func defaultDays() []string {
	return []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday"}
}

// TimetableRequest carries the structured inputs for timetable generation.
type TimetableRequest struct {
	ChatID      string
	ClassName   string
	GradeLevel  string
	TeacherName string
	Subjects    []TimetableSubject
	Preferences TimetablePreferences
}

// TimetableSubject is one subject to place on the timetable.
type TimetableSubject struct {
	Name            string
	WeeklySessions  int
	PreferredPeriod string
}

// TimetablePreferences are optional scheduling constraints. Every field has a
// documented default.
type TimetablePreferences struct {
	StartTime              string
	EndTime                string
	SessionDurationMinutes int
	Days                   []string
}

func (p TimetablePreferences) withDefaults() TimetablePreferences {
	out := p
	if out.StartTime == "" {
		out.StartTime = defaultStartTime
	}
	if out.EndTime == "" {
		out.EndTime = defaultEndTime
	}
	if out.SessionDurationMinutes <= 0 {
		out.SessionDurationMinutes = defaultSessionDuration
	}
	if len(out.Days) == 0 {
		out.Days = defaultDays()
	}
	return out
}

// BuildTimetablePrompt deterministically renders the natural-language
// instruction plus JSON schema for timetable generation. It does not parse or
// validate the AI's reply; that is the caller's job via ExtractJSONFromResponse.
func BuildTimetablePrompt(req TimetableRequest) string {
	prefs := req.Preferences.withDefaults()

	var sb strings.Builder
	sb.WriteString("You are a school scheduling assistant. Generate a weekly class timetable using the details below.\n\n")

	sb.WriteString("Class information:\n")
	sb.WriteString(fmt.Sprintf("- Class: %s\n", req.ClassName))
	if req.GradeLevel != "" {
		sb.WriteString(fmt.Sprintf("- Grade level: %s\n", req.GradeLevel))
	}
	if req.TeacherName != "" {
		sb.WriteString(fmt.Sprintf("- Homeroom teacher: %s\n", req.TeacherName))
	}
	sb.WriteString("\n")

	sb.WriteString("Subjects:\n")
	for _, subject := range req.Subjects {
		line := fmt.Sprintf("- %s", subject.Name)
		if subject.WeeklySessions > 0 {
			line += fmt.Sprintf(" (%d sessions per week", subject.WeeklySessions)
			if subject.PreferredPeriod != "" {
				line += fmt.Sprintf(", preferred period: %s", subject.PreferredPeriod)
			}
			line += ")"
		} else if subject.PreferredPeriod != "" {
			line += fmt.Sprintf(" (preferred period: %s)", subject.PreferredPeriod)
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("Scheduling preferences:\n")
	sb.WriteString(fmt.Sprintf("- School day starts at %s and ends at %s\n", prefs.StartTime, prefs.EndTime))
	sb.WriteString(fmt.Sprintf("- Each session lasts %d minutes\n", prefs.SessionDurationMinutes))
	sb.WriteString(fmt.Sprintf("- School days: %s\n", strings.Join(prefs.Days, ", ")))
	sb.WriteString("\n")

	sb.WriteString("Reply with ONLY a JSON object, no prose before or after, matching exactly this schema:\n")
	sb.WriteString(`{
  "timetable": [
    {
      "day": "string",
      "sessions": [
        {"start_time": "HH:MM", "end_time": "HH:MM", "subject": "string"}
      ]
    }
  ],
  "logic_explanation": "string",
  "suggestions": ["string"]
}`)
	sb.WriteString("\n")

	return sb.String()
}
