package assistant

import (
	"encoding/json"
	"strings"
)

// ExtractJSONFromResponse pulls a JSON object out of free-form AI output. The
// model is asked to reply with JSON only, but in practice the object is often
// wrapped in prose, so this slices from the first '{' to the last '}' and
// tries to parse the slice.
//
// Known limitation: the slice is not a balanced-brace scan. Text containing
// several unrelated JSON-like fragments is sliced from the first opening brace
// to the last closing brace, which may not parse. Callers depend on this exact
// behavior; do not replace it with a smarter extractor.
//
// Returns nil, never an error, when no braces are found, the slice does not
// parse, or the parsed value is JSON null.
func ExtractJSONFromResponse(text string) map[string]interface{} {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return nil
	}
	if parsed == nil {
		return nil
	}
	return parsed
}
