package adapters

import "strings"

// WPFormsField is one submitted field of a WPForms webhook payload.
type WPFormsField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// WPFormsPayload is the inbound WPForms submission event.
type WPFormsPayload struct {
	FormID string         `json:"form_id"`
	Fields []WPFormsField `json:"fields"`
}

// ExtractWPForms flattens a WPForms submission. Multi-line values (textarea,
// checkbox lists) arrive newline-delimited and are collapsed to a single
// ", "-joined line.
func ExtractWPForms(payload *WPFormsPayload) map[string]string {
	fields := make(map[string]string, len(payload.Fields))
	for _, field := range payload.Fields {
		value := strings.ReplaceAll(field.Value, "\r\n", "\n")
		parts := strings.Split(value, "\n")
		kept := parts[:0]
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				kept = append(kept, trimmed)
			}
		}
		fields[field.Name] = strings.Join(kept, ", ")
	}
	return fields
}
