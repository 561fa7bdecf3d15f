package adapters

import "strings"

// Contact Form 7 submits multipart form data whose fields can be
// multi-valued (checkboxes, multi-selects). Internal CF7 fields are
// underscore-prefixed and never part of the mapped data.

// ExtractCF7 flattens a CF7 submission into the field map the resolver
// consumes. Multi-valued fields are joined with ", ". File fields are
// expected to already hold their relocated public URL; the webhook handler
// rewrites them before extraction.
func ExtractCF7(posted map[string][]string) map[string]string {
	fields := make(map[string]string, len(posted))
	for key, values := range posted {
		if strings.HasPrefix(key, "_") {
			continue
		}
		fields[key] = strings.Join(values, ", ")
	}
	return fields
}
