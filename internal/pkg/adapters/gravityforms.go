package adapters

import (
	"sort"
	"strconv"
	"strings"
)

// GravityPayload is the inbound Gravity Forms submission event. Entry keys
// are numeric field ids, with multi-part fields (name, address) using
// dotted sub-indexes like "3.1", "3.2".
type GravityPayload struct {
	FormID string            `json:"form_id"`
	Entry  map[string]string `json:"entry"`
}

// ExtractGravityForms flattens a Gravity Forms entry. Sub-fields sharing a
// numeric base index are concatenated space-joined in ascending sub-index
// order under the base key. An empty value becomes a single space, not an
// empty string; downstream column alignment relies on that.
func ExtractGravityForms(payload *GravityPayload) map[string]string {
	type subValue struct {
		sub   float64
		value string
	}
	merged := map[string][]subValue{}
	plain := map[string]string{}

	for key, value := range payload.Entry {
		base, subPart, isSub := strings.Cut(key, ".")
		if !isSub {
			plain[key] = spacedValue(value)
			continue
		}
		sub, err := strconv.ParseFloat(subPart, 64)
		if err != nil {
			plain[key] = spacedValue(value)
			continue
		}
		merged[base] = append(merged[base], subValue{sub: sub, value: value})
	}

	fields := make(map[string]string, len(plain)+len(merged))
	for key, value := range plain {
		fields[key] = value
	}
	for base, subs := range merged {
		sort.Slice(subs, func(i, j int) bool { return subs[i].sub < subs[j].sub })
		parts := make([]string, len(subs))
		for i, sv := range subs {
			parts[i] = spacedValue(sv.value)
		}
		fields[base] = strings.Join(parts, " ")
	}
	return fields
}

// spacedValue keeps empty values visible as a single space.
func spacedValue(value string) string {
	if value == "" {
		return " "
	}
	return value
}
