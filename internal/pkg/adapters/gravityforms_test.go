package adapters

import "testing"

func TestExtractGravityFormsMergesSubIndexes(t *testing.T) {
	payload := &GravityPayload{
		FormID: "5",
		Entry: map[string]string{
			"1":   "jane@x.com",
			"3.6": "Doe",
			"3.3": "Jane",
			"3.4": "",
			"3.2": "Ms.",
			"7":   "",
		},
	}

	fields := ExtractGravityForms(payload)
	if fields["1"] != "jane@x.com" {
		t.Fatalf("plain field = %q", fields["1"])
	}
	// sub-indexes ascending, empties kept as a single space
	if fields["3"] != "Ms. Jane   Doe" {
		t.Fatalf("merged name field = %q", fields["3"])
	}
	if fields["7"] != " " {
		t.Fatalf("empty plain field = %q, want single space", fields["7"])
	}
}

func TestExtractGravityFormsNonNumericSubIndex(t *testing.T) {
	payload := &GravityPayload{
		Entry: map[string]string{"meta.key": "v"},
	}

	fields := ExtractGravityForms(payload)
	if fields["meta.key"] != "v" {
		t.Fatalf("non-numeric sub-index must stay a plain key, got %v", fields)
	}
}
