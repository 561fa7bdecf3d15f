package adapters

import "testing"

func TestExtractWPForms(t *testing.T) {
	payload := &WPFormsPayload{
		FormID: "77",
		Fields: []WPFormsField{
			{Name: "name", Value: "Jane"},
			{Name: "choices", Value: "First\r\nSecond\nThird"},
			{Name: "message", Value: "line one\n\n  line two  \n"},
		},
	}

	fields := ExtractWPForms(payload)
	if fields["name"] != "Jane" {
		t.Fatalf("name = %q", fields["name"])
	}
	if fields["choices"] != "First, Second, Third" {
		t.Fatalf("choices = %q", fields["choices"])
	}
	if fields["message"] != "line one, line two" {
		t.Fatalf("blank lines must be dropped, got %q", fields["message"])
	}
}
