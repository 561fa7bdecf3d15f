package adapters

import "testing"

func TestExtractCF7JoinsArrayValues(t *testing.T) {
	posted := map[string][]string{
		"your-name":     {"Jane"},
		"your-email":    {"jane@x.com"},
		"your-toppings": {"cheese", "olives", "ham"},
	}

	fields := ExtractCF7(posted)
	if fields["your-name"] != "Jane" {
		t.Fatalf("your-name = %q", fields["your-name"])
	}
	if fields["your-toppings"] != "cheese, olives, ham" {
		t.Fatalf("array field joined as %q", fields["your-toppings"])
	}
}

func TestExtractCF7SkipsInternalFields(t *testing.T) {
	posted := map[string][]string{
		"_wpcf7":         {"123"},
		"_wpcf7_version": {"5.9"},
		"your-name":      {"Jane"},
	}

	fields := ExtractCF7(posted)
	if len(fields) != 1 {
		t.Fatalf("expected internal fields to be skipped, got %v", fields)
	}
	if _, ok := fields["_wpcf7"]; ok {
		t.Fatal("_wpcf7 must not be extracted")
	}
}
