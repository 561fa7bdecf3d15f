package googleauth

import (
	"testing"
	"time"
)

func TestIsExpiredBoundary(t *testing.T) {
	expiry := time.Unix(10_000, 0)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "well before buffer", now: expiry.Add(-time.Hour), want: false},
		{name: "exactly at buffer", now: expiry.Add(-ExpiryBuffer), want: false},
		{name: "one second inside buffer", now: expiry.Add(-ExpiryBuffer + time.Second), want: true},
		{name: "at expiry", now: expiry, want: true},
		{name: "past expiry", now: expiry.Add(time.Minute), want: true},
	}

	for _, tt := range tests {
		if got := IsExpired(expiry, tt.now); got != tt.want {
			t.Fatalf("%s: IsExpired = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseExpiry(t *testing.T) {
	if _, ok := parseExpiry(""); ok {
		t.Fatal("empty expiry must not parse")
	}
	if _, ok := parseExpiry("not-a-number"); ok {
		t.Fatal("garbage expiry must not parse")
	}
	parsed, ok := parseExpiry(formatExpiry(time.Unix(1_700_000_000, 0)))
	if !ok || parsed.Unix() != 1_700_000_000 {
		t.Fatalf("round trip failed: %v %v", parsed, ok)
	}
}
