package middleware

import (
	"testing"
	"time"
)

func TestValidReqID(t *testing.T) {
	cases := []struct {
		id string
		ok bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", true},
		{"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", true}, // lowercased before matching
		{"123e4567-e89b-42d3-a456-426614174000", true},
		{"short", false},
		{"", false},
		{"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz", false},
	}
	for _, tc := range cases {
		if got := validReqID(tc.id); got != tc.ok {
			t.Fatalf("validReqID(%q) = %v, want %v", tc.id, got, tc.ok)
		}
	}
}

func TestParseAxRequestAt(t *testing.T) {
	// epoch seconds
	got, err := parseAxRequestAt("1736123456")
	if err != nil {
		t.Fatalf("epoch seconds: %v", err)
	}
	if got.Unix() != 1736123456 {
		t.Fatalf("epoch seconds parsed as %v", got)
	}

	// epoch milliseconds
	got, err = parseAxRequestAt("1736123456789")
	if err != nil {
		t.Fatalf("epoch ms: %v", err)
	}
	if got.UnixMilli() != 1736123456789 {
		t.Fatalf("epoch ms parsed as %v", got)
	}

	// RFC3339 with zone
	got, err = parseAxRequestAt("2026-03-01T10:00:00+01:00")
	if err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if !got.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("rfc3339 parsed as %v", got)
	}

	// naive timestamp without zone rejected
	if _, err := parseAxRequestAt("2026-03-01T10:00:00"); err == nil {
		t.Fatalf("naive timestamp accepted")
	}
	if _, err := parseAxRequestAt(""); err == nil {
		t.Fatalf("empty accepted")
	}
}

func TestBuildKey(t *testing.T) {
	key := buildKey("POST", "/loans/:loan_id/repayments", "actor", "req")
	want := "idemp:ax:post:/loans/:loan_id/repayments:actor:req"
	if key != want {
		t.Fatalf("key = %q, want %q", key, want)
	}
}
