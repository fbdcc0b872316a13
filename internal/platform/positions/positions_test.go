package positions

import (
	"testing"
	"time"
)

func TestParseFix_Valid(t *testing.T) {
	fix, err := ParseFix([]byte(`{"lat":13.0827,"lng":80.2707,"timestamp":"2025-03-02T10:15:00Z"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fix.Lat != 13.0827 || fix.Lng != 80.2707 {
		t.Errorf("unexpected coords: %+v", fix)
	}
	want := time.Date(2025, 3, 2, 10, 15, 0, 0, time.UTC)
	if !fix.At.Equal(want) {
		t.Errorf("expected timestamp %v, got %v", want, fix.At)
	}
}

func TestParseFix_MissingTimestamp(t *testing.T) {
	fix, err := ParseFix([]byte(`{"lat":12.98,"lng":80.22}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fix.At.IsZero() {
		t.Error("expected timestamp fallback to now")
	}
}

func TestParseFix_OutOfRange(t *testing.T) {
	cases := []string{
		`{"lat":91,"lng":80}`,
		`{"lat":-91,"lng":80}`,
		`{"lat":13,"lng":181}`,
		`{"lat":13,"lng":-181}`,
	}
	for _, payload := range cases {
		if _, err := ParseFix([]byte(payload)); err == nil {
			t.Errorf("expected range error for %s", payload)
		}
	}
}

func TestParseFix_Malformed(t *testing.T) {
	if _, err := ParseFix([]byte(`not json`)); err == nil {
		t.Fatal("expected decode error")
	}
}
