package logger

import (
	"context"
	"testing"
)

func TestRIDRoundTrip(t *testing.T) {
	ctx := WithRID(context.Background(), "12:34:56")
	if got := RIDFrom(ctx); got != "12:34:56" {
		t.Fatalf("RIDFrom = %q, want %q", got, "12:34:56")
	}
	if got := RIDFrom(context.Background()); got != "" {
		t.Fatalf("RIDFrom(empty) = %q, want empty", got)
	}
}

func TestUpdateMetaRoundTrip(t *testing.T) {
	ctx := WithUpdateMeta(context.Background(), 42, 7, 9)
	if got := UpdateIDFrom(ctx); got != 42 {
		t.Fatalf("UpdateIDFrom = %d, want 42", got)
	}
	if got := UserIDFrom(ctx); got != 7 {
		t.Fatalf("UserIDFrom = %d, want 7", got)
	}
	if got := ChatIDFrom(ctx); got != 9 {
		t.Fatalf("ChatIDFrom = %d, want 9", got)
	}
}

func TestBuildRID(t *testing.T) {
	if got := BuildRID(1, 2, 3); got != "1:2:3" {
		t.Fatalf("BuildRID = %q", got)
	}
}

func TestSanitizeLimit(t *testing.T) {
	in := "hack\x00er\x1b[31m name"
	if got := Sanitize(in); got != "hacker[31m name" {
		t.Fatalf("Sanitize = %q", got)
	}
	if got := SanitizeLimit("abcdef", 3); got != "abc" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
	if got := SanitizeLimit("abc", 0); got != "" {
		t.Fatalf("SanitizeLimit(0) = %q", got)
	}
}
