package dosimetry

import (
	"testing"
	"time"
)

func TestResolvePeriodControl(t *testing.T) {
	readAt := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	if got := ResolvePeriod("ENERO 2024", &readAt, true); got != "CONTROL" {
		t.Fatalf("expected control to keep CONTROL, got %s", got)
	}
}

func TestResolvePeriodExplicitToken(t *testing.T) {
	if got := ResolvePeriod("ENERO 2024...", nil, false); got != "ENERO 2024" {
		t.Fatalf("expected trailing dots stripped, got %q", got)
	}
}

func TestResolvePeriodDerivedFromDate(t *testing.T) {
	readAt := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	if got := ResolvePeriod("", &readAt, false); got != "MARZO 2024" {
		t.Fatalf("expected MARZO 2024, got %s", got)
	}
	if got := ResolvePeriod("CONTROL", &readAt, false); got != "MARZO 2024" {
		t.Fatalf("expected control token on a regular row to derive MARZO 2024, got %s", got)
	}
}

func TestResolvePeriodNoDateFallback(t *testing.T) {
	if got := ResolvePeriod("", nil, false); got != "CONTROL" {
		t.Fatalf("expected undated empty token to fall back to CONTROL, got %s", got)
	}
}
