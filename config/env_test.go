package config

import (
	"testing"
	"time"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	t.Setenv("SM_TEST_DURATION", "3s")
	if got := getEnvAsTimeDuration("SM_TEST_DURATION", time.Minute); got != 3*time.Second {
		t.Errorf("expected 3s, got %v", got)
	}

	t.Setenv("SM_TEST_DURATION", "15")
	if got := getEnvAsTimeDuration("SM_TEST_DURATION", time.Minute); got != 15*time.Second {
		t.Errorf("expected bare integers to be seconds, got %v", got)
	}

	t.Setenv("SM_TEST_DURATION", "soon")
	if got := getEnvAsTimeDuration("SM_TEST_DURATION", time.Minute); got != time.Minute {
		t.Errorf("expected default on garbage input, got %v", got)
	}
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("SM_TEST_SLICE", " ru, en ,,")
	got := getEnvAsSlice("SM_TEST_SLICE", nil)
	if len(got) != 2 || got[0] != "ru" || got[1] != "en" {
		t.Fatalf("unexpected slice: %#v", got)
	}
}

func TestBlankValuesFallBackToDefault(t *testing.T) {
	t.Setenv("SM_TEST_BLANK", "   ")
	if got := getEnvAsString("SM_TEST_BLANK", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
	if got := getEnvAsBool("SM_TEST_BLANK", true); !got {
		t.Error("expected default true")
	}
}
