package services_test

import (
	"errors"
	"strings"
	"testing"

	"ripple/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalService, "submit", "create comment", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"submit", "create comment", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "score", "", "model unavailable", nil)
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service marker by default, got %v", err)
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(services.ErrTimeout, "", "", "", nil)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestIsConfiguration(t *testing.T) {
	err := services.Wrap(services.ErrConfiguration, "score", "prepare", "brand profile missing", nil)
	if !services.IsConfiguration(err) {
		t.Fatalf("expected configuration classification for %v", err)
	}
	if services.IsConfiguration(services.Wrap(services.ErrValidation, "submit", "", "not eligible", nil)) {
		t.Fatal("validation error misclassified as configuration")
	}
	if services.IsConfiguration(nil) {
		t.Fatal("nil error misclassified as configuration")
	}
}
