package imagegen

import (
	"errors"
	"strings"
	"testing"

	"tensorbridge/internal/domain"
)

func TestNormalizePromptRejectsEmptyAndShort(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\n\t", "ab", " a "} {
		if _, err := NormalizePrompt(prompt); !errors.Is(err, domain.ErrInvalidPrompt) {
			t.Fatalf("prompt %q: want ErrInvalidPrompt, got %v", prompt, err)
		}
	}
}

func TestNormalizePromptRejectsTooLong(t *testing.T) {
	long := strings.Repeat("a", maxPromptLength+1)
	if _, err := NormalizePrompt(long); !errors.Is(err, domain.ErrInvalidPrompt) {
		t.Fatalf("want ErrInvalidPrompt for oversized prompt, got %v", err)
	}
	exact := strings.Repeat("a", maxPromptLength)
	if _, err := NormalizePrompt(exact); err != nil {
		t.Fatalf("prompt at the limit should pass: %v", err)
	}
}

func TestNormalizePromptTrimsAndNormalizes(t *testing.T) {
	got, err := NormalizePrompt("  a café at dusk  ")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "a café at dusk" {
		t.Fatalf("normalized = %q", got)
	}
}
