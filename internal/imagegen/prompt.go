package imagegen

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"tensorbridge/internal/domain"
)

const (
	minPromptLength = 3
	maxPromptLength = 1000
)

// NormalizePrompt validates a user prompt and returns the exact text that
// will be transmitted. NFC normalization keeps the byte sequence stable, and
// the signature is computed over those bytes.
func NormalizePrompt(prompt string) (string, error) {
	cleaned := strings.TrimSpace(norm.NFC.String(prompt))
	if cleaned == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", domain.ErrInvalidPrompt)
	}
	if utf8.RuneCountInString(cleaned) < minPromptLength {
		return "", fmt.Errorf("%w: prompt is too short", domain.ErrInvalidPrompt)
	}
	if utf8.RuneCountInString(cleaned) > maxPromptLength {
		return "", fmt.Errorf("%w: prompt must be under %d characters", domain.ErrInvalidPrompt, maxPromptLength)
	}
	return cleaned, nil
}
