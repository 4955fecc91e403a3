package domain

import "errors"

var (
	ErrInvalidPrompt   = errors.New("invalid prompt")
	ErrProviderFailure = errors.New("provider failure")
)
