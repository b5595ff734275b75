package service

import (
	"errors"
	"fmt"

	"yukid/internal/ai"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrNoProvider  = errors.New("no model provider configured")
	ErrUnsupported = errors.New("unsupported")
)

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}

	knownErrors := []error{
		ErrNotFound,
		ErrValidation,
		ErrNoProvider,
		ErrUnsupported,
	}

	for _, knownErr := range knownErrors {
		if errors.Is(err, knownErr) {
			return fmt.Errorf("%s: %w", op, knownErr)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// visionErr maps a backend's vision refusal onto ErrUnsupported so callers
// can answer 422 instead of treating it as an internal failure.
func visionErr(err error) error {
	if errors.Is(err, ai.ErrVisionUnsupported) {
		return fmt.Errorf("%w: %s", ErrUnsupported, err)
	}
	return err
}
