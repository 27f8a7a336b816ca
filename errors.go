package cp16

import (
	"errors"
	"fmt"
)

var (
	// ErrFrequencyExceedsNyquist is matched by a *FrequencyError.
	ErrFrequencyExceedsNyquist = errors.New("tone frequency exceeds the Nyquist frequency")

	// ErrEmptyGlyphSequence is returned for an empty text.
	ErrEmptyGlyphSequence = errors.New("no glyphs to encode")

	// ErrInvalidConfig is matched by a *ConfigError.
	ErrInvalidConfig = errors.New("invalid encoder config")
)

// FrequencyError describes a tone that can't be represented at the sample rate.
type FrequencyError struct {
	// Channel is the first offending channel index.
	Channel int

	// Frequency is the channel tone frequency, in Hz.
	Frequency int

	// Limit is a half of the sample rate, in Hz.
	Limit int
}

func (e *FrequencyError) Error() string {
	return fmt.Sprintf("channel %d frequency %d Hz exceeds the %d Hz limit of the sample rate",
		e.Channel, e.Frequency, e.Limit)
}

func (e *FrequencyError) Is(target error) bool {
	return target == ErrFrequencyExceedsNyquist
}

// ConfigError describes an invalid EncoderConfig field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
