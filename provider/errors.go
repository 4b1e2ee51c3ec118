package provider

import (
	"errors"
	"time"
)

// Error kinds. Concrete errors wrap one of these with fmt.Errorf("...: %w", kind).
var (
	// ErrConfig marks a missing or invalid configuration value. The entry is skipped.
	ErrConfig = errors.New("configuration error")
	// ErrSource marks an upstream that could not be reached or answered badly.
	ErrSource = errors.New("source error")
	// ErrDecode marks an upstream payload that could not be parsed.
	ErrDecode = errors.New("decode error")
)

// ErrorData builds the error-shaped payload a provider shows instead of its normal content.
// It stays on screen for the provider's usual duration.
func ErrorData(now time.Time, source ContentType, message string, err error, duration time.Duration) *DisplayData {
	content := ErrorContent{Source: source, Message: message}
	if err != nil {
		content.Details = err.Error()
	}
	return &DisplayData{
		Timestamp: now,
		Content:   content,
		Metadata: Metadata{
			SuggestedDisplayDuration: duration,
			Priority:                 "normal",
		},
	}
}

// IsError reports whether data carries ErrorContent.
func IsError(data *DisplayData) bool {
	if data == nil {
		return false
	}
	_, ok := data.Content.(ErrorContent)
	return ok
}
