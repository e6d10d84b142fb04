// Package logging provides zerolog helpers that keep credentials out of log output.
//
// The Dataverse client authenticates with a client secret and receives bearer
// tokens; neither may reach the CLI log file. FilteringWriter redacts them from
// every line written, and SafeValue redacts individual fields at the call site.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

// sensitivePatterns match credential formats that may appear in log lines.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Package-level patterns for reuse
	// JSON web tokens (access tokens issued by the identity platform)
	regexp.MustCompile(`eyJ[a-zA-Z0-9_-]{10,}\.[a-zA-Z0-9_-]{10,}\.[a-zA-Z0-9_-]*`),

	// Entra ID client secrets (three chars, a digit, "Q~", then the body)
	regexp.MustCompile(`[a-zA-Z0-9_-]{3}\dQ~[a-zA-Z0-9_.~-]{31,}`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._~+/-]{20,}=*`),

	// OAuth form and JSON fields
	regexp.MustCompile(`(?i)"?(client_secret|access_token|refresh_token|id_token)"?\s*[:=]\s*"?[^\s"&,}]{8,}"?`),

	// Generic secret patterns
	regexp.MustCompile(`(?i)(secret|password|credential)\s*[:=]\s*["']?[^\s"']{8,}["']?`),
}

// sensitiveFieldNames are field names whose values are always redacted.
// Matching is case-insensitive and by substring.
var sensitiveFieldNames = []string{ //nolint:gochecknoglobals // Package-level patterns for reuse
	"secret",
	"password",
	"credential",
	"access_token",
	"accesstoken",
	"refresh_token",
	"id_token",
	"bearer",
	"authorization",
}

// SensitiveDataHook is a zerolog hook that flags events whose message looks
// like it carries a credential. zerolog cannot rewrite a message from a hook,
// so the flag marks the line for review while FilteringWriter does the redaction.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a new SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements the zerolog.Hook interface.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any sensitive pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every sensitive match in value with [REDACTED].
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveFieldName reports whether a field name indicates sensitive data.
func IsSensitiveFieldName(fieldName string) bool {
	lowerName := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFieldNames {
		if strings.Contains(lowerName, sensitive) {
			return true
		}
	}
	return false
}

// SafeValue returns [REDACTED] for sensitive field names and the pattern-filtered
// value otherwise.
//
// Usage:
//
//	log.Debug().Str("client_secret_env", logging.SafeValue("client_secret_env", name)).Msg("connecting")
func SafeValue(fieldName, value string) string {
	if IsSensitiveFieldName(fieldName) {
		return RedactedValue
	}
	return FilterSensitiveValue(value)
}

// FilteringWriter wraps an io.Writer and redacts sensitive data from everything
// written through it.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a new FilteringWriter that wraps the given writer.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports len(p) on success so callers do not
// see a short write when redaction shrinks the line.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err = fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	return len(p), nil
}
