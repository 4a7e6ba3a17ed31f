package logging

import (
	"regexp"

	"go.uber.org/zap"
)

// bearerPattern matches bearer credentials embedded in free-form strings.
var bearerPattern = regexp.MustCompile(`(?i)bearer\s+\S+`)

// RedactedString returns a zap field with bearer tokens replaced.
// Use for values that may carry Authorization header material, such as
// request dumps or error strings from the auth provider.
func RedactedString(key, value string) zap.Field {
	return zap.String(key, bearerPattern.ReplaceAllString(value, "Bearer [REDACTED]"))
}
