package logger

import (
	"regexp"
	"strings"
)

// Sensitive field patterns to filter from logs
var (
	passwordPattern  = regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+[^\s&]+`)
	tokenPattern     = regexp.MustCompile(`(?i)(token|jwt|bearer)[\s:=]+[^\s&]+`)
	signaturePattern = regexp.MustCompile(`(?i)\b(sig|signature)=[^\s&]+`)
	secretPattern    = regexp.MustCompile(`(?i)(secret|private[_-]?key)[\s:=]+[^\s&]+`)
	jwtLikePattern   = regexp.MustCompile(`eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)
)

const redactedPlaceholder = "[REDACTED]"

// SanitizeLogMessage removes credentials, signed-link signatures and
// secrets from a log message.
func SanitizeLogMessage(message string) string {
	message = passwordPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = tokenPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = signaturePattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = jwtLikePattern.ReplaceAllString(message, redactedPlaceholder)

	return message
}

// SanitizeMap removes sensitive keys from a map
func SanitizeMap(data map[string]interface{}) map[string]interface{} {
	sensitiveKeys := []string{
		"password", "passwd", "pwd",
		"token", "jwt", "bearer",
		"sig", "signature",
		"secret", "private_key", "private-key",
		"authorization",
	}

	sanitized := make(map[string]interface{}, len(data))
	for k, v := range data {
		lowerKey := strings.ToLower(k)
		isSensitive := false

		for _, sensitiveKey := range sensitiveKeys {
			if strings.Contains(lowerKey, sensitiveKey) {
				isSensitive = true
				break
			}
		}

		if isSensitive {
			sanitized[k] = redactedPlaceholder
		} else {
			sanitized[k] = v
		}
	}

	return sanitized
}
