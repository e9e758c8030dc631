package config

import "fmt"

const (
	errRequiredEnvNotSetFmt     = "required environment variable %s is not set"
	errPortRequiredFmt          = "PORT must be set"
	errDBPasswordRequiredFmt    = "DB_PASSWORD must be set"
	errAuthSecretRequiredFmt    = "AUTH_SECRET must be set"
	errAuthSecretMinLengthFmt   = "AUTH_SECRET must be at least %d characters"
	errAuthSecretLowEntropyFmt  = "AUTH_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errTTLTooShortFmt           = "%s must be at least %s"
	errTTLFractionFmt           = "%s must be a whole number of seconds"
	errPublicBaseURLRequiredFmt = "PUBLIC_BASE_URL must be set"
	errInvalidConfigurationFmt  = "invalid configuration: %w"
)

type messageBuilders struct {
	requiredEnvNotSet func(string) string
}

func newMessageBuilders() messageBuilders {
	return messageBuilders{
		requiredEnvNotSet: func(key string) string {
			return fmt.Sprintf(errRequiredEnvNotSetFmt, key)
		},
	}
}

var messages = newMessageBuilders()
