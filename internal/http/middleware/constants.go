package middleware

import "time"

const (
	unmatchedRoute = "<unmatched>"

	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)
