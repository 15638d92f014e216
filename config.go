package wiki

import "time"

/*
shared constants for the wiki ui:
- pagination defaults (the API pages tips 20 at a time, the category page slices locally with the same size)
- operational timeouts
- limits applied to form posts
*/

const (
	// Pagination
	DefaultPage = 1  // page requested when the caller does not supply one
	PageSize    = 20 // tips per page, matches the API paginator

	// Voting scale used by the API for effectiveness and difficulty
	MinRating = 1
	MaxRating = 5

	// Operational timeouts
	ServerShutdownTimeout = 10 * time.Second // graceful shutdown
	RequestTimeout        = 60 * time.Second // chi Timeout middleware
	ReadinessTimeout      = 2 * time.Second  // health check call to the API
	DefaultAPITimeout     = 10 * time.Second // outbound calls to the API

	// Form limits
	DefaultMaxFormSize = 64 * 1024 // 64KB
	MaxFlagReasonLen   = 500

	SiteName = "Micro-Hygiene Wiki"
)

// ValidEnvs lists the accepted values of the ENVIRONMENT variable
var ValidEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"perf":    true,
	"prod":    true,
	"staging": true,
}
