package model

// Canonical log levels. Matching is case-sensitive everywhere; anything
// else is treated as an absent level, not an error.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelDebug = "DEBUG"
)

// Levels lists the canonical levels in display order.
var Levels = []string{LevelInfo, LevelWarn, LevelError, LevelDebug}

// KnownLevel reports whether level is one of the four canonical values.
func KnownLevel(level string) bool {
	switch level {
	case LevelInfo, LevelWarn, LevelError, LevelDebug:
		return true
	}
	return false
}

// Alert severity tiers.
const (
	SeverityHigh   = "HIGH"
	SeverityMedium = "MEDIUM"
	SeverityLow    = "LOW"
)

// severityRank is the total order used for alert ranking. Unrecognized
// severities rank below LOW.
var severityRank = map[string]int{
	SeverityHigh:   3,
	SeverityMedium: 2,
	SeverityLow:    1,
}

// SeverityRank returns the ranking weight for a severity tier; unknown
// tiers return 0.
func SeverityRank(severity string) int {
	return severityRank[severity]
}
