package model

// Shared defaults used by the server binary and the alert rules.
const (
	DefaultAlertWindowMinutes = 10
	DefaultAlertThreshold     = 5

	// TimestampPlaceholder is shown for records whose timestamp cannot
	// be resolved from any of the supported field shapes.
	TimestampPlaceholder = "—"

	// DefaultCategory is assigned to parsed lines without a recognizable
	// logger category.
	DefaultCategory = "General"
)
