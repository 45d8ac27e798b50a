package logview

import "github.com/lanternhq/lantern/internal/model"

// LevelDistribution counts records per canonical level. Every level is
// present in the result, zero included, so chart rendering and summary
// rows never need key-existence checks. Records with an unknown level
// are not counted.
func LevelDistribution(records []model.LogRecord) map[string]int {
	dist := make(map[string]int, len(model.Levels))
	for _, level := range model.Levels {
		dist[level] = 0
	}
	for _, rec := range records {
		if n := Normalize(rec); n.Level != "" {
			dist[n.Level]++
		}
	}
	return dist
}
