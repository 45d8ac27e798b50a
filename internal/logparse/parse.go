// Package logparse turns raw application log text into structured
// records. Extraction is line-oriented and best effort: a line that
// matches nothing still yields a record with fallback fields.
package logparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lanternhq/lantern/internal/model"
)

var (
	dateRegex     = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	timeRegex     = regexp.MustCompile(`\b\d{2}:\d{2}\b`)
	levelRegex    = regexp.MustCompile(`\b(INFO|WARN|ERROR|DEBUG)\b`)
	categoryRegex = regexp.MustCompile(`\]\s+([a-zA-Z0-9.]+)\s+:`)
)

// ParseText splits text into non-blank lines and parses each one.
// Record order follows line order.
func ParseText(text string) []model.LogRecord {
	var records []model.LogRecord
	index := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		index++
		records = append(records, parseLine(line, index))
	}
	return records
}

// parseLine extracts the structured fields from one log line. The line
// id is 1-based over non-blank lines.
func parseLine(line string, id int) model.LogRecord {
	date := dateRegex.FindString(line)
	clock := timeRegex.FindString(line)
	if clock == "" {
		clock = "00:00"
	}

	level := model.LevelInfo
	if m := levelRegex.FindStringSubmatch(line); m != nil {
		level = m[1]
	}

	category := model.DefaultCategory
	if m := categoryRegex.FindStringSubmatch(line); m != nil {
		if seg := lastDotSegment(m[1]); seg != "" {
			category = seg
		}
	}

	message := line
	if _, after, found := strings.Cut(line, " : "); found {
		message = after
	}

	return model.LogRecord{
		Level:   level,
		Message: message,
		Date:    date,
		Time:    clock,
		Extra: map[string]string{
			"id":       strconv.Itoa(id),
			"category": category,
		},
	}
}

func lastDotSegment(s string) string {
	parts := strings.Split(s, ".")
	return parts[len(parts)-1]
}
