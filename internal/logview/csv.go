package logview

import (
	"encoding/json"
	"strings"

	"github.com/lanternhq/lantern/internal/model"
)

// csvBOM makes spreadsheet applications decode the file as UTF-8.
const csvBOM = "\uFEFF"

var csvHeader = []string{"Filename", "Timestamp", "Level", "Message"}

// ExportCSV renders groups as CSV text: one row per record in group
// then record order, every data field quoted with embedded quotes
// doubled, prefixed with a UTF-8 byte order mark. A record with no
// message falls back to its full JSON form so no row is ever empty.
func ExportCSV(groups []model.LogFileGroup) string {
	var b strings.Builder
	b.WriteString(csvBOM)
	b.WriteString(strings.Join(csvHeader, ","))

	for _, group := range groups {
		for _, rec := range group.Logs {
			n := Normalize(rec)
			b.WriteByte('\n')
			b.WriteString(csvField(group.Filename))
			b.WriteByte(',')
			b.WriteString(csvField(n.Display))
			b.WriteByte(',')
			b.WriteString(csvField(rec.Level))
			b.WriteByte(',')
			b.WriteString(csvField(csvMessage(rec)))
		}
	}
	return b.String()
}

// ExportFilename derives the download filename for a project export.
func ExportFilename(projectID string) string {
	return "project_logs_" + projectID + ".csv"
}

func csvField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func csvMessage(rec model.LogRecord) string {
	if rec.Message != "" {
		return rec.Message
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return ""
	}
	return string(data)
}
