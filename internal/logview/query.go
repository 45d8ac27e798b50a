package logview

import "github.com/lanternhq/lantern/internal/model"

// QueryResult is a filtered grouped view plus its flattened record count.
type QueryResult struct {
	Groups     []model.LogFileGroup `json:"files"`
	TotalCount int                  `json:"total_count"`
}

// Query applies criteria to a snapshot of file groups. File order and
// in-file record order are preserved; filtering only removes records.
// A file left with zero matching records is omitted while any content
// filter is active; an empty file is shown only when nothing could
// have filtered its records away.
func Query(groups []model.LogFileGroup, c model.FilterCriteria) QueryResult {
	p := compile(c)
	keepEmpty := !c.HasContentFilter()

	result := QueryResult{}
	for _, group := range groups {
		if c.File != "" && group.Filename != c.File {
			continue
		}

		filtered := make([]model.LogRecord, 0, len(group.Logs))
		for _, rec := range group.Logs {
			if p.matches(rec) {
				filtered = append(filtered, rec)
			}
		}
		if len(filtered) == 0 && !keepEmpty {
			continue
		}

		out := group
		out.Logs = filtered
		result.Groups = append(result.Groups, out)
		result.TotalCount += len(filtered)
	}
	return result
}

// Flatten concatenates the records of all groups in order, for feeding
// the aggregators.
func Flatten(groups []model.LogFileGroup) []model.LogRecord {
	total := 0
	for _, g := range groups {
		total += len(g.Logs)
	}
	records := make([]model.LogRecord, 0, total)
	for _, g := range groups {
		records = append(records, g.Logs...)
	}
	return records
}
