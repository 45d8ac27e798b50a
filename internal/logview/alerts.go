package logview

import (
	"sort"

	"github.com/lanternhq/lantern/internal/model"
)

// RankAlerts orders alerts by severity (HIGH, MEDIUM, LOW, then
// unknown) and by latest activity descending within a severity. The
// sort is stable, so alerts tied on both keys keep their input order.
// A non-positive n returns the full ranked list; the input slice is
// left untouched.
func RankAlerts(alerts []model.AlertSummary, n int) []model.AlertSummary {
	ranked := make([]model.AlertSummary, len(alerts))
	copy(ranked, alerts)

	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := model.SeverityRank(ranked[i].Severity), model.SeverityRank(ranked[j].Severity)
		if ri != rj {
			return ri > rj
		}
		return ranked[i].Stats.LatestTimestamp > ranked[j].Stats.LatestTimestamp
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
