package logview

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/lanternhq/lantern/internal/model"
	"github.com/lanternhq/lantern/internal/timestamp"
)

// predicate is a compiled FilterCriteria. Range bounds are parsed once;
// a bound that does not parse is dropped, since an unusable constraint
// must degrade to "no constraint" rather than reject everything.
type predicate struct {
	criteria model.FilterCriteria
	keyword  string
	from, to time.Time
	fromSet  bool
	toSet    bool
}

func compile(c model.FilterCriteria) predicate {
	p := predicate{criteria: c, keyword: strings.ToLower(c.Keyword)}
	if c.From != "" {
		p.from, p.fromSet = timestamp.Parse(c.From)
	}
	if c.To != "" {
		p.to, p.toSet = timestamp.Parse(c.To)
	}
	return p
}

// Matches evaluates every active criteria field against one record and
// its owning file; unset fields always pass. With zero active criteria
// every record matches.
func Matches(rec model.LogRecord, filename string, c model.FilterCriteria) bool {
	if c.File != "" && filename != c.File {
		return false
	}
	return compile(c).matches(rec)
}

// matches applies the record-level predicates (everything except the
// file filter, which Query applies per group).
func (p predicate) matches(rec model.LogRecord) bool {
	n := Normalize(rec)

	if p.criteria.Level != "" && n.Level != p.criteria.Level {
		return false
	}
	if p.keyword != "" && !strings.Contains(serializeLower(rec), p.keyword) {
		return false
	}

	timeBound := p.fromSet || p.toSet || p.criteria.Seconds != nil || p.criteria.Milliseconds != nil
	if !timeBound {
		return true
	}
	// A record without a resolvable timestamp fails any time predicate.
	if !n.KeyOK {
		return false
	}
	if p.fromSet && n.Key.Before(p.from) {
		return false
	}
	if p.toSet && n.Key.After(p.to) {
		return false
	}
	if p.criteria.Seconds != nil && timestamp.Seconds(n.Key) != *p.criteria.Seconds {
		return false
	}
	if p.criteria.Milliseconds != nil && timestamp.Millis(n.Key) != *p.criteria.Milliseconds {
		return false
	}
	return true
}

// serializeLower renders the whole record, extra fields included, for
// case-insensitive keyword search.
func serializeLower(rec model.LogRecord) string {
	data, err := json.Marshal(rec)
	if err != nil {
		return strings.ToLower(rec.Message)
	}
	return strings.ToLower(string(data))
}
