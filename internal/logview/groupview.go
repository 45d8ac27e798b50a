package logview

import (
	"sync"

	"github.com/lanternhq/lantern/internal/model"
)

// GroupView tracks which files a viewer has collapsed. Collapse state
// lives outside the snapshot, so re-filtering or re-uploading never
// resets it. Files start expanded. Safe for concurrent use.
type GroupView struct {
	mu        sync.Mutex
	collapsed map[string]struct{}
}

func NewGroupView() *GroupView {
	return &GroupView{collapsed: make(map[string]struct{})}
}

// Toggle flips the collapse state for filename and reports the new
// state, true meaning collapsed.
func (v *GroupView) Toggle(filename string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.collapsed[filename]; ok {
		delete(v.collapsed, filename)
		return false
	}
	v.collapsed[filename] = struct{}{}
	return true
}

// Collapsed reports whether filename is currently collapsed.
func (v *GroupView) Collapsed(filename string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.collapsed[filename]
	return ok
}

// Annotate returns a copy of groups with each group's Collapsed flag
// set from the view state. The input is not modified.
func (v *GroupView) Annotate(groups []model.LogFileGroup) []model.LogFileGroup {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]model.LogFileGroup, len(groups))
	for i, g := range groups {
		_, collapsed := v.collapsed[g.Filename]
		g.Collapsed = collapsed
		out[i] = g
	}
	return out
}
