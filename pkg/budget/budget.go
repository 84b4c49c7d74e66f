// Package budget tracks the selected document set against soft and hard
// token caps, and caches extracted content keyed by document id.
//
// The manager is an explicit object handed to whoever needs it; the single
// logical consumer of a session mutates it, so there is no internal locking
// beyond what that contract needs.
package budget

import "github.com/daringdolphin/curate/models"

// Rejection reasons surfaced on Decision.Reason.
const (
	ReasonBudgetExceeded  = "budget_exceeded"
	ReasonUnknownTokens   = "tokens_unknown"
	ReasonNotSelectable   = "not_selectable"
	ReasonOversize        = "oversize"
	ReasonBudgetExhausted = "budget_exhausted"
)

// Decision is the outcome of one admission attempt. A rejection is a normal
// negative result, not an error.
type Decision struct {
	FileID   string
	Admitted bool
	Tokens   int

	// OverSoftCap advises that the selection crossed the soft cap; the
	// admission still succeeded.
	OverSoftCap bool

	Reason string
}

// docInfo is everything the manager knows about one processed document.
type docInfo struct {
	tokens    int
	oversize  bool
	errorType string
	processed bool
}

// Manager holds budget state for one session.
type Manager struct {
	softCap int
	hardCap int

	docs     map[string]*docInfo
	selected map[string]int // id -> token contribution
	total    int
	contents map[string]string
}

// NewManager builds a Manager with the given caps. softCap must not exceed
// hardCap; both positive.
func NewManager(softCap, hardCap int) *Manager {
	return &Manager{
		softCap:  softCap,
		hardCap:  hardCap,
		docs:     make(map[string]*docInfo),
		selected: make(map[string]int),
		contents: make(map[string]string),
	}
}

// RecordDescriptor registers walker metadata the admission rules depend on.
func (m *Manager) RecordDescriptor(d models.Descriptor) {
	info := m.info(d.ID)
	info.oversize = d.Oversize
}

// Record stores a pipeline result: the token count, any error
// classification, and the extracted content when present. Content
// entries are written once and never mutated.
func (m *Manager) Record(r models.ProcessingResult) {
	info := m.info(r.FileID)
	info.tokens = r.Tokens
	info.errorType = r.ErrorType
	info.processed = true
	if r.Content != "" {
		if _, ok := m.contents[r.FileID]; !ok {
			m.contents[r.FileID] = r.Content
		}
	}
}

func (m *Manager) info(id string) *docInfo {
	if info, ok := m.docs[id]; ok {
		return info
	}
	info := &docInfo{}
	m.docs[id] = info
	return info
}

// Admit attempts the unselected -> selected transition for id. Preconditions:
// the token count is known and positive, the document is not oversize, and
// no extraction error was recorded. The transition is rejected outright if
// it would push the total above the hard cap; crossing only the soft cap
// succeeds with an advisory.
func (m *Manager) Admit(id string) Decision {
	d := Decision{FileID: id}

	if tokens, ok := m.selected[id]; ok {
		// Already selected: idempotent success, nothing changes.
		d.Admitted = true
		d.Tokens = tokens
		d.OverSoftCap = m.total > m.softCap
		return d
	}

	info, ok := m.docs[id]
	if !ok || !info.processed {
		d.Reason = ReasonUnknownTokens
		return d
	}
	if info.oversize {
		d.Reason = ReasonOversize
		return d
	}
	if info.errorType != "" || info.tokens <= 0 {
		d.Reason = ReasonNotSelectable
		return d
	}
	if m.total+info.tokens > m.hardCap {
		d.Reason = ReasonBudgetExceeded
		return d
	}

	m.selected[id] = info.tokens
	m.total += info.tokens
	d.Admitted = true
	d.Tokens = info.tokens
	d.OverSoftCap = m.total > m.softCap
	return d
}

// Remove performs the selected -> unselected transition. It always succeeds;
// removing an unselected id is a no-op.
func (m *Manager) Remove(id string) {
	if tokens, ok := m.selected[id]; ok {
		m.total -= tokens
		delete(m.selected, id)
	}
}

// SelectAll admits ids in input order until an admission would cross the
// hard cap, then stops: a greedy prefix, not best-fit packing. Documents
// rejected for non-budget reasons (errors, oversize) are skipped without
// ending the run. Every id gets a Decision; ids past the stopping point are
// marked budget_exhausted.
func (m *Manager) SelectAll(ids []string) []Decision {
	decisions := make([]Decision, 0, len(ids))
	exhausted := false

	for _, id := range ids {
		if exhausted {
			decisions = append(decisions, Decision{FileID: id, Reason: ReasonBudgetExhausted})
			continue
		}
		d := m.Admit(id)
		if !d.Admitted && d.Reason == ReasonBudgetExceeded {
			exhausted = true
		}
		decisions = append(decisions, d)
	}
	return decisions
}

// ClearAll deselects everything and drops the token map and content cache.
func (m *Manager) ClearAll() {
	m.docs = make(map[string]*docInfo)
	m.selected = make(map[string]int)
	m.contents = make(map[string]string)
	m.total = 0
}

// CachedResult serves the pipeline's cache lookups so re-runs over already
// extracted ids never hit the extraction adapter again.
func (m *Manager) CachedResult(id string) (tokens int, content string, ok bool) {
	content, ok = m.contents[id]
	if !ok {
		return 0, "", false
	}
	info := m.docs[id]
	if info == nil || !info.processed || info.errorType != "" {
		return 0, "", false
	}
	return info.tokens, content, true
}

// CachedContent returns previously extracted text for id.
func (m *Manager) CachedContent(id string) (string, bool) {
	content, ok := m.contents[id]
	return content, ok
}

// Tokens returns the recorded token count for id and whether it is known.
func (m *Manager) Tokens(id string) (int, bool) {
	info, ok := m.docs[id]
	if !ok || !info.processed {
		return 0, false
	}
	return info.tokens, true
}

// IsSelected reports whether id is currently selected.
func (m *Manager) IsSelected(id string) bool {
	_, ok := m.selected[id]
	return ok
}

// Selected returns the ids currently selected, in no particular order.
func (m *Manager) Selected() []string {
	ids := make([]string, 0, len(m.selected))
	for id := range m.selected {
		ids = append(ids, id)
	}
	return ids
}

// Total is the sum of token counts over the selected set.
func (m *Manager) Total() int { return m.total }

// SoftCap returns the advisory ceiling.
func (m *Manager) SoftCap() int { return m.softCap }

// HardCap returns the enforced ceiling.
func (m *Manager) HardCap() int { return m.hardCap }
