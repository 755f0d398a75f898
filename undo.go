package main

// History is a linear undo log of document snapshots. Undo and redo only
// move the cursor; a checkpoint taken while the cursor is behind the tail
// discards everything after it.
type History struct {
	entries []Document
	cursor  int
	limit   int
}

// NewHistory starts a log holding initial. A limit above zero caps the
// number of entries, dropping the oldest first.
func NewHistory(initial Document, limit int) *History {
	h := &History{limit: limit}
	h.Reset(initial)
	return h
}

func (h *History) Reset(doc Document) {
	h.entries = []Document{doc.Clone()}
	h.cursor = 0
}

func (h *History) Checkpoint(doc Document) {
	h.entries = append(h.entries[:h.cursor+1], doc.Clone())
	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.entries = append([]Document(nil), h.entries[drop:]...)
	}
	h.cursor = len(h.entries) - 1
}

func (h *History) Undo() (Document, bool) {
	if !h.CanUndo() {
		return Document{}, false
	}
	h.cursor--
	return h.entries[h.cursor].Clone(), true
}

func (h *History) Redo() (Document, bool) {
	if !h.CanRedo() {
		return Document{}, false
	}
	h.cursor++
	return h.entries[h.cursor].Clone(), true
}

// Current returns the snapshot under the cursor.
func (h *History) Current() Document { return h.entries[h.cursor].Clone() }

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }
func (h *History) Len() int      { return len(h.entries) }
func (h *History) Cursor() int   { return h.cursor }
