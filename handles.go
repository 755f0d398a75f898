package main

// nodeHandle is the stable per-element handle the host draws through. It is
// created the first time an element is drawn and lives until the element
// leaves the store.
type nodeHandle struct {
	id     string
	screen Rect
	drawn  bool
}

type handleTable struct {
	handles map[string]*nodeHandle
}

func newHandleTable() *handleTable {
	return &handleTable{handles: make(map[string]*nodeHandle)}
}

func (t *handleTable) handle(id string) *nodeHandle {
	h, ok := t.handles[id]
	if !ok {
		h = &nodeHandle{id: id}
		t.handles[id] = h
	}
	return h
}

func (t *handleTable) lookup(id string) (*nodeHandle, bool) {
	h, ok := t.handles[id]
	return h, ok
}

// prune drops handles whose element is gone.
func (t *handleTable) prune(ids []string) {
	live := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		live[id] = struct{}{}
	}
	for id := range t.handles {
		if _, ok := live[id]; !ok {
			delete(t.handles, id)
		}
	}
}

func (t *handleTable) len() int { return len(t.handles) }
