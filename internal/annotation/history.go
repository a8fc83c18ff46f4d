package annotation

// DefaultDepth bounds both undo and redo stacks. Snapshots are full
// copies of the element list, so the cap also bounds memory.
const DefaultDepth = 30

// History owns the live element list and its undo/redo stacks. One
// History belongs to one editing session and is driven from a single
// goroutine; it is not safe for concurrent use.
type History struct {
	current []Element
	undo    [][]Element
	redo    [][]Element
	depth   int
	changed []func()
}

// HistoryOption configures a History.
type HistoryOption func(*History)

// WithDepth overrides the undo/redo depth cap. Values below 1 keep the
// default.
func WithDepth(n int) HistoryOption {
	return func(h *History) {
		if n >= 1 {
			h.depth = n
		}
	}
}

func NewHistory(opts ...HistoryOption) *History {
	h := &History{depth: DefaultDepth}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnChange registers fn to run after every successful mutation. Undo
// and Redo on empty stacks do not fire it.
func (h *History) OnChange(fn func()) {
	h.changed = append(h.changed, fn)
}

func (h *History) notify() {
	for _, fn := range h.changed {
		fn()
	}
}

func snapshot(els []Element) []Element {
	cp := make([]Element, len(els))
	for i, e := range els {
		cp[i] = e.Clone()
	}
	return cp
}

// push appends a snapshot to a stack, evicting the oldest entry once
// the stack is full.
func push(stack [][]Element, snap []Element, depth int) [][]Element {
	if len(stack) >= depth {
		n := copy(stack, stack[len(stack)-depth+1:])
		stack = stack[:n]
	}
	return append(stack, snap)
}

// Commit records the current state for undo, invalidates any pending
// redo states and appends el on top.
func (h *History) Commit(el Element) {
	h.undo = push(h.undo, snapshot(h.current), h.depth)
	h.redo = nil
	h.current = append(h.current, el.Clone())
	h.notify()
}

// Clear removes every element as a single undoable step. Pending redo
// states are invalidated.
func (h *History) Clear() {
	h.undo = push(h.undo, snapshot(h.current), h.depth)
	h.redo = nil
	h.current = nil
	h.notify()
}

// Undo restores the most recent prior state. It reports false, without
// touching anything, when there is nothing to undo.
func (h *History) Undo() bool {
	if len(h.undo) == 0 {
		return false
	}
	h.redo = push(h.redo, h.current, h.depth)
	h.current = h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.notify()
	return true
}

// Redo reapplies the most recently undone state. It reports false when
// there is nothing to redo.
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}
	h.undo = push(h.undo, h.current, h.depth)
	h.current = h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.notify()
	return true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len is the number of live elements.
func (h *History) Len() int { return len(h.current) }

// Elements returns the live elements bottom to top. The slice is a
// copy; mutating it does not affect the history.
func (h *History) Elements() []Element {
	return snapshot(h.current)
}
