package annotation

import (
	"image/color"
	"testing"

	"github.com/example/snapmark/internal/geometry"
)

var testRef = geometry.Rect{W: 100, H: 100}

func mustShape(t *testing.T, kind Kind) Element {
	t.Helper()
	el, err := NewShape(kind, geometry.Point{X: 10, Y: 10}, geometry.Point{X: 90, Y: 90}, color.RGBA{R: 255, A: 255}, 2, testRef)
	if err != nil {
		t.Fatalf("NewShape: %v", err)
	}
	return el
}

func kinds(h *History) []Kind {
	els := h.Elements()
	ks := make([]Kind, len(els))
	for i, e := range els {
		ks[i] = e.Kind
	}
	return ks
}

func equalKinds(a, b []Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCommitUndoRedo(t *testing.T) {
	h := NewHistory()

	// Draw A, B, C; undo twice; redo once. Expected live set: A, B.
	h.Commit(mustShape(t, KindArrow))
	h.Commit(mustShape(t, KindRect))
	h.Commit(mustShape(t, KindOval))

	if !h.Undo() || !h.Undo() {
		t.Fatal("Undo failed with states available")
	}
	if !h.Redo() {
		t.Fatal("Redo failed with a state available")
	}
	if got := kinds(h); !equalKinds(got, []Kind{KindArrow, KindRect}) {
		t.Errorf("elements = %v, want [arrow rect]", got)
	}
}

func TestUndoRedoInverse(t *testing.T) {
	h := NewHistory()
	h.Commit(mustShape(t, KindArrow))
	h.Commit(mustShape(t, KindLine))
	before := kinds(h)

	if !h.Undo() {
		t.Fatal("Undo failed")
	}
	if !h.Redo() {
		t.Fatal("Redo failed")
	}
	if got := kinds(h); !equalKinds(got, before) {
		t.Errorf("redo after undo = %v, want %v", got, before)
	}
}

func TestEmptyStacksNoOp(t *testing.T) {
	h := NewHistory()
	if h.Undo() {
		t.Error("Undo reported success on an empty stack")
	}
	if h.Redo() {
		t.Error("Redo reported success on an empty stack")
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("empty history reports available states")
	}
}

func TestCommitInvalidatesRedo(t *testing.T) {
	h := NewHistory()
	h.Commit(mustShape(t, KindArrow))
	h.Commit(mustShape(t, KindRect))
	h.Undo()
	if !h.CanRedo() {
		t.Fatal("expected a redo state after undo")
	}
	h.Commit(mustShape(t, KindOval))
	if h.CanRedo() {
		t.Error("redo survived a commit")
	}
	if got := kinds(h); !equalKinds(got, []Kind{KindArrow, KindOval}) {
		t.Errorf("elements = %v, want [arrow oval]", got)
	}
}

func TestClearIsUndoable(t *testing.T) {
	h := NewHistory()
	h.Commit(mustShape(t, KindArrow))
	h.Commit(mustShape(t, KindRect))
	h.Clear()
	if h.Len() != 0 {
		t.Fatalf("Len after Clear = %d", h.Len())
	}
	if !h.Undo() {
		t.Fatal("Undo after Clear failed")
	}
	if got := kinds(h); !equalKinds(got, []Kind{KindArrow, KindRect}) {
		t.Errorf("elements = %v, want [arrow rect]", got)
	}
}

func TestDepthCapEviction(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 40; i++ {
		h.Commit(mustShape(t, KindLine))
	}
	undone := 0
	for h.Undo() {
		undone++
	}
	if undone != DefaultDepth {
		t.Errorf("undone %d states, want %d", undone, DefaultDepth)
	}
	// Oldest states were evicted; the floor is the state after commit 10.
	if h.Len() != 10 {
		t.Errorf("Len after exhausting undo = %d, want 10", h.Len())
	}
}

func TestWithDepth(t *testing.T) {
	h := NewHistory(WithDepth(2))
	for i := 0; i < 5; i++ {
		h.Commit(mustShape(t, KindLine))
	}
	undone := 0
	for h.Undo() {
		undone++
	}
	if undone != 2 || h.Len() != 3 {
		t.Errorf("undone=%d len=%d, want 2 and 3", undone, h.Len())
	}
}

func TestSnapshotIsolation(t *testing.T) {
	h := NewHistory()
	h.Commit(mustShape(t, KindLine))
	els := h.Elements()
	els[0].Points[0] = geometry.Point{X: 0.99, Y: 0.99}
	fresh := h.Elements()
	if fresh[0].Points[0].X == 0.99 {
		t.Error("mutating a returned snapshot leaked into the history")
	}
}

func TestOnChange(t *testing.T) {
	h := NewHistory()
	calls := 0
	h.OnChange(func() { calls++ })

	h.Commit(mustShape(t, KindArrow))
	h.Undo()
	h.Redo()
	h.Clear()
	if calls != 4 {
		t.Errorf("OnChange fired %d times, want 4", calls)
	}

	h2 := NewHistory()
	h2.OnChange(func() { t.Error("OnChange fired for a no-op") })
	h2.Undo()
	h2.Redo()
}
