package history

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 128, G: 64, B: 32, A: 255}), image.Point{}, draw.Src)
	return img
}

func TestAddAndList(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first, err := store.Add(testImage(64, 48), "screen")
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.Add(testImage(32, 32), "window:term")
	if err != nil {
		t.Fatal(err)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != second.ID {
		t.Error("List should return newest first")
	}
	if entries[1].Width != 64 || entries[1].Height != 48 {
		t.Errorf("dimensions = %dx%d", entries[1].Width, entries[1].Height)
	}
	for _, e := range []Entry{first, second} {
		if _, err := os.Stat(e.Path); err != nil {
			t.Errorf("missing image file: %v", err)
		}
		if _, err := os.Stat(e.Thumb); err != nil {
			t.Errorf("missing thumbnail: %v", err)
		}
	}
}

func TestLatestAndGet(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Latest(); err == nil {
		t.Error("Latest on an empty store should fail")
	}

	added, err := store.Add(testImage(16, 16), "region")
	if err != nil {
		t.Fatal(err)
	}
	latest, err := store.Latest()
	if err != nil || latest.ID != added.ID {
		t.Fatalf("Latest = %v, %v", latest.ID, err)
	}

	got, err := store.Get(added.ID.String()[:8])
	if err != nil || got.ID != added.ID {
		t.Fatalf("Get by prefix = %v, %v", got.ID, err)
	}
	if _, err := store.Get("ffffffff"); err == nil {
		t.Error("Get with unknown prefix should fail")
	}
}

func TestRemoveAndClear(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a, _ := store.Add(testImage(8, 8), "screen")
	b, _ := store.Add(testImage(8, 8), "screen")

	if err := store.Remove(a.ID.String()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(a.Path); !os.IsNotExist(err) {
		t.Error("removed entry's image file still exists")
	}
	entries, _ := store.List()
	if len(entries) != 1 || entries[0].ID != b.ID {
		t.Fatalf("entries after remove = %v", entries)
	}

	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	entries, _ = store.List()
	if len(entries) != 0 {
		t.Fatalf("entries after clear = %d", len(entries))
	}
}

func TestLimitPrunesOldest(t *testing.T) {
	store, err := Open(t.TempDir(), WithLimit(3))
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for i := 0; i < 5; i++ {
		e, err := store.Add(testImage(8, 8), "screen")
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, e.ID.String())
	}
	entries, _ := store.List()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	// Newest first: the two oldest adds must be gone.
	if entries[0].ID.String() != ids[4] || entries[2].ID.String() != ids[2] {
		t.Errorf("unexpected retained entries: %v", entries)
	}
}

func TestCorruptIndexDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err := store.List()
	if err != nil {
		t.Fatalf("List should not fail on a corrupt index: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries", len(entries))
	}
	// Adding must recover the store.
	if _, err := store.Add(testImage(8, 8), "screen"); err != nil {
		t.Fatal(err)
	}
	entries, _ = store.List()
	if len(entries) != 1 {
		t.Fatalf("got %d entries after recovery", len(entries))
	}
}
