// SPDX-License-Identifier: MIT
package presets

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"audiotrim/internal/trim"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "presets.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, Preset{Name: " intro ", Window: trim.Window{Start: 0, End: 12.5}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Name != "intro" {
		t.Errorf("name should be trimmed, got %q", saved.Name)
	}
	if saved.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}

	got, err := store.Get(ctx, "intro")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Window != (trim.Window{Start: 0, End: 12.5}) {
		t.Errorf("window = %v, want [0, 12.5)", got.Window)
	}
	if !got.UpdatedAt.Equal(saved.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, saved.UpdatedAt)
	}
}

func TestSaveReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, Preset{Name: "chorus", Window: trim.Window{Start: 30, End: 45}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save(ctx, Preset{Name: "chorus", Window: trim.Window{Start: 31, End: 44}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("List returned %d presets, want 1", len(all))
	}
	if all[0].Window.Start != 31 || all[0].Window.End != 44 {
		t.Errorf("window = %v, want [31, 44)", all[0].Window)
	}
}

func TestListOrdered(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"verse", "bridge", "outro"} {
		if _, err := store.Save(ctx, Preset{Name: name, Window: trim.Window{Start: 1, End: 2}}); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"bridge", "outro", "verse"}
	if len(all) != len(want) {
		t.Fatalf("List returned %d presets, want %d", len(all), len(want))
	}
	for i, p := range all {
		if p.Name != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, p.Name, want[i])
		}
	}
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, Preset{Name: "tmp", Window: trim.Window{Start: 0, End: 1}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "tmp"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "tmp"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		desc    string
		preset  Preset
		wantErr bool
	}{
		{"Valid", Preset{Name: "a", Window: trim.Window{Start: 0, End: 1}}, false},
		{"Blank name", Preset{Name: "  ", Window: trim.Window{Start: 0, End: 1}}, true},
		{"Slash in name", Preset{Name: "a/b", Window: trim.Window{Start: 0, End: 1}}, true},
		{"Negative start", Preset{Name: "a", Window: trim.Window{Start: -1, End: 1}}, true},
		{"Empty window", Preset{Name: "a", Window: trim.Window{Start: 2, End: 2}}, true},
		{"Reversed", Preset{Name: "a", Window: trim.Window{Start: 3, End: 2}}, true},
		{"NaN", Preset{Name: "a", Window: trim.Window{Start: math.NaN(), End: 2}}, true},
		{"Infinite end", Preset{Name: "a", Window: trim.Window{Start: 0, End: math.Inf(1)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			err := Validate(tt.preset)
			if tt.wantErr && !errors.Is(err, ErrInvalidPreset) {
				t.Errorf("expected ErrInvalidPreset, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Save(context.Background(), Preset{Name: "", Window: trim.Window{Start: 0, End: 1}})
	if !errors.Is(err, ErrInvalidPreset) {
		t.Errorf("expected ErrInvalidPreset, got %v", err)
	}
}

func TestOpenInMemory(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := store.Save(ctx, Preset{Name: "m", Window: trim.Window{Start: 0, End: 1}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Get(ctx, "m"); err != nil {
		t.Errorf("Get: %v", err)
	}
}
