package persistence

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tatianab/stronghold/internal/dice"
	"github.com/tatianab/stronghold/internal/engine"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	st := NewStore(t.TempDir(), nil)
	st.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return st
}

func TestSaveAndLoad(t *testing.T) {
	st := newStore(t)
	s, err := engine.NewSession(engine.Options{KingdomName: "Avalon"}, dice.New(11))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	s.Turn = 7
	if err := st.Save("current", s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, meta, err := st.Load("current")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != s.ID || got.Turn != 7 {
		t.Errorf("Expected id %s turn 7, got %s turn %d", s.ID, got.ID, got.Turn)
	}
	if meta.Kingdom != "Avalon" || meta.Name != "current" {
		t.Errorf("Unexpected metadata %+v", meta)
	}
	want, _ := s.MarshalBinary()
	have, _ := got.MarshalBinary()
	if !bytes.Equal(want, have) {
		t.Errorf("Expected the loaded game to match the saved one")
	}
}

func TestSaveOverwrites(t *testing.T) {
	st := newStore(t)
	s, err := engine.NewSession(engine.Options{}, dice.New(2))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := st.Save("slot", s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Turn = 3
	s.Human().Population = 250
	if err := st.Save("slot", s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _, err := st.Load("slot")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Turn != 3 || got.Human().Population != 250 {
		t.Errorf("Expected the second save, got turn %d population %d", got.Turn, got.Human().Population)
	}
	entries, err := os.ReadDir(filepath.Join(st.Dir(), "slot"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected only the session and metadata files, got %d entries", len(entries))
	}
}

func TestLoadErrors(t *testing.T) {
	st := newStore(t)
	if _, _, err := st.Load("missing"); !errors.Is(err, ErrNoSave) {
		t.Errorf("Expected no save, got %v", err)
	}
	for _, name := range []string{"", "..", "a/b"} {
		if _, _, err := st.Load(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("%q: expected invalid name, got %v", name, err)
		}
	}

	// A session file that is not zstd.
	dir := filepath.Join(st.Dir(), "broken")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, metaFile), []byte("turn: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, sessionFile), []byte("not compressed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := st.Load("broken"); err == nil {
		t.Errorf("Expected a corrupt save to fail")
	}
}

func TestList(t *testing.T) {
	st := newStore(t)
	saves, err := st.List()
	if err != nil || len(saves) != 0 {
		t.Fatalf("Expected no saves in an empty dir, got %v, %v", saves, err)
	}

	s, err := engine.NewSession(engine.Options{}, dice.New(4))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := st.Save("older", s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	st.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	if err := st.Save("newer", s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Directories without metadata are not saves.
	if err := os.MkdirAll(filepath.Join(st.Dir(), "junk"), 0o755); err != nil {
		t.Fatal(err)
	}

	saves, err = st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(saves) != 2 || saves[0].Name != "newer" || saves[1].Name != "older" {
		t.Errorf("Expected newer then older, got %+v", saves)
	}
	if saves[0].Kingdom != engine.DefaultKingdomName || saves[0].SessionID != s.ID {
		t.Errorf("Unexpected metadata %+v", saves[0])
	}
}

func TestListMissingDir(t *testing.T) {
	st := NewStore(filepath.Join(t.TempDir(), "nope"), nil)
	saves, err := st.List()
	if err != nil || len(saves) != 0 {
		t.Errorf("Expected an empty list, got %v, %v", saves, err)
	}
}
