package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tatianab/stronghold/internal/chronicle"
	"github.com/tatianab/stronghold/internal/dice"
	"github.com/tatianab/stronghold/internal/engine"
	"github.com/tatianab/stronghold/internal/persistence"
)

func run(t *testing.T, args ...string) (string, string) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, errOut.String())
	}
	return out.String(), errOut.String()
}

func TestSimulateThenListSaves(t *testing.T) {
	dir := t.TempDir()
	out, _ := run(t, "simulate", "--turns", "3", "--seed", "7", "--save-dir", dir, "--name", "Avalon", "--save", "sim")

	if !strings.Contains(out, "Turn 4 begins.") {
		t.Errorf("Expected three turns played, got %q", out)
	}
	for _, name := range append([]string{"Avalon"}, engine.RivalNames...) {
		if !strings.Contains(out, name) {
			t.Errorf("Expected %s in standings", name)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "chronicle.db")); err != nil {
		t.Errorf("Expected chronicle under the save dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "stronghold.log")); err != nil {
		t.Errorf("Expected log under the save dir: %v", err)
	}

	out, _ = run(t, "saves", "--save-dir", dir)
	if !strings.Contains(out, "sim") || !strings.Contains(out, "Avalon") {
		t.Errorf("Expected the simulated save listed, got %q", out)
	}
}

func TestSavesEmpty(t *testing.T) {
	out, _ := run(t, "saves", "--save-dir", t.TempDir())
	if !strings.Contains(out, "No saved games.") {
		t.Errorf("Expected empty listing, got %q", out)
	}
}

func TestSimulateCountsChronicle(t *testing.T) {
	store, err := chronicle.Open(chronicle.MemoryPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	eng := engine.NewEngine(dice.New(3), nil, engine.WithRecorder(store))
	s, err := engine.NewSession(engine.Options{}, eng.Rand())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	var buf bytes.Buffer
	if err := simulate(context.Background(), &buf, eng, s, 2, store); err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if s.Turn != 3 {
		t.Errorf("Expected turn 3, got %d", s.Turn)
	}
	if !strings.Contains(buf.String(), "Chronicle") {
		t.Errorf("Expected chronicle table, got %q", buf.String())
	}
}

func TestSimulateStopsWhenGameOver(t *testing.T) {
	eng := engine.NewEngine(dice.New(3), nil)
	s, err := engine.NewSession(engine.Options{}, eng.Rand())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	s.Over = true
	var buf bytes.Buffer
	if err := simulate(context.Background(), &buf, eng, s, 5, nil); err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if s.Turn != 1 {
		t.Errorf("Expected no turns played, got turn %d", s.Turn)
	}
	if !strings.Contains(buf.String(), "fell on turn 1") {
		t.Errorf("Expected the fall reported, got %q", buf.String())
	}
}

func TestWriteSaves(t *testing.T) {
	var buf bytes.Buffer
	writeSaves(&buf, []persistence.Meta{
		{Name: "current", Kingdom: "Avalon", Turn: 12, SavedAt: time.Now().Add(-2 * time.Hour)},
		{Name: "old", Kingdom: "Camelot", Turn: 40, Over: true, SavedAt: time.Now().Add(-72 * time.Hour)},
	})
	out := buf.String()
	for _, want := range []string{"current", "Avalon", "12", "ongoing", "fallen", "2 hours ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in %q", want, out)
		}
	}
}

func TestChronicleFailureIsLogged(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	os.Unsetenv("GEMINI_API_KEY")
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"saves", "--save-dir", dir, "--chronicle", filepath.Join(blocker, "chronicle.db")})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("Expected an error for a chronicle beneath a file, got nil")
	}

	data, err := os.ReadFile(filepath.Join(dir, "stronghold.log"))
	if err != nil {
		t.Fatalf("Expected a log file: %v", err)
	}
	if !strings.Contains(string(data), "chronicle unavailable") {
		t.Errorf("Expected the chronicle failure in the log, got %q", data)
	}
}
