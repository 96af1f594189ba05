// Package persistence saves and restores games. Each save is a directory
// holding a zstd-compressed binary session and a YAML metadata file whose
// presence marks the save as complete.
package persistence

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/stronghold/internal/engine"
)

const (
	sessionFile = "session.dat"
	metaFile    = "meta.yaml"
)

var (
	ErrNoSave      = errors.New("no such save")
	ErrInvalidName = errors.New("invalid save name")
)

// Meta describes a save without loading it.
type Meta struct {
	Name      string    `yaml:"-"`
	SessionID string    `yaml:"session_id"`
	Turn      int       `yaml:"turn"`
	Kingdom   string    `yaml:"kingdom"`
	Over      bool      `yaml:"over"`
	SavedAt   time.Time `yaml:"saved_at"`
}

// Store reads and writes saves under one directory.
type Store struct {
	dir string
	log *zap.Logger
	now func() time.Time
}

func NewStore(dir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{dir: dir, log: log, now: time.Now}
}

func (st *Store) Dir() string {
	return st.dir
}

func (st *Store) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(st.dir, name), nil
}

// Save writes s under name, replacing any earlier save of that name.
func (st *Store) Save(name string, s *engine.Session) error {
	dir, err := st.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	body, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(dir, sessionFile), func(w io.Writer) error {
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		if _, err := enc.Write(body); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	}); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	meta := Meta{
		SessionID: s.ID,
		Turn:      s.Turn,
		Kingdom:   s.Human().Name,
		Over:      s.Over,
		SavedAt:   st.now().UTC().Truncate(time.Second),
	}
	metaData, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(dir, metaFile), func(w io.Writer) error {
		_, err := w.Write(metaData)
		return err
	}); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	st.log.Debug("game saved",
		zap.String("name", name),
		zap.Int("turn", s.Turn),
		zap.Int("bytes", len(body)),
	)
	return nil
}

// writeAtomic fills a temporary file and renames it over path.
func writeAtomic(path string, fill func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := fill(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load restores the save called name.
func (st *Store) Load(name string) (*engine.Session, Meta, error) {
	meta, err := st.readMeta(name)
	if err != nil {
		return nil, Meta{}, err
	}
	dir, _ := st.path(name)

	f, err := os.Open(filepath.Join(dir, sessionFile))
	if err != nil {
		return nil, Meta{}, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, Meta{}, err
	}
	defer dec.Close()
	body, err := io.ReadAll(dec)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("decompress %s: %w", name, err)
	}

	s := &engine.Session{ID: meta.SessionID, Turn: meta.Turn}
	if err := s.UnmarshalBinary(body); err != nil {
		return nil, Meta{}, fmt.Errorf("load %s: %w", name, err)
	}
	st.log.Debug("game loaded", zap.String("name", name), zap.Int("turn", s.Turn))
	return s, meta, nil
}

func (st *Store) readMeta(name string) (Meta, error) {
	dir, err := st.path(name)
	if err != nil {
		return Meta{}, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metaFile))
	if errors.Is(err, os.ErrNotExist) {
		return Meta{}, fmt.Errorf("%w: %s", ErrNoSave, name)
	}
	if err != nil {
		return Meta{}, err
	}
	var meta Meta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return Meta{}, fmt.Errorf("read %s metadata: %w", name, err)
	}
	meta.Name = name
	return meta, nil
}

// List describes every complete save, most recent first.
func (st *Store) List() ([]Meta, error) {
	entries, err := os.ReadDir(st.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Meta{}, nil
	}
	if err != nil {
		return nil, err
	}

	saves := []Meta{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := st.readMeta(entry.Name())
		if errors.Is(err, ErrNoSave) {
			continue
		}
		if err != nil {
			st.log.Warn("skipping unreadable save", zap.String("name", entry.Name()), zap.Error(err))
			continue
		}
		saves = append(saves, meta)
	}
	sort.SliceStable(saves, func(i, j int) bool {
		return saves[i].SavedAt.After(saves[j].SavedAt)
	})
	return saves, nil
}
