package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/gradespark/core"
)

const (
	DefaultPath    = "settings.json"
	DefaultEnvFile = ".env"
)

type (
	// Store owns the in-memory settings document and its backing file.
	// Mutations stay in memory until Save. A single running instance per file is assumed:
	// the mutex only serializes callers within this process.
	Store struct {
		mu      sync.Mutex
		path    string
		envFile string
		logger  core.Logger
		doc     Settings
	}

	Option func(*Store)
)

func WithLogger(logger core.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithEnvFile sets the file the API key is imported from on first run.
func WithEnvFile(path string) Option {
	return func(s *Store) { s.envFile = path }
}

// NewStore loads the document at path (defaults if missing or corrupt) and runs the
// one-time credential import.
func NewStore(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{
		path:    path,
		envFile: DefaultEnvFile,
		logger:  core.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.doc = s.Load()
	s.importEnvOnce()
	return s
}

func (s *Store) Path() string { return s.path }

// Load reads the backing file: defaults overlaid with persisted values.
// It never fails; problems are logged and defaults are used instead.
func (s *Store) Load() Settings {
	doc := Defaults()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("failed to load settings", err, map[string]interface{}{"path": s.path})
		}
		return doc
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			// the rest of the document is usable
			s.logger.Warn(decodeErr.Error(), map[string]interface{}{"path": s.path})
			return doc
		}
		s.logger.Error("failed to load settings", err, map[string]interface{}{"path": s.path})
		return Defaults()
	}
	return doc
}

// Settings returns a copy of the current document.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Get returns the value of key, or def if the document has no such key.
func (s *Store) Get(key string, def interface{}) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.doc.Value(key); ok {
		return v
	}
	return def
}

// Set updates key in memory only.
func (s *Store) Set(key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.SetValue(key, value)
}

// Update applies fn to the in-memory document.
func (s *Store) Update(fn func(*Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.doc)
}

// Save writes the whole document to the backing file. On failure the previous file is left intact.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(s.doc); err != nil {
		s.logger.Error("failed to save settings", err, map[string]interface{}{"path": s.path})
		return err
	}
	return nil
}

func (s *Store) write(doc Settings) (err error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding settings")
	}

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating settings directory")
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "writing settings")
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "syncing settings")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing settings")
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(err, "setting permissions")
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "replacing settings file")
	}
	return nil
}
