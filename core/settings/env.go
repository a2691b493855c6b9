package settings

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// EnvCredentialVar is the env file variable imported into KeyAPIKey.
const EnvCredentialVar = "OPENAI_API_KEY"

type ImportState int

const (
	NotImported ImportState = iota
	Imported
)

func (st ImportState) String() string {
	if st == Imported {
		return "imported"
	}
	return "not imported"
}

// ImportState reports whether the one-time credential import has been committed.
func (s *Store) ImportState() ImportState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.EnvImported {
		return Imported
	}
	return NotImported
}

// importEnvOnce moves the document from NotImported to Imported. The transition is computed on a
// copy and only committed to memory once the copy has been persisted, so a failed write leaves
// the import pending for the next run. A missing env file leaves the state unchanged.
func (s *Store) importEnvOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc.EnvImported {
		return
	}
	key, found, err := readEnvCredential(s.envFile)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			s.logger.Error("could not import from env file", err, map[string]interface{}{"path": s.envFile})
		}
		return
	}

	next := s.doc.Clone()
	if found {
		next.APIKey = key
	}
	next.EnvImported = true
	if err := s.write(next); err != nil {
		s.logger.Error("could not persist env import", err, map[string]interface{}{"path": s.path})
		return
	}
	s.doc = next
	if found {
		s.logger.Info("imported API key from env file", map[string]interface{}{"path": s.envFile})
	}
}

// readEnvCredential scans path for `OPENAI_API_KEY=<value>` lines; the last one wins.
// The value is everything after the first '=' of the trimmed line, verbatim.
func readEnvCredential(path string) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, errors.WithStack(err)
	}
	defer func() { _ = f.Close() }()

	var (
		key   string
		found bool
	)
	prefix := EnvCredentialVar + "="
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		key = strings.SplitN(strings.TrimSpace(line), "=", 2)[1]
		found = true
	}
	if err := sc.Err(); err != nil {
		return "", false, errors.Wrap(err, "reading env file")
	}
	return key, found, nil
}
