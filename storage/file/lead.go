// Package filedb keeps leads in a JSON array file.
package filedb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/gradespark/core"
	"github.com/trezcool/gradespark/core/lead"
)

// LeadsFile is the backup file name inside the app data dir.
const LeadsFile = "leads_backup.json"

// ErrCorruptBackup is returned when the backup file is not a JSON array of leads.
var ErrCorruptBackup = errors.New("corrupt lead backup")

type leadRepository struct {
	mu     sync.Mutex
	path   string
	logger core.Logger
}

// NewLeadRepository stores leads in dir/leads_backup.json. dir is created on first write.
func NewLeadRepository(dir string, logger core.Logger) lead.Repository {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &leadRepository{path: filepath.Join(dir, LeadsFile), logger: logger}
}

// Append rewrites the whole file with l added. A backup that does not decode is replaced;
// any other read failure leaves the file untouched.
func (repo *leadRepository) Append(l lead.Lead) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	leads, err := repo.read()
	if err != nil {
		if errors.Cause(err) != ErrCorruptBackup {
			repo.logger.Error("failed to read lead backup", err, map[string]interface{}{"path": repo.path})
			return err
		}
		repo.logger.Warn("failed to decode existing lead backup; starting fresh", err, map[string]interface{}{"path": repo.path})
		leads = nil
	}
	return repo.write(append(leads, l))
}

func (repo *leadRepository) All() ([]lead.Lead, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	leads, err := repo.read()
	if err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []lead.Lead{}
	}
	return leads, nil
}

func (repo *leadRepository) read() ([]lead.Lead, error) {
	data, err := os.ReadFile(repo.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading lead backup")
	}
	var leads []lead.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, errors.Wrap(ErrCorruptBackup, err.Error())
	}
	return leads, nil
}

func (repo *leadRepository) write(leads []lead.Lead) (err error) {
	data, err := json.MarshalIndent(leads, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding lead backup")
	}

	dir := filepath.Dir(repo.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating lead backup directory")
	}
	tmp, err := os.CreateTemp(dir, "."+LeadsFile+".*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(err, "writing lead backup")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing lead backup")
	}
	if err = os.Rename(tmp.Name(), repo.path); err != nil {
		return errors.Wrap(err, "replacing lead backup")
	}
	return nil
}
