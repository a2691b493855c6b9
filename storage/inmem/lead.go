package inmemdb

import (
	"github.com/trezcool/gradespark/core/lead"
)

type leadRepository struct {
	db *leadTable
}

func NewLeadRepository(db *DB) lead.Repository {
	return &leadRepository{db: db.lead}
}

func (repo *leadRepository) Append(l lead.Lead) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table = append(repo.db.table, l)
	return nil
}

func (repo *leadRepository) All() ([]lead.Lead, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	leads := make([]lead.Lead, len(repo.db.table))
	copy(leads, repo.db.table)
	return leads, nil
}
