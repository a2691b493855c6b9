package inmemdb

import (
	"sync"

	"github.com/trezcool/gradespark/core/lead"
)

type (
	DB struct {
		lead *leadTable
	}

	leadTable struct {
		sync.RWMutex
		table []lead.Lead
	}
)

func Open() (*DB, error) {
	db := &DB{
		lead: &leadTable{table: make([]lead.Lead, 0)},
	}
	return db, nil
}
