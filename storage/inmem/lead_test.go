package inmemdb

import (
	"sync"
	"testing"

	"github.com/trezcool/gradespark/core/lead"
)

func TestLeadRepository(t *testing.T) {
	db, err := Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	repo := NewLeadRepository(db)

	if leads, _ := repo.All(); len(leads) != 0 {
		t.Fatalf("All() on empty db = %v", leads)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Append(lead.Lead{Email: "ann@school.edu"})
		}()
	}
	wg.Wait()

	leads, err := repo.All()
	if err != nil || len(leads) != 10 {
		t.Fatalf("All() = %d leads, %v; want 10", len(leads), err)
	}

	// All hands out a copy
	leads[0].Email = "changed"
	if again, _ := repo.All(); again[0].Email != "ann@school.edu" {
		t.Error("All() exposed the underlying table")
	}
}
