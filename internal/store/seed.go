package store

import (
	"github.com/google/uuid"

	"github.com/seojin/tapguide/internal/plan"
)

// Seed inserts the built-in sample plan when the database holds no plans yet,
// so a fresh install always has something to run. It returns the ID of the
// seeded plan, or "" when the database was already populated.
func (s *Store) Seed() (string, error) {
	repo := s.Plans()

	n, err := repo.Count()
	if err != nil {
		return "", err
	}
	if n > 0 {
		return "", nil
	}

	p := FromSessionPlan(plan.Sample())
	p.ID = uuid.New().String()
	if err := repo.Create(p); err != nil {
		return "", err
	}

	return p.ID, nil
}
