package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/seojin/tapguide/internal/eft"
	"github.com/seojin/tapguide/internal/plan"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Plan represents a stored session plan with its ordered steps.
type Plan struct {
	ID        string
	Title     string
	IntroTip  string
	Steps     []PlanStep
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlanStep is one stored step of a plan.
type PlanStep struct {
	Point       string
	Side        string
	DurationSec int
	Tip         string
}

// SessionPlan converts a stored plan to the validated runtime form.
func (p *Plan) SessionPlan() (*plan.SessionPlan, error) {
	sp := &plan.SessionPlan{
		Title:    p.Title,
		IntroTip: p.IntroTip,
		Steps:    make([]plan.Step, len(p.Steps)),
	}
	for i, s := range p.Steps {
		sp.Steps[i] = plan.Step{
			Point:       eft.TappingPoint(s.Point),
			Side:        eft.Side(s.Side),
			DurationSec: s.DurationSec,
			Tip:         s.Tip,
		}
	}
	if err := sp.Validate(); err != nil {
		return nil, err
	}
	return sp, nil
}

// FromSessionPlan builds a storable plan from the runtime form. The caller
// assigns the ID.
func FromSessionPlan(sp *plan.SessionPlan) *Plan {
	p := &Plan{
		Title:    sp.Title,
		IntroTip: sp.IntroTip,
		Steps:    make([]PlanStep, len(sp.Steps)),
	}
	for i, s := range sp.Steps {
		p.Steps[i] = PlanStep{
			Point:       string(s.Point),
			Side:        string(s.Side),
			DurationSec: s.DurationSec,
			Tip:         s.Tip,
		}
	}
	return p
}

// PlanRepository provides CRUD operations for session plans.
type PlanRepository struct {
	db *sql.DB
}

// Plans returns the plan repository for this store.
func (s *Store) Plans() *PlanRepository {
	return &PlanRepository{db: s.db}
}

// Create inserts a new plan and its steps.
func (r *PlanRepository) Create(p *Plan) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO plans (id, title, intro_tip, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.IntroTip, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertSteps(tx, p.ID, p.Steps); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID retrieves a plan and its steps by ID.
func (r *PlanRepository) GetByID(id string) (*Plan, error) {
	p := &Plan{}

	err := r.db.QueryRow(
		`SELECT id, title, intro_tip, created_at, updated_at
		 FROM plans WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Title, &p.IntroTip, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	steps, err := r.getSteps(id)
	if err != nil {
		return nil, err
	}
	p.Steps = steps

	return p, nil
}

// List retrieves all plans with their steps, newest first.
func (r *PlanRepository) List() ([]*Plan, error) {
	rows, err := r.db.Query(
		`SELECT id, title, intro_tip, created_at, updated_at
		 FROM plans ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*Plan
	for rows.Next() {
		p := &Plan{}
		err := rows.Scan(&p.ID, &p.Title, &p.IntroTip, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range plans {
		steps, err := r.getSteps(p.ID)
		if err != nil {
			return nil, err
		}
		p.Steps = steps
	}

	return plans, nil
}

// Update replaces an existing plan and all of its steps.
func (r *PlanRepository) Update(p *Plan) error {
	p.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE plans SET title = ?, intro_tip = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.IntroTip, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM plan_steps WHERE plan_id = ?`, p.ID); err != nil {
		return err
	}
	if err := insertSteps(tx, p.ID, p.Steps); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a plan; its steps cascade.
func (r *PlanRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the number of stored plans.
func (r *PlanRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM plans`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PlanRepository) getSteps(planID string) ([]PlanStep, error) {
	rows, err := r.db.Query(
		`SELECT point, side, duration_sec, tip
		 FROM plan_steps WHERE plan_id = ? ORDER BY sequence`,
		planID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []PlanStep
	for rows.Next() {
		var s PlanStep
		if err := rows.Scan(&s.Point, &s.Side, &s.DurationSec, &s.Tip); err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}

	return steps, rows.Err()
}

func insertSteps(tx *sql.Tx, planID string, steps []PlanStep) error {
	for i, s := range steps {
		_, err := tx.Exec(
			`INSERT INTO plan_steps (plan_id, sequence, point, side, duration_sec, tip)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			planID, i, s.Point, s.Side, s.DurationSec, s.Tip,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
