package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/machinecal/internal/client/models"
	"github.com/dmitrijs2005/machinecal/internal/common"
)

// Form holds the editable field values of the add and edit flows.
// Concepts is the comma-separated text the user typed.
type Form struct {
	Name        string
	Platform    string
	Date        string
	Difficulty  models.Difficulty
	OS          models.OS
	Status      models.Status
	Description string
	Concepts    string
	Opinion     string
}

// Create validates the form and inserts a new machine at the front of the
// collection. An empty name leaves the state unchanged.
func Create(st State, f Form, now time.Time) (State, models.Machine, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return st, models.Machine{}, common.NewValidationError("name", "is required")
	}

	m := models.Machine{
		ID:          nextID(st.Machines, now),
		Name:        name,
		Platform:    strings.TrimSpace(f.Platform),
		Date:        strings.TrimSpace(f.Date),
		Difficulty:  f.Difficulty,
		OS:          f.OS,
		Status:      f.Status,
		Description: strings.TrimSpace(f.Description),
		Concepts:    models.ParseConcepts(f.Concepts),
		CreatedAt:   now.UnixMilli(),
	}
	if m.Date == "" {
		m.Date = now.Format(models.DateLayout)
	}
	if m.Difficulty == "" {
		m.Difficulty = DefaultDifficulty
	}
	if m.OS == "" {
		m.OS = DefaultOS
	}
	if m.Status == "" {
		m.Status = DefaultStatus
	}
	if err := m.Validate(); err != nil {
		return st, models.Machine{}, err
	}

	next := st.clone()
	next.Machines = append([]models.Machine{m.Clone()}, next.Machines...)
	return next, m, nil
}

// Update overwrites the mutable fields of the machine with the given id.
// Name, platform, id and creation time are kept. An unknown id is a no-op.
func Update(st State, id int64, f Form, rating int) (State, error) {
	i := st.indexOf(id)
	if i < 0 {
		return st, nil
	}

	m := st.Machines[i].Clone()
	m.Difficulty = f.Difficulty
	m.OS = f.OS
	m.Date = strings.TrimSpace(f.Date)
	m.Status = f.Status
	m.Description = strings.TrimSpace(f.Description)
	m.Concepts = models.ParseConcepts(f.Concepts)
	m.Opinion = strings.TrimSpace(f.Opinion)
	m.Rating = rating
	if err := m.Validate(); err != nil {
		return st, err
	}

	next := st.clone()
	next.Machines[i] = m
	return next, nil
}

// Delete removes the machine with the given id, if present.
func Delete(st State, id int64) State {
	i := st.indexOf(id)
	if i < 0 {
		return st
	}
	next := st.clone()
	next.Machines = append(next.Machines[:i], next.Machines[i+1:]...)
	if next.EditingID == id {
		next = CloseEdit(next)
	}
	return next
}

// ReplaceAll installs machines verbatim, keeping their order. Every element
// must pass validation and ids must be unique, otherwise the state is left
// untouched.
func ReplaceAll(st State, machines []models.Machine) (State, error) {
	seen := make(map[int64]struct{}, len(machines))
	for i, m := range machines {
		if err := m.Validate(); err != nil {
			return st, fmt.Errorf("machine #%d (%q): %w", i+1, m.Name, err)
		}
		if _, dup := seen[m.ID]; dup {
			return st, fmt.Errorf("machine #%d (%q): %w", i+1, m.Name,
				common.NewValidationError("id", fmt.Sprintf("duplicate id %d", m.ID)))
		}
		seen[m.ID] = struct{}{}
	}

	next := st.clone()
	next.Machines = cloneMachines(machines)
	for i := range next.Machines {
		if next.Machines[i].Concepts == nil {
			next.Machines[i].Concepts = []string{}
		}
	}
	return CloseEdit(next), nil
}

// Clear empties the collection.
func Clear(st State) State {
	next := st.clone()
	next.Machines = []models.Machine{}
	return CloseEdit(next)
}

// nextID derives an id from the clock, bumped past every existing id so it
// stays unique even for entries created within the same millisecond.
func nextID(existing []models.Machine, now time.Time) int64 {
	id := now.UnixMilli()
	for _, m := range existing {
		if m.ID >= id {
			id = m.ID + 1
		}
	}
	return id
}
