package catalog

import (
	"github.com/dmitrijs2005/machinecal/internal/client/models"
)

// Dialogs records which modal forms are open.
type Dialogs struct {
	Add      bool
	Edit     bool
	Settings bool
}

// Any reports whether at least one dialog is open.
func (d Dialogs) Any() bool {
	return d.Add || d.Edit || d.Settings
}

// State is the whole mutable state of a running catalog session.
type State struct {
	// Machines is ordered newest first.
	Machines []models.Machine
	Filter   models.Filter
	Search   string
	Dialogs  Dialogs

	// EditingID is the machine selected in the edit flow, 0 when none.
	EditingID int64
	// Rating is the star rating being edited, applied on SaveEdit.
	Rating int

	SearchFocused bool
}

// NewState returns a State holding a copy of machines with no filter, no
// search and every dialog closed.
func NewState(machines []models.Machine) State {
	return State{
		Machines: cloneMachines(machines),
		Filter:   models.FilterAll,
	}
}

// Find returns a copy of the machine with the given id.
func (s State) Find(id int64) (models.Machine, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Machines[i].Clone(), true
	}
	return models.Machine{}, false
}

// Len is the number of machines in the collection.
func (s State) Len() int { return len(s.Machines) }

func (s State) indexOf(id int64) int {
	for i := range s.Machines {
		if s.Machines[i].ID == id {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	c := s
	c.Machines = cloneMachines(s.Machines)
	return c
}

func cloneMachines(in []models.Machine) []models.Machine {
	out := make([]models.Machine, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
