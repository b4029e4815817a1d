package catalog

import (
	"time"

	"github.com/dmitrijs2005/machinecal/internal/client/models"
	"github.com/dmitrijs2005/machinecal/internal/common"
)

// Add form defaults: the first option of each selector.
const (
	DefaultPlatform   = "HackTheBox"
	DefaultDifficulty = models.DifficultyEasy
	DefaultOS         = models.OSLinux
	DefaultStatus     = models.StatusPending
)

// OpenAdd opens the add dialog with a blank form dated today.
func OpenAdd(st State, now time.Time) (State, Form) {
	next := st.clone()
	next.Dialogs.Add = true
	return next, Form{
		Platform:   DefaultPlatform,
		Date:       now.Format(models.DateLayout),
		Difficulty: DefaultDifficulty,
		OS:         DefaultOS,
		Status:     DefaultStatus,
	}
}

// CloseAdd closes the add dialog.
func CloseAdd(st State) State {
	next := st.clone()
	next.Dialogs.Add = false
	return next
}

// OpenEdit selects the machine with the given id and returns its fields.
func OpenEdit(st State, id int64) (State, Form, error) {
	m, ok := st.Find(id)
	if !ok {
		return st, Form{}, common.ErrNotFound
	}

	next := st.clone()
	next.Dialogs.Edit = true
	next.EditingID = m.ID
	next.Rating = clampRating(m.Rating)

	return next, Form{
		Name:        m.Name,
		Platform:    m.Platform,
		Date:        m.Date,
		Difficulty:  m.Difficulty,
		OS:          m.OS,
		Status:      m.Status,
		Description: m.Description,
		Concepts:    models.JoinConcepts(m.Concepts),
		Opinion:     m.Opinion,
	}, nil
}

// SetRating sets the transient edit rating, clamped to 0..MaxRating.
func SetRating(st State, rating int) State {
	next := st.clone()
	next.Rating = clampRating(rating)
	return next
}

// StarStates marks the stars at index < rating as active.
func StarStates(rating int) [models.MaxRating]bool {
	var stars [models.MaxRating]bool
	for i := range stars {
		stars[i] = i < rating
	}
	return stars
}

// CloseEdit closes the edit dialog and resets the transient selection.
func CloseEdit(st State) State {
	next := st.clone()
	next.Dialogs.Edit = false
	next.EditingID = 0
	next.Rating = 0
	return next
}

// SaveEdit applies the form and the transient rating to the selected machine
// and closes the edit flow. On a validation error the dialog stays open.
func SaveEdit(st State, f Form) (State, error) {
	if st.EditingID == 0 {
		return st, common.ErrNotFound
	}
	if _, ok := st.Find(st.EditingID); !ok {
		return CloseEdit(st), common.ErrNotFound
	}

	next, err := Update(st, st.EditingID, f, st.Rating)
	if err != nil {
		return st, err
	}
	return CloseEdit(next), nil
}

// DeleteEditing removes the selected machine and closes the edit flow.
func DeleteEditing(st State) State {
	if st.EditingID == 0 {
		return st
	}
	return CloseEdit(Delete(st, st.EditingID))
}

// OpenSettings opens the settings dialog.
func OpenSettings(st State) State {
	next := st.clone()
	next.Dialogs.Settings = true
	return next
}

// SetFilter activates the filter named by the control the user picked.
func SetFilter(st State, f models.Filter) (State, error) {
	if f == "" {
		f = models.FilterAll
	}
	if !f.IsValid() {
		return st, common.NewValidationError("filter", "unknown value "+string(f))
	}
	next := st.clone()
	next.Filter = f
	return next, nil
}

// SetSearch replaces the search term.
func SetSearch(st State, term string) State {
	next := st.clone()
	next.Search = term
	next.SearchFocused = false
	return next
}

func clampRating(r int) int {
	switch {
	case r < 0:
		return 0
	case r > models.MaxRating:
		return models.MaxRating
	default:
		return r
	}
}
