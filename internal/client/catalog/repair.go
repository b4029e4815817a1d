package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/machinecal/internal/client/models"
)

// Repair returns a copy of machines that passes ReplaceAll, along with one
// note per corrected field. It is applied to collections read back from
// storage, which may predate the current validation rules:
//   - a missing, negative or duplicate id gets a fresh one
//   - the rating is clamped to 0..MaxRating
//   - unknown status and difficulty fall back to the add-form defaults
//   - an unknown os becomes OSOther
//   - an unparsable date is cleared
//   - blank concepts are dropped
func Repair(machines []models.Machine, now time.Time) ([]models.Machine, []string) {
	out := cloneMachines(machines)
	var notes []string
	note := func(i int, format string, args ...any) {
		notes = append(notes, fmt.Sprintf("machine #%d (%q): ", i+1, out[i].Name)+fmt.Sprintf(format, args...))
	}

	seen := make(map[int64]struct{}, len(out))
	var needID []int
	for i := range out {
		m := &out[i]

		if _, dup := seen[m.ID]; m.ID <= 0 || dup {
			needID = append(needID, i)
		} else {
			seen[m.ID] = struct{}{}
		}

		if r := clampRating(m.Rating); r != m.Rating {
			note(i, "rating %d clamped to %d", m.Rating, r)
			m.Rating = r
		}
		if !m.Status.IsValid() {
			note(i, "unknown status %q replaced by %q", m.Status, DefaultStatus)
			m.Status = DefaultStatus
		}
		if !m.Difficulty.IsValid() {
			note(i, "unknown difficulty %q replaced by %q", m.Difficulty, DefaultDifficulty)
			m.Difficulty = DefaultDifficulty
		}
		if !m.OS.IsValid() {
			note(i, "unknown os %q replaced by %q", m.OS, models.OSOther)
			m.OS = models.OSOther
		}
		if m.Date != "" {
			if _, err := time.Parse(models.DateLayout, m.Date); err != nil {
				note(i, "unparsable date %q cleared", m.Date)
				m.Date = ""
			}
		}

		concepts := make([]string, 0, len(m.Concepts))
		for _, c := range m.Concepts {
			if c = strings.TrimSpace(c); c != "" {
				concepts = append(concepts, c)
			}
		}
		if len(concepts) != len(m.Concepts) {
			note(i, "%d blank concepts dropped", len(m.Concepts)-len(concepts))
		}
		m.Concepts = concepts
	}

	for _, i := range needID {
		id := nextID(out, now)
		note(i, "id %d replaced by %d", out[i].ID, id)
		out[i].ID = id
	}
	return out, notes
}
