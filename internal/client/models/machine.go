// Package models defines the Machine entity tracked by the catalog and its
// closed enumerations.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/machinecal/internal/common"
)

// DateLayout is the calendar date format stored in Machine.Date.
const DateLayout = "2006-01-02"

// MaxRating is the highest star rating a machine can carry.
const MaxRating = 5

// Status is the lifecycle stage of a machine.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusPwned      Status = "pwned"
)

// Statuses lists every valid Status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusPwned}

func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label is the badge text shown on a card. Unknown values are shown raw.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "⏳ Pending"
	case StatusInProgress:
		return "🔄 In Progress"
	case StatusPwned:
		return "✅ Pwned"
	default:
		return string(s)
	}
}

// Difficulty is the advertised difficulty of a machine.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
	DifficultyInsane Difficulty = "Insane"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyInsane}

func (d Difficulty) IsValid() bool {
	for _, v := range Difficulties {
		if d == v {
			return true
		}
	}
	return false
}

func (d Difficulty) Icon() string {
	switch d {
	case DifficultyEasy:
		return "🟢"
	case DifficultyMedium:
		return "🟡"
	case DifficultyHard:
		return "🔴"
	case DifficultyInsane:
		return "⚫"
	default:
		return "⚪"
	}
}

// OS is the operating system family of a machine. "Otros" covers everything
// that is neither Linux nor Windows.
type OS string

const (
	OSLinux   OS = "Linux"
	OSWindows OS = "Windows"
	OSOther   OS = "Otros"
)

var OSes = []OS{OSLinux, OSWindows, OSOther}

func (o OS) IsValid() bool {
	for _, v := range OSes {
		if o == v {
			return true
		}
	}
	return false
}

func (o OS) Icon() string {
	switch o {
	case OSLinux:
		return "🐧"
	case OSWindows:
		return "🪟"
	case OSOther:
		return "🔧"
	default:
		return "💻"
	}
}

// Machine is one tracked exercise. The JSON shape is the persisted and
// exported format; field names must not change.
type Machine struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Platform    string     `json:"platform"`
	Date        string     `json:"date"`
	Difficulty  Difficulty `json:"difficulty"`
	OS          OS         `json:"os"`
	Status      Status     `json:"status"`
	Description string     `json:"description"`
	Concepts    []string   `json:"concepts"`
	Rating      int        `json:"rating"`
	Opinion     string     `json:"opinion"`
	CreatedAt   int64      `json:"createdAt"`
}

// Clone returns a copy that shares no slice memory with m.
func (m Machine) Clone() Machine {
	c := m
	c.Concepts = append(make([]string, 0, len(m.Concepts)), m.Concepts...)
	return c
}

// Validate checks the id, the closed enumerations, the rating range, the
// date format and the concept list.
func (m Machine) Validate() error {
	if m.ID <= 0 {
		return common.NewValidationError("id", fmt.Sprintf("must be positive, got %d", m.ID))
	}
	if !m.Status.IsValid() {
		return common.NewValidationError("status", fmt.Sprintf("unknown value %q", m.Status))
	}
	if !m.Difficulty.IsValid() {
		return common.NewValidationError("difficulty", fmt.Sprintf("unknown value %q", m.Difficulty))
	}
	if !m.OS.IsValid() {
		return common.NewValidationError("os", fmt.Sprintf("unknown value %q", m.OS))
	}
	if m.Rating < 0 || m.Rating > MaxRating {
		return common.NewValidationError("rating", fmt.Sprintf("must be between 0 and %d, got %d", MaxRating, m.Rating))
	}
	if m.Date != "" {
		if _, err := time.Parse(DateLayout, m.Date); err != nil {
			return common.NewValidationError("date", fmt.Sprintf("must be YYYY-MM-DD, got %q", m.Date))
		}
	}
	for _, c := range m.Concepts {
		if strings.TrimSpace(c) == "" {
			return common.NewValidationError("concepts", "must not contain empty entries")
		}
	}
	return nil
}

// ParseConcepts splits comma-separated user input into trimmed, non-empty
// tags. The result is never nil so it always encodes as a JSON array.
func ParseConcepts(text string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(text, ",") {
		if c := strings.TrimSpace(part); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// JoinConcepts rebuilds the editable text form of a concept list.
func JoinConcepts(concepts []string) string {
	return strings.Join(concepts, ", ")
}

// FormatDate renders a stored date as "02 Jan 2006", or "No date" when empty.
// Unparsable values are returned unchanged.
func FormatDate(date string) string {
	if date == "" {
		return "No date"
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02 Jan 2006")
}
