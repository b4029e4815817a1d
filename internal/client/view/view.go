// Package view derives what the catalog shows from the collection, the
// active status filter and the search term. Render and Summarize are pure;
// TextRenderer and HTMLRenderer lay the result out for a terminal or a page.
package view

import (
	"strings"

	"github.com/dmitrijs2005/machinecal/internal/client/models"
)

// MaxConcepts is the number of concept tags shown on a card.
const MaxConcepts = 3

// DescriptionLimit is the number of runes of description shown on a card.
const DescriptionLimit = 120

// Card is the display form of one machine.
type Card struct {
	ID              int64
	Name            string
	Platform        string
	Status          models.Status
	StatusLabel     string
	StatusClass     string
	Difficulty      models.Difficulty
	DifficultyIcon  string
	DifficultyClass string
	OS              models.OS
	OSIcon          string
	Description     string
	Concepts        []string
	Overflow        int
	Stars           [models.MaxRating]bool
	Date            string
}

// Result is the rendered view. Empty is set when no machine survives the
// filter and search, in which case the empty-state placeholder is shown.
type Result struct {
	Cards []Card
	Empty bool
}

// Stats are the summary counts over the unfiltered collection.
type Stats struct {
	Total   int
	Pwned   int
	Pending int
}

// Select returns the machines that pass the status filter and contain the
// search term, case-insensitively, in the name, a concept or the description.
// Store order is kept.
func Select(machines []models.Machine, filter models.Filter, search string) []models.Machine {
	term := strings.ToLower(search)
	out := make([]models.Machine, 0, len(machines))
	for _, m := range machines {
		if !filter.Matches(m.Status) {
			continue
		}
		if term != "" && !matches(m, term) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matches(m models.Machine, term string) bool {
	if strings.Contains(strings.ToLower(m.Name), term) {
		return true
	}
	for _, c := range m.Concepts {
		if strings.Contains(strings.ToLower(c), term) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(m.Description), term)
}

// Render builds the cards for the machines that pass filter and search.
func Render(machines []models.Machine, filter models.Filter, search string) Result {
	selected := Select(machines, filter, search)
	if len(selected) == 0 {
		return Result{Cards: []Card{}, Empty: true}
	}

	cards := make([]Card, 0, len(selected))
	for _, m := range selected {
		cards = append(cards, NewCard(m))
	}
	return Result{Cards: cards}
}

// NewCard maps one machine to its card.
func NewCard(m models.Machine) Card {
	c := Card{
		ID:              m.ID,
		Name:            m.Name,
		Platform:        m.Platform,
		Status:          m.Status,
		StatusLabel:     m.Status.Label(),
		StatusClass:     "status-" + string(m.Status),
		Difficulty:      m.Difficulty,
		DifficultyIcon:  m.Difficulty.Icon(),
		DifficultyClass: "diff-" + strings.ToLower(string(m.Difficulty)),
		OS:              m.OS,
		OSIcon:          m.OS.Icon(),
		Description:     Truncate(m.Description, DescriptionLimit),
		Date:            models.FormatDate(m.Date),
	}

	n := len(m.Concepts)
	if n > MaxConcepts {
		c.Overflow = n - MaxConcepts
		n = MaxConcepts
	}
	c.Concepts = append(make([]string, 0, n), m.Concepts[:n]...)

	for i := range c.Stars {
		c.Stars[i] = i < m.Rating
	}
	return c
}

// Summarize counts the whole collection regardless of filter or search.
func Summarize(machines []models.Machine) Stats {
	s := Stats{Total: len(machines)}
	for _, m := range machines {
		switch m.Status {
		case models.StatusPwned:
			s.Pwned++
		case models.StatusPending:
			s.Pending++
		}
	}
	return s
}

// Truncate shortens s to at most limit runes, marking the cut with "…".
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimRight(string(r[:limit-1]), " ") + "…"
}
