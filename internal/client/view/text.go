package view

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color modes accepted by NewTextRenderer.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const (
	cardWidth    = 38
	defaultWidth = 80
)

var (
	green  = lipgloss.Color("#9FEF00")
	muted  = lipgloss.Color("#A4B1CD")
	yellow = lipgloss.Color("#FFAF00")
	blue   = lipgloss.Color("#2196F3")
	red    = lipgloss.Color("#FF3E3E")
)

type textStyles struct {
	card     lipgloss.Style
	name     lipgloss.Style
	muted    lipgloss.Style
	tag      lipgloss.Style
	starOn   lipgloss.Style
	starOff  lipgloss.Style
	header   lipgloss.Style
	empty    lipgloss.Style
	unknown  lipgloss.Style
	statuses map[string]lipgloss.Style
}

// TextRenderer lays cards out as bordered boxes for a terminal.
type TextRenderer struct {
	w      io.Writer
	width  int
	styles textStyles
}

// NewTextRenderer returns a renderer writing to w. In ColorAuto mode colour
// is used only when w is a terminal.
func NewTextRenderer(w io.Writer, color string) *TextRenderer {
	r := lipgloss.NewRenderer(w)
	switch color {
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	}

	return &TextRenderer{
		w:      w,
		width:  terminalWidth(w),
		styles: newTextStyles(r),
	}
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func newTextStyles(r *lipgloss.Renderer) textStyles {
	return textStyles{
		card: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(green).
			Padding(0, 1).
			Width(cardWidth),
		name:    r.NewStyle().Bold(true).Foreground(green),
		muted:   r.NewStyle().Foreground(muted),
		tag:     r.NewStyle().Foreground(green),
		starOn:  r.NewStyle().Foreground(yellow),
		starOff: r.NewStyle().Foreground(muted),
		header:  r.NewStyle().Bold(true),
		empty:   r.NewStyle().Italic(true).Foreground(muted).Padding(1, 2),
		unknown: r.NewStyle().Foreground(red),
		statuses: map[string]lipgloss.Style{
			"status-pending":     r.NewStyle().Foreground(yellow),
			"status-in-progress": r.NewStyle().Foreground(blue),
			"status-pwned":       r.NewStyle().Foreground(green),
		},
	}
}

// Summary renders the stats line.
func (t *TextRenderer) Summary(s Stats) string {
	return t.styles.header.Render(fmt.Sprintf("Total: %d   ✅ Pwned: %d   ⏳ Pending: %d", s.Total, s.Pwned, s.Pending))
}

// Card renders one card box.
func (t *TextRenderer) Card(c Card) string {
	st := t.styles

	status, ok := st.statuses[c.StatusClass]
	if !ok {
		status = st.unknown
	}

	lines := []string{
		st.name.Render(strings.ToUpper(c.Name)) + st.muted.Render(fmt.Sprintf("  #%d", c.ID)),
		st.muted.Render(c.Platform),
		status.Render(c.StatusLabel),
		fmt.Sprintf("%s %s   %s %s", c.DifficultyIcon, c.Difficulty, c.OSIcon, c.OS),
	}
	if c.Description != "" {
		lines = append(lines, st.muted.Render(c.Description))
	}
	if len(c.Concepts) > 0 {
		tags := make([]string, 0, len(c.Concepts)+1)
		for _, concept := range c.Concepts {
			tags = append(tags, st.tag.Render("["+concept+"]"))
		}
		if c.Overflow > 0 {
			tags = append(tags, st.tag.Render(fmt.Sprintf("+%d", c.Overflow)))
		}
		lines = append(lines, strings.Join(tags, " "))
	}
	lines = append(lines, t.stars(c)+"  "+st.muted.Render(c.Date))

	return st.card.Render(strings.Join(lines, "\n"))
}

func (t *TextRenderer) stars(c Card) string {
	var b strings.Builder
	for _, on := range c.Stars {
		if on {
			b.WriteString(t.styles.starOn.Render("★"))
		} else {
			b.WriteString(t.styles.starOff.Render("☆"))
		}
	}
	return b.String()
}

// Page renders the summary followed by the card grid, or the empty-state
// placeholder when nothing matched.
func (t *TextRenderer) Page(res Result, stats Stats) string {
	var b strings.Builder
	b.WriteString(t.Summary(stats))
	b.WriteString("\n")

	if res.Empty {
		b.WriteString(t.styles.empty.Render("No machines to show. Add one with 'add' or change the filter."))
		b.WriteString("\n")
		return b.String()
	}

	perRow := t.width / (cardWidth + 4)
	if perRow < 1 {
		perRow = 1
	}
	for i := 0; i < len(res.Cards); i += perRow {
		end := min(i+perRow, len(res.Cards))
		row := make([]string, 0, end-i)
		for _, c := range res.Cards[i:end] {
			row = append(row, t.Card(c))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}
	return b.String()
}

// Write renders the page to the underlying writer.
func (t *TextRenderer) Write(res Result, stats Stats) error {
	_, err := io.WriteString(t.w, t.Page(res, stats))
	return err
}
