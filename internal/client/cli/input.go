package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// errEscape is returned by the prompt helpers when the user types "esc".
var errEscape = errors.New("escape")

// GetSimpleText prints a prompt to w and reads a single line of input from sc.
// Surrounding whitespace is trimmed. io.EOF is returned when input ends.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(sc *bufio.Scanner, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(sc.Text()), nil
}

// GetWithDefault prompts with the current value shown in brackets. An empty
// answer keeps def, "-" clears the value and "esc" aborts the form.
func GetWithDefault(sc *bufio.Scanner, prompt, def string, w io.Writer) (string, error) {
	label := prompt
	if def != "" {
		label = fmt.Sprintf("%s [%s]", prompt, def)
	}
	v, err := GetSimpleText(sc, label, w)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(v) {
	case "":
		return def, nil
	case "-":
		return "", nil
	case "esc", "escape":
		return "", errEscape
	}
	return v, nil
}

// GetChoice prompts for one of options, matched case-insensitively. An empty
// answer keeps def.
func GetChoice(sc *bufio.Scanner, prompt string, options []string, def string, w io.Writer) (string, error) {
	for {
		v, err := GetWithDefault(sc, fmt.Sprintf("%s (%s)", prompt, strings.Join(options, "/")), def, w)
		if err != nil {
			return "", err
		}
		for _, o := range options {
			if strings.EqualFold(v, o) {
				return o, nil
			}
		}
		fmt.Fprintf(w, "Unknown value %q\n", v)
	}
}

// Confirm asks a yes/no question. Anything but y or yes is a refusal.
func Confirm(sc *bufio.Scanner, question string, w io.Writer) (bool, error) {
	v, err := GetSimpleText(sc, question+" [y/N]", w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
