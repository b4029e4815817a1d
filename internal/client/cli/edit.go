package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/machinecal/internal/client/catalog"
	"github.com/dmitrijs2005/machinecal/internal/client/models"
	"github.com/dmitrijs2005/machinecal/internal/client/view"
	"github.com/dmitrijs2005/machinecal/internal/common"
)

func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage(usage)
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil {
		return 0, errUsage(usage)
	}
	return id, nil
}

func starString(rating int) string {
	var b strings.Builder
	for _, on := range catalog.StarStates(rating) {
		if on {
			b.WriteString("★")
		} else {
			b.WriteString("☆")
		}
	}
	return b.String()
}

// Edit opens the edit form for a machine, then saves, deletes or cancels.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args, "edit <id>")
	if err != nil {
		return err
	}

	f, err := a.svc.OpenEdit(id)
	if err != nil {
		return err
	}
	m, _ := a.svc.State().Find(id)
	a.printf("%s\n📍 %s\n", a.text.Card(view.NewCard(m)), m.Platform)

	err = a.fillEdit(&f)
	if errors.Is(err, errEscape) {
		a.escape()
		return nil
	}
	if err != nil {
		a.svc.CloseEdit()
		return err
	}

	action, err := GetChoice(a.scanner, "Action", []string{"save", "delete", "cancel"}, "save", a.out)
	if err != nil {
		a.svc.CloseEdit()
		return err
	}

	switch action {
	case "delete":
		ok, err := Confirm(a.scanner, "⚠️ Are you sure you want to delete this machine?", a.out)
		if err != nil || !ok {
			a.svc.CloseEdit()
			if err != nil {
				return err
			}
			return common.ErrCancelled
		}
		err = a.svc.DeleteEditing(ctx)
		a.printf("🗑️ Deleted %s\n", m.Name)
		return err

	case "cancel":
		a.svc.CloseEdit()
		return common.ErrCancelled
	}

	err = a.svc.SaveEdit(ctx, f)
	var ve *common.ValidationError
	if errors.As(err, &ve) || errors.Is(err, common.ErrNotFound) {
		a.svc.CloseEdit()
		return err
	}
	a.printf("✅ Saved %s\n", m.Name)
	return err
}

func (a *App) fillEdit(f *catalog.Form) error {
	var err error
	sc, w := a.scanner, a.out

	v, err := GetChoice(sc, "Difficulty", difficultyOptions(), string(f.Difficulty), w)
	if err != nil {
		return err
	}
	f.Difficulty = models.Difficulty(v)

	if v, err = GetChoice(sc, "OS", osOptions(), string(f.OS), w); err != nil {
		return err
	}
	f.OS = models.OS(v)

	if f.Date, err = GetWithDefault(sc, "Date (YYYY-MM-DD, - for none)", f.Date, w); err != nil {
		return err
	}

	if v, err = GetChoice(sc, "Status", statusOptions(), string(f.Status), w); err != nil {
		return err
	}
	f.Status = models.Status(v)

	if f.Description, err = GetWithDefault(sc, "Description (- to clear)", f.Description, w); err != nil {
		return err
	}
	if f.Concepts, err = GetWithDefault(sc, "Concepts (comma-separated, - to clear)", f.Concepts, w); err != nil {
		return err
	}
	if f.Opinion, err = GetWithDefault(sc, "Opinion (- to clear)", f.Opinion, w); err != nil {
		return err
	}
	return a.promptRating()
}

// promptRating reads the star rating until a number in range is given.
func (a *App) promptRating() error {
	for {
		cur := a.svc.State().Rating
		v, err := GetWithDefault(a.scanner, fmt.Sprintf("Rating 0-%d %s", models.MaxRating, starString(cur)), strconv.Itoa(cur), a.out)
		if err != nil {
			return err
		}
		r, err := strconv.Atoi(v)
		if err != nil || r < 0 || r > models.MaxRating {
			a.printf("Enter a number from 0 to %d\n", models.MaxRating)
			continue
		}
		a.svc.SetRating(r)
		return nil
	}
}

// Delete removes one machine after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete <id>")
	if err != nil {
		return err
	}
	m, ok := a.svc.State().Find(id)
	if !ok {
		return common.ErrNotFound
	}

	ok, err = Confirm(a.scanner, fmt.Sprintf("⚠️ Are you sure you want to delete %s?", m.Name), a.out)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrCancelled
	}

	err = a.svc.Delete(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return err
	}
	a.printf("🗑️ Deleted %s\n", m.Name)
	return err
}
