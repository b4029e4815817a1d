package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/machinecal/internal/client/catalog"
	"github.com/dmitrijs2005/machinecal/internal/client/models"
)

func statusOptions() []string {
	out := make([]string, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		out = append(out, string(s))
	}
	return out
}

func difficultyOptions() []string {
	out := make([]string, 0, len(models.Difficulties))
	for _, d := range models.Difficulties {
		out = append(out, string(d))
	}
	return out
}

func osOptions() []string {
	out := make([]string, 0, len(models.OSes))
	for _, o := range models.OSes {
		out = append(out, string(o))
	}
	return out
}

// Add runs the add form.
func (a *App) Add(ctx context.Context) error {
	f := a.svc.OpenAdd()

	err := a.fillAdd(&f)
	if errors.Is(err, errEscape) {
		a.escape()
		return nil
	}
	if err != nil {
		a.svc.CloseAdd()
		return err
	}

	m, err := a.svc.Create(ctx, f)
	if err != nil && m.ID == 0 {
		a.svc.CloseAdd()
		return err
	}
	a.printf("✅ Added %s (#%d)\n", m.Name, m.ID)
	return err
}

func (a *App) fillAdd(f *catalog.Form) error {
	var err error
	sc, w := a.scanner, a.out

	if f.Name, err = GetWithDefault(sc, "Name", "", w); err != nil {
		return err
	}
	if f.Platform, err = GetWithDefault(sc, "Platform", f.Platform, w); err != nil {
		return err
	}
	if f.Date, err = GetWithDefault(sc, "Date (YYYY-MM-DD)", f.Date, w); err != nil {
		return err
	}

	v, err := GetChoice(sc, "Difficulty", difficultyOptions(), string(f.Difficulty), w)
	if err != nil {
		return err
	}
	f.Difficulty = models.Difficulty(v)

	if v, err = GetChoice(sc, "OS", osOptions(), string(f.OS), w); err != nil {
		return err
	}
	f.OS = models.OS(v)

	if v, err = GetChoice(sc, "Status", statusOptions(), string(f.Status), w); err != nil {
		return err
	}
	f.Status = models.Status(v)

	if f.Description, err = GetWithDefault(sc, "Description", "", w); err != nil {
		return err
	}
	if f.Concepts, err = GetWithDefault(sc, "Concepts (comma-separated)", "", w); err != nil {
		return err
	}
	return nil
}
