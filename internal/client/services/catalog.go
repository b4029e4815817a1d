// Package services wires the pure catalog operations to persistence, file
// transfer and user confirmations.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/machinecal/internal/client/catalog"
	"github.com/dmitrijs2005/machinecal/internal/client/models"
	"github.com/dmitrijs2005/machinecal/internal/client/storage"
	"github.com/dmitrijs2005/machinecal/internal/client/transfer"
	"github.com/dmitrijs2005/machinecal/internal/client/view"
	"github.com/dmitrijs2005/machinecal/internal/common"
	"github.com/dmitrijs2005/machinecal/internal/logging"
)

// Store persists the whole collection. *storage.Adapter implements it.
type Store interface {
	Save(ctx context.Context, machines []models.Machine) error
	Load(ctx context.Context) ([]models.Machine, error)
	Info(ctx context.Context) (storage.Info, error)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, question string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, question string) (bool, error) {
	return f(ctx, question)
}

// SettingsInfo is shown in the settings panel.
type SettingsInfo struct {
	Total   int
	SizeKB  float64
	SavedAt time.Time
}

type CatalogService interface {
	Load(ctx context.Context) error
	State() catalog.State
	View() (view.Result, view.Stats)

	OpenAdd() catalog.Form
	CloseAdd()
	Create(ctx context.Context, f catalog.Form) (models.Machine, error)

	OpenEdit(id int64) (catalog.Form, error)
	SetRating(r int)
	CloseEdit()
	SaveEdit(ctx context.Context, f catalog.Form) error
	DeleteEditing(ctx context.Context) error
	Delete(ctx context.Context, id int64) error

	SetFilter(f models.Filter) error
	SetSearch(term string)
	HandleKey(k catalog.Key) bool

	Export(ctx context.Context, dir string) (string, error)
	Import(ctx context.Context, path string, c Confirmer) (int, error)
	DeleteAll(ctx context.Context, c Confirmer) error
	Settings(ctx context.Context) (SettingsInfo, error)
}

type catalogService struct {
	store  Store
	logger logging.Logger
	state  catalog.State
	now    func() time.Time
}

func NewCatalogService(store Store, logger logging.Logger) CatalogService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &catalogService{
		store:  store,
		logger: logger,
		state:  catalog.NewState(nil),
		now:    time.Now,
	}
}

func (s *catalogService) Load(ctx context.Context) error {
	machines, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	repaired, notes := catalog.Repair(machines, s.now())
	for _, n := range notes {
		s.logger.Warn(ctx, "stored machine repaired", "detail", n)
	}

	next, err := catalog.ReplaceAll(s.state, repaired)
	if err != nil {
		return fmt.Errorf("install stored collection: %w", err)
	}
	s.state = next

	s.logger.Info(ctx, "collection loaded", "count", s.state.Len())
	return nil
}

func (s *catalogService) State() catalog.State {
	return s.state
}

func (s *catalogService) View() (view.Result, view.Stats) {
	return view.Render(s.state.Machines, s.state.Filter, s.state.Search), view.Summarize(s.state.Machines)
}

// persist writes the current collection. The in-memory state stays
// authoritative when the write fails.
func (s *catalogService) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.state.Machines); err != nil {
		s.logger.Warn(ctx, "change kept in memory only", "error", err)
		return err
	}
	return nil
}

func (s *catalogService) OpenAdd() catalog.Form {
	var f catalog.Form
	s.state, f = catalog.OpenAdd(s.state, s.now())
	return f
}

func (s *catalogService) CloseAdd() {
	s.state = catalog.CloseAdd(s.state)
}

func (s *catalogService) Create(ctx context.Context, f catalog.Form) (models.Machine, error) {
	next, m, err := catalog.Create(s.state, f, s.now())
	if err != nil {
		return models.Machine{}, err
	}
	s.state = catalog.CloseAdd(next)

	s.logger.Info(ctx, "machine created", "machine_id", m.ID, "name", m.Name)
	return m, s.persist(ctx)
}

func (s *catalogService) OpenEdit(id int64) (catalog.Form, error) {
	next, f, err := catalog.OpenEdit(s.state, id)
	if err != nil {
		return catalog.Form{}, err
	}
	s.state = next
	return f, nil
}

func (s *catalogService) SetRating(r int) {
	s.state = catalog.SetRating(s.state, r)
}

func (s *catalogService) CloseEdit() {
	s.state = catalog.CloseEdit(s.state)
}

func (s *catalogService) SaveEdit(ctx context.Context, f catalog.Form) error {
	id := s.state.EditingID
	next, err := catalog.SaveEdit(s.state, f)
	if err != nil {
		s.state = next
		return err
	}
	s.state = next

	s.logger.Info(ctx, "machine updated", "machine_id", id)
	return s.persist(ctx)
}

func (s *catalogService) DeleteEditing(ctx context.Context) error {
	id := s.state.EditingID
	if id == 0 {
		return common.ErrNotFound
	}
	s.state = catalog.DeleteEditing(s.state)

	s.logger.Info(ctx, "machine deleted", "machine_id", id)
	return s.persist(ctx)
}

func (s *catalogService) Delete(ctx context.Context, id int64) error {
	if _, ok := s.state.Find(id); !ok {
		return common.ErrNotFound
	}
	s.state = catalog.Delete(s.state, id)

	s.logger.Info(ctx, "machine deleted", "machine_id", id)
	return s.persist(ctx)
}

func (s *catalogService) SetFilter(f models.Filter) error {
	next, err := catalog.SetFilter(s.state, f)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *catalogService) SetSearch(term string) {
	s.state = catalog.SetSearch(s.state, term)
}

func (s *catalogService) HandleKey(k catalog.Key) bool {
	next, handled := catalog.HandleKey(s.state, k)
	s.state = next
	return handled
}

func (s *catalogService) Export(ctx context.Context, dir string) (string, error) {
	path, err := transfer.Export(ctx, dir, s.state.Machines, s.now())
	if err != nil {
		return "", err
	}
	s.logger.Info(ctx, "collection exported", "path", path, "count", s.state.Len())
	return path, nil
}

// ImportQuestion is the overwrite confirmation shown before an import.
func ImportQuestion(current, incoming int) string {
	return fmt.Sprintf("This will replace your %d current machines with %d machines from the file.", current, incoming)
}

// Import replaces the collection with the machines in the file at path after
// the user confirms. Nothing changes on any failure or refusal.
func (s *catalogService) Import(ctx context.Context, path string, c Confirmer) (int, error) {
	incoming, err := transfer.Load(ctx, path)
	if err != nil {
		return 0, err
	}

	next, err := catalog.ReplaceAll(s.state, incoming)
	if err != nil {
		return 0, &common.ImportFormatError{Reason: "invalid machine", Err: err}
	}

	ok, err := c.Confirm(ctx, ImportQuestion(s.state.Len(), len(incoming)))
	if err != nil {
		return 0, fmt.Errorf("confirm import: %w", err)
	}
	if !ok {
		return 0, common.ErrCancelled
	}

	s.state = next
	s.logger.Info(ctx, "collection imported", "path", path, "count", len(incoming))
	return len(incoming), s.persist(ctx)
}

// Delete-all confirmation questions, asked in order.
const (
	DeleteAllQuestion     = "Delete ALL %d machines? This cannot be undone."
	DeleteAllLastQuestion = "Are you absolutely sure? Consider exporting a backup first."
)

func (s *catalogService) DeleteAll(ctx context.Context, c Confirmer) error {
	if s.state.Len() == 0 {
		return common.ErrNothingToDelete
	}

	for _, q := range []string{fmt.Sprintf(DeleteAllQuestion, s.state.Len()), DeleteAllLastQuestion} {
		ok, err := c.Confirm(ctx, q)
		if err != nil {
			return fmt.Errorf("confirm delete all: %w", err)
		}
		if !ok {
			return common.ErrCancelled
		}
	}

	n := s.state.Len()
	s.state = catalog.Clear(s.state)
	s.logger.Info(ctx, "collection cleared", "count", n)
	return s.persist(ctx)
}

func (s *catalogService) Settings(ctx context.Context) (SettingsInfo, error) {
	s.state = catalog.OpenSettings(s.state)

	info := SettingsInfo{Total: s.state.Len()}
	stored, err := s.store.Info(ctx)
	if err != nil {
		var se *common.StorageError
		if !errors.As(err, &se) {
			err = &common.StorageError{Op: "info", Err: err}
		}
		return info, err
	}
	info.SizeKB = float64(stored.SizeBytes) / 1024
	info.SavedAt = stored.SavedAt
	return info, nil
}
