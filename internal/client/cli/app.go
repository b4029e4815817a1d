package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/machinecal/internal/client/catalog"
	"github.com/dmitrijs2005/machinecal/internal/client/client"
	"github.com/dmitrijs2005/machinecal/internal/client/config"
	"github.com/dmitrijs2005/machinecal/internal/client/models"
	"github.com/dmitrijs2005/machinecal/internal/client/services"
	"github.com/dmitrijs2005/machinecal/internal/client/storage"
	"github.com/dmitrijs2005/machinecal/internal/client/view"
	"github.com/dmitrijs2005/machinecal/internal/logging"
)

type App struct {
	config  *config.Config
	svc     services.CatalogService
	logger  logging.Logger
	scanner *bufio.Scanner
	out     io.Writer
	text    *view.TextRenderer
	db      *sql.DB
}

// NewApp opens the database named in c, loads the collection and returns an
// App reading commands from in and writing to out.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	svc := services.NewCatalogService(storage.NewAdapter(db, c.StorageKey, logger), logger)
	if err := svc.Load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(c, svc, logger, in, out)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, svc services.CatalogService, logger logging.Logger, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	return &App{
		config:  c,
		svc:     svc,
		logger:  logger,
		scanner: bufio.NewScanner(in),
		out:     out,
		text:    view.NewTextRenderer(out, c.Color),
	}
}

// Service exposes the catalog service for one-shot commands.
func (a *App) Service() services.CatalogService { return a.svc }

// Close releases the database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to machinecal (type 'help' for commands)")
	if err := a.List(ctx); err != nil {
		printlnFn(Notice(err))
	}
	runREPL(ctx, a, a.status, a.scanner)
}

// status is shown in the prompt: the active filter, then the search term.
func (a *App) status() string {
	st := a.svc.State()
	s := "(" + string(st.Filter)
	if st.Search != "" {
		s += fmt.Sprintf(" %q", st.Search)
	}
	return s + ")"
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// confirmer asks questions on the App's input.
func (a *App) confirmer() services.Confirmer {
	return services.ConfirmFunc(func(_ context.Context, q string) (bool, error) {
		return Confirm(a.scanner, "⚠️ "+q, a.out)
	})
}

// escape closes every open form the way the Escape key does.
func (a *App) escape() {
	a.svc.HandleKey(catalog.Key{Name: "escape"})
	a.printf("Closed.\n")
}

// Key handles a keyboard chord typed as a command.
func (a *App) Key(ctx context.Context, chord string) error {
	if !a.svc.HandleKey(catalog.ParseKey(chord)) {
		return errUsage("esc | ctrl+k")
	}
	if !a.svc.State().SearchFocused {
		a.printf("Closed.\n")
		return nil
	}

	term, err := GetSimpleText(a.scanner, "Search", a.out)
	if err != nil {
		return err
	}
	return a.Search(ctx, strings.Fields(term))
}

// Filter activates a status filter.
func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("filter <all|pending|in-progress|pwned>")
	}
	f, err := models.ParseFilter(args[0])
	if err != nil {
		return err
	}
	if err := a.svc.SetFilter(f); err != nil {
		return err
	}
	return a.List(ctx)
}

// Search sets the search term; no arguments clears it.
func (a *App) Search(ctx context.Context, args []string) error {
	a.svc.SetSearch(strings.Join(args, " "))
	return a.List(ctx)
}

// List prints the stats and the cards passing the filter and search.
func (a *App) List(_ context.Context) error {
	res, stats := a.svc.View()
	return a.text.Write(res, stats)
}
