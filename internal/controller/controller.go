// Package controller is the registration page's behaviour: form validation,
// the traveler table, spreadsheet export, backup download and the status
// label. Every collaborator is injected, so the same controller runs behind
// a browser binding, the travelerctl CLI or a test.
//
// Operations are independent. A failure in one is logged to the diagnostic
// logger and returned, and never changes what another operation sees.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkordes/traveler-registration/internal/client"
	"github.com/pkordes/traveler-registration/internal/domain"
	"github.com/pkordes/traveler-registration/internal/export"
	"github.com/pkordes/traveler-registration/internal/form"
	"github.com/pkordes/traveler-registration/internal/grid"
)

// StatusLabel is the fixed text of the status indicator.
const StatusLabel = "Local Mode"

// NoDataMessage is shown when an export finds nothing to write.
const NoDataMessage = "No data to export"

// ErrNoData is returned by Export when the collection is empty.
var ErrNoData = errors.New("no data to export")

// ErrInvalidForm is returned by Submit when validation fails.
var ErrInvalidForm = errors.New("form is invalid")

// Fetcher retrieves the full traveler collection.
type Fetcher interface {
	Travelers(ctx context.Context) ([]domain.TravelerRow, error)
}

// Navigator performs a full-page navigation and reports the name of any
// file the navigation downloaded.
type Navigator interface {
	Navigate(ctx context.Context, path string) (string, error)
}

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(msg string)
}

// StatusIndicator is the connection status badge.
type StatusIndicator interface {
	SetOnline(label string)
}

// Deps are the controller's collaborators. Log defaults to slog.Default().
type Deps struct {
	Fetcher   Fetcher
	Navigator Navigator
	Saver     client.Saver
	Notifier  Notifier
	Status    StatusIndicator
	Table     grid.View
	Log       *slog.Logger
}

// Controller wires the page's independent handlers to their collaborators.
type Controller struct {
	deps Deps
	grid *grid.Grid
	log  *slog.Logger
}

// New constructs a Controller with an empty grid.
func New(d Deps) *Controller {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return &Controller{deps: d, grid: grid.New(), log: log}
}

// Grid exposes the table state for searching and paging.
func (c *Controller) Grid() *grid.Grid {
	return c.grid
}

// Init runs once when the page is ready. The status badge is set
// unconditionally; no connectivity check is made.
func (c *Controller) Init() {
	c.deps.Status.SetOnline(StatusLabel)
}

// Submit validates el and, only if every field passes, calls send.
func (c *Controller) Submit(ctx context.Context, el form.Elements, send func(context.Context) error) error {
	if !form.Validate(el) {
		return ErrInvalidForm
	}
	if err := send(ctx); err != nil {
		c.log.ErrorContext(ctx, "error submitting traveler", "error", err)
		return fmt.Errorf("controller.Submit: %w", err)
	}
	return nil
}

// Load performs the initial table fetch and draws the result.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.reload(ctx); err != nil {
		c.log.ErrorContext(ctx, "error loading travelers", "error", err)
		c.grid.Render(c.deps.Table)
		return fmt.Errorf("controller.Load: %w", err)
	}
	return nil
}

// Refresh re-fetches the collection and replaces every row. On failure the
// table keeps its previous contents.
func (c *Controller) Refresh(ctx context.Context) error {
	if err := c.reload(ctx); err != nil {
		c.log.ErrorContext(ctx, "error refreshing data", "error", err)
		return fmt.Errorf("controller.Refresh: %w", err)
	}
	return nil
}

func (c *Controller) reload(ctx context.Context) error {
	rows, err := c.deps.Fetcher.Travelers(ctx)
	if err != nil {
		return err
	}
	c.grid.Replace(rows)
	c.grid.Render(c.deps.Table)
	return nil
}

// Export fetches a fresh copy of the collection, builds the workbook and
// saves it as travelers_data.xlsx. The table's rows are never reused.
// An empty collection notifies the user and returns ErrNoData without
// producing a file.
func (c *Controller) Export(ctx context.Context) (string, error) {
	return c.ExportAs(ctx, export.FormatXLSX)
}

// ExportAs is Export for any supported file format.
func (c *Controller) ExportAs(ctx context.Context, f export.Format) (string, error) {
	rows, err := c.deps.Fetcher.Travelers(ctx)
	if err != nil {
		c.log.ErrorContext(ctx, "error exporting data", "error", err)
		return "", fmt.Errorf("controller.Export: %w", err)
	}
	if len(rows) == 0 {
		c.deps.Notifier.Notify(NoDataMessage)
		return "", ErrNoData
	}

	data, err := f.Encode(rows)
	if err != nil {
		c.log.ErrorContext(ctx, "error exporting data", "error", err)
		return "", fmt.Errorf("controller.Export: %w", err)
	}
	name := f.FileName()
	if err := c.deps.Saver.Save(name, data); err != nil {
		c.log.ErrorContext(ctx, "error exporting data", "error", err)
		return "", fmt.Errorf("controller.Export: %w", err)
	}
	c.log.InfoContext(ctx, "export saved", "file", name, "rows", len(rows))
	return name, nil
}

// Backup navigates to the backup endpoint. Whatever the server sends is
// handled by the navigator; nothing is validated or retried here.
func (c *Controller) Backup(ctx context.Context) (string, error) {
	return c.deps.Navigator.Navigate(ctx, client.PathBackup)
}
