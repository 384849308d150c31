package cli

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"task-dashboard/internal/api"
	"task-dashboard/internal/chart"
	"task-dashboard/internal/domain"
)

// ChartOptions are the chart command flags.
type ChartOptions struct {
	Filter    domain.TaskFilter
	Thickness float64
	SortBy    string
	ColorBy   string
	Width     int
	Example   bool
	// NoColor disables ANSI colours even on a terminal.
	NoColor bool
}

// ChartCommand handles the chart command
type ChartCommand struct {
	api    api.BusinessAPI
	out    io.Writer
	width  int
	layout string
	errors *ErrorHandler
}

// NewChartCommand creates a new chart command handler
func NewChartCommand(app *App, out io.Writer) *ChartCommand {
	return &ChartCommand{
		api:    app.api,
		out:    out,
		width:  app.cfg.Display.ChartWidth,
		layout: app.cfg.Display.DateFormat,
		errors: app.errors,
	}
}

// Execute draws the timeline to the command output
func (c *ChartCommand) Execute(ctx context.Context, opts ChartOptions) error {
	width := opts.Width
	if width == 0 {
		width = c.width
	}
	chartOpts := chart.Options{
		Thickness:  opts.Thickness,
		SortBy:     opts.SortBy,
		ColorBy:    opts.ColorBy,
		Width:      width,
		DateFormat: c.layout,
		Color:      !opts.NoColor && isTerminal(c.out),
	}

	var err error
	if opts.Example {
		err = c.api.RenderExampleChart(c.out, chartOpts)
	} else {
		err = c.api.RenderChart(ctx, c.out, opts.Filter, chartOpts)
	}
	if err != nil {
		return c.errors.Handle("draw chart", err)
	}
	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
