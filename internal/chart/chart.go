// Package chart draws tasks as a text timeline, one bar per task laid out
// across the overall date span.
package chart

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"task-dashboard/internal/domain"
	apperrors "task-dashboard/internal/errors"
)

// Sort keys.
const (
	SortByStart = "start"
	SortByEnd   = "end"
	SortByName  = "name"
	SortByOwner = "owner"
)

// Grouping keys.
const (
	ColorByOwner  = "owner"
	ColorByPeriod = "period"
)

const (
	DefaultThickness  = 0.3
	DefaultWidth      = 60
	DefaultDateFormat = "02/01/2006"

	minLabelWidth = 5
	maxLabelWidth = 24
)

// Options controls how the timeline is drawn.
type Options struct {
	// Thickness in [0.1, 1.0] picks the bar glyph. Zero means DefaultThickness.
	Thickness float64
	SortBy    string
	ColorBy   string
	// Today places the marker row and classifies periods. Required when
	// ColorBy is ColorByPeriod.
	Today      domain.Date
	Width      int
	DateFormat string
	// Color wraps bars in ANSI colours per group.
	Color bool
}

func (o Options) normalize() (Options, error) {
	if o.Thickness == 0 {
		o.Thickness = DefaultThickness
	}
	if o.Thickness < 0.1 || o.Thickness > 1.0 {
		return o, apperrors.NewInvalidInputError("thickness", o.Thickness, "must be between 0.1 and 1.0")
	}
	switch o.SortBy {
	case "":
		o.SortBy = SortByStart
	case SortByStart, SortByEnd, SortByName, SortByOwner:
	default:
		return o, apperrors.NewInvalidInputError("sort", o.SortBy, "must be one of start, end, name, owner")
	}
	switch o.ColorBy {
	case "":
		o.ColorBy = ColorByOwner
	case ColorByOwner:
	case ColorByPeriod:
		if o.Today.IsZero() {
			return o, apperrors.NewInvalidInputError("today", "", "required to group by period")
		}
	default:
		return o, apperrors.NewInvalidInputError("color", o.ColorBy, "must be owner or period")
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Width < 10 {
		return o, apperrors.NewInvalidInputError("width", o.Width, "must be at least 10")
	}
	if o.DateFormat == "" {
		o.DateFormat = DefaultDateFormat
	}
	return o, nil
}

// Glyph returns the bar glyph for a thickness.
func Glyph(thickness float64) rune {
	switch {
	case thickness < 0.3:
		return '░'
	case thickness < 0.6:
		return '▒'
	case thickness < 0.9:
		return '▓'
	default:
		return '█'
	}
}

// ExampleTasks is the sample data drawn when there is nothing to show.
func ExampleTasks() []domain.Task {
	return []domain.Task{
		{ID: "example-1", Name: "Tarefa 1", Description: "Descrição da tarefa 1",
			StartDate: domain.NewDate(2024, 2, 1), EndDate: domain.NewDate(2024, 2, 10), Owner: "João"},
		{ID: "example-2", Name: "Tarefa 2", Description: "Descrição da tarefa 2",
			StartDate: domain.NewDate(2024, 2, 5), EndDate: domain.NewDate(2024, 2, 15), Owner: "Maria"},
		{ID: "example-3", Name: "Tarefa 3", Description: "Descrição da tarefa 3",
			StartDate: domain.NewDate(2024, 2, 8), EndDate: domain.NewDate(2024, 2, 20), Owner: "João"},
	}
}

// Render writes the timeline for tasks to w. An empty task list draws
// ExampleTasks under a sample-data title.
func Render(w io.Writer, tasks []domain.Task, opts Options) error {
	opts, err := opts.normalize()
	if err != nil {
		return err
	}

	title := "Task timeline"
	if len(tasks) == 0 {
		tasks = ExampleTasks()
		title = "Example timeline (sample data)"
	}
	rows := sortTasks(tasks, opts.SortBy)

	first, last := span(rows)
	total := first.DaysUntil(last) + 1
	labelWidth := labelWidthFor(rows)
	palette := newPalette()
	glyph := string(Glyph(opts.Thickness))

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d tasks, sorted by %s, grouped by %s)\n", title, len(rows), opts.SortBy, opts.ColorBy)
	b.WriteString(axis(labelWidth, opts.Width, first.Format(opts.DateFormat), last.Format(opts.DateFormat)))

	for _, task := range rows {
		from, to := columns(first, total, opts.Width, task)
		group := groupOf(task, opts)
		bar := strings.Repeat(glyph, to-from+1)
		if opts.Color {
			bar = palette.paint(group, opts.ColorBy, bar)
		}
		fmt.Fprintf(&b, "%s %s%s%s  %s\n",
			pad(task.Name, labelWidth),
			strings.Repeat(" ", from), bar, strings.Repeat(" ", opts.Width-to-1),
			group)
	}

	if !opts.Today.IsZero() && !opts.Today.Before(first) && !opts.Today.After(last) {
		col, _ := columns(first, total, opts.Width, domain.Task{StartDate: opts.Today, EndDate: opts.Today})
		fmt.Fprintf(&b, "%s %s^ today %s\n", strings.Repeat(" ", labelWidth), strings.Repeat(" ", col), opts.Today.Format(opts.DateFormat))
	}

	_, err = io.WriteString(w, b.String())
	return err
}

func sortTasks(tasks []domain.Task, by string) []domain.Task {
	rows := make([]domain.Task, len(tasks))
	copy(rows, tasks)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch by {
		case SortByEnd:
			return a.EndDate.Before(b.EndDate)
		case SortByName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case SortByOwner:
			if a.Owner != b.Owner {
				return a.Owner < b.Owner
			}
			return a.StartDate.Before(b.StartDate)
		default:
			return a.StartDate.Before(b.StartDate)
		}
	})
	return rows
}

func span(tasks []domain.Task) (domain.Date, domain.Date) {
	first, last := tasks[0].StartDate, tasks[0].EndDate
	for _, t := range tasks[1:] {
		if t.StartDate.Before(first) {
			first = t.StartDate
		}
		if t.EndDate.After(last) {
			last = t.EndDate
		}
	}
	return first, last
}

// columns maps the task's inclusive day range onto [0, width).
func columns(first domain.Date, total, width int, task domain.Task) (int, int) {
	offset := first.DaysUntil(task.StartDate)
	length := task.StartDate.DaysUntil(task.EndDate) + 1
	from := offset * width / total
	to := ((offset+length)*width+total-1)/total - 1
	if to < from {
		to = from
	}
	if to >= width {
		to = width - 1
	}
	return from, to
}

func axis(labelWidth, width int, start, end string) string {
	gap := width - utf8.RuneCountInString(start) - utf8.RuneCountInString(end)
	if gap < 1 {
		return fmt.Sprintf("%s %s\n", strings.Repeat(" ", labelWidth), start)
	}
	return fmt.Sprintf("%s %s%s%s\n", strings.Repeat(" ", labelWidth), start, strings.Repeat(" ", gap), end)
}

func labelWidthFor(tasks []domain.Task) int {
	width := minLabelWidth
	for _, t := range tasks {
		if n := utf8.RuneCountInString(t.Name); n > width {
			width = n
		}
	}
	if width > maxLabelWidth {
		width = maxLabelWidth
	}
	return width
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		r := []rune(s)
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-n)
}

func groupOf(task domain.Task, opts Options) string {
	if opts.ColorBy == ColorByPeriod {
		return task.Period(opts.Today)
	}
	if task.Owner == "" {
		return "-"
	}
	return task.Owner
}

type palette struct {
	assigned map[string]int
}

var ownerColors = []int{36, 33, 35, 32, 34, 31}

var periodColors = map[string]int{
	domain.PeriodPast:     90,
	domain.PeriodActive:   32,
	domain.PeriodUpcoming: 34,
}

func newPalette() *palette {
	return &palette{assigned: map[string]int{}}
}

func (p *palette) paint(group, colorBy, s string) string {
	code, ok := periodColors[group]
	if colorBy != ColorByPeriod || !ok {
		code, ok = p.assigned[group]
		if !ok {
			code = ownerColors[len(p.assigned)%len(ownerColors)]
			p.assigned[group] = code
		}
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", code, s)
}
