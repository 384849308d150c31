package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"task-dashboard/internal/domain"
	"task-dashboard/internal/errors"
)

// parseDateArg accepts ISO dates as well as the configured display layout.
func parseDateArg(field, value, layout string) (domain.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return domain.Date{}, nil
	}
	if d, err := domain.ParseDate(value); err == nil {
		return d, nil
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return domain.Date{}, errors.NewInvalidInputError(field, value, "expected YYYY-MM-DD or "+layout)
	}
	return domain.DateOf(t), nil
}

func formatDate(d domain.Date, layout string) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format(layout)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// ago renders a past instant relative to now, or "never".
func ago(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	return humanize.Time(*t)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printTasks writes one row per task.
func printTasks(w io.Writer, tasks []domain.Task, layout string) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tOWNER\tSTART\tEND")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Name, orDash(t.Owner),
			formatDate(t.StartDate, layout), formatDate(t.EndDate, layout))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n", plural(len(tasks), "task"))
	return err
}

// printTask writes the full record of one task.
func printTask(w io.Writer, t domain.Task, layout string) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", t.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", t.Name)
	fmt.Fprintf(tw, "Description:\t%s\n", orDash(t.Description))
	fmt.Fprintf(tw, "Owner:\t%s\n", orDash(t.Owner))
	fmt.Fprintf(tw, "Owner email:\t%s\n", orDash(t.OwnerEmail))
	fmt.Fprintf(tw, "Start:\t%s\n", formatDate(t.StartDate, layout))
	fmt.Fprintf(tw, "End:\t%s\n", formatDate(t.EndDate, layout))
	return tw.Flush()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(int64(n)), noun)
}
