package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-dashboard/internal/domain"
)

func TestParseDateArg(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    domain.Date
		wantErr bool
	}{
		{name: "iso", value: "2024-02-05", want: domain.NewDate(2024, 2, 5)},
		{name: "display layout", value: "05/02/2024", want: domain.NewDate(2024, 2, 5)},
		{name: "blank clears", value: "  ", want: domain.Date{}},
		{name: "garbage", value: "amanhã", wantErr: true},
		{name: "impossible day", value: "31/02/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDateArg("start_date", tt.value, "02/01/2006")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "start_date")
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		format  string
		path    string
		want    string
		wantErr bool
	}{
		{path: "tasks.csv", want: FormatCSV},
		{path: "tasks.JSON", want: FormatJSON},
		{path: "tasks.yml", want: FormatYAML},
		{path: "-", want: FormatCSV},
		{format: "yml", path: "tasks.csv", want: FormatYAML},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format+tt.path, func(t *testing.T) {
			got, err := formatFor(tt.format, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintTasks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printTasks(&buf, nil, "02/01/2006"))
	assert.Equal(t, "No tasks found\n", buf.String())

	buf.Reset()
	tasks := []domain.Task{
		{ID: "a", Name: "Relatório", StartDate: domain.NewDate(2024, 2, 1), EndDate: domain.NewDate(2024, 2, 10)},
	}
	require.NoError(t, printTasks(&buf, tasks, "02/01/2006"))
	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "01/02/2024")
	assert.Contains(t, out, "Relatório")
	assert.Contains(t, out, "-", "missing owner renders as a dash")
	assert.Contains(t, out, "1 task\n")
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 task", plural(1, "task"))
	assert.Equal(t, "0 tasks", plural(0, "task"))
	assert.Equal(t, "1,200 tasks", plural(1200, "task"))
}
