// Package csvfile reads and writes the tabular task snapshot.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"task-dashboard/internal/domain"
	apperrors "task-dashboard/internal/errors"
	"task-dashboard/internal/repository/atomicfile"
)

// Column names, in file order.
const (
	ColumnName        = "Tarefa"
	ColumnDescription = "Descrição"
	ColumnStart       = "Início"
	ColumnEnd         = "Fim"
	ColumnOwner       = "Responsável"
	ColumnOwnerEmail  = "Email Responsável"
)

// Header is the exact first row of every snapshot.
var Header = []string{ColumnName, ColumnDescription, ColumnStart, ColumnEnd, ColumnOwner, ColumnOwnerEmail}

// required columns; Email Responsável may be missing in older files.
var required = []string{ColumnName, ColumnDescription, ColumnStart, ColumnEnd, ColumnOwner}

const utf8BOM = "\uFEFF"

// Write encodes tasks as CSV with the snapshot header.
func Write(w io.Writer, tasks []domain.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, t := range tasks {
		row := []string{
			t.Name,
			t.Description,
			t.StartDate.String(),
			t.EndDate.String(),
			t.Owner,
			t.OwnerEmail,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read decodes a snapshot. Columns are matched by header name, blank rows
// are ignored and every task gets a fresh id since the file carries none.
func Read(r io.Reader) ([]domain.Task, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []domain.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		index[name] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	cell := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	tasks := []domain.Task{}
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if isBlank(record) {
			continue
		}

		start, err := domain.ParseDate(cell(record, ColumnStart))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColumnStart, err)
		}
		end, err := domain.ParseDate(cell(record, ColumnEnd))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColumnEnd, err)
		}

		tasks = append(tasks, domain.NewTask(
			cell(record, ColumnName),
			cell(record, ColumnDescription),
			start, end,
			cell(record, ColumnOwner),
			cell(record, ColumnOwnerEmail),
		))
	}
	return tasks, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Store keeps the snapshot at a fixed path.
type Store struct {
	path    string
	dirPerm os.FileMode
}

// NewStore returns a Store for path. Parent directories are created with
// dirPerm on first save.
func NewStore(path string, dirPerm os.FileMode) *Store {
	if dirPerm == 0 {
		dirPerm = 0o755
	}
	return &Store{path: path, dirPerm: dirPerm}
}

// Path returns the snapshot location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a snapshot file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Load reads the snapshot. A missing file yields an empty list.
func (s *Store) Load() ([]domain.Task, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.Task{}, nil
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError(s.path, "read", err)
	}
	defer f.Close()

	tasks, err := Read(f)
	if err != nil {
		return nil, apperrors.NewPersistenceError(s.path, "parse", err)
	}
	return tasks, nil
}

// Save rewrites the whole snapshot through a temporary file and rename.
func (s *Store) Save(tasks []domain.Task) error {
	var buf bytes.Buffer
	if err := Write(&buf, tasks); err != nil {
		return apperrors.NewPersistenceError(s.path, "encode", err)
	}
	if err := atomicfile.Write(s.path, buf.Bytes(), 0o644, s.dirPerm); err != nil {
		return apperrors.NewPersistenceError(s.path, "write", err)
	}
	return nil
}
