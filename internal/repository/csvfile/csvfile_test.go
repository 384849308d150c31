package csvfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-dashboard/internal/domain"
	apperrors "task-dashboard/internal/errors"
)

func sampleTasks() []domain.Task {
	return []domain.Task{
		domain.NewTask("Relatório", "Fechar, revisar", domain.MustParseDate("2024-02-01"), domain.MustParseDate("2024-02-10"), "João", ""),
		domain.NewTask("Deploy", "Subir \"v2\"", domain.MustParseDate("2024-03-01"), domain.MustParseDate("2024-03-01"), "Ana", "ana@x.com"),
	}
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.Equal(t, "Tarefa,Descrição,Início,Fim,Responsável,Email Responsável\n", buf.String())
}

func TestWriteAndRead(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleTasks()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Deploy,\"Subir \"\"v2\"\"\",2024-03-01,2024-03-01,Ana,ana@x.com", lines[2])

	tasks, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Relatório", tasks[0].Name)
	assert.Equal(t, "Fechar, revisar", tasks[0].Description)
	assert.Equal(t, domain.MustParseDate("2024-02-10"), tasks[0].EndDate)
	assert.Equal(t, "João", tasks[0].Owner)
	assert.Empty(t, tasks[0].OwnerEmail)
	assert.Equal(t, "ana@x.com", tasks[1].OwnerEmail)
	assert.NotEmpty(t, tasks[0].ID)
	assert.NotEqual(t, tasks[0].ID, tasks[1].ID)
}

func TestReadTolerance(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "missing email column",
			input: "Tarefa,Descrição,Início,Fim,Responsável\nA,d,2024-01-01,2024-01-02,x\n",
			want:  []string{"A"},
		},
		{
			name:  "timestamp dates",
			input: "Tarefa,Descrição,Início,Fim,Responsável,Email Responsável\nA,d,2024-01-01 00:00:00,2024-01-02 00:00:00,x,\n",
			want:  []string{"A"},
		},
		{
			name:  "byte order mark and blank rows",
			input: "\uFEFFTarefa,Descrição,Início,Fim,Responsável,Email Responsável\n,,,,,\nB,d,2024-01-01,2024-01-02,x,\n",
			want:  []string{"B"},
		},
		{
			name:  "short row",
			input: "Tarefa,Descrição,Início,Fim,Responsável,Email Responsável\nC,d,2024-01-01,2024-01-02,x\n",
			want:  []string{"C"},
		},
		{
			name:  "empty file",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := Read(strings.NewReader(tt.input))
			require.NoError(t, err)
			names := []string{}
			for _, task := range tasks {
				names = append(names, task.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("Tarefa,Início,Fim\nA,2024-01-01,2024-01-02\n"))
	assert.ErrorContains(t, err, "missing column")

	_, err = Read(strings.NewReader("Tarefa,Descrição,Início,Fim,Responsável\nA,d,01/02/2024,2024-01-02,x\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestStoreSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "nested", "backup_tarefas.csv"), 0o755)

	assert.False(t, store.Exists())
	tasks, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, tasks)

	require.NoError(t, store.Save(sampleTasks()))
	assert.True(t, store.Exists())

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Deploy", loaded[1].Name)

	// Rewritten in full, no leftovers from the temp file.
	require.NoError(t, store.Save(sampleTasks()[:1]))
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStoreSaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := NewStore(filepath.Join(blocker, "backup.csv"), 0o755)
	err := store.Save(sampleTasks())
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypePersistence))
}

func TestStoreLoadParseFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("nothing,useful\n1,2\n"), 0o644))

	_, err := NewStore(path, 0).Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypePersistence))
}
