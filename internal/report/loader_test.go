package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "groups.yaml")
	writeFile(t, yamlPath, `
groups:
  - name: Centre
    members: [Polyclinique Centre, Salle Est]
  - name: Nord
    members:
      - Salle Nord
`)
	got, err := LoadDirectory(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, Directory{
		{Name: "Centre", Members: []string{"Polyclinique Centre", "Salle Est"}},
		{Name: "Nord", Members: []string{"Salle Nord"}},
	}, got)

	jsonPath := filepath.Join(dir, "groups.json")
	writeFile(t, jsonPath, `{"groups":[{"name":"Sud","members":["Salle Sud"]}]}`)
	got, err = LoadDirectory(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, Directory{{Name: "Sud", Members: []string{"Salle Sud"}}}, got)

	emptyPath := filepath.Join(dir, "empty.yaml")
	writeFile(t, emptyPath, "other: 1\n")
	got, err = LoadDirectory(emptyPath)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoadDirectory_EmptyPathAndMissingFile(t *testing.T) {
	got, err := LoadDirectory("  ")
	require.NoError(t, err)
	assert.Equal(t, Directory{}, got)

	_, err = LoadDirectory(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatchDirectory_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.yaml")
	writeFile(t, path, "groups:\n  - name: A\n    members: [X]\n")

	changes := make(chan Directory, 16)
	got, err := WatchDirectory(path, func(d Directory) {
		select {
		case changes <- d:
		default:
		}
	})
	require.NoError(t, err)
	assert.Equal(t, Directory{{Name: "A", Members: []string{"X"}}}, got)

	writeFile(t, path, "groups:\n  - name: B\n    members: [Y, Z]\n")

	want := Directory{{Name: "B", Members: []string{"Y", "Z"}}}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case d := <-changes:
			// a write can surface as several events; wait for the final content
			if assert.ObjectsAreEqual(want, d) {
				return
			}
		case <-deadline:
			t.Fatal("directory change not observed")
		}
	}
}
