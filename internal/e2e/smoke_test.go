package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type historyEntry struct {
	Path     string `json:"path"`
	PickedAt string `json:"picked_at"`
}

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	library := writeLibraryFixture(t, home)

	stdout, stderr, err := runRVP(t, binaryPath, home, "pick", "--folder", library, "--json")
	require.NoError(t, err, "stderr: %s", stderr)

	var picked struct {
		Path      string `json:"path"`
		PickCount int    `json:"pick_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &picked))
	assert.Equal(t, filepath.Join(library, "clip.mp4"), picked.Path)
	assert.Equal(t, 0, picked.PickCount)

	_, stderr, err = runRVP(t, binaryPath, home, "pick", "--folder", library)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runRVP(t, binaryPath, home, "history", "--json")
	require.NoError(t, err, "stderr: %s", stderr)

	var entries []historyEntry
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, filepath.Join(library, "clip.mp4"), entry.Path)
		assert.NotEmpty(t, entry.PickedAt)
	}
}

func TestSmokeInvalidFolderFails(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	_, stderr, err := runRVP(t, binaryPath, home, "pick", "--folder", filepath.Join(home, "missing"))
	require.Error(t, err)
	assert.Contains(t, stderr, "Error:")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "rvp-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/rvp")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build rvp binary: %s", string(output))
	return binaryPath
}

func runRVP(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
		"XDG_DATA_HOME="+filepath.Join(home, ".local", "share"),
		"DEFAULT_VIDEO_FOLDER=",
		"RVP_LEDGER_BACKEND=",
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeLibraryFixture(t *testing.T, home string) string {
	t.Helper()

	library := filepath.Join(home, "Videos")
	require.NoError(t, os.MkdirAll(filepath.Join(library, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(library, "clip.mp4"), []byte("video"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(library, "docs", "readme.txt"), []byte("text"), 0o644))
	return library
}
