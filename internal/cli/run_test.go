package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	dbFlag := runCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestRun_Text(t *testing.T) {
	out, err := execute(t, "run", filepath.Join(scenariosDir, "find_by_id.yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "Scenario: find_by_id")
	assert.Contains(t, out, "Run: golden-find-by-id")
	assert.Contains(t, out, `[1] add "John Doe" <john@example.com> -> id=1`)
	assert.Contains(t, out, `[2] find 1 -> "John Doe" <john@example.com>`)
	assert.Contains(t, out, "[3] find 999 -> not found")
	assert.Contains(t, out, "Users (1, next id 2):")
	assert.Contains(t, out, "✓ PASS")
}

func TestRun_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "run", filepath.Join(scenariosDir, "list_in_order.yaml"))
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "list_in_order", resp.Data.Scenario)
	assert.True(t, resp.Data.Passed)
	assert.Len(t, resp.Data.Trace, 7)
	require.Len(t, resp.Data.Final, 2)
	assert.Equal(t, int64(2), resp.Data.Final[0].ID)
	assert.Equal(t, int64(3), resp.Data.Final[1].ID)
	assert.Equal(t, int64(4), resp.Data.NextID)
}

func TestRun_Failure(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "failing.yaml", failingScenario)

	out, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenario failing failed")
	assert.Contains(t, out, "✗ FAIL")
	assert.Contains(t, out, "expected id 2, got 1")
}

func TestRun_InvalidScenario(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "bad.yaml", "name: bad\nsteps:\n  - op: rename\n")

	out, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

func TestRun_MissingFile(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_MissingArg(t *testing.T) {
	_, err := execute(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestRun_JournalsToDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "roster.db")

	_, err := execute(t, "run", filepath.Join(scenariosDir, "delete_existing.yaml"), "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "trace", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "golden-delete-existing  4 entries (last seq 4)")
}

func TestRun_GeneratedRunID(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "norun.yaml", "name: norun\nsteps:\n  - op: list\n")

	out, err := execute(t, "--format", "json", "run", path)
	require.NoError(t, err)

	var resp struct {
		Data RunOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Data.RunID, 36)
}

func TestRun_JournalConflict(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "roster.db")

	v1 := writeScenario(t, dir, "v1.yaml", "name: edited\nrun_id: run-edited\nsteps:\n  - op: add\n    name: a\n  - op: add\n    name: b\n")
	_, err := execute(t, "run", v1, "--db", db)
	require.NoError(t, err)

	v2 := writeScenario(t, dir, "v2.yaml", "name: edited\nrun_id: run-edited\nsteps:\n  - op: add\n    name: a\n  - op: delete\n    id: 1\n")
	_, err = execute(t, "run", v2, "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "conflicting entry already recorded")

	out, err := execute(t, "replay", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ run-edited (2 entries)")
}
