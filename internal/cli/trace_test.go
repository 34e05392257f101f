package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	traceCmd, _, err := cmd.Find([]string{"trace"})
	require.NoError(t, err)

	require.NotNil(t, traceCmd.Flags().Lookup("db"))
	require.NotNil(t, traceCmd.Flags().Lookup("run"))
	require.NotNil(t, traceCmd.Flags().Lookup("op"))
}

// journaledDB runs the find_by_id scenario into a fresh journal.
func journaledDB(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "roster.db")
	_, err := execute(t, "run", filepath.Join(scenariosDir, "find_by_id.yaml"), "--db", db)
	require.NoError(t, err)
	return db
}

func TestTrace_ListRuns(t *testing.T) {
	db := journaledDB(t)

	out, err := execute(t, "trace", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "golden-find-by-id  3 entries (last seq 3)")
}

func TestTrace_Run(t *testing.T) {
	db := journaledDB(t)

	out, err := execute(t, "trace", "--db", db, "--run", "golden-find-by-id")
	require.NoError(t, err)
	assert.Contains(t, out, "Run: golden-find-by-id")
	assert.Contains(t, out, `[1] add "John Doe" <john@example.com> -> id=1`)
	assert.Contains(t, out, `[2] find 1 -> "John Doe" <john@example.com>`)
	assert.Contains(t, out, "[3] find 999 -> not found")
}

func TestTrace_RunFilteredByOp(t *testing.T) {
	db := journaledDB(t)

	out, err := execute(t, "--format", "json", "trace", "--db", db, "--run", "golden-find-by-id", "--op", "find")
	require.NoError(t, err)

	var resp struct {
		Data TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Entries, 2)
	assert.True(t, resp.Data.Entries[0].OK)
	assert.False(t, resp.Data.Entries[1].OK)
}

func TestTrace_UnknownRun(t *testing.T) {
	db := journaledDB(t)

	_, err := execute(t, "trace", "--db", db, "--run", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "run not found")
}

func TestTrace_OpWithoutRun(t *testing.T) {
	_, err := execute(t, "trace", "--db", filepath.Join(t.TempDir(), "x.db"), "--op", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--op requires --run")
}

func TestTrace_RequiresDB(t *testing.T) {
	_, err := execute(t, "trace")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--db is required")
}

func TestTrace_Empty(t *testing.T) {
	out, err := execute(t, "trace", "--db", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestTrace_InvalidOp(t *testing.T) {
	db := journaledDB(t)

	_, err := execute(t, "trace", "--db", db, "--run", "golden-find-by-id", "--op", "bogus")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid op "bogus"`)
}
