package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	for i := 0; i < 3; i++ {
		j, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		j.Close()
	}

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	var name string
	err = j.db.Get(&name, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", "entries")
	require.NoError(t, err)
	assert.Equal(t, "entries", name)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/journal.db")
	assert.Error(t, err)
}

func TestOpen_SchemaVersion(t *testing.T) {
	j := createTestJournal(t)

	var version int
	require.NoError(t, j.db.Get(&version, "PRAGMA user_version"))
	assert.Equal(t, currentSchemaVersion, version)

	var index string
	err := j.db.Get(&index, "SELECT name FROM sqlite_master WHERE type='index' AND name=?", "idx_entries_run_op")
	require.NoError(t, err)
	assert.Equal(t, "idx_entries_run_op", index)
}

func TestClose_NilDB(t *testing.T) {
	j := &Journal{db: nil}
	assert.NoError(t, j.Close())
}

func TestPragma_JournalMode(t *testing.T) {
	j := createTestJournal(t)
	assert.NoError(t, j.verifyPragma("journal_mode", "wal"))
}

func TestPragma_Synchronous(t *testing.T) {
	j := createTestJournal(t)
	// NORMAL = 1
	assert.NoError(t, j.verifyPragma("synchronous", "1"))
}

func TestPragma_BusyTimeout(t *testing.T) {
	j := createTestJournal(t)
	assert.NoError(t, j.verifyPragma("busy_timeout", "5000"))
}
