package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roster/internal/user"
)

func TestReplay_Deterministic(t *testing.T) {
	j := createTestJournal(t)
	appendAll(t, j, recordedRun("run-1")...)

	result, err := j.Replay(context.Background(), "run-1")
	require.NoError(t, err)

	assert.True(t, result.Deterministic())
	assert.Equal(t, 6, result.Applied)
	assert.Empty(t, result.Divergences)
	assert.Equal(t, []user.User{{ID: 2, Name: "Jane Doe", Email: "jane@example.com"}}, result.Final)
}

func TestReplay_DetectsIDDivergence(t *testing.T) {
	j := createTestJournal(t)
	appendAll(t, j,
		Entry{RunID: "run-1", Seq: 1, Op: OpAdd, UserID: 5, Name: "a", Email: "a@example.com", OK: true},
	)

	result, err := j.Replay(context.Background(), "run-1")
	require.NoError(t, err)

	assert.False(t, result.Deterministic())
	require.Len(t, result.Divergences, 1)
	assert.Equal(t, Divergence{Seq: 1, Op: OpAdd, Recorded: "id=5", Replayed: "id=1"}, result.Divergences[0])
}

func TestReplay_DetectsOutcomeDivergence(t *testing.T) {
	j := createTestJournal(t)
	appendAll(t, j,
		Entry{RunID: "run-1", Seq: 1, Op: OpAdd, UserID: 1, Name: "a", Email: "a@example.com", OK: true},
		Entry{RunID: "run-1", Seq: 2, Op: OpDelete, UserID: 1, OK: false},
		Entry{RunID: "run-1", Seq: 3, Op: OpFind, UserID: 1, OK: true, Name: "a", Email: "a@example.com"},
		Entry{RunID: "run-1", Seq: 4, Op: OpList, Count: 3, OK: true},
	)

	result, err := j.Replay(context.Background(), "run-1")
	require.NoError(t, err)

	require.Len(t, result.Divergences, 3)
	assert.Equal(t, "deleted=false", result.Divergences[0].Recorded)
	assert.Equal(t, "deleted=true", result.Divergences[0].Replayed)
	assert.Equal(t, "found=true", result.Divergences[1].Recorded)
	assert.Equal(t, "found=false", result.Divergences[1].Replayed)
	assert.Equal(t, "count=3", result.Divergences[2].Recorded)
	assert.Equal(t, "count=0", result.Divergences[2].Replayed)
}

func TestReplay_DetectsFieldDivergence(t *testing.T) {
	j := createTestJournal(t)
	appendAll(t, j,
		Entry{RunID: "run-1", Seq: 1, Op: OpAdd, UserID: 1, Name: "a", Email: "a@example.com", OK: true},
		Entry{RunID: "run-1", Seq: 2, Op: OpFind, UserID: 1, OK: true, Name: "b", Email: "a@example.com"},
	)

	result, err := j.Replay(context.Background(), "run-1")
	require.NoError(t, err)

	require.Len(t, result.Divergences, 1)
	assert.Equal(t, OpFind, result.Divergences[0].Op)
	assert.Contains(t, result.Divergences[0].Recorded, `name="b"`)
	assert.Contains(t, result.Divergences[0].Replayed, `name="a"`)
}

func TestReplay_UnknownRun(t *testing.T) {
	j := createTestJournal(t)

	_, err := j.Replay(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entries recorded")
}

func TestReplay_UnknownOp(t *testing.T) {
	j := createTestJournal(t)
	appendAll(t, j, Entry{RunID: "run-1", Seq: 1, Op: "rename", OK: true})

	_, err := j.Replay(context.Background(), "run-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown op "rename"`)
}

func TestReplay_CancelledContext(t *testing.T) {
	j := createTestJournal(t)
	appendAll(t, j, recordedRun("run-1")...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := j.Replay(ctx, "run-1")
	require.Error(t, err)
}
