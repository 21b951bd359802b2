package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gait_test.db")
	d, err := NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.MigrateUp("../../migrations"))
	return d
}

func sampleSession(engine string, steps int) Session {
	return Session{
		Engine:                engine,
		SubjectHeightCm:       172,
		DurationSecs:          14.5,
		FrameCount:            435,
		StepCount:             steps,
		CadencePerMin:         96,
		MeanStepIntervalSecs:  0.62,
		StepTimeVariabilityMs: 41.3,
		AvgBaseOfSupportCm:    11.8,
		AvgHeelLiftCm:         4.6,
	}
}

func TestRecordAndGetSession(t *testing.T) {
	d := newTestDB(t)

	want := sampleSession("ankle", 23)
	events := []StepEvent{
		{StepIndex: 0, TimeSecs: 0.62, Value: 0.81},
		{StepIndex: 1, TimeSecs: 1.26, Value: 0.79},
		{StepIndex: 2, TimeSecs: 1.88, Value: 0.84},
	}

	id, err := d.RecordSession(want, events)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := d.GetSession(id)
	require.NoError(t, err)
	assert.Equal(t, id, got.SessionID)
	assert.Equal(t, want.Engine, got.Engine)
	assert.Equal(t, want.StepCount, got.StepCount)
	assert.InDelta(t, want.CadencePerMin, got.CadencePerMin, 1e-9)
	assert.InDelta(t, want.AvgBaseOfSupportCm, got.AvgBaseOfSupportCm, 1e-9)
	assert.False(t, got.CreatedAt.IsZero())
	assert.WithinDuration(t, time.Now().UTC(), got.CreatedAt, time.Minute)
}

func TestRecordSessionPreservesExplicitID(t *testing.T) {
	d := newTestDB(t)

	s := sampleSession("heel", 19)
	s.SessionID = "fixed-session-id"
	id, err := d.RecordSession(s, nil)
	require.NoError(t, err)
	assert.Equal(t, "fixed-session-id", id)
}

func TestGetSessionMissing(t *testing.T) {
	d := newTestDB(t)

	_, err := d.GetSession("no-such-session")
	assert.Error(t, err)
}

func TestListSessionsNewestFirst(t *testing.T) {
	d := newTestDB(t)

	older := sampleSession("ankle", 10)
	older.CreatedAt = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	newer := sampleSession("ankle", 12)
	newer.CreatedAt = time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)

	oldID, err := d.RecordSession(older, nil)
	require.NoError(t, err)
	newID, err := d.RecordSession(newer, nil)
	require.NoError(t, err)

	sessions, err := d.ListSessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, newID, sessions[0].SessionID)
	assert.Equal(t, oldID, sessions[1].SessionID)

	limited, err := d.ListSessions(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, newID, limited[0].SessionID)
}

func TestGetStepsOrdered(t *testing.T) {
	d := newTestDB(t)

	events := []StepEvent{
		{StepIndex: 0, TimeSecs: 0.5, Value: 0.7},
		{StepIndex: 1, TimeSecs: 1.1, Value: 0.72},
		{StepIndex: 2, TimeSecs: 1.7, Value: 0.69},
	}
	id, err := d.RecordSession(sampleSession("ankle", 3), events)
	require.NoError(t, err)

	got, err := d.GetSteps(id)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, ev := range got {
		assert.Equal(t, id, ev.SessionID)
		assert.Equal(t, i, ev.StepIndex)
		assert.InDelta(t, events[i].TimeSecs, ev.TimeSecs, 1e-9)
	}
}

func TestMigrateDownRemovesTables(t *testing.T) {
	d := newTestDB(t)
	require.NoError(t, d.MigrateDown("../../migrations"))

	_, err := d.ListSessions(1)
	assert.Error(t, err)

	// The down migration must also clean up the session index.
	var leftover int
	err = d.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'index' AND name LIKE 'idx_gait_sessions%'`).Scan(&leftover)
	require.NoError(t, err)
	assert.Zero(t, leftover)
}
