package events

import (
	"database/sql"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/vaultimg/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A single connection keeps the in-memory database shared.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)
	return db
}

func TestEventLog_Append(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	e := &testEvent{
		BaseEvent: NewBaseEvent("test.created", "test", "1"),
		Message:   "hello",
	}

	id, err := log.Append(e)
	require.NoError(t, err)
	assert.Positive(t, id)

	events, err := log.ForEntity("test", "1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Payload, `"message":"hello"`)
	assert.Equal(t, "test.created", events[0].EventType)
	assert.Equal(t, "test", events[0].EntityType)
	assert.Equal(t, "1", events[0].EntityID)
}

func TestEventLog_Since(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	start := time.Now().Add(-time.Hour)

	e1 := &testEvent{BaseEvent: NewBaseEvent("test.first", "test", "1"), Message: "first"}
	e2 := &testEvent{BaseEvent: NewBaseEvent("test.second", "test", "2"), Message: "second"}

	_, err := log.Append(e1)
	require.NoError(t, err)
	_, err = log.Append(e2)
	require.NoError(t, err)

	events, err := log.Since(start)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "test.first", events[0].EventType)
	assert.Equal(t, "test.second", events[1].EventType)
}

func TestEventLog_ForEntity(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	e1 := &testEvent{BaseEvent: NewBaseEvent("test.one", EntityImport, "a"), Message: "one"}
	e2 := &testEvent{BaseEvent: NewBaseEvent("test.two", EntityImport, "b"), Message: "two"}
	e3 := &testEvent{BaseEvent: NewBaseEvent("test.three", EntityImport, "a"), Message: "three"}

	for _, e := range []Event{e1, e2, e3} {
		_, err := log.Append(e)
		require.NoError(t, err)
	}

	events, err := log.ForEntity(EntityImport, "a")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "test.one", events[0].EventType)
	assert.Equal(t, "test.three", events[1].EventType)

	events2, err := log.ForEntity(EntityImport, "b")
	require.NoError(t, err)
	require.Len(t, events2, 1)
	assert.Equal(t, "test.two", events2[0].EventType)
}

func TestEventLog_Prune(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	_, err := db.Exec(`
		INSERT INTO events (event_type, entity_type, entity_id, payload, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		"test.old", "test", "1", `{"message":"old"}`, time.Now().Add(-100*24*time.Hour),
	)
	require.NoError(t, err)

	e := &testEvent{BaseEvent: NewBaseEvent("test.new", "test", "2"), Message: "new"}
	_, err = log.Append(e)
	require.NoError(t, err)

	count, err := log.Prune(90 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	events, err := log.Since(time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "test.new", events[0].EventType)
}

func TestEventLog_Recent(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	for i := 1; i <= 5; i++ {
		evt := &ImportCompleted{
			BaseEvent: NewBaseEvent(EventImportCompleted, EntityImport, strconv.Itoa(i)),
			FilePath:  "img/" + strconv.Itoa(i) + ".png",
		}
		_, err := log.Append(evt)
		require.NoError(t, err)
	}

	events, err := log.Recent(3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "5", events[0].EntityID)
	assert.Equal(t, "4", events[1].EntityID)
	assert.Equal(t, "3", events[2].EntityID)
}

// testEvent is a concrete event type for testing
type testEvent struct {
	BaseEvent
	Message string `json:"message"`
}
