package room

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() (*Manager, *recorder, *manualScheduler) {
	rec := newRecorder()
	sched := &manualScheduler{}
	m := NewManager(rec.push, sched)
	m.rng = rand.New(rand.NewSource(7))
	return m, rec, sched
}

func createRoom(m *Manager, connID uint32, name string, id int64, roomID int, roomType string) {
	m.ProcessMessage(connID, name, id, "CREATE_ROOM", map[string]any{
		"room_id":   float64(roomID),
		"room_type": roomType,
		"room_name": "room",
		"password":  "",
	})
}

func joinRoom(m *Manager, connID uint32, name string, id int64, roomID int) {
	m.ProcessMessage(connID, name, id, "JOIN_ROOM", map[string]any{
		"room_id":  float64(roomID),
		"password": "",
	})
}

func TestCreateRoomDuplicate(t *testing.T) {
	m, rec, _ := newTestManager()

	createRoom(m, 1, "alice", 1, 10, TypeChat)
	res := rec.lastOfType(1, "CREATE_ROOM_RES")
	require.NotNil(t, res)
	assert.Equal(t, true, res["success"])

	createRoom(m, 2, "bob", 2, 10, TypeChat)
	res = rec.lastOfType(2, "CREATE_ROOM_RES")
	require.NotNil(t, res)
	assert.Equal(t, false, res["success"])
	assert.Contains(t, res["info"], "already exists")
}

func TestJoinUnknownRoom(t *testing.T) {
	m, rec, _ := newTestManager()

	joinRoom(m, 1, "alice", 1, 99)

	errFrame := rec.lastOfType(1, "ERROR")
	require.NotNil(t, errFrame)
	assert.Equal(t, "ROOM_DONOT_EXIST", errFrame["info"])
}

func TestDispatchWithoutRoom(t *testing.T) {
	m, rec, _ := newTestManager()

	m.ProcessMessage(1, "alice", 1, "CHAT_MESSAGE", map[string]any{
		"message": map[string]any{"content": "hi"},
	})

	errFrame := rec.lastOfType(1, "ERROR")
	require.NotNil(t, errFrame)
	assert.Equal(t, "ROOM_DONOT_EXIST", errFrame["info"])
}

func TestSecondRoomRejected(t *testing.T) {
	m, rec, _ := newTestManager()
	createRoom(m, 1, "alice", 1, 10, TypeChat)
	createRoom(m, 1, "alice", 1, 11, TypeChat)

	joinRoom(m, 1, "alice", 1, 10)
	joinRoom(m, 1, "alice", 1, 11)

	res := rec.lastOfType(1, "JOIN_ROOM_RES")
	require.NotNil(t, res)
	assert.Equal(t, false, res["success"])
	assert.Contains(t, res["info"], "already joined room 10")
}

func TestRoomListSortedByID(t *testing.T) {
	m, rec, _ := newTestManager()
	createRoom(m, 1, "alice", 1, 20, TypeUno)
	createRoom(m, 1, "alice", 1, 5, TypeGomoku)
	joinRoom(m, 1, "alice", 1, 5)

	m.ProcessMessage(1, "alice", 1, "GET_ROOM_LIST", map[string]any{})

	res := rec.lastOfType(1, "GET_ROOM_LIST_RES")
	require.NotNil(t, res)
	rooms := res["rooms"].([]any)
	require.Len(t, rooms, 2)

	first := rooms[0].(map[string]any)
	assert.Equal(t, float64(5), first["id"])
	assert.Equal(t, TypeGomoku, first["type"])
	assert.Equal(t, float64(1), first["population"])

	second := rooms[1].(map[string]any)
	assert.Equal(t, float64(20), second["id"])
	assert.Equal(t, float64(0), second["population"])
}

func TestChatRoutedToJoinedRoom(t *testing.T) {
	m, rec, _ := newTestManager()
	createRoom(m, 1, "alice", 1, 10, TypeChat)
	joinRoom(m, 1, "alice", 1, 10)
	joinRoom(m, 2, "bob", 2, 10)

	m.ProcessMessage(1, "alice", 1, "CHAT_MESSAGE", map[string]any{
		"message": map[string]any{"content": "hello"},
	})

	frame := rec.lastOfType(2, "CHAT_MESSAGE")
	require.NotNil(t, frame)
	assert.Equal(t, "alice", frame["message"].(map[string]any)["user_name"])
}

func TestSweepRemovesEmptyRooms(t *testing.T) {
	m, _, _ := newTestManager()
	createRoom(m, 1, "alice", 1, 10, TypeChat)
	createRoom(m, 2, "bob", 2, 11, TypeChat)
	joinRoom(m, 2, "bob", 2, 11)

	m.Sweep()

	assert.NotContains(t, m.rooms, uint32(10), "unoccupied room is collected")
	assert.Contains(t, m.rooms, uint32(11), "occupied room stays")
}

func TestSweepKeepsGameOnRoomWithEveryoneOffline(t *testing.T) {
	m, _, _ := newTestManager()
	createRoom(m, 1, "alice", 1, 10, TypeUno)
	joinRoom(m, 1, "alice", 1, 10)
	joinRoom(m, 2, "bob", 2, 10)
	joinRoom(m, 3, "carol", 3, 10)
	for connID, name := range map[uint32]string{1: "alice", 2: "bob", 3: "carol"} {
		m.ProcessMessage(connID, name, int64(connID), "GAME_PREPARE", map[string]any{"prepare": true})
	}
	require.True(t, m.rooms[10].IsGameOn())

	m.ProcessClose(1, 1)
	m.ProcessClose(2, 2)
	m.ProcessClose(3, 3)

	m.Sweep()
	assert.Contains(t, m.rooms, uint32(10), "seats held open for reconnection")

	// Once the game flag clears, the next sweep collects it.
	m.rooms[10].isGameOn = false
	m.Sweep()
	assert.NotContains(t, m.rooms, uint32(10))
	_, indexed := m.index.roomOf(1)
	assert.False(t, indexed, "sweep releases the user index")
}
