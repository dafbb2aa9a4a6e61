package room

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// userIndex maps a user to the single room they occupy. Guarded by the
// manager mutex along with the rooms it serves.
type userIndex struct {
	roomIDs map[int64]uint32
}

func newUserIndex() *userIndex {
	return &userIndex{roomIDs: make(map[int64]uint32)}
}

func (ix *userIndex) roomOf(userID int64) (uint32, bool) {
	id, ok := ix.roomIDs[userID]
	return id, ok
}

func (ix *userIndex) set(userID int64, roomID uint32) {
	ix.roomIDs[userID] = roomID
}

func (ix *userIndex) remove(userID int64) {
	delete(ix.roomIDs, userID)
}

// Manager owns the room registry and routes frames to rooms. The hub
// worker and the sweeper both enter through here, so the registry and
// all room state sit behind one mutex.
type Manager struct {
	mu    sync.Mutex
	rooms map[uint32]*Room
	index *userIndex
	push  PushFunc
	sched Scheduler
	rng   *rand.Rand
	stop  chan struct{}
}

func NewManager(push PushFunc, sched Scheduler) *Manager {
	m := &Manager{
		rooms: make(map[uint32]*Room),
		index: newUserIndex(),
		push:  push,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		stop:  make(chan struct{}),
	}
	m.sched = lockedScheduler{m: m, inner: sched}
	return m
}

// lockedScheduler reacquires the manager lock before running a
// scheduled follow-up, since it touches room state.
type lockedScheduler struct {
	m     *Manager
	inner Scheduler
}

func (s lockedScheduler) Schedule(compute func() func()) {
	if s.inner == nil {
		return
	}
	s.inner.Schedule(func() func() {
		done := compute()
		return func() {
			s.m.mu.Lock()
			defer s.m.mu.Unlock()
			done()
		}
	})
}

// ProcessMessage routes one authenticated frame. CREATE_ROOM and
// GET_ROOM_LIST are handled here; JOIN_ROOM targets the room named in
// the payload; everything else goes to the caller's current room.
func (m *Manager) ProcessMessage(connID uint32, userName string, userID int64, messageType string, payload map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch messageType {
	case "CREATE_ROOM":
		m.createRoom(connID, userName, userID, payload)

	case "GET_ROOM_LIST":
		m.sendRoomList(connID)

	case "JOIN_ROOM":
		roomID := uint32(payloadInt(payload, "room_id"))
		r, ok := m.rooms[roomID]
		if !ok {
			m.sendError(connID, "ROOM_DONOT_EXIST")
			return
		}
		r.ProcessMessage(connID, userName, userID, messageType, payload)

	default:
		roomID, ok := m.index.roomOf(userID)
		if !ok {
			m.sendError(connID, "ROOM_DONOT_EXIST")
			return
		}
		r, ok := m.rooms[roomID]
		if !ok {
			m.sendError(connID, "ROOM_DONOT_EXIST")
			return
		}
		r.ProcessMessage(connID, userName, userID, messageType, payload)
	}
}

func (m *Manager) createRoom(connID uint32, userName string, userID int64, payload map[string]any) {
	roomID := uint32(payloadInt(payload, "room_id"))
	res := map[string]any{"message_type": "CREATE_ROOM_RES"}

	if _, exists := m.rooms[roomID]; exists {
		res["success"] = false
		res["info"] = fmt.Sprintf("Room %d already exists.", roomID)
		m.send(connID, res)
		return
	}

	r := New(
		roomID,
		payloadString(payload, "room_type"),
		userName,
		userID,
		payloadString(payload, "room_name"),
		payloadString(payload, "password"),
		m.push,
		m.index,
		m.sched,
		m.rng,
	)
	m.rooms[roomID] = r
	log.Printf("[ROOM] %s created room %d (%s)", userName, roomID, r.Type)

	res["success"] = true
	m.send(connID, res)
}

func (m *Manager) sendRoomList(connID uint32) {
	ids := make([]uint32, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rooms := []map[string]any{}
	for _, id := range ids {
		r := m.rooms[id]
		rooms = append(rooms, map[string]any{
			"id":           r.ID,
			"name":         r.Name,
			"type":         r.Type,
			"creator":      r.Creator,
			"population":   len(r.conns),
			"game_on":      r.isGameOn,
			"has_password": r.password != "",
		})
	}
	m.send(connID, map[string]any{
		"message_type": "GET_ROOM_LIST_RES",
		"success":      true,
		"rooms":        rooms,
	})
}

// ProcessClose reacts to a dropped connection.
func (m *Manager) ProcessClose(connID uint32, userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	roomID, ok := m.index.roomOf(userID)
	if !ok {
		return
	}
	if r, ok := m.rooms[roomID]; ok {
		r.ProcessClose(connID)
	}
}

// Sweep drops every room with no online member and no game running,
// releasing its members' index entries.
func (m *Manager) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, r := range m.rooms {
		if r.isGameOn || !r.NoOneOnline() {
			continue
		}
		for _, mem := range r.conns {
			m.index.remove(mem.UserID)
		}
		delete(m.rooms, id)
		log.Printf("[ROOM] Swept empty room %d", id)
	}
}

// StartSweeper runs Sweep on the given cadence until Stop is called.
func (m *Manager) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Sweep()
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop shuts down the background sweeper.
func (m *Manager) Stop() {
	close(m.stop)
}

func (m *Manager) send(connID uint32, payload map[string]any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[ROOM] Marshal failed: %v", err)
		return
	}
	m.push(connID, raw)
}

func (m *Manager) sendError(connID uint32, info string) {
	m.send(connID, map[string]any{"message_type": "ERROR", "info": info})
}
