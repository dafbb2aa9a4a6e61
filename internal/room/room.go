package room

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
)

// Room type names as they appear on the wire.
const (
	TypeChat     = "CHAT"
	TypeUno      = "UNO"
	TypeSplendor = "SPLENDOR"
	TypeGomoku   = "GOMOKU"
)

// PushFunc queues one outbound frame for a connection. Frames to
// connections that no longer exist are dropped by the transport.
type PushFunc func(connID uint32, payload []byte)

// Scheduler runs compute off the dispatch loop and hands the returned
// follow-up back to it. Used for the Gomoku search so a long think
// never stalls message processing.
type Scheduler interface {
	Schedule(compute func() func())
}

// Membership is one seat in a room. A member that drops during a game
// keeps the seat with Offline set until they reconnect.
type Membership struct {
	UserName string
	UserID   int64
	Offline  bool
	Prepared bool
}

// table is the per-game extension point of a room.
type table interface {
	// prefix is the message-type prefix routed to the table.
	prefix() string
	handle(connID uint32, userName string, userID int64, messageType string, payload map[string]any)
	// start runs when every member is prepared; it validates player
	// count and constructs the game.
	start()
	// resume re-sends the game snapshot after a mid-game reconnect.
	resume(connID uint32, userName string, userID int64)
}

// Room is one chat-or-game room. All methods are called with the
// manager lock held; the room itself takes no locks.
type Room struct {
	ID        uint32
	Type      string
	Name      string
	Creator   string
	CreatorID int64

	password string
	conns    map[uint32]*Membership
	isGameOn bool

	tbl   table
	push  PushFunc
	index *userIndex
	sched Scheduler
	rng   *rand.Rand
}

// New builds a room of the given type. Unknown types fall back to a
// plain chat room.
func New(id uint32, roomType, creator string, creatorID int64, name, password string, push PushFunc, index *userIndex, sched Scheduler, rng *rand.Rand) *Room {
	r := &Room{
		ID:        id,
		Type:      TypeChat,
		Name:      name,
		Creator:   creator,
		CreatorID: creatorID,
		password:  password,
		conns:     make(map[uint32]*Membership),
		push:      push,
		index:     index,
		sched:     sched,
		rng:       rng,
	}
	switch roomType {
	case TypeUno:
		r.Type = TypeUno
		r.tbl = newUnoTable(r)
	case TypeSplendor:
		r.Type = TypeSplendor
		r.tbl = newSplendorTable(r)
	case TypeGomoku:
		r.Type = TypeGomoku
		r.tbl = newGomokuTable(r)
	}
	return r
}

// ProcessMessage dispatches one frame addressed to this room.
func (r *Room) ProcessMessage(connID uint32, userName string, userID int64, messageType string, payload map[string]any) {
	if r.tbl != nil && strings.HasPrefix(messageType, r.tbl.prefix()) {
		if !r.isGameOn {
			return
		}
		r.tbl.handle(connID, userName, userID, messageType, payload)
		return
	}

	if messageType == "JOIN_ROOM" {
		r.join(connID, userName, userID, payloadString(payload, "password"))
		return
	}

	m, ok := r.conns[connID]
	if !ok {
		r.send(connID, map[string]any{
			"message_type": messageType + "_RES",
			"success":      false,
			"info":         "Please join the room first.",
		})
		return
	}

	switch messageType {
	case "CHAT_MESSAGE":
		msg, _ := payload["message"].(map[string]any)
		if msg == nil {
			msg = make(map[string]any)
		}
		msg["user_name"] = m.UserName
		r.broadcast(map[string]any{"message": msg}, "CHAT_MESSAGE")

	case "GAME_PREPARE":
		m.Prepared = payloadBool(payload, "prepare")
		r.broadcast(r.membersInfo(), "ROOM_MEMBERS_INFO")
		for _, mm := range r.conns {
			if !mm.Prepared {
				return
			}
		}
		if r.tbl != nil {
			r.tbl.start()
		}
	}
}

func (r *Room) join(connID uint32, userName string, userID int64, password string) {
	res := map[string]any{"message_type": "JOIN_ROOM_RES"}

	// During a game only a dropped member may come back, identified by
	// user name; the seat keeps its hand.
	reconnect := false
	var oldConnID uint32
	if r.isGameOn {
		for id, m := range r.conns {
			if m.UserName == userName {
				oldConnID = id
				reconnect = true
				break
			}
		}
		if !reconnect {
			res["success"] = false
			res["info"] = "There is a game on in this room, please wait until the game overs."
			r.send(connID, res)
			return
		}
	}

	if other, ok := r.index.roomOf(userID); ok && other != r.ID {
		res["success"] = false
		res["info"] = fmt.Sprintf("You have already joined room %d", other)
		r.send(connID, res)
		return
	}

	if password != r.password {
		res["success"] = false
		res["info"] = "Password incorrect."
		r.send(connID, res)
		return
	}

	if reconnect {
		delete(r.conns, oldConnID)
	} else {
		r.broadcast(map[string]any{"user_name": userName}, "NEW_MEMBER")
	}
	r.conns[connID] = &Membership{UserName: userName, UserID: userID}
	r.index.set(userID, r.ID)

	res["success"] = true
	r.send(connID, res)
	r.broadcast(r.membersInfo(), "ROOM_MEMBERS_INFO")

	if r.isGameOn && r.tbl != nil {
		r.tbl.resume(connID, userName, userID)
	}
}

// ProcessClose handles a dropped connection. Mid-game the seat is kept
// and flagged offline; otherwise the member leaves for good.
func (r *Room) ProcessClose(connID uint32) {
	if m, ok := r.conns[connID]; ok {
		if r.isGameOn {
			m.Offline = true
		} else {
			r.broadcast(map[string]any{"user_name": m.UserName}, "MEMBER_LEAVES")
			r.index.remove(m.UserID)
			delete(r.conns, connID)
		}
	}
	r.broadcast(r.membersInfo(), "ROOM_MEMBERS_INFO")
}

// NoOneOnline reports whether every remaining member is offline.
func (r *Room) NoOneOnline() bool {
	for _, m := range r.conns {
		if !m.Offline {
			return false
		}
	}
	return true
}

// IsGameOn reports whether a game is in progress.
func (r *Room) IsGameOn() bool {
	return r.isGameOn
}

func (r *Room) send(connID uint32, payload map[string]any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[ROOM] Marshal failed: %v", err)
		return
	}
	r.push(connID, raw)
}

// broadcast tags the payload and delivers it to every online member.
func (r *Room) broadcast(payload map[string]any, messageType string) {
	payload["message_type"] = messageType
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[ROOM] Marshal failed: %v", err)
		return
	}
	for connID, m := range r.conns {
		if m.Offline {
			continue
		}
		r.push(connID, raw)
	}
}

// eachOnline visits online members in ascending conn-id order.
func (r *Room) eachOnline(fn func(connID uint32, m *Membership)) {
	for _, connID := range r.sortedConnIDs() {
		if m := r.conns[connID]; !m.Offline {
			fn(connID, m)
		}
	}
}

func (r *Room) sortedConnIDs() []uint32 {
	ids := make([]uint32, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Room) membersInfo() map[string]any {
	members := []map[string]any{}
	for _, connID := range r.sortedConnIDs() {
		m := r.conns[connID]
		members = append(members, map[string]any{
			"name":     m.UserName,
			"prepared": m.Prepared,
			"offline":  m.Offline,
		})
	}
	return map[string]any{"members": members}
}

func (r *Room) userNameByID(userID int64) string {
	for _, m := range r.conns {
		if m.UserID == userID {
			return m.UserName
		}
	}
	return ""
}

func (r *Room) userIDByName(userName string) int64 {
	for _, m := range r.conns {
		if m.UserName == userName {
			return m.UserID
		}
	}
	return 0
}

// JSON numbers decode as float64; these helpers pull typed fields out
// of a decoded payload, zero-valued on absence or type mismatch.

func payloadString(p map[string]any, key string) string {
	v, _ := p[key].(string)
	return v
}

func payloadInt(p map[string]any, key string) int {
	v, _ := p[key].(float64)
	return int(v)
}

func payloadBool(p map[string]any, key string) bool {
	v, _ := p[key].(bool)
	return v
}

func payloadIntSlice(p map[string]any, key string) []int {
	raw, _ := p[key].([]any)
	out := make([]int, 0, len(raw))
	for _, e := range raw {
		v, ok := e.(float64)
		if !ok {
			return nil
		}
		out = append(out, int(v))
	}
	return out
}
