package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gamehall/backend/internal/auth"
	"github.com/gamehall/backend/internal/chat"
	"github.com/gamehall/backend/internal/room"
)

// senderInterval is the cadence of the outbound drain.
const senderInterval = 5 * time.Millisecond

// aiWorkers is the size of the search pool.
const aiWorkers = 4

type actionKind int

const (
	actionMessage actionKind = iota
	actionClose
	actionTask
)

// action is one unit of work for the hub worker: an inbound frame, a
// dropped connection, or a follow-up handed back by the search pool.
type action struct {
	kind    actionKind
	client  *Client
	payload []byte
	task    func()
}

// session binds an authenticated connection to its user.
type session struct {
	userID   int64
	userName string
	connID   uint32
}

type response struct {
	connID  uint32
	payload []byte
}

// Hub funnels every socket's frames into one FIFO consumed by a single
// worker, which makes all room and game state single-threaded by
// construction. Outbound frames are buffered and drained on a short
// cadence so rule processing never waits on the transport.
type Hub struct {
	// mu guards the action queue, the response buffer and the
	// conn-id registry; cond signals the worker.
	mu        sync.Mutex
	cond      *sync.Cond
	actions   []action
	responses []response
	clients   map[uint32]*Client
	stopped   bool

	// Worker-owned; no locking needed.
	sessions   map[*Client]*session
	userConns  map[int64]map[uint32]*Client
	nextConnID uint32

	auth    *auth.Authorizer
	history *chat.History
	rooms   *room.Manager

	jobs chan func() func()
	stop chan struct{}
}

// NewHub wires a hub over the given stores. The room manager is owned
// by the hub so its pushes land in the hub's outbound buffer.
func NewHub(authorizer *auth.Authorizer, history *chat.History) *Hub {
	h := &Hub{
		clients:   make(map[uint32]*Client),
		sessions:  make(map[*Client]*session),
		userConns: make(map[int64]map[uint32]*Client),
		auth:      authorizer,
		history:   history,
		jobs:      make(chan func() func(), aiWorkers),
		stop:      make(chan struct{}),
	}
	h.cond = sync.NewCond(&h.mu)
	h.rooms = room.NewManager(h.push, h)
	return h
}

// Rooms exposes the room manager for lifecycle wiring in main.
func (h *Hub) Rooms() *room.Manager {
	return h.rooms
}

// Start launches the worker, the outbound sender and the search pool.
func (h *Hub) Start() {
	go h.run()
	go h.runSender()
	for i := 0; i < aiWorkers; i++ {
		go h.runWorker()
	}
}

// Stop shuts the hub down after the queued actions are processed.
func (h *Hub) Stop() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
	h.cond.Broadcast()
	close(h.stop)
}

// OnFrame enqueues one inbound frame.
func (h *Hub) OnFrame(c *Client, payload []byte) {
	h.enqueue(action{kind: actionMessage, client: c, payload: payload})
}

// OnClose enqueues a connection drop.
func (h *Hub) OnClose(c *Client) {
	h.enqueue(action{kind: actionClose, client: c})
}

// Schedule runs compute on the search pool and posts the returned
// follow-up back into the action queue.
func (h *Hub) Schedule(compute func() func()) {
	select {
	case h.jobs <- compute:
	default:
		// Pool saturated; spill rather than stall the caller.
		go h.runJob(compute)
	}
}

func (h *Hub) enqueue(a action) {
	h.mu.Lock()
	h.actions = append(h.actions, a)
	h.mu.Unlock()
	h.cond.Signal()
}

func (h *Hub) run() {
	for {
		h.mu.Lock()
		for len(h.actions) == 0 && !h.stopped {
			h.cond.Wait()
		}
		if len(h.actions) == 0 {
			h.mu.Unlock()
			return
		}
		a := h.actions[0]
		h.actions = h.actions[1:]
		h.mu.Unlock()

		h.process(a)
	}
}

func (h *Hub) runWorker() {
	for {
		select {
		case compute := <-h.jobs:
			h.runJob(compute)
		case <-h.stop:
			return
		}
	}
}

func (h *Hub) runJob(compute func() func()) {
	done := compute()
	h.enqueue(action{kind: actionTask, task: done})
}

func (h *Hub) process(a action) {
	switch a.kind {
	case actionTask:
		a.task()

	case actionClose:
		h.closeClient(a.client)

	case actionMessage:
		var msg map[string]any
		if err := json.Unmarshal(a.payload, &msg); err != nil {
			log.Printf("[HUB] Invalid message format: %v", err)
			return
		}
		messageType, _ := msg["message_type"].(string)
		if messageType == "" {
			return
		}

		sess := h.sessions[a.client]
		if sess == nil {
			if messageType != "AUTHORIZE" {
				a.client.enqueue(mustMarshal(map[string]any{"message_type": "PLEASE_LOG_IN"}))
				return
			}
			h.authorize(a.client, msg)
			return
		}

		switch messageType {
		case "WHISPER_MESSAGE":
			h.whisper(sess, msg)
		case "READ_WHISPER_MESSAGES":
			friendID := int64(numField(msg, "friend_id"))
			h.auth.UnreadClear(sess.userID, friendID)
		default:
			h.rooms.ProcessMessage(sess.connID, sess.userName, sess.userID, messageType, msg)
		}
	}
}

func (h *Hub) authorize(c *Client, msg map[string]any) {
	sessdata := uint32(numField(msg, "sessdata"))
	id, userName, result := h.auth.Authorize(sessdata)

	res := map[string]any{"message_type": "AUTHORIZE_RES"}
	if result != auth.Success {
		res["success"] = false
		c.enqueue(mustMarshal(res))
		return
	}

	h.nextConnID++
	connID := h.nextConnID
	h.sessions[c] = &session{userID: id, userName: userName, connID: connID}
	if h.userConns[id] == nil {
		h.userConns[id] = make(map[uint32]*Client)
	}
	h.userConns[id][connID] = c

	h.mu.Lock()
	h.clients[connID] = c
	h.mu.Unlock()

	h.auth.SetOnline(id)
	log.Printf("[HUB] %s authorized on conn %d", userName, connID)

	res["success"] = true
	res["id"] = id
	res["user_name"] = userName
	c.enqueue(mustMarshal(res))
}

func (h *Hub) closeClient(c *Client) {
	sess := h.sessions[c]
	if sess != nil {
		h.rooms.ProcessClose(sess.connID, sess.userID)
		h.auth.SetOffline(sess.userID)

		delete(h.sessions, c)
		if conns := h.userConns[sess.userID]; conns != nil {
			delete(conns, sess.connID)
			if len(conns) == 0 {
				delete(h.userConns, sess.userID)
			}
		}
		h.mu.Lock()
		delete(h.clients, sess.connID)
		h.mu.Unlock()
		log.Printf("[HUB] Conn %d closed", sess.connID)
	}
}

// whisper stores a private message and fans it out to every socket of
// both ends.
func (h *Hub) whisper(sess *session, msg map[string]any) {
	receiverID := int64(numField(msg, "receiver_id"))
	if receiverID == 0 {
		return
	}

	message, _ := msg["message"].(map[string]any)
	if message == nil {
		message = make(map[string]any)
	}
	message["sender_id"] = sess.userID
	message["sender_name"] = sess.userName

	raw, err := json.Marshal(message)
	if err != nil {
		log.Printf("[HUB] Whisper marshal failed: %v", err)
		return
	}
	ts := h.history.NewChatMessage(sess.userID, receiverID, string(raw))
	h.auth.UnreadAdd(receiverID, sess.userID)

	message["timestamp"] = ts
	out := mustMarshal(map[string]any{
		"message_type": "WHISPER_MESSAGE",
		"message":      message,
	})

	h.fanOut(sess.userID, out)
	if receiverID != sess.userID {
		h.fanOut(receiverID, out)
	}
}

func (h *Hub) fanOut(userID int64, payload []byte) {
	for _, c := range h.userConns[userID] {
		c.enqueue(payload)
	}
}

// push buffers one outbound frame; the sender drains the buffer.
func (h *Hub) push(connID uint32, payload []byte) {
	h.mu.Lock()
	h.responses = append(h.responses, response{connID: connID, payload: payload})
	h.mu.Unlock()
}

func (h *Hub) runSender() {
	ticker := time.NewTicker(senderInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.flushResponses()
		case <-h.stop:
			h.flushResponses()
			return
		}
	}
}

func (h *Hub) flushResponses() {
	h.mu.Lock()
	batch := h.responses
	h.responses = nil
	targets := make([]*Client, len(batch))
	for i, res := range batch {
		targets[i] = h.clients[res.connID]
	}
	h.mu.Unlock()

	for i, res := range batch {
		if targets[i] != nil {
			targets[i].enqueue(res.payload)
		}
	}
}

func numField(msg map[string]any, key string) float64 {
	v, _ := msg[key].(float64)
	return v
}

func mustMarshal(payload map[string]any) []byte {
	raw, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return raw
}
