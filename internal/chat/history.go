package chat

import (
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gamehall/backend/internal/models"
)

// History is the write-behind store of private messages: new messages
// land in an in-memory cache indexed per user and are persisted in
// batches by the flusher. Safe for concurrent use; it is called from
// the hub worker and from HTTP handlers.
type History struct {
	// One mutex per database handle, taken before the cache mutex
	// whenever both are needed.
	storeMu sync.Mutex
	db      *sqlx.DB

	cacheMu sync.Mutex
	cache   []models.ChatMessage
	index   map[int64][]int

	stop chan struct{}
}

// New wires a History over the chat table. db may be nil; reads then
// serve from the cache only.
func New(db *sqlx.DB) *History {
	return &History{
		db:    db,
		index: make(map[int64][]int),
		stop:  make(chan struct{}),
	}
}

// Timestamp returns the server wall clock in seconds.
func (h *History) Timestamp() int64 {
	return time.Now().Unix()
}

// NewChatMessage appends a message to the cache, indexed under both
// ends, and returns the timestamp it was stamped with.
func (h *History) NewChatMessage(senderID, receiverID int64, message string) int64 {
	ts := h.Timestamp()

	h.cacheMu.Lock()
	h.cache = append(h.cache, models.ChatMessage{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Timestamp:  ts,
		Message:    message,
	})
	idx := len(h.cache) - 1
	h.index[senderID] = append(h.index[senderID], idx)
	h.index[receiverID] = append(h.index[receiverID], idx)
	h.cacheMu.Unlock()

	return ts
}

// record decodes a stored payload and injects the server timestamp,
// mirroring what clients sent.
func record(msg models.ChatMessage) map[string]any {
	item := make(map[string]any)
	if err := json.Unmarshal([]byte(msg.Message), &item); err != nil {
		item = map[string]any{"message": msg.Message}
	}
	item["timestamp"] = msg.Timestamp
	return item
}

// GetChatMessages returns messages older than before, grouped by peer
// id. Every cache hit is returned; the store contributes at most the
// 20 newest rows per peer.
func (h *History) GetChatMessages(userID, before int64) map[string][]map[string]any {
	res := make(map[string][]map[string]any)

	h.cacheMu.Lock()
	for _, idx := range h.index[userID] {
		msg := h.cache[idx]
		if msg.Timestamp >= before {
			continue
		}
		friendID := msg.SenderID
		if friendID == userID {
			friendID = msg.ReceiverID
		}
		key := strconv.FormatInt(friendID, 10)
		res[key] = append(res[key], record(msg))
	}
	h.cacheMu.Unlock()

	if h.db == nil {
		return res
	}

	h.storeMu.Lock()
	defer h.storeMu.Unlock()

	var peers []int64
	err := h.db.Select(&peers, `
		SELECT DISTINCT receiver_id FROM chat_messages WHERE sender_id=$1
		UNION
		SELECT DISTINCT sender_id FROM chat_messages WHERE receiver_id=$1`, userID)
	if err != nil {
		log.Printf("[CHAT] Peer scan failed: %v", err)
		return res
	}

	for _, peer := range peers {
		rows := []models.ChatMessage{}
		err := h.db.Select(&rows, `
			SELECT sender_id, receiver_id, timestamp, message FROM chat_messages
			WHERE ((sender_id=$1 AND receiver_id=$2) OR (receiver_id=$1 AND sender_id=$2))
			  AND timestamp < $3
			ORDER BY timestamp DESC
			LIMIT 20`, userID, peer, before)
		if err != nil {
			log.Printf("[CHAT] History query failed: %v", err)
			continue
		}
		key := strconv.FormatInt(peer, 10)
		for _, msg := range rows {
			res[key] = append(res[key], record(msg))
		}
	}
	return res
}

// Get20ChatMessages returns the 20 newest persisted messages with one
// peer older than before.
func (h *History) Get20ChatMessages(userID, friendID, before int64) []map[string]any {
	res := []map[string]any{}
	if h.db == nil {
		return res
	}

	h.storeMu.Lock()
	defer h.storeMu.Unlock()

	rows := []models.ChatMessage{}
	err := h.db.Select(&rows, `
		SELECT sender_id, receiver_id, timestamp, message FROM chat_messages
		WHERE ((sender_id=$1 AND receiver_id=$2) OR (receiver_id=$1 AND sender_id=$2))
		  AND timestamp < $3
		ORDER BY timestamp DESC
		LIMIT 20`, userID, friendID, before)
	if err != nil {
		log.Printf("[CHAT] History query failed: %v", err)
		return res
	}
	for _, msg := range rows {
		res = append(res, record(msg))
	}
	return res
}

// Flush persists the cache in one transaction and truncates it.
// Entries are lost on a crash inside the flush window; that is the
// accepted durability trade.
func (h *History) Flush() {
	if h.db == nil {
		return
	}

	h.storeMu.Lock()
	defer h.storeMu.Unlock()
	h.cacheMu.Lock()
	defer h.cacheMu.Unlock()

	if len(h.cache) == 0 {
		return
	}

	tx, err := h.db.Beginx()
	if err != nil {
		log.Printf("[CHAT] Flush begin failed: %v", err)
		return
	}
	defer tx.Rollback()
	for _, msg := range h.cache {
		if _, err := tx.Exec(`INSERT INTO chat_messages (sender_id, receiver_id, timestamp, message) VALUES ($1,$2,$3,$4)`,
			msg.SenderID, msg.ReceiverID, msg.Timestamp, msg.Message); err != nil {
			log.Printf("[CHAT] Flush insert failed: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("[CHAT] Flush commit failed: %v", err)
		return
	}

	log.Printf("[CHAT] Flushed %d messages", len(h.cache))
	h.cache = h.cache[:0]
	h.index = make(map[int64][]int)
}

// StartFlusher persists the cache on the given cadence until Stop is
// called.
func (h *History) StartFlusher(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.Flush()
			case <-h.stop:
				h.Flush()
				return
			}
		}
	}()
}

// Stop shuts down the background flusher, flushing once more.
func (h *History) Stop() {
	close(h.stop)
}
