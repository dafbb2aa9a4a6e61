package room

import (
	"github.com/gamehall/backend/internal/game/gomoku"
)

// robotName is shown for the built-in opponent.
const robotName = "AlphaGomoku"

type gomokuSeat struct {
	userID  int64
	isBlack bool
}

type gomokuTable struct {
	room *Room
	game *gomoku.Game

	// Two seats; a zero userID on the second seat means the built-in
	// opponent.
	seats [2]gomokuSeat
}

func newGomokuTable(r *Room) *gomokuTable {
	return &gomokuTable{room: r}
}

func (t *gomokuTable) prefix() string { return "GOMOKU" }

func (t *gomokuTable) handle(connID uint32, userName string, userID int64, messageType string, payload map[string]any) {
	if t.game == nil || messageType != "GOMOKU_DROP" {
		return
	}
	r := t.room

	row := payloadInt(payload, "y")
	col := payloadInt(payload, "x")
	if !t.game.Drop(row, col, t.isBlack(userID)) {
		return
	}
	t.game.Update()
	t.sendGameInfo()
	if t.finishIfOver() {
		return
	}

	if t.game.NeedAIMove() {
		t.game.SetAIThinking(true)
		game := t.game
		r.sched.Schedule(func() func() {
			i, j := game.ComputeAIMove()
			return func() {
				game.SetAIThinking(false)
				// The room may have moved on while the search ran.
				if game != t.game || !r.isGameOn {
					return
				}
				game.Drop(i, j, false)
				game.Update()
				t.sendGameInfo()
				t.finishIfOver()
			}
		})
	}
}

func (t *gomokuTable) start() {
	r := t.room
	if len(r.conns) > 2 {
		r.broadcast(map[string]any{"type": "MORE_THAN_2_PEOPLE"}, "GOMOKU_BROADCAST")
		return
	}

	if t.game == nil {
		t.game = gomoku.New(r.rng)
	} else {
		t.game.Clear()
	}

	ids := r.sortedConnIDs()
	if len(ids) == 1 {
		t.seats[0] = gomokuSeat{userID: r.conns[ids[0]].UserID, isBlack: true}
		t.seats[1] = gomokuSeat{}
		t.game.EnableAI(true)
		r.broadcast(map[string]any{"type": "PLAY_WITH_ALGORITHM"}, "GOMOKU_BROADCAST")
	} else {
		i := r.rng.Intn(2)
		for _, connID := range ids {
			t.seats[i] = gomokuSeat{userID: r.conns[connID].UserID, isBlack: i == 1}
			i = 1 - i
		}
		t.game.EnableAI(false)
	}

	r.isGameOn = true
	r.broadcast(map[string]any{}, "GOMOKU_START")
	for _, m := range r.conns {
		m.Prepared = false
	}
	t.sendGameInfo()
	r.broadcast(r.membersInfo(), "ROOM_MEMBERS_INFO")
}

func (t *gomokuTable) resume(connID uint32, userName string, userID int64) {
	if t.game == nil {
		return
	}
	t.sendGameInfo()
}

func (t *gomokuTable) isBlack(userID int64) bool {
	if t.seats[0].userID == userID {
		return t.seats[0].isBlack
	}
	return t.seats[1].isBlack
}

func (t *gomokuTable) finishIfOver() bool {
	status := t.game.Status()
	if status == gomoku.NotEnd {
		return false
	}
	t.room.isGameOn = false
	winner := "TIED"
	switch status {
	case gomoku.BlackWin:
		winner = "BLACK"
	case gomoku.WhiteWin:
		winner = "WHITE"
	}
	t.room.broadcast(map[string]any{"winner": winner}, "GOMOKU_GAME_OVER")
	return true
}

func (t *gomokuTable) sendGameInfo() {
	r := t.room
	view := t.game.GameInfo()

	players := make([]map[string]any, 2)
	players[0] = map[string]any{
		"id":       t.seats[0].userID,
		"name":     r.userNameByID(t.seats[0].userID),
		"is_black": t.seats[0].isBlack,
	}
	if t.seats[1].userID != 0 {
		players[1] = map[string]any{
			"id":       t.seats[1].userID,
			"name":     r.userNameByID(t.seats[1].userID),
			"is_black": t.seats[1].isBlack,
		}
	} else {
		players[1] = map[string]any{
			"id":       "robot",
			"name":     robotName,
			"is_black": t.seats[1].isBlack,
		}
	}

	r.broadcast(map[string]any{
		"board":            view.Board,
		"last_drop":        view.LastDrop,
		"current_is_black": view.CurrentIsBlack,
		"players":          players,
	}, "GOMOKU_GAME_INFO")
}
