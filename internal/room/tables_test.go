package room

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prepare(r *Room, connID uint32, name string, id int64) {
	r.ProcessMessage(connID, name, id, "GAME_PREPARE", map[string]any{"prepare": true})
}

func cardCodes(frame map[string]any) []int {
	raw, _ := frame["cards"].([]any)
	out := make([]int, 0, len(raw))
	for _, c := range raw {
		out = append(out, int(c.(float64)))
	}
	return out
}

func TestUnoStartRequiresThree(t *testing.T) {
	r, rec, _ := newTestRoom(TypeUno, "")
	join(r, 1, "alice", 1)
	join(r, 2, "bob", 2)

	prepare(r, 1, "alice", 1)
	prepare(r, 2, "bob", 2)

	frame := rec.lastOfType(1, "UNO_BROADCAST")
	require.NotNil(t, frame)
	assert.Equal(t, "LESS_THAN_3_PEOPLE", frame["type"])
	assert.False(t, r.IsGameOn())
}

func startUnoGame(t *testing.T) (*Room, *recorder) {
	t.Helper()
	r, rec, _ := newTestRoom(TypeUno, "")
	join(r, 1, "alice", 1)
	join(r, 2, "bob", 2)
	join(r, 3, "carol", 3)
	prepare(r, 1, "alice", 1)
	prepare(r, 2, "bob", 2)
	prepare(r, 3, "carol", 3)
	require.True(t, r.IsGameOn())
	return r, rec
}

func TestUnoStartDealsHands(t *testing.T) {
	_, rec := startUnoGame(t)

	for _, connID := range []uint32{1, 2, 3} {
		require.NotNil(t, rec.lastOfType(connID, "UNO_START"))
		hand := rec.lastOfType(connID, "UNO_CARDS_IN_HAND")
		require.NotNil(t, hand)
		assert.Len(t, cardCodes(hand), 7)
	}

	info := rec.lastOfType(1, "UNO_GAME_INFO")
	require.NotNil(t, info)
	players := info["players"].([]any)
	require.Len(t, players, 3)
	for _, p := range players {
		assert.Equal(t, float64(7), p.(map[string]any)["count"])
	}

	// Preparation flags reset for the next round.
	members := membersOf(rec.lastOfType(1, "ROOM_MEMBERS_INFO"))
	for _, m := range members {
		assert.Equal(t, false, m["prepared"])
	}
}

func TestUnoReconnectKeepsHand(t *testing.T) {
	r, rec := startUnoGame(t)

	before := cardCodes(rec.lastOfType(2, "UNO_CARDS_IN_HAND"))
	newMembersBefore := len(rec.byType(1, "NEW_MEMBER"))

	r.ProcessClose(2)
	r.ProcessMessage(99, "bob", 2, "JOIN_ROOM", map[string]any{"password": ""})

	res := rec.lastOfType(99, "JOIN_ROOM_RES")
	require.NotNil(t, res)
	assert.Equal(t, true, res["success"])

	// A reconnect is not a new member.
	assert.Equal(t, newMembersBefore, len(rec.byType(1, "NEW_MEMBER")))

	after := cardCodes(rec.lastOfType(99, "UNO_CARDS_IN_HAND"))
	assert.Equal(t, before, after)
	require.NotNil(t, rec.lastOfType(99, "UNO_GAME_INFO"))

	members := membersOf(rec.lastOfType(1, "ROOM_MEMBERS_INFO"))
	for _, m := range members {
		if m["name"] == "bob" {
			assert.Equal(t, false, m["offline"])
		}
	}
}

func TestUnoStrangerCannotJoinDuringGame(t *testing.T) {
	r, rec := startUnoGame(t)

	r.ProcessMessage(50, "dave", 4, "JOIN_ROOM", map[string]any{"password": ""})

	res := rec.lastOfType(50, "JOIN_ROOM_RES")
	require.NotNil(t, res)
	assert.Equal(t, false, res["success"])
}

func TestGomokuSoloPlaysRobot(t *testing.T) {
	r, rec, sched := newTestRoom(TypeGomoku, "")
	join(r, 1, "alice", 1)
	prepare(r, 1, "alice", 1)

	require.True(t, r.IsGameOn())
	frame := rec.lastOfType(1, "GOMOKU_BROADCAST")
	require.NotNil(t, frame)
	assert.Equal(t, "PLAY_WITH_ALGORITHM", frame["type"])

	info := rec.lastOfType(1, "GOMOKU_GAME_INFO")
	require.NotNil(t, info)
	players := info["players"].([]any)
	require.Len(t, players, 2)
	assert.Equal(t, true, players[0].(map[string]any)["is_black"])
	assert.Equal(t, robotName, players[1].(map[string]any)["name"])

	r.ProcessMessage(1, "alice", 1, "GOMOKU_DROP", map[string]any{"x": float64(7), "y": float64(7)})
	require.Len(t, sched.pending, 1, "search queued after the human move")
	sched.RunAll()

	info = rec.lastOfType(1, "GOMOKU_GAME_INFO")
	board := info["board"].([]any)
	whites := 0
	for _, row := range board {
		whites += strings.Count(row.(string), "w")
	}
	assert.Equal(t, 1, whites, "the robot answered with one stone")
	assert.Equal(t, true, info["current_is_black"])
}

func TestGomokuTwoPlayersNoRobot(t *testing.T) {
	r, rec, sched := newTestRoom(TypeGomoku, "")
	join(r, 1, "alice", 1)
	join(r, 2, "bob", 2)
	prepare(r, 1, "alice", 1)
	prepare(r, 2, "bob", 2)

	require.True(t, r.IsGameOn())
	if f := rec.lastOfType(1, "GOMOKU_BROADCAST"); f != nil {
		assert.NotEqual(t, "PLAY_WITH_ALGORITHM", f["type"])
	}

	tbl := r.tbl.(*gomokuTable)
	blackID := tbl.seats[0].userID
	if !tbl.seats[0].isBlack {
		blackID = tbl.seats[1].userID
	}
	blackConn := uint32(blackID)
	blackName := r.userNameByID(blackID)

	r.ProcessMessage(blackConn, blackName, blackID, "GOMOKU_DROP", map[string]any{"x": float64(3), "y": float64(4)})

	assert.Empty(t, sched.pending, "no search in a two-player game")
	info := rec.lastOfType(1, "GOMOKU_GAME_INFO")
	board := info["board"].([]any)
	assert.Equal(t, byte('b'), board[4].(string)[3])
	assert.Equal(t, false, info["current_is_black"])
}

func TestGomokuRejectsThree(t *testing.T) {
	r, rec, _ := newTestRoom(TypeGomoku, "")
	join(r, 1, "alice", 1)
	join(r, 2, "bob", 2)
	join(r, 3, "carol", 3)
	prepare(r, 1, "alice", 1)
	prepare(r, 2, "bob", 2)
	prepare(r, 3, "carol", 3)

	frame := rec.lastOfType(1, "GOMOKU_BROADCAST")
	require.NotNil(t, frame)
	assert.Equal(t, "MORE_THAN_2_PEOPLE", frame["type"])
	assert.False(t, r.IsGameOn())
}

func startSplendorGame(t *testing.T) (*Room, *recorder, *splendorTable) {
	t.Helper()
	r, rec, _ := newTestRoom(TypeSplendor, "")
	join(r, 1, "alice", 1)
	join(r, 2, "bob", 2)
	prepare(r, 1, "alice", 1)
	prepare(r, 2, "bob", 2)
	require.True(t, r.IsGameOn())
	return r, rec, r.tbl.(*splendorTable)
}

func TestSplendorStartSendsPrivateViews(t *testing.T) {
	_, rec, _ := startSplendorGame(t)

	for _, connID := range []uint32{1, 2} {
		require.NotNil(t, rec.lastOfType(connID, "SPLENDOR_START"))
		frame := rec.lastOfType(connID, "SPLENDOR_GAME_INFO")
		require.NotNil(t, frame)
		info := frame["info"].(map[string]any)

		assert.Len(t, info["coupon_lv1"].([]any), 4)
		assert.Len(t, info["allies"].([]any), 3)

		player := info["player_info"].(map[string]any)
		assert.Equal(t, float64(connID), player["id"])
	}
}

func TestSplendorTakeThreeAdvancesState(t *testing.T) {
	r, rec, tbl := startSplendorGame(t)

	actorID := tbl.game.CurrentPlayer()
	actorConn := uint32(actorID)
	r.ProcessMessage(actorConn, r.userNameByID(actorID), actorID, "SPLENDOR_TAKE_3", map[string]any{
		"mines": []any{float64(0), float64(1), float64(2)},
	})

	frame := rec.lastOfType(actorConn, "SPLENDOR_GAME_INFO")
	require.NotNil(t, frame)
	info := frame["info"].(map[string]any)

	bank := info["bank"].([]any)
	assert.Equal(t, float64(3), bank[0])
	assert.Equal(t, float64(3), bank[1])
	assert.Equal(t, float64(3), bank[2])

	assert.NotEqual(t, actorID, tbl.game.CurrentPlayer(), "turn passed on")
}
