package room

import (
	"github.com/gamehall/backend/internal/game/splendor"
)

type splendorTable struct {
	room *Room
	game *splendor.Game
}

func newSplendorTable(r *Room) *splendorTable {
	return &splendorTable{room: r}
}

func (t *splendorTable) prefix() string { return "SPLENDOR" }

func (t *splendorTable) handle(connID uint32, userName string, userID int64, messageType string, payload map[string]any) {
	if t.game == nil {
		return
	}

	switch messageType {
	case "SPLENDOR_TAKE_2":
		if t.game.Take2Mines(splendor.Mine(payloadInt(payload, "mine")), userID) {
			t.sendGameInfo()
		}

	case "SPLENDOR_TAKE_3":
		mines := payloadIntSlice(payload, "mines")
		if len(mines) != 3 {
			return
		}
		picked := [3]splendor.Mine{
			splendor.Mine(mines[0]),
			splendor.Mine(mines[1]),
			splendor.Mine(mines[2]),
		}
		if t.game.Take3Mines(picked, userID) {
			t.sendGameInfo()
		}

	case "SPLENDOR_BUY_COUPON":
		if t.game.BuyCoupon(payloadInt(payload, "coupon_idx"), userID) {
			t.sendGameInfo()
			t.checkGameOver()
		}

	case "SPLENDOR_RESERVE_COUPON":
		if t.game.ReserveCoupon(payloadInt(payload, "coupon_idx"), userID) {
			t.sendGameInfo()
		}

	case "SPLENDOR_BUY_RESERVED_COUPON":
		if t.game.BuyReservedCoupon(payloadInt(payload, "coupon_idx"), userID) {
			t.sendGameInfo()
			t.checkGameOver()
		}

	case "SPLENDOR_RETURN_MINE":
		if t.game.ReturnMine(splendor.Mine(payloadInt(payload, "mine")), userID) {
			t.sendGameInfo()
		}
	}
}

func (t *splendorTable) start() {
	r := t.room
	if len(r.conns) < 2 {
		r.broadcast(map[string]any{"type": "LESS_THAN_2_PEOPLE"}, "SPLENDOR_BROADCAST")
		return
	}
	if len(r.conns) > 4 {
		r.broadcast(map[string]any{"type": "MORE_THAN_4_PEOPLE"}, "SPLENDOR_BROADCAST")
		return
	}

	r.isGameOn = true
	ids := make([]int64, 0, len(r.conns))
	for _, connID := range r.sortedConnIDs() {
		ids = append(ids, r.conns[connID].UserID)
	}
	t.game = splendor.New(ids, r.rng)

	r.broadcast(map[string]any{}, "SPLENDOR_START")
	for _, m := range r.conns {
		m.Prepared = false
	}
	t.sendGameInfo()
	r.broadcast(r.membersInfo(), "ROOM_MEMBERS_INFO")
}

func (t *splendorTable) resume(connID uint32, userName string, userID int64) {
	if t.game == nil {
		return
	}
	t.sendGameInfo()
}

func (t *splendorTable) checkGameOver() {
	var winner int64
	if !t.game.CheckWinner(&winner) {
		return
	}
	t.room.isGameOn = false
	t.sendGameResult(winner)
}

// sendGameInfo delivers the table snapshot plus each seat's private
// view.
func (t *splendorTable) sendGameInfo() {
	r := t.room
	info := t.gameInfo()
	r.eachOnline(func(connID uint32, m *Membership) {
		r.send(connID, map[string]any{
			"message_type": "SPLENDOR_GAME_INFO",
			"info":         t.withPlayerInfo(info, m.UserID),
		})
	})
}

func (t *splendorTable) sendGameResult(winner int64) {
	r := t.room
	info := t.gameInfo()
	r.eachOnline(func(connID uint32, m *Membership) {
		r.send(connID, map[string]any{
			"message_type": "SPLENDOR_GAME_OVER",
			"info":         t.withPlayerInfo(info, m.UserID),
			"winner_id":    winner,
			"winner_name":  r.userNameByID(winner),
		})
	})
}

func (t *splendorTable) withPlayerInfo(info map[string]any, userID int64) map[string]any {
	view, ok := t.game.PlayerInfo(userID)
	if !ok {
		return info
	}
	out := make(map[string]any, len(info)+1)
	for k, v := range info {
		out[k] = v
	}
	out["player_info"] = view
	return out
}

func (t *splendorTable) gameInfo() map[string]any {
	view := t.game.GameInfo()
	players := make([]map[string]any, 0, len(view.Players))
	for _, p := range view.Players {
		players = append(players, map[string]any{
			"name":             t.room.userNameByID(p.ID),
			"id":               p.ID,
			"coupons":          p.Coupons,
			"reserved_coupons": p.ReservedCoupons,
			"coupon_count":     p.CouponCount,
			"mine_count":       p.MineCount,
			"reputation":       p.Reputation,
			"status":           p.Status,
		})
	}
	return map[string]any{
		"allies":     view.Allies,
		"coupon_lv1": view.CouponLv1,
		"coupon_lv2": view.CouponLv2,
		"coupon_lv3": view.CouponLv3,
		"bank":       view.Bank,
		"players":    players,
	}
}
