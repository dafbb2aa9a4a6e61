package room

import (
	"github.com/gamehall/backend/internal/game/uno"
)

type unoTable struct {
	room *Room
	game *uno.Game
}

func newUnoTable(r *Room) *unoTable {
	return &unoTable{room: r}
}

func (t *unoTable) prefix() string { return "UNO" }

func (t *unoTable) handle(connID uint32, userName string, userID int64, messageType string, payload map[string]any) {
	if t.game == nil {
		return
	}
	r := t.room

	switch messageType {
	case "UNO_PLAY":
		code := payloadInt(payload, "card")
		card := uno.CardFromCode(code)
		var punish bool
		ok := t.game.Play(
			userName,
			card,
			uno.CardColor(payloadInt(payload, "specified_color")),
			&punish,
		)
		if ok {
			t.sendCardsInHand()
			t.sendGameInfo()
			if card.Content == uno.WildDraw4 {
				r.broadcast(map[string]any{
					"user_name": userName,
					"object":    t.game.NextPlayer(),
					"type":      "WILD_DRAW_4",
				}, "UNO_BROADCAST")
			}
			if punish {
				r.broadcast(map[string]any{
					"user_name": userName,
					"type":      "DIDNT_SAY_UNO",
				}, "UNO_BROADCAST")
			}
			r.broadcast(map[string]any{"last_card": code}, "UNO_LAST_CARD")
		}

		var winner string
		if t.game.CheckWinner(&winner) {
			r.broadcast(map[string]any{
				"winner": map[string]any{
					"id":   r.userIDByName(winner),
					"name": winner,
				},
				"result": t.gameResult(),
			}, "UNO_GAMEOVER")
			r.isGameOn = false
			r.broadcast(r.membersInfo(), "ROOM_MEMBERS_INFO")
		}

	case "UNO_DRAW_ONE":
		var punish bool
		var card uno.Card
		if t.game.DrawOne(userName, &punish, &card) {
			t.sendGameInfo()
			r.send(connID, map[string]any{
				"message_type": "UNO_DRAW_ONE_RES",
				"success":      true,
				"card":         card.Code(),
			})
		}
		if punish {
			r.broadcast(map[string]any{
				"user_name": userName,
				"type":      "SAID_UNO_BUT_DIDNT_PLAY",
			}, "UNO_BROADCAST")
		}

	case "UNO_SKIP_AFTER_DRAWING_ONE":
		if t.game.SkipAfterDrawingOne(userName) {
			t.sendGameInfo()
			t.sendCardsInHand()
		}

	case "UNO_SAY_UNO":
		res := map[string]any{"user_name": userName}
		if t.game.SayUno(userName) {
			res["type"] = "SAY_UNO"
		} else {
			res["type"] = "MISSAY_UNO"
			t.sendCardsInHand()
			t.sendGameInfo()
		}
		r.broadcast(res, "UNO_BROADCAST")

	case "UNO_SUSPECT":
		var success, valid bool
		var suspectName string
		cards := t.game.Suspect(userName, &success, &valid, &suspectName)
		if valid {
			codes := make([]int, 0, len(cards))
			for _, c := range cards {
				codes = append(codes, c.Code())
			}
			r.send(connID, map[string]any{
				"message_type": "UNO_SUSPECT_CARDS",
				"cards":        codes,
			})
			r.broadcast(map[string]any{
				"user_name": userName,
				"suspect":   suspectName,
				"type":      "SUSPECT",
				"success":   success,
			}, "UNO_BROADCAST")
			t.sendCardsInHand()
			t.sendGameInfo()
		}

	case "UNO_DISSUSPECT":
		if t.game.Dissuspect(userName) {
			t.sendCardsInHand()
			t.sendGameInfo()
		}
	}
}

func (t *unoTable) start() {
	r := t.room
	if len(r.conns) < 3 {
		r.broadcast(map[string]any{"type": "LESS_THAN_3_PEOPLE"}, "UNO_BROADCAST")
		return
	}
	if len(r.conns) > 10 {
		r.broadcast(map[string]any{"type": "MORE_THAN_10_PEOPLE"}, "UNO_BROADCAST")
		return
	}

	r.isGameOn = true
	names := make([]string, 0, len(r.conns))
	for _, id := range r.sortedConnIDs() {
		names = append(names, r.conns[id].UserName)
	}
	t.game = uno.New(names, r.rng)

	r.broadcast(map[string]any{}, "UNO_START")
	for _, m := range r.conns {
		m.Prepared = false
	}
	t.sendCardsInHand()
	t.sendGameInfo()
	r.broadcast(r.membersInfo(), "ROOM_MEMBERS_INFO")
}

func (t *unoTable) resume(connID uint32, userName string, userID int64) {
	if t.game == nil {
		return
	}
	t.sendCardsInHand()
	t.sendGameInfo()
}

// sendCardsInHand delivers each seat its private hand.
func (t *unoTable) sendCardsInHand() {
	r := t.room
	r.eachOnline(func(connID uint32, m *Membership) {
		for _, p := range t.game.Players() {
			if p.UserName != m.UserName {
				continue
			}
			codes := make([]int, 0, len(p.Hand))
			for _, c := range p.Hand {
				codes = append(codes, c.Code())
			}
			r.send(connID, map[string]any{
				"message_type": "UNO_CARDS_IN_HAND",
				"cards":        codes,
			})
			break
		}
	})
}

func (t *unoTable) sendGameInfo() {
	t.room.broadcast(t.gameInfo(), "UNO_GAME_INFO")
}

func (t *unoTable) gameInfo() map[string]any {
	players := []map[string]any{}
	for _, p := range t.game.Players() {
		players = append(players, map[string]any{
			"name":  p.UserName,
			"id":    t.room.userIDByName(p.UserName),
			"count": len(p.Hand),
		})
	}
	return map[string]any{
		"last_card":       t.game.LastCard().Code(),
		"next_player":     t.game.NextPlayer(),
		"specified_color": int(t.game.SpecifiedColor()),
		"direction":       t.game.Direction(),
		"players":         players,
	}
}

// gameResult reveals every hand for the game-over screen.
func (t *unoTable) gameResult() map[string]any {
	players := []map[string]any{}
	for _, p := range t.game.Players() {
		codes := make([]int, 0, len(p.Hand))
		for _, c := range p.Hand {
			codes = append(codes, c.Code())
		}
		players = append(players, map[string]any{
			"name":  p.UserName,
			"id":    t.room.userIDByName(p.UserName),
			"cards": codes,
			"count": len(p.Hand),
		})
	}
	return map[string]any{
		"last_card": t.game.LastCard().Code(),
		"players":   players,
	}
}
