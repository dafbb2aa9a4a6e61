package uno

import "math/rand"

// Player holds one seat's cards and turn-local flags.
type Player struct {
	UserName string
	Hand     []Card

	// Snapshot of the hand at the moment a WILD_DRAW_4 was played,
	// kept for suspect resolution.
	handWhenWildDraw4 []Card

	drawnOne bool
	lastDrew Card
	saidUno  bool
}

// Game is the UNO rules engine. It is not safe for concurrent use; the
// caller serializes all operations.
type Game struct {
	players []Player
	rng     *rand.Rand

	// deck holds draw pile and discard in one queue: draws pop the
	// head, played cards are pushed on the tail, so the tail is the
	// upcard.
	deck []Card

	lastColor   CardColor
	lastContent CardContent

	// The top of the discard before the pending WILD_DRAW_4, used to
	// decide whether the suspect succeeds.
	cardBeforeWildDraw4 Card

	reversed      bool
	waitSuspect   bool
	nextPlayerIdx int
}

// New deals a fresh game for the given seats, in seat order.
func New(userNames []string, rng *rand.Rand) *Game {
	g := &Game{
		players: make([]Player, 0, len(userNames)),
		rng:     rng,
	}
	for _, name := range userNames {
		g.players = append(g.players, Player{UserName: name})
	}
	g.init()
	return g
}

func (g *Game) init() {
	cards := allCards()
	g.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	g.deck = cards

	g.nextPlayerIdx = g.rng.Intn(len(g.players))

	for i := range g.players {
		p := &g.players[i]
		p.Hand = p.Hand[:0]
		p.drawnOne = false
		p.saidUno = false
		for j := 0; j < 7; j++ {
			p.Hand = append(p.Hand, g.drawCard())
		}
	}

	// Rotate until the upcard is numeric so the game never opens on a
	// function card.
	for !g.LastCard().IsNumber() {
		g.deck = append(g.deck[1:], g.deck[0])
	}

	g.lastColor = g.LastCard().Color
	g.lastContent = g.LastCard().Content
	g.reversed = false
	g.waitSuspect = false
}

func (g *Game) drawCard() Card {
	card := g.deck[0]
	g.deck = g.deck[1:]
	return card
}

// give deals count cards to the player and returns the last one dealt.
func (g *Game) give(p *Player, count int) Card {
	var card Card
	for i := 0; i < count; i++ {
		card = g.drawCard()
		p.Hand = append(p.Hand, card)
	}
	return card
}

// LastCard returns the upcard.
func (g *Game) LastCard() Card {
	return g.deck[len(g.deck)-1]
}

// NextPlayer returns the user name whose turn it is.
func (g *Game) NextPlayer() string {
	return g.players[g.nextPlayerIdx].UserName
}

// SpecifiedColor returns the color that must currently be followed.
func (g *Game) SpecifiedColor() CardColor {
	return g.lastColor
}

// Direction reports whether play order is reversed.
func (g *Game) Direction() bool {
	return g.reversed
}

// Players exposes the seats for snapshot building.
func (g *Game) Players() []Player {
	return g.players
}

// PlayerCardCount returns the hand size of the named player, or 0 if
// the player is not seated.
func (g *Game) PlayerCardCount(userName string) int {
	for i := range g.players {
		if g.players[i].UserName == userName {
			return len(g.players[i].Hand)
		}
	}
	return 0
}

func (g *Game) next() {
	if g.reversed {
		g.nextPlayerIdx++
	} else {
		g.nextPlayerIdx--
	}
	g.nextPlayerIdx = (g.nextPlayerIdx + len(g.players)) % len(g.players)
}

func (p *Player) holds(card Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

func (p *Player) remove(card Card) {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return
		}
	}
}

// Play attempts to play a card for the named player. specifiedColor is
// honored only for wilds. punish reports a forgotten say-UNO penalty.
func (g *Game) Play(playerName string, card Card, specifiedColor CardColor, punish *bool) bool {
	*punish = false
	if g.waitSuspect {
		return false
	}

	ok := card.IsWild() ||
		card.Color == g.lastColor || card.Content == g.lastContent
	if !ok {
		return false
	}

	player := &g.players[g.nextPlayerIdx]
	if playerName != player.UserName {
		return false
	}
	if !player.holds(card) {
		return false
	}

	// After drawing a card, only that card may be played.
	if player.drawnOne && player.lastDrew != card {
		return false
	}
	player.drawnOne = false

	if card.Content == WildDraw4 {
		player.handWhenWildDraw4 = append([]Card(nil), player.Hand...)
	}

	g.deck = append(g.deck, card)
	player.remove(card)

	if len(player.Hand) == 1 && !player.saidUno {
		*punish = true
		g.give(player, 2)
	}
	player.saidUno = false

	if card.Content == Reverse {
		g.reversed = !g.reversed
	}

	g.next()

	switch card.Content {
	case Draw2:
		g.give(&g.players[g.nextPlayerIdx], 2)
		g.next()
	case Skip:
		g.next()
	case WildDraw4:
		g.waitSuspect = true
		g.cardBeforeWildDraw4 = Card{g.lastColor, g.lastContent}
	}

	if card.IsWild() {
		g.lastColor = specifiedColor
	} else {
		g.lastColor = card.Color
	}
	g.lastContent = card.Content

	return true
}

// DrawOne draws a single card for the current player. punish reports a
// stale say-UNO penalty; card receives the drawn card on success.
func (g *Game) DrawOne(playerName string, punish *bool, card *Card) bool {
	*punish = false
	if g.waitSuspect {
		return false
	}

	player := &g.players[g.nextPlayerIdx]
	if playerName != player.UserName {
		return false
	}
	if player.drawnOne {
		return false
	}
	if player.saidUno {
		*punish = true
		g.give(player, 2)
		player.saidUno = false
	}

	player.drawnOne = true
	player.lastDrew = g.give(player, 1)
	*card = player.lastDrew
	return true
}

// SkipAfterDrawingOne passes the turn after a draw the player chose not
// to play.
func (g *Game) SkipAfterDrawingOne(playerName string) bool {
	if g.waitSuspect {
		return false
	}

	player := &g.players[g.nextPlayerIdx]
	if playerName != player.UserName {
		return false
	}
	if !player.drawnOne {
		return false
	}

	player.drawnOne = false
	g.next()
	return true
}

// SayUno declares UNO. Legal only for the current player holding exactly
// two cards; any other caller eats a two-card penalty.
func (g *Game) SayUno(playerName string) bool {
	player := &g.players[g.nextPlayerIdx]
	if playerName != player.UserName {
		for i := range g.players {
			if g.players[i].UserName == playerName {
				g.give(&g.players[i], 2)
				return false
			}
		}
		return false
	}
	if len(player.Hand) != 2 {
		g.give(player, 2)
		return false
	}
	player.saidUno = true
	return true
}

// Suspect resolves a pending WILD_DRAW_4 challenge by the player about
// to draw. On success the wild's player draws 4; on failure the caller
// draws 6 and loses the turn. It returns the suspected player's current
// hand for disclosure, with valid=false when the call itself was
// illegal.
func (g *Game) Suspect(playerName string, success *bool, valid *bool, suspectName *string) []Card {
	*valid = true
	if !g.waitSuspect {
		*valid = false
		return nil
	}
	player := &g.players[g.nextPlayerIdx]
	sus := g.lastPlayer()
	if playerName != player.UserName {
		*valid = false
		return nil
	}

	*success = false
	prior := g.cardBeforeWildDraw4
	for _, card := range sus.handWhenWildDraw4 {
		if card.Color == prior.Color ||
			(prior.Content != Wild && prior.Content != WildDraw4 &&
				card.Content == prior.Content) {
			*success = true
			break
		}
	}
	if *success {
		g.give(sus, 4)
	} else {
		g.give(player, 6)
		g.next()
	}
	g.waitSuspect = false
	*suspectName = sus.UserName
	return sus.Hand
}

// Dissuspect accepts the pending WILD_DRAW_4: draw 4 and pass.
func (g *Game) Dissuspect(playerName string) bool {
	if !g.waitSuspect {
		return false
	}
	player := &g.players[g.nextPlayerIdx]
	if playerName != player.UserName {
		return false
	}
	g.give(player, 4)
	g.next()
	g.waitSuspect = false
	return true
}

// lastPlayer returns the seat the cursor just left.
func (g *Game) lastPlayer() *Player {
	idx := g.nextPlayerIdx + 1
	if g.reversed {
		idx = g.nextPlayerIdx - 1
	}
	return &g.players[(idx+len(g.players))%len(g.players)]
}

// CheckWinner reports the first player with an empty hand.
func (g *Game) CheckWinner(winner *string) bool {
	for i := range g.players {
		if len(g.players[i].Hand) == 0 {
			*winner = g.players[i].UserName
			return true
		}
	}
	return false
}
