package splendor

import (
	"math/rand"
	"sort"
)

// Status is the phase a player is in.
type Status string

const (
	StatusWaiting        Status = "WAITING"
	StatusAction         Status = "ACTION"
	StatusNeedReturnMine Status = "NEED_RETURN_MINE"
	StatusChooseAlly     Status = "CHOOSE_ALLY"
)

// Player is one seat's holdings. CouponCount is the per-color discount
// earned from owned coupons; MineCount includes the gold wilds.
type Player struct {
	Coupons         []Coupon `json:"coupons"`
	ReservedCoupons []Coupon `json:"reserved_coupons"`
	CouponCount     [5]int   `json:"coupon_count"`
	MineCount       [6]int   `json:"mine_count"`
	Reputation      int      `json:"reputation"`
	Status          Status   `json:"status"`
}

// TotalMineCount sums the player's minerals including gold.
func (p *Player) TotalMineCount() int {
	cnt := 0
	for _, c := range p.MineCount {
		cnt += c
	}
	return cnt
}

// PlayerView is a player snapshot tagged with its user id.
type PlayerView struct {
	*Player
	ID int64 `json:"id"`
}

// GameView is the full table snapshot.
type GameView struct {
	Allies    []Ally       `json:"allies"`
	CouponLv1 []Coupon     `json:"coupon_lv1"`
	CouponLv2 []Coupon     `json:"coupon_lv2"`
	CouponLv3 []Coupon     `json:"coupon_lv3"`
	Bank      [6]int       `json:"bank"`
	Players   []PlayerView `json:"players"`
}

// Game is the gem engagement engine. Not safe for concurrent use; the
// caller serializes all operations. Turn order is ascending user id.
type Game struct {
	bank [6]int

	// faceUp holds the 12 visible slots (4 per tier); rest is the
	// face-down remainder per tier, refilled in order.
	faceUp []Coupon
	rest   []Coupon

	allies []Ally

	players map[int64]*Player
	order   []int64
}

// New sets up a table for the given players (2 to 4).
func New(playerIDs []int64, rng *rand.Rand) *Game {
	g := &Game{
		players: make(map[int64]*Player, len(playerIDs)),
		order:   append([]int64(nil), playerIDs...),
	}
	sort.Slice(g.order, func(i, j int) bool { return g.order[i] < g.order[j] })
	for _, id := range g.order {
		g.players[id] = &Player{Status: StatusWaiting}
	}
	g.players[g.order[rng.Intn(len(g.order))]].Status = StatusAction

	switch len(playerIDs) {
	case 2:
		g.bank = [6]int{4, 4, 4, 4, 4, 0}
	case 3:
		g.bank = [6]int{5, 5, 5, 5, 5, 0}
	default:
		g.bank = [6]int{7, 7, 7, 7, 7, 0}
	}
	g.bank[Gold] = 5

	allies := allAllies()
	rng.Shuffle(len(allies), func(i, j int) {
		allies[i], allies[j] = allies[j], allies[i]
	})
	g.allies = allies[:len(playerIDs)+1]

	for _, tier := range [][]Coupon{allCouponsLv1(), allCouponsLv2(), allCouponsLv3()} {
		rng.Shuffle(len(tier), func(i, j int) {
			tier[i], tier[j] = tier[j], tier[i]
		})
		g.faceUp = append(g.faceUp, tier[:4]...)
		g.rest = append(g.rest, tier[4:]...)
	}
	return g
}

// GameInfo builds the full-table snapshot.
func (g *Game) GameInfo() GameView {
	view := GameView{
		Allies: g.allies,
		Bank:   g.bank,
	}
	for _, c := range g.faceUp {
		switch c.Level {
		case 1:
			view.CouponLv1 = append(view.CouponLv1, c)
		case 2:
			view.CouponLv2 = append(view.CouponLv2, c)
		case 3:
			view.CouponLv3 = append(view.CouponLv3, c)
		}
	}
	for _, id := range g.order {
		view.Players = append(view.Players, PlayerView{Player: g.players[id], ID: id})
	}
	return view
}

// PlayerInfo returns a single player's snapshot.
func (g *Game) PlayerInfo(playerID int64) (PlayerView, bool) {
	p, ok := g.players[playerID]
	if !ok {
		return PlayerView{}, false
	}
	return PlayerView{Player: p, ID: playerID}, true
}

// Bank exposes the current bank piles.
func (g *Game) Bank() [6]int {
	return g.bank
}

// CurrentPlayer returns the id whose status is ACTION or
// NEED_RETURN_MINE.
func (g *Game) CurrentPlayer() int64 {
	for _, id := range g.order {
		if s := g.players[id].Status; s == StatusAction || s == StatusNeedReturnMine {
			return id
		}
	}
	return 0
}

// advance hands the turn to the next player in ascending-id order.
func (g *Game) advance(fromID int64) {
	g.players[fromID].Status = StatusWaiting
	for i, id := range g.order {
		if id == fromID {
			g.players[g.order[(i+1)%len(g.order)]].Status = StatusAction
			return
		}
	}
}

// endAction finishes a take/reserve action: overloaded players must
// return minerals before the turn passes.
func (g *Game) endAction(id int64, p *Player) {
	if p.TotalMineCount() > 10 {
		p.Status = StatusNeedReturnMine
	} else {
		g.advance(id)
	}
}

// Take3Mines takes one mineral each of three distinct non-gold colors.
func (g *Game) Take3Mines(mines [3]Mine, playerID int64) bool {
	p, ok := g.players[playerID]
	if !ok || p.Status != StatusAction {
		return false
	}
	if mines[0] == mines[1] || mines[1] == mines[2] || mines[2] == mines[0] {
		return false
	}
	for _, m := range mines {
		if m == Gold || m < 0 || m > Gold || g.bank[m] == 0 {
			return false
		}
	}

	for _, m := range mines {
		g.bank[m]--
		p.MineCount[m]++
	}
	g.endAction(playerID, p)
	return true
}

// Take2Mines takes two of one color; the pile must hold at least 4.
func (g *Game) Take2Mines(mine Mine, playerID int64) bool {
	p, ok := g.players[playerID]
	if !ok || p.Status != StatusAction {
		return false
	}
	if mine == Gold || mine < 0 || mine > Gold || g.bank[mine] < 4 {
		return false
	}

	g.bank[mine] -= 2
	p.MineCount[mine] += 2
	g.endAction(playerID, p)
	return true
}

// ReserveCoupon moves a face-up coupon into the player's reservation
// (max 3) and grants a gold wild if the bank has one.
func (g *Game) ReserveCoupon(couponIdx int, playerID int64) bool {
	p, ok := g.players[playerID]
	if !ok || p.Status != StatusAction {
		return false
	}
	if len(p.ReservedCoupons) > 2 {
		return false
	}
	slot := g.findFaceUp(couponIdx)
	if slot < 0 {
		return false
	}

	p.ReservedCoupons = append(p.ReservedCoupons, g.faceUp[slot])
	g.fillCoupon(slot)

	if g.bank[Gold] > 0 {
		p.MineCount[Gold]++
		g.bank[Gold]--
	}
	g.endAction(playerID, p)
	return true
}

// BuyCoupon purchases a face-up coupon.
func (g *Game) BuyCoupon(couponIdx int, playerID int64) bool {
	p, ok := g.players[playerID]
	if !ok || p.Status != StatusAction {
		return false
	}
	slot := g.findFaceUp(couponIdx)
	if slot < 0 {
		return false
	}
	coupon := g.faceUp[slot]
	if !g.affordable(p, coupon) {
		return false
	}

	g.pay(p, coupon)
	p.Coupons = append(p.Coupons, coupon)
	p.CouponCount[coupon.Type]++
	p.Reputation += coupon.Reputation
	g.fillCoupon(slot)

	g.advance(playerID)
	g.checkAlly()
	return true
}

// BuyReservedCoupon purchases one of the player's reserved coupons.
func (g *Game) BuyReservedCoupon(couponIdx int, playerID int64) bool {
	p, ok := g.players[playerID]
	if !ok || p.Status != StatusAction {
		return false
	}
	ri := -1
	for i, c := range p.ReservedCoupons {
		if c.Idx == couponIdx {
			ri = i
			break
		}
	}
	if ri < 0 {
		return false
	}
	coupon := p.ReservedCoupons[ri]
	if !g.affordable(p, coupon) {
		return false
	}

	g.pay(p, coupon)
	p.Coupons = append(p.Coupons, coupon)
	p.CouponCount[coupon.Type]++
	p.Reputation += coupon.Reputation
	p.ReservedCoupons = append(p.ReservedCoupons[:ri], p.ReservedCoupons[ri+1:]...)

	g.advance(playerID)
	g.checkAlly()
	return true
}

// ReturnMine gives one mineral back; once at 10 or fewer the held-up
// turn finally passes.
func (g *Game) ReturnMine(mine Mine, playerID int64) bool {
	p, ok := g.players[playerID]
	if !ok || p.Status != StatusNeedReturnMine {
		return false
	}
	if mine < 0 || mine > Gold || p.MineCount[mine] < 1 {
		return false
	}

	p.MineCount[mine]--
	g.bank[mine]++
	if p.TotalMineCount() < 11 {
		g.advance(playerID)
	}
	return true
}

// CheckWinner reports a player holding more than 14 reputation.
func (g *Game) CheckWinner(winner *int64) bool {
	for _, id := range g.order {
		if g.players[id].Reputation > 14 {
			*winner = id
			return true
		}
	}
	return false
}

func (g *Game) findFaceUp(couponIdx int) int {
	for i, c := range g.faceUp {
		if !c.IsEmpty() && c.Idx == couponIdx {
			return i
		}
	}
	return -1
}

// fillCoupon refills a face-up slot from the same-tier remainder, or
// marks the slot empty.
func (g *Game) fillCoupon(slot int) {
	level := g.faceUp[slot].Level
	for i, c := range g.rest {
		if c.Level == level {
			g.faceUp[slot] = c
			g.rest = append(g.rest[:i], g.rest[i+1:]...)
			return
		}
	}
	g.faceUp[slot] = emptyCoupon(level)
}

// affordable checks mineral counts plus per-color discounts, with gold
// wilds covering any shortfall.
func (g *Game) affordable(p *Player, c Coupon) bool {
	goldCnt := p.MineCount[Gold]
	for mine := 0; mine < 5; mine++ {
		if p.MineCount[mine]+p.CouponCount[mine]+goldCnt < c.Costs[mine] {
			return false
		}
		if short := c.Costs[mine] - p.MineCount[mine] - p.CouponCount[mine]; short > 0 {
			goldCnt -= short
		}
	}
	return true
}

// pay debits the player for a coupon. Discounts cost nothing; colored
// shortfalls are covered by gold wilds.
func (g *Game) pay(p *Player, c Coupon) {
	for mine := 0; mine < 5; mine++ {
		cost := c.Costs[mine] - p.CouponCount[mine]
		if cost <= 0 {
			continue
		}
		p.MineCount[mine] -= cost
		g.bank[mine] += cost
		if p.MineCount[mine] < 0 {
			deficit := -p.MineCount[mine]
			p.MineCount[Gold] -= deficit
			g.bank[mine] -= deficit
			g.bank[Gold] += deficit
			p.MineCount[mine] = 0
		}
	}
}

// checkAlly assigns every unowned goal whose condition some player now
// meets, in goal order then ascending player id.
func (g *Game) checkAlly() {
	for i := range g.allies {
		a := &g.allies[i]
		if a.IsOwned {
			continue
		}
		for _, id := range g.order {
			p := g.players[id]
			ok := true
			for c := 0; c < 5; c++ {
				if p.CouponCount[c] < a.Condition[c] {
					ok = false
					break
				}
			}
			if ok {
				a.IsOwned = true
				a.OwnerID = id
				p.Reputation += a.Reputation
				break
			}
		}
	}
}
