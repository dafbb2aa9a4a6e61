package splendor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, ids ...int64) *Game {
	t.Helper()
	return New(ids, rand.New(rand.NewSource(1)))
}

// actor forces the turn onto the given player.
func actor(g *Game, id int64) *Player {
	for _, pid := range g.order {
		g.players[pid].Status = StatusWaiting
	}
	g.players[id].Status = StatusAction
	return g.players[id]
}

func mineTotals(g *Game) [6]int {
	totals := g.bank
	for _, p := range g.players {
		for m := 0; m < 6; m++ {
			totals[m] += p.MineCount[m]
		}
	}
	return totals
}

func TestNewGameSetup(t *testing.T) {
	for _, tc := range []struct {
		players int
		pile    int
	}{
		{2, 4}, {3, 5}, {4, 7},
	} {
		ids := make([]int64, tc.players)
		for i := range ids {
			ids[i] = int64(i + 1)
		}
		g := newTestGame(t, ids...)

		for m := Copper; m < Gold; m++ {
			assert.Equal(t, tc.pile, g.bank[m])
		}
		assert.Equal(t, 5, g.bank[Gold])
		assert.Len(t, g.allies, tc.players+1)
		assert.Len(t, g.faceUp, 12)
		assert.Len(t, g.rest, 90-12)

		acting := 0
		for _, p := range g.players {
			if p.Status == StatusAction {
				acting++
			}
		}
		assert.Equal(t, 1, acting)
	}
}

func TestGameInfoTiers(t *testing.T) {
	g := newTestGame(t, 1, 2)
	view := g.GameInfo()
	assert.Len(t, view.CouponLv1, 4)
	assert.Len(t, view.CouponLv2, 4)
	assert.Len(t, view.CouponLv3, 4)
	assert.Len(t, view.Players, 2)
	assert.Len(t, view.Allies, 3)
}

func TestTake3Mines(t *testing.T) {
	g := newTestGame(t, 1, 2)
	p := actor(g, 1)

	assert.False(t, g.Take3Mines([3]Mine{Copper, Copper, Iron}, 1), "duplicates")
	assert.False(t, g.Take3Mines([3]Mine{Copper, Gold, Iron}, 1), "gold not takeable")
	assert.False(t, g.Take3Mines([3]Mine{Copper, Diamond, Iron}, 2), "not 2's turn")

	require.True(t, g.Take3Mines([3]Mine{Copper, Diamond, Iron}, 1))
	assert.Equal(t, 1, p.MineCount[Copper])
	assert.Equal(t, 1, p.MineCount[Diamond])
	assert.Equal(t, 1, p.MineCount[Iron])
	assert.Equal(t, 3, g.bank[Copper])
	assert.Equal(t, StatusWaiting, p.Status)
	assert.Equal(t, StatusAction, g.players[2].Status)
}

func TestTake3RejectsEmptyPile(t *testing.T) {
	g := newTestGame(t, 1, 2)
	actor(g, 1)
	g.bank[Emerald] = 0
	assert.False(t, g.Take3Mines([3]Mine{Copper, Emerald, Iron}, 1))
}

func TestTake2Mines(t *testing.T) {
	g := newTestGame(t, 1, 2)
	p := actor(g, 1)

	assert.False(t, g.Take2Mines(Gold, 1))
	g.bank[Copper] = 3
	assert.False(t, g.Take2Mines(Copper, 1), "pile below 4")

	require.True(t, g.Take2Mines(Diamond, 1))
	assert.Equal(t, 2, p.MineCount[Diamond])
	assert.Equal(t, 2, g.bank[Diamond])
	assert.Equal(t, StatusAction, g.players[2].Status)
}

func TestReserveCoupon(t *testing.T) {
	g := newTestGame(t, 1, 2)
	p := actor(g, 1)
	idx := g.faceUp[0].Idx

	require.True(t, g.ReserveCoupon(idx, 1))
	assert.Len(t, p.ReservedCoupons, 1)
	assert.Equal(t, idx, p.ReservedCoupons[0].Idx)
	assert.Equal(t, 1, p.MineCount[Gold])
	assert.Equal(t, 4, g.bank[Gold])
	assert.NotEqual(t, idx, g.faceUp[0].Idx, "slot refilled")
	assert.False(t, g.faceUp[0].IsEmpty())

	assert.False(t, g.ReserveCoupon(idx, 1), "already gone from the table")
}

func TestReserveLimitThree(t *testing.T) {
	g := newTestGame(t, 1, 2)
	p := actor(g, 1)
	p.ReservedCoupons = []Coupon{{Idx: 95}, {Idx: 96}, {Idx: 97}}
	assert.False(t, g.ReserveCoupon(g.faceUp[0].Idx, 1))
}

func TestBuyCouponWithDiscountAndGold(t *testing.T) {
	g := newTestGame(t, 1, 2)
	p := actor(g, 1)
	// Plant a known card: costs 3 copper, 2 emerald.
	g.faceUp[0] = Coupon{Reputation: 2, Costs: [5]int{3, 0, 2, 0, 0}, Type: Iron, Level: 1, Idx: 91}
	p.CouponCount[Copper] = 1 // discount covers 1 copper
	p.MineCount[Copper] = 1   // pays 1 copper
	p.MineCount[Emerald] = 1  // pays 1 emerald
	p.MineCount[Gold] = 2     // covers 1 copper + 1 emerald
	bankCopper, bankEmerald, bankGold := g.bank[Copper], g.bank[Emerald], g.bank[Gold]

	require.True(t, g.BuyCoupon(91, 1))
	assert.Equal(t, 0, p.MineCount[Copper])
	assert.Equal(t, 0, p.MineCount[Emerald])
	assert.Equal(t, 0, p.MineCount[Gold])
	assert.Equal(t, bankCopper+1, g.bank[Copper])
	assert.Equal(t, bankEmerald+1, g.bank[Emerald])
	assert.Equal(t, bankGold+2, g.bank[Gold])
	assert.Equal(t, 1, p.CouponCount[Iron])
	assert.Equal(t, 2, p.Reputation)
	assert.Equal(t, StatusAction, g.players[2].Status)
}

func TestBuyCouponUnaffordable(t *testing.T) {
	g := newTestGame(t, 1, 2)
	actor(g, 1)
	g.faceUp[0] = Coupon{Reputation: 1, Costs: [5]int{4, 0, 0, 0, 0}, Type: Iron, Level: 1, Idx: 91}
	assert.False(t, g.BuyCoupon(91, 1))
	assert.Equal(t, StatusAction, g.players[1].Status, "turn not consumed")
}

func TestBuyReservedCoupon(t *testing.T) {
	g := newTestGame(t, 1, 2)
	p := actor(g, 1)
	p.ReservedCoupons = []Coupon{{Reputation: 1, Costs: [5]int{1, 0, 0, 0, 0}, Type: Copper, Level: 1, Idx: 92}}
	p.MineCount[Copper] = 1

	assert.False(t, g.BuyReservedCoupon(93, 1), "not reserved")
	require.True(t, g.BuyReservedCoupon(92, 1))
	assert.Empty(t, p.ReservedCoupons)
	assert.Equal(t, 1, p.CouponCount[Copper])
	assert.Equal(t, 1, p.Reputation)
}

func TestNeedReturnMine(t *testing.T) {
	g := newTestGame(t, 1, 2, 3, 4)
	p := actor(g, 1)
	p.MineCount = [6]int{2, 2, 2, 2, 0, 0}

	require.True(t, g.Take3Mines([3]Mine{Copper, Diamond, Emerald}, 1))
	assert.Equal(t, StatusNeedReturnMine, p.Status)
	assert.Equal(t, StatusWaiting, g.players[2].Status, "turn held until returned")

	assert.False(t, g.Take2Mines(Copper, 1), "no second action while overloaded")
	assert.False(t, g.ReturnMine(Netherite, 1), "has none of that color")

	require.True(t, g.ReturnMine(Copper, 1))
	assert.Equal(t, StatusWaiting, p.Status)
	assert.Equal(t, StatusAction, g.players[2].Status)
	assert.Equal(t, 10, p.TotalMineCount())
}

func TestAllyAwardedAfterPurchase(t *testing.T) {
	g := newTestGame(t, 1, 2)
	p := actor(g, 1)
	g.allies = []Ally{{Reputation: 3, Condition: [5]int{2, 0, 0, 0, 0}, Idx: 0}}
	g.faceUp[0] = Coupon{Reputation: 0, Costs: [5]int{}, Type: Copper, Level: 1, Idx: 91}
	p.CouponCount[Copper] = 1

	require.True(t, g.BuyCoupon(91, 1))
	assert.True(t, g.allies[0].IsOwned)
	assert.Equal(t, int64(1), g.allies[0].OwnerID)
	assert.Equal(t, 3, p.Reputation)
}

func TestCheckWinner(t *testing.T) {
	g := newTestGame(t, 1, 2)
	var winner int64
	assert.False(t, g.CheckWinner(&winner))

	g.players[2].Reputation = 15
	require.True(t, g.CheckWinner(&winner))
	assert.Equal(t, int64(2), winner)
}

func TestBankConservationOverRandomActions(t *testing.T) {
	g := newTestGame(t, 1, 2, 3)
	initial := mineTotals(g)
	rng := rand.New(rand.NewSource(9))
	mines := []Mine{Copper, Diamond, Emerald, Iron, Netherite}

	for i := 0; i < 300; i++ {
		id := g.CurrentPlayer()
		require.NotZero(t, id)
		p := g.players[id]
		if p.Status == StatusNeedReturnMine {
			for _, m := range []Mine{Copper, Diamond, Emerald, Iron, Netherite, Gold} {
				if g.ReturnMine(m, id) {
					break
				}
			}
		} else {
			switch rng.Intn(4) {
			case 0:
				rng.Shuffle(len(mines), func(i, j int) { mines[i], mines[j] = mines[j], mines[i] })
				g.Take3Mines([3]Mine{mines[0], mines[1], mines[2]}, id)
			case 1:
				g.Take2Mines(mines[rng.Intn(5)], id)
			case 2:
				if c := g.faceUp[rng.Intn(12)]; !c.IsEmpty() {
					g.ReserveCoupon(c.Idx, id)
				}
			case 3:
				if c := g.faceUp[rng.Intn(12)]; !c.IsEmpty() {
					g.BuyCoupon(c.Idx, id)
				}
			}
		}
		assert.Equal(t, initial, mineTotals(g))
	}
}
