package gomoku

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	return New(rand.New(rand.NewSource(1)))
}

func TestDropValidation(t *testing.T) {
	g := newTestGame(t)

	assert.False(t, g.Drop(7, 7, false), "black moves first")
	require.True(t, g.Drop(7, 7, true))
	assert.False(t, g.Drop(7, 7, false), "occupied")
	assert.False(t, g.Drop(7, 8, true), "not black's turn")
	assert.False(t, g.Drop(-1, 0, false))
	assert.False(t, g.Drop(0, 15, false))
	require.True(t, g.Drop(7, 8, false))
}

func TestUpdateDetectsRowWin(t *testing.T) {
	g := newTestGame(t)
	for j := 0; j < 5; j++ {
		require.True(t, g.Drop(7, j, true))
		if j < 4 {
			require.True(t, g.Drop(8, j, false))
			assert.Equal(t, NotEnd, g.Update())
		}
	}
	assert.Equal(t, BlackWin, g.Update())
	assert.False(t, g.Drop(0, 0, false), "game over")
}

func TestUpdateDetectsColumnWin(t *testing.T) {
	g := newTestGame(t)
	for i := 0; i < 5; i++ {
		require.True(t, g.Drop(i, 3, true))
		if i < 4 {
			require.True(t, g.Drop(i, 10, false))
		}
	}
	assert.Equal(t, BlackWin, g.Update())
}

func TestUpdateDetectsDiagonalWins(t *testing.T) {
	g := newTestGame(t)
	// White builds the main diagonal while black scatters.
	for k := 0; k < 5; k++ {
		require.True(t, g.Drop(14, 2*k, true))
		require.True(t, g.Drop(k, k, false))
	}
	assert.Equal(t, WhiteWin, g.Update())

	g = newTestGame(t)
	// Anti-diagonal for black.
	for k := 0; k < 5; k++ {
		require.True(t, g.Drop(4-k, k, true))
		if k < 4 {
			require.True(t, g.Drop(14, k, false))
		}
	}
	assert.Equal(t, BlackWin, g.Update())
}

func TestClearResets(t *testing.T) {
	g := newTestGame(t)
	require.True(t, g.Drop(7, 7, true))
	g.Clear()

	view := g.GameInfo()
	assert.True(t, view.CurrentIsBlack)
	assert.Equal(t, Point{X: -1, Y: -1}, view.LastDrop)
	for _, row := range view.Board {
		assert.Equal(t, "nnnnnnnnnnnnnnn", row)
	}
}

func TestGameInfoSnapshot(t *testing.T) {
	g := newTestGame(t)
	require.True(t, g.Drop(3, 5, true))

	view := g.GameInfo()
	assert.Len(t, view.Board, 15)
	assert.Equal(t, byte(blackPiece), view.Board[3][5])
	assert.Equal(t, Point{X: 5, Y: 3}, view.LastDrop)
	assert.False(t, view.CurrentIsBlack)
}

func TestNeedAIMove(t *testing.T) {
	g := newTestGame(t)
	g.EnableAI(true)

	assert.False(t, g.NeedAIMove(), "black to move")
	require.True(t, g.Drop(7, 7, true))
	assert.True(t, g.NeedAIMove())

	g.SetAIThinking(true)
	assert.False(t, g.NeedAIMove())
	assert.False(t, g.Drop(8, 8, true), "black locked out while searching")
	g.SetAIThinking(false)
	require.True(t, g.Drop(8, 8, false))
	assert.False(t, g.NeedAIMove(), "black to move again")
}

func TestAICompletesFive(t *testing.T) {
	g := newTestGame(t)
	g.EnableAI(true)
	// White has an open four on row 7; black stones are scattered so
	// no counter-threat exists.
	blackRows := []int{0, 2, 4, 10, 12}
	for k := 0; k < 4; k++ {
		require.True(t, g.Drop(blackRows[k], 0, true))
		require.True(t, g.Drop(7, 3+k, false))
	}
	require.True(t, g.Drop(blackRows[4], 0, true))
	require.True(t, g.NeedAIMove())

	i, j := g.ComputeAIMove()
	assert.Equal(t, 7, i)
	assert.Contains(t, []int{2, 7}, j, "either end completes five")
}

func TestAIBlocksFour(t *testing.T) {
	g := newTestGame(t)
	g.EnableAI(true)
	// Black threatens at row 7 cols 3-6 with col 2 already blocked by
	// white; the only stopping cell is col 7.
	require.True(t, g.Drop(7, 3, true))
	require.True(t, g.Drop(7, 2, false))
	require.True(t, g.Drop(7, 4, true))
	require.True(t, g.Drop(0, 0, false))
	require.True(t, g.Drop(7, 5, true))
	require.True(t, g.Drop(0, 14, false))
	require.True(t, g.Drop(7, 6, true))
	require.True(t, g.NeedAIMove())

	i, j := g.ComputeAIMove()
	assert.Equal(t, 7, i)
	assert.Equal(t, 7, j)
}

func TestComputeAIMoveLeavesBoardUntouched(t *testing.T) {
	g := newTestGame(t)
	g.EnableAI(true)
	require.True(t, g.Drop(7, 7, true))
	before := g.board

	g.ComputeAIMove()
	assert.Equal(t, before, g.board)
}

func TestAIMovePlaysLegally(t *testing.T) {
	g := newTestGame(t)
	g.EnableAI(true)
	require.True(t, g.Drop(7, 7, true))

	i, j := g.ComputeAIMove()
	require.True(t, g.Drop(i, j, false), "search must return an empty cell")
	assert.Equal(t, NotEnd, g.Update())
}
