package gomoku

import "math/rand"

const (
	boardWidth  = 15
	boardHeight = 15
)

const (
	whitePiece = 'w'
	blackPiece = 'b'
	nonePiece  = 'n'
)

// Status is the board outcome.
type Status int

const (
	BlackWin Status = iota
	WhiteWin
	Tied
	NotEnd
)

// Point is a board coordinate: x is the column, y the row.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GameView is the board snapshot: rows of 15 cells, each 'b', 'w'
// or 'n'.
type GameView struct {
	Board          []string `json:"board"`
	LastDrop       Point    `json:"last_drop"`
	CurrentIsBlack bool     `json:"current_is_black"`
}

// Game is the five-in-a-row engine. Black moves first. Not safe for
// concurrent use; the caller serializes all operations.
type Game struct {
	board          [boardHeight][boardWidth]byte
	currentIsBlack bool
	lastDrop       Point
	useAI          bool
	aiThinking     bool
	status         Status
	rng            *rand.Rand
}

// New returns an empty board.
func New(rng *rand.Rand) *Game {
	g := &Game{rng: rng}
	g.Clear()
	return g
}

// Clear resets the board to a fresh game.
func (g *Game) Clear() {
	for i := 0; i < boardHeight; i++ {
		for j := 0; j < boardWidth; j++ {
			g.board[i][j] = nonePiece
		}
	}
	g.currentIsBlack = true
	g.status = NotEnd
	g.aiThinking = false
	g.lastDrop = Point{X: -1, Y: -1}
}

// Status returns the current outcome.
func (g *Game) Status() Status {
	return g.status
}

// EnableAI turns the built-in opponent on or off.
func (g *Game) EnableAI(enable bool) {
	g.useAI = enable
}

// SetAIThinking marks a search in flight; black drops are rejected
// while set.
func (g *Game) SetAIThinking(thinking bool) {
	g.aiThinking = thinking
}

// NeedAIMove reports whether the built-in opponent should move now.
func (g *Game) NeedAIMove() bool {
	return g.status == NotEnd && !g.currentIsBlack && g.useAI && !g.aiThinking
}

// Drop places a stone at row i, column j.
func (g *Game) Drop(i, j int, isBlack bool) bool {
	if isBlack && g.aiThinking {
		return false
	}
	if isBlack != g.currentIsBlack {
		return false
	}
	if i < 0 || i >= boardHeight || j < 0 || j >= boardWidth {
		return false
	}
	if g.board[i][j] != nonePiece {
		return false
	}
	if g.status != NotEnd {
		return false
	}

	if g.currentIsBlack {
		g.board[i][j] = blackPiece
	} else {
		g.board[i][j] = whitePiece
	}
	g.currentIsBlack = !g.currentIsBlack
	g.lastDrop = Point{X: j, Y: i}
	return true
}

// Update scans all four orientations for five in a row and settles the
// status. A full board with no winner is a tie.
func (g *Game) Update() Status {
	if g.status != NotEnd {
		return g.status
	}

	settle := func(piece byte) {
		if piece == whitePiece {
			g.status = WhiteWin
		} else {
			g.status = BlackWin
		}
	}

	for i := 0; i < boardHeight; i++ {
		for j := 0; j <= boardWidth-5; j++ {
			if p := g.board[i][j]; p != nonePiece &&
				p == g.board[i][j+1] && p == g.board[i][j+2] &&
				p == g.board[i][j+3] && p == g.board[i][j+4] {
				settle(p)
			}
		}
	}
	for j := 0; j < boardWidth; j++ {
		for i := 0; i <= boardHeight-5; i++ {
			if p := g.board[i][j]; p != nonePiece &&
				p == g.board[i+1][j] && p == g.board[i+2][j] &&
				p == g.board[i+3][j] && p == g.board[i+4][j] {
				settle(p)
			}
		}
	}
	for i := 0; i <= boardHeight-5; i++ {
		for j := 0; j <= boardWidth-5; j++ {
			if p := g.board[i][j]; p != nonePiece &&
				p == g.board[i+1][j+1] && p == g.board[i+2][j+2] &&
				p == g.board[i+3][j+3] && p == g.board[i+4][j+4] {
				settle(p)
			}
			if p := g.board[i+4][j]; p != nonePiece &&
				p == g.board[i+3][j+1] && p == g.board[i+2][j+2] &&
				p == g.board[i+1][j+3] && p == g.board[i][j+4] {
				settle(p)
			}
		}
	}

	if g.status == NotEnd && g.boardFull() {
		g.status = Tied
	}
	return g.status
}

func (g *Game) boardFull() bool {
	for i := 0; i < boardHeight; i++ {
		for j := 0; j < boardWidth; j++ {
			if g.board[i][j] == nonePiece {
				return false
			}
		}
	}
	return true
}

// GameInfo builds the board snapshot.
func (g *Game) GameInfo() GameView {
	view := GameView{
		Board:          make([]string, boardHeight),
		LastDrop:       g.lastDrop,
		CurrentIsBlack: g.currentIsBlack,
	}
	for i := 0; i < boardHeight; i++ {
		view.Board[i] = string(g.board[i][:])
	}
	return view
}
