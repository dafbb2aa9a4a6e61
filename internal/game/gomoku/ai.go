package gomoku

import (
	"math"
	"math/rand"
	"strings"
)

// Search depth is deliberately shallow so a move never starves the
// server.
const maxSearchDepth = 1

// Pattern tables in line notation: 's' self stone, 'o' opponent stone,
// ' ' empty, 'n' off-board.
var (
	patFive   = "sssss"
	patOpen4  = " ssss "
	patClose4 = []string{
		" sssso",
		"s sss",
		"ss ss",
		"sss s",
		"ossss ",
	}
	patOpen3 = []string{
		" sss  ",
		"  sss ",
	}
	patBroken3 = []string{
		" s ss ",
		" ss s ",
	}
	patClose3 = []string{
		"  ssso",
		" s sso",
		" ss so",
		"osss  ",
		"oss s ",
		"os ss ",
		"ss  s",
		"s  ss",
		"s s s",
		"o sss o",
	}
	patOpen2 = []string{
		"   ss ",
		"  ss  ",
		" ss   ",
		"  s s ",
		" s s  ",
	}
	patClose2 = []string{
		"   sso",
		"  s so",
		" s  so",
		"s   s",
		"oss   ",
		"os s  ",
		"os  s ",
		"o  ss o",
		"o ss  o",
		"o s s o",
	}
)

// searcher runs the alpha-beta search over a private board copy, so a
// move can be computed off the serialized worker without racing the
// live game.
type searcher struct {
	board   [boardHeight][boardWidth]byte
	rng     *rand.Rand
	dropPos Point
}

// ComputeAIMove picks white's reply on a snapshot of the current board.
// It returns the row and column to drop on.
func (g *Game) ComputeAIMove() (int, int) {
	s := &searcher{board: g.board, rng: g.rng}
	s.searchMax(0, false, math.MaxInt)
	return s.dropPos.Y, s.dropPos.X
}

func piece(isBlack bool) byte {
	if isBlack {
		return blackPiece
	}
	return whitePiece
}

// isNearby reports whether any stone sits within Chebyshev distance 1.
// Restricting candidates this way keeps the branching factor small.
func (s *searcher) isNearby(i, j int) bool {
	for di := -1; di < 2; di++ {
		for dj := -1; dj < 2; dj++ {
			y, x := i+di, j+dj
			if y >= 0 && y < boardHeight && x >= 0 && x < boardWidth &&
				s.board[y][x] != nonePiece {
				return true
			}
		}
	}
	return false
}

// searchMax maximizes for white. toBlack selects the stone placed at
// this ply.
func (s *searcher) searchMax(depth int, toBlack bool, parentBeta int) int {
	alpha := math.MinInt
	for i := 0; i < boardHeight; i++ {
		for j := 0; j < boardWidth; j++ {
			if s.board[i][j] != nonePiece || !s.isNearby(i, j) {
				continue
			}
			s.board[i][j] = piece(toBlack)
			var score int
			if depth < maxSearchDepth {
				score = s.searchMin(depth+1, !toBlack, alpha)
			} else {
				score = s.situation()
			}
			s.board[i][j] = nonePiece
			if score > alpha {
				alpha = score
				if depth == 0 {
					s.dropPos = Point{X: j, Y: i}
				}
				if alpha >= parentBeta {
					return alpha
				}
			}
		}
	}
	return alpha
}

func (s *searcher) searchMin(depth int, toBlack bool, parentAlpha int) int {
	beta := math.MaxInt
	for i := 0; i < boardHeight; i++ {
		for j := 0; j < boardWidth; j++ {
			if s.board[i][j] != nonePiece || !s.isNearby(i, j) {
				continue
			}
			s.board[i][j] = piece(toBlack)
			var score int
			if depth < maxSearchDepth {
				score = s.searchMax(depth+1, !toBlack, beta)
			} else {
				score = s.situation()
			}
			s.board[i][j] = nonePiece
			if score < beta {
				beta = score
				if beta <= parentAlpha {
					return beta
				}
			}
		}
	}
	return beta
}

// situation scores the board for white: white's pattern total minus
// black's, plus a 3-bit jitter for tie-breaking variety.
func (s *searcher) situation() int {
	self := 0
	oppo := 0
	for i := 0; i < boardHeight; i++ {
		for j := 0; j < boardWidth; j++ {
			switch s.board[i][j] {
			case whitePiece:
				self += s.pointScore(i, j, whitePiece)
			case blackPiece:
				oppo += s.pointScore(i, j, blackPiece)
			}
		}
	}
	return self - oppo + int(s.rng.Int63()&7)
}

// lines through a point in the four orientations, centered on offset 4.
var scanLines = [4][9]Point{
	{{-4, 0}, {-3, 0}, {-2, 0}, {-1, 0}, {0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}},
	{{0, -4}, {0, -3}, {0, -2}, {0, -1}, {0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}},
	{{-4, -4}, {-3, -3}, {-2, -2}, {-1, -1}, {0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}},
	{{-4, 4}, {-3, 3}, {-2, 2}, {-1, 1}, {0, 0}, {1, -1}, {2, -2}, {3, -3}, {4, -4}},
}

// pointScore sums pattern weights over the four 9-cell lines through
// the stone at (i, j).
func (s *searcher) pointScore(i, j int, side byte) int {
	score := 1

	var buf [9]byte
	for _, line := range scanLines {
		for k, point := range line {
			x := j - point.X
			y := i - point.Y
			switch {
			case x < 0 || x >= boardWidth || y < 0 || y >= boardHeight:
				buf[k] = 'n'
			case s.board[y][x] == side:
				buf[k] = 's'
			case s.board[y][x] == nonePiece:
				buf[k] = ' '
			default:
				buf[k] = 'o'
			}
		}
		lineStr := string(buf[:])

		if strings.Contains(lineStr, patFive) {
			score += 5000000
		}
		if strings.Contains(lineStr, patOpen4) {
			score += 100000
		}
		score += firstMatch(lineStr, patClose4, 16000)
		score += firstMatch(lineStr, patOpen3, 8000)
		score += firstMatch(lineStr, patBroken3, 2000)
		score += firstMatch(lineStr, patClose3, 300)
		score += firstMatch(lineStr, patOpen2, 20)
		score += firstMatch(lineStr, patClose2, 2)
	}
	return score
}

func firstMatch(line string, patterns []string, weight int) int {
	for _, p := range patterns {
		if strings.Contains(line, p) {
			return weight
		}
	}
	return 0
}
