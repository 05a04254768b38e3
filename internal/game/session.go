// Package game implements the tic-tac-toe match state machine.
package game

import (
	"errors"
	"fmt"
	"sync"
)

const boardSize = 3

// Board cell marks.
const (
	MarkX     byte = 'X'
	MarkO     byte = 'O'
	MarkEmpty byte = ' '
)

// Result values reported for a finished match.
const (
	ResultWin  = "WIN"
	ResultLoss = "LOSS"
	ResultDraw = "DRAW"
)

// Move rejection reasons.
var (
	ErrNotAPlayer   = errors.New("not a player in this game")
	ErrGameOver     = errors.New("game is already over")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrOutOfBounds  = errors.New("move is out of bounds")
	ErrCellOccupied = errors.New("cell is already occupied")
)

// Session is a single match between two players. Player one always
// plays X and moves first. All state transitions happen under the
// session's own lock, so two moves racing on the same game serialize
// and at most one of them claims a turn.
type Session struct {
	id      string
	player1 string
	player2 string

	mu        sync.Mutex
	board     [boardSize][boardSize]byte
	current   string
	moveCount int
	over      bool
	winner    string // empty while running and on a draw
}

// Snapshot is a consistent copy of the visible game state, taken while
// the session lock is held.
type Snapshot struct {
	Board   map[string]string
	Current string
	Over    bool
}

// NewSession creates a match on an empty board. player1 holds X and
// has the first turn, player2 holds O.
func NewSession(id, player1, player2 string) *Session {
	s := &Session{
		id:      id,
		player1: player1,
		player2: player2,
		current: player1,
	}
	for i := 0; i < boardSize; i++ {
		for j := 0; j < boardSize; j++ {
			s.board[i][j] = MarkEmpty
		}
	}
	return s
}

// ID returns the game identifier.
func (s *Session) ID() string { return s.id }

// Player1 returns the username playing X.
func (s *Session) Player1() string { return s.player1 }

// Player2 returns the username playing O.
func (s *Session) Player2() string { return s.player2 }

// Contains reports whether username is one of the two players.
func (s *Session) Contains(username string) bool {
	return username == s.player1 || username == s.player2
}

// Opponent returns the other player, or "" when username is not part
// of this game.
func (s *Session) Opponent(username string) string {
	switch username {
	case s.player1:
		return s.player2
	case s.player2:
		return s.player1
	}
	return ""
}

// CurrentPlayer returns the username whose turn it is. After a
// terminal move the turn stays with the player who made it.
func (s *Session) CurrentPlayer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Over reports whether the match has finished.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// Apply validates and plays one move for player at row x, column y.
// The turn check and the board mutation happen under one lock
// acquisition. On success it returns a snapshot of the position right
// after the move.
func (s *Session) Apply(player string, x, y int) (Snapshot, error) {
	if !s.Contains(player) {
		return Snapshot{}, ErrNotAPlayer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return Snapshot{}, ErrGameOver
	}
	if s.current != player {
		return Snapshot{}, ErrNotYourTurn
	}
	if x < 0 || x >= boardSize || y < 0 || y >= boardSize {
		return Snapshot{}, ErrOutOfBounds
	}
	if s.board[x][y] != MarkEmpty {
		return Snapshot{}, ErrCellOccupied
	}

	mark := MarkO
	if player == s.player1 {
		mark = MarkX
	}
	s.board[x][y] = mark
	s.moveCount++

	switch {
	case s.winsAt(mark, x, y):
		s.over = true
		s.winner = player
	case s.moveCount == boardSize*boardSize:
		s.over = true
	default:
		s.current = s.Opponent(player)
	}

	return s.snapshotLocked(), nil
}

// ResultFor returns the finished match's outcome from username's
// perspective: "WIN", "LOSS" or "DRAW". It returns "" while the match
// is still running.
func (s *Session) ResultFor(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case !s.over:
		return ""
	case s.winner == "":
		return ResultDraw
	case s.winner == username:
		return ResultWin
	default:
		return ResultLoss
	}
}

// BoardMap returns the board as wire fields: "row,col" keys mapping to
// "X", "O" or " ".
func (s *Session) BoardMap() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boardMapLocked()
}

// winsAt reports whether the mark just placed at (x, y) completed a
// row, column or diagonal. Only lines through the played cell need
// checking.
func (s *Session) winsAt(mark byte, x, y int) bool {
	if s.board[x][0] == mark && s.board[x][1] == mark && s.board[x][2] == mark {
		return true
	}
	if s.board[0][y] == mark && s.board[1][y] == mark && s.board[2][y] == mark {
		return true
	}
	if x == y && s.board[0][0] == mark && s.board[1][1] == mark && s.board[2][2] == mark {
		return true
	}
	if x+y == 2 && s.board[0][2] == mark && s.board[1][1] == mark && s.board[2][0] == mark {
		return true
	}
	return false
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Board:   s.boardMapLocked(),
		Current: s.current,
		Over:    s.over,
	}
}

func (s *Session) boardMapLocked() map[string]string {
	m := make(map[string]string, boardSize*boardSize)
	for i := 0; i < boardSize; i++ {
		for j := 0; j < boardSize; j++ {
			m[fmt.Sprintf("%d,%d", i, j)] = string(s.board[i][j])
		}
	}
	return m
}
