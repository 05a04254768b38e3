package game

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type move struct {
	player string
	x, y   int
}

func playMoves(t *testing.T, s *Session, moves []move) Snapshot {
	t.Helper()
	var snap Snapshot
	for _, m := range moves {
		var err error
		snap, err = s.Apply(m.player, m.x, m.y)
		require.NoError(t, err, "move %s (%d,%d)", m.player, m.x, m.y)
	}
	return snap
}

func TestNewSessionStartsWithPlayer1(t *testing.T) {
	s := NewSession("g1", "alice", "bob")

	assert.Equal(t, "g1", s.ID())
	assert.Equal(t, "alice", s.CurrentPlayer())
	assert.False(t, s.Over())

	board := s.BoardMap()
	require.Len(t, board, 9)
	for key, mark := range board {
		assert.Equal(t, " ", mark, "cell %s", key)
	}
}

func TestOpponentAndContains(t *testing.T) {
	s := NewSession("g1", "alice", "bob")

	assert.True(t, s.Contains("alice"))
	assert.True(t, s.Contains("bob"))
	assert.False(t, s.Contains("carol"))

	assert.Equal(t, "bob", s.Opponent("alice"))
	assert.Equal(t, "alice", s.Opponent("bob"))
	assert.Empty(t, s.Opponent("carol"))
}

func TestTurnEnforcement(t *testing.T) {
	s := NewSession("g1", "alice", "bob")

	_, err := s.Apply("bob", 0, 0)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	snap, err := s.Apply("alice", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "bob", snap.Current)
	assert.Equal(t, "X", snap.Board["0,0"])

	_, err = s.Apply("alice", 1, 1)
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestMoveValidation(t *testing.T) {
	s := NewSession("g1", "alice", "bob")

	_, err := s.Apply("carol", 0, 0)
	assert.ErrorIs(t, err, ErrNotAPlayer)

	for _, cell := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {7, 7}} {
		_, err := s.Apply("alice", cell[0], cell[1])
		assert.ErrorIs(t, err, ErrOutOfBounds, "cell (%d,%d)", cell[0], cell[1])
	}

	_, err = s.Apply("alice", 1, 1)
	require.NoError(t, err)
	_, err = s.Apply("bob", 1, 1)
	assert.ErrorIs(t, err, ErrCellOccupied)
}

func TestAllWinningLines(t *testing.T) {
	lines := []struct {
		name  string
		cells [3][2]int
		safe  [2][2]int // player2 filler moves off the line
	}{
		{"top row", [3][2]int{{0, 0}, {0, 1}, {0, 2}}, [2][2]int{{1, 0}, {1, 1}}},
		{"middle row", [3][2]int{{1, 0}, {1, 1}, {1, 2}}, [2][2]int{{0, 0}, {0, 1}}},
		{"bottom row", [3][2]int{{2, 0}, {2, 1}, {2, 2}}, [2][2]int{{0, 0}, {0, 1}}},
		{"left column", [3][2]int{{0, 0}, {1, 0}, {2, 0}}, [2][2]int{{0, 1}, {0, 2}}},
		{"middle column", [3][2]int{{0, 1}, {1, 1}, {2, 1}}, [2][2]int{{0, 0}, {0, 2}}},
		{"right column", [3][2]int{{0, 2}, {1, 2}, {2, 2}}, [2][2]int{{0, 0}, {0, 1}}},
		{"diagonal", [3][2]int{{0, 0}, {1, 1}, {2, 2}}, [2][2]int{{0, 1}, {0, 2}}},
		{"anti-diagonal", [3][2]int{{0, 2}, {1, 1}, {2, 0}}, [2][2]int{{0, 0}, {0, 1}}},
	}

	for _, line := range lines {
		t.Run(line.name, func(t *testing.T) {
			s := NewSession("g1", "alice", "bob")
			snap := playMoves(t, s, []move{
				{"alice", line.cells[0][0], line.cells[0][1]},
				{"bob", line.safe[0][0], line.safe[0][1]},
				{"alice", line.cells[1][0], line.cells[1][1]},
				{"bob", line.safe[1][0], line.safe[1][1]},
				{"alice", line.cells[2][0], line.cells[2][1]},
			})

			assert.True(t, snap.Over)
			assert.True(t, s.Over())
			assert.Equal(t, ResultWin, s.ResultFor("alice"))
			assert.Equal(t, ResultLoss, s.ResultFor("bob"))
		})
	}
}

func TestDraw(t *testing.T) {
	s := NewSession("g1", "alice", "bob")

	// X O X
	// X O O
	// O X X
	snap := playMoves(t, s, []move{
		{"alice", 0, 0}, {"bob", 0, 1},
		{"alice", 0, 2}, {"bob", 1, 1},
		{"alice", 1, 0}, {"bob", 1, 2},
		{"alice", 2, 1}, {"bob", 2, 0},
		{"alice", 2, 2},
	})

	assert.True(t, snap.Over)
	assert.Equal(t, ResultDraw, s.ResultFor("alice"))
	assert.Equal(t, ResultDraw, s.ResultFor("bob"))
}

func TestResultForWhileRunning(t *testing.T) {
	s := NewSession("g1", "alice", "bob")
	assert.Empty(t, s.ResultFor("alice"))

	_, err := s.Apply("alice", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, s.ResultFor("alice"))
	assert.Empty(t, s.ResultFor("bob"))
}

func TestMovesRejectedAfterGameOver(t *testing.T) {
	s := NewSession("g1", "alice", "bob")
	playMoves(t, s, []move{
		{"alice", 0, 0}, {"bob", 1, 0},
		{"alice", 0, 1}, {"bob", 1, 1},
		{"alice", 0, 2},
	})
	require.True(t, s.Over())

	_, err := s.Apply("alice", 2, 2)
	assert.ErrorIs(t, err, ErrGameOver)
	_, err = s.Apply("bob", 2, 2)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestTerminalMoveKeepsTurn(t *testing.T) {
	s := NewSession("g1", "alice", "bob")
	snap := playMoves(t, s, []move{
		{"alice", 0, 0}, {"bob", 1, 0},
		{"alice", 0, 1}, {"bob", 1, 1},
		{"alice", 0, 2},
	})

	// The turn does not flip past a terminal move.
	assert.Equal(t, "alice", snap.Current)
	assert.Equal(t, "alice", s.CurrentPlayer())
}

func TestSnapshotBoardContents(t *testing.T) {
	s := NewSession("g1", "alice", "bob")
	snap := playMoves(t, s, []move{
		{"alice", 0, 0}, {"bob", 2, 2},
	})

	assert.Equal(t, "X", snap.Board["0,0"])
	assert.Equal(t, "O", snap.Board["2,2"])
	assert.Equal(t, " ", snap.Board["1,1"])
	assert.Len(t, snap.Board, 9)
}

func TestConcurrentMovesSingleWinner(t *testing.T) {
	s := NewSession("g1", "alice", "bob")
	_, err := s.Apply("alice", 0, 0)
	require.NoError(t, err)

	// Every remaining cell raced by bob at once; exactly one move may
	// claim his turn.
	cells := [][2]int{{0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}
	errs := make(chan error, len(cells))

	var wg sync.WaitGroup
	for _, cell := range cells {
		wg.Add(1)
		go func(x, y int) {
			defer wg.Done()
			_, err := s.Apply("bob", x, y)
			errs <- err
		}(cell[0], cell[1])
	}
	wg.Wait()
	close(errs)

	var accepted, rejected int
	for err := range errs {
		if err == nil {
			accepted++
		} else {
			require.ErrorIs(t, err, ErrNotYourTurn)
			rejected++
		}
	}

	assert.Equal(t, 1, accepted)
	assert.Equal(t, len(cells)-1, rejected)
	assert.Equal(t, "alice", s.CurrentPlayer())
}

func TestBoardMapKeys(t *testing.T) {
	s := NewSession("g1", "alice", "bob")
	board := s.BoardMap()

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			_, ok := board[fmt.Sprintf("%d,%d", i, j)]
			assert.True(t, ok, "missing cell %d,%d", i, j)
		}
	}
}
