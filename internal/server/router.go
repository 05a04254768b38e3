package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ndachevski/networks/internal/game"
	"github.com/ndachevski/networks/internal/network"
)

const leaderboardSize = 10

// AddClient registers an authenticated session for message routing.
func (s *Server) AddClient(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.Username] = c
}

// RemoveClient drops a session from routing. If the player was mid-game
// the opponent is notified and the game is torn down without a result.
func (s *Server) RemoveClient(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Only the session registered under the username may remove it.
	if current, ok := s.clients[c.Username]; !ok || current != c {
		return
	}
	delete(s.clients, c.Username)

	g := s.gameOfLocked(c.Username)
	if g == nil || g.Over() {
		return
	}
	delete(s.games, g.ID())

	notice := network.NewMessage(network.MsgOpponentDisconnected)
	notice.Set("gameId", g.ID())
	s.sendToPlayerLocked(g.Opponent(c.Username), notice)
	s.logger.Info("Game %s abandoned, %s disconnected", g.ID(), c.Username)
}

func (s *Server) gameOfLocked(username string) *game.Session {
	for _, g := range s.games {
		if g.Contains(username) {
			return g
		}
	}
	return nil
}

func playerListMessage(online []string, viewer string) *network.Message {
	others := make([]string, 0, len(online))
	for _, name := range online {
		if name != viewer {
			others = append(others, name)
		}
	}
	msg := network.NewMessage(network.MsgPlayersList)
	msg.Set("players", strings.Join(others, ","))
	return msg
}

// SendPlayerList sends c the online players other than itself.
func (s *Server) SendPlayerList(c *Client) {
	c.Send(playerListMessage(s.presence.Online(), c.Username))
}

// BroadcastPlayerList refreshes the player list for every session.
// Each recipient gets the list without its own name.
func (s *Server) BroadcastPlayerList() {
	online := s.presence.Online()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		c.Send(playerListMessage(online, c.Username))
	}
}

func (s *Server) sendToPlayerLocked(username string, msg *network.Message) {
	if c, ok := s.clients[username]; ok {
		c.Send(msg)
	}
}

// Challenge records a pending challenge and forwards it to the target.
func (s *Server) Challenge(c *Client, opponent string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.clients[opponent]
	if !ok {
		c.sendError("User not available")
		return
	}
	s.pendingChallenges[c.Username] = opponent

	msg := network.NewMessage(network.MsgChallenge)
	msg.Set("challenger", c.Username)
	target.Send(msg)
	s.logger.Info("%s challenged %s", c.Username, opponent)
}

// RespondToChallenge resolves the pending challenge from challenger
// aimed at the responder. The pending entry is consumed whatever the
// answer; an accept starts the game with the challenger moving first.
func (s *Server) RespondToChallenge(c *Client, challenger, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.pendingChallenges[challenger]
	if !ok || target != c.Username {
		c.sendError("No pending challenge")
		return
	}
	delete(s.pendingChallenges, challenger)

	reply := network.NewMessage(network.MsgChallengeResponse)
	reply.Set("opponent", c.Username)
	reply.Set("response", response)
	s.sendToPlayerLocked(challenger, reply)

	if response != network.ResponseAccept {
		s.logger.Info("%s rejected %s's challenge", c.Username, challenger)
		return
	}
	s.startGameLocked(challenger, c.Username)
}

// RequestRematch records a pending rematch offer and forwards it.
func (s *Server) RequestRematch(c *Client, opponent string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.clients[opponent]
	if !ok {
		c.sendError("User not available")
		return
	}
	s.pendingRematches[c.Username] = opponent

	msg := network.NewMessage(network.MsgRematchRequest)
	msg.Set("requester", c.Username)
	target.Send(msg)
	s.logger.Info("%s requested a rematch with %s", c.Username, opponent)
}

// RespondToRematch resolves the pending rematch offer from requester.
// An accept starts a fresh game with the requester moving first.
func (s *Server) RespondToRematch(c *Client, requester, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.pendingRematches[requester]
	if !ok || target != c.Username {
		c.sendError("No pending rematch")
		return
	}
	delete(s.pendingRematches, requester)

	reply := network.NewMessage(network.MsgRematchResponse)
	reply.Set("opponent", c.Username)
	reply.Set("response", response)
	s.sendToPlayerLocked(requester, reply)

	if response != network.ResponseAccept {
		s.logger.Info("%s rejected %s's rematch", c.Username, requester)
		return
	}
	s.startGameLocked(requester, c.Username)
}

// startGameLocked creates a game with first moving first. A player may
// only be in one game at a time, so a party that dropped offline or
// entered another game since the offer kills the start; the other side
// hears "User not available".
func (s *Server) startGameLocked(first, second string) {
	firstClient, firstOK := s.clients[first]
	secondClient, secondOK := s.clients[second]
	if !firstOK {
		if secondOK {
			secondClient.sendError("User not available")
		}
		return
	}
	if !secondOK {
		firstClient.sendError("User not available")
		return
	}
	if s.gameOfLocked(first) != nil {
		secondClient.sendError("User not available")
		return
	}
	if s.gameOfLocked(second) != nil {
		firstClient.sendError("User not available")
		return
	}

	id := uuid.NewString()
	s.games[id] = game.NewSession(id, first, second)

	start := network.NewMessage(network.MsgStartGame)
	start.Set("gameId", id)
	start.Set("player1", first)
	start.Set("player2", second)
	start.Set("currentPlayer", first)
	firstClient.Send(start)
	secondClient.Send(start)

	s.logger.Info("Game %s started, %s vs %s", id, first, second)
}

// ProcessMove applies one move and fans the new board state out to both
// players. A move that ends the game also records results, notifies
// each player of their own outcome, and tears the game down.
func (s *Server) ProcessMove(c *Client, gameID string, x, y int) {
	s.mu.RLock()
	g, ok := s.games[gameID]
	s.mu.RUnlock()
	if !ok {
		c.sendError("Game not found")
		return
	}

	snap, err := g.Apply(c.Username, x, y)
	if err != nil {
		c.sendError(moveErrorText(err))
		return
	}

	s.sendUpdate(g, snap)
	if snap.Over {
		s.finishGame(g, snap)
	}
}

// sendUpdate fans the new board state out to both players, unless a
// disconnect teardown dropped the game while the move was in flight.
// A dead game gets no further frames.
func (s *Server) sendUpdate(g *game.Session, snap game.Snapshot) {
	update := network.NewMessage(network.MsgUpdate)
	update.Set("gameId", g.ID())
	update.Set("currentPlayer", snap.Current)
	update.SetObject("board", snap.Board)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.games[g.ID()] != g {
		return
	}
	s.sendToPlayerLocked(g.Player1(), update)
	s.sendToPlayerLocked(g.Player2(), update)
}

func moveErrorText(err error) string {
	switch {
	case errors.Is(err, game.ErrNotAPlayer):
		return "Not a player in this game"
	case errors.Is(err, game.ErrNotYourTurn):
		return "Not your turn"
	default:
		return "Invalid move, try again"
	}
}

// finishGame settles a game that just reached a terminal state. It
// must claim the game from the live table first: a disconnect teardown
// racing the final move may have dropped it already, and an abandoned
// game records no stats and sends no results.
func (s *Server) finishGame(g *game.Session, snap game.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.games[g.ID()] != g {
		return
	}
	delete(s.games, g.ID())

	p1, p2 := g.Player1(), g.Player2()
	s.lastOpponents[p1] = p2
	s.lastOpponents[p2] = p1
	s.recordResult(p1, g.ResultFor(p1))
	s.recordResult(p2, g.ResultFor(p2))
	s.sendToPlayerLocked(p1, resultMessage(g.ID(), g.ResultFor(p1), snap.Board))
	s.sendToPlayerLocked(p2, resultMessage(g.ID(), g.ResultFor(p2), snap.Board))

	s.logger.Info("Game %s finished, %s vs %s", g.ID(), p1, p2)
}

func (s *Server) recordResult(player, result string) {
	if err := s.accounts.RecordResult(player, result); err != nil {
		s.logger.Error("Failed to record %s for %s: %v", result, player, err)
	}
}

func resultMessage(gameID, result string, board map[string]string) *network.Message {
	msg := network.NewMessage(network.MsgResult)
	msg.Set("gameId", gameID)
	msg.Set("result", result)
	msg.SetObject("board", board)
	return msg
}

// LastOpponent reports who username last finished a game against.
func (s *Server) LastOpponent(username string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opponent, ok := s.lastOpponents[username]
	return opponent, ok
}

// SendLeaderboard sends c the top ranked accounts, one "|"-separated
// entry of "rank,username,wins,losses,draws" per account.
func (s *Server) SendLeaderboard(c *Client) {
	entries := s.accounts.Leaderboard(leaderboardSize)

	parts := make([]string, 0, len(entries))
	for i, acct := range entries {
		parts = append(parts, fmt.Sprintf("%d,%s,%d,%d,%d",
			i+1, acct.Username, acct.Wins, acct.Losses, acct.Draws))
	}

	msg := network.NewMessage(network.MsgLeaderboard)
	msg.Set("data", strings.Join(parts, "|"))
	c.Send(msg)
}
