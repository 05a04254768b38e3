package client

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/ndachevski/networks/internal/network"
	"github.com/ndachevski/networks/pkg/logger"
)

// Player holds the logged in account's view of its own record.
type Player struct {
	Username      string
	Wins          int
	Losses        int
	Draws         int
	Authenticated bool
}

// Client connects to the game server and drives the interactive session.
// Server messages are consumed on a listener goroutine while commands are
// read from stdin, so shared state lives behind mu.
type Client struct {
	serverAddr string
	conn       net.Conn
	writer     *bufio.Writer
	display    *Display
	input      *InputHandler
	logger     *logger.Logger

	mu                sync.Mutex
	player            Player
	gameID            string
	opponent          string
	board             [3][3]byte
	current           string
	inGame            bool
	pendingChallenger string
	pendingRematch    string
	closed            bool
}

// NewClient creates a new client instance
func NewClient(serverAddr string) *Client {
	return &Client{
		serverAddr: serverAddr,
		display:    NewDisplay(),
		input:      NewInputHandler(),
		logger:     logger.Client,
	}
}

// Start connects to the server and runs the command loop until the
// player exits.
func (c *Client) Start() error {
	c.display.PrintBanner()

	if err := c.connect(); err != nil {
		c.display.PrintError(fmt.Sprintf("Failed to connect to server: %v", err))
		return err
	}

	go c.listen()

	c.commandLoop()
	return nil
}

func (c *Client) connect() error {
	conn, err := net.Dial("tcp", c.serverAddr)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.conn = conn
	c.writer = bufio.NewWriter(conn)
	c.display.PrintServerStatus("Connected to server")
	c.logger.Info("Connected to server at %s", c.serverAddr)
	return nil
}

// Close disconnects from the server.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// listen consumes server messages until the connection drops.
func (c *Client) listen() {
	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		c.handleServerMessage(scanner.Text())
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if !closed {
		c.display.PrintError("Lost connection to server")
		c.logger.Error("Lost connection to server")
	}
}

func (c *Client) handleServerMessage(line string) {
	msg, err := network.Decode(line)
	if err != nil {
		c.logger.Warn("Ignoring malformed server message: %v", err)
		return
	}
	c.logger.Debug("Received %s from server", msg.Type)

	switch msg.Type {
	case network.MsgLoginSuccess:
		c.handleLoginSuccess(msg)
	case network.MsgSuccess:
		c.display.PrintInfo(msg.Get("message"))
	case network.MsgError:
		c.display.PrintError(msg.Get("message"))
	case network.MsgPlayersList:
		c.handlePlayersList(msg)
	case network.MsgChallenge:
		c.handleChallenge(msg)
	case network.MsgChallengeResponse:
		c.handleChallengeResponse(msg)
	case network.MsgStartGame:
		c.handleStartGame(msg)
	case network.MsgUpdate:
		c.handleUpdate(msg)
	case network.MsgResult:
		c.handleResult(msg)
	case network.MsgOpponentDisconnected:
		c.handleOpponentDisconnected()
	case network.MsgRematchRequest:
		c.handleRematchRequest(msg)
	case network.MsgRematchResponse:
		c.handleRematchResponse(msg)
	case network.MsgLeaderboard:
		c.handleLeaderboard(msg)
	default:
		c.logger.Debug("Unhandled message type: %s", msg.Type)
	}
}

func (c *Client) handleLoginSuccess(msg *network.Message) {
	wins, _ := strconv.Atoi(msg.Get("wins"))
	losses, _ := strconv.Atoi(msg.Get("losses"))
	draws, _ := strconv.Atoi(msg.Get("draws"))

	c.mu.Lock()
	c.player = Player{
		Username:      msg.Get("username"),
		Wins:          wins,
		Losses:        losses,
		Draws:         draws,
		Authenticated: true,
	}
	player := c.player
	c.mu.Unlock()

	c.display.PrintInfo("Login successful! Welcome " + player.Username)
	c.display.PrintStats(player)
}

func (c *Client) handlePlayersList(msg *network.Message) {
	var players []string
	if list := msg.Get("players"); list != "" {
		players = strings.Split(list, ",")
	}
	c.display.PrintPlayersList(players)
}

func (c *Client) handleChallenge(msg *network.Message) {
	challenger := msg.Get("challenger")

	c.mu.Lock()
	c.pendingChallenger = challenger
	c.mu.Unlock()

	c.display.PrintChallenge(challenger)
}

func (c *Client) handleChallengeResponse(msg *network.Message) {
	opponent := msg.Get("opponent")
	if msg.Get("response") == network.ResponseAccept {
		c.display.PrintInfo(opponent + " accepted your challenge!")
	} else {
		c.display.PrintInfo(opponent + " rejected your challenge.")
	}
}

func (c *Client) handleRematchRequest(msg *network.Message) {
	requester := msg.Get("requester")

	c.mu.Lock()
	c.pendingRematch = requester
	c.mu.Unlock()

	c.display.PrintInfo(requester + " wants a rematch! Type 'accept' to accept or 'reject' to reject")
}

func (c *Client) handleRematchResponse(msg *network.Message) {
	opponent := msg.Get("opponent")
	if msg.Get("response") == network.ResponseAccept {
		c.display.PrintInfo(opponent + " accepted your rematch request!")
	} else {
		c.display.PrintInfo(opponent + " declined your rematch request.")
	}
}

func (c *Client) handleStartGame(msg *network.Message) {
	c.mu.Lock()
	c.gameID = msg.Get("gameId")
	c.current = msg.Get("currentPlayer")
	if msg.Get("player1") == c.player.Username {
		c.opponent = msg.Get("player2")
	} else {
		c.opponent = msg.Get("player1")
	}
	c.clearBoardLocked()
	c.inGame = true
	board := c.board
	me := c.player.Username
	opponent := c.opponent
	current := c.current
	c.mu.Unlock()

	c.display.PrintInfo("Game started! You are playing against " + opponent)
	c.display.PrintBoard(board)
	c.printTurn(current, me, opponent)
}

func (c *Client) handleUpdate(msg *network.Message) {
	c.mu.Lock()
	c.current = msg.Get("currentPlayer")
	c.applyBoardLocked(msg.Object("board"))
	board := c.board
	me := c.player.Username
	opponent := c.opponent
	current := c.current
	c.mu.Unlock()

	c.display.PrintBoard(board)
	c.printTurn(current, me, opponent)
}

func (c *Client) handleResult(msg *network.Message) {
	c.mu.Lock()
	c.applyBoardLocked(msg.Object("board"))
	board := c.board
	c.inGame = false
	c.gameID = ""
	c.opponent = ""
	c.mu.Unlock()

	c.display.PrintBoard(board)
	c.display.PrintResult(msg.Get("result"))
}

func (c *Client) handleOpponentDisconnected() {
	c.mu.Lock()
	c.inGame = false
	c.gameID = ""
	c.opponent = ""
	c.mu.Unlock()

	c.display.PrintError("Your opponent disconnected. Game ended.")
}

func (c *Client) handleLeaderboard(msg *network.Message) {
	data := msg.Get("data")
	if data == "" {
		c.display.PrintError("No leaderboard data available")
		return
	}
	c.display.PrintLeaderboard(strings.Split(data, "|"))
}

func (c *Client) printTurn(current, me, opponent string) {
	if current == me {
		c.display.PrintInfo("Your turn!")
	} else {
		c.display.PrintInfo("Waiting for " + opponent + "'s move...")
	}
}

func (c *Client) clearBoardLocked() {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c.board[i][j] = ' '
		}
	}
}

// applyBoardLocked merges a board object of "x,y" keyed marks into the
// local grid. Caller must hold mu.
func (c *Client) applyBoardLocked(board map[string]string) {
	for key, mark := range board {
		coords := strings.SplitN(key, ",", 2)
		if len(coords) != 2 {
			continue
		}
		x, errX := strconv.Atoi(coords[0])
		y, errY := strconv.Atoi(coords[1])
		if errX != nil || errY != nil || x < 0 || x > 2 || y < 0 || y > 2 {
			continue
		}
		if mark == "" {
			mark = " "
		}
		c.board[x][y] = mark[0]
	}
}

// Register sends a registration request.
func (c *Client) Register(username, password string) {
	c.send(network.CreateAuthMessage(network.MsgRegister, username, password))
}

// Login sends a login request.
func (c *Client) Login(username, password string) {
	c.send(network.CreateAuthMessage(network.MsgLogin, username, password))
}

// ListPlayers asks the server for the current online list.
func (c *Client) ListPlayers() {
	c.send(network.NewMessage(network.MsgListPlayers))
}

// Challenge invites another player to a game.
func (c *Client) Challenge(opponent string) {
	c.send(network.CreateChallengeMessage(opponent))
}

// RespondToChallenge answers a pending challenge from challenger.
func (c *Client) RespondToChallenge(challenger, response string) {
	c.send(network.CreateChallengeResponseMessage(challenger, response))
}

// MakeMove plays the cell at (x, y) in the current game.
func (c *Client) MakeMove(x, y int) {
	c.mu.Lock()
	gameID := c.gameID
	inGame := c.inGame
	c.mu.Unlock()

	if !inGame || gameID == "" {
		c.display.PrintError("Not in a game")
		return
	}
	c.send(network.CreateMoveMessage(gameID, strconv.Itoa(x), strconv.Itoa(y)))
}

// RequestRematch asks opponent for a rematch. With an empty opponent the
// server resolves the last finished game's opponent.
func (c *Client) RequestRematch(opponent string) {
	msg := network.NewMessage(network.MsgRematchRequest)
	if opponent != "" {
		msg.Set("opponent", opponent)
		c.display.PrintInfo("Requesting rematch with " + opponent + "...")
	} else {
		c.display.PrintInfo("Requesting a rematch with your last opponent...")
	}
	c.send(msg)
}

// RespondToRematch answers a pending rematch request from requester.
func (c *Client) RespondToRematch(requester, response string) {
	c.send(network.CreateRematchResponseMessage(requester, response))
}

// RequestLeaderboard asks the server for the top ranked players.
func (c *Client) RequestLeaderboard() {
	c.send(network.NewMessage(network.MsgLeaderboard))
}

// Logout tells the server goodbye and closes the connection.
func (c *Client) Logout() {
	c.send(network.NewMessage(network.MsgLogout))
	c.Close()
}

func (c *Client) send(msg *network.Message) {
	if c.writer == nil {
		c.display.PrintError("Not connected to server")
		return
	}

	_, err := c.writer.WriteString(network.Encode(msg) + "\n")
	if err == nil {
		err = c.writer.Flush()
	}
	if err != nil {
		c.logger.Error("Failed to send %s: %v", msg.Type, err)
		c.display.PrintError("Lost connection to server")
	}
}

func (c *Client) authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player.Authenticated
}

func (c *Client) playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inGame
}

func (c *Client) boardSnapshot() [3][3]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board
}

func (c *Client) statsSnapshot() Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player
}

func (c *Client) consumePendingChallenge() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingChallenger == "" {
		return "", false
	}
	challenger := c.pendingChallenger
	c.pendingChallenger = ""
	return challenger, true
}

func (c *Client) consumePendingRematch() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingRematch == "" {
		return "", false
	}
	requester := c.pendingRematch
	c.pendingRematch = ""
	return requester, true
}
