package server

import (
	"bufio"
	"errors"
	"net"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/ndachevski/networks/internal/account"
	"github.com/ndachevski/networks/internal/network"
	"github.com/ndachevski/networks/pkg/logger"
)

// Client is one connected session. A dedicated goroutine owns the read
// side; writes from any goroutine serialize through writeMu.
type Client struct {
	ID       string
	Username string
	Conn     net.Conn

	server        *Server
	writer        *bufio.Writer
	writeMu       sync.Mutex
	authenticated bool
	closeOnce     sync.Once
	logger        *logger.Logger
}

func newClient(conn net.Conn, srv *Server) *Client {
	return &Client{
		ID:     uuid.NewString(),
		Conn:   conn,
		server: srv,
		writer: bufio.NewWriter(conn),
		logger: srv.logger,
	}
}

// run reads frames until the connection drops or the client logs out.
func (c *Client) run() {
	defer c.cleanup()

	scanner := bufio.NewScanner(c.Conn)
	for scanner.Scan() {
		c.handleLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		c.logger.Debug("Connection to %s closed: %v", c.describe(), err)
	}
}

func (c *Client) handleLine(line string) {
	msg, err := network.Decode(line)
	if err != nil || msg.Type == "" {
		c.logger.Debug("Rejected frame from %s: %v", c.describe(), err)
		c.sendError("Invalid message format")
		return
	}

	c.logger.Debug("Received %s from %s", msg.Type, c.describe())

	switch msg.Type {
	case network.MsgRegister:
		c.handleRegister(msg)
	case network.MsgLogin:
		c.handleLogin(msg)
	case network.MsgListPlayers:
		c.handleListPlayers()
	case network.MsgChallenge:
		c.handleChallenge(msg)
	case network.MsgChallengeResponse:
		c.handleChallengeResponse(msg)
	case network.MsgMove:
		c.handleMove(msg)
	case network.MsgRematchRequest:
		c.handleRematchRequest(msg)
	case network.MsgRematchResponse:
		c.handleRematchResponse(msg)
	case network.MsgLeaderboard:
		c.handleLeaderboard()
	case network.MsgLogout:
		c.cleanup()
	default:
		c.sendError("Unknown message type")
	}
}

// describe names the session for logs: the username once authenticated,
// the session id before that.
func (c *Client) describe() string {
	if c.Username != "" {
		return c.Username
	}
	return c.ID
}

func (c *Client) handleRegister(msg *network.Message) {
	username := msg.Get("username")
	password := msg.Get("password")
	if username == "" || password == "" {
		c.sendError("Username and password required")
		return
	}

	err := c.server.accounts.Register(username, password)
	switch {
	case errors.Is(err, account.ErrUsernameTaken):
		c.sendError("Username already exists")
	case err != nil:
		c.logger.Error("Failed to register %s: %v", username, err)
		c.sendError("Registration failed")
	default:
		c.logger.Info("Registered new player %s", username)
		c.sendSuccess("Registration successful")
	}
}

func (c *Client) handleLogin(msg *network.Message) {
	if c.authenticated {
		c.sendError("User already logged in")
		return
	}

	username := msg.Get("username")
	password := msg.Get("password")
	if username == "" || password == "" {
		c.sendError("Username and password required")
		return
	}
	if !c.server.accounts.Authenticate(username, password) {
		c.sendError("Incorrect credentials")
		return
	}
	if !c.server.presence.TryOnline(username, c.ID) {
		c.sendError("User already logged in")
		return
	}

	c.Username = username
	c.authenticated = true
	c.server.AddClient(c)

	acct, _ := c.server.accounts.Get(username)
	reply := network.NewMessage(network.MsgLoginSuccess)
	reply.Set("username", username)
	reply.Set("wins", strconv.Itoa(acct.Wins))
	reply.Set("losses", strconv.Itoa(acct.Losses))
	reply.Set("draws", strconv.Itoa(acct.Draws))
	c.Send(reply)

	c.logger.Info("Player %s logged in", username)
	c.server.BroadcastPlayerList()
}

// requireAuth rejects the request when the session has not logged in.
func (c *Client) requireAuth() bool {
	if !c.authenticated {
		c.sendError("Not authenticated")
		return false
	}
	return true
}

func (c *Client) handleListPlayers() {
	if !c.requireAuth() {
		return
	}
	c.server.SendPlayerList(c)
}

func (c *Client) handleChallenge(msg *network.Message) {
	if !c.requireAuth() {
		return
	}

	opponent := msg.Get("opponent")
	if opponent == "" {
		c.sendError("Opponent username required")
		return
	}
	if !c.server.presence.IsOnline(opponent) {
		c.sendError("User not available")
		return
	}
	if opponent == c.Username {
		c.sendError("Cannot challenge yourself")
		return
	}

	c.server.Challenge(c, opponent)
}

func (c *Client) handleChallengeResponse(msg *network.Message) {
	if !c.requireAuth() {
		return
	}

	challenger := msg.Get("challenger")
	response := msg.Get("response")
	if challenger == "" || response == "" {
		c.sendError("Invalid challenge response")
		return
	}

	c.server.RespondToChallenge(c, challenger, response)
}

func (c *Client) handleMove(msg *network.Message) {
	if !c.requireAuth() {
		return
	}

	gameID := msg.Get("gameId")
	data := msg.Object("data")
	if gameID == "" || data == nil {
		c.sendError("Invalid move format")
		return
	}
	if data["x"] == "" || data["y"] == "" {
		c.sendError("Move coordinates required")
		return
	}

	x, errX := strconv.Atoi(data["x"])
	y, errY := strconv.Atoi(data["y"])
	if errX != nil || errY != nil {
		c.sendError("Invalid move coordinates")
		return
	}

	c.server.ProcessMove(c, gameID, x, y)
}

func (c *Client) handleRematchRequest(msg *network.Message) {
	if !c.requireAuth() {
		return
	}

	opponent := msg.Get("opponent")
	if opponent == "" {
		last, ok := c.server.LastOpponent(c.Username)
		if !ok {
			c.sendError("No previous opponent found")
			return
		}
		opponent = last
	}
	if !c.server.presence.IsOnline(opponent) {
		c.sendError("User not available")
		return
	}

	c.server.RequestRematch(c, opponent)
}

func (c *Client) handleRematchResponse(msg *network.Message) {
	if !c.requireAuth() {
		return
	}

	requester := msg.Get("opponent")
	response := msg.Get("response")
	if requester == "" || response == "" {
		c.sendError("Invalid rematch response")
		return
	}

	c.server.RespondToRematch(c, requester, response)
}

func (c *Client) handleLeaderboard() {
	if !c.requireAuth() {
		return
	}
	c.server.SendLeaderboard(c)
}

// Send writes one frame to the peer. On a write error it only closes
// the connection; the read goroutine notices and runs the full cleanup,
// so Send stays safe to call while server locks are held.
func (c *Client) Send(msg *network.Message) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_, err := c.writer.WriteString(network.Encode(msg) + "\n")
	if err == nil {
		err = c.writer.Flush()
	}
	if err != nil {
		c.logger.Debug("Dropping connection to %s: %v", c.describe(), err)
		c.Conn.Close()
	}
}

func (c *Client) sendError(text string) {
	c.Send(network.CreateErrorMessage(text))
}

func (c *Client) sendSuccess(text string) {
	c.Send(network.CreateSuccessMessage(text))
}

// cleanup releases everything the session holds. It runs at most once,
// whether triggered by LOGOUT or by the read loop ending.
func (c *Client) cleanup() {
	c.closeOnce.Do(func() {
		if c.Username != "" {
			// Unregister before releasing presence: a fresh login for
			// the same name must not displace this session until the
			// game teardown and opponent notice have gone out.
			c.server.RemoveClient(c)
			c.server.presence.Offline(c.Username)
			c.server.BroadcastPlayerList()
			c.logger.Info("Player %s disconnected", c.Username)
		} else {
			c.logger.Info("Client %s disconnected", c.ID)
		}
		c.server.forgetSession(c)
		c.Conn.Close()
	})
}
