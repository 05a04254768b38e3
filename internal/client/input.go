package client

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/ndachevski/networks/internal/network"
)

// InputHandler reads player commands from standard input.
type InputHandler struct {
	scanner *bufio.Scanner
}

// NewInputHandler creates a new input handler
func NewInputHandler() *InputHandler {
	return &InputHandler{scanner: bufio.NewScanner(os.Stdin)}
}

// ReadLine returns the next trimmed input line, or false once stdin closes.
func (ih *InputHandler) ReadLine() (string, bool) {
	if !ih.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(ih.scanner.Text()), true
}

// commandLoop drives the interactive prompt until the player exits.
func (c *Client) commandLoop() {
	c.display.PrintInfo("Type 'help' for commands")

	for {
		c.display.PrintPrompt()
		line, ok := c.input.ReadLine()
		if !ok {
			c.Close()
			return
		}
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		switch strings.ToLower(parts[0]) {
		case "register":
			if len(parts) >= 3 {
				c.Register(parts[1], parts[2])
			} else {
				c.display.PrintError("Usage: register <username> <password>")
			}
		case "login":
			if len(parts) >= 3 {
				c.Login(parts[1], parts[2])
			} else {
				c.display.PrintError("Usage: login <username> <password>")
			}
		case "list":
			if c.authenticated() {
				c.ListPlayers()
			} else {
				c.display.PrintError("Please login first")
			}
		case "challenge":
			if len(parts) < 2 {
				c.display.PrintError("Usage: challenge <username>")
			} else if !c.authenticated() {
				c.display.PrintError("Please login first")
			} else {
				c.Challenge(parts[1])
			}
		case "accept":
			c.respondToPending(network.ResponseAccept)
		case "reject":
			c.respondToPending(network.ResponseReject)
		case "move":
			c.moveCommand(parts)
		case "board":
			if c.playing() {
				c.display.PrintBoard(c.boardSnapshot())
			} else {
				c.display.PrintError("Not in a game")
			}
		case "stats":
			c.statsCommand()
		case "rematch":
			opponent := ""
			if len(parts) >= 2 {
				opponent = parts[1]
			}
			c.RequestRematch(opponent)
		case "leaderboard":
			c.RequestLeaderboard()
		case "logout":
			c.Logout()
			c.display.PrintInfo("Logged out. Goodbye!")
			return
		case "quit", "exit":
			c.Logout()
			c.display.PrintInfo("Goodbye!")
			return
		case "help":
			c.display.PrintHelp()
		default:
			c.display.PrintError("Unknown command. Type 'help' for commands")
		}
	}
}

// respondToPending answers whichever offer is waiting, challenges first.
func (c *Client) respondToPending(response string) {
	if challenger, ok := c.consumePendingChallenge(); ok {
		c.RespondToChallenge(challenger, response)
		return
	}
	if requester, ok := c.consumePendingRematch(); ok {
		c.RespondToRematch(requester, response)
		return
	}
	c.display.PrintError("No pending challenge or rematch")
}

func (c *Client) moveCommand(parts []string) {
	if len(parts) < 3 {
		c.display.PrintError("Usage: move <x> <y> (0-2)")
		return
	}
	if !c.playing() {
		c.display.PrintError("Not in a game")
		return
	}

	x, errX := strconv.Atoi(parts[1])
	y, errY := strconv.Atoi(parts[2])
	if errX != nil || errY != nil {
		c.display.PrintError("Invalid coordinates")
		return
	}
	if x < 0 || x > 2 || y < 0 || y > 2 {
		c.display.PrintError("Coordinates must be 0-2")
		return
	}

	c.MakeMove(x, y)
}

func (c *Client) statsCommand() {
	player := c.statsSnapshot()
	if !player.Authenticated {
		c.display.PrintError("Not logged in")
		return
	}
	c.display.PrintStats(player)
}
