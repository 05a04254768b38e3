// Package client implements the interactive terminal client.
package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
)

type Display struct {
	bannerColor *color.Color
	serverColor *color.Color
	infoColor   *color.Color
	errorColor  *color.Color
	boardColor  *color.Color
	headerColor *color.Color
	winColor    *color.Color
	loseColor   *color.Color
	drawColor   *color.Color
	promptColor *color.Color
}

// NewDisplay creates a new display instance with configured colors
func NewDisplay() *Display {
	return &Display{
		bannerColor: color.New(color.FgYellow, color.Bold),
		serverColor: color.New(color.FgCyan, color.Bold),
		infoColor:   color.New(color.FgWhite),
		errorColor:  color.New(color.FgRed, color.Bold),
		boardColor:  color.New(color.FgCyan),
		headerColor: color.New(color.FgYellow, color.Bold),
		winColor:    color.New(color.FgGreen, color.Bold),
		loseColor:   color.New(color.FgRed, color.Bold),
		drawColor:   color.New(color.FgYellow),
		promptColor: color.New(color.FgGreen),
	}
}

// PrintBanner displays the client banner
func (d *Display) PrintBanner() {
	banner := `
╔═══════════════════════════════════════╗
║        TIC-TAC-TOE GAME CLIENT        ║
║            Network Edition            ║
╚═══════════════════════════════════════╝
`
	d.bannerColor.Println(banner)
}

// PrintServerStatus displays server connection status
func (d *Display) PrintServerStatus(message string) {
	timestamp := time.Now().Format("15:04:05")
	d.serverColor.Printf("[%s] [SERVER] %s\n", timestamp, message)
}

// PrintInfo displays informational messages
func (d *Display) PrintInfo(message string) {
	d.infoColor.Printf("[INFO] %s\n", message)
}

// PrintError displays error messages
func (d *Display) PrintError(message string) {
	d.errorColor.Printf("[ERROR] %s\n", message)
}

// PrintPrompt displays the command prompt
func (d *Display) PrintPrompt() {
	d.promptColor.Print("> ")
}

// PrintBoard renders the 3x3 board with row and column coordinates.
func (d *Display) PrintBoard(board [3][3]byte) {
	d.boardColor.Println("\n  0   1   2")
	for i := 0; i < 3; i++ {
		cells := make([]string, 3)
		for j := 0; j < 3; j++ {
			cells[j] = string(board[i][j])
		}
		d.boardColor.Printf("%d %s\n", i, strings.Join(cells, " | "))
		if i < 2 {
			d.boardColor.Println("  ---------")
		}
	}
	fmt.Println()
}

// PrintStats displays the player's win/loss/draw record
func (d *Display) PrintStats(player Player) {
	d.headerColor.Println("\n=== Your Statistics ===")
	d.infoColor.Printf("Username: %s\n", player.Username)
	d.infoColor.Printf("Wins: %d\n", player.Wins)
	d.infoColor.Printf("Losses: %d\n", player.Losses)
	d.infoColor.Printf("Draws: %d\n", player.Draws)
	d.headerColor.Println("=====================")
	fmt.Println()
}

// PrintPlayersList displays the other players currently online
func (d *Display) PrintPlayersList(players []string) {
	if len(players) == 0 {
		d.infoColor.Println("\nNo other players online")
		fmt.Println()
		return
	}

	d.headerColor.Println("\n=== Online Players ===")
	for _, player := range players {
		d.infoColor.Printf("- %s\n", player)
	}
	d.headerColor.Println("======================")
	fmt.Println()
}

// PrintChallenge displays an incoming challenge
func (d *Display) PrintChallenge(challenger string) {
	d.headerColor.Println("\n=== CHALLENGE ===")
	d.infoColor.Printf("%s has challenged you to a game!\n", challenger)
	d.infoColor.Println("Type 'accept' to accept or 'reject' to reject")
	d.headerColor.Println("==================")
	fmt.Println()
}

// PrintResult displays the final outcome from this player's side
func (d *Display) PrintResult(result string) {
	switch result {
	case "WIN":
		d.winColor.Println("Congratulations! You won!")
	case "LOSS":
		d.loseColor.Println("You lost. Better luck next time!")
	default:
		d.drawColor.Println("It's a draw!")
	}
}

// PrintLeaderboard renders ranked entries of "rank,name,wins,losses,draws".
func (d *Display) PrintLeaderboard(entries []string) {
	d.headerColor.Println("\n=== LEADERBOARD ===")
	d.infoColor.Println("Rank | Player     | Wins | Losses | Draws")
	d.infoColor.Println("-----|------------|------|--------|------")
	for _, entry := range entries {
		parts := strings.Split(entry, ",")
		if len(parts) < 5 {
			continue
		}
		d.infoColor.Printf("%-4s | %-10s | %-4s | %-6s | %-5s\n",
			parts[0], parts[1], parts[2], parts[3], parts[4])
	}
	d.headerColor.Println("=====================")
	fmt.Println()
}

// PrintHelp displays the command reference
func (d *Display) PrintHelp() {
	d.headerColor.Println("\n=== Available Commands ===")
	d.infoColor.Println("register <username> <password> - Register a new account")
	d.infoColor.Println("login <username> <password>    - Login to your account")
	d.infoColor.Println("list                           - List online players")
	d.infoColor.Println("challenge <username>           - Challenge a player")
	d.infoColor.Println("accept                         - Accept a challenge")
	d.infoColor.Println("reject                         - Reject a challenge")
	d.infoColor.Println("move <x> <y>                   - Make a move (0-2)")
	d.infoColor.Println("board                          - Show current board")
	d.infoColor.Println("stats                          - Show your statistics")
	d.infoColor.Println("rematch [username]             - Request a rematch (last opponent by default)")
	d.infoColor.Println("leaderboard                    - Show top players leaderboard")
	d.infoColor.Println("logout                         - Logout and disconnect")
	d.infoColor.Println("quit/exit                      - Exit the client")
	d.infoColor.Println("help                           - Show this help")
	d.headerColor.Println("============================")
	fmt.Println()
}
