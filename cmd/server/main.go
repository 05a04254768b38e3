// Tic-Tac-Toe Game Server - Main Entry Point
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ndachevski/networks/internal/account"
	"github.com/ndachevski/networks/internal/server"
	"github.com/ndachevski/networks/pkg/logger"
)

var (
	version   = "1.0.0"
	buildTime = "dev"
)

func main() {
	// Flags fall back to GAME_* environment variables, which a local
	// .env file may provide.
	_ = godotenv.Load()

	var (
		host      = flag.String("host", envOr("GAME_SERVER_HOST", "localhost"), "Server host")
		port      = flag.String("port", envOr("GAME_SERVER_PORT", "12345"), "Server port")
		usersFile = flag.String("users-file", envOr("GAME_USERS_FILE", "data/users.txt"), "Account storage file path")
		logLevel  = flag.String("log-level", envOr("GAME_LOG_LEVEL", "INFO"), "Log level (DEBUG, INFO, WARN, ERROR)")
		logFile   = flag.String("log-file", "", "Log file path (optional)")
		help      = flag.Bool("help", false, "Show help information")
		ver       = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}
	if *ver {
		showVersion()
		return
	}

	if err := initLogging(*logLevel, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	logger.Server.Info("Starting Tic-Tac-Toe Game Server v%s", version)

	accounts, err := account.NewRegistry(account.NewFileStore(*usersFile))
	if err != nil {
		logger.Server.Fatal("Failed to load accounts: %v", err)
	}
	logger.Server.Info("Loaded %d accounts from %s", accounts.Count(), *usersFile)

	address := fmt.Sprintf("%s:%s", *host, *port)
	gameServer := server.NewServer(address, accounts)

	setupGracefulShutdown(gameServer)

	if err := gameServer.Start(); err != nil {
		logger.Server.Fatal("Server failed to start: %v", err)
	}
}

// envOr returns the environment value for key, or fallback when unset.
func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// initLogging sets up the logging system
func initLogging(logLevel, logFile string) error {
	var level logger.LogLevel
	switch logLevel {
	case "DEBUG":
		level = logger.DEBUG
	case "INFO":
		level = logger.INFO
	case "WARN":
		level = logger.WARN
	case "ERROR":
		level = logger.ERROR
	default:
		level = logger.INFO
	}

	logger.SetGlobalLogLevel(level)

	if logFile != "" {
		if err := logger.Server.SetFile(logFile); err != nil {
			return fmt.Errorf("failed to set log file: %w", err)
		}
		logger.Server.Info("Logging to file: %s", logFile)
	} else {
		// Don't fail if we can't create the log directory, just log to console
		if err := logger.InitializeFileLogging("./logs"); err != nil {
			logger.Server.Warn("Could not initialize file logging: %v", err)
		}
	}

	return nil
}

// setupGracefulShutdown handles graceful shutdown on interrupt signals
func setupGracefulShutdown(gameServer *server.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Server.Info("Received shutdown signal, stopping server...")
		gameServer.Stop()
		os.Exit(0)
	}()
}

// showHelp displays help information
func showHelp() {
	fmt.Printf(`Tic-Tac-Toe Game Server v%s

USAGE:
    %s [OPTIONS]

OPTIONS:
    -host string         Server host (default "localhost")
    -port string         Server port (default "12345")
    -users-file string   Account storage file path (default "data/users.txt")
    -log-level string    Set log level (DEBUG, INFO, WARN, ERROR) (default "INFO")
    -log-file string     Set log file path (optional)
    -help               Show this help message
    -version            Show version information

EXAMPLES:
    # Start server with default settings
    %s

    # Start on specific port
    %s -port 9000

    # Start on all interfaces
    %s -host 0.0.0.0 -port 12345

    # Start with debug logging
    %s -log-level DEBUG

    # Production setup
    %s -host 0.0.0.0 -port 12345 -log-level WARN -log-file /var/log/game-server.log

SERVER FEATURES:
    - TCP socket server for client connections
    - Player registration and authentication
    - Challenge based matchmaking with rematches
    - Multiple concurrent tic-tac-toe games
    - Win/loss/draw leaderboard
    - File-based account persistence

NETWORK PROTOCOL:
    - Newline-delimited JSON messages over TCP
    - One connection per logged in player
    - Server push for challenges, board updates, and results

ENVIRONMENT:
    GAME_SERVER_HOST, GAME_SERVER_PORT, GAME_USERS_FILE, and GAME_LOG_LEVEL
    override the flag defaults. A .env file in the working directory is
    loaded automatically.
`, version, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

// showVersion displays version information
func showVersion() {
	fmt.Printf(`Tic-Tac-Toe Game Server
Version: %s
Build Time: %s
Go Version: %s
Platform: %s/%s

Server Features:
- TCP networking with line-based protocol
- Account registry with file persistence
- Challenge and rematch matchmaking
- Concurrent game session management
- Leaderboard rankings
`, version, buildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
