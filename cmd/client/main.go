// Tic-Tac-Toe Game Client - Main Entry Point
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ndachevski/networks/internal/client"
	"github.com/ndachevski/networks/pkg/logger"
)

var version = "1.0.0"

func main() {
	_ = godotenv.Load()

	defaultAddr := fmt.Sprintf("%s:%s",
		envOr("GAME_SERVER_HOST", "localhost"), envOr("GAME_SERVER_PORT", "12345"))

	var (
		serverAddr = flag.String("server", defaultAddr, "Server address (host:port)")
		logLevel   = flag.String("log-level", envOr("GAME_LOG_LEVEL", "INFO"), "Log level (DEBUG, INFO, WARN, ERROR)")
		logFile    = flag.String("log-file", "", "Log file path (optional)")
	)
	flag.Parse()

	if err := initLogging(*logLevel, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	logger.Client.Info("Starting Tic-Tac-Toe Game Client v%s", version)

	gameClient := client.NewClient(*serverAddr)

	setupGracefulShutdown(gameClient)

	if err := gameClient.Start(); err != nil {
		logger.Client.Error("Client failed to start: %v", err)
		os.Exit(1)
	}

	logger.Client.Info("Client shutting down gracefully")
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
		if err := logger.Client.SetFile(logFile); err != nil {
			return fmt.Errorf("failed to set log file: %w", err)
		}
	} else {
		// Don't fail if we can't create the log directory, just log to console
		if err := logger.InitializeFileLogging("./logs"); err != nil {
			logger.Client.Warn("Could not initialize file logging: %v", err)
		}
	}

	return nil
}

// setupGracefulShutdown handles graceful shutdown on interrupt signals
func setupGracefulShutdown(gameClient *client.Client) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Client.Info("Received shutdown signal, closing client...")
		gameClient.Close()
		os.Exit(0)
	}()
}
