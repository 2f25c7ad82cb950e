package main

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamecodin/internal/app"
	"gamecodin/internal/config"
	"gamecodin/internal/domain"
	"gamecodin/internal/exec"
	httpTransport "gamecodin/internal/transport/http"
)

//go:embed puzzles.json
var defaultPuzzles []byte

func main() {
	// Load configuration
	cfg := config.Load()

	// Set up logger
	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting gamecodin server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"piston", cfg.Exec.PistonURL,
	)

	// Execution engine client and language catalogue
	piston := exec.NewClient(cfg.Exec.PistonURL, cfg.Exec.Timeout, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	runtimes, err := piston.Runtimes(ctx)
	cancel()
	if err != nil {
		logger.Error("failed to fetch language runtimes", "error", err)
		os.Exit(1)
	}
	languages := domain.NewLanguageRegistry(runtimes)
	logger.Info("language catalogue loaded", "languages", languages.Len())

	// Puzzle set
	puzzles, err := loadPuzzles(cfg.Game.PuzzlesPath)
	if err != nil {
		logger.Error("failed to load puzzles", "error", err)
		os.Exit(1)
	}
	logger.Info("puzzles loaded", "count", len(puzzles))

	// Game session and round clock
	grader := exec.NewGrader(piston, cfg.Exec.RetryLimit, logger)
	session := app.NewGameSession(puzzles, languages, grader, app.NewSystemClock(), app.Durations{
		Intermission: cfg.Game.Intermission,
		Round:        cfg.Game.Round,
		Grace:        cfg.Game.Grace,
	}, logger)

	gameCtx, stopGame := context.WithCancel(context.Background())
	defer stopGame()
	go session.Run(gameCtx)

	// HTTP server
	server := httpTransport.NewServer(cfg, session, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopGame()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

// loadPuzzles reads the puzzle set from the configured path, falling back to
// the embedded default set
func loadPuzzles(path string) ([]domain.Puzzle, error) {
	if path == "" {
		return domain.LoadPuzzles(bytes.NewReader(defaultPuzzles))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return domain.LoadPuzzles(f)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
