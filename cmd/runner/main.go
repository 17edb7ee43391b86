package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jwebster45206/script-engine/internal/config"
	"github.com/jwebster45206/script-engine/internal/logger"
	"github.com/jwebster45206/script-engine/internal/storage"
	"github.com/jwebster45206/script-engine/pkg/engine"
	"github.com/jwebster45206/script-engine/pkg/script"
)

const defaultScript = "intro.txt"

func main() {
	cfg := config.Load()

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile("runner.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close() // Ignore error in defer
	}()
	log := logger.SetupWithWriter(cfg, logFile)

	var store storage.Storage
	if cfg.RedisURL != "" {
		rs, err := storage.NewRedisStorage(cfg.RedisURL, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Redis: %v\n", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		if err := rs.WaitForConnection(ctx); err != nil {
			cancel()
			fmt.Fprintf(os.Stderr, "Redis is not reachable: %v\n", err)
			os.Exit(1)
		}
		cancel()
		store = rs
	} else {
		store = storage.NewMemoryStorage()
	}
	defer func() {
		_ = store.Close() // Ignore error in defer
	}()

	scriptFile := defaultScript
	if len(os.Args) > 1 {
		scriptFile = os.Args[1]
	}

	slot := uuid.New()
	if s := os.Getenv("SAVE_SLOT"); s != "" {
		parsed, err := uuid.Parse(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid SAVE_SLOT %q: %v\n", s, err)
			os.Exit(1)
		}
		slot = parsed
	}

	world := newConsoleWorld()
	eng := engine.New(engine.Options{
		Logger: log,
		Loader: script.NewLoader(cfg.ScriptDir, log),
		World:  world,
	})
	world.resolver = eng.Resolver()
	world.clock = eng.Clock

	if _, err := eng.RunScriptFile(scriptFile, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load script %s: %v\n", scriptFile, err)
		os.Exit(1)
	}

	log.Info("runner starting",
		"script", scriptFile,
		"script_dir", cfg.ScriptDir,
		"slot", slot.String())

	p := tea.NewProgram(NewRunnerUI(cfg, log, eng, world, store, slot, scriptFile),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
