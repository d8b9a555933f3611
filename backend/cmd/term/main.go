package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"fractal-marble/backend/internal/game"
	"fractal-marble/backend/internal/term"
)

var (
	tps     = flag.Int("tps", 60, "Simulation ticks per second")
	level   = flag.Int("level", 0, "Initial level index")
	mute    = flag.Bool("mute", false, "Disable sound")
	logFile = flag.String("log", "", "Log file (empty: logs are discarded, the terminal is busy)")
)

func main() {
	flag.Parse()

	logger := log.New(io.Discard, "", log.LstdFlags)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	g, err := game.New(game.Config{TargetTPS: *tps, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create game: %v\n", err)
		os.Exit(1)
	}
	if _, err := g.SelectLevel(*level); err != nil {
		fmt.Fprintf(os.Stderr, "Bad -level: %v\n", err)
		os.Exit(1)
	}

	if !*mute {
		sound := term.NewSound()
		if err := sound.Init(); err != nil {
			// без звука играть можно
			logger.Printf("[Term] Audio initialization failed: %v", err)
		} else {
			defer sound.Close()
			g.AddListener(sound)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	screen.EnableFocus()

	if err := g.Start(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start game loop: %v\n", err)
		os.Exit(1)
	}
	g.SetPaused(false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := term.NewApp(screen, g, logger)
	runErr := app.Run(ctx)

	g.Stop()
	screen.Fini()

	if runErr != nil && runErr != context.Canceled {
		fmt.Fprintf(os.Stderr, "Terminal error: %v\n", runErr)
		os.Exit(1)
	}
}
