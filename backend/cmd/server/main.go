package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fractal-marble/backend/internal/adapter/out/oracle"
	"fractal-marble/backend/internal/fractal"
	"fractal-marble/backend/internal/game"
	"fractal-marble/backend/internal/level"
	"fractal-marble/backend/internal/transport/ws"
)

var (
	addr            = flag.String("addr", ":8080", "HTTP address for /ws")
	tps             = flag.Int("tps", 60, "Simulation ticks per second")
	oracleAddr      = flag.String("oracle", "", "Distance field service address (empty: analytic stand-in)")
	oracleTimeout   = flag.Duration("oracle-timeout", oracle.DefaultTimeout, "Timeout of one nearest point request")
	startLevel      = flag.Int("level", 0, "Initial level index")
	startPaused     = flag.Bool("paused", false, "Start paused")
	pauseOnComplete = flag.Bool("pause-on-flag", false, "Pause when the marble reaches the flag")
	staticDir       = flag.String("static", "", "Directory with the web client (empty: not served)")
)

func main() {
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg := game.Config{
		TargetTPS:       *tps,
		PauseOnComplete: *pauseOnComplete,
		Logger:          logger,
	}

	if *oracleAddr != "" {
		remote, err := oracle.Dial(*oracleAddr, *oracleTimeout, logger)
		if err != nil {
			log.Fatalf("Failed to create oracle client: %v", err)
		}
		defer remote.Close()

		cfg.Oracles = func(level.Data) fractal.Oracle { return remote }
	}

	g, err := game.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	if *startLevel != 0 {
		if _, err := g.SelectLevel(*startLevel); err != nil {
			log.Fatalf("Bad -level: %v", err)
		}
	}
	g.SetPaused(*startPaused)

	wsServer := ws.NewWSServer(g, logger)
	g.AddListener(wsServer)
	g.Store.Subscribe(func(_, next game.StoreState) {
		wsServer.BroadcastState(next)
	})

	mux := http.NewServeMux()
	wsServer.Register(mux)
	if *staticDir != "" {
		if _, err := os.Stat(*staticDir); os.IsNotExist(err) {
			logger.Printf("Warning: Directory %s does not exist", *staticDir)
		}
		mux.Handle("/", http.FileServer(http.Dir(*staticDir)))
	}

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: mux,
	}

	if err := g.Start(); err != nil {
		log.Fatalf("Failed to start game loop: %v", err)
	}

	go func() {
		logger.Printf("Server starting on %s", *addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsServer.Shutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("HTTP server shutdown error: %v", err)
	}

	g.Stop()
	g.Telemetry.PrintSummary()
	logger.Println("Shutdown complete")
}
