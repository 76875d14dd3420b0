package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/hailam/chessduel/internal/config"
	"github.com/hailam/chessduel/internal/server"
)

func main() {
	cfg, err := config.ParseServer(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", cfg.CPUProfile)
	}

	opts := server.Options{StartFEN: cfg.StartFEN}
	store, err := cfg.OpenStorage()
	if err != nil {
		log.Printf("Warning: game recording disabled: %v", err)
	} else if store != nil {
		defer func() {
			if stats, err := store.LoadStats(); err == nil {
				log.Printf("%d games recorded (%d White wins, %d Black wins, %d unfinished)",
					stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Unfinished)
			}
			if err := store.Close(); err != nil {
				log.Printf("closing storage: %v", err)
			}
		}()
		opts.Recorder = store
	}

	srv, err := server.New(opts)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil {
		log.Printf("server: %v", err)
		return
	}
	log.Printf("server stopped")
}
