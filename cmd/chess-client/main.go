package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/hailam/chessduel/internal/client"
	"github.com/hailam/chessduel/internal/config"
)

func main() {
	cfg, err := config.ParseClient(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	c, err := client.Dial(ctx, cfg.Addr, os.Stdin, os.Stdout)
	cancel()
	if err != nil {
		log.Fatalf("connect to %s: %v", cfg.Addr, err)
	}
	defer c.Close()

	// Closing the connection unblocks Run on Ctrl-C.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		c.Close()
	}()

	res, err := c.Run()
	if err != nil {
		log.Printf("%v", err)
		return
	}
	if res.Winner != nil && res.Color != nil {
		if *res.Winner == *res.Color {
			log.Printf("You won!")
		} else {
			log.Printf("You lost.")
		}
	}
}
