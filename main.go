// main.go - hapticd entry point

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "audio sample rate in Hz")
		sockPath   = flag.String("socket", "", "unix socket path (default "+defaultSocketPath+")")
		noStatus   = flag.Bool("no-status", false, "disable the interactive terminal status dashboard")
		showVer    = flag.Bool("version", false, "print version and build info, then exit")
	)
	flag.Parse()

	if *showVer {
		printVersion()
		return
	}

	if err := run(*sampleRate, *sockPath, *noStatus); err != nil {
		fmt.Fprintln(os.Stderr, "hapticd:", err)
		os.Exit(1)
	}
}

func run(sampleRate int, sockPath string, noStatus bool) error {
	log.Printf("hapticd %s starting: sample_rate=%d socket=%s", Version, sampleRate, resolveSocketPath(sockPath))

	bumpAudioPriority()

	metrics := newMetricsStore()
	engine := NewEngine(metrics)

	player, err := NewOtoPlayer(sampleRate)
	if err != nil {
		return fmt.Errorf("audio device init: %w", err)
	}
	player.SetupPlayer(engine)

	ipc, err := NewIPCServer(sockPath, engine.Producer())
	if err != nil {
		return fmt.Errorf("ipc init: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	player.Start()
	defer player.Close()

	var statusHost *StatusHost
	if !noStatus {
		statusHost = NewStatusHost(engine.Producer(), metrics, stop)
		statusHost.Start()
		defer statusHost.Stop()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := ipc.Serve(gctx)
		if err != nil {
			return fmt.Errorf("ipc serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	err = g.Wait()
	ipc.Close()
	log.Printf("hapticd shutting down")
	return err
}
