//go:build windows

// terminal_host_windows.go - raw-terminal keyboard control (Windows)

package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// StatusHost mirrors the Unix StatusHost but reads stdin blockingly via
// os.Stdin.Read, matching the teacher's own Windows terminal-host split
// (no syscall.SetNonblock on this platform).
type StatusHost struct {
	bridge       *CommandBridge
	metrics      *metricsStore
	cancel       func()
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	oldTermState *term.State
}

func NewStatusHost(bridge *CommandBridge, metrics *metricsStore, cancel func()) *StatusHost {
	return &StatusHost{
		bridge:  bridge,
		metrics: metrics,
		cancel:  cancel,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (h *StatusHost) Start() {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "status: failed to set raw mode: %v\n", err)
		close(h.done)
		return
	}
	h.oldTermState = oldState

	go h.loop()
}

func (h *StatusHost) loop() {
	defer close(h.done)
	buf := make([]byte, 1)
	lastRender := time.Now()

	for {
		select {
		case <-h.stopCh:
			return
		default:
		}

		n, err := os.Stdin.Read(buf)
		if n > 0 {
			switch buf[0] {
			case 'p', 'P':
				h.bridge.TrySend(EngineCommand{Tag: tagPanic})
			case 'q', 'Q':
				if h.cancel != nil {
					h.cancel()
				}
				return
			}
		}
		if err != nil {
			return
		}

		if time.Since(lastRender) >= 500*time.Millisecond {
			h.render()
			lastRender = time.Now()
		}
		if n == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func (h *StatusHost) render() {
	snap := h.metrics.snapshot()
	width, _, err := term.GetSize(h.fd)
	if err != nil || width <= 0 {
		width = 80
	}
	line := fmt.Sprintf("\rvoices: prop=%d/%d standing=%d/%d dropped=%d peak=%.3f  [p]anic [q]uit",
		snap.propagatingActive, propagatingPoolSize,
		snap.standingActive, standingPoolSize,
		snap.droppedNotes, snap.peakLevel)
	if len(line) > width {
		line = line[:width]
	}
	fmt.Print(line)
}

func (h *StatusHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
	fmt.Println()
}
