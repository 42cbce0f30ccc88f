//go:build !windows

// terminal_host.go - raw-terminal keyboard control and status dashboard

package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// StatusHost puts the controlling terminal into raw mode, routes single
// keystrokes to manual engine control (p = panic, q = quit), and renders
// a periodic one-line status summary from a metricsStore.
type StatusHost struct {
	bridge       *CommandBridge
	metrics      *metricsStore
	cancel       func()
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

// NewStatusHost creates a host adapter driving bridge/metrics from the
// controlling terminal. cancel is invoked when the user presses 'q'.
func NewStatusHost(bridge *CommandBridge, metrics *metricsStore, cancel func()) *StatusHost {
	return &StatusHost{
		bridge:  bridge,
		metrics: metrics,
		cancel:  cancel,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start sets stdin to non-blocking raw mode and begins reading keystrokes
// and rendering status in a goroutine. Call Stop() to restore the
// terminal.
func (h *StatusHost) Start() {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "status: failed to set raw mode: %v\n", err)
		close(h.done)
		return
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "status: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return
	}
	h.nonblockSet = true

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

		n, err := syscall.Read(h.fd, buf)
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
		if err != nil && err != syscall.EAGAIN && err != syscall.EWOULDBLOCK {
			return
		}

		if time.Since(lastRender) >= 500*time.Millisecond {
			h.render()
			lastRender = time.Now()
		}
		time.Sleep(5 * time.Millisecond)
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

// Stop terminates the reader/renderer goroutine and restores the terminal.
func (h *StatusHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
	fmt.Println()
}
