//go:build linux

// priority_linux.go - best-effort realtime audio thread priority bump

package main

import (
	"log"
	"os"

	"golang.org/x/sys/unix"
)

// bumpAudioPriority attempts to raise the calling process's scheduling
// priority for the audio callback. Failure (e.g. missing CAP_SYS_NICE) is
// logged and ignored; startup never depends on this succeeding.
func bumpAudioPriority() {
	if err := unix.Setpriority(unix.PRIO_PROCESS, os.Getpid(), -10); err != nil {
		log.Printf("audio: could not raise scheduling priority (continuing anyway): %v", err)
	}
}
