// bridge.go - lock-free command handoff from IPC readers to the audio thread

package main

// bridgeCapacity is the channel capacity; also the per-callback drain cap.
const bridgeCapacity = 256

// CommandBridge is a bounded, non-blocking MPSC handoff: any number of IPC
// goroutines may call TrySend concurrently; only the audio thread calls
// Drain. The underlying Go channel supplies the lock-free fast path and
// per-sender FIFO ordering the design requires.
type CommandBridge struct {
	ch chan EngineCommand
}

// NewCommandBridge constructs a bridge with the required minimum capacity.
func NewCommandBridge() *CommandBridge {
	return &CommandBridge{ch: make(chan EngineCommand, bridgeCapacity)}
}

// TrySend enqueues cmd without blocking. Reports false if the bridge is
// full; the caller's policy on false is to drop the command silently.
func (b *CommandBridge) TrySend(cmd EngineCommand) bool {
	select {
	case b.ch <- cmd:
		return true
	default:
		return false
	}
}

// Drain calls fn for each queued command, up to the bridge's capacity,
// stopping early if the channel empties. This bounds per-callback work so
// a burst of producers cannot starve the audio frame.
func (b *CommandBridge) Drain(fn func(EngineCommand)) {
	for i := 0; i < bridgeCapacity; i++ {
		select {
		case cmd := <-b.ch:
			fn(cmd)
		default:
			return
		}
	}
}
