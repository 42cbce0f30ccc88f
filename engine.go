// engine.go - top-level stimulus engine driver

package main

import "math"

// voiceKind tags which pool a voiceHandle refers to.
type voiceKind uint8

const (
	kindPropagating voiceKind = iota
	kindStanding
)

type voiceHandle struct {
	kind  voiceKind
	index int
}

type noteKey struct {
	note    uint8
	channel uint8
}

// voiceHandleSet is a fixed-capacity inline array of voiceHandles, stored by
// value in noteVoices so that recording a handle for a never-before-seen key
// never triggers the heap allocation a nil-slice append would: the map
// assignment copies this value into its existing bucket storage rather than
// growing a backing array.
type voiceHandleSet struct {
	handles [propagatingPoolSize + standingPoolSize]voiceHandle
	n       int
}

// add appends h if room remains. There is always room: a key can only ever
// accumulate as many handles as the combined pool capacity.
func (s *voiceHandleSet) add(h voiceHandle) {
	if s.n < len(s.handles) {
		s.handles[s.n] = h
		s.n++
	}
}

// velocityStandingThreshold: velocity < 64 routes to the propagating pool,
// >= 64 routes to the standing pool.
const velocityStandingThreshold = 64

// Engine owns both voice pools and the command bridge. It is exclusive to
// the audio thread: no mutex guards it, and Process never allocates.
type Engine struct {
	bridge      *CommandBridge
	propagating propagatingPool
	standing    standingPool
	noteVoices  map[noteKey]voiceHandleSet
	metrics     *metricsStore
}

// NewEngine constructs pools and the command bridge. All memory is
// reserved here; nothing below allocates after construction.
func NewEngine(metrics *metricsStore) *Engine {
	return &Engine{
		bridge:     NewCommandBridge(),
		noteVoices: make(map[noteKey]voiceHandleSet, propagatingPoolSize+standingPoolSize),
		metrics:    metrics,
	}
}

// Producer returns the bridge this engine drains, for IPC readers to send
// commands into.
func (e *Engine) Producer() *CommandBridge {
	return e.bridge
}

// Process renders one audio frame: drains pending commands, advances every
// active voice, sums into out, and hard-limits the result. Must not lock,
// allocate, or perform I/O.
func (e *Engine) Process(out *[transducerCount]float32, sampleRate float32) {
	e.bridge.Drain(e.applyCommand)

	for i := range out {
		out[i] = 0
	}

	dt := 1 / sampleRate
	e.propagating.processAll(out, dt, sampleRate)
	e.standing.processAll(out, dt)

	var peak float32
	for i := range out {
		v := out[i]
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			v = 0
		}
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out[i] = v
		if abs32(v) > peak {
			peak = abs32(v)
		}
	}

	if e.metrics != nil {
		e.metrics.setOccupancy(e.propagating.activeCount(), e.standing.activeCount())
		e.metrics.setPeakLevel(peak)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func (e *Engine) applyCommand(cmd EngineCommand) {
	switch cmd.Tag {
	case tagNoteOn:
		e.noteOn(cmd)
	case tagNoteOff:
		e.noteOff(cmd)
	case tagMpeUpdate:
		e.mpeUpdate(cmd)
	case tagPanic:
		e.panic()
	}
}

func (e *Engine) noteOn(cmd EngineCommand) {
	waveSpeed := 20 + (float32(cmd.Velocity)/127)*480

	key := noteKey{note: cmd.Note, channel: cmd.Channel}
	e.pruneKey(key)

	var handle voiceHandle
	if cmd.Velocity < velocityStandingThreshold {
		idx := e.propagating.allocate()
		if idx < 0 {
			e.noteDropped()
			return
		}
		v := &e.propagating.voices[idx]
		v.noteOn(cmd.Note, cmd.Velocity, cmd.Mpe)
		v.setWaveSpeed(waveSpeed)
		handle = voiceHandle{kind: kindPropagating, index: idx}
	} else {
		idx := e.standing.allocate()
		if idx < 0 {
			e.noteDropped()
			return
		}
		e.standing.voices[idx].noteOn(cmd.Note, cmd.Velocity, cmd.Mpe)
		handle = voiceHandle{kind: kindStanding, index: idx}
	}

	set := e.noteVoices[key]
	set.add(handle)
	e.noteVoices[key] = set
}

// noteOff releases every voice registered under the matching (note,
// channel) key, since the protocol does not report which specific voice
// a note-off targets.
func (e *Engine) noteOff(cmd EngineCommand) {
	key := noteKey{note: cmd.Note, channel: cmd.Channel}
	set := e.noteVoices[key]
	for _, h := range set.handles[:set.n] {
		switch h.kind {
		case kindPropagating:
			if h.index < propagatingPoolSize {
				e.propagating.voices[h.index].noteOff()
			}
		case kindStanding:
			if h.index < standingPoolSize {
				e.standing.voices[h.index].noteOff()
			}
		}
	}
	delete(e.noteVoices, key)
}

func (e *Engine) mpeUpdate(cmd EngineCommand) {
	for key, set := range e.noteVoices {
		if key.channel != cmd.Channel {
			continue
		}
		for _, h := range set.handles[:set.n] {
			switch h.kind {
			case kindPropagating:
				if h.index < propagatingPoolSize {
					e.propagating.voices[h.index].mpeUpdate(cmd.Mpe)
				}
			case kindStanding:
				if h.index < standingPoolSize {
					e.standing.voices[h.index].mpeUpdate(cmd.Mpe)
				}
			}
		}
	}
}

func (e *Engine) panic() {
	e.propagating.panicAll()
	e.standing.panicAll()
	for k := range e.noteVoices {
		delete(e.noteVoices, k)
	}
}

// pruneKey drops stale handles left behind when a voice freed itself via
// its envelope without an explicit NoteOff, bounding the note map's growth
// by the combined pool capacity. Compacts in place within the fixed array,
// no allocation.
func (e *Engine) pruneKey(key noteKey) {
	set, ok := e.noteVoices[key]
	if !ok {
		return
	}
	var live voiceHandleSet
	for _, h := range set.handles[:set.n] {
		switch h.kind {
		case kindPropagating:
			if e.propagating.active[h.index] {
				live.add(h)
			}
		case kindStanding:
			if e.standing.active[h.index] {
				live.add(h)
			}
		}
	}
	if live.n == 0 {
		delete(e.noteVoices, key)
	} else {
		e.noteVoices[key] = live
	}
}

func (e *Engine) noteDropped() {
	if e.metrics != nil {
		e.metrics.incDropped()
	}
}
