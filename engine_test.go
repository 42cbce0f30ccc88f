package main

import "testing"

const testSampleRate = float32(48000)

func TestSilenceAtRest(t *testing.T) {
	e := NewEngine(nil)
	var out [transducerCount]float32
	for i := 0; i < 1000; i++ {
		e.Process(&out, testSampleRate)
		for c, s := range out {
			if s != 0 {
				t.Fatalf("frame %d channel %d: expected silence, got %v", i, c, s)
			}
		}
	}
}

func TestLowVelocityRoutesToPropagatingPool(t *testing.T) {
	e := NewEngine(nil)
	e.Producer().TrySend(EngineCommand{Tag: tagNoteOn, Note: 60, Velocity: 40, Mpe: DefaultMpeData()})

	var out [transducerCount]float32
	e.Process(&out, testSampleRate)

	if n := e.propagating.activeCount(); n != 1 {
		t.Fatalf("propagating active = %d, want 1", n)
	}
	if n := e.standing.activeCount(); n != 0 {
		t.Fatalf("standing active = %d, want 0", n)
	}

	freq := e.propagating.voices[0].frequencyHz
	if freq < 261 || freq > 262.3 {
		t.Fatalf("frequency = %v, want ~261.63", freq)
	}
	speed := e.propagating.voices[0].waveSpeedMS
	wantSpeed := float32(20 + 40.0/127*480)
	if speed < wantSpeed-0.1 || speed > wantSpeed+0.1 {
		t.Fatalf("wave speed = %v, want ~%v", speed, wantSpeed)
	}
}

func TestHighVelocityRoutesToStandingPool(t *testing.T) {
	e := NewEngine(nil)
	e.Producer().TrySend(EngineCommand{Tag: tagNoteOn, Note: 60, Velocity: 100, Mpe: MpeData{Pressure: 1, Timbre: 0.5}})

	var out [transducerCount]float32
	e.Process(&out, testSampleRate)

	if n := e.standing.activeCount(); n != 1 {
		t.Fatalf("standing active = %d, want 1", n)
	}
	if n := e.propagating.activeCount(); n != 0 {
		t.Fatalf("propagating active = %d, want 0", n)
	}

	e.Process(&out, testSampleRate)
	first := out[0]
	for c, s := range out {
		if s != first {
			t.Fatalf("channel %d = %v, want %v (identical across channels)", c, s, first)
		}
	}
}

func TestPoolExhaustionDropsNinthNote(t *testing.T) {
	metrics := newMetricsStore()
	e := NewEngine(metrics)
	for i := 0; i < 9; i++ {
		e.Producer().TrySend(EngineCommand{Tag: tagNoteOn, Note: uint8(40 + i), Velocity: 30, Mpe: DefaultMpeData()})
	}
	var out [transducerCount]float32
	e.Process(&out, testSampleRate)

	if n := e.propagating.activeCount(); n != propagatingPoolSize {
		t.Fatalf("propagating active = %d, want %d", n, propagatingPoolSize)
	}
	if dropped := metrics.snapshot().droppedNotes; dropped != 1 {
		t.Fatalf("dropped notes = %d, want 1", dropped)
	}
}

func TestReleaseCompletesAndSlotIsReclaimable(t *testing.T) {
	e := NewEngine(nil)
	e.Producer().TrySend(EngineCommand{Tag: tagNoteOn, Note: 60, Velocity: 30, Channel: 0, Mpe: DefaultMpeData()})

	var out [transducerCount]float32
	frames200ms := int(0.2 * float64(testSampleRate))
	for i := 0; i < frames200ms; i++ {
		e.Process(&out, testSampleRate)
	}

	e.Producer().TrySend(EngineCommand{Tag: tagNoteOff, Note: 60, Channel: 0})

	frames500ms := int(0.5 * float64(testSampleRate))
	for i := 0; i < frames500ms+10; i++ {
		e.Process(&out, testSampleRate)
	}

	if n := e.propagating.activeCount(); n != 0 {
		t.Fatalf("active after release window = %d, want 0", n)
	}

	// The freed slot must be reclaimable: allocate up to capacity again.
	for i := 0; i < propagatingPoolSize; i++ {
		if idx := e.propagating.allocate(); idx < 0 {
			t.Fatalf("expected all %d slots allocatable after reclamation, failed at %d", propagatingPoolSize, i)
		}
	}
}

func TestPanicSilencesAndClearsAllSlots(t *testing.T) {
	e := NewEngine(nil)
	for i := 0; i < 4; i++ {
		e.Producer().TrySend(EngineCommand{Tag: tagNoteOn, Note: uint8(40 + i), Velocity: 30, Mpe: DefaultMpeData()})
	}
	for i := 0; i < 2; i++ {
		e.Producer().TrySend(EngineCommand{Tag: tagNoteOn, Note: uint8(70 + i), Velocity: 110, Mpe: DefaultMpeData()})
	}
	var out [transducerCount]float32
	e.Process(&out, testSampleRate) // drains allocations

	e.Producer().TrySend(EngineCommand{Tag: tagPanic})
	e.Process(&out, testSampleRate)

	for c, s := range out {
		if s != 0 {
			t.Fatalf("channel %d = %v after panic, want 0", c, s)
		}
	}
	if n := e.propagating.activeCount(); n != 0 {
		t.Fatalf("propagating active after panic = %d, want 0", n)
	}
	if n := e.standing.activeCount(); n != 0 {
		t.Fatalf("standing active after panic = %d, want 0", n)
	}
}

func TestNoteOffReleasesAllVoicesForKey(t *testing.T) {
	e := NewEngine(nil)
	// Two note-ons sharing (note, channel) can legitimately only happen if
	// the first is still held; exercise the aggregate-release contract by
	// allocating two handles under the same key directly.
	idxA := e.propagating.allocate()
	e.propagating.voices[idxA].noteOn(60, 30, DefaultMpeData())
	idxB := e.standing.allocate()
	e.standing.voices[idxB].noteOn(60, 110, DefaultMpeData())
	key := noteKey{note: 60, channel: 0}
	var set voiceHandleSet
	set.add(voiceHandle{kind: kindPropagating, index: idxA})
	set.add(voiceHandle{kind: kindStanding, index: idxB})
	e.noteVoices[key] = set

	e.noteOff(EngineCommand{Tag: tagNoteOff, Note: 60, Channel: 0})

	if e.propagating.voices[idxA].env.state != envRelease {
		t.Fatal("propagating voice was not released")
	}
	if e.standing.voices[idxB].env.state != envRelease {
		t.Fatal("standing voice was not released")
	}
}

// TestProcessAllocatesNothing pins down the "no allocation on process"
// invariant with testing.AllocsPerRun, both at rest and while voices are
// actively rendering, so a future regression like a nil-map-value append
// shows up here instead of only in production heap counters.
func TestProcessAllocatesNothing(t *testing.T) {
	e := NewEngine(newMetricsStore())
	e.Producer().TrySend(EngineCommand{Tag: tagNoteOn, Note: 60, Velocity: 30, Mpe: DefaultMpeData()})
	e.Producer().TrySend(EngineCommand{Tag: tagNoteOn, Note: 70, Velocity: 110, Mpe: DefaultMpeData()})
	var out [transducerCount]float32
	e.Process(&out, testSampleRate) // drain the warm-up note-ons

	allocs := testing.AllocsPerRun(100, func() {
		e.Process(&out, testSampleRate)
	})
	if allocs != 0 {
		t.Fatalf("Process allocated %v times per run, want 0", allocs)
	}
}

// TestProcessAllocatesNothingOnNewNoteKeys exercises the path that
// regressed: a NoteOn for a (note, channel) pair never seen before, which
// used to grow e.noteVoices via append(nil, handle) on every never-before-
// seen key. Panic between iterations so the pools never exhaust while the
// key space is walked.
func TestProcessAllocatesNothingOnNewNoteKeys(t *testing.T) {
	e := NewEngine(newMetricsStore())
	var out [transducerCount]float32
	var note, channel uint8

	allocs := testing.AllocsPerRun(200, func() {
		e.applyCommand(EngineCommand{Tag: tagNoteOn, Note: note, Velocity: 30, Channel: channel, Mpe: DefaultMpeData()})
		e.Process(&out, testSampleRate)
		e.panic()
		note++
		channel++
		if channel > 15 {
			channel = 0
		}
	})
	if allocs != 0 {
		t.Fatalf("NoteOn with a new (note, channel) key allocated %v times per run, want 0", allocs)
	}
}
