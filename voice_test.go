package main

import (
	"math"
	"testing"
)

func TestNoteFrequencyHz(t *testing.T) {
	got := noteFrequencyHz(60)
	want := float32(261.6256)
	if math.Abs(float64(got-want)) > 0.01 {
		t.Fatalf("freq(60) = %v, want ~%v", got, want)
	}
	if got := noteFrequencyHz(69); math.Abs(float64(got-440)) > 0.001 {
		t.Fatalf("freq(69) = %v, want 440", got)
	}
}

func TestEnvelopeAttackIsMonotoneNonDecreasing(t *testing.T) {
	var e envelope
	e.noteOn()
	const dt = float32(1.0 / 48000)
	prev := float32(-1)
	for i := 0; i < 48000; i++ {
		level := e.advance(dt)
		if level < prev {
			t.Fatalf("attack level decreased at sample %d: %v -> %v", i, prev, level)
		}
		prev = level
		if e.state != envAttack {
			break
		}
	}
	if prev != 1 {
		t.Fatalf("attack should reach unity, got %v", prev)
	}
}

func TestEnvelopeReleaseIsMonotoneNonIncreasing(t *testing.T) {
	var e envelope
	e.noteOn()
	const dt = float32(1.0 / 48000)
	for e.state == envAttack {
		e.advance(dt)
	}
	e.noteOff()
	prev := float32(2)
	for i := 0; i < 48000; i++ {
		level := e.advance(dt)
		if level > prev {
			t.Fatalf("release level increased at sample %d: %v -> %v", i, prev, level)
		}
		prev = level
		if e.state == envIdle {
			break
		}
	}
	if e.state != envIdle {
		t.Fatal("envelope did not return to idle within 1s of release")
	}
}

func TestPropagatingVoicePhaseStaysInUnitRange(t *testing.T) {
	var v propagatingVoice
	v.reset()
	v.noteOn(81, 40, DefaultMpeData()) // high note, large phase increment
	var out [transducerCount]float32
	const sampleRate = float32(48000)
	for i := 0; i < 1000; i++ {
		v.process(&out, 1/sampleRate, sampleRate)
		if v.phase < 0 || v.phase >= 1 {
			t.Fatalf("phase out of [0,1) at sample %d: %v", i, v.phase)
		}
	}
}

func TestPropagatingVoiceOutputBounded(t *testing.T) {
	var v propagatingVoice
	v.reset()
	v.noteOn(60, 127, MpeData{Pressure: 1, PitchBend: 1, Timbre: 1})
	v.setWaveSpeed(171.2)
	var out [transducerCount]float32
	const sampleRate = float32(48000)
	for i := 0; i < 4800; i++ {
		v.process(&out, 1/sampleRate, sampleRate)
		for c, s := range out {
			if s > 1 || s < -1 {
				t.Fatalf("sample %d channel %d out of range: %v", i, c, s)
			}
		}
	}
}

func TestStandingVoiceIdenticalAcrossChannels(t *testing.T) {
	var v standingVoice
	v.reset()
	v.noteOn(60, 100, MpeData{Pressure: 1, PitchBend: 0, Timbre: 0.5})
	var out [transducerCount]float32
	const sampleRate = float32(48000)
	v.process(&out, 1/sampleRate)
	first := out[0]
	for c, s := range out {
		if s != first {
			t.Fatalf("standing voice channel %d = %v, want %v (identical to channel 0)", c, s, first)
		}
	}
}
