// voice.go - shared envelope and MPE smoothing state for both voice kinds

package main

import "math"

const (
	envIdle = iota
	envAttack
	envSustain
	envRelease
)

const (
	envAttackRate  = 10.0 // s^-1, 100ms to unity
	envReleaseRate = 2.0  // s^-1, 500ms to zero
)

// envelope is the linear Attack/Sustain/Release state machine shared by
// both voice kinds.
type envelope struct {
	state int
	level float32
	timeS float32
}

func (e *envelope) reset() {
	e.state = envIdle
	e.level = 0
	e.timeS = 0
}

func (e *envelope) noteOn() {
	e.state = envAttack
	e.timeS = 0
}

func (e *envelope) noteOff() {
	if e.state != envIdle {
		e.state = envRelease
		e.timeS = 0
	}
}

// advance steps the envelope by dt seconds and returns the current level.
func (e *envelope) advance(dt float32) float32 {
	switch e.state {
	case envAttack:
		e.timeS += dt
		e.level = e.timeS * envAttackRate
		if e.level >= 1 {
			e.level = 1
			e.state = envSustain
		}
	case envSustain:
		e.level = 1
	case envRelease:
		e.timeS += dt
		e.level = 1 - e.timeS*envReleaseRate
		if e.level <= 0 {
			e.level = 0
			e.state = envIdle
		}
	case envIdle:
		e.level = 0
	}
	return e.level
}

func (e *envelope) isActive() bool {
	return e.state != envIdle
}

// mpeSmoothTauS is the one-pole smoothing time constant applied to raw MPE
// targets on the audio thread, per the design note guarding against
// zipper noise from discrete MpeUpdate commands.
const mpeSmoothTauS = 0.020

// mpeSmoother holds a smoothed copy of the three MPE controller values and
// the raw targets most recently delivered by MpeUpdate.
type mpeSmoother struct {
	target  MpeData
	current MpeData
}

func (m *mpeSmoother) reset(initial MpeData) {
	m.target = initial
	m.current = initial
}

func (m *mpeSmoother) setTarget(target MpeData) {
	m.target = target
}

// advance applies one step of one-pole smoothing toward the target and
// returns the smoothed value for this sample.
func (m *mpeSmoother) advance(dt float32) MpeData {
	coeff := dt / (mpeSmoothTauS + dt)
	m.current.Pressure += coeff * (m.target.Pressure - m.current.Pressure)
	m.current.PitchBend += coeff * (m.target.PitchBend - m.current.PitchBend)
	m.current.Timbre += coeff * (m.target.Timbre - m.current.Timbre)
	return m.current
}

// noteFrequencyHz maps a MIDI-style note number to its equal-tempered
// frequency, A4 (note 69) = 440Hz.
func noteFrequencyHz(note uint8) float32 {
	return 440 * float32(math.Exp2(float64(int(note)-69)/12))
}
