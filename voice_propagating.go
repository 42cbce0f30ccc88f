// voice_propagating.go - point-source travelling-wave voice

package main

import "math"

// propagatingVoice models a point source whose signal arrives at each
// transducer delayed by distance/wave_speed and attenuated by distance.
type propagatingVoice struct {
	env         envelope
	mpe         mpeSmoother
	phase       float32 // [0,1)
	frequencyHz float32
	amplitude   float32
	waveSpeedMS float32
	delays      [transducerCount]DelayLine
}

func (v *propagatingVoice) reset() {
	v.env.reset()
	v.mpe.reset(DefaultMpeData())
	v.phase = 0
	v.frequencyHz = 0
	v.amplitude = 0
	v.waveSpeedMS = 1
	for i := range v.delays {
		v.delays[i].Reset()
	}
}

func (v *propagatingVoice) noteOn(note, velocity uint8, mpe MpeData) {
	v.frequencyHz = noteFrequencyHz(note)
	v.amplitude = float32(velocity) / 127
	v.phase = 0
	v.mpe.reset(mpe)
	v.env.noteOn()
}

func (v *propagatingVoice) noteOff() {
	v.env.noteOff()
}

func (v *propagatingVoice) mpeUpdate(mpe MpeData) {
	v.mpe.setTarget(mpe)
}

// setWaveSpeed assigns the propagation speed derived from note-on
// velocity; never called at runtime outside note-on per the design note
// that there is no live override command.
func (v *propagatingVoice) setWaveSpeed(speed float32) {
	if speed < 1 {
		speed = 1
	}
	v.waveSpeedMS = speed
}

func (v *propagatingVoice) isActive() bool {
	return v.env.isActive()
}

// process advances the voice by one sample and renders into out, a
// 32-wide scratch the caller sums into.
func (v *propagatingVoice) process(out *[transducerCount]float32, dt, sampleRate float32) {
	envLevel := v.env.advance(dt)
	mpe := v.mpe.advance(dt)

	v.phase += v.frequencyHz * dt
	if v.phase >= 1 {
		v.phase -= float32(int(v.phase))
	}

	sourceX := mpe.PitchBend * 0.2
	sourceY := mpe.Timbre * 0.2

	s := fastSin(v.phase*TWO_PI) * v.amplitude * envLevel * mpe.Pressure

	speed := v.waveSpeedMS
	if speed < 1 {
		speed = 1
	}

	for i := 0; i < transducerCount; i++ {
		p := transducerLayout[i]
		dx := p.X - sourceX
		dy := p.Y - sourceY
		d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		delaySamples := (d / speed) * sampleRate
		y := v.delays[i].WriteAndRead(s, delaySamples)
		out[i] = y / (1 + 2*d)
	}
}
