// voice_standing.go - in-phase array-wide standing-wave voice

package main

// standingVoice emits the same signal in phase across every transducer;
// it carries no spatial state and ignores wave speed entirely.
type standingVoice struct {
	env         envelope
	mpe         mpeSmoother
	phase       float32
	frequencyHz float32
	amplitude   float32
}

func (v *standingVoice) reset() {
	v.env.reset()
	v.mpe.reset(DefaultMpeData())
	v.phase = 0
	v.frequencyHz = 0
	v.amplitude = 0
}

func (v *standingVoice) noteOn(note, velocity uint8, mpe MpeData) {
	v.frequencyHz = noteFrequencyHz(note)
	v.amplitude = float32(velocity) / 127
	v.phase = 0
	v.mpe.reset(mpe)
	v.env.noteOn()
}

func (v *standingVoice) noteOff() {
	v.env.noteOff()
}

func (v *standingVoice) mpeUpdate(mpe MpeData) {
	v.mpe.setTarget(mpe)
}

func (v *standingVoice) isActive() bool {
	return v.env.isActive()
}

func (v *standingVoice) process(out *[transducerCount]float32, dt float32) {
	envLevel := v.env.advance(dt)
	mpe := v.mpe.advance(dt)

	v.phase += v.frequencyHz * dt
	if v.phase >= 1 {
		v.phase -= float32(int(v.phase))
	}

	s := fastSin(v.phase*TWO_PI) * v.amplitude * envLevel * mpe.Pressure

	for i := 0; i < transducerCount; i++ {
		out[i] = s
	}
}
