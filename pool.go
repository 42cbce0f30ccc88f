// pool.go - fixed-capacity voice pools

package main

const (
	propagatingPoolSize = 8
	standingPoolSize    = 4
)

// propagatingPool is a fixed array of preconstructed propagating-wave
// voices plus an occupancy bitmap. No allocation occurs after construction.
type propagatingPool struct {
	voices [propagatingPoolSize]propagatingVoice
	active [propagatingPoolSize]bool
}

// allocate returns the index of the first free slot, or -1 if the pool is
// full. The caller must tolerate -1 by dropping the note.
func (p *propagatingPool) allocate() int {
	for i := range p.active {
		if !p.active[i] {
			p.active[i] = true
			p.voices[i].reset()
			return i
		}
	}
	return -1
}

// processAll advances every active voice, reclaiming slots whose envelope
// has gone idle, and sums each voice's 32-wide output into out.
func (p *propagatingPool) processAll(out *[transducerCount]float32, dt, sampleRate float32) {
	var voiceOut [transducerCount]float32
	for i := range p.active {
		if !p.active[i] {
			continue
		}
		if !p.voices[i].isActive() {
			p.active[i] = false
			continue
		}
		p.voices[i].process(&voiceOut, dt, sampleRate)
		for c := 0; c < transducerCount; c++ {
			out[c] += voiceOut[c]
		}
	}
}

// activeCount reports how many slots are currently occupied, for metrics.
func (p *propagatingPool) activeCount() int {
	n := 0
	for _, a := range p.active {
		if a {
			n++
		}
	}
	return n
}

func (p *propagatingPool) panicAll() {
	for i := range p.active {
		p.active[i] = false
		p.voices[i].reset()
	}
}

// standingPool mirrors propagatingPool for the simpler voice kind.
type standingPool struct {
	voices [standingPoolSize]standingVoice
	active [standingPoolSize]bool
}

func (p *standingPool) allocate() int {
	for i := range p.active {
		if !p.active[i] {
			p.active[i] = true
			p.voices[i].reset()
			return i
		}
	}
	return -1
}

func (p *standingPool) processAll(out *[transducerCount]float32, dt float32) {
	var voiceOut [transducerCount]float32
	for i := range p.active {
		if !p.active[i] {
			continue
		}
		if !p.voices[i].isActive() {
			p.active[i] = false
			continue
		}
		p.voices[i].process(&voiceOut, dt)
		for c := 0; c < transducerCount; c++ {
			out[c] += voiceOut[c]
		}
	}
}

// activeCount reports how many slots are currently occupied, for metrics.
func (p *standingPool) activeCount() int {
	n := 0
	for _, a := range p.active {
		if a {
			n++
		}
	}
	return n
}

func (p *standingPool) panicAll() {
	for i := range p.active {
		p.active[i] = false
		p.voices[i].reset()
	}
}
