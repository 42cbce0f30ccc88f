// transducer_layout.go - fixed 4x8 planar transducer grid

package main

// transducerCount is the number of physical emitters in the array.
const transducerCount = 32

const gridSpacingM = 0.05

// transducerPos holds the x,y position in metres of transducer i.
type transducerPos struct {
	X, Y float32
}

var transducerLayout [transducerCount]transducerPos

func init() {
	for i := 0; i < transducerCount; i++ {
		transducerLayout[i] = transducerPos{
			X: gridSpacingM * float32(i%8),
			Y: gridSpacingM * float32(i/8),
		}
	}
}
