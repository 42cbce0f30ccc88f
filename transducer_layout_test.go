package main

import "testing"

func TestTransducerLayoutGridSpacing(t *testing.T) {
	cases := []struct {
		index int
		x, y  float32
	}{
		{0, 0, 0},
		{7, 0.35, 0},
		{8, 0, 0.05},
		{31, 0.35, 0.15},
	}
	for _, c := range cases {
		p := transducerLayout[c.index]
		if p.X != c.x || p.Y != c.y {
			t.Errorf("transducer %d = (%v,%v), want (%v,%v)", c.index, p.X, p.Y, c.x, c.y)
		}
	}
}
