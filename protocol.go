// protocol.go - wire protocol for the haptic stimulus engine

package main

import (
	"encoding/binary"
	"fmt"
	"math"
)

// MpeData carries the three continuous MPE controller values for one
// channel. The zero value is not the default — use DefaultMpeData.
type MpeData struct {
	Pressure  float32 // [0,1]
	PitchBend float32 // [-1,+1]
	Timbre    float32 // [0,1]
}

// DefaultMpeData is the value a channel carries before any MpeUpdate.
func DefaultMpeData() MpeData {
	return MpeData{Pressure: 0, PitchBend: 0, Timbre: 0.5}
}

// command tag discriminants, also the wire tag byte.
const (
	tagNoteOn uint8 = iota
	tagNoteOff
	tagMpeUpdate
	tagPanic
)

// HapticCommand is the wire-level tagged union, carrying a microsecond
// wallclock timestamp. Tag selects which of the payload fields are
// meaningful; the others are ignored.
type HapticCommand struct {
	Tag      uint8
	TsUs     uint64
	Note     uint8
	Velocity uint8
	Channel  uint8
	Mpe      MpeData
}

// EngineCommand is the internal form delivered over the bridge: identical
// to HapticCommand but with the wallclock timestamp stripped, since the
// engine only cares about arrival order within one producer.
type EngineCommand struct {
	Tag      uint8
	Note     uint8
	Velocity uint8
	Channel  uint8
	Mpe      MpeData
}

// Strip discards the wire timestamp, producing the internal command form.
func (c HapticCommand) Strip() EngineCommand {
	return EngineCommand{
		Tag:      c.Tag,
		Note:     c.Note,
		Velocity: c.Velocity,
		Channel:  c.Channel,
		Mpe:      c.Mpe,
	}
}

const (
	// maxFrameSize bounds a single encoded command on the wire.
	maxFrameSize = 4096
	// encodedCommandSize is the fixed byte length of an encoded HapticCommand.
	encodedCommandSize = 1 + 8 + 1 + 1 + 1 + 4 + 4 + 4
)

// EncodeCommand appends the binary encoding of cmd to dst and returns the
// extended slice. The encoding is fixed-width and self-delimited only in
// the sense that every command occupies the same number of bytes; framing
// for partial reads is layered on top in ipc.go.
func EncodeCommand(dst []byte, cmd HapticCommand) []byte {
	var buf [encodedCommandSize]byte
	buf[0] = cmd.Tag
	binary.LittleEndian.PutUint64(buf[1:9], cmd.TsUs)
	buf[9] = cmd.Note
	buf[10] = cmd.Velocity
	buf[11] = cmd.Channel
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(cmd.Mpe.Pressure))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(cmd.Mpe.PitchBend))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(cmd.Mpe.Timbre))
	return append(dst, buf[:]...)
}

// DecodeCommand decodes exactly one HapticCommand from src, which must be
// at least encodedCommandSize bytes. Returns the command and the number of
// bytes consumed.
func DecodeCommand(src []byte) (HapticCommand, int, error) {
	if len(src) < encodedCommandSize {
		return HapticCommand{}, 0, fmt.Errorf("protocol: short command, need %d bytes, have %d", encodedCommandSize, len(src))
	}
	tag := src[0]
	if tag > tagPanic {
		return HapticCommand{}, 0, fmt.Errorf("protocol: unknown command tag %d", tag)
	}
	cmd := HapticCommand{
		Tag:      tag,
		TsUs:     binary.LittleEndian.Uint64(src[1:9]),
		Note:     src[9],
		Velocity: src[10],
		Channel:  src[11],
		Mpe: MpeData{
			Pressure:  math.Float32frombits(binary.LittleEndian.Uint32(src[12:16])),
			PitchBend: math.Float32frombits(binary.LittleEndian.Uint32(src[16:20])),
			Timbre:    math.Float32frombits(binary.LittleEndian.Uint32(src[20:24])),
		},
	}
	return cmd, encodedCommandSize, nil
}
