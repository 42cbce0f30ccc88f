// hapticctl - manual IPC client for exercising the hapticd wire protocol.
//
// Self-contained: it does not import the server's package main, so it
// carries its own small copy of the wire
// encoding rather than a shared internal package the teacher never used.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"net"
	"os"
	"time"
)

const (
	tagNoteOn uint8 = iota
	tagNoteOff
	tagMpeUpdate
	tagPanic
)

const defaultSocketPath = "/tmp/hapticd.sock"

func main() {
	var (
		sockPath  = flag.String("socket", defaultSocketPath, "unix socket path of a running hapticd")
		command   = flag.String("cmd", "", "one of: note-on, note-off, mpe-update, panic")
		note      = flag.Int("note", 60, "note number 0..127")
		velocity  = flag.Int("velocity", 100, "velocity 0..127")
		channel   = flag.Int("channel", 0, "MPE channel")
		pressure  = flag.Float64("pressure", 0, "MPE pressure [0,1]")
		pitchBend = flag.Float64("pitch-bend", 0, "MPE pitch bend [-1,1]")
		timbre    = flag.Float64("timbre", 0.5, "MPE timbre [0,1]")
	)
	flag.Parse()

	payload, err := buildPayload(*command, *note, *velocity, *channel, *pressure, *pitchBend, *timbre)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hapticctl:", err)
		os.Exit(1)
	}

	if err := send(*sockPath, payload); err != nil {
		fmt.Fprintln(os.Stderr, "hapticctl:", err)
		os.Exit(1)
	}
}

func buildPayload(command string, note, velocity, channel int, pressure, pitchBend, timbre float64) ([]byte, error) {
	var tag uint8
	switch command {
	case "note-on":
		tag = tagNoteOn
	case "note-off":
		tag = tagNoteOff
	case "mpe-update":
		tag = tagMpeUpdate
	case "panic":
		tag = tagPanic
	default:
		return nil, fmt.Errorf("unknown -cmd %q (want note-on, note-off, mpe-update, or panic)", command)
	}

	buf := make([]byte, 24)
	buf[0] = tag
	binary.LittleEndian.PutUint64(buf[1:9], uint64(time.Now().UnixMicro()))
	buf[9] = uint8(note)
	buf[10] = uint8(velocity)
	buf[11] = uint8(channel)
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(float32(pressure)))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(float32(pitchBend)))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(float32(timbre)))
	return buf, nil
}

func send(sockPath string, payload []byte) error {
	conn, err := net.DialTimeout("unix", sockPath, 5*time.Second)
	if err != nil {
		return fmt.Errorf("cannot connect to %s: %w", sockPath, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(payload)))

	if _, err := conn.Write(header[:]); err != nil {
		return fmt.Errorf("send header: %w", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("send payload: %w", err)
	}
	return nil
}
