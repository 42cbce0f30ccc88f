package main

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []HapticCommand{
		{Tag: tagNoteOn, TsUs: 123456, Note: 60, Velocity: 100, Channel: 3, Mpe: MpeData{Pressure: 0.5, PitchBend: -0.25, Timbre: 0.75}},
		{Tag: tagNoteOff, TsUs: 2, Note: 60, Channel: 3},
		{Tag: tagMpeUpdate, TsUs: 3, Channel: 1, Mpe: DefaultMpeData()},
		{Tag: tagPanic, TsUs: 4},
	}

	for _, want := range cases {
		enc := EncodeCommand(nil, want)
		if len(enc) != encodedCommandSize {
			t.Fatalf("encoded length = %d, want %d", len(enc), encodedCommandSize)
		}
		got, n, err := DecodeCommand(enc)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if n != encodedCommandSize {
			t.Fatalf("consumed %d bytes, want %d", n, encodedCommandSize)
		}
		if got != want {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
		}
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	_, _, err := DecodeCommand(make([]byte, encodedCommandSize-1))
	if err == nil {
		t.Fatal("expected error decoding a short buffer")
	}
}

func TestDecodeUnknownTag(t *testing.T) {
	buf := EncodeCommand(nil, HapticCommand{Tag: tagPanic})
	buf[0] = tagPanic + 1
	_, _, err := DecodeCommand(buf)
	if err == nil {
		t.Fatal("expected error decoding an unknown tag")
	}
}

func TestStripDropsTimestamp(t *testing.T) {
	cmd := HapticCommand{Tag: tagNoteOn, TsUs: 999, Note: 1, Velocity: 2, Channel: 3, Mpe: DefaultMpeData()}
	ec := cmd.Strip()
	if ec.Tag != cmd.Tag || ec.Note != cmd.Note || ec.Velocity != cmd.Velocity || ec.Channel != cmd.Channel || ec.Mpe != cmd.Mpe {
		t.Fatalf("strip changed a field it shouldn't have: %+v", ec)
	}
}
