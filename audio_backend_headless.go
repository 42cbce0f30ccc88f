//go:build headless

package main

func init() {
	compiledFeatures = append(compiledFeatures, "audio-backend: headless")
}

// OtoPlayer is a no-op audio backend for headless test/CI environments
// without a real audio device. It records the engine passed to SetupPlayer
// but never renders: Read neither calls Engine.Process nor writes to p.
type OtoPlayer struct {
	started    bool
	engine     *Engine
	sampleRate float32
}

func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	return &OtoPlayer{sampleRate: float32(sampleRate)}, nil
}

func (op *OtoPlayer) SetupPlayer(engine *Engine) {
	op.engine = engine
}

func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	return len(p), nil
}

func (op *OtoPlayer) Start() {
	op.started = true
}

func (op *OtoPlayer) Stop() {
	op.started = false
}

func (op *OtoPlayer) Close() {
	op.started = false
}

func (op *OtoPlayer) IsStarted() bool {
	return op.started
}
