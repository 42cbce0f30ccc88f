//go:build !linux

// priority_other.go - no-op priority bump on non-Linux platforms

package main

func bumpAudioPriority() {}
