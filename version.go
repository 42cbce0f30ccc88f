// version.go - build/version info for the -version flag

package main

import (
	"fmt"
	"runtime"
	"sort"
)

// Version is the server's release identifier.
const Version = "0.1.0"

// compiledFeatures tracks build-time feature flags via init() registration,
// one entry per backend build tag (see the init functions in
// audio_backend_oto.go and audio_backend_headless.go).
var compiledFeatures []string

func printVersion() {
	fmt.Printf("hapticd %s\n", Version)
	fmt.Printf("  Go version: %s\n", runtime.Version())
	fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Println()
	fmt.Println("Compiled features:")
	sort.Strings(compiledFeatures)
	for _, f := range compiledFeatures {
		fmt.Printf("  %s\n", f)
	}
	if len(compiledFeatures) == 0 {
		fmt.Println("  (none)")
	}
}
