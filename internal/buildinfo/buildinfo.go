// Package buildinfo exposes build metadata stamped in via -ldflags.
package buildinfo

import (
	"fmt"
	"io"
)

// Set at build time:
//
//	go build -ldflags "-X .../internal/buildinfo.BuildVersion=v1.0.0 ..."
var (
	BuildVersion = "N/A"
	BuildDate    = "N/A"
	BuildCommit  = "N/A"
)

// PrintBuildData writes the build stamp to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", BuildVersion)
	fmt.Fprintf(w, "Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "Build commit: %s\n", BuildCommit)
}
