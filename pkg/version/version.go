// Package version exposes build metadata stamped in at link time.
package version

import "fmt"

// Set via -ldflags at build time, for example:
//
//	go build -ldflags "-X github.com/yuv008/ASTra/pkg/version.Version=v0.3.0"
var (
	// Version is the semantic version of the binary.
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = "unknown"
	// Date is the build timestamp in RFC 3339 form.
	Date = "unknown"
)

// String returns the full human-readable version line.
func String() string {
	return fmt.Sprintf("astra %s (commit: %s, built: %s)", Version, Commit, Date)
}
