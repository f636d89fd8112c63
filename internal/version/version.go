// Package version holds application identity and build metadata.
// BuildDate and Commit are set at link time:
//
//	go build -ldflags "-X github.com/keshon/coinbridge/internal/version.BuildDate=$(date -u +%FT%TZ)"
package version

import "runtime"

const (
	AppName        = "Coin Bridge"
	AppDescription = "Check balances, send coins and link your Discord account to the game server economy."
)

var (
	BuildDate = ""
	Commit    = ""
	GoVersion = runtime.Version()
)

// String returns a short human readable build string.
func String() string {
	s := AppName
	if Commit != "" {
		s += " (" + Commit + ")"
	}
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}
