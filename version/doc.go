// Package version reports the recq build.
//
// Version and Commit are set at link time; anything left empty is filled
// from the module build info:
//
//	go build -ldflags "-X github.com/kbukum/recq/version.Version=1.4.0" ./cmd/recq
package version
