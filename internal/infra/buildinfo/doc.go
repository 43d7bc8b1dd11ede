// Package buildinfo provides build information for respkv.
//
// Version and Commit are injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/respkv-go/internal/infra/buildinfo.Version=v1.0.0"
//
// When a value is not injected, it falls back to what the Go toolchain
// embedded in the binary (module version, vcs.revision, vcs.time).
package buildinfo
