// Package version reports build metadata for the streamkit binary.
//
//	go build -ldflags "-X github.com/kbukum/streamkit/version.Version=1.2.0" ./cmd/streamkit
package version
