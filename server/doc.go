// Package server exposes the pipeline runner over HTTP using Gin, with
// cleartext HTTP/2 via h2c.
//
// # Routes
//
//   - POST /v1/runs: body is a descriptor array (JSON, or YAML when the
//     Content-Type says so). Query capture=N overrides the configured
//     number of terminal values returned. Replies {"data": report}.
//   - POST /v1/runs/stream: same body, answered as Server-Sent Events
//     (started, value per terminal value, then report or error).
//   - GET /v1/operations: registered operations and mapper names.
//   - GET /health: service and pipeline health.
//   - GET /version: build information.
//
// Every run is bounded by Config.RunTimeout; a run cut off by it answers
// 408 with code CANCELED. At most Config.MaxConcurrentRuns run at once;
// the rest wait up to Config.QueueWait and then get 503 UNAVAILABLE.
//
// # Middleware
//
// Applied around the whole handler (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: UUID request IDs on X-Request-Id
//   - Tracing: one server span per request
//   - BodySizeLimit: request body cap
//   - RequestLogger: request logging by status
package server
