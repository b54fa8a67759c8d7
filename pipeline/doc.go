// Package pipeline implements a push-based numeric stream.
//
// A pipeline is a Source bound to a linear chain of Stages. The source pushes
// values into the first stage, every transform pushes its outputs into its
// single downstream, and the chain ends in a terminal that decides when the
// stream is over. Each Push answers with a Signal: Continue asks for more,
// Stop asks the sender to halt. A stage that fans out combines the signals
// of its outputs with And, so one refusal stops the whole chain.
//
// Before the first value, the source primes the chain. Transforms forward
// the handshake and terminals answer it the way they answer a push.
//
//	stage := pipeline.Linear(pipeline.TakeFor(4), 2, 1)
//	n, err := pipeline.New(pipeline.CountUp{}, stage).Run(ctx)
//
// Everything runs on the caller's goroutine. Stages hold per-run state and
// must not be shared between runs.
package pipeline
