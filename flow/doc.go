// Package flow turns declarative descriptor lists into running pipelines.
//
// A descriptor names an operation and its parameters; a list of them,
// outermost first, describes one chain:
//
//	[
//	  ["count_up", {}],
//	  ["linear", {"scale": 2, "offset": -10}],
//	  ["filter_out", {"above": 0}],
//	  ["take_for", {"count": 10}]
//	]
//
// Operation names resolve through a closed registry of Op tags. Parameters
// are decoded with mapstructure and checked with struct tags, so unknown,
// missing and ill-typed parameters fail the build before anything runs.
//
//	descs, err := flow.DecodeFile("stream.json")
//	report, err := flow.NewRunner(flow.RunOptions{Capture: 10}).Run(ctx, descs)
//
// Build errors are *errors.AppError values with codes UNKNOWN_OPERATION,
// MALFORMED_DESCRIPTOR or INVALID_PARAMETER and an "index" detail pointing
// at the offending descriptor.
package flow
