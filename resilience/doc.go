// Package resilience bounds how much work a process takes on at once.
//
// A Bulkhead caps concurrent pipeline runs so a burst of long-running
// requests cannot starve the rest of the server:
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{Name: "runs", MaxConcurrent: 8})
//	err := bh.Execute(ctx, func() error {
//	    report, err = runner.Run(ctx, descs)
//	    return err
//	})
package resilience
