// Package probe runs named health probes.
//
// A Registry stores probes, which are plain action.Action values, and a
// Runner executes either one probe or all of them with a bounded
// concurrency level:
//
//	registry := probe.NewRegistry(db, cache, upstream)
//	runner := probe.NewRunner(engine, registry, 2, logger)
//
//	results, err := runner.Run(ctx, "")   // all probes, two at a time
//	results, err = runner.Run(ctx, "db")  // one probe
//	if errors.Is(err, util.ErrProbeNotFound) {
//	    // unknown probe name
//	}
package probe
