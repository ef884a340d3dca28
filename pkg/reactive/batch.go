package reactive

// Batch groups the subscriber notifications of every write inside fn into
// a single deduplicated pass that runs when the outermost batch completes.
// Scheduling of owning instances is unaffected: the runtime's dirty set
// already coalesces those.
//
// Batches nest; only the outermost one flushes.
func Batch(fn func()) {
	ctx := getTrackingContext()
	ctx.batchDepth++

	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth == 0 {
			flushPending(ctx)
		}
	}()

	fn()
}

// flushPending deduplicates queued listeners by ID and notifies them.
func flushPending(ctx *trackingContext) {
	pending := ctx.pending
	ctx.pending = nil
	if len(pending) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(pending))
	for _, l := range pending {
		if seen[l.ID()] {
			continue
		}
		seen[l.ID()] = true
		l.MarkDirty()
	}
}
