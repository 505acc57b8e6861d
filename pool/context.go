package pool

import "context"

// CaptureFunc snapshots the ambient context of the submitting goroutine.
// It is called synchronously inside Submit, so whatever it returns reflects
// the caller's state at submission time. The worker installs the snapshot
// for exactly one task by running the task under it; nothing carries over
// to the next task on the same worker.
type CaptureFunc func() context.Context

// defaultCapture is used when no capture hook is configured. There is no
// process-wide ambient state in Go, so the neutral snapshot is Background.
func defaultCapture() context.Context {
	return context.Background()
}
