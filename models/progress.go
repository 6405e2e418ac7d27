package models

// Stage names a step of the per-chapter pipeline.
type Stage string

const (
	StageResolve  Stage = "resolve"
	StageFetch    Stage = "fetch"
	StageAssemble Stage = "assemble"
	StagePackage  Stage = "package"
)

// ProgressSink receives progress notifications from the pipeline.
// Implementations must be safe for concurrent use; the fetch stage reports from worker goroutines.
type ProgressSink interface {
	Progress(stage Stage, done, total int, message string)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(stage Stage, done, total int, message string)

// Progress calls f.
func (f ProgressFunc) Progress(stage Stage, done, total int, message string) {
	f(stage, done, total, message)
}

// Report forwards to sink when one is attached.
func Report(sink ProgressSink, stage Stage, done, total int, message string) {
	if sink != nil {
		sink.Progress(stage, done, total, message)
	}
}
