package cmd

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"batodl/models"
)

// barSink renders pipeline progress as one bar per stage.
type barSink struct {
	mu    sync.Mutex
	out   io.Writer
	stage models.Stage
	total int
	done  int
	bar   *progressbar.ProgressBar
}

func newBarSink(out io.Writer) *barSink {
	return &barSink{out: out}
}

var stageLabels = map[models.Stage]string{
	models.StageResolve:  "Resolving",
	models.StageFetch:    "Downloading",
	models.StageAssemble: "Assembling",
	models.StagePackage:  "Packaging",
}

func (s *barSink) Progress(stage models.Stage, done, total int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if total <= 0 {
		return
	}

	if s.bar == nil || stage != s.stage || total != s.total {
		s.finish()
		s.stage, s.total, s.done = stage, total, 0
		s.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(s.out),
			progressbar.OptionSetDescription(stageLabels[stage]),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(s.out)
			}),
		)
	}

	// Fetch workers report out of order; never move the bar backwards.
	if done <= s.done {
		return
	}
	s.done = done
	if message != "" {
		s.bar.Describe(fmt.Sprintf("%s: %s", stageLabels[stage], message))
	}
	s.bar.Set(done)
}

// finish closes the current bar (caller must hold lock).
func (s *barSink) finish() {
	if s.bar != nil && !s.bar.IsFinished() {
		s.bar.Finish()
	}
	s.bar = nil
}
