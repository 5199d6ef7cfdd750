package driver

import "time"

// FileStatus reports where a file is in a directory run.
type FileStatus int

const (
	// FileStarted is sent before the file is lexed.
	FileStarted FileStatus = iota
	FileFinished
)

// ProgressEvent describes one file boundary of TokenizeDir/ParseDir.
type ProgressEvent struct {
	Path     string
	Status   FileStatus
	Index    int // позиция в отсортированном списке
	Total    int
	Errors   int
	Warnings int
	Cached   bool
	Elapsed  time.Duration
}

// ProgressObserver receives events from worker goroutines; it must be safe
// for concurrent use.
type ProgressObserver func(ProgressEvent)

func (o Options) notify(ev ProgressEvent) {
	if o.Progress != nil {
		o.Progress(ev)
	}
}
