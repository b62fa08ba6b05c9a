// pkg/core/run.go
package core

import "time"

// FileStatus is the outcome of translating one target.
type FileStatus string

const (
	FileOK     FileStatus = "ok"
	FileFailed FileStatus = "failed"
)

// Run is one batch over a target list.
type Run struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
	Machine   Machine
	Files     []FileResult
}

// Failed returns the number of targets that did not translate.
func (r Run) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == FileFailed {
			n++
		}
	}
	return n
}

// FileResult records the translation of one target file.
type FileResult struct {
	ID         uint
	RunID      string
	Target     string
	InputPath  string
	OutputPath string
	Status     FileStatus
	Error      string
	StartTime  time.Time
	Duration   time.Duration
	LinesIn    int
	LinesOut   int
	Motions    int
	Chords     int // intermediate sub-points emitted by subdivision
	PathLength float64
	Envelope   Envelope
}

// Envelope is the XY bounding box of the Cartesian toolpath, in shoulder coordinates.
type Envelope struct {
	MinX, MinY float64
	MaxX, MaxY float64
	Empty      bool
}
