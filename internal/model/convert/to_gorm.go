// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/solheim-lab/mpscara/internal/model"
	"github.com/solheim-lab/mpscara/pkg/core"
)

// machineSnapshot is the JSON shape of a machine stored alongside a run.
// Keys match the configuration keys so a snapshot can be pasted back into a config file.
type machineSnapshot struct {
	Name        string  `json:"name"`
	UpperArm    float64 `json:"upperArm"`
	Forearm     float64 `json:"forearm"`
	InnerRadius float64 `json:"innerRadius"`
	Handed      string  `json:"handed"`
	Quality     float64 `json:"quality"`
	MaxSpeed    float64 `json:"maxSpeed"`
}

// machineToJSON converts a core.Machine to datatypes.JSON for DB storage.
func machineToJSON(m core.Machine) datatypes.JSON {
	data, _ := json.Marshal(machineSnapshot{
		Name:        m.Name,
		UpperArm:    m.UpperArm,
		Forearm:     m.Forearm,
		InnerRadius: m.YOffset,
		Handed:      m.Handed.String(),
		Quality:     m.ChordTolerance,
		MaxSpeed:    m.MaxAngularSpeed,
	})
	return datatypes.JSON(data)
}

// envelopeToJSON stores a non-empty envelope as [minX, minY, maxX, maxY].
func envelopeToJSON(e core.Envelope) datatypes.JSON {
	if e.Empty {
		return datatypes.JSON("null")
	}
	data, _ := json.Marshal([4]float64{e.MinX, e.MinY, e.MaxX, e.MaxY})
	return datatypes.JSON(data)
}

// CoreToRun converts a core.Run to a GORM model.Run. Files are converted too.
func CoreToRun(r core.Run) model.Run {
	files := make([]model.FileResult, 0, len(r.Files))
	for _, f := range r.Files {
		files = append(files, CoreToFileResult(f))
	}
	failed := r.Failed()
	return model.Run{
		ID:          r.ID,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		MachineName: r.Machine.Name,
		Machine:     machineToJSON(r.Machine),
		FilesOK:     len(r.Files) - failed,
		FilesFailed: failed,
		Files:       files,
	}
}

// CoreToFileResult converts a core.FileResult to a GORM model.FileResult.
func CoreToFileResult(f core.FileResult) model.FileResult {
	return model.FileResult{
		ID:         f.ID,
		RunID:      f.RunID,
		Target:     f.Target,
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
		Status:     string(f.Status),
		Error:      f.Error,
		StartTime:  f.StartTime,
		DurationMs: float64(f.Duration) / float64(time.Millisecond),
		LinesIn:    f.LinesIn,
		LinesOut:   f.LinesOut,
		Motions:    f.Motions,
		Chords:     f.Chords,
		PathLength: f.PathLength,
		Envelope:   envelopeToJSON(f.Envelope),
	}
}
