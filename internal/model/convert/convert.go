package convert

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/solheim-lab/mpscara/internal/model"
	"github.com/solheim-lab/mpscara/pkg/core"
)

func jsonToMachine(data datatypes.JSON) core.Machine {
	var s machineSnapshot
	if len(data) == 0 || json.Unmarshal(data, &s) != nil {
		return core.Machine{}
	}
	handed, _ := core.ParseHandedness(s.Handed)
	return core.Machine{
		Name:            s.Name,
		UpperArm:        s.UpperArm,
		Forearm:         s.Forearm,
		Handed:          handed,
		YOffset:         s.InnerRadius,
		ChordTolerance:  s.Quality,
		MaxAngularSpeed: s.MaxSpeed,
	}
}

func jsonToEnvelope(data datatypes.JSON) core.Envelope {
	var box []float64
	if len(data) == 0 || json.Unmarshal(data, &box) != nil || len(box) != 4 {
		return core.Envelope{Empty: true}
	}
	return core.Envelope{MinX: box[0], MinY: box[1], MaxX: box[2], MaxY: box[3]}
}

// RunToCore converts a GORM model.Run to a core.Run.
func RunToCore(r model.Run) core.Run {
	files := make([]core.FileResult, 0, len(r.Files))
	for _, f := range r.Files {
		files = append(files, FileResultToCore(f))
	}
	return core.Run{
		ID:        r.ID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Machine:   jsonToMachine(r.Machine),
		Files:     files,
	}
}

// FileResultToCore converts a GORM model.FileResult to a core.FileResult.
func FileResultToCore(f model.FileResult) core.FileResult {
	return core.FileResult{
		ID:         f.ID,
		RunID:      f.RunID,
		Target:     f.Target,
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
		Status:     core.FileStatus(f.Status),
		Error:      f.Error,
		StartTime:  f.StartTime,
		Duration:   time.Duration(f.DurationMs * float64(time.Millisecond)),
		LinesIn:    f.LinesIn,
		LinesOut:   f.LinesOut,
		Motions:    f.Motions,
		Chords:     f.Chords,
		PathLength: f.PathLength,
		Envelope:   jsonToEnvelope(f.Envelope),
	}
}
