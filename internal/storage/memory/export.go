package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/solheim-lab/mpscara/internal/model"
	"github.com/solheim-lab/mpscara/internal/model/convert"
)

// Report is the JSON document written for a run. It shares its shape with
// the database ledger so both can be read by the same tooling.
type Report struct {
	model.Run
	Totals Totals `json:"totals"`
}

// Totals sums the per-file counters of a run.
type Totals struct {
	LinesIn    int     `json:"linesIn"`
	LinesOut   int     `json:"linesOut"`
	Motions    int     `json:"motions"`
	Chords     int     `json:"chords"`
	PathLength float64 `json:"pathLength"`
}

func (b *Backend) buildReport() Report {
	run := *b.run
	run.Files = b.files
	report := Report{Run: convert.CoreToRun(run)}
	for _, f := range b.files {
		report.Totals.LinesIn += f.LinesIn
		report.Totals.LinesOut += f.LinesOut
		report.Totals.Motions += f.Motions
		report.Totals.Chords += f.Chords
		report.Totals.PathLength += f.PathLength
	}
	return report
}

func (b *Backend) exportJSON() error {
	report := b.buildReport()

	machineName := strings.ReplaceAll(b.run.Machine.Name, " ", "_")
	machineName = strings.ReplaceAll(machineName, ":", "_")
	if machineName == "" {
		machineName = "run"
	}
	timestamp := b.run.StartTime.Format("20060102_150405")

	filename := fmt.Sprintf("%s_%s.json", machineName, timestamp)
	if b.cfg.CompressOutput {
		filename += ".gz"
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeReport(outputPath, report, b.cfg.CompressOutput); err != nil {
		return err
	}

	b.lastExportPath = outputPath
	return nil
}

func writeReport(path string, report Report, compress bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	var w io.Writer = f
	if compress {
		gzWriter := gzip.NewWriter(f)
		defer func() {
			if cerr := gzWriter.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("failed to finish gzip stream: %w", cerr)
			}
		}()
		w = gzWriter
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
