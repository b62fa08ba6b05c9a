package worker

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/solheim-lab/mpscara/internal/config"
	"github.com/solheim-lab/mpscara/internal/translate"
	"github.com/solheim-lab/mpscara/internal/util"
	"github.com/solheim-lab/mpscara/pkg/core"
)

func (m *Manager) newResult(runID, target string) core.FileResult {
	input := util.InputPath(m.deps.ConfigDir, target)
	out := m.deps.Output
	return core.FileResult{
		RunID:      runID,
		Target:     strings.TrimSpace(target),
		InputPath:  input,
		OutputPath: util.OutputPath(input, m.outputDir(), out.Suffix, out.Extension, out.Compress),
		StartTime:  time.Now().UTC(),
	}
}

func (m *Manager) outputDir() string {
	dir := m.deps.Output.Dir
	if dir == "" || filepath.IsAbs(dir) || m.deps.ConfigDir == "" {
		return dir
	}
	return filepath.Join(m.deps.ConfigDir, dir)
}

// translateFile writes the translation to a temp file beside outputPath and
// renames it into place only once the whole input has translated.
func (m *Manager) translateFile(inputPath, outputPath string) (stats translate.Stats, err error) {
	in, err := os.Open(inputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats, &config.MissingInputError{Path: inputPath}
		}
		return stats, fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return stats, fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outputPath)+".*.tmp")
	if err != nil {
		return stats, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	var w io.Writer = tmp
	var gz *gzip.Writer
	if m.deps.Output.Compress {
		gz = gzip.NewWriter(tmp)
		w = gz
	}

	stats, err = m.deps.Translator.Translate(filepath.Base(inputPath), in, w)
	if err != nil {
		return stats, err
	}
	if gz != nil {
		if err = gz.Close(); err != nil {
			return stats, fmt.Errorf("failed to finish compressed output: %w", err)
		}
	}
	if err = tmp.Close(); err != nil {
		return stats, fmt.Errorf("failed to close output file: %w", err)
	}
	if err = os.Rename(tmp.Name(), outputPath); err != nil {
		return stats, fmt.Errorf("failed to move output into place: %w", err)
	}
	return stats, nil
}
