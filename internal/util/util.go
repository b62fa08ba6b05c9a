// Package util provides target file naming helpers shared by the CLI and the worker.
package util

import (
	"path/filepath"
	"strings"
)

// DefaultInputExtension is appended to a target named without an extension.
const DefaultInputExtension = ".g"

// knownExtensions are the G-code extensions recognised on target names.
var knownExtensions = []string{".gcode", ".g"}

// TargetBase trims whitespace and a trailing .gcode or .g extension (any case).
func TargetBase(target string) string {
	name := strings.TrimSpace(target)
	lower := strings.ToLower(name)
	for _, ext := range knownExtensions {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// InputPath resolves the file a target names. A target with a G-code
// extension is used as given; a bare name reads <name>.g. Relative targets
// are resolved against dir.
func InputPath(dir, target string) string {
	name := strings.TrimSpace(target)
	if TargetBase(name) == name {
		name += DefaultInputExtension
	}
	if filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// OutputPath names the translated file: <base><suffix><ext>, plus .gz when
// compressed. It is placed in outDir, or next to inputPath when outDir is empty.
func OutputPath(inputPath, outDir, suffix, ext string, compress bool) string {
	base := TargetBase(filepath.Base(inputPath))
	name := base + suffix + ext
	if compress {
		name += ".gz"
	}
	if outDir == "" {
		outDir = filepath.Dir(inputPath)
	}
	return filepath.Join(outDir, name)
}
