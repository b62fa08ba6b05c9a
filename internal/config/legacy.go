package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	legacySettingsFile = "settings.txt"
	legacyTargetsFile  = "targets.txt"
)

// legacyKeys maps the seven settings.txt lines, in order, to config keys.
var legacyKeys = []struct {
	key     string
	numeric bool
}{
	{"machine.name", false},
	{"machine.upperArm", true},
	{"machine.forearm", true},
	{"machine.innerRadius", true},
	{"machine.handed", false},
	{"machine.quality", true},
	{"machine.maxSpeed", true},
}

// loadLegacy reads the plain-text settings.txt and targets.txt pair.
// Each settings line is "label:value"; the label is ignored.
func loadLegacy(configDir string) error {
	settings, err := readLines(filepath.Join(configDir, legacySettingsFile))
	if err != nil {
		return err
	}
	targets, err := readLines(filepath.Join(configDir, legacyTargetsFile))
	if err != nil {
		return err
	}

	if len(settings) < len(legacyKeys) {
		return &ConfigurationError{
			Key:    legacySettingsFile,
			Reason: fmt.Sprintf("expected %d lines, got %d", len(legacyKeys), len(settings)),
		}
	}
	for i, k := range legacyKeys {
		line := settings[i]
		idx := strings.Index(line, ":")
		if idx < 0 {
			return &ConfigurationError{Key: k.key, Reason: fmt.Sprintf("line %d has no ':' separator", i+1)}
		}
		value := strings.TrimSpace(line[idx+1:])
		if !k.numeric {
			viper.Set(k.key, value)
			continue
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &ConfigurationError{Key: k.key, Reason: fmt.Sprintf("%q is not a number", value)}
		}
		viper.Set(k.key, f)
	}

	viper.Set("targets", targets)
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingInputError{Path: path}
		}
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return lines, nil
}
