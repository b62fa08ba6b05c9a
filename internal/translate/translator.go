// Package translate rewrites Cartesian G-code into joint-angle G-code for a
// two-link arm, one file at a time.
package translate

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/solheim-lab/mpscara/internal/geo"
	"github.com/solheim-lab/mpscara/internal/parser"
	"github.com/solheim-lab/mpscara/pkg/core"
)

// DefaultHeaderTemplate renders the two comment lines written before the body.
const DefaultHeaderTemplate = "; Translated for use with the MPSCARA Machine {{ machine|safe }}\n" +
	"; File Quality: {{ quality }} mm"

const maxLineLength = 1 << 20

// Options tunes a Translator beyond the machine geometry.
type Options struct {
	// ModalFeedrate reuses the last F seen in a file on later motion lines that have none.
	ModalFeedrate bool
	// HeaderTemplate is a pongo2 template; empty means DefaultHeaderTemplate.
	HeaderTemplate string
}

// LineError ties a translation failure to the file and input line that caused it.
type LineError struct {
	File string
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v (line %q)", e.File, e.Line, e.Err, strings.TrimSpace(e.Text))
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Stats describes one translated file.
type Stats struct {
	LinesIn    int
	LinesOut   int
	Motions    int
	Chords     int
	PathLength float64
	Envelope   core.Envelope
}

// Translator holds everything that is shared between files. It keeps no
// per-file state, so one Translator can process a whole batch.
type Translator struct {
	machine core.Machine
	opts    Options
	logger  *slog.Logger
	header  *pongo2.Template
}

// NewTranslator validates the header template and returns a Translator for machine.
func NewTranslator(machine core.Machine, opts Options, logger *slog.Logger) (*Translator, error) {
	src := opts.HeaderTemplate
	if src == "" {
		src = DefaultHeaderTemplate
	}
	tpl, err := pongo2.FromString(src)
	if err != nil {
		return nil, fmt.Errorf("error parsing header template: %w", err)
	}
	return &Translator{
		machine: machine,
		opts:    opts,
		logger:  logger,
		header:  tpl,
	}, nil
}

// Header renders the comment block for the named file.
func (t *Translator) Header(name string) (string, error) {
	out, err := t.header.Execute(pongo2.Context{
		"machine":  t.machine.Name,
		"quality":  strconv.FormatFloat(t.machine.ChordTolerance, 'f', -1, 64),
		"file":     name,
		"handed":   t.machine.Handed.String(),
		"upperArm": t.machine.UpperArm,
		"forearm":  t.machine.Forearm,
		"maxSpeed": t.machine.MaxAngularSpeed,
	})
	if err != nil {
		return "", fmt.Errorf("error rendering header template: %w", err)
	}
	return strings.TrimRight(out, "\r\n") + "\n", nil
}

// Translate reads G-code from r and writes the joint-space program to w.
// On error the output written so far is incomplete and must not be used.
func (t *Translator) Translate(name string, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats

	bw := bufio.NewWriter(w)
	header, err := t.Header(name)
	if err != nil {
		return stats, err
	}
	if _, err := bw.WriteString(header); err != nil {
		return stats, fmt.Errorf("error writing header: %w", err)
	}

	var (
		cursor   Cursor
		toolpath geo.Toolpath
		lastF    core.Optional
		out      []string
	)
	p := parser.NewParser(t.logger, t.machine.YOffset)
	em := NewEmitter(t.machine)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for sc.Scan() {
		stats.LinesIn++
		raw := sc.Text()

		cmd, err := p.ParseLine(parser.StripComment(raw))
		if err != nil {
			return stats, &LineError{File: name, Line: stats.LinesIn, Text: raw, Err: err}
		}

		out = out[:0]
		switch c := cmd.(type) {
		case core.AxisReset:
			cursor.Reset(c.Axes, t.machine.YOffset)
			out = append(out, c.Text)
		case core.Motion:
			if t.opts.ModalFeedrate {
				if c.F.Valid {
					lastF = c.F
				} else {
					c.F = lastF
				}
			}
			stats.Motions++
			if c.HasXY() && cursor.Established() {
				toolpath.Add(cursor.X.Value, cursor.Y.Value)
			}
			out, err = em.Emit(out, &cursor, c)
			if err != nil {
				return stats, &LineError{File: name, Line: stats.LinesIn, Text: raw, Err: err}
			}
			if c.HasXY() {
				toolpath.Add(cursor.X.Value, cursor.Y.Value)
			}
		case core.Passthrough:
			out = append(out, c.Text)
		}

		for _, line := range out {
			if _, err := bw.WriteString(line); err != nil {
				return stats, fmt.Errorf("error writing output: %w", err)
			}
			if err := bw.WriteByte('\n'); err != nil {
				return stats, fmt.Errorf("error writing output: %w", err)
			}
		}
		stats.LinesOut += len(out)
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("error reading %s: %w", name, err)
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("error flushing output: %w", err)
	}

	stats.Chords = em.Chords()
	stats.PathLength, stats.Envelope = toolpath.Summary()
	t.logger.Debug("Translated file",
		"file", name,
		"linesIn", stats.LinesIn,
		"linesOut", stats.LinesOut,
		"chords", stats.Chords)
	return stats, nil
}
