// Package parser classifies G-code lines into the commands the translator acts on.
package parser

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/solheim-lab/mpscara/pkg/core"
)

// MalformedTokenError is returned when a parameter value is not a finite number.
type MalformedTokenError struct {
	Token string
	Err   error
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("malformed parameter %q: %v", e.Token, e.Err)
}

func (e *MalformedTokenError) Unwrap() error {
	return e.Err
}

// StripComment removes everything from the first ';' to the end of the line.
func StripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

// Parser turns comment-free lines into core commands.
// It is stateless apart from the workspace offset applied to Y.
type Parser struct {
	logger  *slog.Logger
	yOffset float64
}

// NewParser creates a parser that shifts every motion Y by yOffset.
func NewParser(logger *slog.Logger, yOffset float64) *Parser {
	return &Parser{
		logger:  logger,
		yOffset: yOffset,
	}
}

// ParseLine classifies one line whose comment has already been stripped.
// Lines that are neither G0/G1 nor G92 come back as core.Passthrough with
// trailing whitespace removed.
func (p *Parser) ParseLine(line string) (core.Command, error) {
	text := strings.TrimRight(line, " \t\r\n")
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return core.Passthrough{Text: text}, nil
	}

	opcode := strings.ToUpper(fields[0])
	switch opcode {
	case "G0", "G00", "G1", "G01":
		return p.parseMotion(opcode, fields[1:])
	case "G92":
		return p.parseReset(text, fields[1:])
	default:
		return core.Passthrough{Text: text}, nil
	}
}

func (p *Parser) parseMotion(opcode string, params []string) (core.Command, error) {
	m := core.Motion{Opcode: opcode}
	for _, tok := range params {
		letter := asciiUpper(tok[0])
		var dst *core.Optional
		switch letter {
		case 'X':
			dst = &m.X
		case 'Y':
			dst = &m.Y
		case 'Z':
			dst = &m.Z
		case 'E':
			dst = &m.E
		case 'F':
			dst = &m.F
		default:
			p.logger.Debug("Ignoring unsupported parameter", "token", tok)
			continue
		}
		v, err := parseNumber(tok)
		if err != nil {
			return nil, err
		}
		*dst = core.Some(v)
	}
	if m.Y.Valid {
		m.Y.Value += p.yOffset
	}
	return m, nil
}

// parseReset records which axes a G92 names. Values are checked but not kept:
// every named axis is reset to zero.
func (p *Parser) parseReset(text string, params []string) (core.Command, error) {
	r := core.AxisReset{Text: text}
	for _, tok := range params {
		var axis core.Axis
		switch asciiUpper(tok[0]) {
		case 'X':
			axis = core.AxisX
		case 'Y':
			axis = core.AxisY
		case 'Z':
			axis = core.AxisZ
		case 'E':
			axis = core.AxisE
		default:
			continue
		}
		if len(tok) > 1 {
			if _, err := parseNumber(tok); err != nil {
				return nil, err
			}
		}
		r.Axes = r.Axes.Add(axis)
	}
	return r, nil
}

func parseNumber(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok[1:], 64)
	if err != nil {
		return 0, &MalformedTokenError{Token: tok, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &MalformedTokenError{Token: tok, Err: fmt.Errorf("value is not finite")}
	}
	return v, nil
}

func asciiUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
