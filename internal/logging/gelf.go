package logging

import (
	"fmt"
	"io"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGelfWriter returns a writer that ships each written line to a Graylog
// GELF UDP input at address (host:port).
func NewGelfWriter(address string) (io.Writer, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, fmt.Errorf("error creating GELF writer for %s: %w", address, err)
	}
	return w, nil
}
