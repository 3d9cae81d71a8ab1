//go:build windows

// Package stderr provides a no-op implementation for Windows.
// Windows audio backends don't produce the same stderr noise as ALSA.
package stderr

import (
	"bufio"
	"io"
	"strings"
)

// Start is a no-op on Windows.
func Start(func(line string)) error {
	return nil
}

// Forward reads lines from r until EOF and passes the non-empty ones to sink.
func Forward(r io.Reader, sink func(line string)) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			sink(line)
		}
	}
}

// Stop is a no-op on Windows.
func Stop() {}
