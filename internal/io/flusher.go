// Package io provides small writer helpers for streaming command
// output.
package io

import (
	"bufio"
	"io"
)

// FlushingWriter flushes after every write so the output of long
// running child processes shows up line by line instead of arriving in
// one burst at the end.
type FlushingWriter struct {
	w       io.Writer
	flusher interface{ Flush() error }
}

// NewFlushingWriter wraps w. A writer that already knows how to flush
// is used as is; anything else goes through a bufio.Writer to gain a
// Flush method.
func NewFlushingWriter(w io.Writer) *FlushingWriter {
	fw := &FlushingWriter{w: w}

	if f, ok := w.(interface{ Flush() error }); ok {
		fw.flusher = f
		return fw
	}

	bw := bufio.NewWriter(w)
	fw.w = bw
	fw.flusher = bw
	return fw
}

// Write writes p and flushes immediately.
func (fw *FlushingWriter) Write(p []byte) (n int, err error) {
	n, err = fw.w.Write(p)
	if err != nil {
		return n, err
	}
	if err := fw.flusher.Flush(); err != nil {
		return n, err
	}
	return n, nil
}

// Flush forces out any buffered data.
func (fw *FlushingWriter) Flush() error {
	return fw.flusher.Flush()
}
