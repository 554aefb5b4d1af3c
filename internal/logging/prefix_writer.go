package logging

import (
	"bytes"
	"io"
	"sync"
)

// PrefixWriter prefixes every complete line written through it. Partial
// lines are held until their newline arrives.
type PrefixWriter struct {
	prefix []byte
	writer io.Writer

	mu      sync.Mutex
	pending bytes.Buffer
}

// NewPrefixWriter wraps w.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{prefix: []byte(prefix), writer: w}
}

// Write implements io.Writer.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	pw.pending.Write(p)
	for {
		idx := bytes.IndexByte(pw.pending.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := pw.pending.Next(idx + 1)
		if _, err := pw.writer.Write(append(append([]byte{}, pw.prefix...), line...)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
