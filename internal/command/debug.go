package command

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

const maxOutputLogSize = 1024

// DebugLogger writes per-trial command details. A nil *DebugLogger is valid
// and logs nothing.
type DebugLogger struct {
	out io.Writer
	mu  sync.Mutex
}

func NewDebugLogger(out io.Writer) *DebugLogger {
	return &DebugLogger{out: out}
}

func (d *DebugLogger) LogRun(run int, argv []string, dir string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("\n[Trial %d] >>> RUN: %s\n", run, strings.Join(argv, " ")))
	if dir != "" {
		buf.WriteString(fmt.Sprintf("  Dir: %s\n", dir))
	}
	fmt.Fprint(d.out, buf.String())
}

func (d *DebugLogger) LogOutput(run int, stdout, stderr []byte) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("[Trial %d] <<< OUTPUT\n", run))
	if len(stdout) > 0 {
		buf.WriteString(fmt.Sprintf("  Stdout: %s\n", truncateOutput(stdout)))
	}
	if len(stderr) > 0 {
		buf.WriteString(fmt.Sprintf("  Stderr: %s\n", truncateOutput(stderr)))
	}
	fmt.Fprint(d.out, buf.String())
}

func (d *DebugLogger) LogError(run int, err error) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "[Trial %d] !!! ERROR\n  %v\n", run, err)
}

func truncateOutput(out []byte) string {
	out = bytes.TrimRight(out, "\n")
	if len(out) <= maxOutputLogSize {
		return string(out)
	}
	return string(out[:maxOutputLogSize]) + fmt.Sprintf("... (truncated, %d bytes total)", len(out))
}
