// Package runner executes external binaries such as pdftoppm and tesseract.
package runner

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/custodia-labs/askdoc/internal/logger"
)

// maxStderrLog caps how much stderr is copied into logs.
const maxStderrLog = 8 << 10

// Runner lets adapters stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// Exec runs commands with os/exec.
type Exec struct{}

// Run executes name with args and returns its captured output.
func (Exec) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		logger.Error("exec %s %s failed after %dms: %v: %s",
			name, strings.Join(args, " "), dur.Milliseconds(), err, Truncate(errb.String(), maxStderrLog))
	} else {
		logger.Debug("exec %s %s ok in %dms (stdout %d bytes)",
			name, strings.Join(args, " "), dur.Milliseconds(), out.Len())
	}

	return out.Bytes(), errb.Bytes(), err
}

// LookPath reports whether name resolves to an executable.
func LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Truncate shortens s to at most limit bytes.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "...(truncated)"
}
