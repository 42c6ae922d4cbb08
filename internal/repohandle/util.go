package repohandle

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// execContext runs a command with an optional timeout, capturing stdout and
// folding stderr into the returned error so callers get something actionable
// without having to thread an io.Writer through every call site.
func execContext(ctx context.Context, timeout time.Duration, workDir string, name string, args ...string) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return stdout.Bytes(), fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return stdout.Bytes(), err
	}

	return stdout.Bytes(), nil
}

// execSimple runs a command with a generous default timeout.
func execSimple(workDir string, name string, args ...string) ([]byte, error) {
	return execContext(context.Background(), 30*time.Second, workDir, name, args...)
}

// parseLines splits command output into non-empty, trimmed lines.
func parseLines(output []byte) []string {
	if len(output) == 0 {
		return nil
	}

	lines := strings.Split(string(output), "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return result
}

// trimOutput trims whitespace and trailing newlines from command output.
func trimOutput(output []byte) string {
	return strings.TrimSpace(string(output))
}

// isExitError reports whether err is a non-zero exit from exec.
func isExitError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*exec.ExitError)
	return ok
}
