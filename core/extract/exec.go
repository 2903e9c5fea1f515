package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/huangsam/reporank/schema"
)

// toolResult is the captured outcome of one external process.
type toolResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// lookTool resolves an executable, reporting absence as tool_missing.
func lookTool(name string) (string, error) {
	if name == "" {
		return "", Unavailable(schema.ReasonToolMissing, errors.New("no executable configured"))
	}
	bin, err := exec.LookPath(name)
	if err != nil {
		return "", Unavailable(schema.ReasonToolMissing, err)
	}
	return bin, nil
}

// runTool executes bin in dir. A non-zero exit is not an error; only a
// failure to start or an expired context is.
func runTool(ctx context.Context, dir, bin string, args ...string) (toolResult, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return toolResult{}, ctxErr
	}
	res := toolResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, Unavailable(schema.ReasonToolFailed, fmt.Errorf("%s: %w", bin, err))
		}
		res.ExitCode = exitErr.ExitCode()
	}
	return res, nil
}

// chunk splits files into groups of at most size.
func chunk(files []File, size int) [][]File {
	var out [][]File
	for size < len(files) {
		files, out = files[size:], append(out, files[:size])
	}
	if len(files) > 0 {
		out = append(out, files)
	}
	return out
}
