package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huangsam/reporank/schema"
)

// radonBatch bounds the number of paths passed to one radon process.
const radonBatch = 200

// radonBlock is one function, method or class reported by radon.
type radonBlock struct {
	Complexity float64 `json:"complexity"`
}

// CyclomaticExtractor reports the mean per-file cyclomatic complexity of
// Python sources as measured by radon.
type CyclomaticExtractor struct {
	Tool string
}

// Name implements Extractor.
func (e *CyclomaticExtractor) Name() schema.MetricName { return schema.MetricCyclomatic }

// Extract implements Extractor.
func (e *CyclomaticExtractor) Extract(ctx context.Context, ws *Workspace) (float64, error) {
	files := ws.FilesWithExt(".py")
	if len(files) == 0 {
		return 0, Unavailable(schema.ReasonInapplicable, errors.New("no python files"))
	}
	bin, err := lookTool(e.Tool)
	if err != nil {
		return 0, err
	}

	var perFile []float64
	for _, group := range chunk(files, radonBatch) {
		args := []string{"cc", "-j"}
		for _, f := range group {
			args = append(args, f.Path)
		}
		res, err := runTool(ctx, ws.Root, bin, args...)
		if err != nil {
			return 0, err
		}
		if res.ExitCode != 0 {
			return 0, Unavailable(schema.ReasonToolFailed, fmt.Errorf("radon exited with %d", res.ExitCode))
		}
		sums, err := parseRadon(res.Stdout)
		if err != nil {
			return 0, Unavailable(schema.ReasonToolFailed, err)
		}
		perFile = append(perFile, sums...)
	}
	if len(perFile) == 0 {
		return 0, Unavailable(schema.ReasonToolFailed, errors.New("radon analysed no files"))
	}

	var total float64
	for _, v := range perFile {
		total += v
	}
	return total / float64(len(perFile)), nil
}

// parseRadon returns the summed block complexity of every file radon could
// parse. Files radon reports as errors are skipped.
func parseRadon(out []byte) ([]float64, error) {
	var report map[string]json.RawMessage
	if err := json.Unmarshal(out, &report); err != nil {
		return nil, fmt.Errorf("unexpected radon output: %w", err)
	}
	sums := make([]float64, 0, len(report))
	for _, raw := range report {
		var blocks []radonBlock
		if err := json.Unmarshal(raw, &blocks); err != nil {
			continue
		}
		var sum float64
		for _, b := range blocks {
			sum += b.Complexity
		}
		sums = append(sums, sum)
	}
	return sums, nil
}
