package extract

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path"
	"strings"

	"github.com/huangsam/reporank/schema"
)

// lintBatch bounds the number of paths passed to one linter process.
const lintBatch = 50

// linter describes one external lint tool and how to judge a batch run.
type linter struct {
	tool string
	exts []string
	args func(paths []string) []string
	// judge returns how many of paths passed and how many received a verdict.
	judge func(res toolResult, paths []string) (passed int, counted int)
}

// QualityExtractor reports the fraction of linted files that pass.
// Higher is better code, so the metric is inverted during normalization.
type QualityExtractor struct {
	Tools    Tools
	MaxFiles int
}

// Name implements Extractor.
func (e *QualityExtractor) Name() schema.MetricName { return schema.MetricQualityScore }

// linters returns the supported linters bound to the configured tools.
func (e *QualityExtractor) linters() []linter {
	return []linter{
		{
			tool: e.Tools.Pylint,
			exts: []string{".py"},
			args: func(paths []string) []string {
				return append([]string{"--disable=C,R", "--score=n", "--output-format=json"}, paths...)
			},
			judge: judgePylint,
		},
		{
			tool: e.Tools.ESLint,
			exts: []string{".js"},
			args: func(paths []string) []string {
				return append([]string{"--format=json"}, paths...)
			},
			judge: judgeESLint,
		},
		{
			tool: e.Tools.Cppcheck,
			exts: []string{".c", ".cc", ".cpp", ".h", ".hpp"},
			args: func(paths []string) []string {
				return append([]string{"--enable=warning", "--quiet", "--template={severity}:{file}"}, paths...)
			},
			judge: judgeCppcheck,
		},
	}
}

// Extract implements Extractor.
func (e *QualityExtractor) Extract(ctx context.Context, ws *Workspace) (float64, error) {
	var applicable, installed, passed, counted int
	for _, l := range e.linters() {
		files := ws.FilesWithExt(l.exts...)
		if len(files) == 0 {
			continue
		}
		applicable++
		bin, err := lookTool(l.tool)
		if err != nil {
			continue
		}
		installed++
		if e.MaxFiles > 0 && len(files) > e.MaxFiles {
			files = files[:e.MaxFiles]
		}
		for _, group := range chunk(files, lintBatch) {
			paths := make([]string, len(group))
			for i, f := range group {
				paths[i] = f.Path
			}
			res, err := runTool(ctx, ws.Root, bin, l.args(paths)...)
			if err != nil {
				if ctx.Err() != nil {
					return 0, err
				}
				continue
			}
			p, c := l.judge(res, paths)
			passed += p
			counted += c
		}
	}

	switch {
	case applicable == 0:
		return 0, Unavailable(schema.ReasonInapplicable, errors.New("no lintable files"))
	case installed == 0:
		return 0, Unavailable(schema.ReasonToolMissing, errors.New("no linter installed for this repository"))
	case counted == 0:
		return 0, Unavailable(schema.ReasonToolFailed, errors.New("no linter produced a verdict"))
	}
	return float64(passed) / float64(counted), nil
}

// judgePylint fails every file that has at least one message. C and R
// categories are disabled, so any remaining message is a warning or worse.
func judgePylint(res toolResult, paths []string) (int, int) {
	// Bit 32 is a usage error, not a verdict on the files.
	if res.ExitCode&32 != 0 {
		return 0, 0
	}
	var messages []struct {
		Path string `json:"path"`
	}
	if out := bytes.TrimSpace(res.Stdout); len(out) > 0 {
		if err := json.Unmarshal(out, &messages); err != nil {
			return 0, 0
		}
	}
	flagged := make(map[string]bool, len(messages))
	for _, m := range messages {
		flagged[cleanLintPath(m.Path)] = true
	}
	if res.ExitCode != 0 && len(flagged) == 0 {
		return 0, 0
	}
	return countClean(paths, flagged), len(paths)
}

// judgeESLint reads the per-file error counts from the JSON report.
func judgeESLint(res toolResult, _ []string) (int, int) {
	// Exit 2 means eslint itself failed, e.g. no config.
	if res.ExitCode > 1 {
		return 0, 0
	}
	var reports []struct {
		FilePath        string `json:"filePath"`
		ErrorCount      int    `json:"errorCount"`
		FatalErrorCount int    `json:"fatalErrorCount"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(res.Stdout), &reports); err != nil {
		return 0, 0
	}
	var passed int
	for _, r := range reports {
		if r.ErrorCount+r.FatalErrorCount == 0 {
			passed++
		}
	}
	return passed, len(reports)
}

// judgeCppcheck fails files named by an error or warning line on stderr.
func judgeCppcheck(res toolResult, paths []string) (int, int) {
	flagged := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(res.Stderr))
	for sc.Scan() {
		severity, file, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		if severity == "error" || severity == "warning" {
			flagged[cleanLintPath(file)] = true
		}
	}
	return countClean(paths, flagged), len(paths)
}

func cleanLintPath(p string) string {
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}

// countClean returns how many of paths are absent from flagged.
func countClean(paths []string, flagged map[string]bool) int {
	var n int
	for _, p := range paths {
		if !flagged[cleanLintPath(p)] {
			n++
		}
	}
	return n
}
