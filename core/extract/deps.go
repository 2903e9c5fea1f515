package extract

import (
	"bytes"
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/huangsam/reporank/schema"
)

// sourceExts are the file types whose sibling references are counted.
var sourceExts = []string{
	".py", ".js", ".jsx", ".ts", ".tsx", ".go", ".c", ".cc", ".cpp", ".h", ".hpp", ".java", ".rb",
}

// minStemLen keeps short stems such as "io" from matching everywhere.
const minStemLen = 3

// DependencyExtractor counts references between source files in the same
// directory. A file references a sibling when its content mentions the
// sibling's file name, or the sibling's stem as a whole word.
type DependencyExtractor struct {
	MaxFileBytes int64
}

// Name implements Extractor.
func (e *DependencyExtractor) Name() schema.MetricName { return schema.MetricDependencyCount }

// Extract implements Extractor.
func (e *DependencyExtractor) Extract(ctx context.Context, ws *Workspace) (float64, error) {
	byDir := make(map[string][]File)
	for _, f := range ws.FilesWithExt(sourceExts...) {
		dir := path.Dir(f.Path)
		byDir[dir] = append(byDir[dir], f)
	}

	total := 0
	for _, siblings := range byDir {
		if len(siblings) < 2 {
			continue
		}
		patterns := make([]*regexp.Regexp, len(siblings))
		for i, s := range siblings {
			patterns[i] = siblingPattern(s)
		}
		for i, f := range siblings {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			content, err := ws.ReadFile(f, e.MaxFileBytes)
			if err != nil || len(content) == 0 {
				continue
			}
			for j, other := range siblings {
				if i == j {
					continue
				}
				if referencesSibling(content, other, patterns[j]) {
					total++
				}
			}
		}
	}
	return float64(total), nil
}

// siblingPattern matches the stem of f as a whole word, or nil if too short.
func siblingPattern(f File) *regexp.Regexp {
	base := path.Base(f.Path)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if len(stem) < minStemLen {
		return nil
	}
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(stem) + `\b`)
}

// referencesSibling reports whether content mentions other.
func referencesSibling(content []byte, other File, stem *regexp.Regexp) bool {
	if bytes.Contains(content, []byte(path.Base(other.Path))) {
		return true
	}
	return stem != nil && stem.Match(content)
}
