package extract

import (
	"context"
	"sync"

	"github.com/boyter/scc/v3/processor"
	"github.com/huangsam/reporank/schema"
)

// sccOnce guards the global language tables of scc.
var sccOnce sync.Once

// LOCExtractor sums code lines of every file scc recognises.
type LOCExtractor struct {
	MaxFileBytes int64
}

// Name implements Extractor.
func (e *LOCExtractor) Name() schema.MetricName { return schema.MetricLOC }

// Extract implements Extractor.
func (e *LOCExtractor) Extract(ctx context.Context, ws *Workspace) (float64, error) {
	sccOnce.Do(processor.ProcessConstants)

	var code int64
	for _, f := range ws.Files {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		langs, _ := processor.DetectLanguage(f.Path)
		if len(langs) == 0 {
			continue
		}
		content, err := ws.ReadFile(f, e.MaxFileBytes)
		if err != nil || len(content) == 0 {
			continue
		}
		job := &processor.FileJob{
			Filename: f.Path,
			Language: langs[0],
			Content:  content,
			Bytes:    int64(len(content)),
		}
		processor.CountStats(job)
		code += job.Code
	}
	return float64(code), nil
}
