package extract

import (
	"context"

	"github.com/huangsam/reporank/schema"
)

// FolderDepthExtractor reports the deepest directory nesting of any file.
type FolderDepthExtractor struct{}

// Name implements Extractor.
func (e *FolderDepthExtractor) Name() schema.MetricName { return schema.MetricFolderDepth }

// Extract implements Extractor.
func (e *FolderDepthExtractor) Extract(_ context.Context, ws *Workspace) (float64, error) {
	deepest := 0
	for _, f := range ws.Files {
		deepest = max(deepest, f.Depth)
	}
	return float64(deepest), nil
}

// FileCountExtractor reports the number of scanned files.
type FileCountExtractor struct{}

// Name implements Extractor.
func (e *FileCountExtractor) Name() schema.MetricName { return schema.MetricFileCount }

// Extract implements Extractor.
func (e *FileCountExtractor) Extract(_ context.Context, ws *Workspace) (float64, error) {
	return float64(len(ws.Files)), nil
}
