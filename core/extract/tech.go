package extract

import (
	"context"

	"github.com/go-enry/go-enry/v2"
	"github.com/huangsam/reporank/schema"
)

// enrySampleBytes is how much content enry sees when the name is ambiguous.
const enrySampleBytes = 16 * 1024

// TechDiversityExtractor counts distinct programming languages.
type TechDiversityExtractor struct {
	MaxFileBytes int64
}

// Name implements Extractor.
func (e *TechDiversityExtractor) Name() schema.MetricName { return schema.MetricTechDiversity }

// Extract implements Extractor.
func (e *TechDiversityExtractor) Extract(ctx context.Context, ws *Workspace) (float64, error) {
	languages := make(map[string]struct{})
	for _, f := range ws.Files {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if enry.IsVendor(f.Path) || enry.IsDotFile(f.Path) {
			continue
		}
		lang := Language(ws, f, e.MaxFileBytes)
		if lang == "" || enry.GetLanguageType(lang) != enry.Programming {
			continue
		}
		languages[lang] = struct{}{}
	}
	return float64(len(languages)), nil
}

// Language detects the language of f, falling back to content sniffing
// only when the file name is ambiguous.
func Language(ws *Workspace, f File, limit int64) string {
	if lang, safe := enry.GetLanguageByExtension(f.Path); safe {
		return lang
	}
	if lang, safe := enry.GetLanguageByFilename(f.Path); safe {
		return lang
	}
	content, err := ws.ReadFile(f, limit)
	if err != nil {
		return ""
	}
	if len(content) > enrySampleBytes {
		content = content[:enrySampleBytes]
	}
	return enry.GetLanguage(f.Path, content)
}
