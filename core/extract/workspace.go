package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ErrInvalidPattern is returned for exclude patterns that fail to compile.
var ErrInvalidPattern = errors.New("invalid exclude pattern")

// skippedDirs are never descended into.
var skippedDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
	"__pycache__":  {},
	".venv":        {},
	".tox":         {},
}

// File is one scanned file of a workspace.
type File struct {
	Path  string // slash-separated, relative to the workspace root
	Abs   string
	Depth int // number of directories above the file
	Size  int64
}

// Ext returns the lowercased extension including the dot.
func (f File) Ext() string {
	return strings.ToLower(path.Ext(f.Path))
}

// Workspace is a checked-out repository and its file listing.
type Workspace struct {
	Root  string
	Files []File
}

// ReadFile returns the content of f, or nil when it exceeds limit bytes.
func (ws *Workspace) ReadFile(f File, limit int64) ([]byte, error) {
	if limit > 0 && f.Size > limit {
		return nil, nil
	}
	return os.ReadFile(f.Abs)
}

// FilesWithExt returns the files whose extension is in exts.
func (ws *Workspace) FilesWithExt(exts ...string) []File {
	want := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		want[e] = struct{}{}
	}
	var out []File
	for _, f := range ws.Files {
		if _, ok := want[f.Ext()]; ok {
			out = append(out, f)
		}
	}
	return out
}

// CompileExcludes compiles glob patterns matched against slash paths.
func CompileExcludes(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.Join(ErrInvalidPattern, fmt.Errorf("%q: %w", p, err))
		}
		matchers = append(matchers, g)
	}
	return matchers, nil
}

// Scan walks root once and records every regular file not excluded.
func Scan(ctx context.Context, root string, excludes []glob.Glob) (*Workspace, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot scan %s: not a directory", root)
	}

	ws := &Workspace{Root: root}
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if walkErr != nil {
			if p == root {
				return walkErr
			}
			return nil
		}
		if d.IsDir() {
			if _, skip := skippedDirs[d.Name()]; skip && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		for _, g := range excludes {
			if g.Match(rel) || g.Match(path.Base(rel)) {
				return nil
			}
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}
		ws.Files = append(ws.Files, File{
			Path:  rel,
			Abs:   p,
			Depth: strings.Count(rel, "/"),
			Size:  fi.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ws, nil
}
