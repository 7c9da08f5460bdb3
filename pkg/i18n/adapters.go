package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"slices"
)

// CatalogAdapter loads catalog content from a source.
type CatalogAdapter interface {
	Load(ctx context.Context) (map[string]map[string]any, error)
}

// MapAdapter serves an in-memory catalog.
type MapAdapter struct {
	Data map[string]map[string]any
}

func (a *MapAdapter) Load(_ context.Context) (map[string]map[string]any, error) {
	if a.Data == nil {
		return make(map[string]map[string]any), nil
	}
	return a.Data, nil
}

// FileAdapter loads a single catalog file. The parser is picked from the
// file extension unless one is given.
type FileAdapter struct {
	parser Parser
	path   string
}

// NewFileAdapter returns nil when path is empty or no parser handles it.
func NewFileAdapter(parser Parser, path string) *FileAdapter {
	if path == "" {
		return nil
	}
	if parser == nil {
		parser = NewParserForFile(path)
	}
	if parser == nil {
		return nil
	}
	return &FileAdapter{parser: parser, path: path}
}

func (a *FileAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	done := make(chan struct{})
	var content []byte
	var readErr error

	go func() {
		content, readErr = os.ReadFile(a.path)
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil, errors.Join(ErrLoadingFileCancelled, ctx.Err())
	case <-done:
	}

	if readErr != nil {
		return nil, errors.Join(ErrFailedToReadFile, readErr)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrFailedToReadFile, a.path)
	}

	messages, err := a.parser.Parse(ctx, content)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseFile, fmt.Errorf("%s: %w", a.path, err))
	}
	return messages, nil
}

// FSAdapter loads every supported catalog file in one directory of a file
// system, merging them. Files are read in name order so later files win on
// duplicate keys. Works with embed.FS and os.DirFS alike.
type FSAdapter struct {
	fsys    fs.FS
	dir     string
	parsers []Parser
}

// NewFSAdapter reads dir inside fsys. With no parsers, YAML and JSON files
// are accepted.
func NewFSAdapter(fsys fs.FS, dir string, parsers ...Parser) *FSAdapter {
	if fsys == nil {
		return nil
	}
	if dir == "" {
		dir = "."
	}
	if len(parsers) == 0 {
		parsers = []Parser{NewYAMLParser(), NewJSONParser()}
	}
	return &FSAdapter{fsys: fsys, dir: dir, parsers: parsers}
}

// NewDirectoryAdapter is an FSAdapter over a local directory.
func NewDirectoryAdapter(dir string, parsers ...Parser) *FSAdapter {
	if dir == "" {
		return nil
	}
	return NewFSAdapter(os.DirFS(dir), ".", parsers...)
}

func (a *FSAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	entries, err := fs.ReadDir(a.fsys, a.dir)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadDir, err)
	}

	result := make(map[string]map[string]any)
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		parser := a.parserFor(entry.Name())
		if parser == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(ErrLoadingFileCancelled, err)
		}

		name := path.Join(a.dir, entry.Name())
		content, err := fs.ReadFile(a.fsys, name)
		if err != nil {
			return nil, errors.Join(ErrFailedToReadFile, err)
		}
		messages, err := parser.Parse(ctx, content)
		if err != nil {
			return nil, errors.Join(ErrFailedToParseFile, fmt.Errorf("%s: %w", name, err))
		}
		merge(result, messages)
		loaded++
	}

	if loaded == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoCatalogFiles, a.dir)
	}
	return result, nil
}

func (a *FSAdapter) parserFor(name string) Parser {
	ext := path.Ext(name)
	if ext == "" {
		return nil
	}
	idx := slices.IndexFunc(a.parsers, func(p Parser) bool { return p.SupportsFileExtension(ext) })
	if idx < 0 {
		return nil
	}
	return a.parsers[idx]
}

func merge(dst, src map[string]map[string]any) {
	for lang, messages := range src {
		if dst[lang] == nil {
			dst[lang] = make(map[string]any, len(messages))
		}
		maps.Copy(dst[lang], messages)
	}
}

// ChainAdapter merges the catalogs of several adapters; later adapters win
// on duplicate keys. Nil adapters are skipped.
type ChainAdapter struct {
	adapters []CatalogAdapter
}

func NewChainAdapter(adapters ...CatalogAdapter) *ChainAdapter {
	return &ChainAdapter{adapters: adapters}
}

func (a *ChainAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	result := make(map[string]map[string]any)
	for _, adapter := range a.adapters {
		if adapter == nil || isNilAdapter(adapter) {
			continue
		}
		messages, err := adapter.Load(ctx)
		if err != nil {
			return nil, err
		}
		merge(result, messages)
	}
	return result, nil
}

// isNilAdapter catches typed nil pointers such as a nil *FileAdapter returned
// by a constructor.
func isNilAdapter(a CatalogAdapter) bool {
	switch v := a.(type) {
	case *FileAdapter:
		return v == nil
	case *FSAdapter:
		return v == nil
	case *MapAdapter:
		return v == nil
	case *ChainAdapter:
		return v == nil
	}
	return false
}
