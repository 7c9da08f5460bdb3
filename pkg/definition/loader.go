package definition

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
)

// Extensions lists the file extensions read by LoadFS.
var Extensions = []string{".yaml", ".yml", ".json"}

// LoadFile reads and defines one definition file.
func (r *Registry) LoadFile(ctx context.Context, name string) error {
	doc, err := readDocument(ctx, name, os.ReadFile)
	if err != nil {
		return err
	}
	return r.Define(ctx, doc)
}

// LoadFS defines every definition file in dir of fsys as one batch, so
// files may reference each other. Files are read in name order.
func (r *Registry) LoadFS(ctx context.Context, fsys fs.FS, dir string) error {
	if dir == "" {
		dir = "."
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return errors.Join(ErrFailedToReadDir, err)
	}

	var docs []*Document
	for _, entry := range entries {
		if entry.IsDir() || !slices.Contains(Extensions, strings.ToLower(path.Ext(entry.Name()))) {
			continue
		}
		doc, err := readDocument(ctx, path.Join(dir, entry.Name()), func(name string) ([]byte, error) {
			return fs.ReadFile(fsys, name)
		})
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return fmt.Errorf("%w in %s", ErrNoDefinitions, dir)
	}
	return r.Define(ctx, docs...)
}

// LoadPath loads a single file or, for a directory, all definition files
// in it.
func (r *Registry) LoadPath(ctx context.Context, name string) error {
	info, err := os.Stat(name)
	if err != nil {
		return errors.Join(ErrFailedToReadFile, err)
	}
	if info.IsDir() {
		return r.LoadFS(ctx, os.DirFS(name), ".")
	}
	return r.LoadFile(ctx, name)
}

func readDocument(ctx context.Context, name string, read func(string) ([]byte, error)) (*Document, error) {
	done := make(chan struct{})
	var content []byte
	var readErr error

	go func() {
		content, readErr = read(name)
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil, errors.Join(ErrLoadingCancelled, ctx.Err())
	case <-done:
	}

	if readErr != nil {
		return nil, errors.Join(ErrFailedToReadFile, readErr)
	}
	doc, err := Parse(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}
