// Package source acquires raw export bytes from the local filesystem or
// Cloud Storage. It knows nothing about file formats beyond suffixes.
package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// File is one named blob of raw bytes.
type File struct {
	Name string
	Data []byte
}

// Filter decides whether a file name should be read.
type Filter func(name string) bool

// ReadDir walks root recursively and reads every regular file accepted by
// filter, in lexical path order. Files larger than maxSize are still returned
// truncated to maxSize+1 bytes so the caller's size check rejects them.
func ReadDir(ctx context.Context, root string, filter Filter, maxSize int64) ([]File, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if filter != nil && !filter(d.Name()) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(paths)

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := readLimited(p, maxSize)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = filepath.Base(p)
		}
		files = append(files, File{Name: filepath.ToSlash(rel), Data: data})
	}
	return files, nil
}

func readLimited(path string, maxSize int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
