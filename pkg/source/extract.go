package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ProgressFunc receives the number of bytes copied so far and the total
type ProgressFunc func(done, total int64)

// Extract copies entries from src into dir and returns the written paths in
// entry order. Partially written files are removed on failure.
func Extract(ctx context.Context, src Source, entries []Entry, dir string, progress ProgressFunc) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	var total int64
	for _, e := range entries {
		total += e.Size
	}

	var done int64
	written := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		dest := filepath.Join(dir, filepath.Base(e.Name))
		n, err := copyEntry(ctx, src, e, dest, func(n int64) {
			if progress != nil {
				progress(done+n, total)
			}
		})
		if err != nil {
			os.Remove(dest)
			return written, fmt.Errorf("failed to extract %s: %w", e.Name, err)
		}

		done += n
		written = append(written, dest)
	}

	return written, nil
}

func copyEntry(ctx context.Context, src Source, e Entry, dest string, onWrite func(int64)) (int64, error) {
	rc, err := src.Open(e.Path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, &ctxReader{ctx: ctx, r: rc, onRead: onWrite})
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

// ctxReader stops a copy once ctx is done and reports running totals
type ctxReader struct {
	ctx    context.Context
	r      io.Reader
	read   int64
	onRead func(int64)
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.onRead != nil && n > 0 {
		c.onRead(c.read)
	}
	return n, err
}
