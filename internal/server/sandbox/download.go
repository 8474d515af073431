package sandbox

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Download is an open regular file inside the sandbox. The caller owns Body
// and must Close it.
type Download struct {
	Name    string
	Size    int64
	ModTime time.Time
	Body    io.ReadCloser
}

// Open resolves requested and opens it for reading. Anything other than an
// existing regular file is common.ErrorNotFound.
func (s *Sandbox) Open(requested string) (*Download, error) {
	p, err := s.Resolve(requested)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open: %w", ErrNotRegularFile)
	}
	fi, err := f.Stat()
	if err != nil || !fi.Mode().IsRegular() {
		_ = f.Close()
		return nil, ErrNotRegularFile
	}

	return &Download{Name: fi.Name(), Size: fi.Size(), ModTime: fi.ModTime(), Body: f}, nil
}

func (d *Download) Close() error {
	return d.Body.Close()
}

// Reader returns a reader over Body that fails with ctx.Err() once ctx is done.
func (d *Download) Reader(ctx context.Context) io.Reader {
	return &ctxReader{ctx: ctx, r: d.Body}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
