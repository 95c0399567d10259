package phonelog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	// ChunkSize is the size of each read from a log file response.
	ChunkSize = 1024

	// TimestampFormat is the format of the timestamp in output filenames.
	TimestampFormat = "20060102-150405"
)

// Entry is the outcome of downloading a single log file.
type Entry struct {
	Href string
	URL  string
	Path string
	Size int64
	Err  error
}

// OutputPath returns the file a log downloaded from host at t is stored in.
// Downloads of the same log within the same second map to the same path.
func OutputPath(dir, host, href string, t time.Time) string {
	return filepath.Join(dir, host+"_"+Basename(href)+"_"+t.Format(TimestampFormat)+".log")
}

// Downloader saves log files from a device into a directory.
type Downloader struct {
	Client *Client
	Dir    string
	Now    func() time.Time
	Logger *slog.Logger
}

// Download saves href from host. No file is left behind if the request or the
// response body fails, but a file partially written when writing to it fails
// is left in place.
func (d *Downloader) Download(ctx context.Context, host, href string) (Entry, error) {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	e := Entry{
		Href: href,
		URL:  LogURL(host, href),
		Path: OutputPath(d.Dir, host, href, now()),
	}
	cmp.Or(d.Logger, slog.Default()).Info("retrieving", "url", e.URL, "path", e.Path)

	e.Size, e.Err = d.save(ctx, e.URL, e.Path)
	return e, e.Err
}

func (d *Downloader) save(ctx context.Context, u, name string) (int64, error) {
	resp, err := cmp.Or(d.Client, new(Client)).Open(ctx, u)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return 0, err
	}

	n, err := copyChunks(f, resp.Body)
	if err != nil {
		f.Close()
		if rerr := (*readError)(nil); errors.As(err, &rerr) {
			if err := os.Remove(name); err != nil {
				return 0, fmt.Errorf("fetch %q: %w (remove partial file: %v)", u, rerr.Err, err)
			}
			return 0, fmt.Errorf("fetch %q: %w", u, rerr.Err)
		}
		return n, fmt.Errorf("write %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return n, err
	}
	return n, nil
}

// readError is returned by copyChunks when reading the source fails.
type readError struct {
	Err error
}

func (e *readError) Error() string {
	return e.Err.Error()
}

func (e *readError) Unwrap() error {
	return e.Err
}

// copyChunks copies r to w, writing each non-empty read of up to ChunkSize
// bytes as it arrives. Read failures are returned as a *readError.
func copyChunks(w io.Writer, r io.Reader) (int64, error) {
	var (
		buf = make([]byte, ChunkSize)
		n   int64
	)
	for {
		nr, rerr := r.Read(buf)
		if nr > 0 {
			nw, werr := w.Write(buf[:nr])
			n += int64(nw)
			if werr != nil {
				return n, werr
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return n, nil
			}
			return n, &readError{Err: rerr}
		}
	}
}
