package phonelog

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Config is the input of a single retrieval.
type Config struct {
	Address   string // ip address or hostname of the device
	Directory string // existing directory to store logs in
}

// Result describes what a retrieval did. It is returned even if the
// retrieval fails part way through.
type Result struct {
	Host    string
	Skipped []string
	Entries []Entry
}

// Downloaded returns the entries which were saved successfully.
func (r *Result) Downloaded() []Entry {
	var a []Entry
	for _, e := range r.Entries {
		if e.Err == nil {
			a = append(a, e)
		}
	}
	return a
}

// Failed returns the entries which could not be saved.
func (r *Result) Failed() []Entry {
	var a []Entry
	for _, e := range r.Entries {
		if e.Err != nil {
			a = append(a, e)
		}
	}
	return a
}

// IndexError is returned when the log listing page cannot be fetched or parsed.
type IndexError struct {
	Host string
	Err  error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("get log index from %s: %v", e.Host, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// EntryError is returned when a log file cannot be downloaded.
type EntryError struct {
	Href string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("download %q: %v", e.Href, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Retriever downloads all console logs from a device.
type Retriever struct {
	Resolver Resolver
	Client   *Client
	Now      func() time.Time
	Logger   *slog.Logger
}

// Retrieve resolves the device, lists its logs, and downloads each one which
// isn't excluded, in order. It stops at the first download which fails. The
// error is a [*ResolveError], [*IndexError], or [*EntryError].
func (r *Retriever) Retrieve(ctx context.Context, cfg Config) (*Result, error) {
	var (
		res    = new(Result)
		logger = cmp.Or(r.Logger, slog.Default())
		client = cmp.Or(r.Client, new(Client))
	)

	host, err := ResolveHost(ctx, r.Resolver, cfg.Address)
	if err != nil {
		return res, err
	}
	res.Host = host
	logger.Debug("resolved device", "addr", cfg.Address, "host", host)

	buf, err := client.Index(ctx, host)
	if err != nil {
		return res, &IndexError{Host: host, Err: err}
	}
	links, err := ParseIndex(bytes.NewReader(buf))
	if err != nil {
		return res, &IndexError{Host: host, Err: err}
	}
	logger.Debug("parsed log index", "host", host, "links", len(links))

	dl := &Downloader{
		Client: client,
		Dir:    cfg.Directory,
		Now:    r.Now,
		Logger: logger,
	}
	for _, href := range links {
		if Excluded(href) {
			logger.Debug("skipping self-check log", "href", href)
			res.Skipped = append(res.Skipped, href)
			continue
		}
		e, err := dl.Download(ctx, host, href)
		res.Entries = append(res.Entries, e)
		if err != nil {
			return res, &EntryError{Href: href, Err: err}
		}
	}
	return res, nil
}
