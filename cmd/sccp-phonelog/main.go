// Command sccp-phonelog downloads the console logs from an SCCP phone.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chan-sccp/sccp-phonelog/internal/pflagx"
	"github.com/chan-sccp/sccp-phonelog/pkg/phonelog"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"
)

var (
	EnvPrefix = "SCCP_PHONELOG_"
	Address   = pflag.StringP("ipaddress", "i", "", "ip address or hostname of the phone (required)")
	Directory = pflag.StringP("directory", "d", os.TempDir(), "output directory (created if it doesn't exist)")
	LogLevel  = pflagx.LevelP("log-level", "L", slog.LevelInfo, "log level")
	LogJSON   = pflag.Bool("log-json", false, "use json logs")
	Help      = pflag.BoolP("help", "h", false, "show this help text")
)

func main() {
	if err := pflagx.ParseEnv(EnvPrefix); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	pflag.Parse()

	if *Help || pflag.NArg() != 0 {
		fmt.Printf("usage: %s [options]\n%s", os.Args[0], pflag.CommandLine.FlagUsages())
		if *Help {
			return
		}
		os.Exit(2)
	}

	cfg, err := bindConfig(*Address, *Directory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if *LogJSON {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: LogLevel,
		})))
	} else {
		slog.SetDefault(slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level: LogLevel,
		})))
	}
	slog.SetLogLoggerLevel(LogLevel.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, new(phonelog.Retriever)); err != nil {
		stop()
		os.Exit(1)
	}
}

// bindConfig validates the flag values.
func bindConfig(addr, dir string) (phonelog.Config, error) {
	if addr == "" {
		return phonelog.Config{}, errors.New("no ip address specified")
	}
	if dir == "" {
		return phonelog.Config{}, errors.New("no output directory specified")
	}
	return phonelog.Config{
		Address:   addr,
		Directory: dir,
	}, nil
}

func run(ctx context.Context, cfg phonelog.Config, r *phonelog.Retriever) error {
	slog.Info("starting", "ip-address", cfg.Address, "directory", cfg.Directory)

	if err := ensureDir(cfg.Directory); err != nil {
		slog.Error("failed to create output directory", "path", cfg.Directory, "error", err)
		return err
	}

	res, err := r.Retrieve(ctx, cfg)
	if err != nil {
		if rerr := (*phonelog.ResolveError)(nil); errors.As(err, &rerr) {
			slog.Error("could not resolve hostname", "addr", rerr.Addr, "error", rerr.Err)
			return err
		}
		var saved []string
		for _, e := range res.Downloaded() {
			saved = append(saved, e.Path)
		}
		slog.Error("SCCP phone could not be reached", "host", res.Host, "error", err, "saved", saved)
		return err
	}

	slog.Info("done", "host", res.Host, "downloaded", len(res.Downloaded()), "skipped", len(res.Skipped))
	return nil
}

// ensureDir creates dir and its parents if it doesn't exist.
func ensureDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	slog.Info("creating output directory", "path", dir)
	return os.MkdirAll(dir, 0777)
}
