// Package pflagx implements extensions to pflag.
package pflagx

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/pflag"
)

// LevelP defines a log level flag on the command line.
func LevelP(name, shorthand string, value slog.Level, usage string) *slog.LevelVar {
	return LevelVarP(pflag.CommandLine, name, shorthand, value, usage)
}

// LevelVarP defines a log level flag on fs.
func LevelVarP(fs *pflag.FlagSet, name, shorthand string, value slog.Level, usage string) *slog.LevelVar {
	level, def := new(slog.LevelVar), new(slog.LevelVar)
	def.Set(value)
	fs.TextVarP(level, name, shorthand, def, usage)
	return level
}

// ParseEnv sets command line flags from environment variables.
func ParseEnv(prefix string) error {
	return ParseEnvFlags(pflag.CommandLine, prefix, os.Environ())
}

// ParseEnvFlags sets flags on fs from env (in KEY=value form). PREFIX_LOG_LEVEL
// sets --log-level. It should be called before parsing the command line so
// arguments take precedence.
func ParseEnvFlags(fs *pflag.FlagSet, prefix string, env []string) error {
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		s, ok := strings.CutPrefix(k, prefix)
		if !ok || s == "" {
			continue
		}
		n := strings.Map(func(r rune) rune {
			if r == '_' {
				return '-'
			}
			return unicode.ToLower(r)
		}, s)
		f := fs.Lookup(n)
		if f == nil {
			fmt.Fprintf(fs.Output(), "env %s: unknown flag --%s\n", k, n)
			continue
		}
		if err := fs.Set(n, v); err != nil {
			return fmt.Errorf("env %s: flag --%s: invalid argument: %w", k, n, err)
		}
	}
	return nil
}
