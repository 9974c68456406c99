package log

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dpotapov/slogpfx"
)

// Logger wraps a slog.Logger and keeps track of the prefixes applied to it, so that components can
// hand a child logger with an extra prefix (ex. "[runner]") to their collaborators.
type Logger struct {
	*slog.Logger

	rawLogLevel string
	prefixes    []string
	writer      io.Writer
}

// Default logger is simply at INFO level, writing to stderr.
func Default() *Logger {
	return NewLogger("info")
}

// NewLogger creates a logger without a prefix.
func NewLogger(rawLogLevel string) *Logger {
	return NewLoggerWithPrefixes(rawLogLevel, []string{})
}

// NewLoggerWithPrefixes creates a logger writing to stderr with a set of prefixes.
func NewLoggerWithPrefixes(rawLogLevel string, prefixes []string) *Logger {
	return NewLoggerWithWriter(rawLogLevel, os.Stderr, prefixes...)
}

// NewLoggerWithWriter creates a logger that writes to w.
func NewLoggerWithWriter(rawLogLevel string, w io.Writer, prefixes ...string) *Logger {
	slogger := newSlogger(rawLogLevel, w)
	return newLoggerWithSlogger(slogger, rawLogLevel, w, prefixes)
}

func newLoggerWithSlogger(slogger *slog.Logger, rawLogLevel string, w io.Writer, prefixes []string) *Logger {
	prefix := strings.Join(prefixes, "")
	prefixedSlogger := slogger.With(prefixKey, prefix)

	return &Logger{
		Logger:      prefixedSlogger,
		rawLogLevel: rawLogLevel,
		prefixes:    prefixes,
		writer:      w,
	}
}

// ApplyPrefix returns a child logger with an additional prefix.
func (l *Logger) ApplyPrefix(prefix string) *Logger {
	prefixes := make([]string, 0, len(l.prefixes)+1)
	prefixes = append(prefixes, l.prefixes...)
	prefixes = append(prefixes, prefix)

	// slogpfx replaces the value of a prefix key, so attributes added with With survive.
	return newLoggerWithSlogger(l.Logger, l.rawLogLevel, l.writer, prefixes)
}

// With returns a child logger carrying the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:      l.Logger.With(args...),
		rawLogLevel: l.rawLogLevel,
		prefixes:    l.prefixes,
		writer:      l.writer,
	}
}

// Prefixes returns the prefixes applied to this logger, outermost first.
func (l *Logger) Prefixes() []string {
	return l.prefixes
}

// Any value sent to this key is rendered as a message prefix by slogpfx.
const prefixKey = "_prefixKey"

func newSlogger(rawLogLevel string, w io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(ParseLogLevel(rawLogLevel))

	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
	})

	// The default formatter in slogpfx uses a '>' symbol.
	prefixFormatter := func(prefixes []slog.Value) string {
		p := make([]string, 0, len(prefixes))
		for _, prefix := range prefixes {
			if prefix.Any() == nil || prefix.String() == "" {
				continue
			}
			p = append(p, prefix.String())
		}
		if len(p) == 0 {
			return ""
		}
		return strings.Join(p, "") + " "
	}

	prefixHandler := slogpfx.NewHandler(textHandler, &slogpfx.HandlerOptions{
		PrefixKeys:      []string{prefixKey},
		PrefixFormatter: prefixFormatter,
	})

	return slog.New(prefixHandler)
}
