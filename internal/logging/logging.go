// Package logging configures the global zerolog logger and optional Sentry reporting.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls Setup.
type Options struct {
	Level     string    // zerolog level name; empty means warn
	Verbose   bool      // forces debug
	JSON      bool      // force JSON lines even on a terminal
	Output    io.Writer // defaults to os.Stderr
	SentryDSN string
	Env       string
}

// Setup installs the global logger. It returns a flush function that must be
// called before the process exits; it is a no-op when Sentry is disabled.
func Setup(opts Options) func() {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	if !opts.JSON && isTerminal(out) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(out).With().Timestamp().Logger()

	level := zerolog.WarnLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			logger.Warn().Str("level", opts.Level).Msg("unknown log level, using warn")
		} else {
			level = parsed
		}
	}
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	flush := func() {}
	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryDSN,
			Environment: opts.Env,
		})
		if err != nil {
			logger.Error().Err(err).Msg("sentry init failed")
		} else {
			logger = logger.Hook(SentryHook{Hub: sentry.CurrentHub()})
			flush = func() { sentry.Flush(2 * time.Second) }
		}
	}

	log.Logger = logger
	return flush
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SentryHook forwards error-level events to a Sentry hub.
type SentryHook struct {
	Hub *sentry.Hub
}

// Run implements zerolog.Hook.
func (h SentryHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if h.Hub == nil || level < zerolog.ErrorLevel || level == zerolog.NoLevel {
		return
	}
	sentryLevel := sentry.LevelError
	if level >= zerolog.FatalLevel {
		sentryLevel = sentry.LevelFatal
	}
	h.Hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentryLevel)
		h.Hub.CaptureMessage(msg)
	})
}
