// Package logging renders log records in the watchdog's stderr
// format: "[<app-id>] [<local-timestamp>] <level>: <message>". It
// wraps a zerolog.Logger purely for its event machinery and level
// filtering; the actual formatting is done by a zerolog.Hook so
// that logging a Severe or Fatal record never itself terminates or
// panics the process.
package logging

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level is one of the seven severities the watchdog logs at, in
// order of increasing severity and decreasing verbosity.
type Level int

const (
	Debug Level = iota
	Trace
	Info
	Warning
	Error
	Severe
	Fatal
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "Debug"
	case Trace:
		return "Trace"
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	case Severe:
		return "Severe"
	case Fatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

var toZerolog = map[Level]zerolog.Level{
	Debug:   zerolog.DebugLevel,
	Trace:   zerolog.TraceLevel,
	Info:    zerolog.InfoLevel,
	Warning: zerolog.WarnLevel,
	Error:   zerolog.ErrorLevel,
	Severe:  zerolog.FatalLevel,
	Fatal:   zerolog.PanicLevel,
}

var fromZerolog = map[zerolog.Level]Level{
	zerolog.DebugLevel: Debug,
	zerolog.TraceLevel: Trace,
	zerolog.InfoLevel:  Info,
	zerolog.WarnLevel:  Warning,
	zerolog.ErrorLevel: Error,
	zerolog.FatalLevel: Severe,
	zerolog.PanicLevel: Fatal,
}

const timestampLayout = "2006-01-02 15:04:05.000000000 -0700"

// Logger writes lines of the form "[<app-id>] [<local-timestamp>]
// <level>: <message>" to an underlying writer. It is safe for
// concurrent use by multiple goroutines, matching the watchdog's
// shared, thread-safe logger requirement.
type Logger struct {
	appID string
	mu    sync.Mutex
	out   io.Writer
	zl    zerolog.Logger
	now   func() time.Time
}

// New creates a Logger that identifies itself as appID and writes
// formatted lines to out.
func New(appID string, out io.Writer) *Logger {
	l := &Logger{appID: appID, out: out, now: time.Now}
	l.zl = zerolog.New(io.Discard).
		Level(zerolog.TraceLevel).
		Hook(zerolog.HookFunc(func(_ *zerolog.Event, level zerolog.Level, msg string) {
			l.writeLine(fromZerolog[level], msg)
		}))
	return l
}

func (l *Logger) writeLine(level Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := l.now().Local().Format(timestampLayout)
	_, _ = io.WriteString(l.out, "["+l.appID+"] ["+ts+"] "+level.String()+": "+msg+"\n")
}

// Log records a message at the given level.
func (l *Logger) Log(level Level, message string) {
	l.zl.WithLevel(toZerolog[level]).Msg(message)
}

// Logf records a formatted message at the given level.
func (l *Logger) Logf(level Level, format string, args ...any) {
	l.zl.WithLevel(toZerolog[level]).Msgf(format, args...)
}
