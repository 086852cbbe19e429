// Package util provides low-level helpers shared by all other packages.
package util

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// LogLevel controls output verbosity.
type LogLevel int

const (
	LogQuiet   LogLevel = 0
	LogNormal  LogLevel = 1
	LogVerbose LogLevel = 2
	LogDebug   LogLevel = 3
)

// levelTag pairs a bracketed prefix with the colour it gets on a terminal.
type levelTag struct {
	text  string
	color *color.Color
}

func newTag(text string, attrs ...color.Attribute) levelTag {
	c := color.New(attrs...)
	c.EnableColor() // colouring is gated by Logger.color, not the global NoColor
	return levelTag{text: text, color: c}
}

var (
	tagError   = newTag("[ERR]", color.FgRed, color.Bold)
	tagWarn    = newTag("[WRN]", color.FgYellow)
	tagInfo    = newTag("[INF]", color.FgGreen)
	tagVerbose = newTag("[VRB]", color.FgCyan)
	tagDebug   = newTag("[DBG]", color.FgMagenta)
)

// Logger writes levelled messages to stderr with optional timestamps
// and level prefixes.  Prefixes are coloured when stderr is a terminal.
type Logger struct {
	level      LogLevel
	output     io.Writer
	mu         sync.Mutex
	timestamps bool // if true, prepend a wall-clock timestamp
	color      bool
}

// NewLogger returns a Logger that prints messages at or below the given
// verbosity (0 = quiet, 1 = normal, 2 = verbose, 3 = debug).
func NewLogger(verbosity int) *Logger {
	return &Logger{
		level:      LogLevel(verbosity),
		output:     os.Stderr,
		timestamps: verbosity >= 3, // auto-enable timestamps in debug mode
		color:      term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// SetTimestamps enables or disables timestamp prefixes.
func (l *Logger) SetTimestamps(on bool) { l.timestamps = on }

// SetColor forces coloured prefixes on or off.
func (l *Logger) SetColor(on bool) { l.color = on }

// SetOutput overrides the output writer (default: os.Stderr).  Colour
// is switched off unless w is a terminal.
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
	f, ok := w.(*os.File)
	l.color = ok && term.IsTerminal(int(f.Fd()))
}

// Info prints when verbosity ≥ 1.  Prefixed with [INF].
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogNormal {
		l.write(tagInfo, format, args...)
	}
}

// Warn prints when verbosity ≥ 1.  Prefixed with [WRN].
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogNormal {
		l.write(tagWarn, format, args...)
	}
}

// Verbose prints when verbosity ≥ 2.  Prefixed with [VRB].
func (l *Logger) Verbose(format string, args ...interface{}) {
	if l.level >= LogVerbose {
		l.write(tagVerbose, format, args...)
	}
}

// Debug prints when verbosity ≥ 3.  Prefixed with [DBG].
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogDebug {
		l.write(tagDebug, format, args...)
	}
}

// Error always prints regardless of verbosity.  Prefixed with [ERR].
func (l *Logger) Error(format string, args ...interface{}) {
	l.write(tagError, format, args...)
}

func (l *Logger) write(tag levelTag, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prefix := tag.text
	if l.color {
		prefix = tag.color.Sprint(tag.text)
	}

	msg := fmt.Sprintf(format, args...)
	if l.timestamps {
		ts := time.Now().Format("15:04:05.000")
		fmt.Fprintf(l.output, "%s %s %s\n", ts, prefix, msg)
	} else {
		fmt.Fprintf(l.output, "%s %s\n", prefix, msg)
	}
}
