package log

import (
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
	"time"
	"unicode"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARNING"
	LevelError Level = "ERROR"
)

const (
	defaultBase      = "log"
	defaultComponent = "weekday"

	// Timestamp layouts for log lines and the generated file name suffix.
	lineTimeLayout = "2006-01-02 15:04:05"
	fileTimeLayout = "20060102_150405"
)

// DefaultLineFormat renders 2025-01-01 00:00:00 - LEVEL - component - msg key=value ...
const DefaultLineFormat = "{{.Time}} - {{.Level}} - {{.Component}} - {{.Message}}"

// lineFields are the values available to a line format template.
type lineFields struct {
	Time      string
	Level     string
	Component string
	// Message includes the formatted key=value pairs.
	Message string
}

// ParseLevel maps a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return "", fmt.Errorf("unknown log level %q", s)
}

func (l Level) rank() int {
	switch l {
	case LevelDebug:
		return 0
	case LevelInfo:
		return 1
	case LevelWarn:
		return 2
	case LevelError:
		return 3
	default:
		return 1
	}
}

// Options configures a Sink.
type Options struct {
	// Dir is created if missing.
	Dir string
	// Base is the file name prefix. A _YYYYMMDD_HHMMSS suffix and ".log"
	// extension are always appended. Defaults to "log".
	Base string
	// Level is the minimum level written. Defaults to LevelInfo.
	Level Level
	// Component is the tag written in every line.
	Component string
	// Console receives a copy of every line. Nil disables console output.
	Console io.Writer
	// Now is used for the file name and line timestamps. Defaults to time.Now.
	Now func() time.Time
	// LineFormat is a text/template over .Time, .Level, .Component and
	// .Message. Defaults to DefaultLineFormat.
	LineFormat string
}

// Sink writes leveled log lines to a file and, optionally, the console.
// A Sink is owned by whoever created it and must be closed by them.
type Sink struct {
	mu        sync.Mutex
	logger    *stdlog.Logger
	file      *os.File
	path      string
	minLevel  Level
	component string
	format    *template.Template
	now       func() time.Time
	closed    bool
}

// New creates the log directory, opens a fresh timestamped log file and
// returns a Sink writing to it.
func New(opts Options) (*Sink, error) {
	if opts.Dir == "" {
		return nil, errors.New("log directory is empty")
	}
	if opts.Base == "" {
		opts.Base = defaultBase
	}
	if opts.Level == "" {
		opts.Level = LevelInfo
	}
	if opts.Component == "" {
		opts.Component = defaultComponent
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LineFormat == "" {
		opts.LineFormat = DefaultLineFormat
	}

	format, err := parseLineFormat(opts.LineFormat)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.log", opts.Base, opts.Now().Format(fileTimeLayout))
	path := filepath.Join(opts.Dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	var w io.Writer = f
	if opts.Console != nil {
		w = io.MultiWriter(f, opts.Console)
	}

	return &Sink{
		logger:    stdlog.New(w, "", 0),
		file:      f,
		path:      path,
		minLevel:  opts.Level,
		component: opts.Component,
		format:    format,
		now:       opts.Now,
	}, nil
}

// Path returns the log file path.
func (s *Sink) Path() string {
	return s.path
}

func (s *Sink) Debug(msg string, kv ...any) {
	s.logWithLevel(LevelDebug, msg, kv...)
}

func (s *Sink) Info(msg string, kv ...any) {
	s.logWithLevel(LevelInfo, msg, kv...)
}

func (s *Sink) Warn(msg string, kv ...any) {
	s.logWithLevel(LevelWarn, msg, kv...)
}

func (s *Sink) Error(msg string, err error, kv ...any) {
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, kv...)
	s.logWithLevel(LevelError, msg, extended...)
}

// Close flushes and closes the log file. Calling Close more than once is
// a no-op.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	syncErr := s.file.Sync()
	if err := s.file.Close(); err != nil {
		return err
	}
	return syncErr
}

func (s *Sink) logWithLevel(level Level, msg string, kv ...any) {
	if level.rank() < s.minLevel.rank() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if len(kv) > 0 {
		msg += formatKVs(kv...)
	}

	var line strings.Builder
	// Executing was checked in New; the fields cannot fail to render.
	_ = s.format.Execute(&line, lineFields{
		Time:      s.now().Format(lineTimeLayout),
		Level:     string(level),
		Component: s.component,
		Message:   msg,
	})

	s.logger.Println(line.String())
}

// parseLineFormat parses a line template and renders it once so that
// references to unknown fields fail here rather than on every line.
func parseLineFormat(format string) (*template.Template, error) {
	tmpl, err := template.New("line").Option("missingkey=error").Parse(format)
	if err != nil {
		return nil, fmt.Errorf("parse log line format: %w", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, lineFields{}); err != nil {
		return nil, fmt.Errorf("log line format: %w", err)
	}
	return tmpl, nil
}

func formatKVs(kv ...any) string {
	var b strings.Builder
	// Expect kv as pairs: key, value, key, value, ...
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		b.WriteString(" " + key + "=" + quoteIfNeeded(fmt.Sprint(kv[i+1])))
	}
	// If odd number of args, last one is ignored.
	return b.String()
}

// quoteIfNeeded quotes values that would otherwise be ambiguous or could
// break the one-line-per-event layout.
func quoteIfNeeded(v string) string {
	if v == "" || strings.ContainsAny(v, " \"=") || strings.ContainsFunc(v, unicode.IsControl) {
		return fmt.Sprintf("%q", v)
	}
	return v
}
