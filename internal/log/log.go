// Package log writes timestamped entries to a size-capped file and carries
// the logger through a context.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const maxLogSize = 1 << 20

type ctxKey struct{}

type Logger struct {
	mu      sync.Mutex
	path    string
	out     io.WriteCloser
	verbose bool
}

// DefaultPath is $XDG_STATE_HOME/wtm/wtm.log, falling back to ~/.local/state.
func DefaultPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "wtm", "wtm.log")
}

// New opens path for appending. An empty path or an unwritable location
// yields a logger that discards everything.
func New(path string, verbose bool) *Logger {
	l := &Logger{verbose: verbose}
	if path == "" {
		return l
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return l
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return l
	}
	l.path = path
	l.out = f
	return l
}

func Discard() *Logger { return &Logger{} }

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return nil
	}
	err := l.out.Close()
	l.out = nil
	return err
}

func (l *Logger) Verbose() bool { return l.verbose }

func (l *Logger) Debug(format string, args ...any) {
	if l.verbose {
		l.write("DEBUG", format, args...)
	}
}

func (l *Logger) Info(format string, args ...any)  { l.write("INFO", format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.write("WARN", format, args...) }
func (l *Logger) Error(format string, args ...any) { l.write("ERROR", format, args...) }

// Command records an external command invocation at debug level.
func (l *Logger) Command(name string, args ...string) {
	l.Debug("$ %s %s", name, strings.Join(args, " "))
}

func (l *Logger) write(level, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return
	}
	l.truncateIfNeeded()
	if l.out == nil {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(l.out, "%s [%s] %s\n", ts, level, fmt.Sprintf(format, args...))
}

func (l *Logger) truncateIfNeeded() {
	f, ok := l.out.(*os.File)
	if !ok {
		return
	}
	info, err := f.Stat()
	if err != nil || info.Size() < maxLogSize {
		return
	}
	f.Close()
	nf, err := os.OpenFile(l.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		l.out = nil
		return
	}
	l.out = nf
	fmt.Fprintf(nf, "%s [INFO] log truncated after reaching %d bytes\n",
		time.Now().Format("2006-01-02 15:04:05"), maxLogSize)
}

func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the attached logger, or a discarding one.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok && l != nil {
		return l
	}
	return Discard()
}
