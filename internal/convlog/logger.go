// Package convlog writes chat transcripts as per-session NDJSON files.
package convlog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Config controls conversation logging.
type Config struct {
	Enabled   bool
	Dir       string
	QueueSize int
}

// Event is one line in a session log.
type Event struct {
	Timestamp  string         `json:"ts"`
	SessionID  string         `json:"session_id"`
	UserName   string         `json:"user_name,omitempty"`
	Channel    string         `json:"channel"`
	Direction  string         `json:"direction"`
	EventType  string         `json:"event_type"`
	ContentRaw string         `json:"content_raw,omitempty"`
	Content    string         `json:"content,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// Logger records conversation events without blocking the caller.
type Logger interface {
	Log(event Event)
	Close() error
}

// Noop discards all events.
type Noop struct{}

func (Noop) Log(Event)    {}
func (Noop) Close() error { return nil }

// FileLogger appends events to Dir/<session>.ndjson from a background worker.
type FileLogger struct {
	dir    string
	queue  chan Event
	log    *slog.Logger
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// New creates a logger. When disabled it returns Noop.
func New(cfg Config, log *slog.Logger) (Logger, error) {
	if !cfg.Enabled {
		return Noop{}, nil
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create conversation log dir: %w", err)
	}

	l := &FileLogger{
		dir:   cfg.Dir,
		queue: make(chan Event, cfg.QueueSize),
		log:   log,
	}
	l.wg.Add(1)
	go l.run()
	return l, nil
}

// Log enqueues an event. Events are dropped when the queue is full.
func (l *FileLogger) Log(event Event) {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if event.Content == "" && event.ContentRaw != "" {
		event.Content = cleanForReadability(event.ContentRaw)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	select {
	case l.queue <- event:
	default:
		l.log.Warn("conversation log queue full, dropping event", "session_id", event.SessionID, "event_type", event.EventType)
	}
}

// Close drains pending events and stops the worker.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()

	l.wg.Wait()
	return nil
}

func (l *FileLogger) run() {
	defer l.wg.Done()
	for event := range l.queue {
		if err := l.write(event); err != nil {
			l.log.Warn("failed to write conversation log", "session_id", event.SessionID, "error", err)
		}
	}
}

func (l *FileLogger) write(event Event) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	path := filepath.Join(l.dir, fileName(event.SessionID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]`)

func fileName(sessionID string) string {
	name := unsafeName.ReplaceAllString(sessionID, "_")
	if name == "" {
		name = "unknown"
	}
	return name + ".ndjson"
}

var (
	emphasis  = regexp.MustCompile(`\*\*(.*?)\*\*`)
	rules     = regexp.MustCompile(`(?m)^-{3,}\s*$`)
	blankRuns = regexp.MustCompile(`\n{2,}`)
)

// cleanForReadability strips markdown markup and collapses blank lines.
func cleanForReadability(raw string) string {
	s := emphasis.ReplaceAllString(raw, "$1")
	s = rules.ReplaceAllString(s, "")
	s = blankRuns.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
