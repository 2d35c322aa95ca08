// Package audit persists connection lifecycle events (connect, timeout,
// dispose, reader errors) to SQLite for
// later inspection. Writes are fire-and-forget: Record enqueues onto a
// buffered channel and returns immediately; one goroutine drains it.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Event is one connection lifecycle occurrence.
type Event struct {
	Endpoint  string
	Type      string // "connect", "timeout", "dispose", "reader_error"
	Detail    string
	Timestamp time.Time
}

// Log is a SQLite-backed, non-blocking connection event recorder.
type Log struct {
	db    *sql.DB
	queue chan Event
	wg    sync.WaitGroup
	stop  chan struct{}

	droppedMu sync.Mutex
	dropped   int64
}

// Open opens (creating if needed) the SQLite database at dbPath and
// starts the drain goroutine. queueSize bounds how many unflushed events
// Record may buffer before it starts dropping them.
func Open(dbPath string, queueSize int) (*Log, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS connection_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			endpoint TEXT NOT NULL,
			event_type TEXT NOT NULL,
			detail TEXT,
			occurred_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_connection_events_endpoint ON connection_events(endpoint);
	`); err != nil {
		db.Close()
		return nil, err
	}

	l := &Log{
		db:    db,
		queue: make(chan Event, queueSize),
		stop:  make(chan struct{}),
	}
	l.wg.Add(1)
	go l.drain()
	return l, nil
}

// Record enqueues a connection lifecycle event. It never blocks: if the
// queue is full, the event is dropped and counted (see Dropped).
func (l *Log) Record(endpoint, event, detail string) {
	e := Event{Endpoint: endpoint, Type: event, Detail: detail, Timestamp: time.Now()}
	select {
	case l.queue <- e:
	default:
		l.droppedMu.Lock()
		l.dropped++
		l.droppedMu.Unlock()
	}
}

// Dropped returns how many events have been discarded because the queue
// was full.
func (l *Log) Dropped() int64 {
	l.droppedMu.Lock()
	defer l.droppedMu.Unlock()
	return l.dropped
}

func (l *Log) drain() {
	defer l.wg.Done()
	stmt, err := l.db.Prepare(`INSERT INTO connection_events (endpoint, event_type, detail, occurred_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return
	}
	defer stmt.Close()

	for {
		select {
		case e := <-l.queue:
			stmt.Exec(e.Endpoint, e.Type, e.Detail, e.Timestamp.UnixMilli())
		case <-l.stop:
			for {
				select {
				case e := <-l.queue:
					stmt.Exec(e.Endpoint, e.Type, e.Detail, e.Timestamp.UnixMilli())
				default:
					return
				}
			}
		}
	}
}

// Recent returns the most recent events for endpoint, newest first.
func (l *Log) Recent(endpoint string, limit int) ([]Event, error) {
	rows, err := l.db.Query(
		`SELECT endpoint, event_type, detail, occurred_at FROM connection_events
		 WHERE endpoint = ? ORDER BY id DESC LIMIT ?`, endpoint, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: query recent: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var occurredAtMs int64
		if err := rows.Scan(&e.Endpoint, &e.Type, &e.Detail, &occurredAtMs); err != nil {
			return nil, err
		}
		e.Timestamp = time.UnixMilli(occurredAtMs)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close stops the drain goroutine after flushing whatever is queued, and
// closes the database.
func (l *Log) Close() error {
	close(l.stop)
	l.wg.Wait()
	return l.db.Close()
}
