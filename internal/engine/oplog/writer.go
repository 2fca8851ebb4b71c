package oplog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// FlushInterval forces a flush on the first Append that arrives this
	// long after the last flush. There is no background timer: records
	// appended before an idle period stay unsynced until the next Append,
	// Flush, Checkpoint or Close.
	FlushInterval = 2 * time.Second
	// FlushOpThreshold forces a flush once this many records are pending.
	FlushOpThreshold = 50
	// CheckpointOpThreshold rewrites the checkpoint line (discarding the
	// records that preceded it) after this many records.
	CheckpointOpThreshold = 500
)

// ContentFunc returns the buffer's current full text, used to rewrite the
// checkpoint line during compaction.
type ContentFunc func() string

// Writer appends edit records to a per-file .ops log and periodically
// compacts it by rewriting the checkpoint line and truncating everything
// before it.
type Writer struct {
	mu sync.Mutex

	path       string
	file       *os.File
	enc        *json.Encoder
	getContent ContentFunc

	pending         int
	sinceCheckpoint int
	lastFlush       time.Time
}

// NewWriter creates (or truncates) the .ops file at path with an initial
// checkpoint of initialContent.
func NewWriter(path string, initialContent string, getContent ContentFunc) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	w := &Writer{
		path:       path,
		file:       f,
		enc:        json.NewEncoder(f),
		getContent: getContent,
		lastFlush:  time.Now(),
	}
	if err := w.enc.Encode(checkpointLine{Content: initialContent}); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// Append writes rec as the next line of the log, flushing to disk once the
// pending-record or pending-time threshold is crossed, and compacting the
// checkpoint once CheckpointOpThreshold records have accumulated since the
// last one.
func (w *Writer) Append(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.enc.Encode(rec); err != nil {
		return err
	}
	w.pending++
	w.sinceCheckpoint++

	if w.pending >= FlushOpThreshold || time.Since(w.lastFlush) >= FlushInterval {
		if err := w.flushLocked(); err != nil {
			return err
		}
	}
	if w.sinceCheckpoint >= CheckpointOpThreshold {
		return w.checkpointLocked()
	}
	return nil
}

// Flush forces any buffered writes to disk.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

func (w *Writer) flushLocked() error {
	if err := w.file.Sync(); err != nil {
		return err
	}
	w.pending = 0
	w.lastFlush = time.Now()
	return nil
}

// Checkpoint rewrites the log to a single checkpoint line holding the
// buffer's current content, via a temp file plus rename so a crash
// mid-compaction never corrupts the existing log.
func (w *Writer) Checkpoint() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.checkpointLocked()
}

func (w *Writer) checkpointLocked() error {
	tmpPath := w.path + ".tmp"
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(tmp)
	if err := enc.Encode(checkpointLine{Content: w.getContent()}); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		return err
	}

	w.file.Close()
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.file = f
	w.enc = json.NewEncoder(f)
	w.sinceCheckpoint = 0
	w.pending = 0
	w.lastFlush = time.Now()
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Load reads path's checkpoint content and the records that followed it,
// for replay after a crash. It returns ("", nil, nil) if path does not
// exist.
func Load(path string) (content string, records []Record, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, nil
		}
		return "", nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if scanner.Scan() {
		var cp checkpointLine
		if err := json.Unmarshal(scanner.Bytes(), &cp); err != nil {
			return "", nil, err
		}
		content = cp.Content
	}
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return "", nil, err
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return "", nil, err
	}
	return content, records, nil
}
