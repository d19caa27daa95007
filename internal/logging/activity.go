package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivityEntry is one appended edit/resize action. Entries are never
// mutated or pruned by this subsystem; unbounded growth is a known
// limitation, the log exists for audit, not for storage hygiene.
type ActivityEntry struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	FilePath      string    `json:"filePath"`
	ComponentName string    `json:"componentName"`
	UpdatedAt     time.Time `json:"updatedAt"`
	TriggeredBy   string    `json:"triggeredBy"`
}

// ActivityLog appends entries as JSON lines to a single file. Appends are
// serialized under a mutex; failures are logged and swallowed so a full
// disk never breaks the edit that triggered the entry.
type ActivityLog struct {
	mu   sync.Mutex
	path string
	file *os.File
	log  *zap.Logger

	appended int // count of successful appends, for tests and stats
}

// OpenActivityLog opens (creating if needed) the activity log at path.
func OpenActivityLog(path string, log *zap.Logger) (*ActivityLog, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create activity log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open activity log: %w", err)
	}
	return &ActivityLog{path: path, file: file, log: log}, nil
}

// Append records one entry. The ID and UpdatedAt fields are assigned here
// when unset.
func (a *ActivityLog) Append(entry ActivityEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		a.log.Error("failed to encode activity entry", zap.Error(err))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return
	}
	if _, err := a.file.Write(append(data, '\n')); err != nil {
		a.log.Error("failed to append activity entry", zap.Error(err))
		return
	}
	a.appended++
}

// Count reports how many entries this process has appended.
func (a *ActivityLog) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.appended
}

// Entries reads the whole log back. Lines that fail to decode are skipped
// rather than aborting the read.
func (a *ActivityLog) Entries() ([]ActivityEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.Open(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read activity log: %w", err)
	}
	defer f.Close()

	var entries []ActivityEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e ActivityEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			a.log.Warn("skipping malformed activity entry", zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("failed to scan activity log: %w", err)
	}
	return entries, nil
}

// Close closes the underlying file. Further appends are dropped.
func (a *ActivityLog) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}
