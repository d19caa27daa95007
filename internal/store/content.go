package store

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// TextRecord is the persisted payload for an editable text region.
type TextRecord struct {
	Text          string    `json:"text"`
	FilePath      string    `json:"filePath"`
	ComponentName string    `json:"componentName"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ImageRecord is the persisted payload for an editable image region.
// Source is either an inline data URI or a plain URL.
type ImageRecord struct {
	Source        string    `json:"source"`
	FilePath      string    `json:"filePath"`
	ComponentName string    `json:"componentName"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ContentStore persists editable text and image records, one per region
// id. Like GeometryStore it treats malformed stored data as degraded
// content rather than an error.
type ContentStore struct {
	kv  KV
	log *zap.Logger
}

// NewContentStore wraps a KV backend. A nil logger is replaced with a nop.
func NewContentStore(kv KV, log *zap.Logger) *ContentStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContentStore{kv: kv, log: log}
}

// LoadText returns the persisted record for the region. When the region
// has never been written, Text is def. When the stored value is not valid
// JSON it is returned verbatim as the text: legacy regions stored the bare
// string, and losing a merchant's copy over a format change is worse than
// showing it unwrapped.
func (c *ContentStore) LoadText(regionID, def string) TextRecord {
	raw, ok := c.kv.Get(regionID)
	if !ok {
		return TextRecord{Text: def}
	}
	var rec TextRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return TextRecord{Text: raw}
	}
	return rec
}

// SaveText overwrites the region's text record. Failures are logged and
// swallowed.
func (c *ContentStore) SaveText(regionID string, rec TextRecord) {
	c.save(regionID, rec)
}

// LoadImage returns the persisted image record, falling back to def as
// the source. A malformed stored value is treated as a bare source string.
func (c *ContentStore) LoadImage(regionID, def string) ImageRecord {
	raw, ok := c.kv.Get(regionID)
	if !ok {
		return ImageRecord{Source: def}
	}
	var rec ImageRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return ImageRecord{Source: raw}
	}
	return rec
}

// SaveImage overwrites the region's image record.
func (c *ContentStore) SaveImage(regionID string, rec ImageRecord) {
	c.save(regionID, rec)
}

func (c *ContentStore) save(regionID string, rec any) {
	data, err := json.Marshal(rec)
	if err != nil {
		c.log.Error("failed to encode content record", zap.String("region", regionID), zap.Error(err))
		return
	}
	if err := c.kv.Set(regionID, string(data)); err != nil {
		c.log.Error("failed to persist content record", zap.String("region", regionID), zap.Error(err))
	}
}
