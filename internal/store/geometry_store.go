package store

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"liveedit/internal/geometry"
)

// SizeKey returns the storage key holding a region's persisted geometry.
func SizeKey(regionID string) string {
	return regionID + "-size"
}

// GeometryStore persists one rectangle per editable region. Writes are
// unconditional overwrites; there is no versioning or merge.
type GeometryStore struct {
	kv  KV
	log *zap.Logger
}

// NewGeometryStore wraps a KV backend. A nil logger is replaced with a nop.
func NewGeometryStore(kv KV, log *zap.Logger) *GeometryStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &GeometryStore{kv: kv, log: log}
}

// Load returns the persisted size for the region, or def when absent.
// Malformed stored data never propagates an error: a bare numeric string
// is read as a width with auto height, anything else falls back to def.
func (g *GeometryStore) Load(regionID string, def geometry.Size) geometry.Size {
	raw, ok := g.kv.Get(SizeKey(regionID))
	if !ok {
		return def
	}

	var s geometry.Size
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return s
	}

	if px, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		return geometry.WidthOnly(px)
	}

	g.log.Warn("discarding malformed stored geometry",
		zap.String("region", regionID),
		zap.String("raw", raw))
	return def
}

// Save overwrites the region's persisted size. A storage failure (quota,
// disabled backend) is logged and swallowed: it must never break the
// interaction that triggered it.
func (g *GeometryStore) Save(regionID string, s geometry.Size) {
	data, err := json.Marshal(s)
	if err != nil {
		g.log.Error("failed to encode geometry", zap.String("region", regionID), zap.Error(err))
		return
	}
	if err := g.kv.Set(SizeKey(regionID), string(data)); err != nil {
		g.log.Error("failed to persist geometry", zap.String("region", regionID), zap.Error(err))
	}
}
