package ledger

import "errors"

// Usage is the coarse usage counter record. Every field only grows.
type Usage struct {
	ToolsUsed      int64 `json:"toolsUsed"`
	CharsProcessed int64 `json:"charsProcessed"`
	StorageSaved   int64 `json:"storageSaved"`
}

// Storage keys, unchanged from the browser app so exported data lines up.
const (
	UsageKey  = "toolstation_stats"
	RecentKey = "recentTools"
)

// MaxRecent bounds the recent-tools list.
const MaxRecent = 8

var ErrEmptyToolID = errors.New("tool id is empty")
