package model

import "time"

// Manifest describes one hosted snapshot release. The per-table SHA256
// markers let the resolver confirm a cached table is still current without
// downloading payload bytes.
type Manifest struct {
	Version     string                `json:"version"`
	GeneratedAt time.Time             `json:"generated_at"`
	Tables      map[string]TableAsset `json:"tables"`
}

type TableAsset struct {
	File     string `json:"file"`
	SHA256   string `json:"sha256"`
	Size     int64  `json:"size"`
	RowCount int    `json:"row_count"`
}

// Asset looks up the asset for a table name.
func (m *Manifest) Asset(table string) (TableAsset, bool) {
	a, ok := m.Tables[table]
	return a, ok
}
