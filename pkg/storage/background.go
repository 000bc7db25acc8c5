package storage

import (
	"runtime"
)

// DatabaseStats is a snapshot of process and per-collection state
type DatabaseStats struct {
	AllocMB       uint64            `json:"alloc_mb"`
	SysMB         uint64            `json:"sys_mb"`
	NumGoroutines int               `json:"num_goroutines"`
	DataDir       string            `json:"data_dir"`
	Collections   []CollectionStats `json:"collections"`
}

// Stats returns memory usage and the state of every opened collection
func (db *Database) Stats() DatabaseStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := DatabaseStats{
		AllocMB:       m.Alloc / 1024 / 1024,
		SysMB:         m.Sys / 1024 / 1024,
		NumGoroutines: runtime.NumGoroutine(),
		DataDir:       db.cfg.DataDir,
		Collections:   []CollectionStats{},
	}
	for _, name := range db.Collections() {
		if coll, ok := db.collections.Load(name); ok {
			stats.Collections = append(stats.Collections, coll.Stats())
		}
	}
	return stats
}
