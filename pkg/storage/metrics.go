package storage

import (
	"fmt"

	"github.com/Chidera261/koraDB/pkg/domain"
	"github.com/VictoriaMetrics/metrics"
)

// Metric names are shared with the /metrics endpoint. Collection names are
// restricted to [A-Za-z0-9_-] so they are safe as label values.

func countOperation(collection, op string, status domain.Status) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`koradb_operations_total{collection=%q,op=%q,code="%d"}`,
		collection, op, status.Code)).Inc()
}

func countCacheLookup(collection string, hit bool) {
	name := "koradb_cache_misses_total"
	if hit {
		name = "koradb_cache_hits_total"
	}
	metrics.GetOrCreateCounter(fmt.Sprintf(`%s{collection=%q}`, name, collection)).Inc()
}

func countPhysicalWrite(collection string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.GetOrCreateCounter(fmt.Sprintf(`koradb_physical_writes_total{collection=%q,result=%q}`,
		collection, result)).Inc()
}
