package dbmetrics

import (
	"database/sql"
	"time"

	"github.com/m04kA/SMC-SmartQueue/pkg/metrics"
)

// DefaultPoolStatsInterval интервал сбора статистики пула соединений
const DefaultPoolStatsInterval = 15 * time.Second

func collectPoolStats(db *sql.DB, m *metrics.Metrics, interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		recordPoolStats(db.Stats(), m)
		select {
		case <-ticker.C:
		case <-stopCh:
			return
		}
	}
}

func recordPoolStats(stats sql.DBStats, m *metrics.Metrics) {
	m.DBOpenConnections.Set(float64(stats.OpenConnections))
	m.DBInUse.Set(float64(stats.InUse))
	m.DBIdle.Set(float64(stats.Idle))
	m.DBWaitCount.Set(float64(stats.WaitCount))
}
