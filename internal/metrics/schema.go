package metrics

import "database/sql"

const createSchemaSQL = `
CREATE TABLE IF NOT EXISTS cpu_metrics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp DATETIME NOT NULL,
	avg_freq_khz INTEGER NOT NULL,
	cores_online INTEGER NOT NULL,
	temperature_c REAL
);

CREATE INDEX IF NOT EXISTS idx_cpu_metrics_timestamp ON cpu_metrics(timestamp);
`

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(createSchemaSQL)
	return err
}
