package metrics

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/mutker/cpuctl/internal/errors"
	"codeberg.org/mutker/cpuctl/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

const defaultDirPerm = 0o755

type repository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(errors.ErrInvalidDBPath)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(errors.ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  cfg.DBPath,
			Error: err.Error(),
		})
	}

	dsn := cfg.DBPath + "?_journal=WAL&_auto_vacuum=2"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(errors.ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, errFactory.WithData(errors.ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "create_schema",
			Error: err.Error(),
		})
	}

	logger.Info().Str("path", cfg.DBPath).Msg("Metrics repository initialized")

	return &repository{db: db}, nil
}

func (r *repository) Record(snapshot *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	temperature := sql.NullFloat64{Float64: snapshot.TempC, Valid: snapshot.TempOK}

	_, err := r.db.Exec(
		`INSERT INTO cpu_metrics (timestamp, avg_freq_khz, cores_online, temperature_c)
		 VALUES (?, ?, ?, ?)`,
		snapshot.Timestamp, snapshot.AvgFreqKHz, snapshot.Cores, temperature,
	)

	return err
}

func (r *repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.db.Close()
}
