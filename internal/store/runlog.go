package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RunRecord is one pipeline run as kept in the run log
type RunRecord struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Mode       string    `json:"mode"`
	StartedAt  time.Time `gorm:"index" json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Fetched    int       `json:"fetched"`
	Inserted   int       `json:"inserted"`
	Enriched   int       `json:"enriched"`
	Duplicates int       `json:"duplicates"`
	Total      int       `json:"total"`
	Error      string    `json:"error,omitempty"`
}

// RunLog stores run history in SQLite
type RunLog struct {
	db *gorm.DB
}

// NewRunLog opens (or creates) the SQLite run log at path
func NewRunLog(path string) (*RunLog, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	if err := db.AutoMigrate(&RunRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate run log: %w", err)
	}
	return &RunLog{db: db}, nil
}

// Append stores a finished run
func (l *RunLog) Append(ctx context.Context, rec *RunRecord) error {
	if err := l.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to append run %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns the latest runs, newest first
func (l *RunLog) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []RunRecord
	if err := l.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func (l *RunLog) Close() {
	if sqlDB, err := l.db.DB(); err == nil {
		sqlDB.Close()
	}
}
