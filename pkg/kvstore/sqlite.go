package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// entry is the single table behind the SQLite-backed store. The on-device
// storage the storefront mirrors is itself a key-value table over SQLite.
type entry struct {
	Key       string    `gorm:"column:k;primaryKey"`
	Value     string    `gorm:"column:v"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (entry) TableName() string {
	return "kv_entries"
}

// SQLite persists snapshots in a local database file via GORM.
type SQLite struct {
	conn *gorm.DB
}

// OpenSQLite opens (or creates) the database file and migrates the kv table.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}

	if err := conn.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrating kv table: %w", err)
	}

	return &SQLite{conn: conn}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var row entry
	err := s.conn.WithContext(ctx).First(&row, "k = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	row := entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "k"}},
			DoUpdates: clause.AssignmentColumns([]string{"v", "updated_at"}),
		}).
		Create(&row).Error
}

func (s *SQLite) Remove(ctx context.Context, key string) error {
	return s.conn.WithContext(ctx).Delete(&entry{}, "k = ?", key).Error
}

// Close shuts down the underlying connection.
func (s *SQLite) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
