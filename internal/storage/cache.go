package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// CachedQuery is one memoized provider response, keyed by the exact
// query tuple. Rows are only ever inserted; comp data for a fixed
// query is treated as valid for the life of a session, so there is no
// eviction.
type CachedQuery struct {
	Key       string `gorm:"primaryKey"`
	Payload   string
	CreatedAt time.Time
}

func (CachedQuery) TableName() string {
	return "query_cache"
}

// QueryCache memoizes comparable-listings queries so repeated analyses
// near the same point do not burn provider quota.
type QueryCache struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func Open(path string, logger *logrus.Logger) (*QueryCache, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open query cache: %w", err)
	}
	if err := db.AutoMigrate(&CachedQuery{}); err != nil {
		return nil, fmt.Errorf("failed to migrate query cache: %w", err)
	}
	return &QueryCache{db: db, logger: logger}, nil
}

// Key builds the cache key for one provider call. Coordinates are
// rounded to six decimals so float noise does not defeat the cache.
func Key(category string, lat, lon, radiusMiles float64) string {
	return fmt.Sprintf("%s|%.6f|%.6f|%g", category, lat, lon, radiusMiles)
}

// Get returns the cached raw records for a key, or ok=false on a miss.
func (c *QueryCache) Get(key string) ([]map[string]any, bool) {
	var row CachedQuery
	if err := c.db.First(&row, "key = ?", key).Error; err != nil {
		return nil, false
	}

	var records []map[string]any
	if err := json.Unmarshal([]byte(row.Payload), &records); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Discarding unreadable cache entry")
		return nil, false
	}

	c.logger.WithFields(logrus.Fields{
		"key":   key,
		"count": len(records),
	}).Debug("Query cache hit")
	return records, true
}

// Put stores a successful provider response. Cache write failures are
// logged and swallowed; the analysis already has its data.
func (c *QueryCache) Put(key string, records []map[string]any) {
	payload, err := json.Marshal(records)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to encode cache entry")
		return
	}

	row := CachedQuery{Key: key, Payload: string(payload), CreatedAt: time.Now()}
	if err := c.db.Save(&row).Error; err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to write cache entry")
	}
}
