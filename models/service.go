package models

import (
	"time"
)

type RunnerStatus struct {
	Details map[string]string
}

type ServiceHealth struct {
	Name         string            `bson:"name" json:"name"`
	LastSyncTime time.Time         `bson:"last_sync_time" json:"lastSyncTime"`
	NextSyncTime time.Time         `bson:"next_sync_time" json:"nextSyncTime"`
	SkippedTicks int64             `bson:"skipped_ticks" json:"skippedTicks"`
	Details      map[string]string `bson:"details,omitempty" json:"details,omitempty"`
	Healthy      bool              `bson:"healthy" json:"healthy"`
}
