package models

import (
	"time"
)

const (
	CollectionHealthChecks = "healthchecks"
)

type Health struct {
	Hostname       string          `bson:"hostname" json:"hostname"`
	ServiceHealths []ServiceHealth `bson:"service_healths" json:"serviceHealths"`
	CreatedAt      time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `bson:"updated_at" json:"updatedAt"`
}
