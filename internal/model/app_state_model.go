package model

import (
	"time"

	"gorm.io/datatypes"
)

// AppState is the single-row durable form of the snapshot when the Postgres
// backend is selected. Key is the state key; Payload holds the whole
// serialized snapshot.
type AppState struct {
	Key       string         `gorm:"type:text;primaryKey"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (AppState) TableName() string {
	return "app_states"
}
