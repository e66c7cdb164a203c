package models

import (
	"time"

	"gorm.io/gorm"
)

// Document represents the documents table: one row per stored
// key-value document. The whole State Document lives in a single row.
type Document struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Blob      []byte    `gorm:"type:longblob;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}

// AutoMigrate creates tables for all registered models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Document{},
	)
}
