package model

import (
	"time"

	"gorm.io/gorm"
)

// Asset carries the attributes dynamic group rules evaluate against. The full
// asset record (contacts, runbook links, evidence) is owned by the enclosing
// application; the engine only reads the columns below.
type Asset struct {
	ID          string         `gorm:"column:id;primaryKey"`
	OrgID       string         `gorm:"column:org_id;not null;index"`
	Name        string         `gorm:"column:name;not null"`
	AssetType   string         `gorm:"column:asset_type"`
	Criticality string         `gorm:"column:criticality"`
	MustContact bool           `gorm:"column:must_contact;not null;default:false"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Asset) TableName() string {
	return "assets"
}
