package model

import (
	"fmt"
	"time"
)

// TagCategory classifies a tag within a tenant's vocabulary.
type TagCategory string

const (
	CategoryLocation     TagCategory = "location"
	CategoryDepartment   TagCategory = "department"
	CategoryCriticality  TagCategory = "criticality"
	CategoryCompliance   TagCategory = "compliance"
	CategoryIncidentType TagCategory = "incident_type"
	CategorySkill        TagCategory = "skill"
	CategoryCustom       TagCategory = "custom"
)

var tagCategories = map[TagCategory]bool{
	CategoryLocation:     true,
	CategoryDepartment:   true,
	CategoryCriticality:  true,
	CategoryCompliance:   true,
	CategoryIncidentType: true,
	CategorySkill:        true,
	CategoryCustom:       true,
}

// Valid reports whether c is a known tag category.
func (c TagCategory) Valid() bool {
	return tagCategories[c]
}

// ParseTagCategory converts a string into a TagCategory.
func ParseTagCategory(s string) (TagCategory, error) {
	c := TagCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown tag category %q", s)
	}
	return c, nil
}

// Tag represents a tenant-scoped label attachable to entities.
//
// UsageCount is denormalized and tracks the number of live taggings that
// reference this tag. It is only ever adjusted in the same transaction as the
// tagging writes that cause it.
type Tag struct {
	ID          string      `gorm:"column:id;primaryKey"`
	OrgID       string      `gorm:"column:org_id;not null;uniqueIndex:idx_tags_org_name"`
	Name        string      `gorm:"column:name;not null;uniqueIndex:idx_tags_org_name"`
	Category    TagCategory `gorm:"column:category;not null"`
	Color       string      `gorm:"column:color"`
	Description string      `gorm:"column:description"`
	IsSystem    bool        `gorm:"column:is_system;not null;default:false"`
	UsageCount  int         `gorm:"column:usage_count;not null;default:0"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Tag) TableName() string {
	return "tags"
}
