package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// TagDefinition is one tag within a default tag set template.
type TagDefinition struct {
	Name        string      `json:"name" yaml:"name"`
	Category    TagCategory `json:"category" yaml:"category"`
	Color       string      `json:"color" yaml:"color"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
}

// TagDefinitions stores a set's tag templates as JSONB.
type TagDefinitions []TagDefinition

// Value implements driver.Valuer.
func (d TagDefinitions) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *TagDefinitions) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("cannot scan %T into TagDefinitions", value)
	}
}

// DefaultTagSet is a system-level template. Sets that are both active and
// required are copied into every newly provisioned organization as system
// tags.
type DefaultTagSet struct {
	ID             string         `gorm:"column:id;primaryKey"`
	Name           string         `gorm:"column:name;not null;uniqueIndex"`
	TagDefinitions TagDefinitions `gorm:"column:tag_definitions;type:jsonb"`
	EntityTypes    pq.StringArray `gorm:"column:entity_types;type:text[]"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	IsRequired     bool           `gorm:"column:is_required;not null;default:false"`
	SortOrder      int            `gorm:"column:sort_order;not null;default:0"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (DefaultTagSet) TableName() string {
	return "default_tag_sets"
}

// DropdownOption is a single selectable value within a dropdown definition.
type DropdownOption struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// DropdownOptions stores a definition's options as JSONB.
type DropdownOptions []DropdownOption

// Value implements driver.Valuer.
func (o DropdownOptions) Value() (driver.Value, error) {
	return json.Marshal(o)
}

// Scan implements sql.Scanner.
func (o *DropdownOptions) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return fmt.Errorf("cannot scan %T into DropdownOptions", value)
	}
}

// DropdownDefinition is a dropdown vocabulary keyed by (category, name). A
// tenant-level row (org_id set) with the same key as a system row (org_id
// NULL) shadows it entirely; there is no field-level merge.
type DropdownDefinition struct {
	ID        string          `gorm:"column:id;primaryKey"`
	OrgID     *string         `gorm:"column:org_id;index"`
	Category  string          `gorm:"column:category;not null"`
	Name      string          `gorm:"column:name;not null"`
	Options   DropdownOptions `gorm:"column:options;type:jsonb"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	SortOrder int             `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (DropdownDefinition) TableName() string {
	return "dropdown_definitions"
}
