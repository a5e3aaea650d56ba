package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// GroupType classifies an asset group.
type GroupType string

const (
	GroupTypeLogical    GroupType = "logical"
	GroupTypeLocation   GroupType = "location"
	GroupTypeDepartment GroupType = "department"
	GroupTypeCompliance GroupType = "compliance"
	GroupTypeCustom     GroupType = "custom"
	GroupTypeDynamic    GroupType = "dynamic"
)

var groupTypes = map[GroupType]bool{
	GroupTypeLogical:    true,
	GroupTypeLocation:   true,
	GroupTypeDepartment: true,
	GroupTypeCompliance: true,
	GroupTypeCustom:     true,
	GroupTypeDynamic:    true,
}

// Valid reports whether t is a known group type.
func (t GroupType) Valid() bool {
	return groupTypes[t]
}

// ParseGroupType converts a string into a GroupType.
func ParseGroupType(s string) (GroupType, error) {
	t := GroupType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown group type %q", s)
	}
	return t, nil
}

// GroupRules holds the equality predicates a dynamic group evaluates against
// the tenant's live assets. A nil field means the predicate is not applied.
type GroupRules struct {
	AssetType   *string `json:"assetType,omitempty"`
	Criticality *string `json:"criticality,omitempty"`
	MustContact *bool   `json:"mustContact,omitempty"`
}

// Empty reports whether no predicate is set.
func (r GroupRules) Empty() bool {
	return r.AssetType == nil && r.Criticality == nil && r.MustContact == nil
}

// Value implements driver.Valuer, storing rules as JSONB.
func (r GroupRules) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner.
func (r *GroupRules) Scan(value interface{}) error {
	if value == nil {
		*r = GroupRules{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("cannot scan %T into GroupRules", value)
	}
}

// AssetGroup is a node in the tenant's group forest. MemberCount is
// denormalized and must equal the number of live membership rows; it is
// adjusted in the same transaction as the membership writes.
type AssetGroup struct {
	ID            string     `gorm:"column:id;primaryKey"`
	OrgID         string     `gorm:"column:org_id;not null;uniqueIndex:idx_groups_org_name"`
	Name          string     `gorm:"column:name;not null;uniqueIndex:idx_groups_org_name"`
	Description   string     `gorm:"column:description"`
	GroupType     GroupType  `gorm:"column:group_type;not null"`
	ParentGroupID *string    `gorm:"column:parent_group_id;index"`
	IsDynamic     bool       `gorm:"column:is_dynamic;not null;default:false"`
	Rules         GroupRules `gorm:"column:rules;type:jsonb"`
	Icon          string     `gorm:"column:icon"`
	Color         string     `gorm:"column:color"`
	SortOrder     int        `gorm:"column:sort_order;not null;default:0"`
	MemberCount   int        `gorm:"column:member_count;not null;default:0"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (AssetGroup) TableName() string {
	return "asset_groups"
}

// GroupMembership is one asset's membership in one group, unique on
// (group_id, asset_id).
type GroupMembership struct {
	ID        string     `gorm:"column:id;primaryKey"`
	GroupID   string     `gorm:"column:group_id;not null;uniqueIndex:idx_memberships_group_asset"`
	AssetID   string     `gorm:"column:asset_id;not null;uniqueIndex:idx_memberships_group_asset"`
	AddedBy   string     `gorm:"column:added_by"`
	AddedAt   time.Time  `gorm:"column:added_at;autoCreateTime"`
	Notes     string     `gorm:"column:notes"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
}

func (GroupMembership) TableName() string {
	return "group_memberships"
}
