package model

import (
	"fmt"
	"time"
)

// EntityKind identifies which kind of platform entity a tagging points at.
// The (kind, entity id) pair is resolved to a concrete typed lookup by the
// caller; the engine only guarantees referential rules over the pair.
type EntityKind string

const (
	KindAsset         EntityKind = "asset"
	KindIncident      EntityKind = "incident"
	KindRunbook       EntityKind = "runbook"
	KindCommunication EntityKind = "communication"
	KindExercise      EntityKind = "exercise"
)

var entityKinds = map[EntityKind]bool{
	KindAsset:         true,
	KindIncident:      true,
	KindRunbook:       true,
	KindCommunication: true,
	KindExercise:      true,
}

// Valid reports whether k is a known entity kind.
func (k EntityKind) Valid() bool {
	return entityKinds[k]
}

// ParseEntityKind converts a string into an EntityKind.
func ParseEntityKind(s string) (EntityKind, error) {
	k := EntityKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown entity kind %q", s)
	}
	return k, nil
}

// Tagging links one tag to one entity instance. An entity cannot carry the
// same tag twice; the (tag_id, entity_kind, entity_id) unique index enforces
// that, and attaches rely on it for idempotency.
type Tagging struct {
	ID         string     `gorm:"column:id;primaryKey"`
	TagID      string     `gorm:"column:tag_id;not null;uniqueIndex:idx_taggings_tag_entity"`
	EntityKind EntityKind `gorm:"column:entity_kind;not null;uniqueIndex:idx_taggings_tag_entity"`
	EntityID   string     `gorm:"column:entity_id;not null;uniqueIndex:idx_taggings_tag_entity"`
	OrgID      string     `gorm:"column:org_id;not null;index"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Tagging) TableName() string {
	return "taggings"
}

// TagMerge records a completed merge for audit purposes.
type TagMerge struct {
	ID           string    `gorm:"column:id;primaryKey"`
	OrgID        string    `gorm:"column:org_id;not null;index"`
	SourceTagID  string    `gorm:"column:source_tag_id;not null"`
	SourceName   string    `gorm:"column:source_name;not null"`
	TargetTagID  string    `gorm:"column:target_tag_id;not null;index"`
	Repointed    int       `gorm:"column:repointed;not null"`
	DroppedDupes int       `gorm:"column:dropped_dupes;not null"`
	MergedBy     string    `gorm:"column:merged_by;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (TagMerge) TableName() string {
	return "tag_merges"
}
