// Package model defines the database models for the governance engine.
//
// This package contains GORM models that map to the governance schema. All
// tenant-scoped tables carry an org_id column and enforce their uniqueness
// invariants at the database level.
//
// # Core Models
//
//   - Tag: named, categorized labels with a denormalized usage counter
//   - Tagging: polymorphic association between a tag and an entity
//   - Asset: the minimal asset surface needed for dynamic group rules
//   - AssetGroup: hierarchical, optionally rule-computed asset grouping
//   - GroupMembership: asset membership in a group
//   - DefaultTagSet: system-level tag provisioning template
//   - DropdownDefinition: system or tenant-level dropdown vocabulary
//
// # Database Schema
//
// The database uses PostgreSQL with the following key tables:
//
//   - tags: tenant tags, unique on (org_id, name)
//   - taggings: tag associations, unique on (tag_id, entity_kind, entity_id),
//     cascade-deleted with their tag
//   - assets: asset attributes consulted by dynamic group rules
//   - asset_groups: group tree, unique on (org_id, name)
//   - group_memberships: unique on (group_id, asset_id), cascade-deleted with
//     their group
//   - default_tag_sets: system provisioning templates
//   - dropdown_definitions: layered dropdown vocabularies (org_id NULL means
//     system level)
package model
