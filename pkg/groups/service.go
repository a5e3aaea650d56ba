// Package groups implements the asset group hierarchy of the governance
// engine: a tenant-scoped forest of groups with manual or rule-computed
// membership and a denormalized member counter.
//
// Counter deltas are applied in the same transaction as the membership rows
// they describe, by the number of rows actually changed. Dynamic groups own
// their membership: it is recomputed by full replacement, never patched by
// hand.
package groups

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborcase/govern/pkg/cache"
	"github.com/harborcase/govern/pkg/errs"
	"github.com/harborcase/govern/pkg/model"
	"github.com/harborcase/govern/pkg/store"
)

// dynamicAddedBy marks membership rows written by rule evaluation.
const dynamicAddedBy = "system:dynamic"

// Service exposes asset group operations to the application layer.
type Service struct {
	store   store.GroupsStore
	gateway cache.Gateway
	log     *zap.Logger
}

// NewService creates a group service.
func NewService(st store.GroupsStore, gw cache.Gateway, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, gateway: gw, log: log}
}

// NewGroup carries the caller-supplied fields for group creation.
type NewGroup struct {
	Name          string
	Description   string
	GroupType     model.GroupType
	ParentGroupID *string
	IsDynamic     bool
	Rules         model.GroupRules
	Icon          string
	Color         string
	SortOrder     int
}

// GroupPatch carries optional updates to a group. Nil fields are left
// unchanged. SetParent distinguishes "reparent to nil" (detach to root) from
// "leave the parent alone".
type GroupPatch struct {
	Name          *string
	Description   *string
	GroupType     *model.GroupType
	SetParent     bool
	ParentGroupID *string
	Rules         *model.GroupRules
	Icon          *string
	Color         *string
	SortOrder     *int
}

// GetGroup returns one group.
func (s *Service) GetGroup(ctx context.Context, orgID, id string) (*model.AssetGroup, error) {
	return s.store.GetGroup(ctx, orgID, id)
}

// Create creates a group. Fails with errs.ErrConflict when the name is taken
// within the org.
func (s *Service) Create(ctx context.Context, orgID string, in NewGroup) (*model.AssetGroup, error) {
	if orgID == "" {
		return nil, errs.Validation("org id is required")
	}
	if in.Name == "" {
		return nil, errs.Validation("group name is required")
	}
	if !in.GroupType.Valid() {
		return nil, errs.Validation("unknown group type %q", in.GroupType)
	}
	if in.IsDynamic && in.Rules.Empty() {
		return nil, errs.Validation("dynamic group requires at least one rule")
	}
	if !in.IsDynamic && !in.Rules.Empty() {
		return nil, errs.Validation("rules are only valid on dynamic groups")
	}
	if in.ParentGroupID != nil {
		if _, err := s.store.GetGroup(ctx, orgID, *in.ParentGroupID); err != nil {
			return nil, err
		}
	}

	group := &model.AssetGroup{
		ID:            uuid.NewString(),
		OrgID:         orgID,
		Name:          in.Name,
		Description:   in.Description,
		GroupType:     in.GroupType,
		ParentGroupID: in.ParentGroupID,
		IsDynamic:     in.IsDynamic,
		Rules:         in.Rules,
		Icon:          in.Icon,
		Color:         in.Color,
		SortOrder:     in.SortOrder,
	}
	if err := s.store.InsertGroup(ctx, group); err != nil {
		return nil, err
	}

	created, err := s.store.GetGroup(ctx, orgID, group.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("group created",
		zap.String("org_id", orgID),
		zap.String("group_id", group.ID),
		zap.String("name", group.Name))

	if err := s.gateway.InvalidateTenantGroups(ctx, orgID); err != nil {
		return created, err
	}
	return created, nil
}

// Update applies a patch to a group. Reparenting validates that the new
// ancestor chain does not loop back through the group itself.
func (s *Service) Update(ctx context.Context, orgID, id string, patch GroupPatch) (*model.AssetGroup, error) {
	group, err := s.store.GetGroup(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, errs.Validation("group name is required")
		}
		group.Name = *patch.Name
	}
	if patch.Description != nil {
		group.Description = *patch.Description
	}
	if patch.GroupType != nil {
		if !patch.GroupType.Valid() {
			return nil, errs.Validation("unknown group type %q", *patch.GroupType)
		}
		group.GroupType = *patch.GroupType
	}
	if patch.Rules != nil {
		if !group.IsDynamic {
			return nil, errs.Validation("rules are only valid on dynamic groups")
		}
		if patch.Rules.Empty() {
			return nil, errs.Validation("dynamic group requires at least one rule")
		}
		group.Rules = *patch.Rules
	}
	if patch.Icon != nil {
		group.Icon = *patch.Icon
	}
	if patch.Color != nil {
		group.Color = *patch.Color
	}
	if patch.SortOrder != nil {
		group.SortOrder = *patch.SortOrder
	}
	if patch.SetParent {
		if err := s.validateReparent(ctx, orgID, id, patch.ParentGroupID); err != nil {
			return nil, err
		}
		group.ParentGroupID = patch.ParentGroupID
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}

	updated, err := s.store.GetGroup(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if err := s.gateway.InvalidateTenantGroups(ctx, orgID); err != nil {
		return updated, err
	}
	return updated, nil
}

// Delete removes a group: children are detached to the root (not deleted),
// memberships are removed, assets themselves are untouched.
func (s *Service) Delete(ctx context.Context, orgID, id string) (*model.AssetGroup, error) {
	group, err := s.store.GetGroup(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	var detached, removed int
	err = s.store.Transaction(func(tx store.GroupsStore) error {
		n, err := tx.DetachChildren(ctx, orgID, id)
		if err != nil {
			return err
		}
		detached = n

		m, err := tx.DeleteAllMemberships(ctx, id)
		if err != nil {
			return err
		}
		removed = m

		return tx.DeleteGroup(ctx, orgID, id)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("group deleted",
		zap.String("org_id", orgID),
		zap.String("group_id", id),
		zap.Int("children_detached", detached),
		zap.Int("memberships_removed", removed))

	if err := s.gateway.InvalidateTenantGroups(ctx, orgID); err != nil {
		return group, err
	}
	return group, nil
}
