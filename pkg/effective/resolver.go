// Package effective resolves the configuration a tenant actually operates
// under: system-level defaults layered beneath tenant overrides, plus the
// provisioning path that instantiates required default tag sets into a fresh
// organization.
package effective

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborcase/govern/pkg/cache"
	"github.com/harborcase/govern/pkg/errs"
	"github.com/harborcase/govern/pkg/model"
	"github.com/harborcase/govern/pkg/store"
)

// Source names the layer a resolved entry came from.
type Source string

const (
	SourceSystem       Source = "system"
	SourceOrganization Source = "organization"
)

// Resolver serves effective configuration reads and provisioning.
type Resolver struct {
	store   store.ConfigStore
	gateway cache.Gateway
	log     *zap.Logger
}

// NewResolver creates a resolver.
func NewResolver(st store.ConfigStore, gw cache.Gateway, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{store: st, gateway: gw, log: log}
}

// ResolvedDropdown is a dropdown definition after layer resolution, annotated
// with the layer it came from.
type ResolvedDropdown struct {
	Category  string
	Name      string
	Options   model.DropdownOptions
	SortOrder int
	Source    Source
}

// MergedDropdowns resolves the dropdown vocabulary a tenant sees: system
// definitions overlaid by the tenant's own, keyed by (category, name). A
// tenant definition shadows the system one entirely. Pass an empty category
// to resolve all categories.
func (r *Resolver) MergedDropdowns(ctx context.Context, orgID, category string) ([]ResolvedDropdown, error) {
	if orgID == "" {
		return nil, errs.Validation("org id is required")
	}

	system, err := r.store.ListSystemDropdowns(ctx, category)
	if err != nil {
		return nil, err
	}
	tenant, err := r.store.ListOrgDropdowns(ctx, orgID, category)
	if err != nil {
		return nil, err
	}

	layers := []layer[model.DropdownDefinition]{
		{source: SourceSystem, entries: system},
		{source: SourceOrganization, entries: tenant},
	}
	resolved := foldLayers(layers, func(d model.DropdownDefinition) dropdownKey {
		return dropdownKey{category: d.Category, name: d.Name}
	})

	out := make([]ResolvedDropdown, 0, len(resolved))
	for _, entry := range resolved {
		out = append(out, ResolvedDropdown{
			Category:  entry.value.Category,
			Name:      entry.value.Name,
			Options:   entry.value.Options,
			SortOrder: entry.value.SortOrder,
			Source:    entry.source,
		})
	}
	sortResolved(out)
	return out, nil
}

// ProvisionResult reports what provisioning did for one organization.
type ProvisionResult struct {
	OrgID string
	// SetsApplied is the number of active, required default tag sets visited.
	SetsApplied int
	// TagsCreated counts tags actually inserted this run.
	TagsCreated int
	// TagsSkipped counts definitions whose name already existed in the org.
	TagsSkipped int
}

// ProvisionOrganization instantiates every active and required default tag
// set into the organization as system tags. Names already present in the org
// are skipped, so re-running provisioning never duplicates tags.
func (r *Resolver) ProvisionOrganization(ctx context.Context, orgID string) (*ProvisionResult, error) {
	if orgID == "" {
		return nil, errs.Validation("org id is required")
	}

	sets, err := r.store.ListDefaultTagSets(ctx, true, true)
	if err != nil {
		return nil, err
	}

	result := &ProvisionResult{OrgID: orgID, SetsApplied: len(sets)}
	err = r.store.Transaction(func(tx store.ConfigStore) error {
		for _, set := range sets {
			for _, def := range set.TagDefinitions {
				inserted, err := tx.InsertSystemTag(ctx, &model.Tag{
					ID:          uuid.NewString(),
					OrgID:       orgID,
					Name:        def.Name,
					Category:    def.Category,
					Color:       def.Color,
					Description: def.Description,
					IsSystem:    true,
				})
				if err != nil {
					return err
				}
				if inserted {
					result.TagsCreated++
				} else {
					result.TagsSkipped++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("organization provisioned",
		zap.String("org_id", orgID),
		zap.Int("sets_applied", result.SetsApplied),
		zap.Int("tags_created", result.TagsCreated),
		zap.Int("tags_skipped", result.TagsSkipped))

	if err := r.gateway.InvalidateTenantTags(ctx, orgID); err != nil {
		return result, err
	}
	if err := r.gateway.InvalidateEffectiveConfig(ctx, orgID); err != nil {
		return result, err
	}
	return result, nil
}

// EffectiveTagSet is the read-only union of the system's required tag
// definitions and the organization's own tags.
type EffectiveTagSet struct {
	OrgID string
	Tags  []model.Tag
	// MissingMandatory lists required definition names the org has no tag
	// for, usually a sign provisioning has not run since the set changed.
	MissingMandatory []string
}

// EffectiveTags resolves the tag vocabulary in effect for an organization.
func (r *Resolver) EffectiveTags(ctx context.Context, orgID string) (*EffectiveTagSet, error) {
	if orgID == "" {
		return nil, errs.Validation("org id is required")
	}

	tags, err := r.store.ListTagsByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	sets, err := r.store.ListDefaultTagSets(ctx, true, true)
	if err != nil {
		return nil, err
	}

	have := make(map[string]bool, len(tags))
	for _, tag := range tags {
		have[tag.Name] = true
	}

	result := &EffectiveTagSet{OrgID: orgID, Tags: tags}
	seen := make(map[string]bool)
	for _, set := range sets {
		for _, def := range set.TagDefinitions {
			if have[def.Name] || seen[def.Name] {
				continue
			}
			seen[def.Name] = true
			result.MissingMandatory = append(result.MissingMandatory, def.Name)
		}
	}
	return result, nil
}
