package groups

import (
	"context"

	"github.com/harborcase/govern/pkg/errs"
	"github.com/harborcase/govern/pkg/model"
)

// GroupNode is a group with its resolved children, as served by GetTree.
type GroupNode struct {
	model.AssetGroup
	Children []*GroupNode
}

// GetTree returns the tenant's groups as a forest. Groups whose parent is
// missing or belongs to another tenant surface as roots rather than vanishing.
func (s *Service) GetTree(ctx context.Context, orgID string) ([]*GroupNode, error) {
	flat, err := s.store.ListGroups(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return buildForest(flat), nil
}

// GetPath returns the ancestor chain of a group, root first, ending with the
// group itself. A visited guard keeps a corrupted parent cycle from looping
// forever.
func (s *Service) GetPath(ctx context.Context, orgID, groupID string) ([]model.AssetGroup, error) {
	flat, err := s.store.ListGroups(ctx, orgID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.AssetGroup, len(flat))
	for _, g := range flat {
		byID[g.ID] = g
	}
	if _, ok := byID[groupID]; !ok {
		return nil, errs.NotFound("group %s", groupID)
	}

	var path []model.AssetGroup
	visited := make(map[string]bool)
	id := groupID
	for {
		if visited[id] {
			break
		}
		visited[id] = true

		g, ok := byID[id]
		if !ok {
			break
		}
		path = append(path, g)
		if g.ParentGroupID == nil {
			break
		}
		id = *g.ParentGroupID
	}

	// Reverse in place so the root comes first.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// validateReparent rejects a new parent that would make the group its own
// ancestor. A nil parent always passes.
func (s *Service) validateReparent(ctx context.Context, orgID, groupID string, newParentID *string) error {
	if newParentID == nil {
		return nil
	}
	if *newParentID == groupID {
		return errs.Validation("group cannot be its own parent")
	}

	flat, err := s.store.ListGroups(ctx, orgID)
	if err != nil {
		return err
	}
	byID := make(map[string]model.AssetGroup, len(flat))
	for _, g := range flat {
		byID[g.ID] = g
	}
	if _, ok := byID[*newParentID]; !ok {
		return errs.NotFound("group %s", *newParentID)
	}

	visited := make(map[string]bool)
	id := *newParentID
	for {
		if id == groupID {
			return errs.Validation("reparenting would create a cycle through group %s", groupID)
		}
		if visited[id] {
			return nil
		}
		visited[id] = true

		g, ok := byID[id]
		if !ok || g.ParentGroupID == nil {
			return nil
		}
		id = *g.ParentGroupID
	}
}

func buildForest(flat []model.AssetGroup) []*GroupNode {
	nodes := make(map[string]*GroupNode, len(flat))
	for i := range flat {
		nodes[flat[i].ID] = &GroupNode{AssetGroup: flat[i]}
	}

	var roots []*GroupNode
	for _, g := range flat {
		node := nodes[g.ID]
		if g.ParentGroupID != nil {
			if parent, ok := nodes[*g.ParentGroupID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
