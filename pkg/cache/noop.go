package cache

import "context"

// NopGateway is a Gateway that does nothing. Used in tests and in single-node
// deployments that run without a shared read cache.
type NopGateway struct{}

var _ Gateway = NopGateway{}

func (NopGateway) InvalidateTenantTags(context.Context, string) error     { return nil }
func (NopGateway) InvalidateTenantGroups(context.Context, string) error   { return nil }
func (NopGateway) InvalidateEffectiveConfig(context.Context, string) error { return nil }
